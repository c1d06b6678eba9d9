package controller

import (
	"errors"
	"net/http"

	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps service sentinel errors onto the response
// envelope. Visibility misses arrive here as ErrNotFound and stay 404.
func handleServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	case errors.Is(err, util.ErrNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrEmailNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrDuplicateKey):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrProfileNotFound),
		errors.Is(err, util.ErrAlreadySubmitted),
		errors.Is(err, util.ErrQuestionNotInExam),
		errors.Is(err, util.ErrQuestionCount),
		errors.Is(err, util.ErrAnswerCount),
		errors.Is(err, util.ErrInvalidDate),
		errors.Is(err, util.ErrInvalidResetToken):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
