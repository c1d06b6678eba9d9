package controller

import (
	"school_admin_backend/internal/service"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type PasswordResetController struct {
	Reset *service.PasswordResetService
}

func NewPasswordResetController(reset *service.PasswordResetService) *PasswordResetController {
	return &PasswordResetController{Reset: reset}
}

type ResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetConfirmRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=6"`
}

// RequestReset godoc
// @Summary 请求密码重置邮件
// @Tags 认证
// @Accept json
// @Produce json
// @Param body body ResetRequest true "注册邮箱"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "邮箱未注册"
// @Router /api/password-reset [post]
func (c *PasswordResetController) RequestReset(ctx *gin.Context) {
	var req ResetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Reset.Request(ctx.Request.Context(), req.Email); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Password reset link sent."})
}

// ConfirmReset godoc
// @Summary 确认密码重置（令牌一次性有效）
// @Tags 认证
// @Accept json
// @Produce json
// @Param token path string true "重置令牌"
// @Param body body ResetConfirmRequest true "新密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/password-reset-confirm/{token} [post]
func (c *PasswordResetController) ConfirmReset(ctx *gin.Context) {
	var req ResetConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.Reset.Confirm(ctx.Request.Context(), ctx.Param("token"), req.NewPassword); err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"message": "Password has been reset."})
}
