package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"school_admin_backend/internal/config"
	"school_admin_backend/internal/mailer"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"
	"school_admin_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetKeyPrefix = "pwreset:"

// PasswordResetService issues one-shot, time-limited reset tokens. The
// token is an opaque UUID held in Redis with a TTL; confirming consumes
// it.
type PasswordResetService struct {
	UserRepo *repository.UserRepository
	Redis    *redis.Client
	Mailer   mailer.Mailer
	Cfg      *config.Config
}

func NewPasswordResetService(
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	m mailer.Mailer,
	cfg *config.Config,
) *PasswordResetService {
	return &PasswordResetService{
		UserRepo: userRepo,
		Redis:    rdb,
		Mailer:   m,
		Cfg:      cfg,
	}
}

// Request emails a reset link for the account registered under email.
func (s *PasswordResetService) Request(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrEmailNotFound
		}
		return err
	}

	token := uuid.NewString()
	key := resetKeyPrefix + token
	if err := s.Redis.Set(ctx, key, user.ID, s.Cfg.Mail.ResetTokenTimeout).Err(); err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password/%s/", s.Cfg.Mail.FrontendBaseURL, token)
	body := fmt.Sprintf("Click the link to reset your password: %s", resetLink)

	if err := s.Mailer.Send(user.Email, "Reset your password", body); err != nil {
		logger.Log.Error("password reset mail delivery failed",
			zap.Uint("userId", user.ID), zap.Error(err))
		return err
	}

	logger.Log.Info("password reset link sent", zap.Uint("userId", user.ID))
	return nil
}

// Confirm validates the token, sets the new password hash and deletes
// the token so it cannot be replayed.
func (s *PasswordResetService) Confirm(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return util.ErrInvalidResetToken
	}

	key := resetKeyPrefix + token
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return util.ErrInvalidResetToken
		}
		return err
	}

	userID, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return util.ErrInvalidResetToken
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.UserRepo.UpdatePassword(uint(userID), hashed); err != nil {
		return err
	}

	return s.Redis.Del(ctx, key).Err()
}
