package service

import (
	"errors"
	"school_admin_backend/internal/config"
	"school_admin_backend/internal/model"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type LoginResult struct {
	Token    string     `json:"token"`
	UserID   uint       `json:"userId"`
	Username string     `json:"username"`
	Role     model.Role `json:"role"`
	FullName string     `json:"fullName"`
}

func (s *AuthService) Login(username, password string) (*LoginResult, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	_ = s.UserRepo.UpdateLastLogin(user.ID)

	return &LoginResult{
		Token:    token,
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		FullName: user.FullName(),
	}, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}

// HashPassword bcrypt-hashes a plaintext credential.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
