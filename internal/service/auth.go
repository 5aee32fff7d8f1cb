package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"wisefood/internal/apperr"
	"wisefood/internal/model"
)

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Account, error) {
	var a model.Account
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorizedf("invalid credentials")
		}
		return nil, apperr.Internalf(err, "load account")
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) != nil {
		return nil, apperr.Unauthorizedf("invalid credentials")
	}
	return &a, nil
}
