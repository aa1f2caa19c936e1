package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"hrms/internal/domain/apperr"
	"hrms/internal/platform/clock"
)

var ErrInvalidCredentials = apperr.Validation("invalid_credentials", "invalid email or password")

type Service struct {
	Store    StoreAPI
	Clock    clock.Clock
	Secret   string
	TokenTTL time.Duration
}

func NewService(store StoreAPI, clk clock.Clock, secret string, ttl time.Duration) *Service {
	return &Service{Store: store, Clock: clk, Secret: secret, TokenTTL: ttl}
}

type LoginResult struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	UserID     string    `json:"userId"`
	EmployeeID string    `json:"employeeId,omitempty"`
	Role       string    `json:"role"`
}

func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	user, err := s.Store.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return LoginResult{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return LoginResult{}, ErrInvalidCredentials
	}
	if !ValidRole(user.Role) {
		return LoginResult{}, errors.New("user has unknown role " + user.Role)
	}

	now := s.Clock.Now()
	token, err := GenerateToken(s.Secret, Claims{UserID: user.ID, EmployeeID: user.EmployeeID, Role: user.Role}, now, s.TokenTTL)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{
		Token:      token,
		ExpiresAt:  now.Add(s.TokenTTL),
		UserID:     user.ID,
		EmployeeID: user.EmployeeID,
		Role:       user.Role,
	}, nil
}
