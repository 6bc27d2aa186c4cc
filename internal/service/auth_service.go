// Package service implements the account registration, login and refresh
// flows on top of injected password, token and user-store capabilities.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/accounts-service/internal/model"
	"github.com/iliyamo/accounts-service/internal/repository"
)

// PasswordEncoder hashes passwords and compares them against stored hashes.
// Compare reports a mismatch as false, never as an error.
type PasswordEncoder interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// TokenService signs bearer and refresh tokens and verifies refresh tokens.
type TokenService interface {
	SignBearerToken(p model.TokenPayload) (string, error)
	SignRefreshToken(p model.TokenPayload) (string, error)
	VerifyRefreshToken(token string) (model.TokenPayload, error)
}

// UserStore persists users. Create must return repository.ErrEmailExists
// when the unique email index rejects the row, and FindByEmail reports a
// miss with found=false.
type UserStore interface {
	Create(ctx context.Context, u model.NewUser) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
}

const duplicateEmailMessage = "User account with the provided e-mail address already exists"

// AuthService holds no state of its own and is safe for concurrent use.
type AuthService struct {
	users   UserStore
	encoder PasswordEncoder
	tokens  TokenService
}

func NewAuthService(users UserStore, encoder PasswordEncoder, tokens TokenService) *AuthService {
	return &AuthService{users: users, encoder: encoder, tokens: tokens}
}

// Register hashes the password and creates the account. enabled is decided
// by the caller's policy: self-service signups and admin provisioning differ.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, enabled bool) (model.UserPrivate, error) {
	hash, err := s.encoder.Hash(req.Password)
	if err != nil {
		return model.UserPrivate{}, fmt.Errorf("hash password: %w", err)
	}
	created, err := s.users.Create(ctx, model.NewUser{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RoleUser,
		Enabled:      enabled,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.UserPrivate{}, &UniqueConstraintError{Field: "email", Message: duplicateEmailMessage}
		}
		return model.UserPrivate{}, fmt.Errorf("create user: %w", err)
	}
	return created.Private(), nil
}

// Login verifies credentials, then the account gates, and issues a bearer
// and a refresh token for the user's email.
func (s *AuthService) Login(ctx context.Context, c model.Credentials) (model.LoginResult, error) {
	u, found, err := s.users.FindByEmail(ctx, c.Email)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return model.LoginResult{}, ErrInvalidCredentials
	}
	if !s.encoder.Compare(c.Password, u.PasswordHash) {
		return model.LoginResult{}, ErrInvalidCredentials
	}
	if err := checkAccount(u); err != nil {
		return model.LoginResult{}, err
	}

	payload := model.TokenPayload{Email: u.Email}
	bearer, err := s.tokens.SignBearerToken(payload)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("sign bearer token: %w", err)
	}
	refresh, err := s.tokens.SignRefreshToken(payload)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return model.LoginResult{User: u.Private(), BearerToken: bearer, RefreshToken: refresh}, nil
}

// Refresh exchanges a valid refresh token for a new bearer token. The
// refresh token itself is not rotated and stays valid until it expires.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	res, err := s.RefreshSession(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	return res.BearerToken, nil
}

// RefreshSession is Refresh that also reports whose session was refreshed.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (model.RefreshResult, error) {
	payload, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return model.RefreshResult{}, err
	}
	u, found, err := s.users.FindByEmail(ctx, payload.Email)
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("find user: %w", err)
	}
	if !found {
		return model.RefreshResult{}, ErrInvalidCredentials
	}
	if err := checkAccount(u); err != nil {
		return model.RefreshResult{}, err
	}
	bearer, err := s.tokens.SignBearerToken(model.TokenPayload{Email: payload.Email})
	if err != nil {
		return model.RefreshResult{}, fmt.Errorf("sign bearer token: %w", err)
	}
	return model.RefreshResult{UserID: u.ID, Email: u.Email, BearerToken: bearer}, nil
}

// checkAccount applies the account gates. Deactivation is checked first.
func checkAccount(u model.User) error {
	if !u.Active {
		return ErrAccountDeactivated
	}
	if !u.Enabled {
		return ErrAccountNotEnabled
	}
	return nil
}
