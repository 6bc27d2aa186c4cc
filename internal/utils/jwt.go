package utils // package utils provides the password and token primitives used by the auth service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/iliyamo/accounts-service/internal/model"
)

var (
	// ErrInvalidToken is returned for malformed, tampered or mistyped tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's exp claim has passed.
	ErrExpiredToken = errors.New("token has expired")
)

const (
	tokenTypeBearer  = "bearer"
	tokenTypeRefresh = "refresh"
)

// TokenConfig holds the signing parameters for both token kinds. Bearer and
// refresh tokens are signed with separate secrets so a leaked bearer key
// cannot mint refresh tokens.
type TokenConfig struct {
	BearerSecret  string
	BearerTTL     time.Duration
	RefreshSecret string
	RefreshTTL    time.Duration
	Issuer        string
}

// Claims is the JWT body shared by both token kinds.
type Claims struct {
	Email     string `json:"email"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 bearer and refresh tokens.
type JWTService struct {
	cfg TokenConfig
	now func() time.Time
}

// NewJWTService returns a JWTService for cfg.
func NewJWTService(cfg TokenConfig) *JWTService {
	return &JWTService{cfg: cfg, now: time.Now}
}

// SignBearerToken issues a short-lived token authorising later requests.
func (s *JWTService) SignBearerToken(p model.TokenPayload) (string, error) {
	return s.sign(p, tokenTypeBearer, s.cfg.BearerSecret, s.cfg.BearerTTL)
}

// SignRefreshToken issues a long-lived token that can only mint bearer tokens.
func (s *JWTService) SignRefreshToken(p model.TokenPayload) (string, error) {
	return s.sign(p, tokenTypeRefresh, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
}

// VerifyRefreshToken checks signature, expiry and token type of a refresh token.
func (s *JWTService) VerifyRefreshToken(raw string) (model.TokenPayload, error) {
	return s.verify(raw, tokenTypeRefresh, s.cfg.RefreshSecret)
}

// VerifyBearerToken checks signature, expiry and token type of a bearer token.
func (s *JWTService) VerifyBearerToken(raw string) (model.TokenPayload, error) {
	return s.verify(raw, tokenTypeBearer, s.cfg.BearerSecret)
}

// BearerTTL reports how long issued bearer tokens stay valid.
func (s *JWTService) BearerTTL() time.Duration { return s.cfg.BearerTTL }

func (s *JWTService) sign(p model.TokenPayload, typ, secret string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims := Claims{
		Email:     p.Email,
		TokenType: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			Subject:   p.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

func (s *JWTService) verify(raw, typ, secret string) (model.TokenPayload, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenPayload{}, ErrExpiredToken
		}
		return model.TokenPayload{}, ErrInvalidToken
	}
	if !tok.Valid || claims.TokenType != typ || claims.Email == "" {
		return model.TokenPayload{}, ErrInvalidToken
	}
	if s.cfg.Issuer != "" && claims.Issuer != s.cfg.Issuer {
		return model.TokenPayload{}, ErrInvalidToken
	}
	return model.TokenPayload{Email: claims.Email}, nil
}
