package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/accounts-service/internal/logging"
	"github.com/iliyamo/accounts-service/internal/middleware"
	"github.com/iliyamo/accounts-service/internal/model"
	"github.com/iliyamo/accounts-service/internal/queue"
)

// RefreshTokenHeader may carry the refresh token instead of the JSON body.
const RefreshTokenHeader = "X-Refresh-Token"

const requestTimeout = 5 * time.Second

// Authenticator is the account flow the handlers drive.
type Authenticator interface {
	Register(ctx context.Context, req model.RegisterRequest, enabled bool) (model.UserPrivate, error)
	Login(ctx context.Context, c model.Credentials) (model.LoginResult, error)
	RefreshSession(ctx context.Context, refreshToken string) (model.RefreshResult, error)
}

// UserFinder loads the caller's record for /v1/me.
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (model.User, bool, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth   Authenticator
	Users  UserFinder
	Events queue.Publisher
	Log    logging.Logger

	// SignupAutoEnable is the enabled flag given to self-service signups.
	SignupAutoEnable bool
}

func NewAuthHandler(auth Authenticator, users UserFinder, events queue.Publisher, log logging.Logger, signupAutoEnable bool) *AuthHandler {
	if events == nil {
		events = queue.NopPublisher{}
	}
	if log == nil {
		log = logging.Nop()
	}
	return &AuthHandler{Auth: auth, Users: users, Events: events, Log: log, SignupAutoEnable: signupAutoEnable}
}

// ----- DTOs -----

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type loginResp struct {
	User         model.UserPrivate `json:"user"`
	BearerToken  string            `json:"bearer_token"`
	RefreshToken string            `json:"refresh_token"`
	TokenType    string            `json:"token_type"`
}
type refreshResp struct {
	BearerToken string `json:"bearer_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a self-service account. Whether it can log in right away
// depends on SignupAutoEnable.
func (h *AuthHandler) Register(c echo.Context) error {
	return h.register(c, h.SignupAutoEnable, "register")
}

// AdminCreateUser provisions an account that is enabled immediately.
func (h *AuthHandler) AdminCreateUser(c echo.Context) error {
	return h.register(c, true, "admin create user")
}

func (h *AuthHandler) register(c echo.Context, enabled bool, op string) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, CodeInvalidRequest, "username/email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, err := h.Auth.Register(ctx, model.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}, enabled)
	if err != nil {
		return h.respondError(c, op, err)
	}

	ev := queue.NewAuthEvent(queue.EventRegistered, u.Email)
	ev.UserID = u.ID
	h.publish(c, ev)
	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials and returns a bearer/refresh pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, CodeInvalidRequest, "invalid body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, http.StatusBadRequest, CodeInvalidRequest, "email/password required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Auth.Login(ctx, model.Credentials{Email: req.Email, Password: req.Password})
	if err != nil {
		ev := queue.NewAuthEvent(queue.EventLoginFailed, req.Email)
		ev.Reason = errorCode(err)
		h.publish(c, ev)
		return h.respondError(c, "login", err)
	}

	ev := queue.NewAuthEvent(queue.EventLoginSucceeded, res.User.Email)
	ev.UserID = res.User.ID
	h.publish(c, ev)
	return c.JSON(http.StatusOK, loginResp{
		User:         res.User,
		BearerToken:  res.BearerToken,
		RefreshToken: res.RefreshToken,
		TokenType:    "Bearer",
	})
}

// Refresh mints a new bearer token from a refresh token. The refresh token
// is read from the JSON body, falling back to the X-Refresh-Token header.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	// An empty or non-JSON body is fine when the header is set.
	_ = c.Bind(&req)
	raw := strings.TrimSpace(req.RefreshToken)
	if raw == "" {
		raw = strings.TrimSpace(c.Request().Header.Get(RefreshTokenHeader))
	}
	if raw == "" {
		return fail(c, http.StatusBadRequest, CodeInvalidRequest, "refresh_token required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	res, err := h.Auth.RefreshSession(ctx, raw)
	if err != nil {
		ev := queue.NewAuthEvent(queue.EventRefreshFailed, "")
		ev.Reason = errorCode(err)
		h.publish(c, ev)
		return h.respondError(c, "refresh", err)
	}

	ev := queue.NewAuthEvent(queue.EventTokenRefreshed, res.Email)
	ev.UserID = res.UserID
	h.publish(c, ev)
	return c.JSON(http.StatusOK, refreshResp{BearerToken: res.BearerToken, TokenType: "Bearer"})
}

// Me returns the private view of the authenticated caller.
func (h *AuthHandler) Me(c echo.Context) error {
	email := middleware.Email(c)
	if email == "" {
		return fail(c, http.StatusUnauthorized, CodeInvalidToken, "missing bearer token")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), requestTimeout)
	defer cancel()

	u, found, err := h.Users.FindByEmail(ctx, email)
	if err != nil {
		return h.respondError(c, "me", err)
	}
	if !found {
		// The account was removed after the token was issued.
		return fail(c, http.StatusUnauthorized, CodeInvalidToken, "unknown account")
	}
	return c.JSON(http.StatusOK, u.Private())
}

// publish sends ev under its own short deadline so a cancelled request still
// gets audited. Failures never change the response.
func (h *AuthHandler) publish(c echo.Context, ev queue.AuthEvent) {
	ev.RemoteIP = c.RealIP()
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.Request().Context()), 2*time.Second)
	defer cancel()
	if err := h.Events.Publish(ctx, ev); err != nil {
		h.Log.Warn(ctx, "publish auth event failed", "type", ev.Type, "err", err)
	}
}
