package model

// Credentials is the transient email/password pair compared at login.
// It is never persisted.
type Credentials struct {
	Email    string
	Password string
}

// RegisterRequest holds the fields a caller supplies to create an account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// TokenPayload is the claim set embedded in both bearer and refresh tokens.
type TokenPayload struct {
	Email string
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User         UserPrivate
	BearerToken  string
	RefreshToken string
}

// RefreshResult is returned by a successful refresh.
type RefreshResult struct {
	UserID      uint64
	Email       string
	BearerToken string
}
