package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/gamehub/internal/client/models"
)

// SignupRequest is the payload of the signup call.
type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// VerifyResult is the data of a successful verify-otp answer. Either field may
// be missing in a malformed answer; callers must check both.
type VerifyResult struct {
	User  *models.UserProfile `json:"user"`
	Token string              `json:"token"`
}

// AccountStatus is the data of a successful account-status answer.
type AccountStatus struct {
	UserID   string `json:"userId"`
	IsActive bool   `json:"isActive"`
}

// Client is the backend API used by the auth and account services.
type Client interface {
	Signup(ctx context.Context, req SignupRequest) error
	Login(ctx context.Context, email, password string) error
	VerifyOTP(ctx context.Context, email, otp string, purpose models.Purpose) (*VerifyResult, error)
	ResendOTP(ctx context.Context, email string, purpose models.Purpose) error
	SetAccountStatus(ctx context.Context, userID string, active bool) (*AccountStatus, error)
	DeleteAccount(ctx context.Context, userID string) error
	ExportData(ctx context.Context, userID string) (json.RawMessage, error)
	Me(ctx context.Context) (*models.UserProfile, error)
}

// TokenSource yields the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
