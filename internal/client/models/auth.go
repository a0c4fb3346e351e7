package models

import "strings"

// Purpose tells the backend whether an OTP confirms account creation or a login.
type Purpose string

const (
	PurposeSignup Purpose = "signup"
	PurposeLogin  Purpose = "login"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	return p == PurposeSignup || p == PurposeLogin
}

// CredentialDraft is the transient content of the signup/login form.
// Username and ConfirmPassword are only used for signup.
type CredentialDraft struct {
	Email           string
	Password        string
	Username        string
	ConfirmPassword string
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PendingVerification exists between an accepted signup/login request and a
// successful OTP verification. It never carries a token or a user record.
type PendingVerification struct {
	Email   string
	Purpose Purpose
}
