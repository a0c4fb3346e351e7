package models

// UserProfile is the subset of the backend user record the auth core needs.
type UserProfile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`

	// IsActive is false for deactivated accounts. It changes only through
	// account-status calls or the backend's own profile answer.
	IsActive bool `json:"isActive"`

	Picture string `json:"picture,omitempty"`
}

// DisplayName returns the best human-readable name for the profile.
func (u UserProfile) DisplayName() string {
	switch {
	case u.Username != "":
		return u.Username
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}
