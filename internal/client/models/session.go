package models

// Session is the authenticated credential pair held by the client.
// A Session is only valid when both User.ID and Token are set.
type Session struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

// Valid reports whether s carries both a user and a token.
func (s *Session) Valid() bool {
	return s != nil && s.User.ID != "" && s.Token != ""
}

// Clone returns an independent copy so callers cannot mutate store state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
