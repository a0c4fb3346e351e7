// Package session holds the client's single authenticated Session record.
//
// The record is created only after a successful OTP verification, survives
// restarts in the local SQLite metadata table and is destroyed by logout,
// confirmed deactivation or confirmed deletion. Readers always get a copy and
// must tolerate ErrNoSession.
package session
