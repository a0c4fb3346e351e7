// Package cli provides the interactive GameHub terminal client.
//
// It wires configuration, the local SQLite store, the REST API client and the
// sign-in flow into a line-oriented REPL:
//
//   - signup / login, followed by entry of the emailed 6-digit code
//   - account operations once signed in: export, deactivate, reactivate,
//     delete, logout and the notification preference
//
// A background refresher periodically reconciles the signed-in profile with
// the backend and signs the user out when the account was deactivated or the
// token revoked elsewhere.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartProfileRefresher and runREPL for details.
package cli
