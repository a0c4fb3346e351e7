// Package client contains the client-side building blocks that talk to the
// GameHub backend and bootstrap local persistence.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic API contract (see the Client interface) for the
//     account core: Signup/Login, VerifyOTP/ResendOTP, SetAccountStatus,
//     DeleteAccount, ExportData and Me.
//  2. A concrete REST implementation (see RESTClient) that wraps every call in
//     the backend's {success, message, data} envelope, tags requests with an
//     X-Request-ID and attaches the bearer token only to authenticated calls.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) wiring an
//     SQLite database and applying embedded goose migrations.
//
// # Error Handling
//
// Non-success answers become *ServerError carrying the server message verbatim;
// transport failures become *NetworkError. Both can be matched with errors.Is
// against ErrUnauthorized and ErrUnavailable respectively.
//
// All operations accept context.Context and honor cancellation/timeouts.
package client
