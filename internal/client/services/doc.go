// Package services contains the application services of the GameHub client:
// credential submission, the OTP challenge, session finalization and the
// account lifecycle operations. Services talk to the backend through
// client.Client and to local state through session.Store; they never render
// anything themselves.
package services
