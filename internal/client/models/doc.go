// Package models defines client-side data models used by the GameHub
// authentication and account lifecycle core.
package models
