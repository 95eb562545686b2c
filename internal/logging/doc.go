// Package logging provides structured logging helpers built on
// log/slog.
//
// It defines the canonical attribute keys used across the codebase so
// log entries stay queryable, plus helpers for attributes that need
// care: errors that may be nil, email addresses that must not appear in
// logs verbatim, and OAuth tokens that must never appear at all.
package logging
