// Package mailer sends email with optional file attachments over SMTP.
//
// Connection settings are resolved from ordered sources: explicit
// per-call overrides win over the config file, which wins over
// environment variables. The sender address defaults to the SMTP user
// when not set. Resolution fails with an error naming every missing
// setting so a misconfigured server can be fixed in one pass.
package mailer
