// Package notifications delivers run milestones via email.
//
// The default implementation sends plain-text mail through the SMTP relay
// configured in config.toml and gracefully degrades to a no-op when
// notifications are disabled. The orchestrator depends only on the Service
// interface, so alternative transports slot in without touching batch code.
package notifications
