package domain

import "time"

// SessionEventKind names a session transition recorded in the audit trail.
type SessionEventKind string

const (
	EventBootstrapLive     SessionEventKind = "bootstrap_live"
	EventBootstrapFallback SessionEventKind = "bootstrap_fallback"
	EventBootstrapEmpty    SessionEventKind = "bootstrap_empty"
	EventLogin             SessionEventKind = "login"
	EventLoginFallback     SessionEventKind = "login_fallback"
	EventLoginFailed       SessionEventKind = "login_failed"
	EventRegister          SessionEventKind = "register"
	EventRegisterOffline   SessionEventKind = "register_offline"
	EventRegisterFailed    SessionEventKind = "register_failed"
	EventLogout            SessionEventKind = "logout"
)

// SessionEvent is a single audit record of a session transition.
type SessionEvent struct {
	SessionID string
	Kind      SessionEventKind
	Email     string
	Role      Role
	Detail    string
	Timestamp time.Time
}
