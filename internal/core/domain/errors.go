package domain

import "errors"

// MessageOf returns the best human-readable message in err's chain. Errors
// that carry a display message implement UserMessage.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// IsUnavailable reports whether err means the backend could not serve the
// request at all, as opposed to answering with a refusal.
func IsUnavailable(err error) bool {
	var u interface{ Unavailable() bool }
	return errors.As(err, &u) && u.Unavailable()
}
