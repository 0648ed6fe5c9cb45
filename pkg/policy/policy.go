// Package policy models route access as composable predicates over the
// session, so new rules can be added without touching each controller.
package policy

import (
	"github.com/shashiranjanraj/supermart/pkg/session"
)

// Func decides whether a session is allowed through a gate.
type Func func(sess *session.Session) bool

// Authenticated allows any session bound to a user identifier. This is the
// single capability check guarding all product routes: a boolean gate, not
// a role system.
func Authenticated(sess *session.Session) bool {
	id, ok := sess.GetString(session.UserKey)
	return ok && id != ""
}

// Any passes when at least one of the given policies passes.
func Any(policies ...Func) Func {
	return func(sess *session.Session) bool {
		for _, p := range policies {
			if p(sess) {
				return true
			}
		}
		return false
	}
}

// All passes only when every given policy passes.
func All(policies ...Func) Func {
	return func(sess *session.Session) bool {
		for _, p := range policies {
			if !p(sess) {
				return false
			}
		}
		return true
	}
}
