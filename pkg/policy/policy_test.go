package policy_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/supermart/pkg/cache"
	"github.com/shashiranjanraj/supermart/pkg/policy"
	"github.com/shashiranjanraj/supermart/pkg/session"
)

// newSession runs a request through the session middleware to obtain a
// live session handle.
func newSession(t *testing.T) *session.Session {
	t.Helper()
	cache.Flush()

	var sess *session.Session
	h := session.Middleware(session.DefaultOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess = session.FromCtx(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, sess)
	return sess
}

func fixed(v bool) policy.Func {
	return func(*session.Session) bool { return v }
}

func TestAuthenticated(t *testing.T) {
	sess := newSession(t)
	assert.False(t, policy.Authenticated(sess))

	sess.Set(session.UserKey, "user-42")
	assert.True(t, policy.Authenticated(sess))

	sess.Set(session.UserKey, "")
	assert.False(t, policy.Authenticated(sess))
}

func TestAny(t *testing.T) {
	sess := newSession(t)

	assert.False(t, policy.Any(fixed(false), policy.Authenticated)(sess))
	assert.True(t, policy.Any(fixed(false), fixed(true))(sess))

	sess.Set(session.UserKey, "user-42")
	assert.True(t, policy.Any(fixed(false), policy.Authenticated)(sess))
}

func TestAll(t *testing.T) {
	sess := newSession(t)
	sess.Set(session.UserKey, "user-42")

	assert.True(t, policy.All(policy.Authenticated)(sess))
	assert.False(t, policy.All(policy.Authenticated, fixed(false))(sess))

	sess.Delete(session.UserKey)
	assert.False(t, policy.All(policy.Authenticated, fixed(true))(sess))
}
