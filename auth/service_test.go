package auth_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/jrsteele09/go-oauth-client/auth"
	"github.com/jrsteele09/go-oauth-client/gitlab"
	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/stretchr/testify/require"
)

// fakeProvider implements auth.Provider with scripted responses.
type fakeProvider struct {
	exchangeToken string
	exchangeErr   error
	exchangeCalls int
	lastCode      string
}

func (f *fakeProvider) AuthCodeURL(state string) string {
	return "https://gitlab.example.com/oauth/authorize?state=" + state
}

func (f *fakeProvider) Exchange(_ context.Context, code string) (string, error) {
	f.exchangeCalls++
	f.lastCode = code
	if f.exchangeErr != nil {
		return "", f.exchangeErr
	}
	return f.exchangeToken, nil
}

type testFixture struct {
	provider *fakeProvider
	store    *sessions.InMemoryRepo
	service  *auth.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	provider := &fakeProvider{exchangeToken: "issued-token"}
	store := sessions.NewInMemoryRepo()

	return &testFixture{
		provider: provider,
		store:    store,
		service:  auth.NewService(provider, store),
	}
}

func TestBeginLogin(t *testing.T) {
	f := setupTestFixture(t)

	sess := sessions.New()

	t.Run("sets and persists a pending state", func(t *testing.T) {
		redirectURL, updated, err := f.service.BeginLogin(sess)
		require.NoError(t, err)
		require.Len(t, updated.State, auth.StateTokenLength)
		require.Contains(t, redirectURL, "state="+updated.State)

		stored, err := f.store.Get(sess.ID)
		require.NoError(t, err)
		require.Equal(t, updated.State, stored.State)

		sess = updated
	})

	t.Run("a new attempt overwrites the prior state", func(t *testing.T) {
		previous := sess.State

		_, updated, err := f.service.BeginLogin(sess)
		require.NoError(t, err)
		require.NotEqual(t, previous, updated.State)

		stored, err := f.store.Get(sess.ID)
		require.NoError(t, err)
		require.Equal(t, updated.State, stored.State)
	})
}

func TestHandleCallback_StateMismatch(t *testing.T) {
	f := setupTestFixture(t)

	_, sess, err := f.service.BeginLogin(sessions.New())
	require.NoError(t, err)

	result, err := f.service.HandleCallback(context.Background(), "valid-code", "tampered-state", sess)
	require.NoError(t, err)
	require.Equal(t, auth.StatusStateMismatch, result.Status)
	require.Equal(t, 0, f.provider.exchangeCalls, "mismatch must not attempt an exchange")

	// No access token is observable anywhere, regardless of code validity
	require.Empty(t, result.Session.AccessToken)
	stored, err := f.store.Get(sess.ID)
	require.NoError(t, err)
	require.Empty(t, stored.AccessToken)
}

func TestHandleCallback_EmptyStates(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name         string
		queryState   string
		pendingState string
	}{
		{"empty query state", "", "pending"},
		{"no pending state", "some-state", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := sessions.New()
			sess.State = tt.pendingState
			require.NoError(t, f.store.Put(sess))

			result, err := f.service.HandleCallback(context.Background(), "code", tt.queryState, sess)
			require.NoError(t, err)
			require.Equal(t, auth.StatusStateMismatch, result.Status)
			require.Equal(t, 0, f.provider.exchangeCalls)
		})
	}
}

func TestHandleCallback_Success(t *testing.T) {
	f := setupTestFixture(t)

	_, sess, err := f.service.BeginLogin(sessions.New())
	require.NoError(t, err)

	result, err := f.service.HandleCallback(context.Background(), "valid-code", sess.State, sess)
	require.NoError(t, err)
	require.Equal(t, auth.StatusLoggedIn, result.Status)
	require.Equal(t, "valid-code", f.provider.lastCode)

	t.Run("session identity is rotated", func(t *testing.T) {
		require.NotEqual(t, sess.ID, result.Session.ID)
	})

	t.Run("token bound to the new session only", func(t *testing.T) {
		require.Equal(t, "issued-token", result.Session.AccessToken)

		stored, err := f.store.Get(result.Session.ID)
		require.NoError(t, err)
		require.Equal(t, "issued-token", stored.AccessToken)

		_, err = f.store.Get(sess.ID)
		require.ErrorIs(t, err, apperrors.ErrSessionNotFound, "pre-auth session must be gone")
	})

	t.Run("pending state does not survive the rotation", func(t *testing.T) {
		require.Empty(t, result.Session.State)
	})
}

func TestHandleCallback_ProviderDenied(t *testing.T) {
	f := setupTestFixture(t)
	f.provider.exchangeErr = &gitlab.AuthError{Code: "access_denied"}

	_, sess, err := f.service.BeginLogin(sessions.New())
	require.NoError(t, err)

	result, err := f.service.HandleCallback(context.Background(), "code", sess.State, sess)
	require.NoError(t, err, "a provider denial is a recoverable outcome, not an error")
	require.Equal(t, auth.StatusProviderDenied, result.Status)
	require.Empty(t, result.Session.AccessToken)
}

func TestHandleCallback_UpstreamFailure(t *testing.T) {
	f := setupTestFixture(t)
	f.provider.exchangeErr = apperrors.NewStatusError(http.StatusInternalServerError, nil)

	_, sess, err := f.service.BeginLogin(sessions.New())
	require.NoError(t, err)

	_, err = f.service.HandleCallback(context.Background(), "code", sess.State, sess)
	require.Error(t, err)
	require.Equal(t, http.StatusInternalServerError, apperrors.HTTPStatus(err, 0))

	// The session remains stored and unbound
	stored, err := f.store.Get(sess.ID)
	require.NoError(t, err)
	require.Empty(t, stored.AccessToken)
}

func TestAuthorize(t *testing.T) {
	f := setupTestFixture(t)

	tests := []struct {
		name    string
		session sessions.Session
		allowed bool
	}{
		{"empty session", sessions.Session{}, false},
		{"state only", sessions.Session{ID: "a", State: "pending"}, false},
		{"user id without token", sessions.Session{ID: "b", UserID: 7}, false},
		{"token present", sessions.Session{ID: "c", AccessToken: "tok"}, true},
		{"token with other fields", sessions.Session{ID: "d", AccessToken: "tok", UserID: 7, State: "s"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.service.Authorize(tt.session)
			if tt.allowed {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, apperrors.ErrNotFound)
			}
		})
	}
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)

	sess := sessions.New()
	sess.AccessToken = "tok"
	sess.UserID = 42
	sess.State = "pending"
	require.NoError(t, f.store.Put(sess))

	require.NoError(t, f.service.Logout(sess))

	_, err := f.store.Get(sess.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	t.Run("idempotent on a destroyed session", func(t *testing.T) {
		require.NoError(t, f.service.Logout(sess))
	})

	t.Run("safe on a session that was never stored", func(t *testing.T) {
		require.NoError(t, f.service.Logout(sessions.Session{}))
	})
}
