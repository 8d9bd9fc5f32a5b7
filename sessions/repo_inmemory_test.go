package sessions_test

import (
	"testing"

	apperrors "github.com/jrsteele09/go-oauth-client/internal/errors"
	"github.com/jrsteele09/go-oauth-client/sessions"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepo_PutGet(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	sess := sessions.New()
	sess.State = "pending-state"
	require.NoError(t, repo.Put(sess))

	got, err := repo.Get(sess.ID)
	require.NoError(t, err)
	require.Equal(t, sess, got)
}

func TestInMemoryRepo_GetUnknown(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	_, err := repo.Get("no-such-session")
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestInMemoryRepo_PutOverwrites(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	sess := sessions.New()
	sess.State = "first"
	require.NoError(t, repo.Put(sess))

	sess.State = "second"
	require.NoError(t, repo.Put(sess))

	got, err := repo.Get(sess.ID)
	require.NoError(t, err)
	require.Equal(t, "second", got.State)
}

func TestInMemoryRepo_Delete(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	sess := sessions.New()
	require.NoError(t, repo.Put(sess))
	require.NoError(t, repo.Delete(sess.ID))

	_, err := repo.Get(sess.ID)
	require.ErrorIs(t, err, apperrors.ErrSessionNotFound)

	// Deleting again is not an error
	require.NoError(t, repo.Delete(sess.ID))
}

func TestInMemoryRepo_EmptyIDRejected(t *testing.T) {
	repo := sessions.NewInMemoryRepo()

	require.Error(t, repo.Put(sessions.Session{}))

	_, err := repo.Get("")
	require.Error(t, err)

	require.Error(t, repo.Delete(""))
}

func TestSession_Authenticated(t *testing.T) {
	require.False(t, sessions.Session{}.Authenticated())
	require.False(t, sessions.Session{UserID: 42, State: "s"}.Authenticated())
	require.True(t, sessions.Session{AccessToken: "tok"}.Authenticated())
}
