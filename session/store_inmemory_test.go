package session_test

import (
	"testing"
	"time"

	"github.com/edusuite/school-admin-web/session"
	"github.com/stretchr/testify/require"
)

func testSession() session.Session {
	return session.Session{
		Token:    "tok-1",
		SchoolID: 7,
		UserID:   12,
		UserName: "Ana",
		Email:    "ana@example.com",
	}
}

func TestPutGetDelete(t *testing.T) {
	store := session.NewInMemoryStore(time.Minute)

	require.Error(t, store.Put("", testSession()))

	require.NoError(t, store.Put("sid-1", testSession()))

	got, ok := store.Get("sid-1")
	require.True(t, ok)
	require.Equal(t, "tok-1", got.Token)
	require.Equal(t, 7, got.SchoolID)

	store.Delete("sid-1")
	_, ok = store.Get("sid-1")
	require.False(t, ok)

	// Deleting twice must not panic.
	store.Delete("sid-1")
}

func TestGetUnknownFailsSoft(t *testing.T) {
	store := session.NewInMemoryStore(time.Minute)

	_, ok := store.Get("missing")
	require.False(t, ok)

	_, ok = store.Get("")
	require.False(t, ok)
}

func TestIdleExpiry(t *testing.T) {
	store := session.NewInMemoryStore(20 * time.Millisecond)
	require.NoError(t, store.Put("sid-1", testSession()))

	time.Sleep(40 * time.Millisecond)

	_, ok := store.Get("sid-1")
	require.False(t, ok)
}

func TestGetSlidesDeadline(t *testing.T) {
	store := session.NewInMemoryStore(50 * time.Millisecond)
	require.NoError(t, store.Put("sid-1", testSession()))

	// Keep touching the session below the idle limit; it must survive
	// well past the original deadline.
	for i := 0; i < 5; i++ {
		time.Sleep(30 * time.Millisecond)
		_, ok := store.Get("sid-1")
		require.True(t, ok)
	}
}

func TestValid(t *testing.T) {
	var nilSession *session.Session
	require.False(t, nilSession.Valid())

	s := testSession()
	require.True(t, (&s).Valid())

	noToken := testSession()
	noToken.Token = ""
	require.False(t, (&noToken).Valid())

	noSchool := testSession()
	noSchool.SchoolID = 0
	require.False(t, (&noSchool).Valid())
}
