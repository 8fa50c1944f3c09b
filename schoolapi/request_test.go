package schoolapi_test

import (
	"net/http"
	"testing"

	apperrors "github.com/edusuite/school-admin-web/internal/errors"
	"github.com/edusuite/school-admin-web/schoolapi"
	"github.com/edusuite/school-admin-web/session"
	"github.com/stretchr/testify/require"
)

func TestForSessionRefusesInvalidSessions(t *testing.T) {
	tests := []struct {
		name string
		sess *session.Session
	}{
		{name: "nil session", sess: nil},
		{name: "missing token", sess: &session.Session{SchoolID: 7}},
		{name: "missing school", sess: &session.Session{Token: "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schoolapi.ForSession(tt.sess, http.MethodGet, "api/users")
			require.ErrorIs(t, err, apperrors.ErrSessionNotFound)
		})
	}
}

func TestForSessionCarriesCredentials(t *testing.T) {
	sess := &session.Session{Token: "t1", SchoolID: 7}

	req, err := schoolapi.ForSession(sess, http.MethodGet, "api/users")
	require.NoError(t, err)
	require.Equal(t, "t1", req.BearerToken)
	require.Equal(t, 7, req.SchoolID)
	require.Equal(t, http.MethodGet, req.Method)
}

func TestWithHelpersCopyTheRequest(t *testing.T) {
	base := schoolapi.Global(http.MethodPost, "api/auth/login")

	withBody := base.WithBody(map[string]string{"email": "a@b.c"})
	require.Nil(t, base.Body)
	require.NotNil(t, withBody.Body)

	withQuery := base.WithQuery("roleId", "2")
	require.Empty(t, base.Query)
	require.Equal(t, "2", withQuery.Query.Get("roleId"))

	withToken := base.WithToken("t9")
	require.Empty(t, base.BearerToken)
	require.Equal(t, "t9", withToken.BearerToken)
}
