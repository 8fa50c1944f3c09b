package schoolapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edusuite/school-admin-web/models"
	"github.com/edusuite/school-admin-web/schoolapi"
	"github.com/edusuite/school-admin-web/session"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *schoolapi.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return schoolapi.New(srv.URL, 2*time.Second)
}

func adminSession() *session.Session {
	return &session.Session{Token: "t1", SchoolID: 7, UserID: 1, UserName: "Ana"}
}

func TestSuccessDecodesPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"courseID":1,"name":"Math"}]`))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/courses")
	require.NoError(t, err)

	out := client.Do(context.Background(), req)
	require.True(t, out.Success())
	require.Equal(t, http.StatusOK, out.StatusCode)

	var courses []models.Course
	require.NoError(t, out.Decode(&courses))
	require.Len(t, courses, 1)
	require.Equal(t, "Math", courses[0].Name)
}

func TestDecodeIsFieldCaseInsensitive(t *testing.T) {
	// Upstream casing drifts between endpoints; decoding must not care.
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"COURSEid":3,"NAME":"History"}`))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/courses/3")
	require.NoError(t, err)

	var course models.Course
	out := client.Do(context.Background(), req)
	require.NoError(t, out.Decode(&course))
	require.Equal(t, 3, course.CourseID)
	require.Equal(t, "History", course.Name)
}

func TestBearerAndTenantQualifierAttached(t *testing.T) {
	var gotAuth, gotSchool string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSchool = r.URL.Query().Get("schoolId")
		w.Write([]byte(`[]`))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/users")
	require.NoError(t, err)
	client.Do(context.Background(), req)

	require.Equal(t, "Bearer t1", gotAuth)
	require.Equal(t, "7", gotSchool)
}

func TestGlobalRequestSkipsTenantQualifier(t *testing.T) {
	var rawQuery string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		w.Write([]byte(`{"token":"abc"}`))
	})

	out := client.Do(context.Background(), schoolapi.Global(http.MethodPost, "api/auth/login").
		WithBody(map[string]string{"email": "a@b.c", "password": "pw"}))
	require.True(t, out.Success())
	require.Empty(t, rawQuery)
}

func TestEmptySuccessBodyCarriesNoPayload(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodDelete, "api/users/4")
	require.NoError(t, err)

	out := client.Do(context.Background(), req)
	require.True(t, out.Success())
	require.Empty(t, out.Payload)

	// Decoding an empty payload leaves the target untouched.
	user := models.User{UserName: "keep"}
	require.NoError(t, out.Decode(&user))
	require.Equal(t, "keep", user.UserName)
}

func TestNonJSONSuccessBodyIsDiscarded(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>maintenance page</html>"))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/courses")
	require.NoError(t, err)

	out := client.Do(context.Background(), req)
	require.True(t, out.Success())
	require.Empty(t, out.Payload)
}

func TestFailureExtractsMessage(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Email already in use"}`))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodPost, "api/users")
	require.NoError(t, err)

	out := client.Do(context.Background(), req)
	require.False(t, out.Success())
	require.Equal(t, http.StatusBadRequest, out.StatusCode)
	require.Equal(t, "Email already in use", out.Message)
}

func TestFailureWithoutMessageFallsBack(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty body", body: ""},
		{name: "not json", body: "boom"},
		{name: "json without message", body: `{"error":"nope"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			})

			req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/courses")
			require.NoError(t, err)

			out := client.Do(context.Background(), req)
			require.False(t, out.Success())
			require.Equal(t, schoolapi.GenericFailureMessage, out.Message)
		})
	}
}

func TestTransportFaultIsSyntheticFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := schoolapi.New(srv.URL, time.Second)
	srv.Close() // connection refused from here on

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/users")
	require.NoError(t, err)

	out := client.Do(context.Background(), req)
	require.False(t, out.Success())
	require.Equal(t, schoolapi.StatusTransportFault, out.StatusCode)
	require.NotEmpty(t, out.Message)
}

func TestRepeatedGetIsIdempotent(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"userID":1,"userName":"Ana"}]`))
	})

	req, err := schoolapi.ForSession(adminSession(), http.MethodGet, "api/users")
	require.NoError(t, err)

	first := client.Do(context.Background(), req)
	second := client.Do(context.Background(), req)

	require.True(t, first.Success())
	require.True(t, second.Success())
	require.JSONEq(t, string(first.Payload), string(second.Payload))
}
