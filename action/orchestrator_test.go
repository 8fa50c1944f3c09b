package action_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
	"github.com/edusuite/school-admin-web/schoolapi"
	"github.com/edusuite/school-admin-web/session"
	"github.com/stretchr/testify/require"
)

type upstream struct {
	calls   atomic.Int64
	handler http.HandlerFunc
}

func newOrchestrator(t *testing.T, handler http.HandlerFunc) (*action.Orchestrator, *upstream) {
	t.Helper()
	up := &upstream{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up.calls.Add(1)
		up.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return action.New(schoolapi.New(srv.URL, time.Second)), up
}

func adminSession() *session.Session {
	return &session.Session{Token: "t1", SchoolID: 7, UserID: 1}
}

var listCourses = action.Descriptor{
	Name:      "list-courses",
	Method:    http.MethodGet,
	Path:      "api/courses",
	OnFailure: action.ShowEmpty,
}

func TestInvalidSessionRedirectsWithoutUpstreamCall(t *testing.T) {
	orch, up := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	tests := []struct {
		name string
		sess *session.Session
	}{
		{name: "nil", sess: nil},
		{name: "no token", sess: &session.Session{SchoolID: 7}},
		{name: "no school", sess: &session.Session{Token: "t1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := orch.Run(context.Background(), tt.sess, listCourses, nil)
			require.Equal(t, action.StateLoginRedirect, res.State)
		})
	}
	require.Equal(t, int64(0), up.calls.Load())
}

func TestSuccessRendersPayload(t *testing.T) {
	orch, up := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "7", r.URL.Query().Get("schoolId"))
		w.Write([]byte(`[{"courseID":1,"name":"Math"}]`))
	})

	res := orch.Run(context.Background(), adminSession(), listCourses, nil)
	require.Equal(t, action.StateRendered, res.State)
	require.False(t, res.Failed)

	var courses []models.Course
	require.NoError(t, res.Decode(&courses))
	require.Len(t, courses, 1)
	require.Equal(t, "Math", courses[0].Name)
	require.Equal(t, int64(1), up.calls.Load())
}

func TestShowEmptyFailureStillRenders(t *testing.T) {
	orch, _ := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	res := orch.Run(context.Background(), adminSession(), listCourses, nil)
	require.Equal(t, action.StateRendered, res.State)
	require.True(t, res.Failed)
	require.Equal(t, schoolapi.GenericFailureMessage, res.Flash)
	require.Empty(t, res.Data)
}

func TestReshowFormFailureKeepsMessage(t *testing.T) {
	createUser := action.Descriptor{
		Name:         "create-user",
		Method:       http.MethodPost,
		Path:         "api/auth/register",
		TenantGlobal: true,
		OnFailure:    action.ReshowForm,
	}

	orch, _ := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Email already in use"}`))
	})

	res := orch.Run(context.Background(), adminSession(), createUser, map[string]string{"email": "a@b.c"})
	require.Equal(t, action.StateRendered, res.State)
	require.True(t, res.Failed)
	require.Equal(t, "Email already in use", res.Flash)
}

func TestRedirectBackFailureRedirects(t *testing.T) {
	deleteCourse := action.Descriptor{
		Name:      "delete-course",
		Method:    http.MethodDelete,
		Path:      "api/courses/%d",
		OnFailure: action.RedirectBack,
	}

	orch, _ := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/courses/3", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Course has enrollments"}`))
	})

	res := orch.Run(context.Background(), adminSession(), deleteCourse.Format(3), nil)
	require.Equal(t, action.StateRedirected, res.State)
	require.Equal(t, "Course has enrollments", res.Flash)
}

func TestNotFoundIsDetectable(t *testing.T) {
	orch, _ := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	res := orch.Run(context.Background(), adminSession(), listCourses, nil)
	require.True(t, res.Failed)
	require.True(t, res.NotFound())
}

func TestRunQueryAddsParameter(t *testing.T) {
	sendToRole := action.Descriptor{
		Name:      "send-to-role",
		Method:    http.MethodPost,
		Path:      "api/notifications/send-to-role",
		OnFailure: action.ReshowForm,
	}

	orch, _ := newOrchestrator(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "2", r.URL.Query().Get("roleId"))
		require.Equal(t, "7", r.URL.Query().Get("schoolId"))
		w.WriteHeader(http.StatusOK)
	})

	res := orch.RunQuery(context.Background(), adminSession(), sendToRole, "roleId", "2", map[string]string{"title": "hi"})
	require.Equal(t, action.StateRendered, res.State)
	require.False(t, res.Failed)
}
