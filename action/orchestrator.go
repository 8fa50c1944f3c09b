// Package action implements the control flow shared by every console
// page: check the login session, dispatch a platform API request, and
// pick a user-facing outcome. Feature handlers declare what they need
// as Descriptor values and stay free of session and transport logic.
package action

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/edusuite/school-admin-web/schoolapi"
	"github.com/edusuite/school-admin-web/session"
)

// State is the terminal state of one action invocation. Every
// invocation is a single linear pass: Start -> session checked ->
// {login redirect | request dispatched} -> {rendered | redirected}.
type State int

const (
	// StateLoginRedirect means the session was absent or incomplete;
	// no upstream call was made.
	StateLoginRedirect State = iota + 1
	// StateRendered means the caller should render its view, either
	// with the payload or (on failure) with empty data and a flash.
	StateRendered
	// StateRedirected means the caller should redirect with a flash.
	StateRedirected
)

// FailurePolicy selects the outcome when the API call fails.
type FailurePolicy int

const (
	// ShowEmpty renders the view with empty data and a flash error.
	// List and detail pages prefer this.
	ShowEmpty FailurePolicy = iota
	// ReshowForm re-renders the submitted form with an inline error.
	// Create and edit submissions prefer this.
	ReshowForm
	// RedirectBack redirects to a listing page with a flash error.
	// Row-level mutations (delete buttons) prefer this.
	RedirectBack
)

// Descriptor is one row of a feature's action table: where the call
// goes and how its failure is surfaced.
type Descriptor struct {
	Name         string
	Method       string
	Path         string // may contain fmt verbs, resolved via Format
	TenantGlobal bool   // skip the schoolId qualifier (auth endpoints)
	OnFailure    FailurePolicy
}

// Format resolves path placeholders, returning a copy.
func (d Descriptor) Format(args ...any) Descriptor {
	d.Path = fmt.Sprintf(d.Path, args...)
	return d
}

// Result is the outcome every handler consumes.
type Result struct {
	State      State
	Data       json.RawMessage
	Flash      string // user-facing failure message
	Failed     bool
	StatusCode int
}

// Decode unmarshals the result payload into v; empty data is a no-op.
func (r Result) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}

// NotFound reports whether the upstream answered 404, which some list
// endpoints use for "no rows" rather than an empty array.
func (r Result) NotFound() bool {
	return r.StatusCode == http.StatusNotFound
}

// Orchestrator runs descriptors against the platform API.
type Orchestrator struct {
	api *schoolapi.Client
}

func New(api *schoolapi.Client) *Orchestrator {
	return &Orchestrator{api: api}
}

// Run executes one action. The session is passed explicitly; the
// orchestrator never reads ambient request state.
func (o *Orchestrator) Run(ctx context.Context, sess *session.Session, d Descriptor, body any) Result {
	req, redirect := o.buildRequest(sess, d)
	if redirect != nil {
		return *redirect
	}
	return o.dispatch(ctx, req.WithBody(body), d)
}

// RunQuery is Run with one extra query parameter on the API call.
func (o *Orchestrator) RunQuery(ctx context.Context, sess *session.Session, d Descriptor, key, value string, body any) Result {
	req, redirect := o.buildRequest(sess, d)
	if redirect != nil {
		return *redirect
	}
	return o.dispatch(ctx, req.WithQuery(key, value).WithBody(body), d)
}

func (o *Orchestrator) buildRequest(sess *session.Session, d Descriptor) (schoolapi.Request, *Result) {
	if d.TenantGlobal {
		req := schoolapi.Global(d.Method, d.Path)
		if sess != nil && sess.Token != "" {
			req = req.WithToken(sess.Token)
		}
		return req, nil
	}

	req, err := schoolapi.ForSession(sess, d.Method, d.Path)
	if err != nil {
		return schoolapi.Request{}, &Result{State: StateLoginRedirect}
	}
	return req, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, req schoolapi.Request, d Descriptor) Result {
	out := o.api.Do(ctx, req)
	if out.Success() {
		return Result{State: StateRendered, Data: out.Payload, StatusCode: out.StatusCode}
	}

	res := Result{Failed: true, Flash: out.Message, StatusCode: out.StatusCode}
	switch d.OnFailure {
	case RedirectBack:
		res.State = StateRedirected
	default: // ShowEmpty, ReshowForm
		res.State = StateRendered
	}
	return res
}
