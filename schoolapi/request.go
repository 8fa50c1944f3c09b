package schoolapi

import (
	"net/url"

	apperrors "github.com/edusuite/school-admin-web/internal/errors"
	"github.com/edusuite/school-admin-web/session"
)

// Request is an immutable descriptor for one call to the platform API.
// Nothing is mutated on the shared client: credentials and tenant scope
// travel with the request.
type Request struct {
	Method string
	Path   string // relative to the API base URL, e.g. "api/users/12"
	Query  url.Values
	Body   any // marshalled as JSON when non-nil

	// BearerToken is attached as an Authorization header when set.
	BearerToken string
	// SchoolID > 0 appends the mandatory schoolId tenant qualifier.
	// Only tenant-global endpoints (login, register) leave it zero.
	SchoolID int
}

// ForSession builds a tenant-scoped request from a login session. It
// refuses to build one from an absent or incomplete session; callers
// are expected to have checked session validity already.
func ForSession(sess *session.Session, method, path string) (Request, error) {
	if !sess.Valid() {
		return Request{}, apperrors.ErrSessionNotFound
	}
	return Request{
		Method:      method,
		Path:        path,
		BearerToken: sess.Token,
		SchoolID:    sess.SchoolID,
	}, nil
}

// Global builds a tenant-global request (authentication endpoints).
func Global(method, path string) Request {
	return Request{Method: method, Path: path}
}

// WithBody returns a copy of the request carrying a JSON body.
func (r Request) WithBody(body any) Request {
	r.Body = body
	return r
}

// WithQuery returns a copy of the request with one extra query value.
func (r Request) WithQuery(key, value string) Request {
	q := url.Values{}
	for k, vs := range r.Query {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set(key, value)
	r.Query = q
	return r
}

// WithToken returns a copy of the request carrying a bearer token.
// Used for the tenant-global user fetch right after login, before a
// session exists.
func (r Request) WithToken(token string) Request {
	r.BearerToken = token
	return r
}
