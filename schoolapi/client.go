// Package schoolapi is the HTTP client for the school platform REST
// API. Every console action funnels through Client.Do, which turns a
// Request descriptor into a uniform Outcome: success with a raw JSON
// payload, or failure with a user-facing message. Each call is
// attempted exactly once; the console has no retry policy.
package schoolapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	apperrors "github.com/edusuite/school-admin-web/internal/errors"
	"github.com/edusuite/school-admin-web/internal/metrics"
)

// StatusTransportFault is the synthetic status code reported when the
// API could not be reached at all (timeout, refused connection, DNS).
const StatusTransportFault = 0

// GenericFailureMessage is shown when the API returns an error without
// a usable message body.
const GenericFailureMessage = "The school service reported an error. Please try again."

// Client issues requests against a single platform API deployment.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a platform API client.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Outcome is the uniform result of one API call.
type Outcome struct {
	StatusCode int
	Payload    json.RawMessage // empty on failures and empty 2xx bodies
	Message    string          // user-facing message, set on failures
}

// Success reports whether the call landed in the 2xx range.
func (o Outcome) Success() bool {
	return o.StatusCode >= 200 && o.StatusCode < 300
}

// Decode unmarshals the payload into v. An empty payload leaves v
// untouched so callers keep their zero or pre-filled values.
func (o Outcome) Decode(v any) error {
	if len(o.Payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(o.Payload, v); err != nil {
		return apperrors.Wrapf(apperrors.ErrDecode, "schoolapi: %v", err)
	}
	return nil
}

// Do executes the request. All failure modes, upstream errors and
// transport faults alike, come back as an Outcome; Do never returns an
// error to the caller.
func (c *Client) Do(ctx context.Context, req Request) Outcome {
	httpReq, err := c.build(ctx, req)
	if err != nil {
		log.Err(err).Str("path", req.Path).Msg("schoolapi: failed to build request")
		metrics.UpstreamRequests.WithLabelValues(req.Method, metrics.OutcomeTransport).Inc()
		return Outcome{StatusCode: StatusTransportFault, Message: err.Error()}
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.Err(err).Str("method", req.Method).Str("path", req.Path).Msg("schoolapi: transport fault")
		metrics.UpstreamRequests.WithLabelValues(req.Method, metrics.OutcomeTransport).Inc()
		return Outcome{StatusCode: StatusTransportFault, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Err(err).Str("path", req.Path).Msg("schoolapi: failed to read response body")
		metrics.UpstreamRequests.WithLabelValues(req.Method, metrics.OutcomeTransport).Inc()
		return Outcome{StatusCode: StatusTransportFault, Message: err.Error()}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		metrics.UpstreamRequests.WithLabelValues(req.Method, metrics.OutcomeSuccess).Inc()
		return Outcome{StatusCode: resp.StatusCode, Payload: successPayload(req, body)}
	}

	metrics.UpstreamRequests.WithLabelValues(req.Method, metrics.OutcomeUpstream).Inc()
	msg := failureMessage(body)
	log.Warn().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Str("message", msg).
		Msg("schoolapi: upstream error")
	return Outcome{StatusCode: resp.StatusCode, Message: msg}
}

func (c *Client) build(ctx context.Context, req Request) (*http.Request, error) {
	var bodyReader io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	u := c.baseURL + "/" + strings.TrimPrefix(req.Path, "/")

	query := make([]string, 0, 2)
	if encoded := req.Query.Encode(); encoded != "" {
		query = append(query, encoded)
	}
	if req.SchoolID > 0 {
		query = append(query, "schoolId="+strconv.Itoa(req.SchoolID))
	}
	if len(query) > 0 {
		u += "?" + strings.Join(query, "&")
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.BearerToken)
	}
	return httpReq, nil
}

// successPayload keeps the body only when it is valid JSON. The API is
// not fully consistent about 2xx bodies, so anything unparseable is
// treated as an empty payload rather than a failure.
func successPayload(req Request, body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if !json.Valid(trimmed) {
		log.Warn().Str("path", req.Path).Msg("schoolapi: discarding non-JSON success body")
		return nil
	}
	return json.RawMessage(trimmed)
}

// failureMessage pulls a human-readable message out of a JSON error
// body, falling back to a fixed generic string.
func failureMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Message == "" {
		return GenericFailureMessage
	}
	return payload.Message
}
