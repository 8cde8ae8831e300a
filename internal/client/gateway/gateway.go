// Package gateway wraps outbound portal calls with credential injection and
// uniform handling of expired sessions.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/noverdy/ispcli/internal/logging"
)

// Session is the slice of the session store the gateway depends on.
type Session interface {
	Token() string
	Logout()
	RecordError(msg string)
}

// Gateway issues authenticated requests against the configured API base.
//
// A 401 from any endpoint invalidates the whole session: the gateway logs
// the session out and returns ErrSessionExpired. Every other status, 4xx and
// 5xx included, is handed back untouched; interpreting business-level error
// bodies is the caller's job.
type Gateway struct {
	base    string
	client  *http.Client
	session Session
	log     logging.Logger
}

// New creates a gateway bound to the given API base URL and session.
func New(apiBaseURL string, client *http.Client, session Session, log logging.Logger) *Gateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &Gateway{base: apiBaseURL, client: client, session: session, log: log}
}

// Do issues one authenticated request. body may be nil or any JSON-encodable
// value; header entries are merged under the credential and content-type
// defaults. The caller owns the response body on success.
//
// Transport failures are recorded as the session's last error and returned
// wrapped; they never install or clear the credential.
func (g *Gateway) Do(ctx context.Context, method, path string, body any, header http.Header) (*http.Response, error) {
	token := g.session.Token()
	if token == "" {
		return nil, ErrNoCredential
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.base+path, reader)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		g.session.RecordError(err.Error())
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		g.log.Warn(ctx, "session expired, logging out", "method", method, "path", path)
		g.session.Logout()
		return nil, ErrSessionExpired
	}

	return resp, nil
}

// DoJSON issues one authenticated request and, when the status is 2xx and
// out is non-nil, decodes the response body into out. The status code is
// returned as-is either way so callers can interpret business failures.
func (g *Gateway) DoJSON(ctx context.Context, method, path string, body any, header http.Header, out any) (int, error) {
	resp, err := g.Do(ctx, method, path, body, header)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			g.session.RecordError(err.Error())
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
