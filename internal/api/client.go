// Package api wraps authenticated HTTP calls to the note server.
//
// Each operation authenticates with the configured credentials, performs
// one request-response exchange, and returns a normalized note record or
// a typed *Error. There is no session caching and no retry policy: this
// is a low-frequency interactive tool, so a fresh session per call is an
// accepted tradeoff for simplicity.
package api

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/RichWolff/joplin-sync/internal/config"
	"github.com/RichWolff/joplin-sync/internal/note"
)

const (
	requestTimeout = 60 * time.Second
	authHeader     = "X-API-AUTH"

	// fetchFields limits GET responses to the fields jsync round-trips.
	fetchFields = "id,parent_id,title,body"
)

// Client talks to one note server with one set of credentials.
type Client struct {
	baseURL  string
	email    string
	password string
	httpc    *http.Client
}

// New builds a client from the resolved configuration. When a trust-root
// path is configured, the HTTPS channel is pinned to it; otherwise system
// trust applies.
func New(cfg *config.Config) (*Client, error) {
	httpc := &http.Client{Timeout: requestTimeout}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("read trust root %s: %w", cfg.CACert, err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("trust root %s contains no PEM certificates", cfg.CACert)
		}
		httpc.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
		}
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		email:    cfg.Email,
		password: cfg.Password,
		httpc:    httpc,
	}, nil
}

// FetchNote retrieves one note record by id.
func (c *Client) FetchNote(id string) (*note.Record, error) {
	const op = "fetch note"

	auth, err := c.createSession(op)
	if err != nil {
		return nil, err
	}

	status, body, err := c.do(op, id, http.MethodGet, "/api/notes/"+id+"?fields="+fetchFields, auth, nil)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return decodeRecord(op, id, status, body)
	case http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Op: op, ID: id, Status: status}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, Op: op, ID: id, Status: status}
	default:
		return nil, serverError(op, id, status, body)
	}
}

// CreateNote creates a note under the given notebook and returns the new
// record, including its server-issued id.
func (c *Client) CreateNote(parentID, title, body string) (*note.Record, error) {
	const op = "create note"

	auth, err := c.createSession(op)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"parent_id": parentID,
		"title":     title,
		"body":      body,
	}
	status, respBody, err := c.do(op, parentID, http.MethodPost, "/api/notes", auth, payload)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		return decodeRecord(op, parentID, status, respBody)
	case http.StatusNotFound:
		// The only path component is the collection, so a 404 here means
		// the parent notebook does not exist.
		return nil, &Error{Kind: KindInvalidParent, Op: op, ID: parentID, Status: status}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, Op: op, ID: parentID, Status: status}
	default:
		return nil, serverError(op, parentID, status, respBody)
	}
}

// UpdateNote overwrites the title and body of an existing note. The
// owning notebook is never changed by this call.
func (c *Client) UpdateNote(id, title, body string) (*note.Record, error) {
	const op = "update note"

	auth, err := c.createSession(op)
	if err != nil {
		return nil, err
	}

	payload := map[string]string{
		"title": title,
		"body":  body,
	}
	status, respBody, err := c.do(op, id, http.MethodPut, "/api/notes/"+id, auth, payload)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		return decodeRecord(op, id, status, respBody)
	case http.StatusNotFound:
		return nil, &Error{Kind: KindNotFound, Op: op, ID: id, Status: status}
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Kind: KindAuth, Op: op, ID: id, Status: status}
	default:
		return nil, serverError(op, id, status, respBody)
	}
}

// createSession logs in and returns the session id used to authenticate
// the operation that follows. op is only used for error context.
func (c *Client) createSession(op string) (string, error) {
	payload := map[string]string{
		"email":    c.email,
		"password": c.password,
	}
	status, body, err := c.do(op, "", http.MethodPost, "/api/sessions", "", payload)
	if err != nil {
		return "", err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "", &Error{Kind: KindAuth, Op: op, Status: status}
	default:
		return "", serverError(op, "", status, body)
	}

	var session struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &session); err != nil || session.ID == "" {
		return "", &Error{Kind: KindServer, Op: op, Status: status, Message: "session response has no id"}
	}
	return session.ID, nil
}

// do performs one HTTP exchange. Only transport-level failures are
// returned as errors; status classification is the caller's job.
func (c *Client) do(op, id, method, path, auth string, payload interface{}) (int, []byte, error) {
	var reqBody *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, &Error{Kind: KindServer, Op: op, ID: id, Message: fmt.Sprintf("encode request: %v", err)}
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Op: op, ID: id, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set(authHeader, auth)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Op: op, ID: id, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, &Error{Kind: KindTransport, Op: op, ID: id, Message: err.Error()}
	}

	return resp.StatusCode, body, nil
}

func decodeRecord(op, id string, status int, body []byte) (*note.Record, error) {
	var rec note.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, &Error{Kind: KindServer, Op: op, ID: id, Status: status, Message: fmt.Sprintf("decode response: %v", err)}
	}
	if rec.ID == "" {
		return nil, &Error{Kind: KindServer, Op: op, ID: id, Status: status, Message: "response record has no id"}
	}
	return &rec, nil
}

func serverError(op, id string, status int, body []byte) error {
	return &Error{Kind: KindServer, Op: op, ID: id, Status: status, Message: errorDetail(body)}
}

// errorDetail pulls a human-readable message out of an error response
// body, preferring the conventional {"error": "..."} shape.
func errorDetail(body []byte) string {
	var wire struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error != "" {
		return wire.Error
	}

	detail := strings.TrimSpace(string(body))
	if len(detail) > 200 {
		detail = detail[:200] + "..."
	}
	return detail
}
