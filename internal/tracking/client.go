package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the default HTTP request timeout for tracking calls.
const DefaultTimeout = 60 * time.Second

// Client talks to one tracking service deployment.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient returns a client for the tracking service at baseURL,
// authenticating every request with apiKey.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
}

// Run is a handle to one execution of a pipeline step, registered with the
// tracking service. All artifact operations are scoped to a run and must
// happen between Init and Finish.
type Run struct {
	ID      uuid.UUID
	JobType string

	client *Client
}

type initRunRequest struct {
	JobType string         `json:"job_type"`
	Config  map[string]any `json:"config"`
}

type initRunResponse struct {
	ID string `json:"id"`
}

// Init registers a new run with the given job type and free-form
// configuration mapping, and returns its handle.
func (c *Client) Init(ctx context.Context, jobType string, config map[string]any) (*Run, error) {
	body, err := json.Marshal(initRunRequest{JobType: jobType, Config: config})
	if err != nil {
		return nil, fmt.Errorf("failed to encode run config: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/v1/runs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{Op: "init run", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus("init run", resp.StatusCode, http.StatusCreated, http.StatusOK); err != nil {
		return nil, err
	}

	var decoded initRunResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ServiceError{Op: "init run", Cause: err}
	}
	id, err := uuid.Parse(decoded.ID)
	if err != nil {
		return nil, &ServiceError{Op: "init run", Cause: fmt.Errorf("invalid run id %q: %w", decoded.ID, err)}
	}

	return &Run{ID: id, JobType: jobType, client: c}, nil
}

// Finish closes the run with the given terminal status, flushing pending
// telemetry on the service side. Safe to call on every exit path.
func (r *Run) Finish(ctx context.Context, status string) error {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return fmt.Errorf("failed to encode finish request: %w", err)
	}

	path := fmt.Sprintf("/api/v1/runs/%s/finish", r.ID)
	req, err := r.client.newRequest(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.httpClient.Do(req)
	if err != nil {
		return &ServiceError{Op: "finish run", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	return r.client.checkStatus("finish run", resp.StatusCode, http.StatusOK, http.StatusNoContent)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	return req, nil
}

// checkStatus maps a response status onto the error taxonomy. Statuses in
// accept are success.
func (c *Client) checkStatus(op string, status int, accept ...int) error {
	for _, a := range accept {
		if status == a {
			return nil
		}
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{Status: status}
	default:
		return &ServiceError{Op: op, Status: status}
	}
}
