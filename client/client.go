// Package client is the Go client for the Roomify projects API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("project not found")
	ErrBadRequest   = errors.New("bad request")
	ErrBusy         = errors.New("a save for this project is already in flight")
)

// Project mirrors the API's project record.
type Project struct {
	ID            string `json:"id"`
	Name          string `json:"name,omitempty"`
	SourceImage   string `json:"sourceImage"`
	RenderedImage string `json:"renderedImage,omitempty"`
	OwnerID       string `json:"ownerId,omitempty"`
	IsPublic      bool   `json:"isPublic"`
	Timestamp     int64  `json:"timestamp,omitempty"`
	UpdatedAt     string `json:"updatedAt,omitempty"`
}

// Client talks to the projects API. Mutations fail closed (error);
// listing fails open to an empty slice so callers can always render
// a history view.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates an API client. token is the caller's bearer token
// from the identity provider.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

type saveRequest struct {
	Project    Project `json:"project"`
	Visibility string  `json:"visibility,omitempty"`
}

type idRequest struct {
	ID         string `json:"id"`
	Visibility string `json:"visibility,omitempty"`
}

type projectEnvelope struct {
	Project *Project `json:"project"`
}

type projectsEnvelope struct {
	Projects []Project `json:"projects"`
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// SaveProject creates or overwrites a project record. The server
// resolves image references to hosted URLs before persisting.
func (c *Client) SaveProject(ctx context.Context, p Project, visibility string) (*Project, error) {
	return c.project(ctx, http.MethodPost, "/api/projects/save", saveRequest{Project: p, Visibility: visibility})
}

// GetProject fetches one project by id. ErrNotFound when absent.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	return c.project(ctx, http.MethodGet, "/api/projects/get?id="+url.QueryEscape(id), nil)
}

// UpdateVisibility flips an existing project between private and public.
func (c *Client) UpdateVisibility(ctx context.Context, id, visibility string) (*Project, error) {
	return c.project(ctx, http.MethodPost, "/api/projects/update-visibility", idRequest{ID: id, Visibility: visibility})
}

// RenderProject asks the server to generate the 3D view for a project.
func (c *Client) RenderProject(ctx context.Context, id string) (*Project, error) {
	return c.project(ctx, http.MethodPost, "/api/projects/render", idRequest{ID: id})
}

// ListProjects returns the caller's projects in backend order. Failures
// are logged and collapse to an empty slice.
func (c *Client) ListProjects(ctx context.Context) []Project {
	resp, err := c.do(ctx, http.MethodGet, "/api/projects/list", nil)
	if err != nil {
		log.Warn().Err(err).Msg("failed to fetch project history")
		return []Project{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Err(c.decodeError(resp)).Msg("failed to fetch project history")
		return []Project{}
	}

	var env projectsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		log.Warn().Err(err).Msg("failed to decode project history")
		return []Project{}
	}
	if env.Projects == nil {
		return []Project{}
	}
	return env.Projects
}

func (c *Client) project(ctx context.Context, method, path string, body interface{}) (*Project, error) {
	resp, err := c.do(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp)
	}

	var env projectEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Project == nil {
		return nil, fmt.Errorf("response carried no project")
	}
	return env.Project, nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewBuffer(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(resp.Body).Decode(&env)

	msg := env.Error
	if env.Message != "" {
		msg = fmt.Sprintf("%s: %s", env.Error, env.Message)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrBusy, msg)
	default:
		return fmt.Errorf("status=%d %s", resp.StatusCode, msg)
	}
}
