package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// renderPrompt is the fixed instruction sent with every floor-plan
// render request.
const renderPrompt = "Transform this 2D floor plan into a photorealistic 3D rendered view of the same layout. " +
	"Keep every wall, door, window and room position exactly as drawn. Furnish the rooms in a modern, " +
	"neutral staging style with soft natural lighting, viewed from a three-quarter top-down angle."

var ErrNoImage = errors.New("genai: provider returned no image")

// Client is the HTTP client for the text+image -> image provider.
type Client struct {
	baseURL string
	token   string
	model   string
	http    *http.Client
}

// Config holds provider connection settings.
type Config struct {
	BaseURL string
	Token   string
	Model   string
	Timeout time.Duration
}

type renderRequest struct {
	Prompt             string      `json:"prompt"`
	Model              string      `json:"model"`
	InputImage         string      `json:"input_image"`
	InputImageMimeType string      `json:"input_image_mime_type"`
	Ratio              renderRatio `json:"ratio"`
}

type renderRatio struct {
	W int `json:"w"`
	H int `json:"h"`
}

type renderResponse struct {
	Image string `json:"image,omitempty"` // inline data URL
	URL   string `json:"url,omitempty"`   // or a fetchable URL
}

// NewClient creates a provider client. Returns nil when no base URL is
// configured; callers treat a nil client as "rendering disabled".
func NewClient(cfg Config) *Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		model:   cfg.Model,
		http: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// RenderImage submits the source image (a data URL) for rendering and
// returns the rendered image as a data URL. One attempt, no retry.
func (c *Client) RenderImage(ctx context.Context, imageDataURL string) (string, error) {
	mimeType, b64, err := splitDataURL(imageDataURL)
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(renderRequest{
		Prompt:             renderPrompt,
		Model:              c.model,
		InputImage:         b64,
		InputImageMimeType: mimeType,
		Ratio:              renderRatio{W: 1024, H: 1024},
	})
	if err != nil {
		return "", fmt.Errorf("genai request error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/txt2img", bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("genai request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("genai request error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("genai http error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("genai response error: %w", err)
	}

	switch {
	case out.Image != "":
		return out.Image, nil
	case out.URL != "":
		return c.FetchAsDataURL(ctx, out.URL)
	default:
		return "", ErrNoImage
	}
}

// FetchAsDataURL downloads an image URL and re-encodes it as a data URL.
func (c *Client) FetchAsDataURL(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch image: status=%d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch image: %w", err)
	}

	mimeType := resp.Header.Get("Content-Type")
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data)), nil
}

func splitDataURL(ref string) (mimeType, b64 string, err error) {
	rest, ok := strings.CutPrefix(ref, "data:")
	if !ok {
		return "", "", fmt.Errorf("genai: input is not a data URL")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", "", fmt.Errorf("genai: input is not a data URL")
	}
	mimeType, _, _ = strings.Cut(meta, ";")
	if mimeType == "" || payload == "" {
		return "", "", fmt.Errorf("genai: invalid image data")
	}
	return mimeType, payload, nil
}
