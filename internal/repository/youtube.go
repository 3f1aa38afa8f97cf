package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/googleapi/transport"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/Raman0101/YT-ANALYSIS/internal/model"
)

// Endpoint labels used for metrics and error context.
const (
	EndpointChannelsByUsername = "channels.forUsername"
	EndpointSearch             = "search"
	EndpointChannels           = "channels"
	EndpointPlaylistItems      = "playlistItems"
	EndpointVideos             = "videos"
)

// ClientConfig configures the shared YouTube Data API client.
type ClientConfig struct {
	APIKey string
	// Endpoint overrides the API base URL (e.g. a local fake in tests).
	Endpoint string
	// Timeout bounds each upstream request. Zero disables the per-request timeout.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing requests. Zero or less means unlimited.
	RequestsPerSecond float64
	// OnCall is invoked after every upstream request with the HTTP status
	// (0 when no response was received).
	OnCall func(endpoint string, status int)
}

// Client is the YouTube Data API v3 service shared by ChannelRepo and VideoRepo.
type Client struct {
	yt      *youtube.Service
	limiter *rate.Limiter
	timeout time.Duration
	onCall  func(endpoint string, status int)
}

// NewClient builds a YouTube client authenticated with a static API key.
// An empty key still yields a client; every request will then be rejected upstream.
// Statistics counts that are not integers are read as 0 rather than failing
// the whole response.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	// A custom HTTP client bypasses the SDK's own auth, so the key is added
	// by the transport.
	var base http.RoundTripper = http.DefaultTransport
	if cfg.APIKey != "" {
		base = &transport.APIKey{Key: cfg.APIKey, Transport: base}
	}
	opts := []option.ClientOption{
		option.WithHTTPClient(&http.Client{Transport: &countTransport{base: base}}),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	yt, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		yt:      yt,
		limiter: rate.NewLimiter(limit, 1),
		timeout: cfg.Timeout,
		onCall:  cfg.OnCall,
	}, nil
}

// call runs one upstream request with pacing and the per-request timeout, and
// maps any failure to *model.UpstreamError.
func call[T any](ctx context.Context, c *Client, endpoint string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if err := c.limiter.Wait(ctx); err != nil {
		return zero, &model.UpstreamError{Endpoint: endpoint, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := fn(ctx)
	if err != nil {
		upErr := toUpstreamError(endpoint, err)
		c.observe(endpoint, upErr.StatusCode)
		return zero, upErr
	}
	c.observe(endpoint, http.StatusOK)
	return resp, nil
}

func (c *Client) observe(endpoint string, status int) {
	if c.onCall != nil {
		c.onCall(endpoint, status)
	}
}

func toUpstreamError(endpoint string, err error) *model.UpstreamError {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		body := gerr.Body
		if body == "" {
			body = gerr.Message
		}
		return &model.UpstreamError{Endpoint: endpoint, StatusCode: gerr.Code, Body: body, Err: err}
	}
	return &model.UpstreamError{Endpoint: endpoint, Err: err}
}

// malformed reports an upstream response that does not have the expected shape.
func malformed(endpoint, format string, args ...any) *model.UpstreamError {
	return &model.UpstreamError{Endpoint: endpoint, Err: fmt.Errorf("malformed response: "+format, args...)}
}
