// Package gateway calls a model through an HTTP inference gateway that
// speaks a small JSON protocol:
//
//	POST /v1/generate  {system_instruction, parts, schema} -> {calls}
//	POST /v1/images    {prompt, sketch}                    -> {image}
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"github.com/GriffinCanCode/InkOS/backend/internal/infrastructure/tracing"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// Endpoint paths
const (
	GeneratePath = "/v1/generate"
	ImagesPath   = "/v1/images"
)

// ErrStatus is returned for non-2xx gateway replies
var ErrStatus = errors.New("gateway returned error status")

// GenerateRequest is the body of a generate call
type GenerateRequest struct {
	Model             string               `json:"model,omitempty"`
	SystemInstruction string               `json:"system_instruction,omitempty"`
	Parts             []inference.Part     `json:"parts"`
	Schema            inference.ToolSchema `json:"schema"`
}

// GenerateResponse is the reply of a generate call
type GenerateResponse struct {
	Calls []inference.ToolCall `json:"calls"`
}

// ImageRequest is the body of an image call
type ImageRequest struct {
	Prompt string          `json:"prompt"`
	Sketch *inference.Blob `json:"sketch,omitempty"`
}

// ImageResponse is the reply of an image call
type ImageResponse struct {
	Image *inference.Blob `json:"image"`
}

// Config holds gateway settings
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Client is an inference.Model backed by the gateway
type Client struct {
	resty  *resty.Client
	model  string
	logger *zap.Logger
}

// New creates a gateway client. Each call is attempted exactly once;
// failures are left to the caller's circuit breaker.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: gateway URL is required", inference.ErrNotConfigured)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient())
	restyClient.
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetRetryCount(0).
		SetHeader("User-Agent", "InkOS-Inference/1.0").
		SetHeader("Content-Type", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	return &Client{
		resty:  restyClient,
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Name identifies the backend in logs and metrics
func (c *Client) Name() string { return "gateway" }

// Generate posts the request and returns the calls in the reply
func (c *Client) Generate(ctx context.Context, req inference.Request) ([]inference.ToolCall, error) {
	var out GenerateResponse
	err := c.post(ctx, GeneratePath, GenerateRequest{
		Model:             c.model,
		SystemInstruction: req.SystemInstruction,
		Parts:             req.Parts,
		Schema:            req.Schema,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Calls, nil
}

// GenerateImage asks the gateway for a wallpaper image
func (c *Client) GenerateImage(ctx context.Context, prompt string, sketch *inference.Blob) (*inference.Blob, error) {
	var out ImageResponse
	if err := c.post(ctx, ImagesPath, ImageRequest{Prompt: prompt, Sketch: sketch}, &out); err != nil {
		return nil, err
	}
	if out.Image == nil || len(out.Image.Data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrStatus)
	}
	return out.Image, nil
}

func (c *Client) post(ctx context.Context, path string, body, result any) error {
	req := c.resty.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(result)
	tracing.InjectHeaders(ctx, func(k, v string) { req.SetHeader(k, v) })

	resp, err := req.Post(path)
	if err != nil {
		return fmt.Errorf("gateway %s: %w", path, err)
	}
	if resp.IsError() {
		c.logger.Debug("Gateway error reply",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
			zap.ByteString("body", truncate(resp.Body(), 256)))
		return fmt.Errorf("%w: %s %d", ErrStatus, path, resp.StatusCode())
	}
	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
