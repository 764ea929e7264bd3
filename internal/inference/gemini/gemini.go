// Package gemini adapts the Google GenAI SDK to the inference.Model and
// inference.ImageGenerator interfaces.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/InkOS/backend/internal/inference"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gemini-2.5-flash"

// ErrNoImage is returned when an image model answers without an image
var ErrNoImage = errors.New("model returned no image")

// Config selects the models to call
type Config struct {
	APIKey     string
	Model      string
	ImageModel string
}

// Client calls Gemini through genai
type Client struct {
	client     *genai.Client
	model      string
	imageModel string
	logger     *zap.Logger
}

// New creates a Gemini client
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key is required", inference.ErrNotConfigured)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Client{
		client:     client,
		model:      cfg.Model,
		imageModel: cfg.ImageModel,
		logger:     logger,
	}, nil
}

// Name identifies the backend in logs and metrics
func (c *Client) Name() string { return "gemini" }

// Generate sends one request and returns the function calls in the reply
func (c *Client) Generate(ctx context.Context, req inference.Request) ([]inference.ToolCall, error) {
	config := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{FunctionDeclarations: Declarations(req.Schema)}},
	}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, Contents(req.Parts), config)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}

	calls := ToolCalls(resp)
	c.logger.Debug("Gemini replied",
		zap.String("model", c.model),
		zap.String("surface", req.Schema.Surface),
		zap.Int("calls", len(calls)))
	return calls, nil
}

// ImagesEnabled reports whether an image model is configured
func (c *Client) ImagesEnabled() bool { return c.imageModel != "" }

// GenerateImage turns a prompt and an optional sketch into an image
func (c *Client) GenerateImage(ctx context.Context, prompt string, sketch *inference.Blob) (*inference.Blob, error) {
	if c.imageModel == "" {
		return nil, inference.ErrNotConfigured
	}

	parts := []inference.Part{inference.TextPart(prompt)}
	if sketch != nil {
		parts = append([]inference.Part{inference.ImagePart(sketch.Data, sketch.MIMEType)}, parts...)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.imageModel, Contents(parts), &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityImage), string(genai.ModalityText)},
	})
	if err != nil {
		return nil, fmt.Errorf("GenAI image generation failed: %w", err)
	}

	img, ok := FirstImage(resp)
	if !ok {
		return nil, ErrNoImage
	}
	return img, nil
}

// =============================================================================
// Conversions
// =============================================================================

// Declarations converts a tool schema to genai function declarations
func Declarations(schema inference.ToolSchema) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(schema.Functions))
	for _, fn := range schema.Functions {
		params := &genai.Schema{
			Type:       genai.TypeObject,
			Properties: make(map[string]*genai.Schema, len(fn.Params)),
		}
		for _, p := range fn.Params {
			params.Properties[p.Name] = &genai.Schema{
				Type:        schemaType(p.Type),
				Description: p.Description,
			}
			if p.Required {
				params.Required = append(params.Required, p.Name)
			}
		}

		decls = append(decls, &genai.FunctionDeclaration{
			Name:        fn.Name,
			Description: fn.Description,
			Parameters:  params,
		})
	}
	return decls
}

// Only string parameters are declared today
func schemaType(inference.ParamType) genai.Type {
	return genai.TypeString
}

// Contents wraps prompt parts in a single user turn
func Contents(parts []inference.Part) []*genai.Content {
	out := make([]*genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Image != nil {
			out = append(out, genai.NewPartFromBytes(p.Image.Data, p.Image.MIMEType))
			continue
		}
		out = append(out, genai.NewPartFromText(p.Text))
	}
	return []*genai.Content{genai.NewContentFromParts(out, genai.RoleUser)}
}

// ToolCalls extracts function calls in the order the model produced them
func ToolCalls(resp *genai.GenerateContentResponse) []inference.ToolCall {
	if resp == nil {
		return nil
	}

	fcs := resp.FunctionCalls()
	calls := make([]inference.ToolCall, 0, len(fcs))
	for _, fc := range fcs {
		calls = append(calls, inference.ToolCall{Name: fc.Name, Args: fc.Args})
	}
	return calls
}

// FirstImage returns the first inline image of the first candidate
func FirstImage(resp *genai.GenerateContentResponse) (*inference.Blob, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, false
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return &inference.Blob{Data: part.InlineData.Data, MIMEType: part.InlineData.MIMEType}, true
		}
	}
	return nil, false
}
