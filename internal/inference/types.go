package inference

import (
	"context"
	"errors"
)

var (
	// ErrRemote wraps every failure of a remote call
	ErrRemote = errors.New("remote inference failed")
	// ErrNotConfigured is returned by capabilities a backend does not offer
	ErrNotConfigured = errors.New("inference capability not configured")
)

// Blob is inline binary data
type Blob struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Part is one element of the prompt: text or an inline image
type Part struct {
	Text  string `json:"text,omitempty"`
	Image *Blob  `json:"inline_data,omitempty"`
}

// TextPart builds a text part
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart builds an inline image part
func ImagePart(data []byte, mimeType string) Part {
	return Part{Image: &Blob{Data: data, MIMEType: mimeType}}
}

// ParamType is the JSON type of a function parameter
type ParamType string

const ParamString ParamType = "string"

// Param declares one named function argument
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Required    bool      `json:"required"`
}

// FunctionDecl declares a callable tool
type FunctionDecl struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"parameters"`
}

// ToolSchema is the tool vocabulary offered for one surface
type ToolSchema struct {
	Surface   string         `json:"surface"`
	Functions []FunctionDecl `json:"functions"`
}

// Has reports whether the schema declares a function named name
func (s ToolSchema) Has(name string) bool {
	for _, fn := range s.Functions {
		if fn.Name == name {
			return true
		}
	}
	return false
}

// Names lists the declared function names
func (s ToolSchema) Names() []string {
	names := make([]string, len(s.Functions))
	for i, fn := range s.Functions {
		names[i] = fn.Name
	}
	return names
}

// Request is one model invocation
type Request struct {
	Parts             []Part     `json:"parts"`
	Schema            ToolSchema `json:"tools"`
	SystemInstruction string     `json:"system_instruction"`
}

// ToolCall is a function call chosen by the model
type ToolCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Model turns a request into tool calls
type Model interface {
	Name() string
	Generate(ctx context.Context, req Request) ([]ToolCall, error)
}

// ImageGenerator produces an image from a prompt and an optional sketch
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, sketch *Blob) (*Blob, error)
}

// ImageCapability is implemented by generators whose image support depends
// on configuration. Generators without it are assumed able to paint.
type ImageCapability interface {
	ImagesEnabled() bool
}
