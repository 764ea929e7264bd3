// Package id provides centralized ID generation for the shell backend.
//
// IDs are prefixed ULIDs:
//   - win_*: windows opened on the desktop
//   - folder_*: folders created at runtime
//   - ink_*: stroke batches handed to the dispatcher
//   - note_*: user-visible notices
//   - req_*: HTTP request correlation
//
// ULIDs are time-derived and k-sortable, so a window launched later always
// sorts after one launched earlier. Entropy is monotonic within the same
// millisecond.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// ID Prefixes
// ============================================================================

const (
	WindowPrefix  = "win"
	FolderPrefix  = "folder"
	BatchPrefix   = "ink"
	NoticePrefix  = "note"
	RequestPrefix = "req"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	mu      sync.Mutex
	entropy io.Reader
	now     func() time.Time
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand with monotonic entropy
func NewGenerator() *Generator {
	return NewGeneratorWithEntropy(rand.Reader)
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Tests pass a deterministic reader.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: ulid.Monotonic(entropy, 0),
		now:     time.Now,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return ulid.MustNew(ulid.Timestamp(g.now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed Generators
// ============================================================================

// NewWindowID generates a window ID
func NewWindowID() string {
	return Default().GenerateWithPrefix(WindowPrefix)
}

// NewFolderID generates an ID for a folder created at runtime
func NewFolderID() string {
	return Default().GenerateWithPrefix(FolderPrefix)
}

// NewBatchID generates a stroke batch ID
func NewBatchID() string {
	return Default().GenerateWithPrefix(BatchPrefix)
}

// NewNoticeID generates a notice ID
func NewNoticeID() string {
	return Default().GenerateWithPrefix(NoticePrefix)
}

// NewRequestID generates a request ID
func NewRequestID() string {
	return Default().GenerateWithPrefix(RequestPrefix)
}

// ============================================================================
// Parsing
// ============================================================================

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := Parse(id)
	return err == nil
}

// Parse parses a ULID string, stripping a known prefix if present
func Parse(id string) (ulid.ULID, error) {
	if i := strings.LastIndexByte(id, '_'); i >= 0 {
		id = id[i+1:]
	}
	return ulid.Parse(id)
}

// Timestamp extracts the creation time from an ID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// HasPrefix reports whether id carries the given prefix
func HasPrefix(id, prefix string) bool {
	return strings.HasPrefix(id, prefix+"_")
}
