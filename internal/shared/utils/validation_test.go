package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		required bool
		wantErr  bool
	}{
		{"seed id", "how_to_use", true, false},
		{"window id", "win_01HZY3J6M2Q7V8W9X0Y1Z2A3B4", true, false},
		{"empty optional", "", false, false},
		{"empty required", "", true, true},
		{"slash", "docs/../etc", true, true},
		{"too long", strings.Repeat("a", MaxIDLength+1), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id, "id", tt.required)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	name, err := CleanName("  Vacation <b>Photos</b> ")
	require.NoError(t, err)
	assert.Equal(t, "Vacation Photos", name)

	_, err = CleanName("<script>alert(1)</script>")
	assert.Error(t, err, "markup-only names collapse to empty")

	_, err = CleanName("   ")
	assert.Error(t, err)
}

func TestValidateStrokeCounts(t *testing.T) {
	assert.Error(t, ValidateStrokeCount(0))
	assert.NoError(t, ValidateStrokeCount(1))
	assert.Error(t, ValidateStrokeCount(MaxStrokesPerRequest+1))

	assert.Error(t, ValidatePointCount(0, 0))
	assert.NoError(t, ValidatePointCount(0, 2))
	assert.Error(t, ValidatePointCount(3, MaxPointsPerStroke+1))
}

func TestETagStable(t *testing.T) {
	a := ETag([]byte("wallpaper"))
	b := ETag([]byte("wallpaper"))
	c := ETag([]byte("other"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, `"`))
}

func TestSanitizeNameKeepsPunctuation(t *testing.T) {
	assert.Equal(t, "Q&A notes", SanitizeName("Q&A notes"))
	assert.Equal(t, "Sarah's draft", SanitizeName("Sarah's draft"))
}
