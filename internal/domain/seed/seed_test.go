package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Mail", "Slides", "Game", "how_to_use.txt", "notes.txt", "novel.txt", "Documents", "Projects",
	}, desktop.TopLevelNames(s.Desktop))
	assert.Equal(t, 12, desktop.Count(s.Desktop))

	projects, ok := desktop.FindTopLevelByName(s.Desktop, "projects")
	require.True(t, ok)
	assert.True(t, projects.IsFolder())
	assert.Len(t, projects.Contents, 2)

	require.Len(t, s.Emails, 3)
	assert.Equal(t, "Urgent: Meeting Rescheduled", s.Emails[2].Subject)
	assert.True(t, s.Emails[0].Unread)
}

const tomlSeed = `
[[desktop]]
id = "mail"
name = "Mail"
type = "app"
app_id = "mail"

[[desktop]]
id = "docs"
name = "Documents"
type = "folder"

  [[desktop.contents]]
  id = "doc1"
  name = "Report.docx"
  type = "app"

[[emails]]
id = 1
from = "Sarah Connors"
subject = "Project Update Q3"
`

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.toml")
	require.NoError(t, os.WriteFile(path, []byte(tomlSeed), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	docs, ok := desktop.Find(s.Desktop, "doc1")
	require.True(t, ok)
	assert.Equal(t, "Report.docx", docs.Name)
	assert.Equal(t, "Sarah Connors", s.Emails[0].From)
}

func TestEncodeRoundTripsThroughYAML(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	data, err := s.Encode(FormatYAML)
	require.NoError(t, err)

	again, err := Parse(data, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(s, again))
}

func TestParseRejectsInvalidSeeds(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "duplicate ids",
			yaml: "desktop:\n  - {id: a, name: A, type: app}\n  - {id: a, name: B, type: app}\n",
			want: desktop.ErrDuplicateID,
		},
		{
			name: "bad kind",
			yaml: "desktop:\n  - {id: a, name: A, type: widget}\n",
			want: desktop.ErrInvalidKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), FormatYAML)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := Parse([]byte("emails:\n  - {id: 1, subject: a}\n  - {id: 1, subject: b}\n"), FormatYAML)
	assert.ErrorContains(t, err, "duplicate email id")
}

func TestFormatOf(t *testing.T) {
	f, err := FormatOf("/etc/inkos/seed.YML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	_, err = FormatOf("seed.json")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = Load("seed.ini")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
