package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLRendersNotes(t *testing.T) {
	p := NewParser()

	out := string(p.HTML("**OD600** reached 0.8\n- plate A\n- plate B"))
	assert.Contains(t, out, "<strong>OD600</strong>")
	assert.Contains(t, out, "<li>plate A</li>")
}

func TestHTMLDropsRawHTML(t *testing.T) {
	out := string(NewParser().HTML(`<script>alert(1)</script> note`))
	assert.NotContains(t, out, "<script>")
}

type goalMeta struct {
	Title      string    `yaml:"title"`
	Status     string    `yaml:"status"`
	Visibility string    `yaml:"visibility"`
	Due        time.Time `yaml:"due"`
}

func TestParseDocumentYAML(t *testing.T) {
	src := "---\ntitle: Validate electrode array\nstatus: In progress\nvisibility: private\ndue: 2025-06-30\n---\n\nMeasure impedance on all **16** channels.\n"

	var meta goalMeta
	doc, err := NewParser().ParseDocument([]byte(src), &meta)
	require.NoError(t, err)

	assert.Equal(t, "Validate electrode array", meta.Title)
	assert.Equal(t, "In progress", meta.Status)
	assert.Equal(t, "private", meta.Visibility)
	assert.Equal(t, 30, meta.Due.Day())
	assert.Equal(t, "Measure impedance on all **16** channels.", doc.Body)
}

func TestParseDocumentWithoutFrontmatter(t *testing.T) {
	var meta goalMeta
	_, err := NewParser().ParseDocument([]byte("# Just a heading\n"), &meta)
	assert.ErrorIs(t, err, ErrNoFrontmatter)
}
