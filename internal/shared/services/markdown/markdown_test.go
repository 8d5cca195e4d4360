package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("# Intro\n\nLearn `let` and `const`.\n\n```js\nconst x = 1\n```")
	require.NoError(t, err)
	assert.Contains(t, out, `<h1 id="intro">Intro</h1>`)
	assert.Contains(t, out, "<code>let</code>")
	assert.Contains(t, out, `class="language-js"`)
}

func TestRenderStripsScripts(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "javascript:")
}

func TestRenderEmpty(t *testing.T) {
	out, err := NewRenderer().Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}
