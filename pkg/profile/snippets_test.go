package profile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureSnippet(t *testing.T) {
	t.Run("inserts osc prompt block with markers", func(t *testing.T) {
		out, inserted := ensureSnippet("Write-Host hi\n", SnippetOscPrompt)
		require.True(t, inserted)
		assert.Contains(t, out, beginMarker(SnippetOscPrompt))
		assert.Contains(t, out, endMarker(SnippetOscPrompt))
		assert.Contains(t, out, "]9;9;")
		assert.True(t, strings.HasPrefix(out, "Write-Host hi\n"))
	})

	t.Run("second insertion is a no-op", func(t *testing.T) {
		once, inserted := ensureSnippet("", SnippetOscPrompt)
		require.True(t, inserted)
		twice, inserted := ensureSnippet(once, SnippetOscPrompt)
		assert.False(t, inserted)
		assert.Equal(t, once, twice)
	})

	t.Run("snippets are independent", func(t *testing.T) {
		out, _ := ensureSnippet("", SnippetOscPrompt)
		out, inserted := ensureSnippet(out, SnippetCopilotHelper)
		require.True(t, inserted)
		assert.Contains(t, out, beginMarker(SnippetCopilotHelper))
		assert.Contains(t, out, "gh copilot suggest")
	})

	t.Run("unknown snippet name", func(t *testing.T) {
		out, inserted := ensureSnippet("x", "nope")
		assert.False(t, inserted)
		assert.Equal(t, "x", out)
	})
}
