package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeStripsScript(t *testing.T) {
	p := NewPolicy()

	out := string(p.Sanitize(`<p>intro</p><script>alert("x")</script>`))
	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "alert")
	assert.Contains(t, out, "<p>intro</p>")
}

func TestSanitizeKeepsParagraphUnchanged(t *testing.T) {
	p := NewPolicy()

	in := `<p>Hello, <strong>world</strong>.</p>`
	assert.Equal(t, in, string(p.Sanitize(in)))
}

func TestSanitizeStripsActiveAttributes(t *testing.T) {
	p := NewPolicy()

	out := string(p.Sanitize(`<img src="/media/a.png" onerror="steal()"><a href="javascript:alert(1)">x</a><iframe src="//evil"></iframe>`))
	assert.NotContains(t, out, "onerror")
	assert.NotContains(t, out, "javascript:")
	assert.NotContains(t, out, "<iframe")
	assert.Contains(t, out, `src="/media/a.png"`)
}

func TestSanitizeKeepsCodeLanguageClass(t *testing.T) {
	p := NewPolicy()

	out := string(p.Sanitize(`<pre><code class="language-python">print(1)</code></pre>`))
	assert.Contains(t, out, `class="language-python"`)
}

func TestPlainText(t *testing.T) {
	got := PlainText("<h2>Intro</h2>\n<p>Python   is <em>fun</em>.</p><script>bad()</script>")
	assert.Equal(t, "Intro Python is fun.", got)
	assert.Equal(t, "", PlainText(""))
	assert.Equal(t, "one two", PlainText("<p>one</p><p>two</p>"))
}
