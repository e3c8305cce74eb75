package markdown

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, md string) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, md))
	return buf.String()
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		md   string
		want string
	}{
		{name: "heading", md: "# Title", want: "<h1>Title</h1>\n"},
		{name: "sub heading", md: "## Part", want: "<h2>Part</h2>\n"},
		{name: "paragraph keeps soft break", md: "one\ntwo", want: "<p>one\ntwo</p>\n"},
		{name: "list", md: "- a\n- b", want: "<ul>\n<li>a</li>\n<li>b</li>\n</ul>\n"},
		{name: "ordered list", md: "1. a\n2. b", want: "<ol>\n<li>a</li>\n<li>b</li>\n</ol>\n"},
		{name: "nested list", md: "- a\n  - b", want: "<ul>\n<li>a\n<ul>\n<li>b</li>\n</ul>\n</li>\n</ul>\n"},
		{name: "quote", md: "> wise", want: "<blockquote>\n<p>wise</p>\n</blockquote>\n"},
		{name: "code fence escapes", md: "```\n<b>x</b>\n```", want: "<pre><code>&lt;b&gt;x&lt;/b&gt;\n</code></pre>\n"},
		{name: "bold and italic", md: "**b** and *i*", want: "<p><strong>b</strong> and <em>i</em></p>\n"},
		{name: "emphasis nests", md: "**bold *both***", want: "<p><strong>bold <em>both</em></strong></p>\n"},
		{name: "inline code", md: "use `go test`", want: "<p>use <code>go test</code></p>\n"},
		{name: "link inside code stays text", md: "`[a](https://x.dev)`", want: "<p><code>[a](https://x.dev)</code></p>\n"},
		{name: "strikethrough", md: "~~old~~", want: "<p><del>old</del></p>\n"},
		{name: "rule", md: "a\n\n---\n\nb", want: "<p>a</p>\n<hr>\n<p>b</p>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, tt.md))
		})
	}
}

func TestRender_DropsRawHTML(t *testing.T) {
	out := render(t, `<script>alert("x")</script>`)
	assert.NotContains(t, out, "<script>")
	assert.NotContains(t, out, "alert")

	out = render(t, `hi <img src=x onerror="alert(1)">`)
	assert.NotContains(t, out, "onerror")
	assert.Contains(t, out, "hi ")
}

func TestRender_Links(t *testing.T) {
	out := render(t, "[site](https://example.com/a_b_c)")
	assert.Equal(t, "<p><a href=\"https://example.com/a_b_c\" rel=\"noopener noreferrer\">site</a></p>\n", out)

	out = render(t, "[bad](javascript:alert(1))")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "bad")
}

func TestRender_Images(t *testing.T) {
	out := render(t, "![cover](/uploads/a.png)")
	assert.Equal(t, "<p><img src=\"/uploads/a.png\" alt=\"cover\" loading=\"lazy\"></p>\n", out)
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Component("# Hi").Render(context.Background(), &buf))
	assert.Equal(t, "<h1>Hi</h1>\n", buf.String())
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "My Post", Title("intro\n# My Post\n## Sub"))
	assert.Equal(t, "", Title("## only sub"))
}

func TestExcerpt(t *testing.T) {
	md := "# Title\n\n- item\n\nFirst real paragraph.\n\nSecond."
	assert.Equal(t, "First real paragraph....", Excerpt(md))

	long := strings.Repeat("a", 250)
	got := Excerpt(long)
	assert.Equal(t, strings.Repeat("a", 200)+"...", got)

	assert.Equal(t, "", Excerpt("# only a title"))
}

func TestReadingTime(t *testing.T) {
	assert.Equal(t, 1, ReadingTime(""))
	assert.Equal(t, 1, ReadingTime(strings.Repeat("word ", 200)))
	assert.Equal(t, 2, ReadingTime(strings.Repeat("word ", 201)))
	assert.Equal(t, 5, ReadingTime(strings.Repeat("word ", 1000)))
}

func TestImport(t *testing.T) {
	got := Import("# Hello\r\n\r\nBody text here.\r\n")

	assert.Equal(t, "Hello", got.Title)
	assert.Equal(t, "Body text here....", got.Excerpt)
	assert.Equal(t, "# Hello\n\nBody text here.\n", got.Content)
}
