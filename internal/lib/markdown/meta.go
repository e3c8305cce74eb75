package markdown

import (
	"strings"
	"unicode/utf8"
)

const (
	wordsPerMinute = 200
	excerptLimit   = 200
)

// Title returns the text of the first top-level "# " heading, or "".
func Title(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// Excerpt returns the first line that is not a heading, list item or
// emphasis marker, cut to 200 characters and suffixed with "...".
func Excerpt(md string) string {
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line[0] {
		case '#', '*', '-', '>', '`':
			continue
		}

		return truncate(line, excerptLimit) + "..."
	}
	return ""
}

// ReadingTime estimates minutes at 200 words per minute, never below one.
func ReadingTime(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Imported is a markdown document split into editor fields.
type Imported struct {
	Title   string
	Excerpt string
	Content string
}

// Import derives editor fields from an uploaded .md document. Content is
// the document unchanged.
func Import(md string) Imported {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	return Imported{
		Title:   Title(md),
		Excerpt: Excerpt(md),
		Content: md,
	}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit])
}
