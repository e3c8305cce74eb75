package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple title", input: "Hello World", want: "hello-world"},
		{name: "punctuation", input: "Go, Echo & Postgres!", want: "go-echo-and-postgres"},
		{name: "ampersand reads as and", input: "Rock & Roll", want: "rock-and-roll"},
		{name: "apostrophe dropped", input: "Don't Panic", want: "dont-panic"},
		{name: "surrounding separators", input: "  --Trim me--  ", want: "trim-me"},
		{name: "collapses runs", input: "a   b___c", want: "a-b-c"},
		{name: "digits kept", input: "Top 10 Tips for 2025", want: "top-10-tips-for-2025"},
		{name: "quotes dropped", input: `It's "quoted"`, want: "its-quoted"},
		{name: "accents transliterated", input: "Café Münster", want: "cafe-munster"},
		{name: "already slug", input: "already-a-slug", want: "already-a-slug"},
		{name: "empty", input: "", want: ""},
		{name: "only symbols", input: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Make(tt.input))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	for _, s := range []string{"Hello World", "C++ & Go", "react-native"} {
		once := Make(s)
		assert.Equal(t, once, Make(once))
	}
}
