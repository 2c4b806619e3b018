package ident

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"My Lights!", "My_Lights:0021"},
		{"abc", "abc"},
		{"a-b.c9", "a-b.c9"},
		{"9lives", ":0039lives"},
		{"-x", ":002dx"},
		{"a_b", "a:005fb"},
		{"a:b", "a:003ab"},
		{" lead", "_lead"},
		{"café", "caf:00e9"},
		{"\U0001F384", ":d83c:df84"},
		{"", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Escape(tc.in))
		})
	}
}

func TestUnescape(t *testing.T) {
	assert.Equal(t, "My Lights!", Unescape("My_Lights:0021"))
	assert.Equal(t, "\U0001F384 tree", Unescape(":d83c:df84_tree"))
	// Upper-case hex digits are accepted.
	assert.Equal(t, "a:b", Unescape("a:003Ab"))
	// Malformed escapes pass through literally.
	assert.Equal(t, "a:zz", Unescape("a:zz"))
	assert.Equal(t, "x:12", Unescape("x:12"))
}

func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"simple",
		"with spaces and_underscores",
		"punctuation!?#$%&'()*+,/;<=>@[\\]^`{|}~",
		"colons : and :0041 lookalikes",
		"0 leading digit",
		"émigré naïve",
		"日本語のプリセット",
		"emoji \U0001F384\U0001F31F mix",
		"tab\tnewline\n",
		"..--..",
	}
	for _, s := range inputs {
		id := Escape(s)
		assert.Equal(t, s, Unescape(id), "escaped form %q", id)
		for i, r := range id {
			ok := allowed(r, i == 0) || r == '_' || r == ':' || (r >= '0' && r <= '9')
			assert.True(t, ok, "unexpected %q in %q", r, id)
		}
	}
}

func TestEscapeIsDeterministic(t *testing.T) {
	assert.Equal(t, Escape("Fairy Lights #2"), Escape("Fairy Lights #2"))
	assert.NotEqual(t, Escape("a b"), Escape("a_b"))
}
