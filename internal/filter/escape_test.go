package filter

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"a<b&c", "a&lt;b&amp;c"},
		{"<>&", "&lt;&gt;&amp;"},
		{"&lt;", "&amp;lt;"},
		{`"quotes" 'stay'`, `"quotes" 'stay'`},
	}

	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeIdempotentWithoutSpecials(t *testing.T) {
	s := "func main() { return 1 }"
	if Escape(Escape(s)) != s {
		t.Error("escaping text without &, <, > should be a no-op")
	}
}

func TestFallback(t *testing.T) {
	raw := []byte(`{"code":"let x = 1;","lang":"javascript","theme":"nord"}`)
	want := `<pre><code>{"code":"let x = 1;","lang":"javascript","theme":"nord"}</code></pre>`

	if got := Fallback(raw); got != want {
		t.Errorf("Fallback = %q, want %q", got, want)
	}
	if got := Fallback(nil); got != "<pre><code></code></pre>" {
		t.Errorf("Fallback(nil) = %q", got)
	}
}
