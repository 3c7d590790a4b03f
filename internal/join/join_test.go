package join

import "testing"

func TestJoin(t *testing.T) {
	tests := []struct {
		name    string
		matched []string
		sep     string
		prefix  string
		postfix string
		want    string
	}{
		{"empty", nil, "-", "[", "]", ""},
		{"wrap and separate", []string{"a", "b"}, "-", "[", "]", "[a]-[b]"},
		{"single", []string{"a"}, "-", "[", "]", "[a]"},
		{"separator only", []string{"x", "y", "z"}, ", ", "", "", "x, y, z"},
		{"newline escape", []string{"x", "y"}, `\n`, "", "", "x\ny"},
		{"tab prefix", []string{"x", "y"}, "", `\t`, "", "\tx\ty"},
		{"escaped backslash", []string{"x", "y"}, `\\`, "", "", `x\y`},
		{"unknown escape kept", []string{"x", "y"}, `\q`, "", "", `x\qy`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Join(tt.matched, tt.sep, tt.prefix, tt.postfix)
			if got != tt.want {
				t.Errorf("Join(%q, %q, %q, %q) = %q, want %q", tt.matched, tt.sep, tt.prefix, tt.postfix, got, tt.want)
			}
		})
	}
}
