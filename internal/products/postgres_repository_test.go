package products

import "testing"

func TestEscapeLikePattern(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"plain query", "laptop", "laptop"},
		{"percent is literal", "100% cotton", `100\% cotton`},
		{"underscore is literal", "usb_c hub", `usb\_c hub`},
		{"backslash is literal", `acme\laptop`, `acme\\laptop`},
		{"bare wildcard", "%", `\%`},
		{"mixed metacharacters", `%_\`, `\%\_\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeLikePattern(tt.query); got != tt.want {
				t.Errorf("escapeLikePattern(%q) = %q, want %q", tt.query, got, tt.want)
			}
		})
	}
}
