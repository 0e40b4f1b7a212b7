package storage

import "testing"

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"", "anything", true},
		{"*", "anything", true},
		{"*", "", true},

		{"alice", "alice", true},
		{"alice", "alicia", false},

		{"a*", "alpha", true},
		{"a*", "amber", true},
		{"a*", "beta", false},
		{"a*", "a", true},

		{"*a", "alpha", true},
		{"*a", "beta", true},
		{"*a", "amber", false},

		{"a*r", "amber", true},
		{"a*r", "alpha", false},

		{"k?", "k1", true},
		{"k?", "k10", false},

		{"[ab]x", "ax", true},
		{"[ab]x", "cx", false},

		// Malformed class: the simple matcher takes over and sees no
		// wildcard, so only a literal match could succeed.
		{"[x", "a", false},
		{"[x", "[x", true},
	}

	for _, tt := range tests {
		if got := matchPattern(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}

func TestMatchSimple(t *testing.T) {
	tests := []struct {
		pattern string
		name    string
		want    bool
	}{
		{"exact", "exact", true},
		{"exact", "other", false},
		{"pre*", "prefix", true},
		{"*fix", "prefix", true},
		{"p*x", "prefix", true},
		// The star may consume nothing, but prefix and suffix must not
		// overlap on the name.
		{"ab*ba", "aba", false},
		{"a*a", "aa", true},
		{"**", "anything", false},
	}

	for _, tt := range tests {
		if got := matchSimple(tt.pattern, tt.name); got != tt.want {
			t.Errorf("matchSimple(%q, %q) = %v, want %v", tt.pattern, tt.name, got, tt.want)
		}
	}
}
