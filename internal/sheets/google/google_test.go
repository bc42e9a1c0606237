package google

import "testing"

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Records", 2025, "2025 Records"},
		{"  Records  ", 2025, "2025 Records"},
		{"2024 Records", 2025, "2024 Records"},
		{"", 2025, ""},
		{"1234", 2025, "2025 1234"},
	}

	for _, tc := range tests {
		if got := yearPrefixedName(tc.base, tc.year); got != tc.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tc.base, tc.year, got, tc.want)
		}
	}
}
