package ui

import "testing"

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		limit int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"a rather long product title", 10, "a rathe..."},
		{"abc", 2, "ab"},
		{"  padded  ", 10, "padded"},
		{"anything", 0, "anything"},
	}
	for _, tc := range cases {
		if got := truncate(tc.in, tc.limit); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tc.in, tc.limit, got, tc.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 5); got != "ab   " {
		t.Errorf("padRight = %q", got)
	}
	if got := padRight("abcdef", 3); got != "abcdef" {
		t.Errorf("padRight should not truncate, got %q", got)
	}
}

func TestFormatPrice(t *testing.T) {
	if got := formatPrice(100); got != "$100" {
		t.Errorf("formatPrice(100) = %q", got)
	}
	if got := formatPrice(19.99); got != "$19.99" {
		t.Errorf("formatPrice(19.99) = %q", got)
	}
	if got := formatPrice(0); got != "$0" {
		t.Errorf("formatPrice(0) = %q", got)
	}
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Errorf("wrap = %q, want %q", got, want)
	}

	if got := wrap("", 10); got != "" {
		t.Errorf("wrap empty = %q", got)
	}
}
