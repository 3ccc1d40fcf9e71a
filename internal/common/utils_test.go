package common

import "testing"

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  https://example.com  ", "https://example.com"},
		{"https://example.com,", "https://example.com"},
		{"[doc](https://example.com/DocView.aspx?id=5)", "https://example.com/DocView.aspx?id=5"},
		{"(https://example.com)", "https://example.com"},
	}
	for _, tt := range tests {
		if got := SanitizeURL(tt.in); got != tt.want {
			t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	urls := []string{
		"https://example.com/DocView.aspx?id=27355 ",
		"not a url",
		"ftp://example.com/file",
		"",
	}
	sanitized, invalid := SanitizeAndValidateURLs(urls)
	if len(sanitized) != 1 {
		t.Fatalf("got %d valid URLs, want 1: %v", len(sanitized), sanitized)
	}
	if sanitized[0] != "https://example.com/DocView.aspx?id=27355" {
		t.Errorf("sanitized[0] = %q", sanitized[0])
	}
	if len(invalid) != 3 {
		t.Errorf("got %d invalid URLs, want 3: %v", len(invalid), invalid)
	}
}
