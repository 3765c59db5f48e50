package gateway

import (
	"net/http/httptest"
	"testing"
)

func TestOriginCheckerOpenByDefault(t *testing.T) {
	checker := buildOriginChecker(nil)

	req := httptest.NewRequest("GET", "http://gateway.local/ws", nil)
	if !checker(req) {
		t.Fatal("expected allow without an allowlist")
	}

	req.Header.Set("Origin", "https://lab.example.org")
	if !checker(req) {
		t.Fatal("expected any origin to pass without an allowlist")
	}
}

func TestOriginCheckerEnforcesAllowlist(t *testing.T) {
	checker := buildOriginChecker([]string{"https://lab.example.org", "http://localhost:8080"})

	cases := []struct {
		name   string
		origin string
		want   bool
	}{
		{"listed origin", "https://lab.example.org", true},
		{"listed origin with trailing slash", "https://lab.example.org/", true},
		{"listed origin with different case", "HTTPS://LAB.EXAMPLE.ORG", true},
		{"other listed origin", "http://localhost:8080", true},
		{"unlisted origin", "https://attacker.example.com", false},
		{"unparseable origin", "not a url", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://gateway.local/ws", nil)
			req.Header.Set("Origin", tc.origin)
			if got := checker(req); got != tc.want {
				t.Fatalf("origin %q: got %v, want %v", tc.origin, got, tc.want)
			}
		})
	}
}

func TestOriginCheckerRequiresOriginHeader(t *testing.T) {
	checker := buildOriginChecker([]string{"https://lab.example.org"})

	req := httptest.NewRequest("GET", "http://gateway.local/ws", nil)
	if checker(req) {
		t.Fatal("expected reject when origin header is missing")
	}
}

func TestOriginCheckerSkipsMalformedAllowlistEntries(t *testing.T) {
	checker := buildOriginChecker([]string{"not a url"})

	req := httptest.NewRequest("GET", "http://gateway.local/ws", nil)
	req.Header.Set("Origin", "https://lab.example.org")
	if checker(req) {
		t.Fatal("expected reject when the only allowlist entry is unusable")
	}
}
