package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "test-secret-at-least-16-chars!!"

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService(testSecret)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

func TestNewTokenService_RejectsShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() should reject secrets under 16 characters")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-abc-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	userID, err := ts.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-abc-123" {
		t.Errorf("Verify() userID = %q, want %q", userID, "user-abc-123")
	}
}

func TestVerify_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Issue a token that expired one minute ago
	token, err := ts.IssueWithDuration("user-abc-123", -time.Minute)
	if err != nil {
		t.Fatalf("IssueWithDuration() error = %v", err)
	}

	if _, err := ts.Verify(token); err == nil {
		t.Fatal("Verify() should fail for an expired token")
	}
}

func TestVerify_MalformedToken(t *testing.T) {
	ts := newTestTokenService(t)

	tests := []struct {
		name  string
		token string
	}{
		{"empty string", ""},
		{"not a JWT at all", "garbage"},
		{"two segments only", "aaaa.bbbb"},
		{"valid shape, junk content", "aaaa.bbbb.cccc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ts.Verify(tt.token); err == nil {
				t.Errorf("Verify(%q) should fail", tt.token)
			}
		})
	}
}

func TestVerify_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Issue("user-abc-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a character in the payload segment — the signature no longer matches
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected JWT shape: %d segments", len(parts))
	}
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ts.Verify(tampered); err == nil {
		t.Fatal("Verify() should fail for a tampered payload")
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, err := NewTokenService("another-secret-16-chars-long!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := ts.Issue("user-abc-123")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	if _, err := other.Verify(token); err == nil {
		t.Fatal("Verify() should fail when the signing secret differs")
	}
}

func TestMaxAge_MatchesSevenDays(t *testing.T) {
	ts := newTestTokenService(t)

	want := int((7 * 24 * time.Hour).Seconds())
	if got := ts.MaxAge(); got != want {
		t.Errorf("MaxAge() = %d, want %d", got, want)
	}
}
