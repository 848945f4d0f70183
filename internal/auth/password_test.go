package auth

import (
	"strings"
	"testing"
)

// Cost 4 is the bcrypt minimum — keeps the suite fast without changing the
// logic under test.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHashAndVerify_RoundTrip(t *testing.T) {
	ps := newTestPasswordService()

	digest, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !ps.Verify("correct horse battery staple", digest) {
		t.Error("Verify() = false for the password that produced the digest")
	}
	if ps.Verify("wrong password", digest) {
		t.Error("Verify() = true for a different password")
	}
}

func TestHash_SamePasswordDifferentDigests(t *testing.T) {
	ps := newTestPasswordService()

	first, err := ps.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := ps.Hash("hunter2")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// The salt is randomized per call, so the digests must differ
	if first == second {
		t.Error("two hashes of the same password are identical — salt not randomized?")
	}

	// But both verify against the original plaintext
	if !ps.Verify("hunter2", first) || !ps.Verify("hunter2", second) {
		t.Error("Verify() failed against one of the two digests")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := newTestPasswordService()

	// bcrypt truncates beyond 72 bytes; we reject instead
	if _, err := ps.Hash(strings.Repeat("x", 73)); err == nil {
		t.Fatal("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_MalformedDigest(t *testing.T) {
	ps := newTestPasswordService()

	tests := []struct {
		name   string
		digest string
	}{
		{"empty digest", ""},
		{"not a bcrypt hash", "plainly-not-a-hash"},
		{"truncated bcrypt prefix", "$2a$10$tooshort"},
	}

	// A broken digest must read as "no match", never panic or error out
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if ps.Verify("anything", tt.digest) {
				t.Errorf("Verify() = true for malformed digest %q", tt.digest)
			}
		})
	}
}

func TestDefaultCost(t *testing.T) {
	ps := NewPasswordService()
	if ps.cost != 10 {
		t.Errorf("default cost = %d, want 10", ps.cost)
	}
}
