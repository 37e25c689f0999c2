package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/haitezaz/workedin-pakistan-connect/internal/model"
)

// newTestTokenService creates a TokenService for testing.
// It uses a fixed, known secret so tests are deterministic.
func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return ts
}

// =========================================================================
// TOKEN SERVICE CONSTRUCTION TESTS
// =========================================================================

func TestNewTokenService_ShortSecret(t *testing.T) {
	_, err := NewTokenService("short")
	if err == nil {
		t.Fatal("NewTokenService() should reject secrets shorter than 16 chars")
	}
}

func TestNewTokenService_ValidSecret(t *testing.T) {
	_, err := NewTokenService("this-is-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() unexpected error for valid secret: %v", err)
	}
}

// =========================================================================
// GENERATE TESTS
// =========================================================================

func TestGenerate_ReturnsNonEmptyToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("7", model.RoleWorker)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Error("Generate() returned empty token")
	}

	// JWT tokens have 3 dot-separated parts: header.payload.signature
	if parts := strings.Split(token, "."); len(parts) != 3 {
		t.Errorf("Generate() token doesn't look like a JWT (got %d parts)", len(parts))
	}
}

func TestGenerate_SamePartitionIDDifferentRoles(t *testing.T) {
	// Worker 7 and employer 7 are different people — their tokens must not
	// be interchangeable.
	ts := newTestTokenService(t)

	workerToken, _ := ts.Generate("7", model.RoleWorker)
	employerToken, _ := ts.Generate("7", model.RoleEmployer)

	if workerToken == employerToken {
		t.Fatal("Generate() returned identical tokens for different partitions")
	}

	p, err := ts.Validate(employerToken)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.Role != model.RoleEmployer {
		t.Errorf("Role = %q, want %q", p.Role, model.RoleEmployer)
	}
}

// =========================================================================
// VALIDATE TESTS
// =========================================================================

func TestValidate_RoundTrip(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("42", model.RoleEmployer)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	p, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if p.UserID != "42" {
		t.Errorf("UserID = %q, want %q", p.UserID, "42")
	}
	if p.Role != model.RoleEmployer {
		t.Errorf("Role = %q, want %q", p.Role, model.RoleEmployer)
	}
}

func TestValidate_ExpiredToken(t *testing.T) {
	ts := newTestTokenService(t)

	// Generate a token that expired 1 second ago
	token, err := ts.GenerateWithDuration("42", model.RoleWorker, -1*time.Second)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	_, err = ts.Validate(token)
	if err == nil {
		t.Fatal("Validate() should return an error for an expired token")
	}
}

func TestValidate_TamperedToken(t *testing.T) {
	ts := newTestTokenService(t)

	token, _ := ts.Generate("42", model.RoleWorker)

	// Flip a character in the signature (the segment after the 2nd dot)
	tampered := token[:len(token)-1]
	if strings.HasSuffix(token, "A") {
		tampered += "B"
	} else {
		tampered += "A"
	}

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() should reject a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)
	other, _ := NewTokenService("a-completely-different-secret!!")

	token, _ := ts.Generate("42", model.RoleAdmin)

	if _, err := other.Validate(token); err == nil {
		t.Fatal("Validate() should reject a token signed with another secret")
	}
}

func TestValidate_GarbageInput(t *testing.T) {
	ts := newTestTokenService(t)

	// Anything the browser might resend from a corrupted cookie.
	for _, garbage := range []string{"", "not-a-jwt", "a.b.c", "{}"} {
		if _, err := ts.Validate(garbage); err == nil {
			t.Errorf("Validate(%q) should fail", garbage)
		}
	}
}
