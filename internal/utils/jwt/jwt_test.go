package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateAndExtract(t *testing.T) {
	token, err := GenerateToken("ops", "secret", time.Minute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	subject, err := ExtractSubjectFromToken(token, "secret")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if subject != "ops" {
		t.Fatalf("Expected subject ops, got %q", subject)
	}
}

func TestExtract_Failures(t *testing.T) {
	valid, _ := GenerateToken("ops", "secret", time.Minute)
	expired, _ := GenerateToken("ops", "secret", -time.Minute)
	noSubject, _ := GenerateToken("", "secret", time.Minute)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{"wrong secret", valid, "other"},
		{"expired", expired, "secret"},
		{"empty subject", noSubject, "secret"},
		{"garbage", "abc.def.ghi", "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractSubjectFromToken(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
