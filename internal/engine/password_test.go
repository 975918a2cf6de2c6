package engine

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"three classes", "Str0ngpassword", false},
		{"all four classes", "Str0ng!Passw0rd", false},
		{"exactly eight chars", "Abcdef1!", false},
		{"symbols only plus letters", "Abcdefg!", false},
		{"empty", "", true},
		{"too short", "Ab1!", true},
		{"only lowercase", "abcdefghij", true},
		{"two classes", "abcdefg1", true},
		{"two classes upper lower", "Abcdefgh", true},
		{"too long", strings.Repeat("Ab1!", 33), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrWeakPassword) {
					t.Errorf("error %v is not ErrWeakPassword", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
