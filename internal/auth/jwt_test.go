package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSignAndParseToken(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := SignToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	username, err := ParseToken(secret, tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if username != "alice" {
		t.Errorf("username = %q, want %q", username, "alice")
	}
}

func TestParseTokenExpired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := SignToken(secret, "alice", -1*time.Minute)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	_, err = ParseToken(secret, tok)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := SignToken([]byte("right-secret"), "alice", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	_, err = ParseToken([]byte("wrong-secret"), tok)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenGarbage(t *testing.T) {
	t.Parallel()

	_, err := ParseToken([]byte("secret"), "not.a.token")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseTokenTampered(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := SignToken(secret, "alice", time.Hour)
	if err != nil {
		t.Fatalf("SignToken: %v", err)
	}

	// Flip a character in the signature segment.
	tampered := tok[:len(tok)-2] + "xx"
	if tampered == tok {
		tampered = tok[:len(tok)-2] + "yy"
	}

	_, err = ParseToken(secret, tampered)
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}
