package httpapi

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, nil)

	token, err := auth.sign("ana", "customer", time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	actor, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if actor.Username != "ana" || actor.Role != "customer" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	auth := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, nil)

	token, err := auth.sign("ana", "customer", time.Now().UTC().Add(-time.Minute))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := auth.ParseToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, nil)
	verifier := NewAuthManager("another-secret-another-secret-ab", time.Hour, nil)

	token, err := issuer.sign("ana", "customer", time.Now().UTC().Add(time.Hour))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := verifier.ParseToken(token); err == nil {
		t.Fatal("expected error for token signed with different secret")
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	auth := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, nil)
	if _, err := auth.ParseToken("not.a.token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestCSRFTokenValidation(t *testing.T) {
	api := New(nil, nil, "", nil)

	token := api.generateCSRFToken()
	if !api.validateCSRFToken(token) {
		t.Fatal("freshly issued token must validate")
	}
	if api.validateCSRFToken("") {
		t.Fatal("empty token must not validate")
	}
	if api.validateCSRFToken("deadbeef") {
		t.Fatal("forged token must not validate")
	}

	other := New(nil, nil, "", nil)
	if other.validateCSRFToken(token) {
		t.Fatal("token from another instance must not validate")
	}
}
