package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	ident := Identity{UserID: "user-1", OrganizationID: "org-1"}
	token, err := NewToken(ident, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}

	claims, err := ParseToken(token, "test-secret")
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-1" || claims.OrganizationID != "org-1" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := NewToken(Identity{UserID: "user-1"}, "right-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if _, err := ParseToken(token, "wrong-secret"); err == nil {
		t.Fatalf("expected signature error")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := NewToken(Identity{UserID: "user-1"}, "test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewToken: %v", err)
	}
	if _, err := ParseToken(token, "test-secret"); err == nil {
		t.Fatalf("expected expiry error")
	}
}

func TestIdentityEmpty(t *testing.T) {
	if !(Identity{}).Empty() {
		t.Fatalf("zero identity should be empty")
	}
	if (Identity{UserID: "u"}).Empty() || (Identity{OrganizationID: "o"}).Empty() {
		t.Fatalf("populated identity reported empty")
	}
}
