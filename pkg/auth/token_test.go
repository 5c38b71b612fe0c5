package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/userhubapp/userhub-backend/pkg/config"
	"github.com/userhubapp/userhub-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secret",
		Issuer:                 "userhub",
		ExpirationMinutes:      30,
		RefreshTokenTTLMinutes: 60 * 24 * 7,
	}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()
	sessionID := uuid.NewString()

	payload := TokenPayload{
		UserID:    userID,
		Role:      enums.UserRoleAdmin,
		SessionID: sessionID,
	}

	token, err := MintAccessToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseToken(cfg, token, TokenUseAccess)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected role %s", claims.Role)
	}
	if claims.TokenUse != TokenUseAccess {
		t.Fatalf("unexpected token use %s", claims.TokenUse)
	}
	if claims.SessionID() != sessionID {
		t.Fatalf("expected jti %s, got %s", sessionID, claims.SessionID())
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %s", claims.Issuer)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != 30*time.Minute {
		t.Fatalf("unexpected access ttl %s", got)
	}
}

func TestRefreshTokenCarriesSameSession(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	payload := TokenPayload{
		UserID:    uuid.New(),
		Role:      enums.UserRoleUser,
		SessionID: uuid.NewString(),
	}

	refresh, err := MintRefreshToken(cfg, now, payload)
	if err != nil {
		t.Fatalf("mint refresh token: %v", err)
	}

	claims, err := ParseToken(cfg, refresh, TokenUseRefresh)
	if err != nil {
		t.Fatalf("parse refresh token: %v", err)
	}
	if claims.SessionID() != payload.SessionID {
		t.Fatalf("refresh jti mismatch")
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != cfg.RefreshTokenTTL() {
		t.Fatalf("unexpected refresh ttl %s", got)
	}
}

func TestParseTokenRejectsWrongUse(t *testing.T) {
	cfg := testJWTConfig()
	payload := TokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser, SessionID: uuid.NewString()}

	access, err := MintAccessToken(cfg, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseToken(cfg, access, TokenUseRefresh); err != ErrWrongTokenUse {
		t.Fatalf("expected ErrWrongTokenUse, got %v", err)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	payload := TokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser, SessionID: uuid.NewString()}

	past := time.Now().UTC().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseToken(cfg, token, TokenUseAccess); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsTamperedSignature(t *testing.T) {
	cfg := testJWTConfig()
	payload := TokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser, SessionID: uuid.NewString()}

	token, err := MintAccessToken(cfg, time.Now().UTC(), payload)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseToken(other, token, TokenUseAccess); err == nil {
		t.Fatal("expected signature mismatch to be rejected")
	}

	if !strings.Contains(token, ".") {
		t.Fatal("token is not a jwt")
	}
}

func TestMintTokenValidation(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	if _, err := MintAccessToken(config.JWTConfig{Issuer: "userhub", ExpirationMinutes: 5}, now, TokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser, SessionID: "s"}); err == nil {
		t.Fatal("expected missing secret to fail")
	}
	if _, err := MintAccessToken(cfg, now, TokenPayload{UserID: uuid.New(), Role: enums.UserRole("nope"), SessionID: "s"}); err == nil {
		t.Fatal("expected invalid role to fail")
	}
	if _, err := MintAccessToken(cfg, now, TokenPayload{UserID: uuid.New(), Role: enums.UserRoleUser}); err == nil {
		t.Fatal("expected missing session id to fail")
	}
}
