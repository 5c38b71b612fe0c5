package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhubapp/userhub-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// ErrWrongTokenUse signals a token presented with the wrong token_use claim.
var ErrWrongTokenUse = fmt.Errorf("wrong token use")

// MintAccessToken issues the short-lived access JWT for a session.
func MintAccessToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mintToken(cfg, now, payload, TokenUseAccess, cfg.AccessTokenTTL())
}

// MintRefreshToken issues the long-lived refresh JWT for the same session.
func MintRefreshToken(cfg config.JWTConfig, now time.Time, payload TokenPayload) (string, error) {
	return mintToken(cfg, now, payload, TokenUseRefresh, cfg.RefreshTokenTTL())
}

func mintToken(cfg config.JWTConfig, now time.Time, payload TokenPayload, use TokenUse, ttl time.Duration) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("jwt issuer is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("token ttl must be positive")
	}
	if !payload.Role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", payload.Role)
	}
	if strings.TrimSpace(payload.SessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}

	claims := Claims{
		UserID:   payload.UserID,
		Role:     payload.Role,
		TokenUse: use,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   payload.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        payload.SessionID,
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing jwt: %w", err)
	}
	return signed, nil
}

// ParseToken validates the JWT string and returns typed claims. The token
// must carry the expected token_use claim.
func ParseToken(cfg config.JWTConfig, tokenString string, expected TokenUse) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	if claims.TokenUse != expected {
		return nil, ErrWrongTokenUse
	}

	return claims, nil
}
