package handlers

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: 10 * time.Minute}

	token, expiresIn, err := GenerateAccessToken(cfg, "node-a", "admin", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(600), expiresIn)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "node-a", claims.NodeID)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "isync", claims.Issuer)
}

func TestGenerateAccessToken_DefaultTTL(t *testing.T) {
	_, expiresIn, err := GenerateAccessToken(JWTConfig{Secret: []byte("s")}, "node-a", "admin", RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultTokenTTL.Seconds()), expiresIn)
}

func TestValidateAccessToken_Invalid(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: time.Minute}

	wrongIssuer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString(cfg.Secret)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, CustomClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "isync"},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "abc",
		"wrong issuer": wrongIssuer,
		"alg none":     noneAlg,
	} {
		t.Run(name, func(t *testing.T) {
			claims, err := ValidateAccessToken(cfg, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	want := Principal{Subject: "admin", Role: RoleAdmin, NodeID: "node-a"}
	got, ok := PrincipalFromContext(WithPrincipal(context.Background(), want))
	require.True(t, ok)
	assert.Equal(t, want, got)
}
