package jwtmw

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, tokenStr, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenStr, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			t.Errorf("unexpected signing method: %v", tok.Header["alg"])
		}
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	return claims
}

// TestGenerator_GenerateToken は生成されたトークンが有効で正しいクレームを含むことを検証します。
func TestGenerator_GenerateToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		deviceID   string
		expiration time.Duration
		expectExp  bool
	}{
		{"with expiration", "pixel-8", time.Hour, true},
		{"long lived", "tablet", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gen := NewGenerator("test-secret", tt.expiration)
			fixed := time.Date(2024, 10, 14, 9, 0, 0, 0, time.UTC)
			gen.now = func() time.Time { return fixed }

			tokenStr, err := gen.GenerateToken(tt.deviceID)
			require.NoError(t, err)

			// exp付きトークンは固定時刻から1時間後なので、検証時刻によっては失効扱いになる
			if tt.expectExp {
				token, _, err := jwt.NewParser().ParseUnverified(tokenStr, jwt.MapClaims{})
				require.NoError(t, err)
				claims := token.Claims.(jwt.MapClaims)
				assert.Equal(t, tt.deviceID, claims["sub"])
				assert.Equal(t, float64(fixed.Add(time.Hour).Unix()), claims["exp"])
				return
			}

			claims := parse(t, tokenStr, "test-secret")
			assert.Equal(t, tt.deviceID, claims["sub"])
			assert.Equal(t, tokenScope, claims["scope"])
			assert.Equal(t, float64(fixed.Unix()), claims["iat"])
			_, hasExp := claims["exp"]
			assert.False(t, hasExp)
		})
	}
}

// TestGenerator_GenerateToken_EmptyDevice は端末IDが空の場合にエラーとなることを検証します。
func TestGenerator_GenerateToken_EmptyDevice(t *testing.T) {
	t.Parallel()

	_, err := NewGenerator("test-secret", time.Hour).GenerateToken("")
	assert.Error(t, err)
}

// TestGenerator_DifferentDevicesProduceDifferentTokens は異なる端末に対して異なるトークンが生成されることを検証します。
func TestGenerator_DifferentDevicesProduceDifferentTokens(t *testing.T) {
	t.Parallel()

	gen := NewGenerator("test-secret", time.Hour)

	token1, err := gen.GenerateToken("phone")
	require.NoError(t, err)
	token2, err := gen.GenerateToken("tablet")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}
