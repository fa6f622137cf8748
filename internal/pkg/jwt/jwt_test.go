package jwt

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-workflow-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc, err := NewJWTService("test-secret", "15m")
	require.NoError(t, err)

	empID := "0190a000-0000-7000-8000-000000000001"
	u := user.User{ID: "0190a000-0000-7000-8000-0000000000aa", Username: "jdoe", EmployeeID: &empID, Role: user.RoleManager}

	token, expiresAt, err := svc.GenerateAccessToken(u)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), expiresAt, 5)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, empID, p.EmployeeID)
	assert.Equal(t, user.RoleManager, p.Role)
}

func TestJWTService_NoLinkedEmployee(t *testing.T) {
	svc, err := NewJWTService("test-secret", "1h")
	require.NoError(t, err)

	token, _, err := svc.GenerateAccessToken(user.User{ID: "u-1", Username: "ops", Role: user.RoleUser})
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	p, err := PrincipalFromClaims(claims)
	require.NoError(t, err)
	assert.False(t, p.HasEmployee())
}

func TestPrincipalFromClaims_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{"wrong type", map[string]interface{}{"type": "refresh", "user_id": "u", "role": "admin"}},
		{"missing user", map[string]interface{}{"type": "access", "role": "admin"}},
		{"unknown role", map[string]interface{}{"type": "access", "user_id": "u", "role": "root"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PrincipalFromClaims(tt.claims)
			assert.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}

func TestNewJWTService_BadDuration(t *testing.T) {
	_, err := NewJWTService("s", "fifteen minutes")
	assert.Error(t, err)
}
