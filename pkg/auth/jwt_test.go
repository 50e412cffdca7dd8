package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewHMACService("s3cret")

	token, err := svc.GenerateToken("nurse-7", "Ana", time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "nurse-7", claims.Subject)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewHMACService("s3cret")
	token, err := svc.GenerateToken("nurse-7", "", time.Hour)
	require.NoError(t, err)

	_, err = NewHMACService("other").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewHMACService("s3cret")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.GenerateToken("nurse-7", "", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(old)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateToken_RequiresSubject(t *testing.T) {
	_, err := NewHMACService("s3cret").GenerateToken("", "", time.Hour)
	assert.Error(t, err)
}
