package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func TestCreateAndParse(t *testing.T) {
	token, err := CreateAccessToken(testSecret, 42, RolePlayer, time.Hour)
	require.NoError(t, err)

	userID, role, err := ParseValidate(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, RolePlayer, role)
}

func TestParseValidate_WrongSecret(t *testing.T) {
	token, err := CreateAccessToken(testSecret, 42, RoleOwner, time.Hour)
	require.NoError(t, err)

	_, _, err = ParseValidate([]byte("other-secret"), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseValidate_Expired(t *testing.T) {
	token, err := CreateAccessToken(testSecret, 42, RolePlayer, -time.Minute)
	require.NoError(t, err)

	_, _, err = ParseValidate(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseValidate_Garbage(t *testing.T) {
	_, _, err := ParseValidate(testSecret, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseValidate_BadSubject(t *testing.T) {
	tests := []struct {
		name    string
		subject string
	}{
		{name: "non-numeric", subject: "user-42"},
		{name: "zero", subject: "0"},
		{name: "negative", subject: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := Claims{
				Role: RolePlayer,
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   tt.subject,
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
			}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
			require.NoError(t, err)

			_, _, err = ParseValidate(testSecret, token)
			assert.ErrorIs(t, err, ErrInvalidSubject)
		})
	}
}

func TestParseValidate_NoneAlgorithmRejected(t *testing.T) {
	claims := Claims{
		Role: RoleOwner,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = ParseValidate(testSecret, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
