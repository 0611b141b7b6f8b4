package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/portal-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "bodeguero", "portal-test", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "bodeguero", claims.Role)
	assert.NotEmpty(t, claims.ID, "cada token debe llevar jti")
}

func TestGenerate_JTIUnico(t *testing.T) {
	a, err := pkgjwt.Generate(testSecret, "u1", "admin", "portal-test", 60)
	require.NoError(t, err)
	b, err := pkgjwt.Generate(testSecret, "u1", "admin", "portal-test", 60)
	require.NoError(t, err)

	ca, _ := pkgjwt.Parse(testSecret, a)
	cb, _ := pkgjwt.Parse(testSecret, b)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "admin", "portal-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "u1", "admin", "portal-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", "u1", "admin", "portal-test", 60)
	assert.Error(t, err)
}
