package jwt_test

import (
	"testing"

	"github.com/jhoicas/fabrica-api/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RecuperaClaims(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u-1", "Ana", "estoque", "fabrica-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "Ana", claims.Name)
	assert.Equal(t, "estoque", claims.Role)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u-1", "Ana", "admin", "fabrica-api", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u-1", "Ana", "admin", "fabrica-api", -1)
	require.NoError(t, err)

	_, err = jwt.Parse("s3cret", token)
	assert.Error(t, err)
}

func TestParse_SinNombreUsaUserID(t *testing.T) {
	token, err := jwt.Generate("s3cret", "u-9", "", "admin", "fabrica-api", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("s3cret", token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", claims.Name)
}
