package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/gst-invoicing/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testIssuer = "gst-invoicing-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "1", "admin@example.com", testIssuer, 60)
	require.NoError(t, err)

	id, email, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, "admin@example.com", email)
}

func TestParse_Expired(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "1", "admin@example.com", testIssuer, -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, "1", "admin@example.com", testIssuer, 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("another-secret", tok)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := pkgjwt.Generate("", "1", "a@b.c", testIssuer, 60)
	assert.Error(t, err)

	_, _, err = pkgjwt.Parse("", "x.y.z")
	assert.Error(t, err)
}
