package login

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail("not-an-email"))
	assert.NoError(t, validateEmail(" ada@example.com "))

	assert.EqualError(t, validateRequired("Password")("  "), "Password is required")
	assert.NoError(t, validateRequired("Password")("secret"))
}

func TestStartAndFailed(t *testing.T) {
	m := New("http://api.test", 80, 24)
	assert.Empty(t, m.View())

	m.Start("")
	assert.Contains(t, m.View(), "Sign in")
	assert.Contains(t, m.View(), "http://api.test")

	m.fb.email = "ada@example.com"
	m.fb.password = "secret"
	m.pending = true

	m.Failed(errors.New("invalid credentials"))
	assert.False(t, m.Pending())
	assert.Equal(t, "ada@example.com", m.fb.email)
	assert.Empty(t, m.fb.password)
	assert.Contains(t, m.View(), "invalid credentials")
}
