package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	valid := []string{
		"jean.dupont@example.com",
		"marie+abo@sub.example.org",
		"a_b-c%d@exemple.fr",
	}
	for _, email := range valid {
		assert.True(t, ValidateEmail(email), "expected %q to be valid", email)
	}

	invalid := []string{
		"",
		"jean",
		"jean@",
		"@example.com",
		"jean@example",
		"jean dupont@example.com",
	}
	for _, email := range invalid {
		assert.False(t, ValidateEmail(email), "expected %q to be invalid", email)
	}
}
