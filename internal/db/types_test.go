package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSeverity(t *testing.T) {
	for _, s := range []string{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError} {
		assert.True(t, ValidSeverity(s), s)
	}
	for _, s := range []string{"", "debug", "INFO", "fatal"} {
		assert.False(t, ValidSeverity(s), s)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "scout@example.com", NormalizeEmail("  Scout@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestValidateRecipientEmail(t *testing.T) {
	assert.NoError(t, ValidateRecipientEmail("scout@example.com"))
	assert.Error(t, ValidateRecipientEmail(""))
	assert.Error(t, ValidateRecipientEmail("not-an-email"))
	assert.Error(t, ValidateRecipientEmail("@example.com"))
}
