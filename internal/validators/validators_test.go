package validators

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUsernameValid(t *testing.T) {
	assert.True(t, IsUsernameValid("anna.smith+gym@home_1"))
	assert.False(t, IsUsernameValid(""))
	assert.False(t, IsUsernameValid("anna smith"))
	assert.False(t, IsUsernameValid("anna#1"))
	assert.False(t, IsUsernameValid(strings.Repeat("a", 151)))
}

func TestIsPhoneValid(t *testing.T) {
	for _, ok := range []string{"", "+84 912 345 678", "0912-345-678", "12345678"} {
		assert.True(t, IsPhoneValid(ok), ok)
	}
	for _, bad := range []string{"1234567", "84+912345678", "(091) 234 5678", "1234567890123456"} {
		assert.False(t, IsPhoneValid(bad), bad)
	}
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "anna@gym.local", NormalizeEmail("  Anna@GYM.local "))
}

func TestEmailDomain(t *testing.T) {
	assert.Equal(t, "gym.local", emailDomain("a@b@gym.local"))
	assert.Empty(t, emailDomain("@gym.local"))
	assert.Empty(t, emailDomain("anna@"))
	assert.Empty(t, emailDomain("anna"))
}

func TestIsEmailDomainValid_RejectsMalformedWithoutLookup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, IsEmailDomainValid(ctx, "anna"))
	assert.False(t, IsEmailDomainValid(ctx, "anna@localhost"))
}
