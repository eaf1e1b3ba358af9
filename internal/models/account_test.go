package models_test

import (
	"testing"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestAccountTypeRoundTrip(t *testing.T) {
	// Every type must translate to a gateway name that resolves back to the
	// same type.
	for _, kind := range models.AccountTypes() {
		name := kind.GatewayName()
		assert.NotEmpty(t, name, "type %s has no gateway name", kind)

		resolved, err := models.AccountTypeFromName(name)
		assert.Nil(t, err, "type %s", kind)
		assert.Equal(t, kind, resolved, "name %q", name)
	}
}

func TestAccountTypeFromNameLegacyAliases(t *testing.T) {
	tests := []struct {
		name     string
		expected models.AccountType
	}{
		{"Bank Account", models.AccountTypeChecking},
		{"Credit", models.AccountTypeCredit},
		{"Digital Wallet", models.AccountTypeEWallet},
	}

	for _, tt := range tests {
		kind, err := models.AccountTypeFromName(tt.name)
		assert.Nil(t, err, tt.name)
		assert.Equal(t, tt.expected, kind, tt.name)
	}
}

func TestAccountTypeFromNameUnknown(t *testing.T) {
	kind, err := models.AccountTypeFromName("Shoebox Under The Bed")
	assert.ErrorIs(t, err, models.ErrUnknownAccountType)
	assert.Equal(t, models.AccountTypeCash, kind, "unknown names fall back to cash")
}

func TestAccountTypeGatewayNameTotal(t *testing.T) {
	// Unknown types still produce a writable name.
	assert.Equal(t, "Cash", models.AccountType("made-up").GatewayName())
}

func TestAccountTypeColor(t *testing.T) {
	seen := make(map[string]models.AccountType)
	for _, kind := range models.AccountTypes() {
		color := kind.Color()
		assert.Regexp(t, "^#[0-9a-f]{6}$", color, "type %s", kind)

		if other, ok := seen[color]; ok {
			t.Errorf("types %s and %s share color %s", kind, other, color)
		}
		seen[color] = kind
	}

	assert.Equal(t, models.AccountTypeCash.Color(), models.AccountType("made-up").Color())
}

func TestAccountTypesCount(t *testing.T) {
	assert.Len(t, models.AccountTypes(), 14)
}
