package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"verification code", "123456", IntentVerification},
		{"verification code with spaces", "  654321  ", IntentVerification},
		{"contract keyword", "хочу оформить договор", IntentContract},
		{"english sign keyword", "ready to sign", IntentContract},
		{"petition keyword", "нужно ходатайство о переносе", IntentPetition},
		{"return license phrase", "как вернуть права", IntentPetition},
		{"pricing keyword", "сколько стоит ваша помощь", IntentPricing},
		{"money keyword", "какие деньги за это берете", IntentPricing},
		{"no intent", "добрый день", IntentIntake},
		{"seven digits is not a code", "1234567", IntentIntake},
		{"contract beats petition order", "договор и ходатайство", IntentContract},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Route(tt.message))
		})
	}
}
