package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlocklist(t *testing.T) {
	n := NewNormalizer(testCities)
	b := NewBlocklist([]string{"nike", "lululemon", "sport chek"}, n)

	tests := []struct {
		name    string
		input   string
		blocked bool
	}{
		{name: "exact match", input: "nike", blocked: true},
		{name: "suffix stripped then exact", input: "Nike Store", blocked: true},
		{name: "entry as token prefix", input: "nike running room", blocked: true},
		{name: "possessive form", input: "nike's outlet house", blocked: true},
		{name: "substring inside longer word", input: "nikesha's boutique", blocked: false},
		{name: "multi word entry", input: "Sport Chek #12", blocked: true},
		{name: "unrelated brand", input: "Healthy Planet", blocked: false},
		{name: "empty", input: "", blocked: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.blocked, b.Blocked(tc.input))
		})
	}
}

func TestBlocklistCaseAndWhitespace(t *testing.T) {
	n := NewNormalizer(nil)
	b := NewBlocklist([]string{"  Foot Locker  ", ""}, n)

	assert.True(t, b.Blocked("FOOT LOCKER"))
	assert.False(t, b.Blocked("footlocker express co"))
}
