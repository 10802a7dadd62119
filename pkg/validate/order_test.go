package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOrderNumber(t *testing.T) {
	tests := []struct {
		name     string
		number   string
		expected bool
	}{
		{name: "Valid", number: "79927398713", expected: true},
		{name: "Valid short", number: "18", expected: true},
		{name: "Bad check digit", number: "79927398710", expected: false},
		{name: "Letters", number: "7992739871a", expected: false},
		{name: "Spaces", number: "7992 7398 713", expected: false},
		{name: "Empty", number: "", expected: false},
		{name: "Too long", number: strings.Repeat("0", 33), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsOrderNumber(tt.number))
		})
	}
}
