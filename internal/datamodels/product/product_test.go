package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayPrice(t *testing.T) {
	tests := []struct {
		paise int64
		want  string
	}{
		{paise: 990, want: "9.90"},
		{paise: 249900, want: "2499.00"},
		{paise: 1, want: "0.01"},
		{paise: 0, want: "0.00"},
	}
	for _, tc := range tests {
		p := Product{PricePaise: tc.paise}
		assert.Equal(t, tc.want, p.DisplayPrice())
	}
}
