package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fp(v float64) *float64 { return &v }

func TestResolveUnitPrice(t *testing.T) {
	tests := []struct {
		name        string
		base        float64
		baseSale    *float64
		variantOver *float64
		variantSale *float64
		want        float64
	}{
		{"base only", 100, nil, nil, nil, 100},
		{"sale below base wins", 100, fp(80), nil, nil, 80},
		{"sale equal to base loses", 100, fp(100), nil, nil, 100},
		{"sale above base loses", 100, fp(120), nil, nil, 100},
		{"variant override replaces base", 100, nil, fp(150), nil, 150},
		{"variant sale beats variant override", 100, nil, fp(150), fp(120), 120},
		{"variant sale compared against override not base", 100, nil, fp(90), fp(95), 90},
		{"product sale compared against variant override", 100, fp(80), fp(70), nil, 70},
		{"inherited product sale below override wins", 100, fp(60), fp(70), nil, 60},
		{"zero sale price wins when below", 100, fp(0), nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveUnitPrice(tt.base, tt.baseSale, tt.variantOver, tt.variantSale)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 10.0, roundMoney(3*3.3333333))
	assert.Equal(t, 0.1, roundMoney(0.1+1e-12))
	assert.Equal(t, 19.99, roundMoney(19.99))
}
