package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want Price
		err  error
	}{
		{"12.84", 1284, nil},
		{"33.00", 3300, nil},
		{"7", 700, nil},
		{"0.5", 50, nil},
		{".5", 50, nil},
		{"999.99", MaxPrice, nil},
		{"12.840", 1284, nil},
		{"1000", 0, ErrPriceRange},
		{"-1", 0, ErrPriceRange},
		{"1.234", 0, ErrPricePrecision},
		{"abc", 0, ErrPriceFormat},
		{"", 0, ErrPriceFormat},
		{"1e2", 0, ErrPriceFormat},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePrice(tt.in)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceJSON(t *testing.T) {
	var payload struct {
		Price Price `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": 12.84}`), &payload))
	assert.Equal(t, Price(1284), payload.Price)

	require.NoError(t, json.Unmarshal([]byte(`{"price": "5.1"}`), &payload))
	assert.Equal(t, Price(510), payload.Price)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": "5.10"}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"price": true}`), &payload))
}

func TestPriceScan(t *testing.T) {
	var p Price
	require.NoError(t, p.Scan([]byte("23.03")))
	assert.Equal(t, Price(2303), p)

	require.NoError(t, p.Scan(float64(23.3)))
	assert.Equal(t, Price(2330), p)

	require.NoError(t, p.Scan(int64(4)))
	assert.Equal(t, Price(400), p)

	assert.Error(t, p.Scan(true))
}
