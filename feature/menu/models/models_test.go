package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		err  error
	}{
		{name: "plain", raw: "10.50", want: "10.50"},
		{name: "integer", raw: "7", want: "7.00"},
		{name: "rounds half up", raw: "123.456", want: "123.46"},
		{name: "rounds down", raw: "123.454", want: "123.45"},
		{name: "negative", raw: "-1.00", err: ErrInvalidPrice},
		{name: "not a number", raw: "ten", err: ErrInvalidPrice},
		{name: "empty", raw: "", err: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePrice(tt.raw)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}

func TestDisplayPrice(t *testing.T) {
	price := decimal.RequireFromString("100.00")

	assert.Equal(t, "100.00", DisplayPrice(price, 0))
	assert.Equal(t, "75.00", DisplayPrice(price, 25))
	assert.Equal(t, "0.00", DisplayPrice(price, 100))

	// 9.99 at 15% off is 8.4915, which rounds up.
	assert.Equal(t, "8.49", DisplayPrice(decimal.RequireFromString("9.99"), 15))
}

func TestDishPayloadValidate(t *testing.T) {
	valid := DishPayload{Title: "Soup", Description: "Hot", Price: "4.20"}
	assert.NoError(t, valid.Validate())

	tooLow := valid
	tooLow.Discount = -1
	assert.ErrorIs(t, tooLow.Validate(), ErrDiscountRange)

	tooHigh := valid
	tooHigh.Discount = 101
	assert.ErrorIs(t, tooHigh.Validate(), ErrDiscountRange)

	badPrice := valid
	badPrice.Price = "free"
	assert.ErrorIs(t, badPrice.Validate(), ErrInvalidPrice)
}

func TestNewDishView(t *testing.T) {
	view := NewDishView(Dish{
		ID:          "d1",
		Title:       "Steak",
		Description: "Medium rare",
		SubmenuID:   "s1",
		Price:       decimal.RequireFromString("20.00"),
		Discount:    10,
	})

	assert.Equal(t, "18.00", view.Price)
	assert.Equal(t, 10, view.Discount)
	assert.Equal(t, "s1", view.SubmenuID)
}
