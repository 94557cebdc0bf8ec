package service

import (
	"testing"

	"github.com/HovVathana/shoppink-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestStockEffect(t *testing.T) {
	cases := []struct {
		name string
		from models.OrderState
		to   models.OrderState
		want int32
	}{
		{"placed->delivering deducts", models.OrderStatePlaced, models.OrderStateDelivering, -1},
		{"returned->delivering deducts again", models.OrderStateReturned, models.OrderStateDelivering, -1},
		{"delivering->returned restores", models.OrderStateDelivering, models.OrderStateReturned, +1},
		{"completed->returned restores", models.OrderStateCompleted, models.OrderStateReturned, +1},
		{"delivering->delivering noop", models.OrderStateDelivering, models.OrderStateDelivering, 0},
		{"returned->returned noop", models.OrderStateReturned, models.OrderStateReturned, 0},
		{"placed->completed noop", models.OrderStatePlaced, models.OrderStateCompleted, 0},
		{"delivering->completed noop", models.OrderStateDelivering, models.OrderStateCompleted, 0},
		{"completed->placed noop", models.OrderStateCompleted, models.OrderStatePlaced, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, stockEffect(tc.from, tc.to))
		})
	}
}

// Полный цикл: списание и возврат компенсируют друг друга.
func TestStockEffectRoundTrip(t *testing.T) {
	sum := stockEffect(models.OrderStatePlaced, models.OrderStateDelivering) +
		stockEffect(models.OrderStateDelivering, models.OrderStateReturned)
	assert.Equal(t, int32(0), sum)
}
