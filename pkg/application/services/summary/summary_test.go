package summary

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

func order(t *testing.T, number int, center entities.CenterID, qty, hours, savings string) *entities.ProductionOrder {
	t.Helper()
	o, err := entities.NewProductionOrder(number, "M1", center, entities.DefaultOrderClass,
		decimal.RequireFromString(qty), "KG", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), "2025-W09",
		decimal.RequireFromString(hours), decimal.RequireFromString(savings))
	require.NoError(t, err)
	return o
}

func TestSummarize(t *testing.T) {
	centers := &entities.CenterSet{
		A: entities.Center{ID: "0833", Alias: "DG", CapacityHours: decimal.NewFromInt(200), HasCapacity: true},
		B: entities.Center{ID: "0184", Alias: "MCH"},
	}
	orders := []*entities.ProductionOrder{
		order(t, 1, "0833", "75", "37.5", "5"),
		order(t, 2, "0833", "75", "37.5", "5"),
		order(t, 3, "0184", "30", "25", "1.25"),
	}

	s := Summarize(orders, centers)

	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, "180", s.TotalQuantity.String())
	assert.Equal(t, "100", s.TotalHours.String())
	assert.Equal(t, "11.25", s.TotalSavings.String())
	require.Len(t, s.Centers, 2)

	a, ok := s.Center("0833")
	require.True(t, ok)
	assert.Equal(t, 2, a.Orders)
	assert.Equal(t, "75", a.Hours.String())
	assert.Equal(t, "75", a.HoursShare.String())
	assert.Equal(t, "66.67", a.OrdersShare.String())
	require.NotNil(t, a.Load)
	assert.Equal(t, "37.5", a.Load.String())

	b := s.Centers[1]
	assert.Equal(t, entities.CenterID("0184"), b.Center)
	assert.Equal(t, "25", b.HoursShare.String())
	assert.Nil(t, b.Capacity)
	assert.Nil(t, b.Load)
}

func TestSummarize_Empty(t *testing.T) {
	centers := &entities.CenterSet{A: entities.Center{ID: "0833"}, B: entities.Center{ID: "0184"}}

	s := Summarize(nil, centers)

	assert.Equal(t, 0, s.TotalOrders)
	assert.True(t, s.TotalHours.IsZero())
	require.Len(t, s.Centers, 2)
	for _, c := range s.Centers {
		assert.True(t, c.HoursShare.IsZero())
		assert.True(t, c.OrdersShare.IsZero())
	}
}
