package summary

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/application/dto"
	"github.com/vsinha/sourcing/pkg/domain/entities"
)

var hundred = decimal.NewFromInt(100)

// Summarize projects the orders into totals and per-center rows, primary
// center first. Both centers are always listed, even without orders.
func Summarize(orders []*entities.ProductionOrder, centers *entities.CenterSet) dto.Summary {
	summary := dto.Summary{
		TotalQuantity: decimal.Zero,
		TotalHours:    decimal.Zero,
		TotalSavings:  decimal.Zero,
	}

	rows := make(map[entities.CenterID]*dto.CenterSummary, 2)
	list := centers.Centers()
	for _, c := range list {
		rows[c.ID] = &dto.CenterSummary{
			Center:   c.ID,
			Alias:    c.Alias,
			Quantity: decimal.Zero,
			Hours:    decimal.Zero,
			Savings:  decimal.Zero,
		}
	}

	for _, o := range orders {
		summary.TotalOrders++
		summary.TotalQuantity = summary.TotalQuantity.Add(o.Quantity)
		summary.TotalHours = summary.TotalHours.Add(o.Hours)
		summary.TotalSavings = summary.TotalSavings.Add(o.Savings)

		row, ok := rows[o.Center]
		if !ok {
			continue
		}
		row.Orders++
		row.Quantity = row.Quantity.Add(o.Quantity)
		row.Hours = row.Hours.Add(o.Hours)
		row.Savings = row.Savings.Add(o.Savings)
	}

	for _, c := range list {
		row := rows[c.ID]
		row.HoursShare = percent(row.Hours, summary.TotalHours)
		row.OrdersShare = percent(decimal.NewFromInt(int64(row.Orders)), decimal.NewFromInt(int64(summary.TotalOrders)))
		if c.HasCapacity {
			capacity := c.CapacityHours
			load := percent(row.Hours, capacity)
			row.Capacity = &capacity
			row.Load = &load
		}
		summary.Centers = append(summary.Centers, *row)
	}

	return summary
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole).Round(2)
}
