package batching

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// GroupKey identifies a lot group
type GroupKey struct {
	Material entities.MaterialCode
	Unit     string
	Center   entities.CenterID
	NeedDate time.Time
	Week     string
}

func (k GroupKey) String() string {
	return fmt.Sprintf("%s/%s@%s %s (%s)", k.Material, k.Unit, k.Center, k.NeedDate.Format("2006-01-02"), k.Week)
}

func (k GroupKey) less(o GroupKey) bool {
	if k.Material != o.Material {
		return k.Material < o.Material
	}
	if k.Unit != o.Unit {
		return k.Unit < o.Unit
	}
	if k.Center != o.Center {
		return k.Center < o.Center
	}
	if !k.NeedDate.Equal(o.NeedDate) {
		return k.NeedDate.Before(o.NeedDate)
	}
	return k.Week < o.Week
}

// Group aggregates the assignments sharing a GroupKey. Lot sizes and unit time
// come from the group's first assignment.
type Group struct {
	Key      GroupKey
	Quantity decimal.Decimal
	Savings  decimal.Decimal
	MinLot   decimal.Decimal
	MaxLot   decimal.Decimal
	UnitTime decimal.Decimal
	Lines    int
}

// GroupAssignments buckets assignments by lot group, sorted by key
func GroupAssignments(assignments []entities.Assignment) []*Group {
	index := make(map[GroupKey]*Group)
	groups := make([]*Group, 0)

	for _, a := range assignments {
		key := GroupKey{
			Material: a.Record.Line.Material,
			Unit:     a.Record.Line.Unit,
			Center:   a.Center,
			NeedDate: a.Record.Line.NeedDate,
			Week:     a.Record.Week,
		}
		g, ok := index[key]
		if !ok {
			g = &Group{
				Key:      key,
				Quantity: decimal.Zero,
				Savings:  decimal.Zero,
				MinLot:   a.Record.Material.MinLot,
				MaxLot:   a.Record.Material.MaxLot,
				UnitTime: a.Record.UnitTime(a.Center),
			}
			index[key] = g
			groups = append(groups, g)
		}
		g.Quantity = g.Quantity.Add(a.Record.Line.Quantity)
		g.Savings = g.Savings.Add(a.Savings)
		g.Lines++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key.less(groups[j].Key)
	})
	return groups
}

// Validate rejects a group whose maximum lot size cannot bound a lot
func (g *Group) Validate() error {
	if !g.MaxLot.IsPositive() {
		return entities.NewPlanErrorf(entities.InvalidLotConfiguration,
			"maximum lot size must be positive, got %s", g.MaxLot).
			WithTable("materials").
			WithField("Tamaño lote máximo").
			WithGroup(g.Key.String())
	}
	return nil
}

// Total is the quantity to manufacture, raised to the minimum lot
func (g *Group) Total() decimal.Decimal {
	return decimal.Max(g.Quantity, g.MinLot)
}

// Count is the number of lots, ceil(total / max lot)
func (g *Group) Count() int64 {
	total := g.Total()
	if !total.IsPositive() {
		return 0
	}
	q, r := total.QuoRem(g.MaxLot, 0)
	count := q.IntPart()
	if !r.IsZero() {
		count++
	}
	return count
}

// Batcher splits lot groups into production orders
type Batcher struct {
	orderClass string
	workers    int
	logger     ectologger.Logger
}

// NewBatcher creates a batcher. workers <= 0 uses one worker per CPU.
func NewBatcher(orderClass string, workers int, logger ectologger.Logger) *Batcher {
	if orderClass == "" {
		orderClass = entities.DefaultOrderClass
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Batcher{orderClass: orderClass, workers: workers, logger: logger}
}

// Batch turns assignments into production orders. Any group with an unusable
// maximum lot fails the whole run and no orders are returned.
func (b *Batcher) Batch(ctx context.Context, assignments []entities.Assignment) ([]*entities.ProductionOrder, error) {
	groups := GroupAssignments(assignments)
	for _, g := range groups {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}

	lots := make([][]*entities.ProductionOrder, len(groups))
	eg, egctx := errgroup.WithContext(ctx)
	eg.SetLimit(b.workers)
	for i, g := range groups {
		eg.Go(func() error {
			if err := egctx.Err(); err != nil {
				return err
			}
			orders, err := b.split(g)
			if err != nil {
				return err
			}
			lots[i] = orders
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var orders []*entities.ProductionOrder
	for _, group := range lots {
		for _, o := range group {
			o.Number = len(orders) + 1
			orders = append(orders, o)
		}
	}

	b.logger.WithContext(ctx).WithFields(map[string]any{
		"groups": len(groups),
		"orders": len(orders),
	}).Debug("Built production orders")

	return orders, nil
}

// split emits Count() equal lots for a validated group. Rounding is applied
// per lot, so the lots may sum to slightly more or less than the total.
func (b *Batcher) split(g *Group) ([]*entities.ProductionOrder, error) {
	count := g.Count()
	if count == 0 {
		return nil, nil
	}

	n := decimal.NewFromInt(count)
	qty := g.Total().Div(n).Round(2)
	savings := g.Savings.Div(n).Round(2)
	hours := qty.Mul(g.UnitTime).Round(2)

	orders := make([]*entities.ProductionOrder, 0, count)
	for i := int64(0); i < count; i++ {
		// Numbers are assigned once every group is built
		order, err := entities.NewProductionOrder(1, g.Key.Material, g.Key.Center, b.orderClass,
			qty, g.Key.Unit, g.Key.NeedDate, g.Key.Week, hours, savings)
		if err != nil {
			return nil, entities.NewPlanError(entities.InvalidLotConfiguration, err.Error()).
				WithGroup(g.Key.String()).
				WithCause(err)
		}
		orders = append(orders, order)
	}
	return orders, nil
}
