package resolution

import (
	"context"
	"runtime"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// minPartition keeps small inputs on a single goroutine
const minPartition = 256

// Resolver assigns every joined record to one of the two centers
type Resolver struct {
	centers    *entities.CenterSet
	pricer     TransportPricer
	thresholds Thresholds
	workers    int
	logger     ectologger.Logger
}

// NewResolver creates a resolver. workers <= 0 uses one worker per CPU.
func NewResolver(
	centers *entities.CenterSet,
	pricer TransportPricer,
	thresholds Thresholds,
	workers int,
	logger ectologger.Logger,
) *Resolver {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Resolver{
		centers:    centers,
		pricer:     pricer,
		thresholds: thresholds,
		workers:    workers,
		logger:     logger,
	}
}

// Resolve returns one assignment per record, in record order. Partitions are
// resolved concurrently; each worker writes only its own indices.
func (r *Resolver) Resolve(ctx context.Context, records []entities.JoinedRecord) ([]entities.Assignment, error) {
	assignments := make([]entities.Assignment, len(records))

	size := (len(records) + r.workers - 1) / r.workers
	if size < minPartition {
		size = minPartition
	}

	g, gctx := errgroup.WithContext(ctx)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				assignments[i] = r.Assign(records[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"records": len(records),
		"centers": r.centers.String(),
		"rules":   CountRules(assignments),
	}).Debug("Resolved centers")

	return assignments, nil
}

// Assign resolves a single record. First match wins: exclusivity to A,
// exclusivity to B, strictly cheaper landed cost, then the tie-break.
func (r *Resolver) Assign(record entities.JoinedRecord) entities.Assignment {
	a, b := r.centers.A.ID, r.centers.B.ID

	switch {
	case record.IsExclusive(a):
		return entities.Assignment{Record: record, Center: a, Savings: decimal.Zero, Rule: entities.RuleExclusive}
	case record.IsExclusive(b):
		return entities.Assignment{Record: record, Center: b, Savings: decimal.Zero, Rule: entities.RuleExclusive}
	}

	price := r.pricer.PricePerDistance(record)
	costA := LandedCost(record, a, price)
	costB := LandedCost(record, b, price)

	assignment := entities.Assignment{Record: record, CostA: costA, CostB: costB}
	switch costA.Cmp(costB) {
	case -1:
		assignment.Center = a
		assignment.Savings = costB.Sub(costA)
		assignment.Rule = entities.RuleCost
	case 1:
		assignment.Center = b
		assignment.Savings = costA.Sub(costB)
		assignment.Rule = entities.RuleCost
	default:
		threshold := r.thresholds.For(record.Week).Div(hundred).InexactFloat64()
		assignment.Center = b
		if Tiebreak(record.Line.Row) < threshold {
			assignment.Center = a
		}
		assignment.Savings = decimal.Zero
		assignment.Rule = entities.RuleTieBreak
	}
	return assignment
}

// LandedCost is distance × price per distance + quantity × unit cost
func LandedCost(record entities.JoinedRecord, center entities.CenterID, price decimal.Decimal) decimal.Decimal {
	transport := record.Distance(center).Mul(price)
	fabrication := record.Line.Quantity.Mul(record.UnitCost(center))
	return transport.Add(fabrication)
}

// CountRules tallies assignments by the rule that decided them
func CountRules(assignments []entities.Assignment) map[string]int {
	counts := make(map[string]int, 3)
	for _, a := range assignments {
		counts[a.Rule.String()]++
	}
	return counts
}
