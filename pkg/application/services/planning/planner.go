package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/vsinha/sourcing/pkg/application/dto"
	"github.com/vsinha/sourcing/pkg/application/services/batching"
	"github.com/vsinha/sourcing/pkg/application/services/join"
	"github.com/vsinha/sourcing/pkg/application/services/resolution"
	"github.com/vsinha/sourcing/pkg/application/services/summary"
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/infrastructure/metrics"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
)

// Planner coordinates the join, resolution, batching and summary stages
type Planner struct {
	loader  *sheet.Loader
	workers int
	logger  ectologger.Logger
}

// NewPlanner creates a new planner. workers bounds the goroutines used by the
// resolution and batching stages; <= 0 means one per CPU.
func NewPlanner(workers int, logger ectologger.Logger) *Planner {
	return &Planner{
		loader:  sheet.NewLoader(),
		workers: workers,
		logger:  logger,
	}
}

// Plan runs the whole pipeline. It never modifies the input tables and returns
// either a complete result or an error, never partial output.
func (p *Planner) Plan(ctx context.Context, in Input, params Params) (*dto.PlanResult, error) {
	start := time.Now()
	result, err := p.plan(ctx, in, params)

	status, kind := "success", ""
	if err != nil {
		status, kind = "error", "other"
		if pe, ok := entities.AsPlanError(err); ok {
			kind = pe.Kind.String()
		}
	}
	metrics.RecordPlanRun(status, kind, time.Since(start).Seconds())

	return result, err
}

func (p *Planner) plan(ctx context.Context, in Input, params Params) (*dto.PlanResult, error) {
	log := p.logger.WithContext(ctx)

	if err := Validate(in, params); err != nil {
		return nil, err
	}
	pricer, err := resolution.NewPricer(params.PriceSource, params.PricePerDistance)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	thresholds, err := resolution.NewThresholds(params.DefaultThreshold, params.Thresholds)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}

	// Step 1: Resolve the center pair before touching any demand row
	capacity, err := p.loader.LoadCapacity(in.Capacity)
	if err != nil {
		return nil, err
	}
	centers, err := entities.ResolveCenterSet(capacity, params.Centers)
	if err != nil {
		return nil, err
	}
	log.WithFields(map[string]any{
		"primary":   centers.A.ID,
		"secondary": centers.B.ID,
	}).Debug("Resolved center pair")

	// Step 2: Load the masters and the demand
	materialRepo, clientRepo, demands, err := p.load(in, centers)
	if err != nil {
		return nil, err
	}

	// Step 3: Join; unmatched keys are warnings, never fatal
	records, report := join.Join(demands, materialRepo, clientRepo)
	if !report.Empty() {
		log.WithFields(map[string]any{
			"unmatched_rows":      report.Rows,
			"unmatched_materials": len(report.UnmatchedMaterials),
			"unmatched_clients":   len(report.UnmatchedClients),
		}).Warn("Demand lines without master data, numeric fields default to zero")
		metrics.RecordUnmatched(sheet.MaterialTable, len(report.UnmatchedMaterials))
		metrics.RecordUnmatched(sheet.ClientTable, len(report.UnmatchedClients))
	}

	// Step 4: Resolve each line to a center
	resolver := resolution.NewResolver(centers, pricer, thresholds, p.workers, p.logger)
	assignments, err := resolver.Resolve(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve centers: %w", err)
	}
	resolved := make(map[[2]string]int)
	for _, a := range assignments {
		resolved[[2]string{a.Rule.String(), string(a.Center)}]++
	}
	for k, n := range resolved {
		metrics.RecordResolution(k[0], k[1], n)
	}

	// Step 5: Batch into production orders
	batcher := batching.NewBatcher(params.OrderClass, p.workers, p.logger)
	orders, err := batcher.Batch(ctx, assignments)
	if err != nil {
		return nil, err
	}

	// Step 6: Summarize
	sum := summary.Summarize(orders, centers)
	for _, c := range sum.Centers {
		metrics.RecordOrders(string(c.Center), c.Orders)
	}

	warnings := make([]dto.Warning, 0)
	for _, w := range report.Warnings() {
		warnings = append(warnings, dto.NewWarning(w))
	}

	if orders == nil {
		orders = []*entities.ProductionOrder{}
	}

	log.WithFields(map[string]any{
		"demand_lines": len(demands),
		"orders":       sum.TotalOrders,
		"savings":      sum.TotalSavings.String(),
		"hours":        sum.TotalHours.String(),
	}).Info("Plan computed")

	return &dto.PlanResult{
		Centers:  []string{string(centers.A.ID), string(centers.B.ID)},
		Orders:   orders,
		Summary:  sum,
		Rules:    resolution.CountRules(assignments),
		Warnings: warnings,
	}, nil
}

func (p *Planner) load(in Input, centers *entities.CenterSet) (*memory.MaterialRepository, *memory.ClientRepository, []*entities.DemandLine, error) {
	materials, err := p.loader.LoadMaterials(in.Materials, centers)
	if err != nil {
		return nil, nil, nil, err
	}
	materialRepo := memory.NewMaterialRepository(len(materials))
	if err := materialRepo.LoadMaterials(materials); err != nil {
		return nil, nil, nil, err
	}

	clients, err := p.loader.LoadClients(in.Clients, centers)
	if err != nil {
		return nil, nil, nil, err
	}
	clientRepo := memory.NewClientRepository(len(clients))
	if err := clientRepo.LoadClients(clients); err != nil {
		return nil, nil, nil, err
	}

	demands, err := p.loader.LoadDemands(in.Demand)
	if err != nil {
		return nil, nil, nil, err
	}
	demandRepo := memory.NewDemandRepository()
	if err := demandRepo.LoadDemands(demands); err != nil {
		return nil, nil, nil, err
	}
	demands, err = demandRepo.GetDemands()
	if err != nil {
		return nil, nil, nil, err
	}

	return materialRepo, clientRepo, demands, nil
}
