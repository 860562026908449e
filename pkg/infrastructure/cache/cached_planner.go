package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Gobusters/ectologger"
	"golang.org/x/sync/singleflight"

	"github.com/vsinha/sourcing/pkg/application/dto"
	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/infrastructure/metrics"
)

// Planner is the computation behind the memo
type Planner interface {
	Plan(ctx context.Context, in planning.Input, params planning.Params) (*dto.PlanResult, error)
}

// Result is a memoized plan: the encoded bytes are what every caller with the
// same fingerprint receives.
type Result struct {
	Fingerprint string
	Body        []byte
	Plan        *dto.PlanResult
	Hit         bool
}

// CachedPlanner memoizes plan results by fingerprint. Concurrent misses on the
// same fingerprint share one computation; other fingerprints proceed freely.
type CachedPlanner struct {
	planner Planner
	store   Store
	group   singleflight.Group
	logger  ectologger.Logger
}

// NewCachedPlanner wraps a planner with a store. A nil store disables memoization.
func NewCachedPlanner(planner Planner, store Store, logger ectologger.Logger) *CachedPlanner {
	return &CachedPlanner{planner: planner, store: store, logger: logger}
}

// Plan returns the memoized result of a run, computing it on a miss. Store
// failures are logged and the run is computed directly.
func (c *CachedPlanner) Plan(ctx context.Context, in planning.Input, params planning.Params) (*Result, error) {
	if err := planning.Validate(in, params); err != nil {
		return nil, err
	}
	key := Fingerprint(in, params)
	log := c.logger.WithContext(ctx).WithField("fingerprint", key)

	if c.store != nil {
		body, ok, err := c.store.Get(ctx, key)
		if err != nil {
			log.WithError(err).Warn("Plan memo lookup failed")
		}
		metrics.RecordCacheLookup(c.store.Name(), ok)
		if ok {
			plan, err := decode(body)
			if err == nil {
				log.Debug("Plan memo hit")
				return &Result{Fingerprint: key, Body: body, Plan: plan, Hit: true}, nil
			}
			log.WithError(err).Warn("Discarding unreadable plan memo entry")
		}
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		plan, err := c.planner.Plan(ctx, in, params)
		if err != nil {
			return nil, err
		}
		plan.Fingerprint = key

		body, err := json.Marshal(plan)
		if err != nil {
			return nil, fmt.Errorf("failed to encode plan: %w", err)
		}
		if c.store != nil {
			if err := c.store.Set(ctx, key, body); err != nil {
				log.WithError(err).Warn("Failed to store plan memo")
			}
		}
		return &Result{Fingerprint: key, Body: body, Plan: plan}, nil
	})
	if err != nil {
		return nil, err
	}

	shared := v.(*Result)
	return &Result{Fingerprint: shared.Fingerprint, Body: shared.Body, Plan: shared.Plan}, nil
}

func decode(body []byte) (*dto.PlanResult, error) {
	var plan dto.PlanResult
	if err := json.Unmarshal(body, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}
