package memory

import (
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/domain/repositories"
)

// DemandRepository provides in-memory demand storage
type DemandRepository struct {
	demands []entities.DemandLine
}

// NewDemandRepository creates a new in-memory demand repository
func NewDemandRepository() *DemandRepository {
	return &DemandRepository{
		demands: []entities.DemandLine{},
	}
}

// Verify interface compliance
var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemands loads demands into the repository, keeping table order
func (r *DemandRepository) LoadDemands(demands []*entities.DemandLine) error {
	for _, demand := range demands {
		r.demands = append(r.demands, *demand)
	}
	return nil
}

// GetDemands returns all demand lines in table order
func (r *DemandRepository) GetDemands() ([]*entities.DemandLine, error) {
	demands := make([]*entities.DemandLine, 0, len(r.demands))
	for i := range r.demands {
		demands = append(demands, &r.demands[i])
	}
	return demands, nil
}
