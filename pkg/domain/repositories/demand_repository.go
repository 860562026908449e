package repositories

import "github.com/vsinha/sourcing/pkg/domain/entities"

// DemandRepository provides access to demand data
type DemandRepository interface {
	GetDemands() ([]*entities.DemandLine, error)
	LoadDemands(demands []*entities.DemandLine) error
}
