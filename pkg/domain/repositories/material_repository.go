package repositories

import "github.com/vsinha/sourcing/pkg/domain/entities"

// MaterialRepository provides access to material master data
type MaterialRepository interface {
	GetMaterial(key entities.MaterialKey) (*entities.Material, bool)
	GetAllMaterials() ([]*entities.Material, error)
	LoadMaterials(materials []*entities.Material) error
}
