package memory

import (
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/domain/repositories"
)

// MaterialRepository provides in-memory material master storage
type MaterialRepository struct {
	materials    []entities.Material
	materialsMap map[entities.MaterialKey]int
}

// NewMaterialRepository creates a new in-memory material repository
func NewMaterialRepository(expectedMaterials int) *MaterialRepository {
	return &MaterialRepository{
		materials:    make([]entities.Material, 0, expectedMaterials),
		materialsMap: make(map[entities.MaterialKey]int, expectedMaterials),
	}
}

// Verify interface compliance
var _ repositories.MaterialRepository = (*MaterialRepository)(nil)

// LoadMaterials loads materials into the repository. A repeated (material, unit)
// key would fan a demand line out into several joined rows, so it is rejected.
func (r *MaterialRepository) LoadMaterials(materials []*entities.Material) error {
	for i, material := range materials {
		if perr := r.add(material); perr != nil {
			return perr.WithRow(i + 1)
		}
	}
	return nil
}

// SaveMaterial adds a material to the repository
func (r *MaterialRepository) SaveMaterial(material *entities.Material) error {
	if perr := r.add(material); perr != nil {
		return perr
	}
	return nil
}

func (r *MaterialRepository) add(material *entities.Material) *entities.PlanError {
	if _, exists := r.materialsMap[material.Key]; exists {
		return entities.NewPlanErrorf(entities.MalformedTable, "duplicate material key %s", material.Key).
			WithTable("materials")
	}
	r.materialsMap[material.Key] = len(r.materials)
	r.materials = append(r.materials, *material)
	return nil
}

// GetMaterial returns material master data for a (material, unit) key
func (r *MaterialRepository) GetMaterial(key entities.MaterialKey) (*entities.Material, bool) {
	index, exists := r.materialsMap[key]
	if !exists {
		return nil, false
	}
	return &r.materials[index], true
}

// GetAllMaterials returns all materials
func (r *MaterialRepository) GetAllMaterials() ([]*entities.Material, error) {
	materials := make([]*entities.Material, 0, len(r.materials))
	for i := range r.materials {
		materials = append(materials, &r.materials[i])
	}
	return materials, nil
}
