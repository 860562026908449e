package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

func TestMaterialRepository_SaveMaterial(t *testing.T) {
	repo := NewMaterialRepository(10)

	material := &entities.Material{
		Key:    entities.MaterialKey{Material: "MAT-1", Unit: "KG"},
		MinLot: decimal.NewFromInt(50),
		MaxLot: decimal.NewFromInt(100),
		Rates: map[entities.CenterID]entities.FabricationRate{
			"0833": {UnitCost: decimal.NewFromInt(3), UnitTime: decimal.RequireFromString("0.5")},
		},
	}

	if err := repo.SaveMaterial(material); err != nil {
		t.Fatalf("Failed to save material: %v", err)
	}

	retrieved, ok := repo.GetMaterial(entities.MaterialKey{Material: "MAT-1", Unit: "KG"})
	if !ok {
		t.Fatal("Expected material to be found")
	}
	if !retrieved.MaxLot.Equal(material.MaxLot) {
		t.Errorf("Expected max lot %s, got %s", material.MaxLot, retrieved.MaxLot)
	}

	// Same material in another unit is a different key
	if _, ok := repo.GetMaterial(entities.MaterialKey{Material: "MAT-1", Unit: "UN"}); ok {
		t.Error("Expected no material for a different unit")
	}
}

func TestMaterialRepository_LoadMaterials_Duplicate(t *testing.T) {
	repo := NewMaterialRepository(2)
	key := entities.MaterialKey{Material: "MAT-1", Unit: "KG"}

	err := repo.LoadMaterials([]*entities.Material{{Key: key}, {Key: key}})
	if err == nil {
		t.Fatal("Expected duplicate key to be rejected")
	}
	if !entities.IsKind(err, entities.MalformedTable) {
		t.Errorf("Expected MalformedTable, got %v", err)
	}
	pe, _ := entities.AsPlanError(err)
	if pe.Row != 2 {
		t.Errorf("Expected duplicate reported on row 2, got %d", pe.Row)
	}
}

func TestClientRepository_GetClient(t *testing.T) {
	repo := NewClientRepository(1)
	err := repo.LoadClients([]*entities.Client{{
		Code:      "C1",
		Distances: map[entities.CenterID]decimal.Decimal{"0833": decimal.NewFromInt(120)},
	}})
	if err != nil {
		t.Fatalf("Failed to load clients: %v", err)
	}

	client, ok := repo.GetClient("C1")
	if !ok {
		t.Fatal("Expected client C1")
	}
	if !client.Distance("0833").Equal(decimal.NewFromInt(120)) {
		t.Errorf("Expected distance 120, got %s", client.Distance("0833"))
	}
	if !client.Distance("0184").IsZero() {
		t.Errorf("Expected unknown distance to default to zero, got %s", client.Distance("0184"))
	}

	if err := repo.SaveClient(&entities.Client{Code: "C1"}); err == nil {
		t.Error("Expected duplicate client to be rejected")
	}
}

func TestDemandRepository_KeepsOrder(t *testing.T) {
	repo := NewDemandRepository()
	lines := []*entities.DemandLine{{Row: 0, Material: "A"}, {Row: 1, Material: "B"}, {Row: 2, Material: "C"}}
	if err := repo.LoadDemands(lines); err != nil {
		t.Fatalf("Failed to load demands: %v", err)
	}

	got, err := repo.GetDemands()
	if err != nil {
		t.Fatalf("Failed to get demands: %v", err)
	}
	for i, d := range got {
		if int(d.Row) != i {
			t.Errorf("Expected row %d at position %d, got %d", i, i, d.Row)
		}
	}
}
