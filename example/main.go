package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/infrastructure/logging"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
	"github.com/vsinha/sourcing/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	// The first capacity row is the primary center
	capacity := sheet.NewTable(sheet.CapacityTable, [][]string{
		{"Centro", "Alias", "Capacidad"},
		{"0833", "DG", "120"},
		{"0184", "MCH", "80"},
	})

	materials := sheet.NewTable(sheet.MaterialTable, [][]string{
		{"Material", "Unidad", "Tamaño lote mínimo", "Tamaño lote máximo",
			"Coste fabricacion unidad DG", "Tiempo fabricación unidad DG",
			"Coste fabricacion unidad MCH", "Tiempo fabricación unidad MCH"},
		{"BRACKET", "UN", "100", "400", "1.10", "0.02", "1.25", "0.03"},
		{"RESIN", "KG", "0", "250", "3.50", "0.10", "3.50", "0.10"},
	})

	clients := sheet.NewTable(sheet.ClientTable, [][]string{
		{"Cliente", "Distancia a 0833", "Distancia a 0184", "Exclusivo DG", "Exclusivo MCH"},
		{"ACME", "120", "900", "", ""},
		{"NORD", "1400", "60", "", ""},
		{"TWIN", "300", "300", "", ""},
		{"LOCK", "700", "50", "X", ""},
	})

	demand := sheet.NewTable(sheet.DemandTable, [][]string{
		{"Material", "Unidad", "Cliente", "Cantidad", "Fecha de necesidad"},
		{"BRACKET", "UN", "ACME", "650", "2025-03-03"},
		{"BRACKET", "UN", "NORD", "80", "2025-03-04"},
		{"RESIN", "KG", "TWIN", "120", "2025-03-04"},
		{"RESIN", "KG", "TWIN", "90", "2025-03-05"},
		{"BRACKET", "UN", "LOCK", "40", "2025-03-10"},
	})

	// Cost ties in week 9 lean towards the primary center
	params := planning.DefaultParams()
	params.Thresholds = map[string]decimal.Decimal{"2025-W09": decimal.NewFromInt(70)}

	planner := planning.NewPlanner(0, logging.Nop())
	result, err := planner.Plan(ctx, planning.Input{
		Demand:    demand,
		Materials: materials,
		Clients:   clients,
		Capacity:  capacity,
	}, params)
	if err != nil {
		log.Fatalf("sourcing plan failed: %v", err)
	}

	fmt.Printf("Planned %d production orders\n\n", len(result.Orders))
	if err := output.WriteText(os.Stdout, result, output.Config{}); err != nil {
		log.Fatalf("failed to print plan: %v", err)
	}
}
