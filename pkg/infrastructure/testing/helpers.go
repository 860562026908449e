package testing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
)

// Scenario holds the four input tables of a run
type Scenario struct {
	Demand    *sheet.Table
	Materials *sheet.Table
	Clients   *sheet.Table
	Capacity  *sheet.Table
}

var materialHeader = []string{
	"Material", "Unidad", "Tamaño lote mínimo", "Tamaño lote máximo",
	"Coste fabricacion unidad DG", "Tiempo fabricación unidad DG",
	"Coste fabricacion unidad MCH", "Tiempo fabricación unidad MCH",
}

var (
	capacityRecords = [][]string{
		{"Centro", "Alias", "Capacidad"},
		{"0833", "DG", "500"},
		{"0184", "MCH", ""},
	}
	clientHeader = []string{"Cliente", "Distancia a 0833", "Distancia a 0184", "Exclusivo DG", "Exclusivo MCH"}
	demandHeader = []string{"Material", "Unidad", "Cliente", "Cantidad", "Fecha de necesidad"}
)

// BuildBasicScenario builds a small scenario with one line per resolution rule:
// M1 for C1 goes to DG on cost, C3 is exclusive to MCH, C2 ties and C9 is
// missing from the client master.
func BuildBasicScenario() Scenario {
	return Scenario{
		Capacity: sheet.NewTable(sheet.CapacityTable, capacityRecords),
		Materials: sheet.NewTable(sheet.MaterialTable, [][]string{
			materialHeader,
			{"M1", "KG", "50", "100", "1", "0.5", "2", "0.5"},
			{"M2", "UN", "0", "10", "3", "0.1", "3", "0.2"},
		}),
		Clients: sheet.NewTable(sheet.ClientTable, [][]string{
			clientHeader,
			{"C1", "100", "0", "", ""},
			{"C2", "10", "10", "", ""},
			{"C3", "500", "1", "", "X"},
		}),
		Demand: sheet.NewTable(sheet.DemandTable, [][]string{
			demandHeader,
			{"M1", "KG", "C1", "150", "2025-03-04"},
			{"M2", "UN", "C2", "5", "2025-03-04"},
			{"M2", "UN", "C2", "5", "2025-03-04"},
			{"M1", "KG", "C3", "10", "2025-03-05"},
			{"M2", "UN", "C9", "1", "2025-03-06"},
		}),
	}
}

// BuildTiedScenario builds a scenario of n demand lines that all tie on landed
// cost, spread over weeks and a handful of materials. Used to measure the
// tie-break split and for benchmarks.
func BuildTiedScenario(n, materials, weeks int) Scenario {
	materialRecords := [][]string{materialHeader}
	for m := 0; m < materials; m++ {
		materialRecords = append(materialRecords,
			[]string{fmt.Sprintf("T%03d", m), "UN", "10", "500", "2.5", "0.05", "2.5", "0.05"})
	}

	demandRecords := make([][]string, 0, n+1)
	demandRecords = append(demandRecords, demandHeader)
	base := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		date := base.AddDate(0, 0, 7*(i%weeks))
		demandRecords = append(demandRecords, []string{
			fmt.Sprintf("T%03d", i%materials), "UN", "TIE",
			fmt.Sprintf("%d", 1+i%40), date.Format("2006-01-02"),
		})
	}

	return Scenario{
		Capacity:  sheet.NewTable(sheet.CapacityTable, capacityRecords),
		Materials: sheet.NewTable(sheet.MaterialTable, materialRecords),
		Clients: sheet.NewTable(sheet.ClientTable, [][]string{
			clientHeader,
			{"TIE", "250", "250", "", ""},
		}),
		Demand: sheet.NewTable(sheet.DemandTable, demandRecords),
	}
}

// CSV renders each table of the scenario as CSV, keyed by table name
func (s Scenario) CSV() (map[string][]byte, error) {
	out := make(map[string][]byte, 4)
	for _, t := range []*sheet.Table{s.Demand, s.Materials, s.Clients, s.Capacity} {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(t.Header); err != nil {
			return nil, err
		}
		if err := w.WriteAll(t.Rows); err != nil {
			return nil, fmt.Errorf("failed to render %s table: %w", t.Name, err)
		}
		out[t.Name] = buf.Bytes()
	}
	return out, nil
}
