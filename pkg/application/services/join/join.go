package join

import (
	"fmt"

	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/domain/repositories"
)

// Report lists the join keys that found no master row. Each key appears once,
// in the order it was first met.
type Report struct {
	UnmatchedMaterials []entities.MaterialKey
	UnmatchedClients   []entities.ClientCode
	// Rows counts demand lines with at least one missing master
	Rows int
}

// Empty reports whether every demand line matched both masters
func (r *Report) Empty() bool {
	return len(r.UnmatchedMaterials) == 0 && len(r.UnmatchedClients) == 0
}

// Warnings renders the report as MissingJoinKey errors
func (r *Report) Warnings() []*entities.PlanError {
	warnings := make([]*entities.PlanError, 0, len(r.UnmatchedMaterials)+len(r.UnmatchedClients))
	for _, key := range r.UnmatchedMaterials {
		warnings = append(warnings, entities.NewPlanError(entities.MissingJoinKey,
			"no material master row, fabrication cost, time and lot sizes default to zero").
			WithTable("materials").
			WithValue(key.String()))
	}
	for _, code := range r.UnmatchedClients {
		warnings = append(warnings, entities.NewPlanError(entities.MissingJoinKey,
			"no client master row, distances default to zero and no exclusivity applies").
			WithTable("clients").
			WithValue(string(code)))
	}
	return warnings
}

// String summarizes the report for logs
func (r *Report) String() string {
	return fmt.Sprintf("%d rows unmatched (%d materials, %d clients)",
		r.Rows, len(r.UnmatchedMaterials), len(r.UnmatchedClients))
}

// Join left-joins every demand line with its material and client master rows.
// It yields exactly one record per line, in input order; the inputs are not
// modified.
func Join(
	demands []*entities.DemandLine,
	materials repositories.MaterialRepository,
	clients repositories.ClientRepository,
) ([]entities.JoinedRecord, *Report) {
	records := make([]entities.JoinedRecord, len(demands))
	report := &Report{}
	seenMaterials := make(map[entities.MaterialKey]bool)
	seenClients := make(map[entities.ClientCode]bool)

	for i, line := range demands {
		record := entities.JoinedRecord{
			Line: *line,
			Week: line.WeekLabel(),
		}

		key := entities.MaterialKey{Material: line.Material, Unit: line.Unit}
		if m, ok := materials.GetMaterial(key); ok {
			record.Material = *m
			record.MaterialMatched = true
		} else {
			record.Material = entities.Material{Key: key}
			if !seenMaterials[key] {
				seenMaterials[key] = true
				report.UnmatchedMaterials = append(report.UnmatchedMaterials, key)
			}
		}

		if c, ok := clients.GetClient(line.Client); ok {
			record.Client = *c
			record.ClientMatched = true
		} else {
			record.Client = entities.Client{Code: line.Client}
			if !seenClients[line.Client] {
				seenClients[line.Client] = true
				report.UnmatchedClients = append(report.UnmatchedClients, line.Client)
			}
		}

		if !record.MaterialMatched || !record.ClientMatched {
			report.Rows++
		}
		records[i] = record
	}

	return records, report
}
