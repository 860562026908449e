package entities

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// CenterID identifies a manufacturing center (e.g. "0833")
type CenterID string

// Center is one of the two manufacturing facilities a demand line can be served from
type Center struct {
	ID CenterID
	// Alias is the short label used in master-data column names (e.g. "DG" in
	// "Coste fabricacion unidad DG"). Empty when the center is only known by ID.
	Alias string
	// CapacityHours is the available fabrication time; zero when not supplied
	CapacityHours decimal.Decimal
	HasCapacity   bool
}

// ColumnKeys returns the labels a master-data column may use for this center, alias first
func (c Center) ColumnKeys() []string {
	if c.Alias == "" || strings.EqualFold(c.Alias, string(c.ID)) {
		return []string{string(c.ID)}
	}
	return []string{c.Alias, string(c.ID)}
}

// CapacityRow is one row of the capacity master
type CapacityRow struct {
	Center        CenterID
	Alias         string
	CapacityHours decimal.Decimal
	HasCapacity   bool
}

// CenterOptions controls how the capacity master is turned into a CenterSet
type CenterOptions struct {
	// PrimaryPattern selects the primary center by substring match on ID or alias.
	// When empty the first center listed in the capacity master is primary.
	PrimaryPattern string
	// Aliases supplies column aliases for centers whose capacity row has none.
	Aliases map[CenterID]string
}

// CenterSet is the ordered pair of centers every run works with. A is primary.
type CenterSet struct {
	A Center
	B Center
}

// ResolveCenterSet derives the center pair from the capacity master. It fails with
// AmbiguousCenterIdentity unless exactly two distinct centers are listed and the
// primary one can be told apart.
func ResolveCenterSet(rows []CapacityRow, opts CenterOptions) (*CenterSet, error) {
	var centers []Center
	seen := make(map[CenterID]int)

	for _, row := range rows {
		id := CenterID(strings.TrimSpace(string(row.Center)))
		if id == "" {
			continue
		}
		if idx, ok := seen[id]; ok {
			// Repeated rows may add attributes but never a new center
			if centers[idx].Alias == "" {
				centers[idx].Alias = strings.TrimSpace(row.Alias)
			}
			if !centers[idx].HasCapacity && row.HasCapacity {
				centers[idx].CapacityHours = row.CapacityHours
				centers[idx].HasCapacity = true
			}
			continue
		}
		seen[id] = len(centers)
		centers = append(centers, Center{
			ID:            id,
			Alias:         strings.TrimSpace(row.Alias),
			CapacityHours: row.CapacityHours,
			HasCapacity:   row.HasCapacity,
		})
	}

	if len(centers) != 2 {
		ids := make([]string, len(centers))
		for i, c := range centers {
			ids[i] = string(c.ID)
		}
		return nil, NewPlanError(AmbiguousCenterIdentity,
			fmt.Sprintf("capacity master must list exactly two distinct centers, got %d %v", len(centers), ids))
	}

	for i := range centers {
		if centers[i].Alias == "" && opts.Aliases != nil {
			centers[i].Alias = opts.Aliases[centers[i].ID]
		}
	}

	set := &CenterSet{A: centers[0], B: centers[1]}

	if opts.PrimaryPattern != "" {
		matchA := set.A.matches(opts.PrimaryPattern)
		matchB := set.B.matches(opts.PrimaryPattern)
		switch {
		case matchA && matchB:
			return nil, NewPlanError(AmbiguousCenterIdentity,
				fmt.Sprintf("primary pattern %q matches both %s and %s", opts.PrimaryPattern, set.A.ID, set.B.ID))
		case !matchA && !matchB:
			return nil, NewPlanError(AmbiguousCenterIdentity,
				fmt.Sprintf("primary pattern %q matches neither %s nor %s", opts.PrimaryPattern, set.A.ID, set.B.ID))
		case matchB:
			set.A, set.B = set.B, set.A
		}
	}

	return set, nil
}

func (c Center) matches(pattern string) bool {
	p := strings.ToUpper(strings.TrimSpace(pattern))
	return strings.Contains(strings.ToUpper(string(c.ID)), p) ||
		(c.Alias != "" && strings.Contains(strings.ToUpper(c.Alias), p))
}

// Centers returns both centers, primary first
func (s CenterSet) Centers() []Center {
	return []Center{s.A, s.B}
}

// Get returns the center with the given ID
func (s CenterSet) Get(id CenterID) (Center, bool) {
	switch id {
	case s.A.ID:
		return s.A, true
	case s.B.ID:
		return s.B, true
	default:
		return Center{}, false
	}
}

// Contains reports whether id is one of the two centers
func (s CenterSet) Contains(id CenterID) bool {
	return id == s.A.ID || id == s.B.ID
}

// String renders the pair as "A/B"
func (s CenterSet) String() string {
	return fmt.Sprintf("%s/%s", s.A.ID, s.B.ID)
}
