package entities

import "github.com/shopspring/decimal"

// JoinedRecord is a demand line enriched with its material and client master rows.
//
// Missing masters are represented by zero-valued Material/Client with the
// matching flag set to false. Every numeric accessor below then yields zero:
// this is the single place the zero-default policy lives.
type JoinedRecord struct {
	Line            DemandLine
	Week            string
	Material        Material
	Client          Client
	MaterialMatched bool
	ClientMatched   bool
}

// Distance returns the client's distance to a center
func (r JoinedRecord) Distance(center CenterID) decimal.Decimal {
	return r.Client.Distance(center)
}

// UnitCost returns the material's fabrication cost per unit at a center
func (r JoinedRecord) UnitCost(center CenterID) decimal.Decimal {
	return r.Material.Rate(center).UnitCost
}

// UnitTime returns the material's fabrication time per unit at a center
func (r JoinedRecord) UnitTime(center CenterID) decimal.Decimal {
	return r.Material.Rate(center).UnitTime
}

// IsExclusive reports whether the client forces the line to a center
func (r JoinedRecord) IsExclusive(center CenterID) bool {
	return r.Client.IsExclusive(center)
}

// DecisionRule records which step of center resolution picked the center
type DecisionRule int

const (
	RuleExclusive DecisionRule = iota
	RuleCost
	RuleTieBreak
)

func (r DecisionRule) String() string {
	switch r {
	case RuleExclusive:
		return "exclusive"
	case RuleCost:
		return "cost"
	case RuleTieBreak:
		return "tiebreak"
	default:
		return "unknown"
	}
}

// Assignment is a joined record with its resolved center
type Assignment struct {
	Record  JoinedRecord
	Center  CenterID
	Savings decimal.Decimal
	Rule    DecisionRule
	// CostA and CostB are the landed costs at the primary and secondary centers.
	// They stay zero when an exclusivity flag decided the line.
	CostA decimal.Decimal
	CostB decimal.Decimal
}
