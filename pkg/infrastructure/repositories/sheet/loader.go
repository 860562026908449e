package sheet

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

// Table names used in error context
const (
	DemandTable   = "demand"
	MaterialTable = "materials"
	ClientTable   = "clients"
	CapacityTable = "capacity"
)

// Header aliases. Spanish names come first as they are the canonical ones.
var (
	colMaterial  = []string{"Material"}
	colUnit      = []string{"Unidad", "Unit"}
	colClient    = []string{"Cliente", "Client"}
	colQuantity  = []string{"Cantidad", "Quantity"}
	colNeedDate  = []string{"Fecha de necesidad", "Needed date", "Need date"}
	colMinLot    = []string{"Tamaño lote mínimo", "Min lot"}
	colMaxLot    = []string{"Tamaño lote máximo", "Max lot"}
	colCenter    = []string{"Centro", "Center"}
	colAlias     = []string{"Alias"}
	colCapacity  = []string{"Capacidad", "Capacity"}
	colClientFee = []string{"Precio km", "Coste km", "Precio transporte", "Price per km"}
)

// Loader turns raw tables into typed master data
type Loader struct{}

// NewLoader creates a new table loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadCapacity parses the capacity master
func (l *Loader) LoadCapacity(t *Table) ([]entities.CapacityRow, error) {
	centerCol, err := requireColumn(t, colCenter...)
	if err != nil {
		return nil, err
	}
	aliasCol, _ := t.Column(colAlias...)
	capacityCol, hasCapacity := t.Column(colCapacity...)

	rows := make([]entities.CapacityRow, 0, t.Len())
	for i, rec := range t.Rows {
		row := entities.CapacityRow{
			Center: entities.CenterID(t.Cell(rec, centerCol)),
			Alias:  t.Cell(rec, aliasCol),
		}
		if hasCapacity {
			hours, present, err := decimalCell(t, rec, i, capacityCol)
			if err != nil {
				return nil, err
			}
			row.CapacityHours = hours
			row.HasCapacity = present
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadDemands parses the demand table. Row identities follow table order.
func (l *Loader) LoadDemands(t *Table) ([]*entities.DemandLine, error) {
	cols, err := requireColumns(t, colMaterial, colUnit, colClient, colQuantity, colNeedDate)
	if err != nil {
		return nil, err
	}
	materialCol, unitCol, clientCol, qtyCol, dateCol := cols[0], cols[1], cols[2], cols[3], cols[4]

	demands := make([]*entities.DemandLine, 0, t.Len())
	for i, rec := range t.Rows {
		qty, _, err := decimalCell(t, rec, i, qtyCol)
		if err != nil {
			return nil, err
		}

		raw := t.Cell(rec, dateCol)
		needDate, err := parseDate(raw)
		if err != nil {
			return nil, entities.NewPlanError(entities.NonNumericField, "cannot parse date").
				WithTable(t.Name).
				WithRow(i + 1).
				WithField(t.Header[dateCol]).
				WithValue(raw).
				WithCause(err)
		}

		line, err := entities.NewDemandLine(
			entities.RowIdentity(i),
			entities.MaterialCode(t.Cell(rec, materialCol)),
			t.Cell(rec, unitCol),
			entities.ClientCode(t.Cell(rec, clientCol)),
			qty,
			needDate,
		)
		if err != nil {
			return nil, entities.NewPlanError(entities.MalformedTable, err.Error()).
				WithTable(t.Name).
				WithRow(i + 1)
		}
		demands = append(demands, line)
	}
	return demands, nil
}

// LoadMaterials parses the material master. Cost and time columns are
// required for both centers.
func (l *Loader) LoadMaterials(t *Table, centers *entities.CenterSet) ([]*entities.Material, error) {
	cols, err := requireColumns(t, colMaterial, colUnit, colMaxLot)
	if err != nil {
		return nil, err
	}
	materialCol, unitCol, maxCol := cols[0], cols[1], cols[2]
	minCol, _ := t.Column(colMinLot...)

	type rateCols struct{ cost, time int }
	perCenter := make(map[entities.CenterID]rateCols, 2)
	for _, c := range centers.Centers() {
		costCol, err := requireColumn(t, centerColumns(c, "Coste fabricacion unidad", "Coste fabricación unidad", "Unit cost")...)
		if err != nil {
			return nil, err
		}
		timeCol, err := requireColumn(t, centerColumns(c, "Tiempo fabricación unidad", "Tiempo fabricacion unidad", "Unit time")...)
		if err != nil {
			return nil, err
		}
		perCenter[c.ID] = rateCols{cost: costCol, time: timeCol}
	}

	materials := make([]*entities.Material, 0, t.Len())
	for i, rec := range t.Rows {
		minLot, _, err := decimalCell(t, rec, i, minCol)
		if err != nil {
			return nil, err
		}
		maxLot, _, err := decimalCell(t, rec, i, maxCol)
		if err != nil {
			return nil, err
		}

		rates := make(map[entities.CenterID]entities.FabricationRate, 2)
		for _, c := range centers.Centers() {
			rc := perCenter[c.ID]
			cost, _, err := decimalCell(t, rec, i, rc.cost)
			if err != nil {
				return nil, err
			}
			unitTime, _, err := decimalCell(t, rec, i, rc.time)
			if err != nil {
				return nil, err
			}
			rates[c.ID] = entities.FabricationRate{UnitCost: cost, UnitTime: unitTime}
		}

		key := entities.MaterialKey{
			Material: entities.MaterialCode(t.Cell(rec, materialCol)),
			Unit:     t.Cell(rec, unitCol),
		}
		material, err := entities.NewMaterial(key, minLot, maxLot, rates)
		if err != nil {
			return nil, entities.NewPlanError(entities.MalformedTable, err.Error()).
				WithTable(t.Name).
				WithRow(i + 1)
		}
		materials = append(materials, material)
	}
	return materials, nil
}

// LoadClients parses the client master. Distance columns are required for
// both centers; exclusivity and price columns are optional.
func (l *Loader) LoadClients(t *Table, centers *entities.CenterSet) ([]*entities.Client, error) {
	clientCol, err := requireColumn(t, colClient...)
	if err != nil {
		return nil, err
	}
	feeCol, hasFee := t.Column(colClientFee...)

	type centerCols struct {
		distance  int
		exclusive int
		hasExcl   bool
	}
	perCenter := make(map[entities.CenterID]centerCols, 2)
	for _, c := range centers.Centers() {
		distCol, err := requireColumn(t, centerColumns(c, "Distancia a", "Distance to")...)
		if err != nil {
			return nil, err
		}
		exclCol, hasExcl := t.Column(centerColumns(c, "Exclusivo", "Exclusico", "Exclusive")...)
		perCenter[c.ID] = centerCols{distance: distCol, exclusive: exclCol, hasExcl: hasExcl}
	}

	clients := make([]*entities.Client, 0, t.Len())
	for i, rec := range t.Rows {
		code := entities.ClientCode(t.Cell(rec, clientCol))
		if code == "" {
			return nil, entities.NewPlanError(entities.MalformedTable, "client cannot be empty").
				WithTable(t.Name).
				WithRow(i + 1)
		}

		client := &entities.Client{
			Code:      code,
			Distances: make(map[entities.CenterID]decimal.Decimal, 2),
			Exclusive: make(map[entities.CenterID]bool, 2),
		}
		for _, c := range centers.Centers() {
			cc := perCenter[c.ID]
			dist, _, err := decimalCell(t, rec, i, cc.distance)
			if err != nil {
				return nil, err
			}
			client.Distances[c.ID] = dist
			if cc.hasExcl {
				client.Exclusive[c.ID] = isMarked(t.Cell(rec, cc.exclusive))
			}
		}

		if hasFee {
			fee, present, err := decimalCell(t, rec, i, feeCol)
			if err != nil {
				return nil, err
			}
			if present {
				client.PricePerDistance = &fee
			}
		}
		clients = append(clients, client)
	}
	return clients, nil
}

// centerColumns expands column prefixes with each label of a center
func centerColumns(c entities.Center, prefixes ...string) []string {
	var names []string
	for _, key := range c.ColumnKeys() {
		for _, p := range prefixes {
			names = append(names, fmt.Sprintf("%s %s", p, key))
		}
	}
	return names
}

func requireColumn(t *Table, names ...string) (int, error) {
	idx, ok := t.Column(names...)
	if !ok {
		return -1, entities.NewPlanErrorf(entities.MalformedTable, "missing required column, expected one of %q", names).
			WithTable(t.Name).
			WithField(names[0])
	}
	return idx, nil
}

func requireColumns(t *Table, groups ...[]string) ([]int, error) {
	cols := make([]int, len(groups))
	for i, names := range groups {
		idx, err := requireColumn(t, names...)
		if err != nil {
			return nil, err
		}
		cols[i] = idx
	}
	return cols, nil
}

// decimalCell parses a numeric cell of data row i. A negative column reads as
// a missing value.
func decimalCell(t *Table, rec []string, i, col int) (decimal.Decimal, bool, error) {
	if col < 0 {
		return decimal.Zero, false, nil
	}
	raw := t.Cell(rec, col)
	d, present, err := parseDecimal(raw)
	if err != nil {
		return decimal.Zero, false, entities.NewPlanError(entities.NonNumericField, "cannot parse number").
			WithTable(t.Name).
			WithRow(i + 1).
			WithField(t.Header[col]).
			WithValue(raw).
			WithCause(err)
	}
	return d, present, nil
}
