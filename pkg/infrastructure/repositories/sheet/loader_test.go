package sheet

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/sourcing/pkg/domain/entities"
)

func testCenters(t *testing.T) *entities.CenterSet {
	t.Helper()
	set, err := entities.ResolveCenterSet(
		[]entities.CapacityRow{{Center: "0833", Alias: "DG"}, {Center: "0184", Alias: "MCH"}},
		entities.CenterOptions{},
	)
	require.NoError(t, err)
	return set
}

func csvTable(t *testing.T, name, body string) *Table {
	t.Helper()
	table, err := Read(name, strings.NewReader(body), FormatCSV)
	require.NoError(t, err)
	return table
}

func TestTable_HeaderMatching(t *testing.T) {
	table := csvTable(t, MaterialTable, " Material ;UNIDAD;Tamano  lote minimo\nM1;KG;10\n;;\n")

	col, ok := table.Column(colMinLot...)
	require.True(t, ok)
	assert.Equal(t, 2, col)

	col, ok = table.Column(colUnit...)
	require.True(t, ok)
	assert.Equal(t, 1, col)

	assert.Equal(t, 1, table.Len(), "blank rows are dropped")
	assert.Equal(t, "", table.Cell(table.Rows[0], 7))
}

func TestLoader_LoadDemands(t *testing.T) {
	table := csvTable(t, DemandTable, "\ufeffMaterial,Unidad,Cliente,Cantidad,Fecha de necesidad\n"+
		" M1 ,KG, C1 ,150,2025-03-04\n"+
		"M2,UN,C2,12.5,04/03/2025\n")

	demands, err := NewLoader().LoadDemands(table)
	require.NoError(t, err)
	require.Len(t, demands, 2)

	assert.Equal(t, entities.RowIdentity(0), demands[0].Row)
	assert.Equal(t, entities.MaterialCode("M1"), demands[0].Material)
	assert.Equal(t, entities.ClientCode("C1"), demands[0].Client)
	assert.True(t, demands[0].Quantity.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, entities.RowIdentity(1), demands[1].Row)
	assert.True(t, demands[1].NeedDate.Equal(time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)))
}

func TestLoader_LoadDemands_Errors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		kind  entities.ErrorKind
		row   int
		field string
	}{
		{
			name:  "non numeric quantity",
			body:  "Material,Unidad,Cliente,Cantidad,Fecha de necesidad\nM1,KG,C1,10,2025-03-04\nM1,KG,C1,abc,2025-03-04\n",
			kind:  entities.NonNumericField,
			row:   2,
			field: "Cantidad",
		},
		{
			name:  "bad date",
			body:  "Material,Unidad,Cliente,Cantidad,Fecha de necesidad\nM1,KG,C1,10,someday\n",
			kind:  entities.NonNumericField,
			row:   1,
			field: "Fecha de necesidad",
		},
		{
			name:  "missing column",
			body:  "Material,Unidad,Cantidad,Fecha de necesidad\nM1,KG,10,2025-03-04\n",
			kind:  entities.MalformedTable,
			field: "Cliente",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadDemands(csvTable(t, DemandTable, tt.body))
			require.Error(t, err)

			pe, ok := entities.AsPlanError(err)
			require.True(t, ok, "expected PlanError, got %v", err)
			assert.Equal(t, tt.kind, pe.Kind)
			assert.Equal(t, tt.row, pe.Row)
			assert.Equal(t, tt.field, pe.Field)
			assert.Equal(t, DemandTable, pe.Table)
		})
	}
}

func TestLoader_LoadMaterials(t *testing.T) {
	table := csvTable(t, MaterialTable,
		"Material;Unidad;Tamaño lote mínimo;Tamaño lote máximo;Coste fabricacion unidad DG;Tiempo fabricación unidad DG;Coste fabricacion unidad 0184;Tiempo fabricacion unidad MCH\n"+
			"M1;KG;50;100;3,5;0,5;4;0,25\n"+
			"M2;KG;;80;;;;\n")

	materials, err := NewLoader().LoadMaterials(table, testCenters(t))
	require.NoError(t, err)
	require.Len(t, materials, 2)

	m1 := materials[0]
	assert.True(t, m1.MinLot.Equal(decimal.NewFromInt(50)))
	assert.True(t, m1.Rate("0833").UnitCost.Equal(decimal.RequireFromString("3.5")))
	assert.True(t, m1.Rate("0184").UnitCost.Equal(decimal.NewFromInt(4)), "falls back to the center id column")
	assert.True(t, m1.Rate("0184").UnitTime.Equal(decimal.RequireFromString("0.25")))

	m2 := materials[1]
	assert.True(t, m2.MinLot.IsZero())
	assert.True(t, m2.Rate("0833").UnitCost.IsZero())
}

func TestLoader_LoadMaterials_MissingCenterColumn(t *testing.T) {
	table := csvTable(t, MaterialTable,
		"Material,Unidad,Tamaño lote máximo,Coste fabricacion unidad DG,Tiempo fabricación unidad DG\nM1,KG,100,3,0.5\n")

	_, err := NewLoader().LoadMaterials(table, testCenters(t))
	require.Error(t, err)
	assert.True(t, entities.IsKind(err, entities.MalformedTable))
}

func TestLoader_LoadClients(t *testing.T) {
	table := csvTable(t, ClientTable,
		"Cliente,Distancia a 0833,Distancia a 0184,Exclusico DG,Exclusivo MCH,Precio km\n"+
			"C1,100,200, x ,,\n"+
			"C2,50,50,,X,0.2\n")

	clients, err := NewLoader().LoadClients(table, testCenters(t))
	require.NoError(t, err)
	require.Len(t, clients, 2)

	assert.True(t, clients[0].IsExclusive("0833"))
	assert.False(t, clients[0].IsExclusive("0184"))
	assert.Nil(t, clients[0].PricePerDistance)
	assert.True(t, clients[0].Distance("0184").Equal(decimal.NewFromInt(200)))

	assert.True(t, clients[1].IsExclusive("0184"))
	require.NotNil(t, clients[1].PricePerDistance)
	assert.True(t, clients[1].PricePerDistance.Equal(decimal.RequireFromString("0.2")))
}

func TestLoader_LoadCapacity(t *testing.T) {
	table := csvTable(t, CapacityTable, "Centro,Alias,Capacidad\n0833,DG,1000\n0184,,\n")

	rows, err := NewLoader().LoadCapacity(table)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, entities.CenterID("0833"), rows[0].Center)
	assert.True(t, rows[0].HasCapacity)
	assert.True(t, rows[0].CapacityHours.Equal(decimal.NewFromInt(1000)))
	assert.False(t, rows[1].HasCapacity)
}

func TestRead_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Material", "Unidad", "Cliente", "Cantidad", "Fecha de necesidad"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"M1", "KG", "C1", 150, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	table, err := Read(DemandTable, buf, FormatXLSX)
	require.NoError(t, err)

	demands, err := NewLoader().LoadDemands(table)
	require.NoError(t, err)
	require.Len(t, demands, 1)
	assert.True(t, demands[0].Quantity.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "2025-03-04", demands[0].NeedDate.Format("2006-01-02"))
}

func TestFormatFromName(t *testing.T) {
	f, err := FormatFromName("Demanda.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	_, err = FormatFromName("demand.ods")
	assert.Error(t, err)
}
