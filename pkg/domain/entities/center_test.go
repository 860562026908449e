package entities

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCenterSet_Positional(t *testing.T) {
	rows := []CapacityRow{{Center: " 0833 "}, {Center: "0184"}, {Center: "0833"}}

	set, err := ResolveCenterSet(rows, CenterOptions{
		Aliases: map[CenterID]string{"0833": "DG", "0184": "MCH"},
	})
	require.NoError(t, err)

	assert.Equal(t, CenterID("0833"), set.A.ID)
	assert.Equal(t, "DG", set.A.Alias)
	assert.Equal(t, CenterID("0184"), set.B.ID)
	assert.Equal(t, []string{"MCH", "0184"}, set.B.ColumnKeys())
	assert.True(t, set.Contains("0184"))
	assert.False(t, set.Contains("0181"))
	assert.Equal(t, "0833/0184", set.String())
}

func TestResolveCenterSet_PrimaryPattern(t *testing.T) {
	rows := []CapacityRow{{Center: "0184", Alias: "MCH"}, {Center: "0833", Alias: "DG"}}

	set, err := ResolveCenterSet(rows, CenterOptions{PrimaryPattern: "dg"})
	require.NoError(t, err)
	assert.Equal(t, CenterID("0833"), set.A.ID)
	assert.Equal(t, CenterID("0184"), set.B.ID)
}

func TestResolveCenterSet_Ambiguous(t *testing.T) {
	tests := []struct {
		name string
		rows []CapacityRow
		opts CenterOptions
	}{
		{"no centers", nil, CenterOptions{}},
		{"single center", []CapacityRow{{Center: "0833"}, {Center: "0833"}}, CenterOptions{}},
		{"three centers", []CapacityRow{{Center: "A"}, {Center: "B"}, {Center: "C"}}, CenterOptions{}},
		{"pattern matches both", []CapacityRow{{Center: "08A"}, {Center: "08B"}}, CenterOptions{PrimaryPattern: "08"}},
		{"pattern matches none", []CapacityRow{{Center: "0833"}, {Center: "0184"}}, CenterOptions{PrimaryPattern: "XX"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveCenterSet(tt.rows, tt.opts)
			require.Error(t, err)
			assert.True(t, IsKind(err, AmbiguousCenterIdentity), "got %v", err)
		})
	}
}

func TestPlanError_Context(t *testing.T) {
	cause := errors.New("strconv failure")
	err := NewPlanError(NonNumericField, "cannot parse number").
		WithTable("demand").
		WithRow(4).
		WithField("Cantidad").
		WithValue("abc").
		WithCause(cause)

	assert.Equal(t, "NonNumericField -> table 'demand' -> row 4 -> field 'Cantidad': cannot parse number (value \"abc\")", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := errors.Join(errors.New("loading demand"), err)
	assert.True(t, IsKind(wrapped, NonNumericField))
	assert.False(t, IsKind(wrapped, InvalidLotConfiguration))

	httpErr := err.ToHTTPError()
	assert.Equal(t, "NonNumericField", httpErr.Meta["kind"])
}
