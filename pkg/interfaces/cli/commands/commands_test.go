package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/sourcing/pkg/application/dto"
	"github.com/vsinha/sourcing/pkg/config"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/infrastructure/logging"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
	"github.com/vsinha/sourcing/pkg/interfaces/cli/output"
)

func testApp(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func generate(t *testing.T, dir string, seed int64) {
	t.Helper()
	err := NewGenerateCommand(GenerateConfig{
		Materials:      20,
		Clients:        10,
		Demands:        300,
		Weeks:          4,
		ExclusiveShare: 0.2,
		TieShare:       0.5,
		OutputDir:      dir,
		Seed:           seed,
	}).Execute(context.Background())
	require.NoError(t, err)
}

func readPlan(t *testing.T, dir string) *dto.PlanResult {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, output.BaseName+".json"))
	require.NoError(t, err)

	var result dto.PlanResult
	require.NoError(t, json.Unmarshal(data, &result))
	return &result
}

func TestGenerateCommand_Reproducible(t *testing.T) {
	a, b := t.TempDir(), t.TempDir()
	generate(t, a, 42)
	generate(t, b, 42)

	for _, name := range []string{"capacidad.csv", "materiales.csv", "clientes.csv", "demanda.csv"} {
		left, err := os.ReadFile(filepath.Join(a, name))
		require.NoError(t, err)
		right, err := os.ReadFile(filepath.Join(b, name))
		require.NoError(t, err)
		assert.Equal(t, left, right, name)
	}

	demand, err := sheet.ReadFile(sheet.DemandTable, filepath.Join(a, "demanda.csv"))
	require.NoError(t, err)
	assert.Equal(t, 300, demand.Len())
}

func TestGenerateCommand_Validation(t *testing.T) {
	err := NewGenerateCommand(GenerateConfig{Materials: 1, Clients: 1, Weeks: 1}).Execute(context.Background())
	assert.Error(t, err, "output directory is required")

	err = NewGenerateCommand(GenerateConfig{Materials: 1, Clients: 1, Weeks: 1, TieShare: 2, OutputDir: t.TempDir()}).
		Execute(context.Background())
	assert.Error(t, err)
}

func TestPlanCommand_GeneratedScenario(t *testing.T) {
	scenario, out := t.TempDir(), t.TempDir()
	generate(t, scenario, 7)

	store := cache.NewMemoryStore(4)
	cmd := NewPlanCommand(PlanConfig{
		ScenarioDir: scenario,
		OutputDir:   out,
		Format:      output.FormatJSON,
	}, testApp(t), store, logging.Nop())
	require.NoError(t, cmd.Execute(context.Background()))

	result := readPlan(t, out)
	require.NotEmpty(t, result.Orders)
	assert.NotEmpty(t, result.Fingerprint)
	assert.Equal(t, []string{"0833", "0184"}, result.Centers)
	for i, o := range result.Orders {
		assert.Equal(t, i+1, o.Number)
		assert.True(t, o.Quantity.IsPositive())
	}
	assert.Empty(t, result.Warnings, "generated clients and materials all join")
	assert.Equal(t, 1, store.Len())

	// A second run is served from the memo with the same bytes
	first, err := os.ReadFile(filepath.Join(out, output.BaseName+".json"))
	require.NoError(t, err)
	require.NoError(t, cmd.Execute(context.Background()))
	second, err := os.ReadFile(filepath.Join(out, output.BaseName+".json"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPlanCommand_Overrides(t *testing.T) {
	scenario := t.TempDir()
	generate(t, scenario, 11)

	run := func(cfg PlanConfig) *dto.PlanResult {
		out := t.TempDir()
		cfg.ScenarioDir = scenario
		cfg.OutputDir = out
		cfg.Format = output.FormatJSON
		cfg.NoCache = true
		require.NoError(t, NewPlanCommand(cfg, testApp(t), nil, logging.Nop()).Execute(context.Background()))
		return readPlan(t, out)
	}

	allA := run(PlanConfig{DefaultThreshold: "100", TransportPrice: "0"})
	allB := run(PlanConfig{DefaultThreshold: "0", TransportPrice: "0"})
	assert.NotEqual(t, allA.Fingerprint, allB.Fingerprint)
	assert.Equal(t, allA.Rules, allB.Rules, "thresholds decide the center of ties, not the rule")

	// Free transport leaves cost ties on every tied material; all of them go
	// to the primary center at 100 and none at 0
	aShareHigh, ok := allA.Summary.Center("0833")
	require.True(t, ok)
	aShareLow, ok := allB.Summary.Center("0833")
	require.True(t, ok)
	assert.True(t, aShareHigh.Quantity.GreaterThan(aShareLow.Quantity))

	swapped := run(PlanConfig{PrimaryCenter: "MCH", OrderClass: "ZP02"})
	assert.Equal(t, []string{"0184", "0833"}, swapped.Centers)
	for _, o := range swapped.Orders {
		assert.Equal(t, "ZP02", o.OrderClass)
	}
}

func TestPlanCommand_ResolveInputFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"demand.csv", "materiales.xlsx", "materials.csv", "clientes.csv", "capacity.csv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0644))
	}
	override := filepath.Join(t.TempDir(), "cap.csv")
	require.NoError(t, os.WriteFile(override, []byte("x\n"), 0644))

	cmd := NewPlanCommand(PlanConfig{ScenarioDir: dir, CapacityFile: override}, nil, nil, logging.Nop())
	files, err := cmd.resolveInputFiles()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "demand.csv"), files[sheet.DemandTable])
	assert.Equal(t, filepath.Join(dir, "materiales.xlsx"), files[sheet.MaterialTable], "spanish name and xlsx come first")
	assert.Equal(t, filepath.Join(dir, "clientes.csv"), files[sheet.ClientTable])
	assert.Equal(t, override, files[sheet.CapacityTable])

	require.NoError(t, os.Remove(filepath.Join(dir, "clientes.csv")))
	_, err = cmd.resolveInputFiles()
	assert.Error(t, err)
}

func TestPlanCommand_ValidateInputs(t *testing.T) {
	tests := []struct {
		name    string
		config  PlanConfig
		wantErr bool
	}{
		{"scenario dir", PlanConfig{ScenarioDir: "x", Format: "text"}, false},
		{"all files", PlanConfig{DemandFile: "d", MaterialsFile: "m", ClientsFile: "c", CapacityFile: "k", Format: "xlsx"}, false},
		{"missing file", PlanConfig{DemandFile: "d", MaterialsFile: "m", ClientsFile: "c", Format: "json"}, true},
		{"bad format", PlanConfig{ScenarioDir: "x", Format: "pdf"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewPlanCommand(tt.config, nil, nil, logging.Nop()).validateInputs()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRootCommand_Help(t *testing.T) {
	root := NewRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"plan", "serve", "generate"})
}
