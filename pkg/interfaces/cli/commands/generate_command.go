package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Materials      int     // Number of materials in the master
	Clients        int     // Number of clients in the master
	Demands        int     // Number of demand lines
	Weeks          int     // Number of weeks the need dates spread over
	ExclusiveShare float64 // Share of clients flagged exclusive to one center (0-1)
	TieShare       float64 // Share of materials and clients with identical costs and distances (0-1)
	OutputDir      string  // Output directory for generated files
	Seed           int64   // Random seed for reproducible generation
	Verbose        bool    // Verbose output
}

// Centers written into generated capacity masters
var generatedCenters = []struct {
	id, alias string
}{
	{"0833", "DG"},
	{"0184", "MCH"},
}

var generatedUnits = []string{"KG", "UN", "L", "M"}

// GenerateCommand handles scenario generation
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
	}
}

// generatedMaterial is a material master row before it is written
type generatedMaterial struct {
	code, unit     string
	minLot, maxLot int
	cost           [2]decimal.Decimal
	time           [2]decimal.Decimal
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(_ context.Context) error {
	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf(
			"🔧 Generating scenario with %d materials, %d clients, %d demand lines over %d weeks\n",
			cmd.config.Materials,
			cmd.config.Clients,
			cmd.config.Demands,
			cmd.config.Weeks,
		)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
		fmt.Printf("🎲 Random seed: %d\n", cmd.config.Seed)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	materials := cmd.generateMaterials()
	steps := []struct {
		file  string
		write func(*csv.Writer) error
	}{
		{"capacidad.csv", cmd.writeCapacity},
		{"materiales.csv", func(w *csv.Writer) error { return cmd.writeMaterials(w, materials) }},
		{"clientes.csv", cmd.writeClients},
		{"demanda.csv", func(w *csv.Writer) error { return cmd.writeDemand(w, materials) }},
	}

	for _, step := range steps {
		if cmd.config.Verbose {
			fmt.Printf("📦 Generating %s...\n", step.file)
		}
		if err := cmd.writeFile(step.file, step.write); err != nil {
			return fmt.Errorf("failed to generate %s: %w", step.file, err)
		}
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}
	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case cmd.config.Materials <= 0 || cmd.config.Clients <= 0:
		return fmt.Errorf("materials and clients must be positive")
	case cmd.config.Demands < 0:
		return fmt.Errorf("demands cannot be negative")
	case cmd.config.Weeks <= 0:
		return fmt.Errorf("weeks must be positive")
	case cmd.config.ExclusiveShare < 0 || cmd.config.ExclusiveShare > 1:
		return fmt.Errorf("exclusive share must be between 0 and 1")
	case cmd.config.TieShare < 0 || cmd.config.TieShare > 1:
		return fmt.Errorf("tie share must be between 0 and 1")
	}
	return nil
}

func (cmd *GenerateCommand) writeFile(name string, write func(*csv.Writer) error) error {
	file, err := os.Create(filepath.Join(cmd.config.OutputDir, name))
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := write(w); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// generateMaterials draws the material master. Lots stay within [min, max]
// with max always positive; tied materials cost the same in both centers.
func (cmd *GenerateCommand) generateMaterials() []generatedMaterial {
	materials := make([]generatedMaterial, cmd.config.Materials)
	for i := range materials {
		m := generatedMaterial{
			code: fmt.Sprintf("MAT_%05d", i+1),
			unit: generatedUnits[cmd.rand.Intn(len(generatedUnits))],
		}
		if cmd.rand.Intn(4) > 0 {
			m.minLot = 10 * (1 + cmd.rand.Intn(10))
		}
		m.maxLot = m.minLot + 50*(1+cmd.rand.Intn(10))

		base := cmd.amount(0.5, 20)
		unitTime := cmd.amount(0.01, 1)
		m.cost = [2]decimal.Decimal{base, base}
		m.time = [2]decimal.Decimal{unitTime, unitTime}
		if cmd.rand.Float64() >= cmd.config.TieShare {
			m.cost[1] = base.Mul(cmd.amount(0.8, 1.2)).Round(2)
			m.time[1] = unitTime.Mul(cmd.amount(0.8, 1.2)).Round(2)
		}
		materials[i] = m
	}
	return materials
}

func (cmd *GenerateCommand) writeCapacity(w *csv.Writer) error {
	if err := w.Write([]string{"Centro", "Alias", "Capacidad"}); err != nil {
		return err
	}
	// Roughly the hours a scenario of this size needs, split between the centers
	hours := 50 * cmd.config.Demands / len(generatedCenters)
	for _, c := range generatedCenters {
		if err := w.Write([]string{c.id, c.alias, strconv.Itoa(max(hours, 100))}); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *GenerateCommand) writeMaterials(w *csv.Writer, materials []generatedMaterial) error {
	header := []string{"Material", "Unidad", "Tamaño lote mínimo", "Tamaño lote máximo"}
	for _, c := range generatedCenters {
		header = append(header, "Coste fabricacion unidad "+c.alias, "Tiempo fabricación unidad "+c.alias)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, m := range materials {
		row := []string{m.code, m.unit, strconv.Itoa(m.minLot), strconv.Itoa(m.maxLot)}
		for i := range generatedCenters {
			row = append(row, m.cost[i].StringFixed(2), m.time[i].StringFixed(2))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *GenerateCommand) writeClients(w *csv.Writer) error {
	header := []string{"Cliente"}
	for _, c := range generatedCenters {
		header = append(header, "Distancia a "+c.id)
	}
	for _, c := range generatedCenters {
		header = append(header, "Exclusivo "+c.alias)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := 0; i < cmd.config.Clients; i++ {
		near := cmd.rand.Intn(800)
		distances := []int{near, near}
		if cmd.rand.Float64() >= cmd.config.TieShare {
			distances[1] = cmd.rand.Intn(800)
		}

		exclusive := []string{"", ""}
		if cmd.rand.Float64() < cmd.config.ExclusiveShare {
			exclusive[cmd.rand.Intn(len(exclusive))] = "X"
		}

		row := []string{fmt.Sprintf("CLI_%05d", i+1)}
		for _, d := range distances {
			row = append(row, strconv.Itoa(d))
		}
		row = append(row, exclusive...)
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (cmd *GenerateCommand) writeDemand(w *csv.Writer, materials []generatedMaterial) error {
	if err := w.Write([]string{"Material", "Unidad", "Cliente", "Cantidad", "Fecha de necesidad"}); err != nil {
		return err
	}

	// First Monday of 2025
	baseDate := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	for i := 0; i < cmd.config.Demands; i++ {
		m := materials[cmd.rand.Intn(len(materials))]
		client := fmt.Sprintf("CLI_%05d", 1+cmd.rand.Intn(cmd.config.Clients))
		qty := 1 + cmd.rand.Intn(m.maxLot*2)
		needDate := baseDate.AddDate(0, 0, 7*cmd.rand.Intn(cmd.config.Weeks)+cmd.rand.Intn(5))

		if err := w.Write([]string{m.code, m.unit, client, strconv.Itoa(qty), needDate.Format("2006-01-02")}); err != nil {
			return err
		}
	}
	return nil
}

// amount draws a two-decimal value in [lo, hi)
func (cmd *GenerateCommand) amount(lo, hi float64) decimal.Decimal {
	return decimal.NewFromFloat(lo + cmd.rand.Float64()*(hi-lo)).Round(2)
}

func newGenerateCmd() *cobra.Command {
	var cfg GenerateConfig

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic scenario directory",
		Example: `  # Small scenario
  sourcing generate --materials 50 --clients 20 --demands 200 --output ./test_scenario

  # Large reproducible scenario with many cost ties
  sourcing generate --materials 5000 --clients 800 --demands 100000 --tie-share 0.4 --seed 12345 --output ./large_scenario --verbose`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return NewGenerateCommand(cfg).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&cfg.Materials, "materials", 50, "Number of materials to generate")
	flags.IntVar(&cfg.Clients, "clients", 20, "Number of clients to generate")
	flags.IntVar(&cfg.Demands, "demands", 200, "Number of demand lines to generate")
	flags.IntVar(&cfg.Weeks, "weeks", 8, "Number of weeks need dates spread over")
	flags.Float64Var(&cfg.ExclusiveShare, "exclusive-share", 0.1, "Share of clients exclusive to one center (0-1)")
	flags.Float64Var(&cfg.TieShare, "tie-share", 0.2, "Share of cost-tied materials and clients (0-1)")
	flags.StringVar(&cfg.OutputDir, "output", "", "Output directory for generated files")
	flags.Int64Var(&cfg.Seed, "seed", 0, "Random seed for reproducible generation")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose output")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}
