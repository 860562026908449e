package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/config"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/infrastructure/repositories/sheet"
	"github.com/vsinha/sourcing/pkg/interfaces/cli/output"
)

// PlanConfig holds configuration for the plan command
type PlanConfig struct {
	ScenarioDir   string
	DemandFile    string
	MaterialsFile string
	ClientsFile   string
	CapacityFile  string
	OutputDir     string
	Format        string
	Verbose       bool

	// Overrides of the environment config; empty means unset
	TransportPrice   string
	PriceSource      string
	DefaultThreshold string
	ThresholdsFile   string
	PrimaryCenter    string
	OrderClass       string
	NoCache          bool
}

// inputTable pairs a table with the file names it may have in a scenario directory
type inputTable struct {
	table string
	label string
	names []string
}

var inputTables = []inputTable{
	{sheet.DemandTable, "Demand", []string{"demanda", "demand"}},
	{sheet.MaterialTable, "Materials", []string{"materiales", "materials"}},
	{sheet.ClientTable, "Clients", []string{"clientes", "clients"}},
	{sheet.CapacityTable, "Capacity", []string{"capacidad", "capacity"}},
}

var scenarioExtensions = []string{".xlsx", ".csv"}

// PlanCommand runs a sourcing plan over a scenario
type PlanCommand struct {
	config PlanConfig
	app    *config.Config
	store  cache.Store
	logger ectologger.Logger
}

// NewPlanCommand creates a new plan command. A nil store runs without memo.
func NewPlanCommand(cfg PlanConfig, app *config.Config, store cache.Store, logger ectologger.Logger) *PlanCommand {
	return &PlanCommand{
		config: cfg,
		app:    app,
		store:  store,
		logger: logger,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files)
		fmt.Println("📂 Loading input tables...")
	}

	tables := make(map[string]*sheet.Table, len(inputTables))
	for _, it := range inputTables {
		t, err := sheet.ReadFile(it.table, files[it.table])
		if err != nil {
			return fmt.Errorf("error loading %s: %w", strings.ToLower(it.label), err)
		}
		tables[it.table] = t
	}
	in := planning.Input{
		Demand:    tables[sheet.DemandTable],
		Materials: tables[sheet.MaterialTable],
		Clients:   tables[sheet.ClientTable],
		Capacity:  tables[sheet.CapacityTable],
	}

	if c.config.Verbose {
		fmt.Printf("✅ Tables loaded successfully:\n")
		for _, it := range inputTables {
			fmt.Printf("  %s: %d rows\n", it.label, tables[it.table].Len())
		}
		fmt.Println()
	}

	params, err := c.params()
	if err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}

	store := c.store
	if c.config.NoCache {
		store = nil
	}
	planner := cache.NewCachedPlanner(planning.NewPlanner(c.app.ResolutionWorkers, c.logger), store, c.logger)

	if c.config.Verbose {
		fmt.Println("🔄 Resolving centers and batching lots...")
	}

	startTime := time.Now()
	res, err := planner.Plan(ctx, in, params)
	planTime := time.Since(startTime)
	if err != nil {
		return fmt.Errorf("error running sourcing plan: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Plan completed in %v (%d orders", planTime, len(res.Plan.Orders))
		if res.Hit {
			fmt.Printf(", from memo")
		}
		fmt.Printf(")\n")
		if n := len(res.Plan.Warnings); n > 0 {
			fmt.Printf("⚠️  %d join warnings\n", n)
		}
		fmt.Println()
	}

	outputConfig := output.Config{
		Format:     c.config.Format,
		OutputDir:  c.config.OutputDir,
		Verbose:    c.config.Verbose,
		PlanTime:   planTime,
		Cached:     res.Hit,
		InputFiles: files,
	}
	if err := output.Generate(res.Plan, res.Body, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Verbose {
		fmt.Println("🏁 Sourcing proposal complete!")
	}
	return nil
}

// params starts from the environment config and applies flag overrides
func (c *PlanCommand) params() (planning.Params, error) {
	params, err := c.app.PlanParams()
	if err != nil {
		return params, err
	}

	if c.config.TransportPrice != "" {
		price, err := decimal.NewFromString(c.config.TransportPrice)
		if err != nil {
			return params, fmt.Errorf("transport price %q is not a number", c.config.TransportPrice)
		}
		params.PricePerDistance = price
	}
	if c.config.PriceSource != "" {
		params.PriceSource = c.config.PriceSource
	}
	if c.config.ThresholdsFile != "" {
		th, err := config.LoadThresholds(c.config.ThresholdsFile)
		if err != nil {
			return params, err
		}
		params.Thresholds = th.Weeks
		if th.Default != nil {
			params.DefaultThreshold = *th.Default
		}
	}
	if c.config.DefaultThreshold != "" {
		threshold, err := decimal.NewFromString(c.config.DefaultThreshold)
		if err != nil {
			return params, fmt.Errorf("default threshold %q is not a number", c.config.DefaultThreshold)
		}
		params.DefaultThreshold = threshold
	}
	if c.config.PrimaryCenter != "" {
		params.Centers.PrimaryPattern = c.config.PrimaryCenter
	}
	if c.config.OrderClass != "" {
		params.OrderClass = c.config.OrderClass
	}
	return params, nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.DemandFile == "" || c.config.MaterialsFile == "" ||
			c.config.ClientsFile == "" || c.config.CapacityFile == "") {
		return fmt.Errorf("must specify either --scenario directory or all four table files")
	}

	switch c.config.Format {
	case output.FormatText, output.FormatJSON, output.FormatCSV, output.FormatXLSX:
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use, keyed by table.
// Individual file flags win over the scenario directory.
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	explicit := map[string]string{
		sheet.DemandTable:   c.config.DemandFile,
		sheet.MaterialTable: c.config.MaterialsFile,
		sheet.ClientTable:   c.config.ClientsFile,
		sheet.CapacityTable: c.config.CapacityFile,
	}

	files := make(map[string]string, len(inputTables))
	for _, it := range inputTables {
		path := explicit[it.table]
		if path == "" {
			path = findScenarioFile(c.config.ScenarioDir, it.names)
		}
		if path == "" {
			return nil, fmt.Errorf("%s file not found in %s", it.label, c.config.ScenarioDir)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", it.label, path)
		}
		files[it.table] = path
	}
	return files, nil
}

func findScenarioFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	for _, name := range names {
		for _, ext := range scenarioExtensions {
			path := filepath.Join(dir, name+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(files map[string]string) {
	fmt.Printf("🚀 Sourcing Engine CLI\n")
	fmt.Printf("Input files:\n")
	for _, it := range inputTables {
		fmt.Printf("  %s: %s\n", it.label, files[it.table])
	}
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

const planLong = `Assigns every demand line to one of the two centers by landed cost,
honoring client exclusivity, then batches the assigned demand into
production lots bounded by each material's minimum and maximum lot size.

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── demanda.xlsx|csv      # Demand lines
    ├── materiales.xlsx|csv   # Material master: lot sizes, unit cost and time per center
    ├── clientes.xlsx|csv     # Client master: distance and exclusivity per center
    └── capacidad.xlsx|csv    # Capacity master: the two centers, aliases, hours

English file names (demand, materials, clients, capacity) are accepted too.

TABLE FORMATS:

demanda:
    Material,Unidad,Cliente,Cantidad,Fecha de necesidad
    M1,KG,C1,150,2025-03-04

materiales:
    Material,Unidad,Tamaño lote mínimo,Tamaño lote máximo,Coste fabricacion unidad DG,Tiempo fabricación unidad DG,...
    M1,KG,50,100,1.20,0.5,...

clientes:
    Cliente,Distancia a 0833,Distancia a 0184,Exclusivo DG,Exclusivo MCH
    C1,120,340,X,

capacidad:
    Centro,Alias,Capacidad
    0833,DG,1000
    0184,MCH,800`

const planExample = `  # Run a scenario directory
  sourcing plan --scenario examples/basic --verbose

  # Individual files, JSON output saved to results/
  sourcing plan --demand d.xlsx --materials m.xlsx --clients c.xlsx --capacity cap.csv --format json --output results/

  # Per-client transport price and custom weekly tie-break thresholds
  sourcing plan --scenario examples/basic --price-source client --thresholds thresholds.yaml`

func newPlanCmd(rt *runtime) *cobra.Command {
	var cfg PlanConfig

	cmd := &cobra.Command{
		Use:     "plan",
		Short:   "Compute a sourcing proposal from the four input tables",
		Long:    planLong,
		Example: planExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := rt.store()
			if err != nil {
				return err
			}
			defer closeStore()

			return NewPlanCommand(cfg, rt.cfg, store, rt.logger).Execute(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.ScenarioDir, "scenario", "", "Path to scenario directory containing the four tables")
	flags.StringVar(&cfg.DemandFile, "demand", "", "Path to demand table (.xlsx or .csv)")
	flags.StringVar(&cfg.MaterialsFile, "materials", "", "Path to material master")
	flags.StringVar(&cfg.ClientsFile, "clients", "", "Path to client master")
	flags.StringVar(&cfg.CapacityFile, "capacity", "", "Path to capacity master")
	flags.StringVar(&cfg.OutputDir, "output", "", "Output directory for results (optional)")
	flags.StringVar(&cfg.Format, "format", output.FormatText, "Output format: text, json, csv, xlsx")
	flags.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose output")
	flags.StringVar(&cfg.TransportPrice, "transport-price", "", "Transport price per km (overrides TRANSPORT_PRICE_PER_KM)")
	flags.StringVar(&cfg.PriceSource, "price-source", "", "Transport price source: fixed or client")
	flags.StringVar(&cfg.DefaultThreshold, "default-threshold", "", "Tie-break threshold for weeks without one, 0-100")
	flags.StringVar(&cfg.ThresholdsFile, "thresholds", "", "YAML file of per-week tie-break thresholds")
	flags.StringVar(&cfg.PrimaryCenter, "primary-center", "", "Pattern selecting the primary center by id or alias")
	flags.StringVar(&cfg.OrderClass, "order-class", "", "Order class written on every production order")
	flags.BoolVar(&cfg.NoCache, "no-cache", false, "Skip the plan memo")

	return cmd
}
