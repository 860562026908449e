package commands

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/spf13/cobra"

	"github.com/vsinha/sourcing/pkg/config"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/infrastructure/logging"
)

// runtime is the state shared by every subcommand once flags are parsed
type runtime struct {
	envFile    string
	logLevel   string
	prettyLogs bool

	cfg    *config.Config
	logger ectologger.Logger
	flush  func()
}

// NewRootCommand builds the sourcing CLI
func NewRootCommand() *cobra.Command {
	rt := &runtime{}

	root := &cobra.Command{
		Use:           "sourcing",
		Short:         "Two-center sourcing allocation and lot batching",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return rt.init(cmd)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			rt.close()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.envFile, "env-file", "", "Path to a .env file (default: $ENV_FILE or ./.env)")
	flags.StringVar(&rt.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	flags.BoolVar(&rt.prettyLogs, "pretty-logs", false, "Human-readable logs (overrides PRETTY_LOGS)")

	root.AddCommand(newPlanCmd(rt), newServeCmd(rt), newGenerateCmd())
	return root
}

func (rt *runtime) init(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if rt.envFile != "" {
		cfg, err = config.Load(rt.envFile)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = rt.logLevel
	}
	if cmd.Flags().Changed("pretty-logs") {
		cfg.PrettyLogs = rt.prettyLogs
	}

	logger, flush, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.PrettyLogs,
		Name:   cfg.AppName,
	})
	if err != nil {
		return err
	}

	rt.cfg = cfg
	rt.logger = logger
	rt.flush = flush
	return nil
}

func (rt *runtime) close() {
	if rt.flush != nil {
		rt.flush()
	}
}

// store opens the configured plan memo. The returned store is nil when
// memoization is off.
func (rt *runtime) store() (cache.Store, func(), error) {
	noop := func() {}

	switch rt.cfg.CacheBackend {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheRedis:
		rs, err := cache.NewRedisStore(rt.cfg.RedisConfig(), rt.logger)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open redis plan memo: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return cache.NewMemoryStore(rt.cfg.CacheMaxEntries), noop, nil
	}
}
