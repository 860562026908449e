package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
	"github.com/vsinha/sourcing/pkg/interfaces/http/server"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the plan API",
		Long: `Serves POST /v1/plans, which takes the demand, materials, clients and
capacity tables as a multipart upload and returns the proposal.
Also serves /healthz and /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("address") {
				rt.cfg.HTTPAddress = address
			}

			defaults, err := rt.cfg.PlanParams()
			if err != nil {
				return err
			}

			store, closeStore, err := rt.store()
			if err != nil {
				return err
			}
			defer closeStore()

			runner := cache.NewCachedPlanner(planning.NewPlanner(rt.cfg.ResolutionWorkers, rt.logger), store, rt.logger)
			srv := server.New(server.Options{
				Address:        rt.cfg.HTTPAddress,
				MaxUploadBytes: rt.cfg.MaxUploadBytes,
				Defaults:       defaults,
			}, runner, rt.logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Listen address (overrides HTTP_ADDRESS)")
	return cmd
}
