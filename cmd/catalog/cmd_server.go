package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/routes"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/app/store"
	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/app"
	catalogrpc "github.com/shashiranjanraj/catalog/pkg/grpc"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// catalog serve: start the HTTP server and the gRPC health service.
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server and the gRPC health service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		k, err := boot(ctx)
		if err != nil {
			return err
		}

		deps := routes.Deps{Products: k.products, Presenter: k.presenter}
		a := app.New().
			Routes(func(r *router.Router) error { return routes.RegisterAPI(r, deps) }).
			OnShutdown(k.close)

		if port := config.GRPCPort(); port != "" {
			health := catalogrpc.New(func(ctx context.Context) error { return store.Ping(ctx, k.store) })
			a.Run(func(ctx context.Context) error { return health.Start(ctx, ":"+port) })
		}

		return a.Serve(ctx, ":"+config.AppPort())
	},
}

// catalog route:list: print all registered routes.
var routeListCmd = &cobra.Command{
	Use:   "route:list",
	Short: "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Routes only need a service to bind to; nothing is served.
		deps := routes.Deps{Products: services.NewProductService(store.NewMemory(), 0)}
		r, err := app.New().
			Routes(func(r *router.Router) error { return routes.RegisterAPI(r, deps) }).
			Router()
		if err != nil {
			return err
		}
		return app.PrintRoutes(cmd.OutOrStdout(), r)
	},
}
