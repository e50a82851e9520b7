package main

import (
	"log/slog"

	"github.com/Veraticus/squeegee/internal/config"
	"github.com/Veraticus/squeegee/internal/httpserver"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the chat, health and calendar API",
		Long: `Start the HTTP API:

  POST /api/chat       talk to the scheduling assistant
  GET  /api/health     liveness plus assistant and database checks
  GET  /api/calendar   jobs between ?start= and ?end= (YYYY-MM-DD)
  GET  /metrics        Prometheus metrics

The assistant is optional; without an OpenAI key the chat endpoint reports
that it is not initialized.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", config.DefaultAddr, "listen address")
	cmd.Flags().String("static", "", "directory of static frontend files to serve at /")
	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.static_dir", cmd.Flags().Lookup("static"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	srvCfg := config.LoadServerConfig(viper.GetViper())

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	opts := httpserver.Options{
		Database:       store,
		Calendar:       httpserver.StoreCalendar{Store: store},
		Logger:         slog.Default(),
		StaticDir:      config.ExpandPath(viper.GetString("server.static_dir")),
		AllowedOrigins: srvCfg.AllowedOrigins,
	}

	agent, err := initAgent(store)
	if err != nil {
		slog.Warn("Scheduling assistant disabled", "error", err)
	} else {
		opts.Agent = agent
	}

	return httpserver.Run(ctx, srvCfg.Addr, httpserver.NewRouter(opts), slog.Default())
}
