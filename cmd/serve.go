package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nextlevelbuilder/talkbridge/internal/agent"
	"github.com/nextlevelbuilder/talkbridge/internal/bus"
	"github.com/nextlevelbuilder/talkbridge/internal/channels"
	"github.com/nextlevelbuilder/talkbridge/internal/channels/channeltalk"
	"github.com/nextlevelbuilder/talkbridge/internal/config"
	"github.com/nextlevelbuilder/talkbridge/internal/gateway"
	"github.com/nextlevelbuilder/talkbridge/internal/store"
	filestore "github.com/nextlevelbuilder/talkbridge/internal/store/file"
	"github.com/nextlevelbuilder/talkbridge/internal/store/pg"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the webhook gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Agent.Endpoint == "" {
		return fmt.Errorf("agent endpoint is not configured (set agent.endpoint or TALKBRIDGE_AGENT_ENDPOINT)")
	}

	pairing, err := openPairingStore(cfg)
	if err != nil {
		return err
	}

	router := bus.NewMessageBus()

	channel := channeltalk.NewChannel(cfg.Accounts, channeltalk.NewGate(pairing), router)
	manager := channels.NewManager(router)
	manager.Register(channel)

	runtime := agent.NewRemoteRuntime(cfg.Agent.Endpoint, cfg.Agent.Token)
	consumer := agent.NewConsumer(cfg.Agent.ID, runtime, router)

	server := gateway.NewServer(cfg.Gateway.Host, cfg.Gateway.Port,
		channel.HandleWebhook,
		channel.HandleFunction,
	)

	if err := manager.StartAll(ctx); err != nil {
		return err
	}
	defer manager.StopAll()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		consumer.Run(ctx)
		return nil
	})
	g.Go(func() error {
		return server.Start(ctx)
	})

	slog.Info("talkbridge running",
		"accounts", len(cfg.Accounts), "agent_id", cfg.Agent.ID,
		"managed", cfg.IsManagedMode())

	return g.Wait()
}

// openPairingStore selects the pairing backend: Postgres in managed mode,
// a JSON file otherwise.
func openPairingStore(cfg *config.Config) (store.PairingStore, error) {
	if cfg.IsManagedMode() {
		db, err := pg.OpenDB(cfg.Database.PostgresDSN)
		if err != nil {
			return nil, err
		}
		slog.Info("pairing store: postgres")
		return pg.NewPairingStore(db), nil
	}

	path := config.ExpandHome(cfg.Pairing.StorePath)
	s, err := filestore.NewPairingStore(path)
	if err != nil {
		return nil, err
	}
	slog.Info("pairing store: file", "path", path)
	return s, nil
}
