package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/wishplanet/wishplanet/internal/config"
	"github.com/wishplanet/wishplanet/internal/gateway"
	"github.com/wishplanet/wishplanet/internal/http_api"
	"github.com/wishplanet/wishplanet/internal/models"
	"github.com/wishplanet/wishplanet/internal/notificator"
	"github.com/wishplanet/wishplanet/internal/planet"
	"github.com/wishplanet/wishplanet/internal/provider"
	"github.com/wishplanet/wishplanet/internal/store"
	"github.com/wishplanet/wishplanet/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "wishplanet",
		Usage: "Wishplanet is the on-chain wish-state core with an HTTP presentation facade",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "rpc-url", Aliases: []string{"r"}, Usage: "Wallet RPC endpoint URL"},
			&cli.StringFlag{Name: "chain-id", Aliases: []string{"c"}, Usage: "Expected chain id (decimal or hex)"},
			&cli.StringFlag{Name: "contract-address", Aliases: []string{"a"}, Usage: "WishRegistry contract address"},
			&cli.IntFlag{Name: "api-port", Aliases: []string{"p"}, Usage: "HTTP API port"},
			&cli.BoolFlag{Name: "development", Aliases: []string{"D"}, Usage: "Development mode"},
		},
		Action: func(c *cli.Context) error {
			return run(c)
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	// Load configuration from environment variables
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Development)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %v", err)
	}

	// Initialize the wallet provider and adapter
	rpcProvider, err := provider.Dial(cfg.RPCURL, log.Named("provider"))
	if err != nil {
		return fmt.Errorf("failed to connect to the wallet RPC endpoint: %v", err)
	}
	defer rpcProvider.Close()
	adapter := provider.NewAdapter(rpcProvider, cfg.RPCTimeout(), log.Named("provider"))

	// Initialize the contract gateway
	registry, err := gateway.NewRegistry(cfg.ContractAddress, log.Named("gateway"))
	if err != nil {
		return fmt.Errorf("failed to build contract gateway: %v", err)
	}

	// Initialize the wish store
	wishStore := store.NewStore(log.Named("store"))

	// Initialize the notificator
	sinks := []models.Notifier{notificator.NewZapNotificator(log.Named("toast"))}
	if cfg.TelegramBotToken != "" && cfg.TelegramChatID != "" {
		telegram, err := notificator.NewTelegramNotificator(log.Named("telegram"), cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return fmt.Errorf("failed to initialize telegram notificator: %v", err)
		}
		sinks = append(sinks, telegram)
	}
	notifier := notificator.NewNotificator(log.Named("notificator"), sinks...)

	// Create the wish planet core
	core := planet.NewWishPlanet(adapter, registry, wishStore, notifier, log.Named("planet"), cfg)

	// Start the API server
	apiServer := http_api.NewHTTPServer(core, cfg.APIPort, log.Named("http"))
	apiServer.Start()

	return nil
}

// loadConfig loads the environment configuration and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	if c.IsSet("rpc-url") {
		os.Setenv("RPC_URL", c.String("rpc-url"))
	}
	if c.IsSet("chain-id") {
		os.Setenv("CHAIN_ID", c.String("chain-id"))
	}
	if c.IsSet("contract-address") {
		os.Setenv("CONTRACT_ADDRESS", c.String("contract-address"))
	}
	if c.IsSet("api-port") {
		os.Setenv("API_PORT", fmt.Sprint(c.Int("api-port")))
	}
	if c.IsSet("development") {
		os.Setenv("DEVELOPMENT", fmt.Sprint(c.Bool("development")))
	}
	return config.LoadConfig()
}
