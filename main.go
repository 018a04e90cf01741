package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/whitewenty/dostavka/dostavka"
	"github.com/whitewenty/dostavka/dostavka/commands"
	"github.com/whitewenty/dostavka/dostavka/commands/admin"
	"github.com/whitewenty/dostavka/dostavka/database"
	"github.com/whitewenty/dostavka/dostavka/database/repositories"
	"github.com/whitewenty/dostavka/dostavka/economy/ledger"
	"github.com/whitewenty/dostavka/dostavka/economy/shop"
	"github.com/whitewenty/dostavka/dostavka/handlers"
	"github.com/whitewenty/dostavka/dostavka/logger"
	"github.com/whitewenty/dostavka/dostavka/migration"
	"github.com/whitewenty/dostavka/dostavka/services"
	"github.com/whitewenty/dostavka/dostavka/web"
	"golang.org/x/sync/errgroup"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler("Dostavka")))

	slog.Info("Starting Dostavka",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	importLegacy := flag.String("import-legacy", "", "Path to a legacy JSON data file to import once")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := dostavka.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("error", err.Error()))
		os.Exit(-1)
	}

	b := dostavka.New(*cfg, version, commit)
	b.DB = db
	b.UserRepository = repositories.NewUserRepository(db.BunDB())
	b.AdminRepository = repositories.NewAdminRepository(db.BunDB())
	b.Ledger = ledger.New(b.UserRepository)
	b.Shop = shop.New(b.Ledger)

	var spaces *services.SpacesService
	if cfg.Spaces.Key != "" && cfg.Spaces.Secret != "" {
		spaces = services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.Root,
		)
	}
	b.Images = services.NewImageService(spaces)

	if err := b.AdminRepository.EnsureDefaultAdmin(ctx, cfg.Owner.ID, cfg.Owner.Name); err != nil {
		slog.Error("Failed to seed default admin", slog.Any("error", err))
		os.Exit(-1)
	}

	if *importLegacy != "" {
		importer := migration.NewImporter(b.UserRepository)
		if _, err := importer.ImportFile(ctx, *importLegacy); err != nil {
			slog.Error("Legacy import failed", slog.Any("error", err))
			os.Exit(-1)
		}
	}

	statsService := web.NewStatsService(b.UserRepository, b.Ledger, cfg.Bot.Configured())
	server, err := web.NewServer(cfg.Web.Addr, statsService)
	if err != nil {
		slog.Error("Failed to create dashboard server", slog.Any("error", err))
		os.Exit(-1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		return server.Run(gCtx)
	})

	if cfg.Bot.Configured() {
		if err := startBot(ctx, b, *shouldSyncCommands); err != nil {
			slog.Error("Failed to start bot", slog.Any("error", err))
			os.Exit(-1)
		}
		defer func() {
			closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer closeCancel()
			b.Client.Close(closeCtx)
		}()
	} else {
		slog.Info("No bot token configured, running dashboard only",
			slog.String("type", "sys"))
	}

	logger.LogSystem("Dostavka is running. Press CTRL-C to exit.")
	if err := g.Wait(); err != nil {
		logger.LogError("Shutdown with error", err)
		os.Exit(-1)
	}
	logger.LogSystem("Shutting down...")
}

func startBot(ctx context.Context, b *dostavka.Bot, syncCommands bool) error {
	h := handler.New()

	shopHandler := commands.NewShopHandler(b)

	h.Command("/deliver", handlers.WrapWithLogging("deliver", commands.DeliverHandler(b)))
	h.Command("/shop", handlers.WrapWithLogging("shop", shopHandler.Handle))
	h.Command("/profile", handlers.WrapWithLogging("profile", commands.ProfileHandler(b)))
	h.Command("/top", handlers.WrapWithLogging("top", commands.TopHandler(b)))
	h.Component("/shop/", handlers.WrapComponentWithLogging("shop", shopHandler.HandleComponent))

	h.Command("/block", handlers.WrapWithLogging("block", admin.BlockHandler(b)))
	h.Command("/unblock", handlers.WrapWithLogging("unblock", admin.UnblockHandler(b)))
	h.Command("/addmoney", handlers.WrapWithLogging("addmoney", admin.AddMoneyHandler(b)))
	h.Command("/removemoney", handlers.WrapWithLogging("removemoney", admin.RemoveMoneyHandler(b)))
	h.Command("/givebuff", handlers.WrapWithLogging("givebuff", admin.GiveBuffHandler(b)))
	h.Command("/broadcast", handlers.WrapWithLogging("broadcast", admin.BroadcastHandler(b)))
	h.Command("/finduser", handlers.WrapWithLogging("finduser", admin.FindUserHandler(b)))
	h.Command("/addadmin", handlers.WrapWithLogging("addadmin", admin.AddAdminHandler(b)))

	if err := b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		return err
	}

	if syncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", b.Cfg.Bot.DevGuilds))
		if err := handler.SyncCommands(b.Client, commands.Commands, b.Cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	gatewayCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return b.Client.OpenGateway(gatewayCtx)
}
