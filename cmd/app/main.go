package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"samamatroh/internal/config"
	"samamatroh/internal/db"
	"samamatroh/internal/email"
	"samamatroh/internal/ledger"
	"samamatroh/internal/logger"
	"samamatroh/internal/reservation"
	"samamatroh/internal/server"
	"samamatroh/internal/transfer"
	"samamatroh/internal/user"

	"golang.org/x/sync/errgroup"
)

// @title SamaMatroh API
// @version 1.0
// @description Travel reservations with a per-user money ledger.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.InitWithLevel(cfg.LogLevel)
	logger.Info("Starting SamaMatroh", "tx_isolation", cfg.TxIsolation, "reversal_policy", cfg.ReversalPolicy)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, cfg.MigrationsPath); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	isolation, err := db.ParseIsolation(cfg.TxIsolation)
	if err != nil {
		logger.Fatalf("Invalid isolation level: %v", err)
	}
	units := db.NewUnitManager(database, isolation)

	emailService := email.New(email.Options{
		From:      cfg.EmailFrom,
		FromName:  cfg.EmailFromName,
		SMTPHost:  cfg.SMTPHost,
		SMTPPort:  cfg.SMTPPort,
		SMTPUser:  cfg.SMTPUser,
		SMTPPass:  cfg.SMTPPass,
		RedisAddr: cfg.RedisAddr,
	})
	defer emailService.Close()

	accounts := ledger.NewRepository()
	mutator := ledger.NewMutator(accounts)

	userService := user.NewService(user.NewRepository(database), cfg.JWTSecret)
	ledgerService := ledger.NewService(database, units, accounts, mutator)
	reservationService := reservation.NewService(database, units, reservation.NewRepository(), accounts, mutator, emailService)
	transferService := transfer.NewService(database, units, transfer.NewRepository(), mutator,
		transfer.ReversalPolicy(cfg.ReversalPolicy), emailService)

	srv := server.New(cfg, server.Handlers{
		User:        user.NewHandler(userService),
		Ledger:      ledger.NewHandler(ledgerService),
		Reservation: reservation.NewHandler(reservationService),
		Transfer:    transfer.NewHandler(transferService),
	},
		server.Check{Name: "postgres", Ping: database.PingContext},
		server.Check{Name: "redis", Ping: emailService.Ping},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error { return emailService.Start(gctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		return
	}
	logger.Info("Server stopped")
}
