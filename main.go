package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/GreekTheDev/mybudget/internal/config"
	"github.com/GreekTheDev/mybudget/internal/controllers"
	"github.com/GreekTheDev/mybudget/internal/events"
	"github.com/GreekTheDev/mybudget/internal/gateway/db"
	"github.com/GreekTheDev/mybudget/internal/router"
	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg := config.Load()

	// Create the data directory
	err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database
	gormDB, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	gw := db.New(gormDB, func(context.Context) string {
		return cfg.SessionUser
	})

	// Wire the stores and the refresh cascade
	bus := events.NewBus()
	accounts := store.NewAccountStore(gw, log.Logger, cfg.StoreTimeout)
	budgets := store.NewBudgetStore(gw, log.Logger, cfg.StoreTimeout)
	transactions := store.NewTransactionStore(gw, bus, accounts, budgets, log.Logger, cfg.StoreTimeout)
	goals := store.NewGoalStore(gw, log.Logger, cfg.StoreTimeout)
	subscriptions := store.NewSubscriptionStore(gw, accounts, log.Logger, cfg.StoreTimeout)
	store.BindRefresh(bus, accounts, budgets)

	// Initial load. Without a session the stores stay empty until one is
	// configured.
	ctx := context.Background()
	for _, load := range []func(context.Context) error{
		accounts.Load, budgets.Load, transactions.Load, goals.Load, subscriptions.Load,
	} {
		if err := load(ctx); err != nil {
			if errors.Is(err, store.ErrNoActiveSession) {
				log.Warn().Msg("no active session, set SESSION_USER to enable persistence")
				break
			}
			log.Fatal().Msg(err.Error())
		}
	}

	api := &controllers.API{
		Accounts:      accounts,
		Budgets:       budgets,
		Transactions:  transactions,
		Goals:         goals,
		Subscriptions: subscriptions,
	}

	r, err := router.Router(api)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	log.Info().Str("port", cfg.Port).Msg("backend startup complete")

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
