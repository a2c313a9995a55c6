package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/palatebot/palate/bot"
	"github.com/palatebot/palate/internal/profile"
	"github.com/palatebot/palate/server"
	"github.com/palatebot/palate/store"
	"github.com/palatebot/palate/store/db"
)

const version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:   "palate",
		Short: "A Telegram bot that collects food preferences through a Mini App",
		RunE: func(_ *cobra.Command, _ []string) error {
			instanceProfile := &profile.Profile{
				Mode:    viper.GetString("mode"),
				Addr:    viper.GetString("addr"),
				Port:    viper.GetInt("port"),
				Data:    viper.GetString("data"),
				Driver:  viper.GetString("driver"),
				DSN:     viper.GetString("dsn"),
				Version: version,
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				return err
			}
			return run(instanceProfile)
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8231)
	viper.SetDefault("driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the http server")
	rootCmd.PersistentFlags().Int("port", 8231, "binding port for the http server")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database connection string")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}

	viper.SetEnvPrefix("palate")
	viper.AutomaticEnv()
}

func run(instanceProfile *profile.Profile) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	driver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return fmt.Errorf("failed to create db driver: %w", err)
	}

	st := store.New(driver, instanceProfile)
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	tgBot, err := bot.New(instanceProfile, st)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	httpServer := server.NewServer(instanceProfile, st)

	slog.Info("palate started",
		slog.String("version", version),
		slog.String("mode", instanceProfile.Mode),
		slog.String("driver", instanceProfile.Driver),
		slog.Int("port", instanceProfile.Port),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return tgBot.Start(ctx) })
	g.Go(func() error { return httpServer.Start(ctx) })

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("palate stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
