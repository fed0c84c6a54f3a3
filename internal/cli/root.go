// Package cli implements the auctions command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msomdec/auction-house/internal/config"
	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/repository/sqlite"
	"github.com/msomdec/auction-house/internal/service"
)

// RootOptions holds global flags and the configuration loaded from them.
type RootOptions struct {
	EnvFile string

	cfg *config.Config
}

// NewRootCommand creates the root command for the auctions CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "auctions",
		Short: "Online auction house",
		Long: `An online auction house: users list items, bid on them, comment,
keep a watchlist and close auctions to declare a winner.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg

			logOpts := &slog.HandlerOptions{Level: cfg.LogLevel}
			slog.SetDefault(slog.New(slog.NewMultiHandler(
				slog.NewTextHandler(cmd.OutOrStdout(), logOpts),
				slog.NewJSONHandler(cmd.ErrOrStderr(), logOpts),
			)))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load (default .env if present)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewCategoryCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

// config returns the configuration loaded by the root pre-run hook.
func (o *RootOptions) config() (*config.Config, error) {
	if o.cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return o.cfg, nil
}

// openDB opens the configured database and applies pending migrations.
func openDB(ctx context.Context, cfg *config.Config) (*sqlite.DB, error) {
	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return db, nil
}

// newServices builds the services over db with the given category
// repository, which may be a cache in front of db.Categories().
func newServices(cfg *config.Config, db *sqlite.DB, categories domain.CategoryRepository) (*service.AuthService, *service.AuctionService) {
	auth := service.NewAuthService(db.Users(), cfg.JWTSecret, cfg.BcryptCost)
	auction := service.NewAuctionService(db.Listings(), db.Bids(), db.Comments(), categories, db.Users(), cfg.CloseRequiresAuthor)
	return auth, auction
}
