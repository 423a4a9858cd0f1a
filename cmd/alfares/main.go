package main

// ENTRY POINT

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"alfares-pricing/internal/config"
	"alfares-pricing/internal/documents"
	"alfares-pricing/internal/export"
	"alfares-pricing/internal/notify"
	"alfares-pricing/internal/overrides"
	"alfares-pricing/internal/pricing"
	"alfares-pricing/internal/server"
	"alfares-pricing/internal/storage"
	"alfares-pricing/pkg/logger"
	"alfares-pricing/pkg/redis"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	zapLogger, err := logger.New()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	root := &cobra.Command{
		Use:          "alfares",
		Short:        "Billboard rental pricing and quoting service",
		SilenceUsage: true,
	}
	root.AddCommand(
		serveCmd(zapLogger),
		migrateCmd(zapLogger),
		importCmd(zapLogger),
	)

	if err := root.Execute(); err != nil {
		zapLogger.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func serveCmd(zapLogger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the quoting HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(
				context.Background(),
				os.Interrupt,
				syscall.SIGTERM,
			)
			defer cancel()

			var cache *redis.Client
			if cfg.Redis.Addr != "" {
				cache = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
				defer cache.Close()
			}

			pg, err := storage.New(ctx, cfg.Database, cache, zapLogger)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer pg.Close()

			rows, err := pg.LoadPriceRows(ctx)
			if err != nil {
				return fmt.Errorf("load price table: %w", err)
			}
			table := pricing.NewTable(rows)
			zapLogger.Info("Price table loaded", zap.Int("rows", table.Len()))

			overrideStore := overrides.Load(cfg.Pricing.OverridesPath, zapLogger)
			extraCustomers := overrides.LoadCustomerList(cfg.Pricing.ExtraCustomersPath, zapLogger)
			customSizes := overrides.LoadSizeCatalog(cfg.Pricing.CustomSizesPath, zapLogger)

			resolver := pricing.NewResolver(table, overrideStore)

			docs := documents.NewBuilder(resolver, documents.CompanyInfo{
				Name:           cfg.Company.Name,
				Address:        cfg.Company.Address,
				Representative: cfg.Company.Representative,
				IBAN:           cfg.Company.IBAN,
			})

			exporter := export.NewExporter(resolver, cfg.ReportsDir, zapLogger)

			notifier, err := notify.New(cfg.Telegram.Token, cfg.Telegram.AdminChatIDs, zapLogger)
			if err != nil {
				return fmt.Errorf("init notifier: %w", err)
			}

			srv := server.New(server.Deps{
				Table:          table,
				Resolver:       resolver,
				Overrides:      overrideStore,
				ExtraCustomers: extraCustomers,
				CustomSizes:    customSizes,
				Catalog:        pg,
				Documents:      docs,
				Exporter:       exporter,
				Notifier:       notifier,
				Logger:         zapLogger,
			})

			if err := srv.Run(ctx, cfg.HTTPAddr); err != nil {
				return err
			}
			zapLogger.Info("Server shutdown gracefully")
			return nil
		},
	}
}

func migrateCmd(zapLogger *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|status]",
		Short: "Manage the database schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			pg, err := storage.New(ctx, cfg.Database, nil, zapLogger)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer pg.Close()

			switch args[0] {
			case "up":
				return storage.RunMigrations(ctx, pg.DB(), zapLogger)
			case "down":
				return storage.RollbackMigration(ctx, pg.DB(), zapLogger)
			case "status":
				return storage.MigrationStatus(ctx, pg.DB(), zapLogger)
			default:
				return fmt.Errorf("unknown migrate action: %s", args[0])
			}
		},
	}
	return cmd
}

func importCmd(zapLogger *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Load billboards and base prices from an authoring workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			result, err := export.ReadWorkbook(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			pg, err := storage.New(ctx, cfg.Database, nil, zapLogger)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			defer pg.Close()

			if len(result.Billboards) > 0 {
				if err := pg.UpsertBillboards(ctx, result.Billboards); err != nil {
					return fmt.Errorf("import billboards: %w", err)
				}
				zapLogger.Info("Billboards imported", zap.Int("count", len(result.Billboards)))
			}
			if len(result.PriceRows) > 0 {
				if err := pg.ReplacePriceRows(ctx, result.PriceRows); err != nil {
					return fmt.Errorf("import price rows: %w", err)
				}
				zapLogger.Info("Price rows imported", zap.Int("count", len(result.PriceRows)))
			}
			return nil
		},
	}
}
