package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmFresh/config"
	"farmFresh/entities"
	"farmFresh/handlers"
	"farmFresh/logging"
	"farmFresh/notify"
	"farmFresh/repository"
	"farmFresh/services"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	configPath  string
	addr        string
	guardPolicy string
	verbose     bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "farmfresh",
	Short:         "Farm-to-table storefront service",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if addr != "" {
			cfg.HTTP.Addr = addr
		}
		if guardPolicy != "" {
			cfg.Guard.Policy = guardPolicy
		}
		if err = cfg.Validate(); err != nil {
			return err
		}
		logger, err = logging.New(logging.Options{
			Service: "farmfresh",
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			Verbose: verbose,
		})
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

var catalogCategory string

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the seeded product catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		prods, err := repository.LoadCatalogSeed()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, p := range prods {
			if catalogCategory != "" && catalogCategory != services.AllCategories && string(p.Category) != catalogCategory {
				continue
			}
			fmt.Fprintf(out, "%-4s %-24s %-10s %6s/%-6s %s\n", p.Id, p.Name, p.Category, p.Price.StringFixed(2), p.Unit, p.FarmName)
		}
		return nil
	},
}

var (
	soilType string
	soilPH   float64
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List crops suited to a soil type and pH",
	RunE: func(cmd *cobra.Command, args []string) error {
		soil := entities.SoilData{SoilType: entities.SoilType(soilType), PH: soilPH}
		if !soil.SoilType.Valid() {
			return fmt.Errorf("unknown soil type %q", soilType)
		}
		out := cmd.OutOrStdout()
		for _, rec := range services.Recommend(soil) {
			fmt.Fprintf(out, "%-16s %-6s %s\n", rec.Name, rec.Suitability, rec.Description)
		}
		return nil
	},
}

var (
	guardPath string
	guardRole string
)

var guardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Evaluate a navigation decision",
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := services.ParseGuardPolicy(cfg.Guard.Policy)
		if err != nil {
			return err
		}
		var user *entities.User
		if guardRole != "" {
			role := entities.Role(guardRole)
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", guardRole)
			}
			user = &entities.User{Role: role}
		}
		d := services.Decide(policy, user, guardPath)
		if d.Location != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Outcome, d.Location)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), d.Outcome)
		return nil
	},
}

var configOut string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Save(configOut); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), configOut)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "farmfresh.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&addr, "addr", "", "listen address, overrides http.addr")
	rootCmd.PersistentFlags().StringVar(&guardPolicy, "guard-policy", "", "strict or permissive, overrides guard.policy")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "only print this category")
	recommendCmd.Flags().StringVar(&soilType, "soil-type", "", "sandy, clay, loam, silt, peat or chalk")
	recommendCmd.Flags().Float64Var(&soilPH, "ph", 7, "soil pH")
	_ = recommendCmd.MarkFlagRequired("soil-type")
	guardCmd.Flags().StringVar(&guardPath, "path", "/", "requested path")
	guardCmd.Flags().StringVar(&guardRole, "role", "", "customer or farmer, empty for anonymous")

	configCmd.Flags().StringVarP(&configOut, "out", "o", "farmfresh.yaml", "file to write")

	rootCmd.AddCommand(serveCmd, catalogCmd, recommendCmd, guardCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initDB(ctx context.Context) (db *sql.DB, rdb *redis.Client, err error) {
	db, err = sql.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return
	}
	if cfg.Database.Driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}

	rdb = redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cncl := context.WithTimeout(ctx, 5*time.Second)
	defer cncl()
	if err = rdb.Ping(pingCtx).Err(); err != nil {
		db.Close()
		rdb.Close()
		err = fmt.Errorf("redis is not working: %w", err)
	}
	return
}

func newHandler(ctx context.Context, db *sql.DB, rdb *redis.Client) (*handlers.Handler, error) {
	policy, err := services.ParseGuardPolicy(cfg.Guard.Policy)
	if err != nil {
		return nil, err
	}

	pR, err := repository.NewProductRepository(db, logger)
	if err != nil {
		return nil, err
	}
	if err = pR.Migrate(ctx); err != nil {
		return nil, err
	}
	logger.Info("db connected", zap.String("driver", cfg.Database.Driver))
	catR, err := repository.NewCategoryRepository(db, logger)
	if err != nil {
		return nil, err
	}
	cartR, err := repository.NewCartRepository(ctx, rdb, cfg.CartTTL(), logger)
	if err != nil {
		return nil, err
	}
	sR, err := repository.NewSessionRepository(ctx, rdb, cfg.SessionTTL(), logger)
	if err != nil {
		return nil, err
	}
	fR, err := repository.NewFarmerRepository(ctx, rdb, cfg.FarmerTTL(), logger)
	if err != nil {
		return nil, err
	}
	logger.Info("redis connected", zap.String("addr", cfg.RedisAddr()))
	uR, err := repository.NewUserRepository(repository.DemoUsers(), cfg.Auth.BcryptCost, logger)
	if err != nil {
		return nil, err
	}

	n := notify.NewLogger(logger)
	crops := services.NewCropService(fR, n, logger)
	return handlers.NewHandler(handlers.HandlerParams{
		UsrService: services.NewUserService(uR, sR, n, logger, services.UserServiceParams{
			SessionTTL:      cfg.SessionTTL(),
			VerifyPasswords: cfg.Auth.VerifyPasswords,
		}),
		PrdService:    services.NewProductService(pR, logger),
		CrtService:    services.NewCartService(pR, cartR, n, logger),
		CatsService:   services.NewCategoryService(catR, logger),
		FarmerService: services.NewFarmerService(fR, crops, n, logger),
		CropService:   crops,
		Policy:        policy,
		Cookies: handlers.CookieConfig{
			SessionName: cfg.Session.CookieName,
			SessionTTL:  cfg.SessionTTL(),
			CartName:    cfg.Cart.CookieName,
			CartTTL:     cfg.CartTTL(),
		},
		HealthChecks: map[string]func(context.Context) error{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Log: logger,
	}), nil
}

func serve(ctx context.Context) error {
	db, rdb, err := initDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	defer rdb.Close()

	ha, err := newHandler(ctx, db, rdb)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handlers.NewRouter(ha),
		ReadHeaderTimeout: config.Duration(cfg.HTTP.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       config.Duration(cfg.HTTP.ReadTimeout, 15*time.Second),
		WriteTimeout:      config.Duration(cfg.HTTP.WriteTimeout, 15*time.Second),
		IdleTimeout:       config.Duration(cfg.HTTP.IdleTimeout, 60*time.Second),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", server.Addr), zap.String("guard", cfg.Guard.Policy))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.HTTP.ShutdownTimeout, 10*time.Second))
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
