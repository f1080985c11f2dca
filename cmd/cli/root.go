package main

import (
	"context"
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/sifan077/shortlink/config"
	"github.com/sifan077/shortlink/internal/app/codegen"
	appmodel "github.com/sifan077/shortlink/internal/app/model"
	apprepository "github.com/sifan077/shortlink/internal/app/repository"
	appservice "github.com/sifan077/shortlink/internal/app/service"
	"github.com/sifan077/shortlink/internal/infra/logger"
	infraPostgres "github.com/sifan077/shortlink/internal/infra/postgres"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// cliEnv is built once per invocation by the root command's pre-run hook.
type cliEnv struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *gorm.DB
	service appservice.LinkService
}

type rootOptions struct {
	sqlitePath string
	verbose    bool

	env *cliEnv
}

// cli pairs the root command with the resources its hooks open.
type cli struct {
	root *cobra.Command
	opts *rootOptions
}

func newCLI() *cli {
	opts := &rootOptions{}
	return &cli{root: newRootCmd(opts), opts: opts}
}

// Execute runs the command tree and always releases the database, including
// when a command or flag validation fails.
func (c *cli) Execute() (err error) {
	defer func() {
		if cerr := c.opts.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return c.root.Execute()
}

func newRootCmd(opts *rootOptions) *cobra.Command {

	root := &cobra.Command{
		Use:           "shortlink",
		Short:         "Manage short links from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			opts.env = env
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.sqlitePath, "sqlite", "", "use a local SQLite file instead of the configured Postgres")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newCreateCmd(opts),
		newListCmd(opts),
		newResolveCmd(opts),
		newMigrateCmd(opts),
	)
	return root
}

func (o *rootOptions) open(ctx context.Context) (*cliEnv, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log, err := logger.New(logger.Config{Development: true, Level: level, Encoding: "console", Name: "cli"})
	if err != nil {
		return nil, err
	}

	var db *gorm.DB
	if o.sqlitePath != "" {
		db, err = gorm.Open(sqlite.Open(o.sqlitePath), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			return nil, fmt.Errorf("open sqlite database: %w", err)
		}
	} else {
		db, err = infraPostgres.NewGorm(cfg.Postgres)
		if err != nil {
			return nil, err
		}
	}

	if err := infraPostgres.AutoMigrate(ctx, db, &appmodel.Link{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	generator, err := codegen.NewRandomGenerator(cfg.Links.CodeLength)
	if err != nil {
		return nil, err
	}

	svc := appservice.NewLinkService(appservice.LinkServiceDeps{
		Links:       apprepository.NewLinkRepository(db),
		Generator:   generator,
		Logger:      log,
		BaseURL:     cfg.App.BaseURL,
		MaxAttempts: cfg.Links.MaxAttempts,
	})

	return &cliEnv{cfg: cfg, log: log, db: db, service: svc}, nil
}

func (o *rootOptions) close() error {
	env := o.env
	if env == nil {
		return nil
	}
	o.env = nil

	_ = env.log.Sync()
	sqlDB, err := env.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
