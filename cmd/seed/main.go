package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"jobboard/internal/repository/sqlite"
	"jobboard/internal/seed"
)

type CLI struct {
	Database      string `help:"SQLite database path." default:"data/jobboard.db" env:"JOBBOARD_DATABASE_PATH"`
	Companies     int    `help:"Companies to create." default:"10"`
	Candidates    int    `help:"Candidates to create." default:"500"`
	Jobs          int    `help:"Jobs to create." default:"1000"`
	MaxAppsPerJob int    `help:"Upper bound of applications per job." default:"10"`
	Password      string `help:"Password shared by every seeded user." default:"@T3star123"`
	Seed          uint64 `help:"Random seed; 0 picks one."`
	BcryptCost    int    `help:"bcrypt cost for the shared password." default:"10" env:"JOBBOARD_AUTH_BCRYPTCOST"`
	Verbose       bool   `help:"Enable debug logging." short:"v"`
}

func (c *CLI) Run(ctx context.Context, logger *logrus.Logger) error {
	if c.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	db, err := sqlite.Open(c.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	users := sqlite.NewUserRepository(db)
	companies := sqlite.NewCompanyRepository(db)
	candidates := sqlite.NewCandidateRepository(db)
	jobs := sqlite.NewJobRepository(db)
	apps := sqlite.NewApplicationRepository(db)
	exports := sqlite.NewExportRepository(db)
	if err := sqlite.InitAll(ctx, users, companies, candidates, jobs, apps, exports); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}

	logger.Info("populating database, this may take a few minutes")
	res, err := seed.New(seed.Config{
		Companies:     c.Companies,
		Candidates:    c.Candidates,
		Jobs:          c.Jobs,
		MaxAppsPerJob: c.MaxAppsPerJob,
		Password:      c.Password,
		Seed:          c.Seed,
		BcryptCost:    c.BcryptCost,
	}, seed.Stores{
		Accounts:     sqlite.NewAccountRepository(db),
		Jobs:         jobs,
		Applications: apps,
	}, logger).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Done: %d companies, %d candidates, %d jobs, %d applications.\n",
		res.Companies, res.Candidates, res.Jobs, res.Applications)
	fmt.Printf("Log in as a company -> email: %s / password: %s\n", res.LoginEmail, res.Password)
	return nil
}

func main() {
	_ = godotenv.Load()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("seed"),
		kong.Description("Populate the job board database with fake data."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(logger); err != nil {
		logger.Errorf("seed: %v", err)
		os.Exit(1)
	}
}
