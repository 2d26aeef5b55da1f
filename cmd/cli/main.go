package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/cmd/cli/commands"
	"github.com/jakechorley/duty-planner/internal/config"
	"github.com/jakechorley/duty-planner/pkg/clients/gmailclient"
	"github.com/jakechorley/duty-planner/pkg/clients/icsexport"
	"github.com/jakechorley/duty-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/duty-planner/pkg/clients/workbook"
	"github.com/jakechorley/duty-planner/pkg/core/holidays"
	"github.com/jakechorley/duty-planner/pkg/core/services"
	"github.com/jakechorley/duty-planner/pkg/postgres"
	"github.com/jakechorley/duty-planner/pkg/utils/logging"
)

var (
	env     string
	logDir  string
	verbose bool
	app     = &commands.AppContext{}
	pgDB    *postgres.DB
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "duty-planner",
		Short: "Duty Planner CLI - Plan fair monthly duty rosters",
		Long: `A CLI tool that assigns one person to every day of a month, spreading
weighted duty points fairly across staff and carrying scores between months.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pgDB != nil {
				pgDB.Close()
			}
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", logging.DefaultDir, "Directory for JSON log files")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to the console")
	rootCmd.MarkPersistentFlagRequired("env")

	rootCmd.AddCommand(commands.PlanRosterCmd(app))
	rootCmd.AddCommand(commands.ShowWeightsCmd(app))
	rootCmd.AddCommand(commands.ListStaffCmd(app))
	rootCmd.AddCommand(commands.HistoryCmd(app))
	rootCmd.AddCommand(commands.ViewRunCmd(app))
	rootCmd.AddCommand(commands.InteractiveCmd(app))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, staff source, report sinks, holidays and database
func initApp() error {
	var err error
	app.Env = env
	app.Ctx = context.Background()

	// Initialize logger
	app.Logger, err = logging.InitLogger(env, logging.Options{Dir: logDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	app.Logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	app.Logger.Debug("Loading configuration")
	app.Cfg, err = config.LoadWithEnv(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := app.Cfg
	app.Logger.Debug("Configuration loaded successfully")

	// Initialize sheets client when any Google spreadsheet is referenced
	if cfg.StaffSpreadsheetID != "" || cfg.OutputSpreadsheetID != "" {
		app.Logger.Debug("Initializing sheets client")
		app.SheetsClient, err = sheetsclient.NewClient(app.Ctx, cfg.CredentialsFile)
		if err != nil {
			return fmt.Errorf("failed to create sheets client: %w", err)
		}
	}

	// Staff source
	if cfg.StaffSpreadsheetID != "" {
		app.StaffSource = &sheetsclient.StaffSource{
			Client:        app.SheetsClient,
			SpreadsheetID: cfg.StaffSpreadsheetID,
			Range:         cfg.StaffRange,
			Columns:       cfg.Columns,
		}
	} else {
		app.StaffSource = &workbook.Source{
			Path:    cfg.StaffWorkbook,
			Sheet:   cfg.StaffSheet,
			Columns: cfg.Columns,
		}
	}

	// Report sinks, the workbook is always written
	app.Sinks = []services.ReportSink{&workbook.Sink{Path: cfg.OutputWorkbook}}
	if cfg.OutputSpreadsheetID != "" {
		app.Sinks = append(app.Sinks, &sheetsclient.ReportSink{Client: app.SheetsClient, SpreadsheetID: cfg.OutputSpreadsheetID})
	}
	if cfg.CalendarExport != "" {
		app.Sinks = append(app.Sinks, &icsexport.Sink{Path: cfg.CalendarExport})
	}
	if cfg.Notify != nil {
		gmailClient, err := gmailclient.NewClient(app.Ctx, cfg.CredentialsFile, cfg.Notify.Sender)
		if err != nil {
			return fmt.Errorf("failed to create gmail client: %w", err)
		}
		app.Sinks = append(app.Sinks, &gmailclient.RosterNotifier{Mailer: gmailClient, Recipients: cfg.Notify.Recipients})
	}

	// Holidays
	app.Holidays, err = loadHolidays(cfg, app.Logger)
	if err != nil {
		return err
	}

	// Initialize database
	if cfg.DatabaseURL != "" {
		app.Logger.Debug("Connecting to database")
		pgDB, err = postgres.NewDB(app.Ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := pgDB.RunMigrations(app.Ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		app.Database = pgDB
		app.Logger.Debug("Database initialized successfully")
	}

	return nil
}

func loadHolidays(cfg *config.Config, logger *zap.Logger) (holidays.Calendar, error) {
	rules := make([]holidays.Rule, len(cfg.Holidays))
	for i, h := range cfg.Holidays {
		rules[i] = holidays.Rule{Name: h.Name, RRule: h.RRule}
	}
	ruleCal, err := holidays.NewRuleCalendar(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to load holiday rules: %w", err)
	}
	cal := holidays.Union{ruleCal}

	if cfg.HolidayCalendar != "" {
		f, err := os.Open(cfg.HolidayCalendar)
		if err != nil {
			return nil, fmt.Errorf("failed to open holiday calendar: %w", err)
		}
		defer f.Close()

		icsCal, err := holidays.ParseICS(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday calendar %s: %w", cfg.HolidayCalendar, err)
		}
		logger.Debug("Loaded holiday calendar", zap.String("path", cfg.HolidayCalendar), zap.Int("events", icsCal.Len()))
		cal = append(cal, icsCal)
	}

	logger.Debug("Loaded holiday rules", zap.Int("rules", len(rules)))
	return cal, nil
}
