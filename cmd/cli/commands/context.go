package commands

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/duty-planner/internal/config"
	"github.com/jakechorley/duty-planner/pkg/clients/sheetsclient"
	"github.com/jakechorley/duty-planner/pkg/core/calendar"
	"github.com/jakechorley/duty-planner/pkg/core/holidays"
	"github.com/jakechorley/duty-planner/pkg/core/services"
	"github.com/jakechorley/duty-planner/pkg/db"
)

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env          string
	Cfg          *config.Config
	SheetsClient *sheetsclient.Client
	StaffSource  services.StaffSource
	Sinks        []services.ReportSink
	Holidays     holidays.Calendar
	Database     db.HistoryStore // nil when no databaseURL is configured
	Logger       *zap.Logger
	Ctx          context.Context
}

// parseMonth reads a YYYY-MM flag value; empty means the current month
func parseMonth(value string) (int, time.Month, error) {
	if value == "" {
		now := time.Now()
		return now.Year(), now.Month(), nil
	}
	return calendar.ParseMonth(value)
}
