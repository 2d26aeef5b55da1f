package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-planner/pkg/core/holidays"
	"github.com/jakechorley/duty-planner/pkg/core/services"
)

// ShowWeightsCmd creates the showWeights command
func ShowWeightsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "showWeights",
		Short: "Show the point weight of every day of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")
			holidayFlag, _ := cmd.Flags().GetString("holidays")

			year, month, err := parseMonth(monthFlag)
			if err != nil {
				return err
			}

			cal := holidays.Union{app.Holidays}
			if holidayFlag != "" {
				static, warnings := holidays.ParseDayList(holidayFlag, app.Logger)
				for _, w := range warnings {
					fmt.Printf("⚠️  %s\n", w)
				}
				cal = append(cal, holidays.MonthOnly{Year: year, Month: month, Calendar: static})
			}

			var lastDayIsEve *bool
			if cmd.Flags().Changed("last-day-eve") {
				eve, _ := cmd.Flags().GetBool("last-day-eve")
				lastDayIsEve = &eve
			}

			plan, err := services.ResolveMonth(cal, year, month, lastDayIsEve, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nDay weights for %s\n\n", plan.Key())
			for _, d := range plan.Days {
				fmt.Printf("  %s  %-3s  %-12s %s\n",
					d.Date.Format("2006-01-02"),
					d.Date.Format("Mon"),
					d.Class,
					d.Points)
			}
			fmt.Printf("\nHolidays: %v\n", plan.HolidayDays())
			if plan.EveDerived {
				fmt.Printf("Last day is eve: %t (from next month's holidays)\n", plan.LastDayIsEve)
			} else {
				fmt.Printf("Last day is eve: %t\n", plan.LastDayIsEve)
			}
			fmt.Printf("Total points: %s\n\n", plan.TotalPoints)

			return nil
		},
	}

	cmd.Flags().String("month", "", "Month as YYYY-MM (defaults to the current month)")
	cmd.Flags().String("holidays", "", "Extra public holidays as day numbers, e.g. 5/19")
	cmd.Flags().Bool("last-day-eve", false, "Treat the last day of the month as a holiday eve")

	return cmd
}
