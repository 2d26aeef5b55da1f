package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakechorley/duty-planner/pkg/core/services"
)

// ListStaffCmd creates the listStaff command
func ListStaffCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listStaff",
		Short: "List the staff sheet as the planner reads it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			staff, diags, err := services.LoadStaff(app.Ctx, app.StaffSource, app.Logger)
			if err != nil {
				return err
			}

			fmt.Printf("\nFound %d staff:\n\n", len(staff))
			for _, p := range staff {
				status := "available"
				switch {
				case p.IsFrozen():
					status = "frozen"
				case len(p.Availability.BlockedDays()) > 0:
					status = "blocked on " + p.Availability.String()
				}
				fmt.Printf("- %-28s score %-8s %s\n", p.DisplayName(), p.CarriedScore.String(), status)
			}

			if len(diags) > 0 {
				fmt.Printf("\n⚠️  %d warning(s):\n", len(diags))
				for _, d := range diags {
					fmt.Printf("  %s\n", d)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
