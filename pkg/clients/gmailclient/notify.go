package gmailclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/jakechorley/duty-planner/pkg/core/model"
)

// Mailer sends one email
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// RosterNotifier emails the planned roster to a fixed list of recipients
type RosterNotifier struct {
	Mailer     Mailer
	Recipients []string
}

// Name identifies the sink in logs
func (n *RosterNotifier) Name() string {
	return "gmail"
}

// PublishReport sends the roster summary to every recipient
func (n *RosterNotifier) PublishReport(ctx context.Context, report *model.Report) error {
	subject, body := RenderRosterEmail(report)
	for _, to := range n.Recipients {
		if err := n.Mailer.SendEmail(ctx, to, subject, body); err != nil {
			return err
		}
	}
	return nil
}

// RenderRosterEmail renders the schedule and next scores as plain text
func RenderRosterEmail(report *model.Report) (string, string) {
	subject := fmt.Sprintf("Duty roster for %s", report.Title())

	var b strings.Builder
	fmt.Fprintf(&b, "Duty roster for %s\n\n", report.Title())
	for _, row := range report.Schedule {
		assignee := row.AssignedTo
		if assignee == "" {
			assignee = "(unassigned)"
		}
		fmt.Fprintf(&b, "%s  %s (standby %s)\n", row.Date.Format("Mon 02 Jan"), assignee, row.Standby)
	}

	b.WriteString("\nScores to use next month:\n")
	for _, s := range report.Scores {
		fmt.Fprintf(&b, "%s: %s\n", s.Name, s.NextScore.String())
	}

	return subject, b.String()
}
