package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/teamboard/core/internal/client"
)

func statsCommand(api func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show team and project statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := api().Stats(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			avg := "-"
			if s.AvgProgress != nil {
				avg = strconv.FormatFloat(*s.AvgProgress, 'f', -1, 64) + "%"
			}
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%s members · %s projects",
				humanize.Comma(s.TotalMembers), humanize.Comma(s.TotalProjects))))
			fmt.Fprintf(out, "%-12s %d\n", "Completed:", s.CompletedProjects)
			fmt.Fprintf(out, "%-12s %d\n", "Ongoing:", s.OngoingProjects)
			fmt.Fprintf(out, "%-12s %d\n", "Pending:", s.PendingProjects)
			fmt.Fprintf(out, "%-12s %d\n", "On hold:", s.OnHoldProjects)
			fmt.Fprintf(out, "%-12s %s\n\n", "Avg progress:", avg)

			if len(s.ProjectsByMember) == 0 {
				return nil
			}
			return tablewriter.Render(
				out,
				s.ProjectsByMember,
				[]string{"Member", "Projects", ""},
				func(m client.MemberCount) ([]string, error) {
					return []string{m.Name, humanize.Comma(m.ProjectCount), bar(m.ProjectCount, s.TotalProjects)}, nil
				},
			)
		},
	}
}

// bar draws n out of total as a ten cell gauge.
func bar(n, total int64) string {
	const width = 10
	filled := 0
	if total > 0 {
		filled = int(n * width / total)
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func healthCommand(api func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API and its dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := api().Health(cmd.Context())
			if h != nil {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%-9s %s (%s)\n", "Status:", h.Status, humanize.Time(h.Timestamp))
				fmt.Fprintf(out, "%-9s %s\n", "Database:", upDown(h.Database))
				if h.Redis != nil {
					fmt.Fprintf(out, "%-9s %s\n", "Redis:", upDown(*h.Redis))
				}
			}
			return err
		},
	}
}

func upDown(ok bool) string {
	if ok {
		return successStyle.Render("up")
	}
	return errorStyle.Render("down")
}
