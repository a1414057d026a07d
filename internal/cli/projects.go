package cli

import (
	"fmt"
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/teamboard/core/internal/client"
)

func projectsCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "projects",
		Aliases: []string{"project", "p"},
		Short:   "Manage projects",
	}

	cmd.AddCommand(
		projectListCommand(api),
		projectGetCommand(api),
		projectCreateCommand(api),
		projectEditCommand(api),
		projectDeleteCommand(api),
	)
	return cmd
}

func projectListCommand(api func() *client.Client) *cobra.Command {
	var (
		status string
		member uint
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			projects, err := api().ListProjects(cmd.Context(), client.ProjectFilter{Status: status, MemberID: member})
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				cmd.Println("No projects found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				projects,
				[]string{"ID", "Title", "Member", "Status", "Priority", "Progress", "Due", "Created"},
				func(p client.Project) ([]string, error) {
					return []string{
						strconv.FormatUint(uint64(p.ID), 10),
						p.Title,
						memberLabel(p),
						statusBadge(p.Status),
						string(p.Priority),
						strconv.Itoa(p.Progress) + "%",
						orDash(p.EndDate.String()),
						humanize.Time(p.CreatedAt),
					}, nil
				},
			)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "all", "filter by status (all, pending, in-progress, completed, on-hold)")
	cmd.Flags().UintVarP(&member, "member", "m", 0, "filter by member id")
	return cmd
}

func projectGetCommand(api func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			p, err := api().GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProject(*p))
			return nil
		},
	}
}

// registerFormFlags binds every ProjectForm field to a flag of the same name.
func registerFormFlags(cmd *cobra.Command, f *client.ProjectForm) {
	fs := cmd.Flags()
	fs.StringVar(&f.Title, "title", f.Title, "project title")
	fs.StringVar(&f.Description, "description", f.Description, "description")
	fs.StringVar(&f.MemberID, "member", f.MemberID, "id of the assigned member")
	fs.StringVar(&f.Status, "status", f.Status, "pending, in-progress, completed or on-hold")
	fs.StringVar(&f.Priority, "priority", f.Priority, "low, medium, high or urgent")
	fs.StringVar(&f.StartDate, "start-date", f.StartDate, "start date (YYYY-MM-DD)")
	fs.StringVar(&f.EndDate, "end-date", f.EndDate, "end date (YYYY-MM-DD)")
	fs.StringVar(&f.Progress, "progress", f.Progress, "progress 0-100")
	fs.StringVar(&f.Technologies, "technologies", f.Technologies, "comma separated list, e.g. \"Go, React\"")
	fs.StringVar(&f.GithubRepo, "github-repo", f.GithubRepo, "repository URL")
}

// mergeForm copies the form fields whose flags were set on cmd over base.
func mergeForm(cmd *cobra.Command, flags, base client.ProjectForm) client.ProjectForm {
	fs := cmd.Flags()
	for name, pair := range map[string][2]*string{
		"title":        {&base.Title, &flags.Title},
		"description":  {&base.Description, &flags.Description},
		"member":       {&base.MemberID, &flags.MemberID},
		"status":       {&base.Status, &flags.Status},
		"priority":     {&base.Priority, &flags.Priority},
		"start-date":   {&base.StartDate, &flags.StartDate},
		"end-date":     {&base.EndDate, &flags.EndDate},
		"progress":     {&base.Progress, &flags.Progress},
		"technologies": {&base.Technologies, &flags.Technologies},
		"github-repo":  {&base.GithubRepo, &flags.GithubRepo},
	} {
		if fs.Changed(name) {
			*pair[0] = *pair[1]
		}
	}
	return base
}

func projectCreateCommand(api func() *client.Client) *cobra.Command {
	form := client.NewProjectForm()
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := form.Input()
			if err != nil {
				return err
			}
			p, err := api().CreateProject(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created project #%d %s", p.ID, p.Title)))
			return nil
		},
	}
	registerFormFlags(cmd, &form)
	return cmd
}

func projectEditCommand(api func() *client.Client) *cobra.Command {
	var flags client.ProjectForm
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a project",
		Long:  "Edit a project. The form starts from the stored project and only the given flags change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := api()
			current, err := c.GetProject(cmd.Context(), id)
			if err != nil {
				return err
			}
			in, err := mergeForm(cmd, flags, client.FormFromProject(current)).Input()
			if err != nil {
				return err
			}
			p, err := c.UpdateProject(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated project #%d %s", p.ID, p.Title)))
			return nil
		},
	}
	registerFormFlags(cmd, &flags)
	return cmd
}

func projectDeleteCommand(api func() *client.Client) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, "Are you sure you want to delete this project?") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err := api().DeleteProject(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted project #%d", id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func renderProject(p client.Project) string {
	rows := [][2]string{
		{"Status", statusBadge(p.Status)},
		{"Priority", string(p.Priority)},
		{"Progress", strconv.Itoa(p.Progress) + "%"},
		{"Member", memberLabel(p)},
		{"Start", orDash(p.StartDate.String())},
		{"End", orDash(p.EndDate.String())},
		{"Stack", orDash(joinNonEmpty(", ", p.Technologies...))},
		{"Repo", orDash(p.GithubRepo)},
		{"Created", humanize.Time(p.CreatedAt)},
	}
	if p.MemberEmail != nil && *p.MemberEmail != "" {
		rows = append(rows, [2]string{"Contact", *p.MemberEmail})
	}

	out := titleStyle.Render(fmt.Sprintf("#%d %s", p.ID, p.Title)) + "\n"
	if p.Description != "" {
		out += mutedStyle.Render(p.Description) + "\n"
	}
	for _, r := range rows {
		out += fmt.Sprintf("%-9s %s\n", r[0]+":", r[1])
	}
	return out
}

func memberLabel(p client.Project) string {
	if p.MemberName == nil || *p.MemberName == "" {
		return "Unassigned"
	}
	return *p.MemberName
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
