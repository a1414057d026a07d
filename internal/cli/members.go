package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/teamboard/core/internal/client"
)

func membersCommand(api func() *client.Client) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "members",
		Aliases: []string{"member", "team"},
		Short:   "Show the team dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			members, err := api().ListMembers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDashboard(members))
			return nil
		},
	}

	cmd.AddCommand(
		memberGetCommand(api),
		memberCreateCommand(api),
		memberEditCommand(api),
		memberDeleteCommand(api),
	)
	return cmd
}

func memberGetCommand(api func() *client.Client) *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show one member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			m, err := api().GetMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderMemberCard(*m))
			return nil
		},
	}
}

// memberFlags binds the editable member fields to a command.
type memberFlags struct {
	in     client.MemberInput
	skills []string
}

func (f *memberFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.in.Name, "name", "", "full name")
	fs.StringVar(&f.in.Role, "role", "", "role in the team")
	fs.StringVar(&f.in.Avatar, "avatar", "", "avatar URL")
	fs.StringVar(&f.in.Email, "email", "", "email address")
	fs.StringVar(&f.in.Phone, "phone", "", "phone number")
	fs.StringVar(&f.in.Github, "github", "", "GitHub profile URL")
	fs.StringVar(&f.in.Linkedin, "linkedin", "", "LinkedIn profile URL")
	fs.StringArrayVar(&f.skills, "skill", nil, `skill as "name:proficiency", repeatable; --skill "" clears all skills`)
}

// apply copies the flags that were set on cmd over base.
func (f *memberFlags) apply(cmd *cobra.Command, base client.MemberInput) client.MemberInput {
	fs := cmd.Flags()
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("name", &base.Name, f.in.Name)
	set("role", &base.Role, f.in.Role)
	set("avatar", &base.Avatar, f.in.Avatar)
	set("email", &base.Email, f.in.Email)
	set("phone", &base.Phone, f.in.Phone)
	set("github", &base.Github, f.in.Github)
	set("linkedin", &base.Linkedin, f.in.Linkedin)
	if fs.Changed("skill") {
		base.Skills = parseSkills(f.skills)
	}
	return base
}

func memberCreateCommand(api func() *client.Client) *cobra.Command {
	var flags memberFlags
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a team member",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := flags.apply(cmd, client.MemberInput{})
			if strings.TrimSpace(in.Name) == "" {
				return &client.FieldError{Field: "name", Message: "is required"}
			}
			if strings.TrimSpace(in.Email) == "" {
				return &client.FieldError{Field: "email", Message: "is required"}
			}
			m, err := api().CreateMember(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created member #%d %s", m.ID, m.Name)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func memberEditCommand(api func() *client.Client) *cobra.Command {
	var flags memberFlags
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a team member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c := api()
			current, err := c.GetMember(cmd.Context(), id)
			if err != nil {
				return err
			}
			in := flags.apply(cmd, client.MemberInput{
				Name:     current.Name,
				Role:     current.Role,
				Avatar:   current.Avatar,
				Email:    current.Email,
				Phone:    current.Phone,
				Github:   current.Github,
				Linkedin: current.Linkedin,
			})
			m, err := c.UpdateMember(cmd.Context(), id, in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated member #%d %s", m.ID, m.Name)))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func memberDeleteCommand(api func() *client.Client) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a team member",
		Long:    "Delete a team member. Their skills are removed and their projects become unassigned.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(cmd, fmt.Sprintf("Delete member #%d?", id)) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
			if err := api().DeleteMember(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted member #%d", id)))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func parseSkills(raw []string) []client.Skill {
	out := make([]client.Skill, 0, len(raw))
	for _, item := range raw {
		name, level, _ := strings.Cut(item, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		out = append(out, client.Skill{SkillName: name, Proficiency: strings.TrimSpace(level)})
	}
	return out
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func renderDashboard(members []client.Member) string {
	var projects int64
	for _, m := range members {
		projects += m.ProjectCount
	}
	header := headerStyle.Render(fmt.Sprintf("Team · %d members · %d projects", len(members), projects))
	if len(members) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, header, mutedStyle.Render("No members yet"))
	}

	cards := make([]string, 0, len(members))
	for _, m := range members {
		cards = append(cards, renderMemberCard(m))
	}
	return lipgloss.JoinVertical(lipgloss.Left, append([]string{header}, cards...)...)
}

func renderMemberCard(m client.Member) string {
	lines := []string{titleStyle.Render(fmt.Sprintf("#%d %s", m.ID, m.Name))}
	if m.Role != "" {
		lines = append(lines, mutedStyle.Render(m.Role))
	}
	lines = append(lines, joinNonEmpty(" · ", m.Email, m.Phone))
	if links := joinNonEmpty(" · ", m.Github, m.Linkedin); links != "" {
		lines = append(lines, links)
	}
	if len(m.Skills) > 0 {
		badges := make([]string, 0, len(m.Skills))
		for _, s := range m.Skills {
			label := s.SkillName
			if s.Proficiency != "" {
				label += " (" + s.Proficiency + ")"
			}
			badges = append(badges, skillStyle.Render(label))
		}
		lines = append(lines, strings.Join(badges, " "))
	}
	lines = append(lines, mutedStyle.Render(plural(m.ProjectCount, "project")))
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func plural(n int64, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
