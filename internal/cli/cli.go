// Package cli implements the teamctl command line client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/teamboard/core/internal/client"
)

const (
	defaultAPIURL = "http://localhost:5000/api"
	apiURLEnv     = "TEAMBOARD_API_URL"
)

// RootCommand returns the teamctl root command.
func RootCommand() *cobra.Command {
	var apiURL string

	rootCmd := &cobra.Command{
		Use:           "teamctl",
		Short:         "Manage team members and projects",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", envOr(apiURLEnv, defaultAPIURL), "API base URL ($"+apiURLEnv+")")

	api := func() *client.Client { return client.New(apiURL, nil) }

	rootCmd.AddCommand(
		membersCommand(api),
		projectsCommand(api),
		statsCommand(api),
		healthCommand(api),
	)
	return rootCmd
}

// Execute runs the root command and reports failures on stderr. It returns
// the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := RootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, errorStyle.Render("Error:")+" "+describe(err))
		return 1
	}
	return 0
}

func describe(err error) string {
	var fe *client.FieldError
	if errors.As(err, &fe) {
		return fmt.Sprintf("--%s %s", strings.ReplaceAll(fe.Field, "_", "-"), fe.Message)
	}
	return err.Error()
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// confirm asks a yes/no question on the command's streams. Anything other
// than y or yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", question)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
