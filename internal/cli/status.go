package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagStatusFormat string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Log in and show the session status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}

	cmd.Flags().StringVar(&flagStatusFormat, "format", "text", "Output format: text or json")
	return cmd
}

func runStatus(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagStatusFormat, FormatText, FormatJSON)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	ok, err := s.client.LoginStatus(cmd.Context())
	if err != nil {
		return fmt.Errorf("checking login status: %w", err)
	}

	result := &StatusResult{
		User:     s.cfg.Portal.UserID,
		LoggedIn: ok,
		BaseURL:  s.cfg.Portal.BaseURL,
	}
	if ok {
		result.Faculty, result.Grade, err = s.client.FacultyAndGrade(cmd.Context())
		if err != nil {
			return fmt.Errorf("reading faculty and grade: %w", err)
		}
	}

	return WriteStatus(cmd.OutOrStdout(), result, format)
}
