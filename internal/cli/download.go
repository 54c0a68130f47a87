package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ktnetscraper/ktnet/internal/download"
	"github.com/ktnetscraper/ktnet/internal/logger"
)

var (
	flagDownloadFormat string
	flagOverwrite      bool
)

func newDownloadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download the handouts of a day",
		Long: `Download the handout files of one timetable day into
<dir>/<unit>/<file name>. Files saved by an earlier run are skipped unless
--overwrite is given.

Examples:
  ktnet download --date 2024/04/01
  ktnet download --date 2024/04/01 --filter lesson_type=講義 --dir ~/handouts`,
		Args: cobra.NoArgs,
		RunE: runDownload,
	}

	addQueryFlags(cmd)
	cmd.Flags().String("dir", "", "Download directory (default ~/ktnet/handouts)")
	cmd.Flags().Int("retries", 0, "Retries per failed download (default 3)")
	cmd.Flags().BoolVar(&flagOverwrite, "overwrite", false, "Download files again even if already saved")
	cmd.Flags().StringVar(&flagDownloadFormat, "format", "text", "Output format: text or json")

	return cmd
}

func runDownload(cmd *cobra.Command, args []string) error {
	format, err := ParseFormat(flagDownloadFormat, FormatText, FormatJSON)
	if err != nil {
		return err
	}
	q, err := parseQuery()
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	saver, err := download.New(s.cfg.Download.Dir, s.client, download.Options{
		MaxRetries: s.cfg.Download.MaxRetries,
		Overwrite:  flagOverwrite,
	})
	if err != nil {
		return err
	}

	coll, err := s.client.FetchHandouts(cmd.Context(), q.date, flagFaculty, flagGrade)
	if err != nil {
		return fmt.Errorf("fetching handouts: %w", err)
	}

	// Only the filtered records are download targets
	coll.SetAllTargets(false)
	if err := coll.SetTargets(coll.Filter(q.criteria...), true); err != nil {
		return err
	}

	targets := len(coll.Targets())
	logger.Info("Downloading handouts", logger.Fields{"targets": targets, "dir": saver.Dir()})

	saved, saveErr := saver.SaveAll(cmd.Context(), coll)
	result := &DownloadResult{
		Date:    q.date.String(),
		Dir:     saver.Dir(),
		Targets: targets,
		Saved:   saved,
	}
	if saved == nil {
		result.Saved = []string{}
	}
	for _, e := range unjoin(saveErr) {
		result.Errors = append(result.Errors, e.Error())
	}

	if err := WriteDownload(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if saveErr != nil {
		return fmt.Errorf("%d of %d downloads failed", len(result.Errors), targets)
	}
	return nil
}

// unjoin splits an errors.Join result back into its parts.
func unjoin(err error) []error {
	if err == nil {
		return nil
	}
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

