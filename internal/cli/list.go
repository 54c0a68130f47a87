package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ktnetscraper/ktnet/internal/handout"
	"github.com/ktnetscraper/ktnet/internal/kttime"
	"github.com/ktnetscraper/ktnet/internal/logger"
	"github.com/ktnetscraper/ktnet/internal/portal"
)

var (
	flagDate     string
	flagFaculty  string
	flagGrade    string
	flagFormat   string
	flagFields   string
	flagSort     string
	flagFilters  []string
	flagSeparate bool
)

// addQueryFlags registers the flags that select a timetable.
func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagDate, "date", "", "Timetable date, YYYY/MM/DD or YYYYMMDD (default today)")
	cmd.Flags().StringVar(&flagFaculty, "faculty", "", "Faculty code (M, N, K or D); requires --grade")
	cmd.Flags().StringVar(&flagGrade, "grade", "", "Grade; requires --faculty")
	cmd.Flags().StringArrayVar(&flagFilters, "filter", nil, "Keep handouts whose field matches, e.g. unit=A,B (repeatable, AND-ed)")
}

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the handouts of a day",
		Long: `List the handouts attached to the lessons of one timetable day.

Examples:
  ktnet list --date 2024/04/01
  ktnet list --date 20240401 --fields date,period,unit,name --sort period,-name
  ktnet list --filter unit=ユニットA --format table
  ktnet list --faculty N --grade 3 --format json`,
		Args: cobra.NoArgs,
		RunE: runList,
	}

	addQueryFlags(cmd)
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text, table or json")
	cmd.Flags().StringVar(&flagFields, "fields", "", "Comma-separated fields to show, or 'all'")
	cmd.Flags().StringVar(&flagSort, "sort", "", "Comma-separated sort keys; prefix '-' for descending (default date,period,name)")
	cmd.Flags().BoolVar(&flagSeparate, "separate", false, "Separate text columns with ' | '")

	return cmd
}

// query is a parsed timetable selection plus filter.
type query struct {
	date     kttime.CalendarDate
	criteria handout.Criteria
}

func parseQuery() (*query, error) {
	if (flagFaculty == "") != (flagGrade == "") {
		return nil, fmt.Errorf("--faculty %q, --grade %q: %w", flagFaculty, flagGrade, portal.ErrIncompleteArgument)
	}
	date, err := parseDate(flagDate)
	if err != nil {
		return nil, err
	}
	criteria, err := handout.ParseCriteria(flagFilters)
	if err != nil {
		return nil, fmt.Errorf("invalid --filter: %w", err)
	}
	return &query{date: date, criteria: criteria}, nil
}

func runList(cmd *cobra.Command, args []string) error {
	// Validate everything before logging in
	format, err := ParseFormat(flagFormat, FormatText, FormatTable, FormatJSON)
	if err != nil {
		return err
	}
	fields, err := handout.ParseFields(flagFields)
	if err != nil {
		return fmt.Errorf("invalid --fields: %w", err)
	}
	keys, err := handout.ParseSortKeys(flagSort)
	if err != nil {
		return fmt.Errorf("invalid --sort: %w", err)
	}
	q, err := parseQuery()
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	started := time.Now()
	coll, err := s.client.FetchHandouts(cmd.Context(), q.date, flagFaculty, flagGrade)
	if err != nil {
		return fmt.Errorf("fetching handouts: %w", err)
	}
	logger.RecordTiming("cli.list", time.Since(started))

	coll.Sort(keys...)
	records, err := coll.Copy(coll.Filter(q.criteria...))
	if err != nil {
		return err
	}

	result := &ListResult{
		Date:     q.date.String(),
		Faculty:  flagFaculty,
		Grade:    flagGrade,
		Count:    len(records),
		Handouts: records,
	}
	if !q.criteria.IsEmpty() {
		result.Filter = q.criteria.String()
	}

	view := ListView{Fields: fields, Separate: flagSeparate, Header: coll.Header}
	if err := WriteList(cmd.OutOrStdout(), result, format, view); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
