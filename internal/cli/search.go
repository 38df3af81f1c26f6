package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/esdsl/internal/ir"
	"github.com/roach88/esdsl/internal/loader"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	*RootOptions
	Database string
	Index    string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "search <query-file>",
		Short: "Run a query against the local store",
		Long: `Run a query file against documents indexed in a local SQLite store.

Hits are ordered by document id. Scoring is not modeled: boost values are
ignored and each hit lists the named clauses it matched instead.

Example:
  esdsl search --db ./esdsl.db --index people ./adults.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Index, "index", "", "index name (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func runSearch(opts *SearchOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	log := opts.logger()

	req, err := loader.LoadQuery(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	st, err := openStore(opts.RootOptions, opts.Database, nil)
	if err != nil {
		return formatter.Fail(ErrCodeStoreOpen, fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	res, err := st.Search(commandContext(cmd), opts.Index, req)
	if err != nil {
		return formatter.Fail(ErrCodeSearch, err.Error(), err)
	}
	log.Debug("search complete", "index", opts.Index, "total", res.Total, "hits", len(res.Hits))

	if formatter.Format == "json" {
		return formatter.Success(res)
	}

	fmt.Fprintf(formatter.Writer, "%d hit(s), %d total\n", len(res.Hits), res.Total)
	for _, hit := range res.Hits {
		source, err := ir.MarshalSorted(hit.Source)
		if err != nil {
			return formatter.Fail(ErrCodeSearch, fmt.Sprintf("rendering hit %s: %v", hit.ID, err), err)
		}
		line := fmt.Sprintf("  %s %s", hit.ID, source)
		if len(hit.MatchedQueries) > 0 {
			line += fmt.Sprintf(" [%s]", strings.Join(hit.MatchedQueries, ", "))
		}
		fmt.Fprintln(formatter.Writer, line)
	}
	return nil
}

// commandContext returns the command's context, or Background when the
// command was executed without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
