package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/esdsl/internal/loader"
	"github.com/roach88/esdsl/internal/store"
)

// IndexOptions holds flags for the index command.
type IndexOptions struct {
	*RootOptions
	Database string
	Index    string

	// IDGenerator overrides the id generator for documents without "_id"
	// (for testing). If nil, the store default is used.
	IDGenerator store.IDGenerator
}

// IndexResult is the JSON payload of the index command.
type IndexResult struct {
	Index string   `json:"index"`
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// NewIndexCommand creates the index command.
func NewIndexCommand(rootOpts *RootOptions) *cobra.Command {
	return newIndexCommand(&IndexOptions{RootOptions: rootOpts})
}

func newIndexCommand(opts *IndexOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index <docs-file>",
		Short: "Index documents into the local store",
		Long: `Index documents from a YAML, JSON or JSON lines file into a local
SQLite store, creating the database if it doesn't exist.

Documents with an "_id" key are stored under that id and replace any
existing document; others receive a generated id.

Example:
  esdsl index --db ./esdsl.db --index people ./people.jsonl`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.Index, "index", "", "index name (required)")
	_ = cmd.MarkFlagRequired("db")
	_ = cmd.MarkFlagRequired("index")

	return cmd
}

func runIndex(opts *IndexOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	log := opts.logger()

	docs, err := loader.LoadDocuments(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	log.Debug("loaded documents", "path", path, "count", len(docs))

	st, err := openStore(opts.RootOptions, opts.Database, opts.IDGenerator)
	if err != nil {
		return formatter.Fail(ErrCodeStoreOpen, fmt.Sprintf("opening database: %v", err), err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	ids := make([]string, 0, len(docs))
	for i, doc := range docs {
		id, err := st.Index(commandContext(cmd), opts.Index, doc)
		if err != nil {
			return formatter.Fail(ErrCodeIndexFailed, fmt.Sprintf("document %d: %v", i, err), err)
		}
		ids = append(ids, id)
	}

	if formatter.Format == "json" {
		return formatter.Success(IndexResult{Index: opts.Index, Count: len(ids), IDs: ids})
	}
	fmt.Fprintf(formatter.Writer, "✓ Indexed %d document(s) into %s\n", len(ids), opts.Index)
	return nil
}

// openStore opens the database with the command logger and an optional
// id generator override.
func openStore(opts *RootOptions, path string, ids store.IDGenerator) (*store.Store, error) {
	storeOpts := []store.Option{store.WithLogger(opts.logger())}
	if ids != nil {
		storeOpts = append(storeOpts, store.WithIDGenerator(ids))
	}
	return store.Open(path, storeOpts...)
}
