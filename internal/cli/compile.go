package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/esdsl/internal/loader"
	"github.com/roach88/esdsl/internal/query"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompileResult is the JSON payload of the compile command.
type CompileResult struct {
	Query       json.RawMessage `json:"query"`
	Fingerprint string          `json:"fingerprint"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <query-file>",
		Short: "Compile a query file to canonical JSON",
		Long: `Compile a YAML, JSON or CUE query file to a canonical search request.

The file holds either a request ({"query": ..., "from": n, "size": n}) or a
bare clause. The output is canonical JSON plus its fingerprint; files that
describe the same query compile to identical bytes.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())
	log := opts.logger()

	log.Debug("loading query", "path", path)
	req, err := loader.LoadQuery(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	data, err := query.Marshal(req)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, fmt.Sprintf("rendering query: %v", err), err)
	}
	fingerprint, err := query.Fingerprint(req)
	if err != nil {
		return formatter.Fail(ErrCodeGeneric, err.Error(), err)
	}
	log.Debug("compiled query", "path", path, "fingerprint", fingerprint)

	// Write to file if --output specified
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0o644); err != nil {
			return formatter.Fail(ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(CompileResult{Query: data, Fingerprint: fingerprint})
	}

	fmt.Fprintln(formatter.Writer, string(data))
	fmt.Fprintf(formatter.Writer, "fingerprint: %s\n", fingerprint)
	if opts.Output != "" {
		fmt.Fprintf(formatter.Writer, "Wrote canonical query to %s\n", opts.Output)
	}
	return nil
}

// outputLoadError reports a loader error with its code and, in text mode,
// its CUE source position.
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *loader.LoadError
	if !errors.As(err, &loadErr) {
		return formatter.Fail(ErrCodeGeneric, err.Error(), err)
	}

	if formatter.Format != "json" && loadErr.Pos.IsValid() {
		fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
			loadErr.Pos.Filename(),
			loadErr.Pos.Line(),
			loadErr.Pos.Column())
	}
	message := loadErr.Message
	if loadErr.Path != "" {
		message = fmt.Sprintf("%s: %s", loadErr.Path, loadErr.Message)
	}
	return formatter.Fail(loadErr.Code, message, err)
}
