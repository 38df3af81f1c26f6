package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/esdsl/internal/query"
)

// RangeOptions holds flags for the range command.
type RangeOptions struct {
	*RootOptions
	Gt, Gte, Lt, Lte string
	From, To         string
	IncludeLower     bool
	IncludeUpper     bool
	TimeZone         string
	DateFormat       string
	Boost            float64
	Name             string
}

// RangeResult is the JSON payload of the range command.
type RangeResult struct {
	Query       json.RawMessage `json:"query"`
	Fingerprint string          `json:"fingerprint"`
}

// NewRangeCommand creates the range command.
func NewRangeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RangeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "range <field>",
		Short: "Build a range clause",
		Long: `Build a range clause for a field and print it as canonical JSON.

Modern bounds (--gt, --gte, --lt, --lte) and legacy bounds (--from, --to
with --include-lower/--include-upper) may be combined; no consistency
check is made between them.

Example:
  esdsl range age --gte 18 --lt 65
  esdsl range created --from 2020-01-01 --to 2020-12-31 --include-upper=false --date-format yyyy-MM-dd`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRange(opts, args[0], cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Gt, "gt", "", "exclusive lower bound")
	f.StringVar(&opts.Gte, "gte", "", "inclusive lower bound")
	f.StringVar(&opts.Lt, "lt", "", "exclusive upper bound")
	f.StringVar(&opts.Lte, "lte", "", "inclusive upper bound")
	f.StringVar(&opts.From, "from", "", "legacy lower bound")
	f.StringVar(&opts.To, "to", "", "legacy upper bound")
	f.BoolVar(&opts.IncludeLower, "include-lower", true, "whether --from is inclusive")
	f.BoolVar(&opts.IncludeUpper, "include-upper", true, "whether --to is inclusive")
	f.StringVar(&opts.TimeZone, "time-zone", "", "time zone for date bounds")
	f.StringVar(&opts.DateFormat, "date-format", "", "date format for date bounds")
	f.Float64Var(&opts.Boost, "boost", 1, "relevance boost (applied only when set)")
	f.StringVar(&opts.Name, "name", "", "query name reported in matched queries")

	return cmd
}

// BuildRange applies the flags given on the command line to a new range
// clause. Unset flags leave the clause untouched, so an explicit empty
// bound (--gt "") is kept.
func BuildRange(opts *RangeOptions, field string, cmd *cobra.Command) *query.Range {
	r := query.NewRange(field).
		TimeZone(opts.TimeZone).
		Format(opts.DateFormat).
		QueryName(opts.Name)

	changed := cmd.Flags().Changed
	bounds := []struct {
		flag  string
		value string
		set   func(string) *query.Range
	}{
		{"gt", opts.Gt, r.Gt},
		{"gte", opts.Gte, r.Gte},
		{"lt", opts.Lt, r.Lt},
		{"lte", opts.Lte, r.Lte},
		{"from", opts.From, r.From},
		{"to", opts.To, r.To},
	}
	for _, b := range bounds {
		if changed(b.flag) {
			b.set(b.value)
		}
	}

	if changed("include-lower") {
		r.IncludeLower(opts.IncludeLower)
	}
	if changed("include-upper") {
		r.IncludeUpper(opts.IncludeUpper)
	}
	if changed("boost") {
		r.Boost(opts.Boost)
	}
	return r
}

func runRange(opts *RangeOptions, field string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout())

	r := BuildRange(opts, field, cmd)
	data, err := query.Marshal(r)
	if err != nil {
		return formatter.Fail(ErrCodeInvalidFlag, fmt.Sprintf("rendering range: %v", err), err)
	}
	fingerprint, err := query.Fingerprint(r)
	if err != nil {
		return formatter.Fail(ErrCodeInvalidFlag, err.Error(), err)
	}

	opts.logger().Debug("built range clause", "field", field, "fingerprint", fingerprint)

	if formatter.Format == "json" {
		return formatter.Success(RangeResult{Query: data, Fingerprint: fingerprint})
	}
	return formatter.Success(string(data))
}
