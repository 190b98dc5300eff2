package cli

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shaunb-optile/trustly-client-go/pkg/conformance"
)

// exitError carries a process exit code through cobra.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func (e *exitError) ExitCode() int { return e.code }

func Vectors(ro *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "vectors FILE",
		Short: "Check the canonical serializer against reference vectors.",
		Args:  cobra.ExactArgs(1),
		RunE: run(ro, func(_ context.Context, cmd *cobra.Command, e *env, args []string) error {
			suite, err := conformance.LoadFile(args[0])
			if err != nil {
				return err
			}

			results := suite.Check()
			printResults(cmd, results)

			failed := conformance.Failed(results)
			e.lg.Info("checked vectors", "file", args[0], "total", len(results), "failed", failed)
			if failed > 0 {
				return &exitError{code: 2, msg: fmt.Sprintf("%d of %d vectors failed", failed, len(results))}
			}
			return nil
		}),
	}
}

func printResults(cmd *cobra.Command, results []conformance.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"Result", "Vector", "Method", "Format"})
	t.AppendSeparator()
	for _, r := range results {
		status := "ok"
		if !r.Passed() {
			status = "FAIL"
		}
		format := r.Vector.Format
		if format == "" {
			format = "values"
		}
		t.AppendRow(table.Row{status, r.Vector.Name, r.Vector.Method, format})
	}
	t.Render()

	for _, r := range results {
		if !r.Passed() {
			fmt.Fprintln(cmd.OutOrStdout(), r.String())
		}
	}
}
