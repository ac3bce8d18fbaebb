// Command queryengine is the CLI front end for the corpus query engine
// (spec §6). Building the query.Condition tree itself is the parser's job
// (spec §1 Non-goal: "no query language grammar/parser is implemented
// here"), so this CLI assembles queries from flags describing the common
// single-condition and AND-of-conditions shapes, rather than accepting
// free-form query text.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/accented-ai/corpusql/internal/engineerr"
)

func main() {
	ctx := context.Background()
	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(engineerr.ExitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "queryengine",
		Short:         "Query a term/entity/dependency/temporal index over a text corpus",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newRunCommand(),
		newBenchCommand(),
		newValidateIndexCommand(),
	)
	return root
}
