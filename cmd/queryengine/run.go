package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/accented-ai/corpusql/internal/executor"
	"github.com/accented-ai/corpusql/internal/render"
)

func newRunCommand() *cobra.Command {
	var cfgPath string
	f := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a query against an index and print the result table",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cfgPath, f)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (defaults baked in if omitted)")
	f.register(cmd.Flags())
	return cmd
}

func runRun(cfgPath string, f *queryFlags) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	eng, store, err := openEngine(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	q, err := buildQuery(f)
	if err != nil {
		return err
	}

	ctx := executor.NewContext(context.Background())
	start := time.Now()
	rows, err := eng.Run(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		fmt.Println(render.Failure(err))
		return err
	}

	fmt.Print(render.Table(rows))
	fmt.Println(render.Success(len(rows.Rows), elapsed))
	return nil
}
