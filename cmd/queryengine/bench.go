package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/accented-ai/corpusql/internal/executor"
)

func newBenchCommand() *cobra.Command {
	var cfgPath string
	var runs int
	f := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a query N times and report latency",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cfgPath, f, runs)
		},
	}

	cmd.Flags().StringVar(&cfgPath, "config", "", "path to a YAML config file (defaults baked in if omitted)")
	cmd.Flags().IntVar(&runs, "runs", 5, "number of times to run the query")
	f.register(cmd.Flags())
	return cmd
}

func runBench(cfgPath string, f *queryFlags, runs int) error {
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

	var total time.Duration
	var rowCount int
	for i := 0; i < runs; i++ {
		ctx := executor.NewContext(context.Background())
		start := time.Now()
		rows, err := eng.Run(ctx, q)
		if err != nil {
			return fmt.Errorf("bench: run %d: %w", i+1, err)
		}
		total += time.Since(start)
		rowCount = len(rows.Rows)
	}

	avg := total / time.Duration(runs)
	fmt.Printf("runs=%d rows=%d total=%v avg=%v\n", runs, rowCount, total.Round(time.Millisecond), avg.Round(time.Millisecond))
	return nil
}
