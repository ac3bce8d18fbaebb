package join

import (
	"time"

	"github.com/accented-ai/corpusql/internal/query"
)

// StrategyTiming is one registered strategy's measured latency running the
// same join once.
type StrategyTiming struct {
	Name    string
	Latency time.Duration
	Err     error
}

// Benchmark runs every registered strategy for kind against the same pair
// of tables (without mutating which strategy is active) and reports their
// latencies.
func Benchmark(reg *Registry, left, right Table, jc *query.JoinCondition) []StrategyTiming {
	names := reg.Names(jc.Predicate)
	timings := make([]StrategyTiming, 0, len(names))
	for _, name := range names {
		p, ok := reg.strategies[jc.Predicate][name]
		if !ok {
			continue
		}
		start := time.Now()
		_, err := runWithStrategy(p, left, right, jc)
		timings = append(timings, StrategyTiming{Name: name, Latency: time.Since(start), Err: err})
	}
	return timings
}

func runWithStrategy(pred Predicate, left, right Table, jc *query.JoinCondition) (int, error) {
	n := 0
	for _, lrow := range left.Rows {
		for _, rrow := range right.Rows {
			if pred(lrow, rrow, jc.LeftKey, jc.RightKey, jc.ProximityN) {
				n++
			}
		}
	}
	return n, nil
}
