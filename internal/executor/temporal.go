package executor

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/accented-ai/corpusql/internal/engineerr"
	"github.com/accented-ai/corpusql/internal/index"
	"github.com/accented-ai/corpusql/internal/match"
	"github.com/accented-ai/corpusql/internal/query"
)

// dateLayouts are the formats TemporalExecutor accepts when parsing an
// indexed date string (spec §4.6: "ISO date or ISO date-time").
var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseIndexedDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseRadius parses NEAR's "<integer><unit>" radius syntax, e.g. "5day",
// "2week", "1month", "1year" (spec §4.6).
func ParseRadius(s string) (int, query.NearUnit, error) {
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9') {
		i++
	}
	if i == 0 {
		return 0, 0, fmt.Errorf("temporal: radius %q has no leading integer: %w", s, engineerr.ErrInvalidCondition)
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("temporal: radius %q: %w", s, engineerr.ErrInvalidCondition)
	}
	unit := strings.ToLower(strings.TrimSpace(s[i:]))
	unit = strings.TrimSuffix(unit, "s") // allow "days", "weeks", ...
	switch unit {
	case "day":
		return n, query.UnitDay, nil
	case "week":
		return n, query.UnitWeek, nil
	case "month":
		return n, query.UnitMonth, nil
	case "year":
		return n, query.UnitYear, nil
	default:
		return 0, 0, fmt.Errorf("temporal: unknown radius unit %q: %w", unit, engineerr.ErrInvalidCondition)
	}
}

func radiusDays(n int, unit query.NearUnit) int {
	switch unit {
	case query.UnitWeek:
		return n * 7
	case query.UnitMonth:
		return n * 30
	case query.UnitYear:
		return n * 365
	default:
		return n
	}
}

// TemporalExecutor implements TEMPORAL(...)/DATE(?v) (spec §4.6).
type TemporalExecutor struct{}

func (TemporalExecutor) Execute(ctx Context, cond query.Condition, access index.Access, gran query.Granularity, window int) (match.Result, error) {
	c, ok := cond.(*query.TemporalCondition)
	if !ok {
		return match.Result{}, fmt.Errorf("temporal executor: unexpected condition type %T", cond)
	}
	gm := toMatchGranularity(gran)

	var target, target2 time.Time
	var hasTarget, hasTarget2 bool
	if c.Date != "" {
		t, ok := parseIndexedDate(c.Date)
		if !ok {
			return match.Result{}, fmt.Errorf("temporal: cannot parse date %q: %w", c.Date, engineerr.ErrInvalidCondition)
		}
		target, hasTarget = t, true
	}
	if c.Date2 != "" {
		t, ok := parseIndexedDate(c.Date2)
		if !ok {
			return match.Result{}, fmt.Errorf("temporal: cannot parse date %q: %w", c.Date2, engineerr.ErrInvalidCondition)
		}
		target2, hasTarget2 = t, true
	}

	prefix := index.ComposeKey("DATE", "")
	it, err := index.SeekIterator(ctx.Std, access, index.NerDate, prefix)
	if err != nil {
		return match.Result{}, fmt.Errorf("temporal: prefix scan: %w", err)
	}
	defer it.Close()

	var details []match.Detail
	count := 0
	for it.Next() {
		count++
		if count%cancelBatch == 0 {
			if cerr := ctx.CheckCancelled(); cerr != nil {
				return match.Result{}, cerr
			}
		}
		entry := it.Entry()
		if !hasPrefix(entry.Key, prefix) {
			break
		}
		parts := index.SplitKey(entry.Key)
		if len(parts) != 2 {
			continue
		}
		dateStr := parts[1]
		candidate, ok := parseIndexedDate(dateStr)
		if !ok {
			continue // unparseable date: skip (spec §4.6 step 2)
		}

		if !satisfies(c, candidate, target, hasTarget, target2, hasTarget2) {
			continue
		}

		d, err := emitFromPositions(ctx, entry.Value, gran, c.Tag(), c.Variable, dateStr, match.ValueDate)
		if err != nil {
			return match.Result{}, err
		}
		details = append(details, d...)
	}
	if err := it.Err(); err != nil {
		return match.Result{}, fmt.Errorf("temporal: iterate ner_date: %w: %v", engineerr.ErrIndexAccess, err)
	}

	return match.Result{Granularity: gm, WindowSize: window, Details: details}, nil
}

func satisfies(c *query.TemporalCondition, candidate, target time.Time, hasTarget bool, target2 time.Time, hasTarget2 bool) bool {
	if !hasTarget && !hasTarget2 && c.Variable != "" {
		// Bare DATE(?v): no operator operand, so every indexed date binds.
		return true
	}
	switch c.Op {
	case query.OpBefore:
		return hasTarget && candidate.Before(target)
	case query.OpAfter:
		return hasTarget && candidate.After(target)
	case query.OpEqual:
		return hasTarget && sameDay(candidate, target)
	case query.OpBetween:
		return hasTarget && hasTarget2 && !candidate.Before(target) && !candidate.After(target2)
	case query.OpNear:
		if !hasTarget {
			return false
		}
		radiusDays := radiusDays(c.Radius, c.RadiusUnit)
		diff := candidate.Sub(target)
		if diff < 0 {
			diff = -diff
		}
		return diff <= time.Duration(radiusDays)*24*time.Hour
	default:
		return false
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
