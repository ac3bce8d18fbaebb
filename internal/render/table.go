// Package render formats a projection.RowSet for terminal display,
// adapted from the teacher's TableFormatter (datalog/executor/
// table_formatter.go) onto this engine's RowSet shape instead of a
// Relation/Tuple.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/accented-ai/corpusql/internal/projection"
)

// Table renders rs as a markdown-style table plus a trailing row count.
func Table(rs projection.RowSet) string {
	if len(rs.Rows) == 0 {
		return fmt.Sprintf("_Columns: %v_\n\n_No rows_", rs.Columns)
	}

	sb := &strings.Builder{}
	alignment := make([]tw.Align, len(rs.Columns))
	for i := range alignment {
		alignment[i] = tw.AlignNone
	}

	table := tablewriter.NewTable(sb,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithAlignment(alignment),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
	table.Header(rs.Columns)

	for _, row := range rs.Rows {
		rendered := make([]string, len(row))
		for i, v := range row {
			rendered[i] = formatValue(v)
		}
		table.Append(rendered)
	}
	table.Render()

	fmt.Fprintf(sb, "\n_%d rows_\n", len(rs.Rows))
	return sb.String()
}

func formatValue(val interface{}) string {
	if val == nil {
		return ""
	}
	switch v := val.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Success formats a short colored summary line for a completed run.
func Success(rowCount int, elapsed time.Duration) string {
	return fmt.Sprintf("%s %s in %v",
		color.GreenString("==="),
		color.New(color.Bold).Sprintf("%d rows", rowCount),
		elapsed.Round(time.Millisecond))
}

// Failure formats a short colored error line.
func Failure(err error) string {
	return fmt.Sprintf("%s %v", color.RedString("✗"), err)
}
