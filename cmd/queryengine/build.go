package main

import (
	"fmt"
	"strings"

	"github.com/accented-ai/corpusql/internal/executor"
	"github.com/accented-ai/corpusql/internal/query"
)

// queryFlags collects the flag values common to run/bench: the pieces
// needed to assemble a query.Query without a parser (spec §1 Non-goal).
type queryFlags struct {
	contains     []string
	nerSpec      string // "TYPE" or "TYPE:value" or "TYPE:?var"
	posSpec      string // "TAG:term" or "TAG:?var"
	depSpec      string // "relation:governor:dependent", any component may be "?var"
	temporalSpec string // "before:DATE" | "after:DATE" | "between:DATE,DATE" | "near:DATE:5day" | "equal:DATE"
	negate       bool
	granularity  string
	window       int
	selectCols   []string
	orderBy      []string
	limit        int
}

func (f *queryFlags) register(cmd cobraFlagSet) {
	cmd.StringArrayVar(&f.contains, "contains", nil, "CONTAINS term (1-3 times for unigram/bigram/trigram)")
	cmd.StringVar(&f.nerSpec, "ner", "", "NER condition, TYPE[:value|:?var|:*]")
	cmd.StringVar(&f.posSpec, "pos", "", "POS condition, TAG:term|TAG:?var")
	cmd.StringVar(&f.depSpec, "dependency", "", "DEPENDENCY condition, relation:governor:dependent")
	cmd.StringVar(&f.temporalSpec, "temporal", "", "TEMPORAL condition, op:date[,date2][:radius]")
	cmd.BoolVar(&f.negate, "not", false, "negate the assembled condition")
	cmd.StringVar(&f.granularity, "granularity", "document", "DOCUMENT or SENTENCE")
	cmd.IntVar(&f.window, "window", 0, "sentence window size (SENTENCE granularity only)")
	cmd.StringArrayVar(&f.selectCols, "select", []string{"identifier"}, "output column: identifier|title|timestamp|var:<name>|snippet:<name>:<k>|count|count_unique:<name>|count_documents")
	cmd.StringArrayVar(&f.orderBy, "order-by", nil, "order by column, prefix '-' for descending")
	cmd.IntVar(&f.limit, "limit", 0, "limit rows (0 = unlimited)")
}

// cobraFlagSet is the subset of *pflag.FlagSet this package uses, so build.go
// stays decoupled from importing cobra/pflag directly in multiple files.
type cobraFlagSet interface {
	StringArrayVar(p *[]string, name string, value []string, usage string)
	StringVar(p *string, name string, value string, usage string)
	BoolVar(p *bool, name string, value bool, usage string)
	IntVar(p *int, name string, value int, usage string)
}

// buildQuery assembles a query.Query from the flags given (spec §6's CLI
// external interface, minus the parser).
func buildQuery(f *queryFlags) (*query.Query, error) {
	var atoms []query.Condition
	tag := 0
	nextTag := func() string {
		tag++
		return fmt.Sprintf("cli-%d", tag)
	}

	if len(f.contains) > 0 {
		atoms = append(atoms, &query.ContainsCondition{Terms: f.contains})
	}
	if f.nerSpec != "" {
		c, err := parseNer(f.nerSpec)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, c)
	}
	if f.posSpec != "" {
		c, err := parsePos(f.posSpec)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, c)
	}
	if f.depSpec != "" {
		c, err := parseDependency(f.depSpec)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, c)
	}
	if f.temporalSpec != "" {
		c, err := parseTemporal(f.temporalSpec)
		if err != nil {
			return nil, err
		}
		atoms = append(atoms, c)
	}
	if len(atoms) == 0 {
		return nil, fmt.Errorf("query: no condition flags given (use --contains/--ner/--pos/--dependency/--temporal)")
	}
	for _, a := range atoms {
		stampTag(a, nextTag())
	}

	var where query.Condition
	if len(atoms) == 1 {
		where = atoms[0]
	} else {
		where = &query.LogicalCondition{Op: query.OpAnd, Children: atoms}
	}
	if f.negate {
		where = &query.NotCondition{Child: where}
	}

	cols, err := parseSelect(f.selectCols)
	if err != nil {
		return nil, err
	}

	gran := query.Document
	if strings.EqualFold(f.granularity, "sentence") {
		gran = query.Sentence
	}

	return &query.Query{
		Select:      cols,
		Where:       where,
		OrderBy:     parseOrderBy(f.orderBy),
		Limit:       f.limit,
		Granularity: gran,
		WindowSize:  f.window,
	}, nil
}

// stampTag is a no-op placeholder: condition tags are assigned by the
// (out-of-scope) parser/binder in the full system; the CLI's flag-built
// conditions don't need distinct tags since they never share a variable
// binding with one another.
func stampTag(query.Condition, string) {}

func parseNer(spec string) (*query.NerCondition, error) {
	parts := strings.SplitN(spec, ":", 2)
	c := &query.NerCondition{EntityType: strings.ToUpper(parts[0])}
	if len(parts) == 1 {
		c.Value = query.Wild()
		return c, nil
	}
	c.Value = targetFrom(parts[1])
	return c, nil
}

func parsePos(spec string) (*query.PosCondition, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("pos: expected TAG:term, got %q", spec)
	}
	return &query.PosCondition{Tag_: parts[0], Term: targetFrom(parts[1])}, nil
}

func parseDependency(spec string) (*query.DependencyCondition, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return nil, fmt.Errorf("dependency: expected relation:governor:dependent, got %q", spec)
	}
	return &query.DependencyCondition{
		Relation:  parts[0],
		Governor:  depArgFrom(parts[1]),
		Dependent: depArgFrom(parts[2]),
	}, nil
}

func targetFrom(s string) query.Target {
	switch {
	case s == "*":
		return query.Wild()
	case strings.HasPrefix(s, "?"):
		return query.Var(strings.TrimPrefix(s, "?"))
	default:
		return query.Lit(s)
	}
}

func depArgFrom(s string) query.DepArg {
	if strings.HasPrefix(s, "?") {
		return query.DepArg{Variable: strings.TrimPrefix(s, "?")}
	}
	return query.DepArg{Literal: s}
}

func parseTemporal(spec string) (*query.TemporalCondition, error) {
	parts := strings.Split(spec, ":")
	if len(parts) < 2 {
		return nil, fmt.Errorf("temporal: expected op:date[...], got %q", spec)
	}
	c := &query.TemporalCondition{}
	switch strings.ToLower(parts[0]) {
	case "before":
		c.Op = query.OpBefore
		c.Date = parts[1]
	case "after":
		c.Op = query.OpAfter
		c.Date = parts[1]
	case "equal":
		c.Op = query.OpEqual
		c.Date = parts[1]
	case "between":
		dates := strings.Split(parts[1], ",")
		if len(dates) != 2 {
			return nil, fmt.Errorf("temporal: between needs two comma-separated dates, got %q", parts[1])
		}
		c.Op = query.OpBetween
		c.Date, c.Date2 = dates[0], dates[1]
	case "near":
		if len(parts) != 3 {
			return nil, fmt.Errorf("temporal: near needs op:date:radius, got %q", spec)
		}
		n, unit, err := executor.ParseRadius(parts[2])
		if err != nil {
			return nil, err
		}
		c.Op = query.OpNear
		c.Date = parts[1]
		c.Radius, c.RadiusUnit = n, unit
	default:
		return nil, fmt.Errorf("temporal: unknown op %q", parts[0])
	}
	return c, nil
}

func parseSelect(specs []string) ([]query.SelectColumn, error) {
	var cols []query.SelectColumn
	for _, s := range specs {
		parts := strings.SplitN(s, ":", 3)
		switch strings.ToLower(parts[0]) {
		case "identifier":
			cols = append(cols, query.Identifier("document_id"))
		case "title":
			cols = append(cols, query.Title())
		case "timestamp":
			cols = append(cols, query.Timestamp())
		case "var":
			if len(parts) < 2 {
				return nil, fmt.Errorf("select: var needs a name, got %q", s)
			}
			cols = append(cols, query.VariableColumn(parts[1]))
		case "snippet":
			if len(parts) < 3 {
				return nil, fmt.Errorf("select: snippet needs name:k, got %q", s)
			}
			k := 0
			fmt.Sscanf(parts[2], "%d", &k)
			cols = append(cols, query.Snippet(parts[1], k))
		case "count":
			cols = append(cols, query.CountStar())
		case "count_unique":
			if len(parts) < 2 {
				return nil, fmt.Errorf("select: count_unique needs a name, got %q", s)
			}
			cols = append(cols, query.CountUnique(parts[1]))
		case "count_documents":
			cols = append(cols, query.CountDocuments())
		default:
			return nil, fmt.Errorf("select: unknown column kind %q", parts[0])
		}
	}
	return cols, nil
}

func parseOrderBy(specs []string) []query.OrderSpec {
	var out []query.OrderSpec
	for _, s := range specs {
		desc := strings.HasPrefix(s, "-")
		out = append(out, query.OrderSpec{Column: strings.TrimPrefix(s, "-"), Descending: desc})
	}
	return out
}
