package query

import "fmt"

// SelectColumnKind tags the variant of a SelectColumn (spec §4.10).
type SelectColumnKind int

const (
	ColIdentifier SelectColumnKind = iota
	ColVariable
	ColSnippet
	ColCountStar
	ColCountUnique
	ColCountDocuments
	ColTitle
	ColTimestamp
)

// SelectColumn is one entry in the SELECT list.
type SelectColumn struct {
	Kind     SelectColumnKind
	Name     string // IDENTIFIER name, or VARIABLE/SNIPPET/COUNT_UNIQUE's variable name (without '?')
	Snippet  int    // SNIPPET(?v, k)'s k (surrounding-sentence radius)
	Alias    string // optional output column alias; defaults to a kind-specific name
}

// OutputName returns the column header this SelectColumn projects to.
func (c SelectColumn) OutputName() string {
	if c.Alias != "" {
		return c.Alias
	}
	switch c.Kind {
	case ColIdentifier:
		return c.Name
	case ColVariable:
		return c.Name
	case ColSnippet:
		return fmt.Sprintf("snippet(%s)", c.Name)
	case ColCountStar:
		return "count"
	case ColCountUnique:
		return fmt.Sprintf("count_unique(%s)", c.Name)
	case ColCountDocuments:
		return "count_documents"
	case ColTitle:
		return "title"
	case ColTimestamp:
		return "timestamp"
	default:
		return "column"
	}
}

func Identifier(name string) SelectColumn     { return SelectColumn{Kind: ColIdentifier, Name: name} }
func VariableColumn(name string) SelectColumn { return SelectColumn{Kind: ColVariable, Name: name} }
func Snippet(name string, k int) SelectColumn {
	return SelectColumn{Kind: ColSnippet, Name: name, Snippet: k}
}
func CountStar() SelectColumn             { return SelectColumn{Kind: ColCountStar} }
func CountUnique(name string) SelectColumn { return SelectColumn{Kind: ColCountUnique, Name: name} }
func CountDocuments() SelectColumn        { return SelectColumn{Kind: ColCountDocuments} }
func Title() SelectColumn                 { return SelectColumn{Kind: ColTitle} }
func Timestamp() SelectColumn             { return SelectColumn{Kind: ColTimestamp} }
