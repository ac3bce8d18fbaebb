// Package match defines MatchDetail and QueryResult (spec §3), the
// currency every condition executor, logical composer, and join stage
// passes between each other.
package match

import (
	"fmt"

	"github.com/accented-ai/corpusql/internal/position"
)

// ValueType tags what kind of value a MatchDetail carries.
type ValueType int

const (
	ValueTerm ValueType = iota
	ValueEntity
	ValueDependency
	ValuePos
	ValueDate
	ValueCount
)

func (v ValueType) String() string {
	switch v {
	case ValueTerm:
		return "TERM"
	case ValueEntity:
		return "ENTITY"
	case ValueDependency:
		return "DEPENDENCY"
	case ValuePos:
		return "POS"
	case ValueDate:
		return "DATE"
	case ValueCount:
		return "COUNT"
	default:
		return "UNKNOWN"
	}
}

// Detail is one occurrence of a predicate match: a Position plus the value
// that matched there, the originating condition's tag, and an optional
// bound variable. Immutable once constructed.
type Detail struct {
	Value        interface{}
	ValueType    ValueType
	Position     position.Position
	ConditionTag string
	VariableName string // empty if this detail does not bind a variable
	IsJoinResult bool
	RightDocID   int // only meaningful when IsJoinResult
	RightSentID  int // only meaningful when IsJoinResult; position.DocumentLevel if dropped
}

// key is the tuple (position, value, variableName) equality/identity is
// defined over, per spec §3.
type key struct {
	pos   position.Position
	value interface{}
	vname string
}

func (d Detail) key() key {
	return key{pos: d.Position, value: fmt.Sprintf("%v", d.Value), vname: d.VariableName}
}

// Equal reports whether two details are the same match per spec §3's
// equality rule (all fields) — but Hash/set-membership (used by OR/NOT
// dedup) only considers position+value+variableName.
func (d Detail) Equal(other Detail) bool {
	return d.Value == other.Value &&
		d.ValueType == other.ValueType &&
		d.Position == other.Position &&
		d.ConditionTag == other.ConditionTag &&
		d.VariableName == other.VariableName &&
		d.IsJoinResult == other.IsJoinResult &&
		d.RightDocID == other.RightDocID &&
		d.RightSentID == other.RightSentID
}

// SetKey returns the (position, value, variableName) identity used for set
// algebra (collapsing duplicates in OR, membership checks in AND/NOT).
func (d Detail) SetKey() interface{} {
	return d.key()
}

// Result bundles a granularity tag, optional sentence window, and an
// ordered collection of Details (spec §3). A Result exclusively owns its
// Details slice.
type Result struct {
	Granularity Granularity
	WindowSize  int
	Details     []Detail
}

// Granularity mirrors query.Granularity without importing the query
// package (avoids an import cycle: query never needs to know about
// match.Result).
type Granularity int

const (
	Document Granularity = iota
	Sentence
)

func (g Granularity) String() string {
	if g == Sentence {
		return "SENTENCE"
	}
	return "DOCUMENT"
}

// Empty returns a Result with no details at the given granularity.
func Empty(gran Granularity, window int) Result {
	return Result{Granularity: gran, WindowSize: window, Details: nil}
}

// DocIDs returns the distinct set of document ids present in r, in
// first-seen order.
func (r Result) DocIDs() []int {
	seen := make(map[int]bool)
	var out []int
	for _, d := range r.Details {
		if !seen[d.Position.DocID] {
			seen[d.Position.DocID] = true
			out = append(out, d.Position.DocID)
		}
	}
	return out
}

// DocSentPair identifies a (document, sentence) group.
type DocSentPair struct {
	DocID  int
	SentID int
}

// DocSentPairs returns the distinct (doc,sent) pairs present in r, in
// first-seen order. At Document granularity every SentID is
// position.DocumentLevel.
func (r Result) DocSentPairs() []DocSentPair {
	seen := make(map[DocSentPair]bool)
	var out []DocSentPair
	for _, d := range r.Details {
		p := DocSentPair{DocID: d.Position.DocID, SentID: d.Position.SentID}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// GroupByDoc indexes r's Details by DocID, preserving relative order within
// each group.
func (r Result) GroupByDoc() map[int][]Detail {
	out := make(map[int][]Detail)
	for _, d := range r.Details {
		out[d.Position.DocID] = append(out[d.Position.DocID], d)
	}
	return out
}

// GroupByDocSent indexes r's Details by (DocID,SentID).
func (r Result) GroupByDocSent() map[DocSentPair][]Detail {
	out := make(map[DocSentPair][]Detail)
	for _, d := range r.Details {
		p := DocSentPair{DocID: d.Position.DocID, SentID: d.Position.SentID}
		out[p] = append(out[p], d)
	}
	return out
}

// Sorted returns a copy of r with Details ordered per spec §4.7's tie-break
// rule: document id, then sentence id, then position offset. Caller-order
// (which child contributed a detail) must be applied by the caller before
// calling Sorted, since Result itself has no notion of "child order".
func (r Result) Sorted() Result {
	out := make([]Detail, len(r.Details))
	copy(out, r.Details)
	stableSortDetails(out)
	return Result{Granularity: r.Granularity, WindowSize: r.WindowSize, Details: out}
}

func stableSortDetails(details []Detail) {
	// Simple insertion sort: these result sets are typically small relative
	// to the corpus (already filtered to matches), and stability here
	// matters more than asymptotic complexity.
	for i := 1; i < len(details); i++ {
		j := i
		for j > 0 && less(details[j], details[j-1]) {
			details[j], details[j-1] = details[j-1], details[j]
			j--
		}
	}
}

func less(a, b Detail) bool {
	if a.Position.DocID != b.Position.DocID {
		return a.Position.DocID < b.Position.DocID
	}
	if a.Position.SentID != b.Position.SentID {
		return a.Position.SentID < b.Position.SentID
	}
	return a.Position.Begin < b.Position.Begin
}
