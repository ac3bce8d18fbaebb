// Package engineerr defines the query engine's typed error taxonomy
// (spec §7). Executors return these via fmt.Errorf("...: %w", Sentinel) so
// callers can classify failures with errors.Is/Code without string
// matching, following the same wrapping convention the teacher's executor
// and storage packages use throughout.
package engineerr

import "errors"

// Code identifies a failure category from the taxonomy.
type Code int

const (
	CodeNone Code = iota
	CodeParse
	CodeInvalidCondition
	CodeMissingIndex
	CodeIndexAccess
	CodeUnsupported
	CodeCancelled
	CodeInternal
)

func (c Code) String() string {
	switch c {
	case CodeParse:
		return "PARSE"
	case CodeInvalidCondition:
		return "INVALID_CONDITION"
	case CodeMissingIndex:
		return "MISSING_INDEX"
	case CodeIndexAccess:
		return "INDEX_ACCESS_ERROR"
	case CodeUnsupported:
		return "UNSUPPORTED"
	case CodeCancelled:
		return "CANCELLED"
	case CodeInternal:
		return "INTERNAL"
	default:
		return "NONE"
	}
}

// Sentinel errors. Wrap with fmt.Errorf("...: %w", ErrMissingIndex) to add
// context while preserving classification via errors.Is.
var (
	ErrParse             = errors.New("PARSE")
	ErrInvalidCondition  = errors.New("INVALID_CONDITION")
	ErrMissingIndex      = errors.New("MISSING_INDEX")
	ErrIndexAccess       = errors.New("INDEX_ACCESS_ERROR")
	ErrUnsupported       = errors.New("UNSUPPORTED")
	ErrCancelled         = errors.New("CANCELLED")
)

var sentinelCode = map[error]Code{
	ErrParse:            CodeParse,
	ErrInvalidCondition: CodeInvalidCondition,
	ErrMissingIndex:     CodeMissingIndex,
	ErrIndexAccess:      CodeIndexAccess,
	ErrUnsupported:      CodeUnsupported,
	ErrCancelled:        CodeCancelled,
}

// CodeOf classifies err against the known sentinels. Returns CodeInternal
// for any non-nil error that doesn't wrap one of them, CodeNone for nil.
func CodeOf(err error) Code {
	if err == nil {
		return CodeNone
	}
	for sentinel, code := range sentinelCode {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return CodeInternal
}

// ExitCode maps a Code to the CLI exit codes from spec §6:
// 0 success, 1 user-visible error (parse/missing-index/invalid-condition),
// 2 any other error.
func ExitCode(err error) int {
	switch CodeOf(err) {
	case CodeNone:
		return 0
	case CodeParse, CodeMissingIndex, CodeInvalidCondition:
		return 1
	default:
		return 2
	}
}
