package domain

import "strings"

// WarningKind classifies non-fatal defects recorded while importing a file.
type WarningKind string

const (
	WarnFatalParse   WarningKind = "FATAL_PARSE"
	WarnMissingField WarningKind = "MISSING_REQUIRED_FIELD"
	WarnCoercion     WarningKind = "RANGE_OR_TYPE_COERCION"
	WarnValidation   WarningKind = "VALIDATION_MISMATCH"
	WarnCacheFailure WarningKind = "CACHE_FAILURE"
)

// Warning is a structured, non-blocking defect report attached to a batch or
// an import log. Warnings never stop processing of the file they belong to.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Source  string      `json:"source"` // file the warning originated from
	Message string      `json:"message"`
}

// NormalizeName produces the canonical lookup key for master names:
// upper-cased with internal whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}
