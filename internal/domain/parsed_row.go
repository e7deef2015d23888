package domain

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ValidationIssue describes a single field level problem found on a row.
// Issues are immutable once created.
type ValidationIssue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// RowStatus is the aggregate validation state of a parsed row.
type RowStatus string

const (
	RowStatusValid   RowStatus = "valid"
	RowStatusWarning RowStatus = "warning"
	RowStatusInvalid RowStatus = "invalid"
)

// ParsedRow is one candidate student record extracted from a spreadsheet line.
// RowNumber is the 1-based spreadsheet row so errors map back to the original
// file. Status is derived from Errors/Warnings: invalid iff any error, warning
// iff warnings only, valid otherwise.
type ParsedRow struct {
	RowNumber int               `json:"rowNumber"`
	Data      map[string]string `json:"data"`
	Errors    []ValidationIssue `json:"errors"`
	Warnings  []ValidationIssue `json:"warnings"`
	Status    RowStatus         `json:"status"`
}

// Resolve derives Status from the accumulated issues.
func (r *ParsedRow) Resolve() {
	switch {
	case len(r.Errors) > 0:
		r.Status = RowStatusInvalid
	case len(r.Warnings) > 0:
		r.Status = RowStatusWarning
	default:
		r.Status = RowStatusValid
	}
}

// Importable reports whether the row may be committed. Invalid rows are
// permanently excluded from persistence attempts.
func (r *ParsedRow) Importable() bool {
	return r.Status == RowStatusValid || r.Status == RowStatusWarning
}
