package domain

// Confidence classifies how certain a file-to-student association is.
type Confidence string

const (
	ConfidenceExact     Confidence = "exact"
	ConfidenceFuzzy     Confidence = "fuzzy"
	ConfidenceAmbiguous Confidence = "ambiguous"
	ConfidenceNone      Confidence = "none"
)

// NamedFile is an uploaded document blob with its original filename.
type NamedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ScoredCandidate ranks one candidate student for an ambiguous match.
type ScoredCandidate struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

// FileMatch associates one uploaded file with at most one candidate row.
// StudentKey is set only for exact and fuzzy confidence; Candidates is
// populated only when the match is ambiguous.
type FileMatch struct {
	File         NamedFile         `json:"-"`
	FileName     string            `json:"fileName"`
	StudentKey   string            `json:"studentKey,omitempty"`
	DocumentType DocumentType      `json:"documentType,omitempty"`
	Confidence   Confidence        `json:"confidence"`
	Candidates   []ScoredCandidate `json:"candidates,omitempty"`
}
