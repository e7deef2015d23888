package matcher

import (
	"regexp"
	"sort"
	"strings"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// Fuzzy name scoring. The literal thresholds encode long-standing behavior of
// the admissions office tooling; do not tune them casually.
const (
	scoreFullName   = 0.90 // "first last" appears in order
	scoreReversed   = 0.85 // "last first"
	scoreBothParts  = 0.75 // both parts present in any position
	scoreSinglePart = 0.50 // only one name part found
	scoreSharedRoll = 0.80 // several candidates share the roll number

	fuzzyThreshold     = scoreBothParts
	ambiguousThreshold = scoreSinglePart
	fuzzyGap           = 0.20

	maxAmbiguousCandidates = 5
)

// Candidate is one parsed row reduced to the keys the matcher needs.
type Candidate struct {
	ID              string
	AdmissionNumber string
	RollNumber      string
	FirstName       string
	LastName        string
}

// Result summarizes one matching pass over a pool of files.
type Result struct {
	Matches        []domain.FileMatch `json:"matches"`
	UnmatchedFiles []string           `json:"unmatchedFiles"`
	TotalFiles     int                `json:"totalFiles"`
	MatchedFiles   int                `json:"matchedFiles"`
	AmbiguousFiles int                `json:"ambiguousFiles"`
}

// outcome is a single strategy's verdict for one file. A strategy either
// decides (definitive or ambiguous) or abstains, handing over to the next
// tier.
type outcome struct {
	studentKey string
	confidence domain.Confidence
	candidates []domain.ScoredCandidate
}

type strategy func(fileName string, candidates []Candidate) (outcome, bool)

// strategies is the fixed tier order: first decision wins.
var strategies = []strategy{
	matchAdmissionNumber,
	matchRollNumber,
	matchFuzzyName,
}

// Match assigns each file to zero-or-one candidate with a confidence level.
// The document type is sniffed from the filename independently of which tier
// decides the association.
func Match(files []domain.NamedFile, candidates []Candidate) *Result {
	result := &Result{
		Matches:        make([]domain.FileMatch, 0, len(files)),
		UnmatchedFiles: []string{},
		TotalFiles:     len(files),
	}

	for _, file := range files {
		match := domain.FileMatch{
			File:         file,
			FileName:     file.Name,
			DocumentType: SniffDocumentType(file.Name),
			Confidence:   domain.ConfidenceNone,
		}

		for _, strat := range strategies {
			decided, ok := strat(file.Name, candidates)
			if !ok {
				continue
			}
			match.StudentKey = decided.studentKey
			match.Confidence = decided.confidence
			match.Candidates = decided.candidates
			break
		}

		switch match.Confidence {
		case domain.ConfidenceExact, domain.ConfidenceFuzzy:
			result.MatchedFiles++
		case domain.ConfidenceAmbiguous:
			result.AmbiguousFiles++
		default:
			result.UnmatchedFiles = append(result.UnmatchedFiles, file.Name)
		}

		result.Matches = append(result.Matches, match)
	}

	return result
}

// GroupByStudent folds matches into per-student file lists, ignoring
// unmatched and ambiguous entries.
func GroupByStudent(matches []domain.FileMatch) map[string][]domain.FileMatch {
	grouped := make(map[string][]domain.FileMatch)
	for _, match := range matches {
		if match.Confidence != domain.ConfidenceExact && match.Confidence != domain.ConfidenceFuzzy {
			continue
		}
		grouped[match.StudentKey] = append(grouped[match.StudentKey], match)
	}
	return grouped
}

// admissionPattern captures the fixed-prefix admission number, tolerating
// any of -, _, space or nothing between the groups.
var admissionPattern = regexp.MustCompile(`(?i)(stu)[\s_-]?(\d{4})[\s_-]?(\d{5})`)

// NormalizeAdmissionNumber rewrites any separator variant of an admission
// number to the canonical STU-YYYY-NNNNN form, or returns "" when the value
// does not contain one.
func NormalizeAdmissionNumber(value string) string {
	groups := admissionPattern.FindStringSubmatch(value)
	if groups == nil {
		return ""
	}
	return strings.ToUpper(groups[1]) + "-" + groups[2] + "-" + groups[3]
}

func matchAdmissionNumber(fileName string, candidates []Candidate) (outcome, bool) {
	normalized := NormalizeAdmissionNumber(fileName)
	if normalized == "" {
		return outcome{}, false
	}

	for _, candidate := range candidates {
		if NormalizeAdmissionNumber(candidate.AdmissionNumber) == normalized {
			return outcome{studentKey: candidate.ID, confidence: domain.ConfidenceExact}, true
		}
	}
	return outcome{}, false
}

// rollPattern matches a short leading numeric token followed by a separator,
// e.g. "5_marks.pdf".
var rollPattern = regexp.MustCompile(`^(\d{1,4})[\s_.-]`)

func matchRollNumber(fileName string, candidates []Candidate) (outcome, bool) {
	groups := rollPattern.FindStringSubmatch(fileName)
	if groups == nil {
		return outcome{}, false
	}
	token := strings.TrimLeft(groups[1], "0")
	if token == "" {
		token = "0"
	}

	var sharing []Candidate
	for _, candidate := range candidates {
		roll := strings.TrimLeft(strings.TrimSpace(candidate.RollNumber), "0")
		if roll == "" && strings.TrimSpace(candidate.RollNumber) != "" {
			roll = "0"
		}
		if roll == token {
			sharing = append(sharing, candidate)
		}
	}

	switch len(sharing) {
	case 0:
		return outcome{}, false
	case 1:
		return outcome{studentKey: sharing[0].ID, confidence: domain.ConfidenceExact}, true
	default:
		scored := make([]domain.ScoredCandidate, len(sharing))
		for i, candidate := range sharing {
			scored[i] = domain.ScoredCandidate{Key: candidate.ID, Score: scoreSharedRoll}
		}
		return outcome{confidence: domain.ConfidenceAmbiguous, candidates: scored}, true
	}
}

var digitsPattern = regexp.MustCompile(`\d+`)

// normalizeForNameMatch strips the extension, replaces separators with spaces
// and drops digits so only name tokens remain.
func normalizeForNameMatch(fileName string) string {
	name := fileName
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	name = strings.ToLower(name)
	name = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(name)
	name = digitsPattern.ReplaceAllString(name, "")
	return strings.Join(strings.Fields(name), " ")
}

func scoreName(normalized, firstName, lastName string) float64 {
	first := strings.ToLower(strings.TrimSpace(firstName))
	last := strings.ToLower(strings.TrimSpace(lastName))
	if first == "" && last == "" {
		return 0
	}

	switch {
	case first != "" && last != "" && strings.Contains(normalized, first+" "+last):
		return scoreFullName
	case first != "" && last != "" && strings.Contains(normalized, last+" "+first):
		return scoreReversed
	case first != "" && last != "" && strings.Contains(normalized, first) && strings.Contains(normalized, last):
		return scoreBothParts
	case (first != "" && strings.Contains(normalized, first)) || (last != "" && strings.Contains(normalized, last)):
		return scoreSinglePart
	default:
		return 0
	}
}

func matchFuzzyName(fileName string, candidates []Candidate) (outcome, bool) {
	normalized := normalizeForNameMatch(fileName)
	if normalized == "" {
		return outcome{}, false
	}

	scored := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		score := scoreName(normalized, candidate.FirstName, candidate.LastName)
		if score >= ambiguousThreshold {
			scored = append(scored, domain.ScoredCandidate{Key: candidate.ID, Score: score})
		}
	}
	if len(scored) == 0 {
		return outcome{}, false
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	top := scored[0]
	if top.Score >= fuzzyThreshold && (len(scored) == 1 || top.Score-scored[1].Score > fuzzyGap) {
		return outcome{studentKey: top.Key, confidence: domain.ConfidenceFuzzy}, true
	}

	if len(scored) > 1 {
		if len(scored) > maxAmbiguousCandidates {
			scored = scored[:maxAmbiguousCandidates]
		}
		return outcome{confidence: domain.ConfidenceAmbiguous, candidates: scored}, true
	}

	return outcome{}, false
}
