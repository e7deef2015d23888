package matcher

import (
	"regexp"
	"strings"

	"github.com/wamiq271801/School-Management-sub000/internal/domain"
)

// docTypePatterns maps filename patterns to document categories. Order
// matters: the first category with a matching pattern wins, so the more
// specific certificate patterns sit above the generic ones.
var docTypePatterns = []struct {
	docType  domain.DocumentType
	patterns []*regexp.Regexp
}{
	{domain.DocPhoto, compileAll(
		`photo`,
		`passport[\s_-]?size`,
		`profile[\s_-]?pic`,
		token(`img`),
		token(`pic`),
	)},
	{domain.DocBirthCertificate, compileAll(
		`birth[\s_-]?cert`,
		token(`dob`),
		`birth`,
	)},
	{domain.DocAadhaarCard, compileAll(
		`aadhaar`,
		`aadhar`,
		`adhar`,
		`uidai`,
	)},
	{domain.DocTransferCertificate, compileAll(
		`transfer[\s_-]?cert`,
		token(`tc`),
		`leaving[\s_-]?cert`,
	)},
	{domain.DocMarksheet, compileAll(
		`marks?[\s_-]?sheet`,
		token(`marks`),
		`report[\s_-]?card`,
		token(`result`),
	)},
	{domain.DocCasteCertificate, compileAll(
		`caste[\s_-]?cert`,
		token(`caste`),
		`category[\s_-]?cert`,
	)},
	{domain.DocMedicalCertificate, compileAll(
		`medical[\s_-]?cert`,
		token(`medical`),
		`fitness`,
	)},
}

// token frames a keyword with filename separators. Underscore counts as a
// word character in regexp, so \b would never fire after the "_" separator
// the upload conventions use.
func token(word string) string {
	return `(?:^|[\s_.-])` + word + `(?:[\s_.-]|$)`
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// SniffDocumentType classifies a filename into a document category, or ""
// when no pattern matches. The category is attached to the match regardless
// of which match tier succeeds.
func SniffDocumentType(fileName string) domain.DocumentType {
	lowered := strings.ToLower(fileName)
	for _, entry := range docTypePatterns {
		for _, pattern := range entry.patterns {
			if pattern.MatchString(lowered) {
				return entry.docType
			}
		}
	}
	return ""
}
