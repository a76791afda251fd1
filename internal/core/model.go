package core

import "strings"

// Sentinel values used when a source does not provide a field
const (
	SubjectPastedText = "pasted text"
	SenderPlainText   = "unknown, plain text"
	SubjectMissing    = "no subject"
	SenderMissing     = "unknown"
	BodyMissing       = "body could not be extracted"
	SubjectManual     = "manual text"
	SenderManual      = "N/A"
)

// EmailRecord is the canonical content extracted from one input artifact.
// All fields are always set.
type EmailRecord struct {
	Subject string `json:"subject"`
	Sender  string `json:"sender"`
	Body    string `json:"body"`
}

// Verdict is the risk label attached to an assessment
type Verdict string

// Canonical verdicts
const (
	VerdictSafe       Verdict = "SAFE"
	VerdictSuspicious Verdict = "SUSPICIOUS"
	VerdictDangerous  Verdict = "DANGEROUS"
	VerdictError      Verdict = "ERROR"
)

var verdictAliases = map[string]Verdict{
	"SAFE":       VerdictSafe,
	"SUSPICIOUS": VerdictSuspicious,
	"DANGEROUS":  VerdictDangerous,
	"ERROR":      VerdictError,
	"SEGURO":     VerdictSafe,
	"SOSPECHOSO": VerdictSuspicious,
	"PELIGROSO":  VerdictDangerous,
}

// Level maps the verdict, in any accepted language, to its canonical
// constant. Unknown labels map to the empty verdict.
func (v Verdict) Level() Verdict {
	return verdictAliases[strings.ToUpper(strings.TrimSpace(string(v)))]
}

// AssessmentRecord is the canonical risk verdict for one email.
// Verdict is ERROR exactly when the assessment could not be produced,
// in which case Score is 0 and Reasons holds diagnostics.
type AssessmentRecord struct {
	Score   int      `json:"score"`
	Verdict Verdict  `json:"verdict"`
	Summary string   `json:"summary"`
	Reasons []string `json:"reasons"`
}

// Failed reports whether the record is the ERROR variant
func (a AssessmentRecord) Failed() bool {
	return a.Verdict.Level() == VerdictError
}

// Artifact is an uploaded file as received from a front-end
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Analysis pairs the extracted email with its assessment
type Analysis struct {
	Meta     EmailRecord      `json:"meta"`
	Analysis AssessmentRecord `json:"analysis"`
}
