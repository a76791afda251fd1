package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerdict_Level(t *testing.T) {
	cases := map[Verdict]Verdict{
		"SAFE":          VerdictSafe,
		"seguro":        VerdictSafe,
		" Sospechoso ":  VerdictSuspicious,
		"SUSPICIOUS":    VerdictSuspicious,
		"PELIGROSO":     VerdictDangerous,
		"dangerous":     VerdictDangerous,
		"ERROR":         VerdictError,
		"probably fine": "",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, in.Level(), "verdict %q", in)
	}
}

func TestAssessmentRecord_Failed(t *testing.T) {
	t.Run("Should report only the error variant as failed", func(t *testing.T) {
		assert.True(t, AssessmentRecord{Verdict: VerdictError}.Failed())
		assert.False(t, AssessmentRecord{Verdict: "PELIGROSO"}.Failed())
		assert.False(t, AssessmentRecord{Verdict: VerdictSafe}.Failed())
	})
}

func TestLookupPromptTemplate(t *testing.T) {
	t.Run("Should find templates case-insensitively", func(t *testing.T) {
		tpl, err := LookupPromptTemplate(" EN ")
		assert.NoError(t, err)
		assert.Equal(t, "en", tpl.Language)
	})

	t.Run("Should reject unknown languages", func(t *testing.T) {
		_, err := LookupPromptTemplate("fr")
		assert.Error(t, err)
	})
}
