package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsOrder(t *testing.T) {
	want := []Section{
		SectionAbstract,
		SectionIntroduction,
		SectionLiteratureReview,
		SectionMethodology,
		SectionResults,
		SectionDiscussion,
		SectionConclusion,
	}
	require.Len(t, Sections, len(want))
	for i, e := range Sections {
		assert.Equal(t, want[i], e.Key)
		assert.NotEmpty(t, e.Title)
	}
}

func TestValidSection(t *testing.T) {
	assert.True(t, ValidSection(SectionAbstract))
	assert.True(t, ValidSection(SectionConclusion))
	assert.False(t, ValidSection("appendix"))
	assert.False(t, ValidSection(""))
}

func TestPaperContentCompleteness(t *testing.T) {
	content := make(PaperContent)
	assert.False(t, content.Has(SectionAbstract))
	assert.False(t, content.Complete())
	assert.Equal(t, 0, content.Count())

	for _, e := range Sections {
		content[e.Key] = "text for " + string(e.Key)
	}
	assert.True(t, content.Complete())
	assert.Equal(t, len(Sections), content.Count())

	// An empty string counts as absent, not present.
	content[SectionResults] = ""
	assert.False(t, content.Has(SectionResults))
	assert.False(t, content.Complete())
	assert.Equal(t, len(Sections)-1, content.Count())
}

func TestPaperContentClone(t *testing.T) {
	content := PaperContent{SectionAbstract: "original"}
	cp := content.Clone()
	cp[SectionAbstract] = "changed"
	assert.Equal(t, "original", content[SectionAbstract])
}
