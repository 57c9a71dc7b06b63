package model

// Section identifies one of the fixed paper sections.
type Section string

const (
	SectionAbstract         Section = "abstract"
	SectionIntroduction     Section = "introduction"
	SectionLiteratureReview Section = "literature_review"
	SectionMethodology      Section = "methodology"
	SectionResults          Section = "results"
	SectionDiscussion       Section = "discussion"
	SectionConclusion       Section = "conclusion"
)

// SectionEntry pairs a section key with its display title. Sections is the
// single ordered table used for both generation order and export order so
// the two cannot drift apart.
type SectionEntry struct {
	Key   Section
	Title string
}

// Sections is the fixed, ordered set of paper sections.
var Sections = []SectionEntry{
	{SectionAbstract, "Abstract"},
	{SectionIntroduction, "Introduction"},
	{SectionLiteratureReview, "Literature Review"},
	{SectionMethodology, "Methodology"},
	{SectionResults, "Results"},
	{SectionDiscussion, "Discussion"},
	{SectionConclusion, "Conclusion"},
}

// ValidSection reports whether key names a known paper section.
func ValidSection(key Section) bool {
	for _, e := range Sections {
		if e.Key == key {
			return true
		}
	}
	return false
}

// PaperContent maps section keys to section text. An absent or empty key
// means "not yet generated"; that is a valid intermediate state. The text
// is opaque UTF-8 and is never interpreted as markup.
type PaperContent map[Section]string

// Has reports whether the section has non-empty text.
func (p PaperContent) Has(key Section) bool {
	return p[key] != ""
}

// Complete reports whether every fixed section maps to non-empty text.
// Completeness gates the completed status and full export.
func (p PaperContent) Complete() bool {
	for _, e := range Sections {
		if p[e.Key] == "" {
			return false
		}
	}
	return true
}

// Count returns the number of non-empty sections.
func (p PaperContent) Count() int {
	n := 0
	for _, e := range Sections {
		if p[e.Key] != "" {
			n++
		}
	}
	return n
}

// Clone returns a copy of the content map.
func (p PaperContent) Clone() PaperContent {
	cp := make(PaperContent, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}
