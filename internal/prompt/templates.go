// Package prompt holds the prompt templates driving information collection
// and paper generation.
package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/scholarly-ai/paper-agent/internal/model"
)

// SystemRole frames every conversation.
const SystemRole = `You are an experienced academic writing advisor with years of research and paper-supervision experience.
Your task is to help researchers produce high-quality academic papers that are rigorous, well-structured, and original.
You guide users to provide detailed information and turn that information into complete, logically organized papers.`

// RequiredFields is the set of collected-information fields that must be
// present before generation can start on the conversational path.
var RequiredFields = []string{
	"research_topic",
	"research_background",
	"research_objective",
	"research_methods",
	"data_sources",
	"research_findings",
}

// MissingFields returns the required fields absent from info, in the
// canonical order.
func MissingFields(info map[string]string) []string {
	var missing []string
	for _, field := range RequiredFields {
		if strings.TrimSpace(info[field]) == "" {
			missing = append(missing, field)
		}
	}
	return missing
}

// stageQuestions are the static guidance questions for each collection
// stage, used directly and as fallback when the collaborator is
// unavailable.
var stageQuestions = map[model.Stage]string{
	model.StageInitial: `As your academic writing advisor, I will help you produce a high-quality paper.

To get started, I need some basic information:

1. **Research topic**: What problem or area does your research focus on?
2. **Research background**: Why this topic? What is its practical significance?
3. **Research objective**: What do you hope the study achieves?
4. **Target venue**: Which journal or conference are you writing for?

Please answer briefly and I will guide you from there.`,

	model.StageResearchBackground: `Thank you. Let us dig into the research background:

1. **Theoretical basis**: Which theories or conceptual frameworks underpin the study?
2. **Prior work**: What are the important existing results in this area?
3. **Research gap**: What do existing studies leave unaddressed?
4. **Research question**: What specific question does your study answer?

Detailed background makes for a persuasive introduction.`,

	model.StageLiteratureReview: `Let us round out the literature review:

1. **Core literature**: Which classic works must this paper engage with?
2. **Recent studies**: What important related work appeared in the last 3-5 years?
3. **Theoretical framework**: Which frameworks do you adopt or reference?
4. **Schools of thought**: What competing perspectives exist in the field?
5. **Critical view**: Where do you disagree with the existing work?

A thorough review demonstrates command of the field.`,

	model.StageMethodology: `Next, the research methods:

1. **Research design**: Experiment, case study, survey, or something else?
2. **Data sources**: Where does the data come from, and how large is the sample?
3. **Collection methods**: Questionnaires, interviews, observation, experiments?
4. **Analysis methods**: Statistical analysis, content analysis, modeling?
5. **Tools**: Which software or instruments did you use?

A clear methodology is essential to the paper's credibility.`,

	model.StageResults: `Now the results:

1. **Main findings**: What are the principal findings or conclusions?
2. **Data presentation**: Which data, figures, or statistics will you show?
3. **Key indicators**: What are the decisive quantitative or qualitative measures?
4. **Surprises**: Any unexpected but valuable findings?

Please be as specific as possible, including concrete numbers.`,

	model.StageDiscussion: `Let us discuss what the results mean:

1. **Interpretation**: How do you explain the findings? Why these results?
2. **Theoretical contribution**: What does the study add to or challenge in theory?
3. **Practical implications**: How should practitioners act on the results?
4. **Limitations**: Where is the study limited?
5. **Future work**: What follow-up directions does it open?

This discussion gives the paper its depth.`,
}

// StageQuestion returns the static guidance question for a collection
// stage, or an empty string for non-conversational stages.
func StageQuestion(stage model.Stage) string {
	return stageQuestions[stage]
}

// GenerationNotice is the assistant message sent when information
// collection finishes and generation begins.
const GenerationNotice = `Excellent - I have enough information now. I will generate the paper in seven steps:

1. Abstract
2. Introduction
3. Literature Review
4. Methodology
5. Results
6. Discussion
7. Conclusion

This can take a few minutes; please stand by.`

// CompletionNotice is the assistant message sent when the full paper has
// been assembled.
const CompletionNotice = `The paper is complete. You can review the full document, export it, or ask me to regenerate any individual section.`

// FormatInfo renders collected information as a stable, readable block for
// inclusion in prompts. Keys are sorted so the same information always
// produces the same prompt.
func FormatInfo(info map[string]string) string {
	if len(info) == 0 {
		return "(no information collected yet)"
	}
	keys := make([]string, 0, len(info))
	for k := range info {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", k, info[k])
	}
	return b.String()
}

// ExtractionSystem frames the field-extraction call.
const ExtractionSystem = "You are an information extraction expert who pulls structured facts out of free text."

// Extraction asks the collaborator to turn a user turn into structured
// collected-information fields.
func Extraction(userInput string, stage model.Stage) string {
	return fmt.Sprintf(`Extract academic-paper-related information from the user input below.

User input:
%s

Current stage: %s

Extract any of these fields that are present:
research_topic, research_background, research_objective, research_methods,
data_sources, research_findings, theoretical_basis, literature, research_question,
significance, limitations, future_work

Respond with a single JSON object mapping field names to values, for example:
{"research_topic": "...", "research_background": "..."}

Omit fields that are not present. Respond with JSON only.`, userInput, stage)
}

// Guidance asks the collaborator for the next round of guiding questions,
// aware of what has already been collected.
func Guidance(stage model.Stage, info map[string]string) string {
	return fmt.Sprintf(`You are collecting information for an academic paper. The conversation is in the %q stage.

Information collected so far:
%s
Ask the user the next round of focused, guiding questions for this stage. Acknowledge what they already provided, do not re-ask for it, and keep the reply concise.`, stage, FormatInfo(info))
}

// MissingInfo asks the user to fill specific gaps before generation.
func MissingInfo(missing []string) string {
	return fmt.Sprintf(`Thank you for the details so far. A few key pieces are still missing before I can generate a complete paper:

Missing: %s

You can either provide this information, or tell me to go ahead with what we have.`, strings.Join(missing, ", "))
}

// sectionInstructions describe what each section of the paper must cover.
var sectionInstructions = map[model.Section]string{
	model.SectionAbstract: `Write the Abstract (200-300 words): research purpose, methods, key results, and conclusions, in a single tight paragraph.`,
	model.SectionIntroduction: `Write the Introduction: research background and motivation, the research gap, the research question, the study's significance, and a brief roadmap of the paper.`,
	model.SectionLiteratureReview: `Write the Literature Review: organize prior work thematically, cover the theoretical framework, engage critically with existing studies, and position this study in the gap they leave.`,
	model.SectionMethodology: `Write the Methodology: research design, data sources and sample, collection procedures, analysis methods, and tools, in enough detail to be reproducible.`,
	model.SectionResults: `Write the Results: present the main findings objectively and in a logical order, referencing the key indicators and data provided. Do not interpret yet.`,
	model.SectionDiscussion: `Write the Discussion: interpret the findings, relate them to prior work, state theoretical contributions and practical implications, and acknowledge limitations.`,
	model.SectionConclusion: `Write the Conclusion: synthesize the results and discussion into the study's answer to its research question, restate contributions, and outline future work.`,
}

// Section builds the generation prompt for one paper section. Earlier
// sections are included so later sections can build on them.
func Section(section model.Section, info map[string]string, prior model.PaperContent, requirements string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", sectionInstructions[section])
	fmt.Fprintf(&b, "Research information:\n%s\n", FormatInfo(info))

	var priorParts []string
	for _, e := range model.Sections {
		if e.Key == section {
			break
		}
		if prior.Has(e.Key) {
			priorParts = append(priorParts, fmt.Sprintf("### %s\n%s", e.Title, prior[e.Key]))
		}
	}
	if len(priorParts) > 0 {
		fmt.Fprintf(&b, "\nSections already written (stay consistent with them):\n\n%s\n", strings.Join(priorParts, "\n\n"))
	}

	if requirements != "" {
		fmt.Fprintf(&b, "\nAdditional requirements: %s\n", requirements)
	}

	b.WriteString("\nWrite only the section text, without a heading.")
	return b.String()
}
