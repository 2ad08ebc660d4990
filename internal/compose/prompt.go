package compose

import "fmt"

const promptTemplate = `
You are an expert technical writer. Transform the following research data into a well-structured, engaging blog post.

Topic: %s

Research Gaps:
%s

Research Questions:
%s

Research Methodology:
%s

Create a comprehensive blog post with the following structure:
1. Title (catchy and relevant)
2. Introduction (engaging hook about the topic)
3. Current Research Landscape (discuss the gaps identified in flowing paragraph format)
4. Key Research Questions (write the main question and sub-questions as flowing narrative paragraphs, NOT as bullet points or lists. Weave them naturally into the text)
5. Proposed Methodology (explain the research approach in paragraph format)
6. Potential Impact (discuss implications and future directions)
7. Conclusion (summarize key takeaways)

IMPORTANT FORMATTING RULES:
- Use markdown formatting with proper headings (# ## ###)
- Write ALL content in flowing paragraphs, NOT bullet points or numbered lists
- When presenting research questions, integrate them smoothly into narrative paragraphs
- Make it professional yet accessible
- Include relevant insights and connections between the data points
- DO NOT use bullet points (•, -, *) or numbered lists (1., 2., 3.) anywhere in the blog
`

// Prompt builds the instruction sent to the language model.
func Prompt(r Research) string {
	return fmt.Sprintf(promptTemplate, r.Topic, indented(r.Gaps), indented(r.Questions), indented(r.Methodology))
}
