package extract

import "fmt"

const promptTemplate = `You are an expert resume analyst. Extract structured information from the resume text below.

Rules:
- Extract only information present in the text. Never invent values.
- personal_info.name is required; leave other fields out when absent.
- career_level must be one of: entry, junior, mid, senior, executive.
- total_experience_years and duration_months are integers.
- keywords should capture the most relevant skills, technologies and domain terms.

Resume text:
---
%s
---`

// BuildPrompt renders the extraction prompt for one parsed resume.
func BuildPrompt(parsedText string) string {
	return fmt.Sprintf(promptTemplate, parsedText)
}
