package jobprofile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const fillPrompt = `Extract the following information from this job posting:
- Job title
- Company name
- Location
- Job type (full-time, part-time, etc.)
- Experience level required
- Complete job description
- Requirements and qualifications
- Key responsibilities
- Salary range (if mentioned)
- Posted date (if available)

Job posting text:
---
%s
---`

// GeminiFiller structures job posting text via the Gemini API with a
// constrained JSON response schema.
type GeminiFiller struct {
	client    *genai.Client
	modelName string
}

// NewGeminiFiller creates a filler for the Gemini API backend.
func NewGeminiFiller(ctx context.Context, apiKey, model string) (*GeminiFiller, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = "gemini-2.5-pro"
	}
	return &GeminiFiller{client: client, modelName: model}, nil
}

// Fill implements Filler.
func (g *GeminiFiller) Fill(ctx context.Context, pageText string) (*JobProfile, error) {
	if g == nil || g.client == nil {
		return nil, errors.New("gemini filler is not initialized")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   jobSchema(),
	}
	prompt := fmt.Sprintf(fillPrompt, pageText)
	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, errors.New("gemini api returned empty response")
	}

	var profile JobProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode job profile json: %w", err)
	}
	return &profile, nil
}

func jobSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Required: []string{
			"job_title", "company_name", "location", "job_type",
			"experience_level", "job_description", "requirements", "responsibilities",
		},
		Properties: map[string]*genai.Schema{
			"job_title":        {Type: genai.TypeString, Description: "The job title"},
			"company_name":     {Type: genai.TypeString, Description: "The company name"},
			"location":         {Type: genai.TypeString, Description: "Job location"},
			"job_type":         {Type: genai.TypeString, Description: "Employment type (full-time, part-time, etc.)"},
			"experience_level": {Type: genai.TypeString, Description: "Required experience level"},
			"job_description":  {Type: genai.TypeString, Description: "Complete job description text"},
			"requirements":     {Type: genai.TypeString, Description: "Job requirements and qualifications"},
			"responsibilities": {Type: genai.TypeString, Description: "Key responsibilities"},
			"salary_range":     {Type: genai.TypeString, Description: "Salary information if available"},
			"posted_date":      {Type: genai.TypeString, Description: "When the job was posted"},
		},
	}
}
