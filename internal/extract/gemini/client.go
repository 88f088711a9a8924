// Package gemini implements structured resume extraction over the Gemini API.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-screener/internal/extract"
)

const defaultModel = "gemini-2.5-pro"

// Extractor asks Gemini for a JSON document matching the profile schema.
type Extractor struct {
	client    *genai.Client
	modelName string
}

// New creates an Extractor configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Extractor, error) {
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
		model = defaultModel
	}
	return &Extractor{client: client, modelName: model}, nil
}

// Extract sends the parsed resume text to Gemini with a constrained JSON
// response schema and decodes the result.
func (e *Extractor) Extract(ctx context.Context, parsedText string) (*extract.StructuredProfile, error) {
	if e == nil || e.client == nil {
		return nil, errors.New("gemini extractor is not initialized")
	}
	if strings.TrimSpace(parsedText) == "" {
		return nil, errors.New("parsed text must not be empty")
	}

	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   profileSchema(),
	}
	resp, err := e.client.Models.GenerateContent(ctx, e.modelName, genai.Text(extract.BuildPrompt(parsedText)), cfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := strings.TrimSpace(resp.Text())
	if raw == "" {
		return nil, errors.New("gemini api returned empty response")
	}
	raw = stripCodeFence(raw)

	var profile extract.StructuredProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		return nil, fmt.Errorf("decode profile json: %w", err)
	}
	return &profile, nil
}

// stripCodeFence removes a markdown code fence some models wrap JSON in.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func profileSchema() *genai.Schema {
	stringList := func(desc string) *genai.Schema {
		return &genai.Schema{
			Type:        genai.TypeArray,
			Description: desc,
			Items:       &genai.Schema{Type: genai.TypeString},
		}
	}

	return &genai.Schema{
		Type:     genai.TypeObject,
		Required: []string{"personal_info"},
		Properties: map[string]*genai.Schema{
			"personal_info": {
				Type:     genai.TypeObject,
				Required: []string{"name"},
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString, Description: "Full name of the person"},
					"email":    {Type: genai.TypeString, Description: "Valid email address"},
					"phone":    {Type: genai.TypeString, Description: "Phone number in any standard format"},
					"location": {Type: genai.TypeString, Description: "City, State/Country location"},
					"linkedin": {Type: genai.TypeString, Description: "LinkedIn profile URL or username"},
				},
			},
			"professional_summary": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"headline":               {Type: genai.TypeString, Description: "Professional headline or job title"},
					"summary":                {Type: genai.TypeString, Description: "Professional summary paragraph"},
					"total_experience_years": {Type: genai.TypeInteger, Description: "Total years of professional experience"},
					"career_level":           {Type: genai.TypeString, Description: "One of: entry, junior, mid, senior, executive"},
				},
			},
			"work_experience": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"title":             {Type: genai.TypeString},
						"company":           {Type: genai.TypeString},
						"start_date":        {Type: genai.TypeString},
						"end_date":          {Type: genai.TypeString, Description: "End date or Present"},
						"duration_months":   {Type: genai.TypeInteger},
						"responsibilities":  stringList("Key responsibilities"),
						"achievements":      stringList("Achievements and accomplishments"),
						"technologies_used": stringList("Technologies, tools and skills used"),
					},
				},
			},
			"skills": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"technical":      stringList("Technical skills and technologies"),
					"soft":           stringList("Soft skills"),
					"certifications": stringList("Professional certifications"),
				},
			},
			"education": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"degree":          {Type: genai.TypeString},
						"institution":     {Type: genai.TypeString},
						"graduation_year": {Type: genai.TypeInteger},
						"gpa":             {Type: genai.TypeString},
					},
				},
			},
			"keywords": stringList("Relevant keywords from the resume"),
		},
	}
}
