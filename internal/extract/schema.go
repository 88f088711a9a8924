// Package extract turns parsed resume text into a structured candidate
// profile via an LLM with a fixed response schema.
package extract

import (
	"errors"
	"strings"
)

// PersonalInfo identifies the candidate. Name is the only required field in
// the whole profile.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// ProfessionalSummary captures the headline view of a career.
type ProfessionalSummary struct {
	Headline             string `json:"headline,omitempty"`
	Summary              string `json:"summary,omitempty"`
	TotalExperienceYears *int   `json:"total_experience_years,omitempty"`
	CareerLevel          string `json:"career_level,omitempty"`
}

// WorkExperience is one position held by the candidate.
type WorkExperience struct {
	Title            string   `json:"title,omitempty"`
	Company          string   `json:"company,omitempty"`
	StartDate        string   `json:"start_date,omitempty"`
	EndDate          string   `json:"end_date,omitempty"`
	DurationMonths   *int     `json:"duration_months,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Achievements     []string `json:"achievements,omitempty"`
	TechnologiesUsed []string `json:"technologies_used,omitempty"`
}

// Skills groups the candidate's abilities.
type Skills struct {
	Technical      []string `json:"technical,omitempty"`
	Soft           []string `json:"soft,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
}

// Education is one qualification.
type Education struct {
	Degree         string `json:"degree,omitempty"`
	Institution    string `json:"institution,omitempty"`
	GraduationYear *int   `json:"graduation_year,omitempty"`
	GPA            string `json:"gpa,omitempty"`
}

// StructuredProfile is the full structured form of a resume.
type StructuredProfile struct {
	PersonalInfo        PersonalInfo         `json:"personal_info"`
	ProfessionalSummary *ProfessionalSummary `json:"professional_summary,omitempty"`
	WorkExperience      []WorkExperience     `json:"work_experience,omitempty"`
	Skills              *Skills              `json:"skills,omitempty"`
	Education           []Education          `json:"education,omitempty"`
	Keywords            []string             `json:"keywords,omitempty"`
}

var validCareerLevels = map[string]struct{}{
	"entry": {}, "junior": {}, "mid": {}, "senior": {}, "executive": {},
}

// Validate checks the structural invariants the extractor must honor.
func (p *StructuredProfile) Validate() error {
	if strings.TrimSpace(p.PersonalInfo.Name) == "" {
		return errors.New("personal_info.name is required")
	}
	if ps := p.ProfessionalSummary; ps != nil && ps.CareerLevel != "" {
		level := strings.ToLower(strings.TrimSpace(ps.CareerLevel))
		if _, ok := validCareerLevels[level]; !ok {
			return errors.New("career_level must be one of entry, junior, mid, senior, executive")
		}
		ps.CareerLevel = level
	}
	return nil
}
