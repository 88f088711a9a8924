package score

import (
	"fmt"
	"strings"

	"resume-screener/internal/extract"
	"resume-screener/internal/jobprofile"
)

// resumeSections builds the focused section texts used by the fast scorer:
// skills, experience, then profile summary, skipping absent sections.
func resumeSections(p *extract.StructuredProfile) []string {
	var sections []string

	if p.Skills != nil && len(p.Skills.Technical) > 0 {
		sections = append(sections, "Technical expertise: "+strings.Join(p.Skills.Technical, ", "))
	}

	if len(p.WorkExperience) > 0 {
		var parts []string
		for _, exp := range p.WorkExperience {
			if exp.Title != "" {
				parts = append(parts, exp.Title)
			}
			if len(exp.TechnologiesUsed) > 0 {
				parts = append(parts, "using "+strings.Join(exp.TechnologiesUsed, ", "))
			}
		}
		if len(parts) > 0 {
			sections = append(sections, "Experience: "+strings.Join(parts, " "))
		}
	}

	if p.ProfessionalSummary != nil && p.ProfessionalSummary.Summary != "" {
		sections = append(sections, "Profile: "+p.ProfessionalSummary.Summary)
	}

	return sections
}

// jobSections builds the requirement section texts used by the fast scorer.
func jobSections(j *jobprofile.JobProfile) []string {
	return []string{
		fmt.Sprintf("Role: %s requiring %s level", j.JobTitle, j.ExperienceLevel),
		"Key requirements: " + j.Requirements,
		"Main responsibilities: " + j.Responsibilities,
	}
}

// resumeText builds the full-text representation used by the quality scorer.
func resumeText(p *extract.StructuredProfile) string {
	var parts []string

	if p.PersonalInfo.Name != "" {
		parts = append(parts, "Name: "+p.PersonalInfo.Name)
	}

	if ps := p.ProfessionalSummary; ps != nil {
		if ps.Headline != "" {
			parts = append(parts, "Professional Title: "+ps.Headline)
		}
		if ps.Summary != "" {
			parts = append(parts, "Summary: "+ps.Summary)
		}
		if ps.TotalExperienceYears != nil {
			parts = append(parts, fmt.Sprintf("Experience: %d years", *ps.TotalExperienceYears))
		}
	}

	for _, exp := range p.WorkExperience {
		if exp.Title != "" && exp.Company != "" {
			parts = append(parts, fmt.Sprintf("Position: %s at %s", exp.Title, exp.Company))
		}
		for _, resp := range exp.Responsibilities {
			parts = append(parts, "Responsibility: "+resp)
		}
		if len(exp.TechnologiesUsed) > 0 {
			parts = append(parts, "Technologies: "+strings.Join(exp.TechnologiesUsed, ", "))
		}
	}

	if s := p.Skills; s != nil {
		if len(s.Technical) > 0 {
			parts = append(parts, "Technical Skills: "+strings.Join(s.Technical, ", "))
		}
		if len(s.Certifications) > 0 {
			parts = append(parts, "Certifications: "+strings.Join(s.Certifications, ", "))
		}
	}

	for _, edu := range p.Education {
		if edu.Degree != "" && edu.Institution != "" {
			parts = append(parts, fmt.Sprintf("Education: %s from %s", edu.Degree, edu.Institution))
		}
	}

	return strings.Join(parts, " | ")
}

// jobText builds the full-text representation used by the quality scorer.
func jobText(j *jobprofile.JobProfile) string {
	return strings.Join([]string{
		"Job Title: " + j.JobTitle,
		"Company: " + j.CompanyName,
		"Experience Level: " + j.ExperienceLevel,
		"Job Description: " + j.JobDescription,
		"Requirements: " + j.Requirements,
		"Responsibilities: " + j.Responsibilities,
	}, " | ")
}

// comprehensiveResumeText builds the exhaustive representation used by the
// hybrid scorer, including achievements and soft skills.
func comprehensiveResumeText(p *extract.StructuredProfile) string {
	var sections []string

	if ps := p.ProfessionalSummary; ps != nil {
		if ps.Headline != "" {
			sections = append(sections, "Professional role: "+ps.Headline)
		}
		if ps.Summary != "" {
			sections = append(sections, "Professional summary: "+ps.Summary)
		}
		if ps.TotalExperienceYears != nil {
			sections = append(sections, fmt.Sprintf("Years of experience: %d", *ps.TotalExperienceYears))
		}
	}

	for _, exp := range p.WorkExperience {
		var parts []string
		if exp.Title != "" && exp.Company != "" {
			parts = append(parts, fmt.Sprintf("Worked as %s at %s", exp.Title, exp.Company))
		}
		if len(exp.Responsibilities) > 0 {
			parts = append(parts, "Key responsibilities included: "+strings.Join(exp.Responsibilities, " | "))
		}
		if len(exp.Achievements) > 0 {
			parts = append(parts, "Key achievements: "+strings.Join(exp.Achievements, " | "))
		}
		if len(exp.TechnologiesUsed) > 0 {
			parts = append(parts, "Technologies and tools used: "+strings.Join(exp.TechnologiesUsed, ", "))
		}
		if len(parts) > 0 {
			sections = append(sections, strings.Join(parts, " "))
		}
	}

	if s := p.Skills; s != nil {
		if len(s.Technical) > 0 {
			sections = append(sections, "Technical skills and expertise: "+strings.Join(s.Technical, ", "))
		}
		if len(s.Soft) > 0 {
			sections = append(sections, "Soft skills and capabilities: "+strings.Join(s.Soft, ", "))
		}
		if len(s.Certifications) > 0 {
			sections = append(sections, "Professional certifications: "+strings.Join(s.Certifications, ", "))
		}
	}

	for _, edu := range p.Education {
		if edu.Degree != "" && edu.Institution != "" {
			sections = append(sections, fmt.Sprintf("Educational background: %s from %s", edu.Degree, edu.Institution))
		}
	}

	return strings.Join(sections, " | ")
}

// comprehensiveJobText builds the exhaustive job representation used by the
// hybrid scorer.
func comprehensiveJobText(j *jobprofile.JobProfile) string {
	sections := []string{
		fmt.Sprintf("Job position: %s at %s", j.JobTitle, j.CompanyName),
		"Experience level required: " + j.ExperienceLevel,
		"Job overview: " + j.JobDescription,
		"Essential requirements and qualifications: " + j.Requirements,
		"Key responsibilities and duties: " + j.Responsibilities,
	}
	if j.SalaryRange != "" {
		sections = append(sections, "Compensation: "+j.SalaryRange)
	}
	return strings.Join(sections, " | ")
}
