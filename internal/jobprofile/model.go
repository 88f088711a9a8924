// Package jobprofile fetches and models the job posting a batch is screened
// against.
package jobprofile

import (
	"errors"
	"strings"
)

// JobProfile is the structured form of one job posting.
type JobProfile struct {
	JobTitle         string `json:"job_title"`
	CompanyName      string `json:"company_name"`
	Location         string `json:"location"`
	JobType          string `json:"job_type"`
	ExperienceLevel  string `json:"experience_level"`
	JobDescription   string `json:"job_description"`
	Requirements     string `json:"requirements"`
	Responsibilities string `json:"responsibilities"`
	SalaryRange      string `json:"salary_range,omitempty"`
	PostedDate       string `json:"posted_date,omitempty"`
}

// Validate checks that the core posting fields were filled.
func (p *JobProfile) Validate() error {
	switch {
	case strings.TrimSpace(p.JobTitle) == "":
		return errors.New("job_title is required")
	case strings.TrimSpace(p.JobDescription) == "":
		return errors.New("job_description is required")
	case strings.TrimSpace(p.Requirements) == "":
		return errors.New("requirements is required")
	case strings.TrimSpace(p.Responsibilities) == "":
		return errors.New("responsibilities is required")
	}
	return nil
}
