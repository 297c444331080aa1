package domain

import "strings"

// Categories is the canonical list of issue categories offered by the
// submission form and referenced by validation.
var Categories = []string{
	"Academic Issue",
	"Admission & Registration",
	"Facilities & Infrastructure",
	"IT & Technology",
	"Library Services",
	"Student Services",
	"Transportation",
	"Hostel/Accommodation",
	"Financial Services",
	"Health & Safety",
	"Other",
}

// Departments is the canonical department list shared by the submission
// form and the statistics aggregation.
var Departments = []string{
	"Computer Science & Engineering",
	"Electrical & Electronic Engineering",
	"Civil Engineering",
	"Business Administration",
	"Economics",
	"English",
	"Mathematics",
	"Physics",
	"Chemistry",
	"Pharmacy",
	"Student Affairs",
	"Admissions Office",
	"IT Department",
	"Finance Office",
	"Library",
	"Registrar Office",
	"Other",
}

// KnownCategory reports membership in the canonical category list.
func KnownCategory(category string) bool {
	return contains(Categories, category)
}

// KnownDepartment reports membership in the canonical department list.
func KnownDepartment(department string) bool {
	return contains(Departments, department)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

const (
	// MinTitleLength is the minimum accepted issue title length.
	MinTitleLength = 5
	// MinDescriptionLength is the minimum accepted description length.
	MinDescriptionLength = 20
	// MaxAttachments caps how many attachment names a report may carry.
	MaxAttachments = 5
)

// IssueReport is a validated submission payload for a new issue.
type IssueReport struct {
	Title       string
	Description string
	Category    string
	Department  string
	Priority    IssuePriority
	Attachments []string
}

// Validate checks the field-level constraints the submission form
// enforces before the report reaches the lifecycle engine. A zero
// priority defaults to medium.
func (r *IssueReport) Validate() map[string]any {
	problems := map[string]any{}
	if len(strings.TrimSpace(r.Title)) < MinTitleLength {
		problems["title"] = "must be at least 5 characters"
	}
	if len(strings.TrimSpace(r.Description)) < MinDescriptionLength {
		problems["description"] = "must be at least 20 characters"
	}
	if !KnownCategory(r.Category) {
		problems["category"] = "unknown category"
	}
	if !KnownDepartment(r.Department) {
		problems["department"] = "unknown department"
	}
	if r.Priority == "" {
		r.Priority = IssuePriorityMedium
	}
	if !ValidPriority(r.Priority) {
		problems["priority"] = "must be one of low, medium, high, urgent"
	}
	if len(r.Attachments) > MaxAttachments {
		problems["attachments"] = "at most 5 attachments"
	}
	if len(problems) == 0 {
		return nil
	}
	return problems
}
