// Package model holds the read-only entities the scoring engines operate on.
package model

import (
	"strings"
	"time"
)

// JobStatus is the lifecycle state of a posting.
type JobStatus string

const (
	StatusDraft  JobStatus = "draft"
	StatusOpen   JobStatus = "open"
	StatusClosed JobStatus = "closed"
)

// JobType is the employment type of a posting.
type JobType string

const (
	TypeFullTime   JobType = "full_time"
	TypePartTime   JobType = "part_time"
	TypeContract   JobType = "contract"
	TypeInternship JobType = "internship"
	TypeRemote     JobType = "remote"
)

type SeekerProfile struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone,omitempty"`
	Location        string   `json:"location,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Skills          []string `json:"skills"`
	ExperienceYears int      `json:"experience_years"`
}

type CompanyInfo struct {
	Name     string `json:"name"`
	Industry string `json:"industry,omitempty"`
	Size     string `json:"size,omitempty"`
	Location string `json:"location,omitempty"`
}

type JobPosting struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description,omitempty"`
	Requirements string       `json:"requirements,omitempty"`
	Location     string       `json:"location,omitempty"`
	Type         JobType      `json:"type,omitempty"`
	Category     string       `json:"category,omitempty"`
	Skills       []string     `json:"skills"`
	Status       JobStatus    `json:"status"`
	PostedAt     time.Time    `json:"posted_at"`
	Deadline     *time.Time   `json:"deadline,omitempty"`
	Company      *CompanyInfo `json:"company,omitempty"`
}

// Eligible reports whether the posting can be shown to a seeker at now.
func (j *JobPosting) Eligible(now time.Time) bool {
	if j == nil || j.Status != StatusOpen {
		return false
	}
	return j.Deadline == nil || !j.Deadline.Before(now)
}

// Industry returns the company industry or an empty string.
func (j *JobPosting) Industry() string {
	if j == nil || j.Company == nil {
		return ""
	}
	return j.Company.Industry
}

// CompanyName returns the company name or an empty string.
func (j *JobPosting) CompanyName() string {
	if j == nil || j.Company == nil {
		return ""
	}
	return j.Company.Name
}

type ApplicationRecord struct {
	SeekerID  int64     `json:"seeker_id"`
	JobID     int64     `json:"job_id"`
	AppliedAt time.Time `json:"applied_at"`
}

// AppliedJobIDs collects the job ids referenced by the records.
func AppliedJobIDs(records []ApplicationRecord) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.JobID)
	}
	return ids
}

// NormalizeSkills trims and lower-cases skills, dropping empties and duplicates.
func NormalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		n := strings.ToLower(strings.TrimSpace(s))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Dedupe removes case-insensitive duplicates and blanks, keeping the first
// spelling seen and the original order.
func Dedupe(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed == "" {
			continue
		}
		key := strings.ToLower(trimmed)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
