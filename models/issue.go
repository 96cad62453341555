package models

import (
	"time"
)

// IssueStatus enum
type IssueStatus string

const (
	Pending    IssueStatus = "PENDING"
	Assigned   IssueStatus = "ASSIGNED"
	InProgress IssueStatus = "IN_PROGRESS"
	Resolved   IssueStatus = "RESOLVED"
	Rejected   IssueStatus = "REJECTED"
)

// IsTerminal reports whether the status is a terminal state. Terminal issues
// are excluded from duplicate comparison and worker action.
func (s IssueStatus) IsTerminal() bool {
	return s == Resolved || s == Rejected
}

// IssuePriority enum
type IssuePriority string

const (
	PriorityLow    IssuePriority = "LOW"
	PriorityMedium IssuePriority = "MEDIUM"
	PriorityHigh   IssuePriority = "HIGH"
)

// Categories the classifier is allowed to assign.
var Categories = []string{
	"Roads & Safety",
	"Garbage & Sanitation",
	"Water Supply",
	"Electricity",
	"Public Transport",
	"Traffic",
	"Parks & Trees",
	"Other",
}

// Departments the classifier is allowed to route to.
var Departments = []string{
	"Public Works",
	"Municipal Corp",
	"Traffic Police",
	"Water Board",
	"Electric Board",
}

// Fallback values applied when classification fails. They sit outside the
// closed sets on purpose so a moderator can spot unclassified reports.
const (
	FallbackCategory   = "Uncategorized"
	FallbackDepartment = "General Administration"
)

// ValidCategory reports whether c is in the closed category set.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidDepartment reports whether d is in the closed department set.
func ValidDepartment(d string) bool {
	for _, v := range Departments {
		if v == d {
			return true
		}
	}
	return false
}

// ValidPriority reports whether p is a known priority.
func ValidPriority(p IssuePriority) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// Location is where an issue was reported. The address arrives after the
// coordinates (reverse geocoding lags the device fix).
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

// Comment on an issue. Immutable once created; only ever appended.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Status      IssueStatus   `json:"status"`
	Location    Location      `json:"location"`
	Image       string        `json:"image,omitempty"`
	ReportedBy  string        `json:"reportedBy"`
	ReportedAt  time.Time     `json:"reportedAt"`
	AssignedTo  string        `json:"assignedTo,omitempty"`
	Priority    IssuePriority `json:"priority"`
	Department  string        `json:"department"`
	Upvotes     int           `json:"upvotes"`
	Comments    []Comment     `json:"comments"`
}

// SeedIssues returns the demo dataset installed on first run: five issues
// spanning every non-rejected status so each dashboard has something to show.
func SeedIssues(now time.Time) []Issue {
	return []Issue{
		{
			ID:          "1",
			Title:       "Large Pothole on Main St",
			Description: "Deep pothole causing traffic issues near the signal.",
			Category:    "Roads & Safety",
			Status:      Pending,
			Location:    Location{Lat: 19.076, Lng: 72.877, Address: "Main Street, Mumbai"},
			Image:       "https://images.unsplash.com/photo-1515162816999-a0c47dc192f7?auto=format&fit=crop&q=80&w=800",
			ReportedBy:  "user1",
			ReportedAt:  now,
			Priority:    PriorityHigh,
			Department:  "Public Works",
			Upvotes:     12,
			Comments: []Comment{
				{
					ID:        "c1",
					UserID:    "u2",
					UserName:  "Citizen Jane",
					Text:      "This is really dangerous for bikers.",
					Timestamp: now,
				},
			},
		},
		{
			ID:          "2",
			Title:       "Garbage pile near Park",
			Description: "Garbage hasn't been picked up for 3 days.",
			Category:    "Garbage & Sanitation",
			Status:      InProgress,
			Location:    Location{Lat: 19.080, Lng: 72.880, Address: "Sunrise Park Road"},
			Image:       "https://images.unsplash.com/photo-1530587191325-3db32d826c18?auto=format&fit=crop&q=80&w=800",
			ReportedBy:  "user2",
			ReportedAt:  now.Add(-24 * time.Hour),
			Priority:    PriorityMedium,
			Department:  "Municipal Corp",
			Upvotes:     5,
			Comments:    []Comment{},
		},
		{
			ID:          "w1",
			Title:       "Broken Street Light #42",
			Description: "Street light blinking and sparking intermittently.",
			Category:    "Electricity",
			Status:      Assigned,
			AssignedTo:  "WORKER_01",
			Location:    Location{Lat: 19.100, Lng: 72.890, Address: "Sector 5, Market Road"},
			ReportedBy:  "user3",
			ReportedAt:  now.Add(-48 * time.Hour),
			Priority:    PriorityMedium,
			Department:  "Electric Board",
			Upvotes:     2,
			Comments:    []Comment{},
		},
		{
			ID:          "w2",
			Title:       "Water Pipe Leakage",
			Description: "Major pipeline burst flooding the intersection.",
			Category:    "Water Supply",
			Status:      InProgress,
			AssignedTo:  "WORKER_01",
			Location:    Location{Lat: 19.110, Lng: 72.900, Address: "Junction 9, MG Road"},
			ReportedBy:  "user4",
			ReportedAt:  now.Add(-time.Hour),
			Priority:    PriorityHigh,
			Department:  "Water Board",
			Upvotes:     25,
			Comments:    []Comment{},
		},
		{
			ID:          "w3",
			Title:       "Illegal Parking Blockade",
			Description: "Car parked in front of fire hydrant.",
			Category:    "Traffic",
			Status:      Resolved,
			AssignedTo:  "WORKER_01",
			Location:    Location{Lat: 19.120, Lng: 72.910, Address: "Civil Lines"},
			ReportedBy:  "user5",
			ReportedAt:  now.Add(-120 * time.Hour),
			Priority:    PriorityMedium,
			Department:  "Traffic Police",
			Upvotes:     8,
			Comments:    []Comment{},
		},
	}
}
