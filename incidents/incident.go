// Package incidents covers citizen incident reports: submitting them, administering them,
// and shaping lists of them for tables, charts and maps.
package incidents

import (
	"fmt"
	"strings"
	"time"
)

type Type string

const (
	TypeRobbery    Type = "robbery"
	TypeAssault    Type = "assault"
	TypeVandalism  Type = "vandalism"
	TypeAccident   Type = "accident"
	TypeSuspicious Type = "suspicious_activity"
	TypeOther      Type = "other"
)

var Types = []Type{TypeRobbery, TypeAssault, TypeVandalism, TypeAccident, TypeSuspicious, TypeOther}

func (t Type) Valid() bool {
	for _, v := range Types {
		if t == v {
			return true
		}
	}
	return false
}

// Label is the human readable form used in tables and exports.
func (t Type) Label() string {
	s := strings.ReplaceAll(string(t), "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type Status string

const (
	StatusReported  Status = "reported"
	StatusInReview  Status = "in_review"
	StatusResolved  Status = "resolved"
	StatusDismissed Status = "dismissed"
)

var Statuses = []Status{StatusReported, StatusInReview, StatusResolved, StatusDismissed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Closed reports whether no further action is expected on the incident.
func (s Status) Closed() bool {
	return s == StatusResolved || s == StatusDismissed
}

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown incident type %q", s)
	}
	return t, nil
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("unknown incident status %q", s)
	}
	return st, nil
}

// AttachmentInfo describes a file uploaded with a report.
type AttachmentInfo struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Size        int64  `json:"size"`
}

type Incident struct {
	ID          string          `json:"id"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
	Latitude    float64         `json:"latitude"`
	Longitude   float64         `json:"longitude"`
	Address     string          `json:"address,omitempty"`
	Status      Status          `json:"status"`
	ReporterID  string          `json:"reporter_id,omitempty"`
	Attachment  *AttachmentInfo `json:"attachment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Report is what a citizen submits.
type Report struct {
	Type        Type    `json:"type" validate:"required,incident_type"`
	Description string  `json:"description" validate:"required,min=1,max=2000"`
	Latitude    float64 `json:"latitude" validate:"latitude"`
	Longitude   float64 `json:"longitude" validate:"longitude"`
	Address     string  `json:"address,omitempty" validate:"max=300"`
}

// HeatPoint is one weighted cell of the heatmap layer.
type HeatPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Weight    float64 `json:"weight"`
}
