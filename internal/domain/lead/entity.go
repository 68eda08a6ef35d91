package lead

import (
	"time"

	"github.com/google/uuid"
)

// Status represents lead status
type Status string

const (
	StatusNew       Status = "New"
	StatusContacted Status = "Contacted"
	StatusQualified Status = "Qualified"
	StatusLost      Status = "Lost"
	StatusCancelled Status = "Cancelled"
	StatusConfirmed Status = "Confirmed"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusNew,
	StatusContacted,
	StatusQualified,
	StatusLost,
	StatusCancelled,
	StatusConfirmed,
}

// IsValid reports whether s is one of the enumerated statuses.
func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Source represents where a lead came from
type Source string

const (
	SourceWebsite       Source = "Website"
	SourceReferral      Source = "Referral"
	SourceSocialMedia   Source = "Social Media"
	SourceAdvertisement Source = "Advertisement"
	SourceEmail         Source = "Email"
	SourceOther         Source = "Other"
)

var Sources = []Source{
	SourceWebsite,
	SourceReferral,
	SourceSocialMedia,
	SourceAdvertisement,
	SourceEmail,
	SourceOther,
}

func (s Source) IsValid() bool {
	for _, v := range Sources {
		if s == v {
			return true
		}
	}
	return false
}

// Lead is a prospective-customer contact tracked through the status pipeline.
type Lead struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	// Contact
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"not null;uniqueIndex:idx_leads_email" json:"email"`
	Phone string `gorm:"size:10;not null" json:"phone"`

	// Pipeline
	Status       Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	Source       Source     `gorm:"type:varchar(20);not null" json:"source"`
	Notes        string     `json:"notes,omitempty"`
	FollowUpDate *time.Time `json:"followUpDate,omitempty"`
	AssignedTo   string     `gorm:"not null;default:''" json:"assignedTo"`

	// Metadata
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName pins the table name.
func (Lead) TableName() string {
	return "leads"
}

// listColumns is the projection used by the list view.
var listColumns = []string{
	"id", "name", "email", "phone", "status", "source", "assigned_to", "created_at", "updated_at",
}
