package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusCancelled ProjectStatus = "cancelled"
)

// ProjectStatuses lists every accepted status, in workflow order.
var ProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusActive,
	ProjectStatusOnHold,
	ProjectStatusCompleted,
	ProjectStatusCancelled,
}

func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
	ProjectPriorityUrgent ProjectPriority = "urgent"
)

func (p ProjectPriority) Valid() bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh, ProjectPriorityUrgent:
		return true
	}
	return false
}

// Project belongs to exactly one organization; OrganizationID is never updated.
type Project struct {
	ID               uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	OrganizationID   uuid.UUID       `json:"organizationId" gorm:"type:uuid;not null;index:idx_projects_organization_id"`
	Name             string          `json:"name" gorm:"size:255;not null"`
	Description      *string         `json:"description" gorm:"type:text"`
	Status           ProjectStatus   `json:"status" gorm:"size:50;not null;default:'planning';index:idx_projects_status"`
	Priority         ProjectPriority `json:"priority" gorm:"size:20;default:'medium'"`
	StartDate        *time.Time      `json:"startDate"`
	EndDate          *time.Time      `json:"endDate"`
	Deadline         *time.Time      `json:"deadline"`
	Budget           *string         `json:"budget" gorm:"type:numeric(15,2)"`
	Spent            *string         `json:"spent" gorm:"type:numeric(15,2)"`
	Progress         int             `json:"progress" gorm:"default:0"`
	ClientID         *uuid.UUID      `json:"clientId" gorm:"type:uuid;index:idx_projects_client_id"`
	ProjectManagerID *uuid.UUID      `json:"projectManagerId" gorm:"type:uuid;index:idx_projects_project_manager_id"`
	IsActive         bool            `json:"isActive" gorm:"not null;default:true"`
	CreatedBy        uuid.UUID       `json:"createdBy" gorm:"type:uuid;not null"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProjectStatusPlanning
	}
	if p.Priority == "" {
		p.Priority = ProjectPriorityMedium
	}
	normalizeDecimal(p.Budget)
	normalizeDecimal(p.Spent)
	return nil
}

// AfterFind renders money columns the same way on every driver. sqlite hands
// numeric(15,2) back as a float, so 1000.50 reads as "1000.5".
func (p *Project) AfterFind(tx *gorm.DB) error {
	normalizeDecimal(p.Budget)
	normalizeDecimal(p.Spent)
	return nil
}

// FormatDecimal writes a numeric(15,2) value with exactly two fraction digits.
func FormatDecimal(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if strings.ContainsAny(value, "eE") {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return value
		}
		return strconv.FormatFloat(f, 'f', 2, 64)
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" || whole == "-" {
		whole += "0"
	}
	if len(frac) < 2 {
		frac += strings.Repeat("0", 2-len(frac))
	}
	return whole + "." + frac[:2]
}

func normalizeDecimal(value *string) {
	if value != nil {
		*value = FormatDecimal(*value)
	}
}
