package models

import (
	"time"

	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type Task struct {
	Record
	Title       string       `gorm:"type:varchar(255);not null" json:"title" binding:"required,nonblank"`
	Description string       `gorm:"type:text" json:"description"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'pending';index" json:"status" binding:"omitempty,oneof=pending in_progress completed cancelled"`
	Priority    TaskPriority `gorm:"type:varchar(10);not null;default:'medium'" json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time   `gorm:"index" json:"due_date"`
	FieldID     *uint64      `gorm:"index" json:"field_id"`
	AssignedTo  *uint64      `gorm:"index" json:"assigned_to"`

	// Relations
	Field *Field `gorm:"foreignKey:FieldID" json:"-"`
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	return nil
}

// TenantReferences resolves the field and the assignee, who must be a member
// of the task's company.
func (t *Task) TenantReferences() []Reference {
	refs := optionalFieldRef(t.FieldID)
	if t.AssignedTo != nil {
		refs = append(refs, Reference{Name: "assigned_to", Model: &CompanyMember{}, Column: "user_id", ID: *t.AssignedTo})
	}
	return refs
}

func (Task) ExportHeader() []string {
	return []string{"ID", "Title", "Status", "Priority", "Due date", "Field", "Assigned to"}
}

func (t Task) ExportRow() []string {
	return []string{
		formatID(t.ID), t.Title, string(t.Status), string(t.Priority),
		formatOptionalDate(t.DueDate), formatOptionalID(t.FieldID), formatOptionalID(t.AssignedTo),
	}
}
