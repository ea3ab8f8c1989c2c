package models

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "TO_DO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusCompleted  TaskStatus = "COMPLETED"
)

var ErrInvalidTaskStatus = errors.New("invalid task status")

// ParseTaskStatus normalizes s to upper case and checks it against the known statuses.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return status, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

type Task struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	ProjectID     uint64     `gorm:"not null;index" json:"project_id"`
	Title         string     `gorm:"type:varchar(50);not null" json:"title"`
	Description   string     `gorm:"type:varchar(100);not null" json:"description"`
	DueDate       time.Time  `gorm:"type:date;not null" json:"due_date"`
	PriorityLevel string     `gorm:"type:varchar(100);not null" json:"priority_level"`
	Status        TaskStatus `gorm:"type:varchar(20);not null;default:'TO_DO'" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`

	// Relations
	Project Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
}
