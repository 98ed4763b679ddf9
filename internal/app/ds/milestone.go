package ds

import (
	"math"
	"time"
)

// Статусы этапа
const (
	MilestoneStatusPending    = "pending"
	MilestoneStatusInProgress = "in_progress"
	MilestoneStatusCompleted  = "completed"
	MilestoneStatusSkipped    = "skipped"
	MilestoneStatusCancelled  = "cancelled"
)

// Таблица этапов проекта
type Milestone struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`

	DueDate     *time.Time `gorm:"default:null"`
	CompletedAt *time.Time `gorm:"default:null"`
	IsCompleted bool       `gorm:"type:boolean;default:false;not null"`
	IsCustom    bool       `gorm:"type:boolean;default:false;not null"`
	Status      string     `gorm:"type:varchar(20);default:'pending'"`
	SortOrder   int        `gorm:"type:int;default:0"`

	CompletedBy *uint     `gorm:"default:null"`
	CreatedAt   time.Time `gorm:"not null"`

	Project Project `gorm:"foreignKey:ProjectID"`
}

// MilestoneProgress считает процент готовности проекта.
// Значение не хранится, пересчитывается на каждое чтение.
func MilestoneProgress(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	completed := 0
	for _, m := range milestones {
		if m.IsCompleted {
			completed++
		}
	}
	return int(math.Round(100 * float64(completed) / float64(len(milestones))))
}
