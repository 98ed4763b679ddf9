package ds

import "time"

// Типы записей ленты проекта
const (
	UpdateTypeProjectCreated     = "project_created"
	UpdateTypeContractUpdate     = "contract_update"
	UpdateTypeContractDeleted    = "contract_deleted"
	UpdateTypeDocumentAdded      = "document_added"
	UpdateTypeMilestoneCompleted = "milestone_completed"
	UpdateTypeInfoRequest        = "info_request"
	UpdateTypeStatusChange       = "status_change"
)

// Таблица ленты активности проекта.
// Только добавление - записи никогда не изменяются и не удаляются.
type ProjectUpdate struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"not null;index"`
	UpdateType  string `gorm:"type:varchar(30);not null"`
	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Metadata    JSONB  `gorm:"type:jsonb"` // В т.ч. document_id для contract_update/document_added
	Visibility  string `gorm:"type:varchar(20);not null;default:'internal'"`

	CreatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Project Project `gorm:"foreignKey:ProjectID"`
	Creator User    `gorm:"foreignKey:CreatedBy"`
}
