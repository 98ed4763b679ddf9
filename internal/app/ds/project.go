package ds

import (
	"fmt"
	"math/rand"
	"time"
)

// Статусы проекта
const (
	ProjectStatusActive    = "active"
	ProjectStatusOnHold    = "on_hold"
	ProjectStatusCompleted = "completed"
	ProjectStatusCancelled = "cancelled"
)

// Статусы пост-обработки одобрения (сага создания проекта)
const (
	SetupStatusReady          = "ready"
	SetupStatusNeedsAttention = "needs_attention"
)

// Таблица проектов
type Project struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    uint   `gorm:"not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Status      string `gorm:"type:varchar(20);not null;default:'active'"`

	StartDate *time.Time `gorm:"default:null"`
	EndDate   *time.Time `gorm:"default:null"`

	Location      string  `gorm:"type:varchar(150)"`
	ServiceType   string  `gorm:"type:varchar(30)"`
	Vessel        string  `gorm:"type:varchar(100)"`
	ContractValue float64 `gorm:"type:decimal(14,2);default:0"`
	Notes         string  `gorm:"type:text"`

	// Уникальный индекс исключает второй проект по той же заявке
	// при одновременном одобрении двумя сотрудниками
	ServiceRequestID *uint  `gorm:"default:null;uniqueIndex"`
	TrackingCode     string `gorm:"type:varchar(20);index"`
	Metadata         JSONB  `gorm:"type:jsonb"`

	// ready / needs_attention - видимый статус пост-обработки одобрения
	SetupStatus string `gorm:"type:varchar(20);not null;default:'ready'"`

	CreatedAt time.Time `gorm:"not null"`

	Client         User            `gorm:"foreignKey:ClientID"`
	ServiceRequest *ServiceRequest `gorm:"foreignKey:ServiceRequestID"`
}

// GenerateTrackingCode формирует публичный код отслеживания вида IRS-1234-WX-2026.
// Пространство в 4 цифры допускает коллизии, уникальность не гарантируется.
func GenerateTrackingCode(now time.Time) string {
	return fmt.Sprintf("IRS-%04d-WX-%d", rand.Intn(10000), now.Year())
}
