package ds

import "time"

// Область видимости документов и записей ленты.
// Enum вместо булевого флага, чтобы новые области добавлялись без миграции логики.
const (
	VisibilityInternal = "internal"
	VisibilityClient   = "client"
)

// Заголовок сгенерированных контрактов, по нему ищется "текущий" контракт
const ContractTitlePrefix = "Service Contract - "

// Таблица документов проекта.
// Записи не обновляются после создания, только удаляются.
type ProjectDocument struct {
	ID          uint   `gorm:"primaryKey"`
	ProjectID   uint   `gorm:"not null;index"`
	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	StorageKey  string `gorm:"type:varchar(255);not null"` // Ключ объекта в MinIO
	FileType    string `gorm:"type:varchar(100)"`
	FileSize    int64  `gorm:"type:bigint;default:0"`
	Visibility  string `gorm:"type:varchar(20);not null;default:'internal'"`

	CreatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Project Project `gorm:"foreignKey:ProjectID"`
	Creator User    `gorm:"foreignKey:CreatedBy"`
}
