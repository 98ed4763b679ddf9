package ds

import "time"

// Категории внутренних документов
var DocumentCategories = []string{
	"License", "Certificate", "Policy", "Contract",
	"Insurance", "Report", "Manual", "Other",
}

// ValidDocumentCategory проверяет категорию по закрытому набору
func ValidDocumentCategory(c string) bool {
	for _, cat := range DocumentCategories {
		if cat == c {
			return true
		}
	}
	return false
}

// Таблица внутренних документов компании (не привязаны к проекту)
type InternalDocument struct {
	ID             uint   `gorm:"primaryKey"`
	Title          string `gorm:"type:varchar(200);not null"`
	Description    string `gorm:"type:text"`
	Category       string `gorm:"type:varchar(30);not null"`
	IsConfidential bool   `gorm:"type:boolean;default:false;not null"`
	StorageKey     string `gorm:"type:varchar(255);not null"`
	FileType       string `gorm:"type:varchar(100)"`
	FileSize       int64  `gorm:"type:bigint;default:0"`

	CreatedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Creator User `gorm:"foreignKey:CreatedBy"`
}

// Таблица выдачи внутренних документов клиентам.
// Уникальный индекс - не больше одной выдачи на пару (клиент, документ),
// конфликт вставки и есть ответ "уже выдан".
type ClientDocumentShare struct {
	ID         uint   `gorm:"primaryKey"`
	DocumentID uint   `gorm:"not null;index;uniqueIndex:idx_client_document"`
	ClientID   uint   `gorm:"not null;index;uniqueIndex:idx_client_document"`
	Note       string `gorm:"type:text"`

	GrantedBy uint      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	Document InternalDocument `gorm:"foreignKey:DocumentID"`
	ClientU  User             `gorm:"foreignKey:ClientID"`
	Granter  User             `gorm:"foreignKey:GrantedBy"`
}
