package ds

import "time"

// Статусы заявки на услугу
const (
	RequestStatusPending       = "pending"
	RequestStatusInProgress    = "in_progress"
	RequestStatusApproved      = "approved"
	RequestStatusRejected      = "rejected"
	RequestStatusInfoRequested = "info_requested"
	RequestStatusCancelled     = "cancelled"
)

// Виды услуг
const (
	ServiceTypeDrilling    = "drilling"
	ServiceTypeSupply      = "supply"
	ServiceTypeManning     = "manning"
	ServiceTypeMaintenance = "maintenance"
	ServiceTypeSurvey      = "survey"
	ServiceTypeOther       = "other"
)

// Таблица заявок на услуги
type ServiceRequest struct {
	ID          uint   `gorm:"primaryKey"`
	ClientID    uint   `gorm:"not null;index"`
	ServiceType string `gorm:"type:varchar(30);not null"`
	Details     JSONB  `gorm:"type:jsonb"` // Поля зависят от вида услуги, см. details.go
	Status      string `gorm:"type:varchar(20);not null;default:'pending'"`

	AdminNotes        string     `gorm:"type:text"`
	ClientResponse    string     `gorm:"type:text"`
	ClientRespondedAt *time.Time `gorm:"default:null"`

	ReviewedBy *uint      `gorm:"default:null"`
	ReviewedAt *time.Time `gorm:"default:null"`
	CreatedAt  time.Time  `gorm:"not null"`

	Client   User  `gorm:"foreignKey:ClientID"`
	Reviewer *User `gorm:"foreignKey:ReviewedBy"`
}

// Допустимые переходы статусов заявки.
// approved и rejected - терминальные, из info_requested можно вернуться
// на повторное рассмотрение (ответ клиента переводит в pending).
var requestTransitions = map[string][]string{
	RequestStatusPending:       {RequestStatusInProgress, RequestStatusCancelled},
	RequestStatusInProgress:    {RequestStatusApproved, RequestStatusRejected, RequestStatusInfoRequested},
	RequestStatusInfoRequested: {RequestStatusApproved, RequestStatusRejected, RequestStatusInfoRequested, RequestStatusPending},
}

// CanTransitionRequest проверяет допустимость перехода статуса заявки
func CanTransitionRequest(from, to string) bool {
	for _, allowed := range requestTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidServiceType проверяет, что вид услуги из известного набора
func ValidServiceType(t string) bool {
	switch t {
	case ServiceTypeDrilling, ServiceTypeSupply, ServiceTypeManning,
		ServiceTypeMaintenance, ServiceTypeSurvey, ServiceTypeOther:
		return true
	}
	return false
}
