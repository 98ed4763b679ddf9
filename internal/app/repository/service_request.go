package repository

import (
	"errors"
	"fmt"
	"time"

	"irs-backend/internal/app/ds"
)

// Методы для заявок на услуги

// CreateServiceRequest создает заявку клиента в статусе pending
func (r *Repository) CreateServiceRequest(clientID uint, serviceType string, details ds.JSONB) (*ds.ServiceRequest, error) {
	if !ds.ValidServiceType(serviceType) {
		return nil, fmt.Errorf("неизвестный вид услуги: %s", serviceType)
	}

	// Проверяем что details разбираются в типизированный вариант
	if _, err := ds.DecodeDetails(serviceType, details); err != nil {
		return nil, fmt.Errorf("некорректные детали заявки: %w", err)
	}

	request := ds.ServiceRequest{
		ClientID:    clientID,
		ServiceType: serviceType,
		Details:     details,
		Status:      ds.RequestStatusPending,
		CreatedAt:   time.Now(),
	}

	err := r.db.Create(&request).Error
	if err != nil {
		return nil, err
	}

	return &request, nil
}

// GetRequests возвращает заявки с фильтрацией по статусу, датам и поиском
func (r *Repository) GetRequests(status, search string, dateFrom, dateTo *time.Time, clientID *uint) ([]ds.ServiceRequest, error) {
	dbq := r.db.Preload("Client").Preload("Reviewer").Order("created_at desc")

	if clientID != nil {
		dbq = dbq.Where("service_requests.client_id = ?", *clientID)
	}
	if status != "" {
		dbq = dbq.Where("service_requests.status = ?", status)
	}
	if dateFrom != nil {
		dbq = dbq.Where("service_requests.created_at >= ?", *dateFrom)
	}
	if dateTo != nil {
		dbq = dbq.Where("service_requests.created_at <= ?", *dateTo)
	}
	if search != "" {
		pattern := "%" + search + "%"
		dbq = dbq.Joins("JOIN users ON users.id = service_requests.client_id").
			Where("service_requests.service_type ILIKE ? OR users.full_name ILIKE ? OR users.company ILIKE ? OR service_requests.details::text ILIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var requests []ds.ServiceRequest
	err := dbq.Find(&requests).Error
	return requests, err
}

func (r *Repository) GetRequestByID(id uint) (*ds.ServiceRequest, error) {
	var request ds.ServiceRequest
	err := r.db.Preload("Client").Preload("Reviewer").First(&request, id).Error
	if err != nil {
		return nil, errors.New("заявка не найдена")
	}
	return &request, nil
}

// OpenReview переводит pending -> in_progress при открытии заявки сотрудником.
// Побочный эффект просмотра: гасит бейдж "требует внимания", больше ничего не меняет.
func (r *Repository) OpenReview(id uint) error {
	return r.db.Model(&ds.ServiceRequest{}).
		Where("id = ? AND status = ?", id, ds.RequestStatusPending).
		Update("status", ds.RequestStatusInProgress).Error
}

// активные для решения статусы: из них возможны approve/reject/request-info
var reviewableStatuses = []string{ds.RequestStatusInProgress, ds.RequestStatusInfoRequested}

// MarkRequestApproved ставит терминальный approved со штампом рецензента.
// Вызывается только после успешного создания проекта.
func (r *Repository) MarkRequestApproved(id, reviewerID uint) error {
	return r.applyDecision(id, reviewerID, ds.RequestStatusApproved, nil)
}

// RejectRequest ставит терминальный rejected. Проект не создается.
func (r *Repository) RejectRequest(id, reviewerID uint) error {
	return r.applyDecision(id, reviewerID, ds.RequestStatusRejected, nil)
}

// RequestInfo запрашивает у клиента уточнение, note сохраняется в admin_notes
func (r *Repository) RequestInfo(id, reviewerID uint, note string) error {
	if note == "" {
		return errors.New("комментарий для клиента обязателен")
	}
	return r.applyDecision(id, reviewerID, ds.RequestStatusInfoRequested, map[string]interface{}{
		"admin_notes": note,
	})
}

func (r *Repository) applyDecision(id, reviewerID uint, newStatus string, extra map[string]interface{}) error {
	now := time.Now()
	updates := map[string]interface{}{
		"status":      newStatus,
		"reviewed_by": reviewerID,
		"reviewed_at": now,
	}
	for k, v := range extra {
		updates[k] = v
	}

	result := r.db.Model(&ds.ServiceRequest{}).
		Where("id = ? AND status IN ?", id, reviewableStatuses).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// RespondToRequest сохраняет ответ клиента на запрос уточнения
// и возвращает заявку на повторное рассмотрение
func (r *Repository) RespondToRequest(id, clientID uint, response string) error {
	if response == "" {
		return errors.New("ответ не может быть пустым")
	}

	now := time.Now()
	result := r.db.Model(&ds.ServiceRequest{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, ds.RequestStatusInfoRequested).
		Updates(map[string]interface{}{
			"status":              ds.RequestStatusPending,
			"client_response":     response,
			"client_responded_at": now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}

// CancelRequest - отзыв заявки владельцем, возможен только из pending
func (r *Repository) CancelRequest(id, clientID uint) error {
	result := r.db.Model(&ds.ServiceRequest{}).
		Where("id = ? AND client_id = ? AND status = ?", id, clientID, ds.RequestStatusPending).
		Update("status", ds.RequestStatusCancelled)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	return nil
}
