package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"irs-backend/internal/app/ds"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Методы для проектов

// Шаги пост-обработки одобрения, которые могут быть пропущены
const (
	SetupStepMilestones   = "milestones"
	SetupStepActivityFeed = "activity_feed"
)

// MaterializeProject создает проект по одобряемой заявке.
// Порядок шагов фиксированный:
//  1. вставка проекта - фатально, ошибка отменяет одобрение;
//  2. генерация этапов по шаблону вида услуги - не фатально;
//  3. запись project_created в ленту - не фатально.
//
// Возвращает проект и список пропущенных шагов. Любой пропуск
// переводит setup_status в needs_attention вместо тихой деградации.
func (r *Repository) MaterializeProject(request *ds.ServiceRequest, contractValue float64, endDate time.Time, staffID uint) (*ds.Project, []string, error) {
	now := time.Now()

	client, err := r.GetUserByID(request.ClientID)
	if err != nil {
		return nil, nil, fmt.Errorf("клиент заявки не найден: %w", err)
	}

	clientLabel := client.Company
	if clientLabel == "" {
		clientLabel = client.FullName
	}

	metadata, _ := json.Marshal(ds.PlaceholderMetadata(request.ServiceType))

	requestID := request.ID
	project := ds.Project{
		ClientID:         request.ClientID,
		Name:             fmt.Sprintf("%s service for %s", capitalize(request.ServiceType), clientLabel),
		Description:      fmt.Sprintf("Created from service request #%d", request.ID),
		Status:           ds.ProjectStatusActive,
		StartDate:        &now,
		EndDate:          &endDate,
		ServiceType:      request.ServiceType,
		ContractValue:    contractValue,
		ServiceRequestID: &requestID,
		TrackingCode:     ds.GenerateTrackingCode(now),
		Metadata:         ds.JSONB(metadata),
		SetupStatus:      ds.SetupStatusReady,
		CreatedAt:        now,
	}

	if err := r.db.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, ErrAlreadyApproved
		}
		return nil, nil, err
	}

	var skipped []string

	// Этапы по шаблону считает процедура в БД, отказ не блокирует одобрение
	if err := r.GenerateMilestonesFromTemplate(project.ID, request.ServiceType, now); err != nil {
		logrus.Warnf("milestone template expansion failed for project %d: %v", project.ID, err)
		skipped = append(skipped, SetupStepMilestones)
	}

	if err := r.AddProjectUpdate(project.ID, ds.UpdateTypeProjectCreated,
		"Project created",
		fmt.Sprintf("Project %s opened, tracking code %s", project.Name, project.TrackingCode),
		nil, ds.VisibilityClient, staffID); err != nil {
		logrus.Warnf("project_created feed entry failed for project %d: %v", project.ID, err)
		skipped = append(skipped, SetupStepActivityFeed)
	}

	if len(skipped) > 0 {
		project.SetupStatus = ds.SetupStatusNeedsAttention
		if err := r.db.Model(&ds.Project{}).Where("id = ?", project.ID).
			Update("setup_status", ds.SetupStatusNeedsAttention).Error; err != nil {
			logrus.Warnf("cannot mark project %d as needs_attention: %v", project.ID, err)
		}
	}

	return &project, skipped, nil
}

// GetProjects возвращает проекты с фильтрацией по статусу и клиенту
func (r *Repository) GetProjects(status string, clientID *uint) ([]ds.Project, error) {
	dbq := r.db.Preload("Client").Order("created_at desc")

	if status != "" {
		dbq = dbq.Where("status = ?", status)
	}
	if clientID != nil {
		dbq = dbq.Where("client_id = ?", *clientID)
	}

	var projects []ds.Project
	err := dbq.Find(&projects).Error
	return projects, err
}

func (r *Repository) GetProjectByID(id uint) (*ds.Project, error) {
	var project ds.Project
	err := r.db.Preload("Client").First(&project, id).Error
	if err != nil {
		return nil, errors.New("проект не найден")
	}
	return &project, nil
}

// GetProjectByRequestID находит проект, созданный по заявке
func (r *Repository) GetProjectByRequestID(requestID uint) (*ds.Project, error) {
	var project ds.Project
	err := r.db.Where("service_request_id = ?", requestID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Параметры редактирования проекта сотрудником, nil - поле не меняется
type UpdateProjectParams struct {
	Name          *string
	Description   *string
	Status        *string
	StartDate     *time.Time
	EndDate       *time.Time
	Location      *string
	Vessel        *string
	ContractValue *float64
	Notes         *string
	Metadata      ds.JSONB
}

// UpdateProject сохраняет правки и фиксирует изменение условий контракта
// (стоимость, даты) записью contract_update в ленте - это единственная
// история условий, версии самого документа не хранятся.
func (r *Repository) UpdateProject(id, staffID uint, params UpdateProjectParams) error {
	project, err := r.GetProjectByID(id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{}
	var contractChanges []string

	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.Status != nil {
		updates["status"] = *params.Status
	}
	if params.Location != nil {
		updates["location"] = *params.Location
	}
	if params.Vessel != nil {
		updates["vessel"] = *params.Vessel
	}
	if params.Notes != nil {
		updates["notes"] = *params.Notes
	}
	if len(params.Metadata) > 0 {
		updates["metadata"] = params.Metadata
	}

	if params.ContractValue != nil && *params.ContractValue != project.ContractValue {
		updates["contract_value"] = *params.ContractValue
		contractChanges = append(contractChanges,
			fmt.Sprintf("value %.2f -> %.2f", project.ContractValue, *params.ContractValue))
	}
	if params.StartDate != nil && !sameDate(project.StartDate, params.StartDate) {
		updates["start_date"] = *params.StartDate
		contractChanges = append(contractChanges,
			fmt.Sprintf("start date %s -> %s", dateOrDash(project.StartDate), params.StartDate.Format("2006-01-02")))
	}
	if params.EndDate != nil && !sameDate(project.EndDate, params.EndDate) {
		updates["end_date"] = *params.EndDate
		contractChanges = append(contractChanges,
			fmt.Sprintf("end date %s -> %s", dateOrDash(project.EndDate), params.EndDate.Format("2006-01-02")))
	}

	if len(updates) == 0 {
		return nil
	}

	if err := r.db.Model(&ds.Project{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return err
	}

	if len(contractChanges) > 0 {
		meta, _ := json.Marshal(map[string]interface{}{"changes": contractChanges})
		if err := r.AddProjectUpdate(id, ds.UpdateTypeContractUpdate,
			"Contract terms updated",
			strings.Join(contractChanges, "; "),
			ds.JSONB(meta), ds.VisibilityClient, staffID); err != nil {
			logrus.Warnf("contract_update feed entry failed for project %d: %v", id, err)
		}
	}

	return nil
}

// AddProjectUpdate добавляет запись в ленту проекта (только append)
func (r *Repository) AddProjectUpdate(projectID uint, updateType, title, description string, metadata ds.JSONB, visibility string, createdBy uint) error {
	update := ds.ProjectUpdate{
		ProjectID:   projectID,
		UpdateType:  updateType,
		Title:       title,
		Description: description,
		Metadata:    metadata,
		Visibility:  visibility,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}
	return r.db.Create(&update).Error
}

// GetProjectUpdates возвращает ленту проекта, для клиента - только видимые записи
func (r *Repository) GetProjectUpdates(projectID uint, clientVisibleOnly bool) ([]ds.ProjectUpdate, error) {
	dbq := r.db.Preload("Creator").Where("project_id = ?", projectID).Order("created_at desc")
	if clientVisibleOnly {
		dbq = dbq.Where("visibility = ?", ds.VisibilityClient)
	}

	var updates []ds.ProjectUpdate
	err := dbq.Find(&updates).Error
	return updates, err
}

func (r *Repository) CountProjectUpdates(projectID uint) (int64, error) {
	var count int64
	err := r.db.Model(&ds.ProjectUpdate{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// ClearContractValue обнуляет стоимость контракта (при удалении документа)
func (r *Repository) ClearContractValue(projectID uint) error {
	return r.db.Model(&ds.Project{}).Where("id = ?", projectID).
		Update("contract_value", 0).Error
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}
