package repository

import (
	"errors"
	"time"

	"irs-backend/internal/app/ds"
)

// Методы для этапов проекта

// GenerateMilestonesFromTemplate разворачивает шаблон этапов для вида услуги.
// Правило генерации живет в процедуре БД, бэкенд ее только вызывает;
// относительные сроки считаются от startDate.
func (r *Repository) GenerateMilestonesFromTemplate(projectID uint, serviceType string, startDate time.Time) error {
	return r.db.Exec("SELECT generate_project_milestones(?, ?, ?)",
		projectID, serviceType, startDate.Format("2006-01-02")).Error
}

func (r *Repository) GetMilestones(projectID uint) ([]ds.Milestone, error) {
	var milestones []ds.Milestone
	err := r.db.Where("project_id = ?", projectID).
		Order("sort_order asc, id asc").Find(&milestones).Error
	return milestones, err
}

func (r *Repository) GetMilestoneByID(id uint) (*ds.Milestone, error) {
	var milestone ds.Milestone
	err := r.db.First(&milestone, id).Error
	if err != nil {
		return nil, errors.New("этап не найден")
	}
	return &milestone, nil
}

// AddCustomMilestone добавляет ручной этап в конец списка
func (r *Repository) AddCustomMilestone(projectID uint, name, description string, dueDate *time.Time) (*ds.Milestone, error) {
	if name == "" {
		return nil, errors.New("название этапа обязательно")
	}

	var maxOrder int
	r.db.Model(&ds.Milestone{}).Where("project_id = ?", projectID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	milestone := ds.Milestone{
		ProjectID:   projectID,
		Name:        name,
		Description: description,
		DueDate:     dueDate,
		IsCustom:    true,
		Status:      ds.MilestoneStatusPending,
		SortOrder:   maxOrder + 1,
		CreatedAt:   time.Now(),
	}

	err := r.db.Create(&milestone).Error
	if err != nil {
		return nil, err
	}

	return &milestone, nil
}

// ToggleMilestone переключает готовность этапа.
// Повторное переключение возвращает этап в исходное состояние
// и очищает дату/автора завершения.
func (r *Repository) ToggleMilestone(id, userID uint) (*ds.Milestone, error) {
	milestone, err := r.GetMilestoneByID(id)
	if err != nil {
		return nil, err
	}

	if milestone.IsCompleted {
		milestone.IsCompleted = false
		milestone.CompletedAt = nil
		milestone.CompletedBy = nil
		milestone.Status = ds.MilestoneStatusPending
	} else {
		now := time.Now()
		milestone.IsCompleted = true
		milestone.CompletedAt = &now
		milestone.CompletedBy = &userID
		milestone.Status = ds.MilestoneStatusCompleted
	}

	err = r.db.Model(&ds.Milestone{}).Where("id = ?", id).
		Select("is_completed", "completed_at", "completed_by", "status").
		Updates(map[string]interface{}{
			"is_completed": milestone.IsCompleted,
			"completed_at": milestone.CompletedAt,
			"completed_by": milestone.CompletedBy,
			"status":       milestone.Status,
		}).Error
	if err != nil {
		return nil, err
	}

	return milestone, nil
}

// DeleteMilestone - жесткое удаление этапа
func (r *Repository) DeleteMilestone(id uint) error {
	result := r.db.Delete(&ds.Milestone{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("этап не найден")
	}
	return nil
}

// GetProjectProgress считает процент готовности по этапам проекта
func (r *Repository) GetProjectProgress(projectID uint) int {
	milestones, err := r.GetMilestones(projectID)
	if err != nil {
		return 0
	}
	return ds.MilestoneProgress(milestones)
}
