package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dto"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ЭТАПЫ ПРОЕКТА ============

// GetMilestones получает этапы проекта с процентом готовности
// @Summary Этапы проекта
// @Tags Milestones
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.MilestoneListResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/milestones [get]
func (h *APIHandler) GetMilestones(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID проекта")
		return
	}

	milestones, err := h.Repository.GetMilestones(uint(id))
	if err != nil {
		logrus.Error("Error getting milestones: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки этапов")
		return
	}

	resp := dto.MilestoneListResponse{
		Milestones: make([]dto.MilestoneResponse, len(milestones)),
		Progress:   ds.MilestoneProgress(milestones),
		Total:      len(milestones),
	}
	for i := range milestones {
		resp.Milestones[i] = toMilestoneResponse(&milestones[i])
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateMilestones разворачивает шаблон этапов для проекта
// @Summary Генерация этапов по шаблону
// @Description Вызывает процедуру БД generate_project_milestones для вида услуги проекта
// @Tags Milestones
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/milestones/generate [post]
func (h *APIHandler) GenerateMilestones(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID проекта")
		return
	}

	project, err := h.Repository.GetProjectByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Проект не найден")
		return
	}

	start := time.Now()
	if project.StartDate != nil {
		start = *project.StartDate
	}

	if err := h.Repository.GenerateMilestonesFromTemplate(project.ID, project.ServiceType, start); err != nil {
		logrus.Error("Error generating milestones: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка генерации этапов")
		return
	}

	h.successResponse(c, http.StatusOK, "Этапы сгенерированы по шаблону", nil)
}

// CreateMilestone добавляет ручной этап
// @Summary Добавление этапа
// @Description Ручной этап добавляется в конец списка с флагом is_custom
// @Tags Milestones
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param request body dto.CreateMilestoneRequest true "Данные этапа"
// @Success 201 {object} dto.MilestoneResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/milestones [post]
func (h *APIHandler) CreateMilestone(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID проекта")
		return
	}

	var req dto.CreateMilestoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Название этапа обязательно")
		return
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		parsed, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат срока этапа")
			return
		}
		dueDate = &parsed
	}

	milestone, err := h.Repository.AddCustomMilestone(uint(id), req.Name, req.Description, dueDate)
	if err != nil {
		logrus.Error("Error creating milestone: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, toMilestoneResponse(milestone))
}

// ToggleMilestone переключает готовность этапа
// @Summary Переключение готовности этапа
// @Description Повторное переключение очищает дату и автора завершения
// @Tags Milestones
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID этапа"
// @Success 200 {object} dto.MilestoneResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/milestones/{id}/toggle [put]
func (h *APIHandler) ToggleMilestone(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID этапа")
		return
	}

	milestone, err := h.Repository.ToggleMilestone(uint(id), userID)
	if err != nil {
		logrus.Error("Error toggling milestone: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	// Завершение этапа показываем клиенту в ленте
	if milestone.IsCompleted {
		meta, _ := json.Marshal(map[string]interface{}{"milestone_id": milestone.ID})
		if err := h.Repository.AddProjectUpdate(milestone.ProjectID, ds.UpdateTypeMilestoneCompleted,
			"Milestone completed", milestone.Name,
			ds.JSONB(meta), ds.VisibilityClient, userID); err != nil {
			logrus.Warnf("milestone_completed feed entry failed for project %d: %v", milestone.ProjectID, err)
		}
	}

	c.JSON(http.StatusOK, toMilestoneResponse(milestone))
}

// DeleteMilestone удаляет этап
// @Summary Удаление этапа
// @Tags Milestones
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID этапа"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/milestones/{id} [delete]
func (h *APIHandler) DeleteMilestone(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID этапа")
		return
	}

	if err := h.Repository.DeleteMilestone(uint(id)); err != nil {
		logrus.Error("Error deleting milestone: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Этап удален", nil)
}
