package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dto"
	"irs-backend/internal/app/repository"
	"irs-backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ПРОЕКТЫ ============

func (h *APIHandler) toProjectResponse(p *ds.Project, forClient bool) dto.ProjectResponse {
	resp := dto.ProjectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Status:        p.Status,
		TrackingCode:  p.TrackingCode,
		ServiceType:   p.ServiceType,
		Location:      p.Location,
		Vessel:        p.Vessel,
		ContractValue: p.ContractValue,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		CreatedAt:     p.CreatedAt,
		Progress:      h.Repository.GetProjectProgress(p.ID),
	}

	if len(p.Metadata) > 0 {
		resp.Metadata = json.RawMessage(p.Metadata)
	}

	// Служебные поля клиенту не отдаем
	if !forClient {
		resp.SetupStatus = p.SetupStatus
		resp.Notes = p.Notes
		resp.ServiceRequestID = p.ServiceRequestID
		if p.Client.Login != "" {
			resp.Client = p.Client.Login
			resp.ClientName = p.Client.FullName
			resp.ClientCompany = p.Client.Company
		}
	}

	return resp
}

func toUpdateResponse(u *ds.ProjectUpdate) dto.ProjectUpdateResponse {
	resp := dto.ProjectUpdateResponse{
		ID:          u.ID,
		UpdateType:  u.UpdateType,
		Title:       u.Title,
		Description: u.Description,
		Visibility:  u.Visibility,
		CreatedAt:   u.CreatedAt,
	}
	if len(u.Metadata) > 0 {
		resp.Metadata = json.RawMessage(u.Metadata)
	}
	if u.Creator.Login != "" {
		resp.CreatedBy = u.Creator.Login
	}
	return resp
}

func toMilestoneResponse(m *ds.Milestone) dto.MilestoneResponse {
	return dto.MilestoneResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		DueDate:     m.DueDate,
		CompletedAt: m.CompletedAt,
		IsCompleted: m.IsCompleted,
		IsCustom:    m.IsCustom,
		Status:      m.Status,
		SortOrder:   m.SortOrder,
	}
}

// GetProjects получает список проектов
// @Summary Получение списка проектов
// @Description Сотрудник видит все проекты с фильтрами, клиент - только свои
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param client_id query int false "Фильтр по клиенту (только для сотрудников)"
// @Success 200 {object} dto.ProjectListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/projects [get]
func (h *APIHandler) GetProjects(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	status := c.Query("status")
	forClient := userRole == role.Client

	var clientID *uint
	if forClient {
		clientID = &userID
	} else if s := c.Query("client_id"); s != "" {
		if parsed, err := strconv.ParseUint(s, 10, 32); err == nil && parsed > 0 {
			cid := uint(parsed)
			clientID = &cid
		}
	}

	projects, err := h.Repository.GetProjects(status, clientID)
	if err != nil {
		logrus.Error("Error getting projects: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения проектов")
		return
	}

	dtoProjects := make([]dto.ProjectResponse, len(projects))
	for i := range projects {
		dtoProjects[i] = h.toProjectResponse(&projects[i], forClient)
	}

	c.JSON(http.StatusOK, dto.ProjectListResponse{
		Projects: dtoProjects,
		Total:    len(dtoProjects),
	})
}

// GetProject получает проект с этапами, документами и лентой
// @Summary Получение проекта по ID
// @Description Клиент видит только клиентские документы и записи ленты
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.ProjectDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/projects/{id} [get]
func (h *APIHandler) GetProject(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

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

	forClient := userRole == role.Client
	if forClient && project.ClientID != userID {
		h.errorResponse(c, http.StatusForbidden, "Нет доступа к проекту")
		return
	}

	milestones, err := h.Repository.GetMilestones(project.ID)
	if err != nil {
		logrus.Error("Error getting milestones: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки этапов")
		return
	}

	documents, err := h.Repository.GetProjectDocuments(project.ID, forClient)
	if err != nil {
		logrus.Error("Error getting documents: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки документов")
		return
	}

	updates, err := h.Repository.GetProjectUpdates(project.ID, forClient)
	if err != nil {
		logrus.Error("Error getting updates: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки ленты")
		return
	}

	resp := dto.ProjectDetailResponse{
		Project:    h.toProjectResponse(project, forClient),
		Milestones: make([]dto.MilestoneResponse, len(milestones)),
		Documents:  make([]dto.ProjectDocumentResponse, len(documents)),
		Updates:    make([]dto.ProjectUpdateResponse, len(updates)),
	}
	for i := range milestones {
		resp.Milestones[i] = toMilestoneResponse(&milestones[i])
	}
	for i := range documents {
		resp.Documents[i] = toProjectDocumentResponse(&documents[i])
	}
	for i := range updates {
		resp.Updates[i] = toUpdateResponse(&updates[i])
	}

	c.JSON(http.StatusOK, resp)
}

// UpdateProject обновляет поля проекта
// @Summary Редактирование проекта
// @Description Изменение стоимости или дат фиксируется записью contract_update в ленте
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param request body dto.UpdateProjectRequest true "Изменяемые поля"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id} [put]
func (h *APIHandler) UpdateProject(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID проекта")
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	params := repository.UpdateProjectParams{
		Name:          req.Name,
		Description:   req.Description,
		Status:        req.Status,
		Location:      req.Location,
		Vessel:        req.Vessel,
		ContractValue: req.ContractValue,
		Notes:         req.Notes,
		Metadata:      ds.JSONB(req.Metadata),
	}

	if req.StartDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.StartDate)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат даты начала")
			return
		}
		params.StartDate = &parsed
	}
	if req.EndDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			h.errorResponse(c, http.StatusBadRequest, "Неверный формат даты завершения")
			return
		}
		params.EndDate = &parsed
	}

	if err := h.Repository.UpdateProject(uint(id), staffID, params); err != nil {
		logrus.Error("Error updating project: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Проект обновлен", nil)
}

// GetProjectUpdates получает ленту проекта
// @Summary Лента активности проекта
// @Tags Projects
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {array} dto.ProjectUpdateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/updates [get]
func (h *APIHandler) GetProjectFeed(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

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

	forClient := userRole == role.Client
	if forClient && project.ClientID != userID {
		h.errorResponse(c, http.StatusForbidden, "Нет доступа к проекту")
		return
	}

	updates, err := h.Repository.GetProjectUpdates(project.ID, forClient)
	if err != nil {
		logrus.Error("Error getting updates: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки ленты")
		return
	}

	dtoUpdates := make([]dto.ProjectUpdateResponse, len(updates))
	for i := range updates {
		dtoUpdates[i] = toUpdateResponse(&updates[i])
	}

	c.JSON(http.StatusOK, dtoUpdates)
}
