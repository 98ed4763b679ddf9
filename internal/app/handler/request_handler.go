package handler

import (
	"encoding/json"
	"errors"
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

// ============ ДОМЕН ЗАЯВКИ НА УСЛУГИ ============

func (h *APIHandler) toRequestResponse(r *ds.ServiceRequest, includeDetails bool) dto.RequestResponse {
	resp := dto.RequestResponse{
		ID:                r.ID,
		ServiceType:       r.ServiceType,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
		AdminNotes:        r.AdminNotes,
		ClientResponse:    r.ClientResponse,
		ClientRespondedAt: r.ClientRespondedAt,
		ReviewedAt:        r.ReviewedAt,
	}

	if includeDetails && len(r.Details) > 0 {
		resp.Details = json.RawMessage(r.Details)
	}
	if r.Client.Login != "" {
		resp.Client = r.Client.Login
		resp.ClientName = r.Client.FullName
		resp.ClientCompany = r.Client.Company
	}
	if r.Reviewer != nil && r.Reviewer.Login != "" {
		resp.Reviewer = r.Reviewer.Login
	}

	if r.Status == ds.RequestStatusApproved {
		if project, err := h.Repository.GetProjectByRequestID(r.ID); err == nil {
			resp.ProjectID = &project.ID
		}
	}

	return resp
}

// CreateRequest создает заявку на услугу
// @Summary Создание заявки на услугу
// @Description Клиент подает заявку с видом услуги и деталями (поля зависят от вида)
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRequestRequest true "Данные заявки"
// @Success 201 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests [post]
func (h *APIHandler) CreateRequest(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверные данные: "+err.Error())
		return
	}

	request, err := h.Repository.CreateServiceRequest(userID, req.ServiceType, ds.JSONB(req.Details))
	if err != nil {
		logrus.Error("Error creating service request: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, h.toRequestResponse(request, true))
}

// GetRequests получает список заявок
// @Summary Получение списка заявок
// @Description Сотрудник видит все заявки с фильтрами и поиском, клиент - только свои
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param status query string false "Фильтр по статусу"
// @Param query query string false "Поиск по клиенту, виду услуги, деталям"
// @Param date_from query string false "Дата начала (формат: 2006-01-02)"
// @Param date_to query string false "Дата окончания (формат: 2006-01-02)"
// @Success 200 {object} dto.RequestListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/requests [get]
func (h *APIHandler) GetRequests(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	status := c.Query("status")
	search := c.Query("query")

	var dateFrom, dateTo *time.Time
	if s := c.Query("date_from"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			dateFrom = &parsed
		}
	}
	if s := c.Query("date_to"); s != "" {
		if parsed, err := time.Parse("2006-01-02", s); err == nil {
			dateTo = &parsed
		}
	}

	// Клиент видит только свои заявки
	var clientID *uint
	if userRole == role.Client {
		clientID = &userID
	}

	requests, err := h.Repository.GetRequests(status, search, dateFrom, dateTo, clientID)
	if err != nil {
		logrus.Error("Error getting requests: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения заявок")
		return
	}

	dtoRequests := make([]dto.RequestResponse, len(requests))
	for i := range requests {
		dtoRequests[i] = h.toRequestResponse(&requests[i], false)
	}

	c.JSON(http.StatusOK, dto.RequestListResponse{
		Requests: dtoRequests,
		Total:    len(dtoRequests),
	})
}

// GetRequest получает одну заявку
// @Summary Получение заявки по ID
// @Description Открытие заявки сотрудником переводит pending в in_progress
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.RequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/requests/{id} [get]
func (h *APIHandler) GetRequest(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	request, err := h.Repository.GetRequestByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
		return
	}

	if userRole == role.Client && request.ClientID != userID {
		h.errorResponse(c, http.StatusForbidden, "Нет доступа к заявке")
		return
	}

	// Просмотр сотрудником гасит бейдж "требует внимания"
	if userRole != role.Client && request.Status == ds.RequestStatusPending {
		if err := h.Repository.OpenReview(request.ID); err != nil {
			logrus.Warnf("cannot open review for request %d: %v", request.ID, err)
		} else {
			request.Status = ds.RequestStatusInProgress
		}
	}

	c.JSON(http.StatusOK, h.toRequestResponse(request, true))
}

// ApproveRequest одобряет заявку
// @Summary Одобрение заявки
// @Description Создает проект по заявке и ставит терминальный статус approved.
// @Description Стоимость контракта и дата завершения обязательны. Если проект
// @Description создать не удалось, статус заявки не меняется.
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.ApproveRequestRequest true "Условия контракта"
// @Success 200 {object} dto.ApproveRequestResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/requests/{id}/approve [post]
func (h *APIHandler) ApproveRequest(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.ApproveRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Укажите стоимость контракта и дату завершения")
		return
	}

	completionDate, err := time.Parse("2006-01-02", req.CompletionDate)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Неверный формат даты завершения")
		return
	}

	request, err := h.Repository.GetRequestByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Заявка не найдена")
		return
	}

	if !ds.CanTransitionRequest(request.Status, ds.RequestStatusApproved) {
		h.errorResponse(c, http.StatusBadRequest, "Заявку в текущем статусе нельзя одобрить")
		return
	}

	// Сначала проект, потом статус: одобрение фиксируется
	// только после успешного создания проекта
	project, skipped, err := h.Repository.MaterializeProject(request, req.ContractValue, completionDate, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyApproved) {
			h.errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		logrus.Error("Error materializing project: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Не удалось создать проект, заявка не одобрена")
		return
	}

	if err := h.Repository.MarkRequestApproved(uint(id), staffID); err != nil {
		logrus.Error("Error approving request: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusOK, dto.ApproveRequestResponse{
		ProjectID:    project.ID,
		TrackingCode: project.TrackingCode,
		SetupStatus:  project.SetupStatus,
		SkippedSteps: skipped,
	})
}

// RejectRequest отклоняет заявку
// @Summary Отклонение заявки
// @Description Ставит терминальный статус rejected, проект не создается
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id}/reject [post]
func (h *APIHandler) RejectRequest(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	if err := h.Repository.RejectRequest(uint(id), staffID); err != nil {
		logrus.Error("Error rejecting request: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Заявка отклонена", nil)
}

// RequestInfo запрашивает у клиента уточнение
// @Summary Запрос уточнения по заявке
// @Description Ставит статус info_requested, комментарий сохраняется в admin_notes
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.RequestInfoRequest true "Комментарий для клиента"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id}/request-info [post]
func (h *APIHandler) RequestInfo(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.RequestInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Комментарий для клиента обязателен")
		return
	}

	if err := h.Repository.RequestInfo(uint(id), staffID, req.Note); err != nil {
		logrus.Error("Error requesting info: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Запрос уточнения отправлен клиенту", nil)
}

// RespondToRequest принимает ответ клиента на запрос уточнения
// @Summary Ответ клиента по заявке
// @Description Сохраняет ответ и возвращает заявку на повторное рассмотрение
// @Tags Requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Param request body dto.ClientResponseRequest true "Ответ клиента"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id}/respond [post]
func (h *APIHandler) RespondToRequest(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	var req dto.ClientResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Ответ не может быть пустым")
		return
	}

	if err := h.Repository.RespondToRequest(uint(id), userID, req.Response); err != nil {
		logrus.Error("Error responding to request: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Ответ отправлен на рассмотрение", nil)
}

// CancelRequest отзывает заявку клиентом
// @Summary Отзыв заявки
// @Description Владелец отзывает заявку, возможно только из статуса pending
// @Tags Requests
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID заявки"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/requests/{id}/cancel [post]
func (h *APIHandler) CancelRequest(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID заявки")
		return
	}

	if err := h.Repository.CancelRequest(uint(id), userID); err != nil {
		logrus.Error("Error cancelling request: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Заявка отозвана", nil)
}
