package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dto"
	"irs-backend/internal/app/role"
	"irs-backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН КОНТРАКТЫ ============

// GenerateContract генерирует HTML контракт по проекту
// @Summary Генерация контракта
// @Description Рендерит HTML контракт, сохраняет его в хранилище, создает
// @Description клиентский документ проекта и запись document_added в ленте.
// @Description Старые контракты не удаляются, текущим считается самый свежий.
// @Tags Contracts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param request body dto.GenerateContractRequest true "Дополнительные условия"
// @Success 201 {object} dto.ContractResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/contract [post]
func (h *APIHandler) GenerateContract(c *gin.Context) {
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

	var req dto.GenerateContractRequest
	_ = c.ShouldBindJSON(&req) // note необязателен

	project, err := h.Repository.GetProjectByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Проект не найден")
		return
	}

	client, err := h.Repository.GetUserByID(project.ClientID)
	if err != nil {
		h.errorResponse(c, http.StatusInternalServerError, "Клиент проекта не найден")
		return
	}

	milestones, err := h.Repository.GetMilestones(project.ID)
	if err != nil {
		logrus.Error("Error getting milestones: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки этапов")
		return
	}

	htmlDoc, err := h.Contracts.Render(project, client, milestones, req.Note)
	if err != nil {
		logrus.Error("Error rendering contract: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка генерации контракта")
		return
	}

	objectKey := storage.ContractKey(project.ID, project.TrackingCode)
	if err := h.MinIOClient.UploadObject(objectKey, htmlDoc, "text/html"); err != nil {
		logrus.Error("Error uploading contract: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка сохранения контракта")
		return
	}

	doc, err := h.Repository.CreateProjectDocument(project.ID,
		fmt.Sprintf("%s%s", ds.ContractTitlePrefix, project.Name),
		"Generated service contract",
		objectKey, "text/html", int64(len(htmlDoc)),
		ds.VisibilityClient, staffID)
	if err != nil {
		logrus.Error("Error creating contract document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка записи документа контракта")
		return
	}

	// Запись ленты хранит id документа - явная связь истории с контрактом
	meta, _ := json.Marshal(map[string]interface{}{"document_id": doc.ID})
	if err := h.Repository.AddProjectUpdate(project.ID, ds.UpdateTypeDocumentAdded,
		"Contract generated",
		fmt.Sprintf("Service contract for %s is ready", project.Name),
		ds.JSONB(meta), ds.VisibilityClient, staffID); err != nil {
		logrus.Warnf("document_added feed entry failed for project %d: %v", project.ID, err)
	}

	c.JSON(http.StatusCreated, dto.ContractResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		FileType:   doc.FileType,
		CreatedAt:  doc.CreatedAt,
	})
}

// GetContract возвращает текущий контракт проекта с подписанной ссылкой
// @Summary Просмотр контракта
// @Description Текущий контракт - самый свежий документ с заголовком Service Contract.
// @Description Ссылка на просмотр действует час.
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.ContractResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/projects/{id}/contract [get]
func (h *APIHandler) GetContract(c *gin.Context) {
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

	if userRole == role.Client && project.ClientID != userID {
		h.errorResponse(c, http.StatusForbidden, "Нет доступа к проекту")
		return
	}

	doc, err := h.Repository.GetLatestContract(project.ID)
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Контракт не найден")
		return
	}

	viewURL, err := h.MinIOClient.PresignedURL(doc.StorageKey, storage.ContractURLExpiry)
	if err != nil {
		logrus.Error("Error generating contract URL: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка формирования ссылки")
		return
	}

	c.JSON(http.StatusOK, dto.ContractResponse{
		DocumentID: doc.ID,
		Title:      doc.Title,
		FileType:   doc.FileType,
		CreatedAt:  doc.CreatedAt,
		ViewURL:    viewURL,
	})
}

// DeleteContract удаляет текущий контракт проекта
// @Summary Удаление контракта
// @Description Удаляет объект и строку документа, обнуляет стоимость контракта
// @Description и пишет contract_deleted в ленту. История contract_update не трогается.
// @Tags Contracts
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/projects/{id}/contract [delete]
func (h *APIHandler) DeleteContract(c *gin.Context) {
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

	doc, err := h.Repository.GetLatestContract(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Контракт не найден")
		return
	}

	if err := h.Repository.DeleteProjectDocument(doc.ID); err != nil {
		logrus.Error("Error deleting contract document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления документа")
		return
	}

	// Объект удаляем best-effort, строка уже удалена
	if err := h.MinIOClient.DeleteObject(doc.StorageKey); err != nil {
		logrus.Warnf("Failed to delete contract object %s: %v", doc.StorageKey, err)
	}

	if err := h.Repository.ClearContractValue(uint(id)); err != nil {
		logrus.Error("Error clearing contract value: ", err)
	}

	meta, _ := json.Marshal(map[string]interface{}{"document_id": doc.ID})
	if err := h.Repository.AddProjectUpdate(uint(id), ds.UpdateTypeContractDeleted,
		"Contract deleted",
		fmt.Sprintf("Contract document %q was removed", doc.Title),
		ds.JSONB(meta), ds.VisibilityClient, staffID); err != nil {
		logrus.Warnf("contract_deleted feed entry failed for project %d: %v", id, err)
	}

	h.successResponse(c, http.StatusOK, "Контракт удален", nil)
}
