package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"irs-backend/internal/app/ds"
	"irs-backend/internal/app/dto"
	"irs-backend/internal/app/repository"
	"irs-backend/internal/app/role"
	"irs-backend/internal/app/storage"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ============ ДОМЕН ДОКУМЕНТЫ ============

func toProjectDocumentResponse(d *ds.ProjectDocument) dto.ProjectDocumentResponse {
	return dto.ProjectDocumentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		FileType:    d.FileType,
		FileSize:    d.FileSize,
		Visibility:  d.Visibility,
		CreatedAt:   d.CreatedAt,
	}
}

func toInternalDocumentResponse(d *ds.InternalDocument) dto.InternalDocumentResponse {
	resp := dto.InternalDocumentResponse{
		ID:             d.ID,
		Title:          d.Title,
		Description:    d.Description,
		Category:       d.Category,
		IsConfidential: d.IsConfidential,
		FileType:       d.FileType,
		FileSize:       d.FileSize,
		CreatedAt:      d.CreatedAt,
	}
	if d.Creator.Login != "" {
		resp.CreatedBy = d.Creator.Login
	}
	return resp
}

// Читает файл из multipart формы
func readFormFile(c *gin.Context) (data []byte, filename string, err error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", errors.New("файл не выбран")
	}

	opened, err := file.Open()
	if err != nil {
		return nil, "", errors.New("ошибка чтения файла")
	}
	defer opened.Close()

	data, err = io.ReadAll(opened)
	if err != nil {
		return nil, "", errors.New("ошибка чтения файла")
	}

	return data, file.Filename, nil
}

// UploadProjectDocument загружает документ проекта
// @Summary Загрузка документа проекта
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID проекта"
// @Param file formData file true "Файл"
// @Param title formData string false "Заголовок"
// @Param description formData string false "Описание"
// @Param visibility formData string false "internal или client"
// @Success 201 {object} dto.ProjectDocumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/projects/{id}/documents [post]
func (h *APIHandler) UploadProjectDocument(c *gin.Context) {
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

	if _, err := h.Repository.GetProjectByID(uint(id)); err != nil {
		h.errorResponse(c, http.StatusNotFound, "Проект не найден")
		return
	}

	data, filename, err := readFormFile(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = filename
	}
	visibility := c.PostForm("visibility")
	if visibility != ds.VisibilityClient {
		visibility = ds.VisibilityInternal
	}

	objectKey := storage.ProjectDocumentKey(uint(id), filename)
	contentType := storage.ContentTypeByExt(filename)

	if err := h.MinIOClient.UploadObject(objectKey, data, contentType); err != nil {
		logrus.Error("Error uploading document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}

	doc, err := h.Repository.CreateProjectDocument(uint(id), title, c.PostForm("description"),
		objectKey, contentType, int64(len(data)), visibility, staffID)
	if err != nil {
		logrus.Error("Error creating project document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка записи документа")
		return
	}

	meta, _ := json.Marshal(map[string]interface{}{"document_id": doc.ID})
	if err := h.Repository.AddProjectUpdate(uint(id), ds.UpdateTypeDocumentAdded,
		"Document added", title, ds.JSONB(meta), visibility, staffID); err != nil {
		logrus.Warnf("document_added feed entry failed for project %d: %v", id, err)
	}

	c.JSON(http.StatusCreated, toProjectDocumentResponse(doc))
}

// DownloadProjectDocument выдает подписанную ссылку на скачивание
// @Summary Скачивание документа проекта
// @Description Ссылка действует 60 секунд, повторное скачивание - новая ссылка
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Success 200 {object} dto.DownloadResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/documents/{id}/download [get]
func (h *APIHandler) DownloadProjectDocument(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	doc, err := h.Repository.GetProjectDocumentByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Документ не найден")
		return
	}

	if userRole == role.Client {
		project, err := h.Repository.GetProjectByID(doc.ProjectID)
		if err != nil || project.ClientID != userID || doc.Visibility != ds.VisibilityClient {
			h.errorResponse(c, http.StatusForbidden, "Нет доступа к документу")
			return
		}
	}

	url, err := h.MinIOClient.PresignedURL(doc.StorageKey, storage.DownloadURLExpiry)
	if err != nil {
		logrus.Error("Error generating download URL: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка формирования ссылки")
		return
	}

	c.JSON(http.StatusOK, dto.DownloadResponse{
		URL:       url,
		ExpiresIn: int(storage.DownloadURLExpiry.Seconds()),
	})
}

// DeleteProjectDocument удаляет документ проекта
// @Summary Удаление документа проекта
// @Description Сначала удаляется строка, объект в хранилище - best-effort
// @Tags Documents
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/documents/{id} [delete]
func (h *APIHandler) DeleteProjectDocument(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	doc, err := h.Repository.GetProjectDocumentByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Документ не найден")
		return
	}

	if err := h.Repository.DeleteProjectDocument(doc.ID); err != nil {
		logrus.Error("Error deleting document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления документа")
		return
	}

	if err := h.MinIOClient.DeleteObject(doc.StorageKey); err != nil {
		logrus.Warnf("Failed to delete object %s: %v", doc.StorageKey, err)
	}

	h.successResponse(c, http.StatusOK, "Документ удален", nil)
}

// ============ ВНУТРЕННЕЕ ХРАНИЛИЩЕ ============

// UploadInternalDocument загружает внутренний документ компании
// @Summary Загрузка во внутреннее хранилище
// @Tags Vault
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Файл"
// @Param title formData string false "Заголовок"
// @Param description formData string false "Описание"
// @Param category formData string true "Категория (License/Certificate/Policy/Contract/Insurance/Report/Manual/Other)"
// @Param confidential formData bool false "Конфиденциальный"
// @Success 201 {object} dto.InternalDocumentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/internal-documents [post]
func (h *APIHandler) UploadInternalDocument(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	data, filename, err := readFormFile(c)
	if err != nil {
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	category := c.PostForm("category")
	if !ds.ValidDocumentCategory(category) {
		h.errorResponse(c, http.StatusBadRequest, "Неизвестная категория документа")
		return
	}

	title := c.PostForm("title")
	if title == "" {
		title = filename
	}

	objectKey := storage.InternalDocumentKey(category, filename)
	contentType := storage.ContentTypeByExt(filename)

	if err := h.MinIOClient.UploadObject(objectKey, data, contentType); err != nil {
		logrus.Error("Error uploading internal document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка загрузки файла")
		return
	}

	doc, err := h.Repository.CreateInternalDocument(title, c.PostForm("description"), category,
		objectKey, contentType, int64(len(data)),
		c.PostForm("confidential") == "true", staffID)
	if err != nil {
		logrus.Error("Error creating internal document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка записи документа")
		return
	}

	c.JSON(http.StatusCreated, toInternalDocumentResponse(doc))
}

// GetInternalDocuments получает список внутренних документов
// @Summary Список внутреннего хранилища
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Param category query string false "Фильтр по категории"
// @Param query query string false "Поиск по заголовку и описанию"
// @Success 200 {object} dto.InternalDocumentListResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /api/internal-documents [get]
func (h *APIHandler) GetInternalDocuments(c *gin.Context) {
	docs, err := h.Repository.GetInternalDocuments(c.Query("category"), c.Query("query"))
	if err != nil {
		logrus.Error("Error getting internal documents: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения документов")
		return
	}

	dtoDocs := make([]dto.InternalDocumentResponse, len(docs))
	for i := range docs {
		dtoDocs[i] = toInternalDocumentResponse(&docs[i])
	}

	c.JSON(http.StatusOK, dto.InternalDocumentListResponse{
		Documents: dtoDocs,
		Total:     len(dtoDocs),
	})
}

// DownloadInternalDocument выдает подписанную ссылку на внутренний документ
// @Summary Скачивание внутреннего документа
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Success 200 {object} dto.DownloadResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/internal-documents/{id}/download [get]
func (h *APIHandler) DownloadInternalDocument(c *gin.Context) {
	userID, userRole, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	doc, err := h.Repository.GetInternalDocumentByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Документ не найден")
		return
	}

	// Клиент скачивает только выданные ему документы
	if userRole == role.Client {
		count, err := h.Repository.CountDocumentShares(doc.ID, userID)
		if err != nil || count == 0 {
			h.errorResponse(c, http.StatusForbidden, "Документ не выдан этому клиенту")
			return
		}
	}

	url, err := h.MinIOClient.PresignedURL(doc.StorageKey, storage.DownloadURLExpiry)
	if err != nil {
		logrus.Error("Error generating download URL: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка формирования ссылки")
		return
	}

	c.JSON(http.StatusOK, dto.DownloadResponse{
		URL:       url,
		ExpiresIn: int(storage.DownloadURLExpiry.Seconds()),
	})
}

// DeleteInternalDocument удаляет внутренний документ
// @Summary Удаление из внутреннего хранилища
// @Description Удаляет строку, выдачи клиентам и объект в хранилище (best-effort)
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/internal-documents/{id} [delete]
func (h *APIHandler) DeleteInternalDocument(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	doc, err := h.Repository.GetInternalDocumentByID(uint(id))
	if err != nil {
		h.errorResponse(c, http.StatusNotFound, "Документ не найден")
		return
	}

	if err := h.Repository.DeleteInternalDocument(doc.ID); err != nil {
		logrus.Error("Error deleting internal document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка удаления документа")
		return
	}

	if err := h.MinIOClient.DeleteObject(doc.StorageKey); err != nil {
		logrus.Warnf("Failed to delete object %s: %v", doc.StorageKey, err)
	}

	h.successResponse(c, http.StatusOK, "Документ удален", nil)
}

// ============ ВЫДАЧА ДОКУМЕНТОВ КЛИЕНТАМ ============

// ShareDocument выдает внутренний документ клиенту
// @Summary Выдача документа клиенту
// @Description Повторная выдача той же пары (клиент, документ) отклоняется
// @Tags Vault
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Param request body dto.ShareDocumentRequest true "Клиент и примечание"
// @Success 201 {object} dto.ShareResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/internal-documents/{id}/share [post]
func (h *APIHandler) ShareDocument(c *gin.Context) {
	staffID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	var req dto.ShareDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errorResponse(c, http.StatusBadRequest, "Укажите клиента")
		return
	}

	if _, err := h.Repository.GetInternalDocumentByID(uint(id)); err != nil {
		h.errorResponse(c, http.StatusNotFound, "Документ не найден")
		return
	}

	client, err := h.Repository.GetUserByID(req.ClientID)
	if err != nil || client.Role != int(role.Client) {
		h.errorResponse(c, http.StatusBadRequest, "Клиент не найден")
		return
	}

	share, err := h.Repository.ShareDocumentWithClient(uint(id), req.ClientID, req.Note, staffID)
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyShared) {
			h.errorResponse(c, http.StatusConflict, err.Error())
			return
		}
		logrus.Error("Error sharing document: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка выдачи документа")
		return
	}

	c.JSON(http.StatusCreated, dto.ShareResponse{
		ID:        share.ID,
		ClientID:  share.ClientID,
		Client:    client.Login,
		Note:      share.Note,
		CreatedAt: share.CreatedAt,
	})
}

// RevokeShare снимает выдачу документа клиенту
// @Summary Отзыв выдачи документа
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Param client_id path int true "ID клиента"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/internal-documents/{id}/share/{client_id} [delete]
func (h *APIHandler) RevokeShare(c *gin.Context) {
	id, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	clientID, err2 := strconv.ParseUint(c.Param("client_id"), 10, 32)
	if err1 != nil || err2 != nil || id == 0 || clientID == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверные ID")
		return
	}

	if err := h.Repository.RevokeShare(uint(id), uint(clientID)); err != nil {
		logrus.Error("Error revoking share: ", err)
		h.errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	h.successResponse(c, http.StatusOK, "Выдача отозвана", nil)
}

// GetDocumentShares получает список выдач документа
// @Summary Выдачи документа
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID документа"
// @Success 200 {array} dto.ShareResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/internal-documents/{id}/shares [get]
func (h *APIHandler) GetDocumentShares(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.errorResponse(c, http.StatusBadRequest, "Неверный ID документа")
		return
	}

	shares, err := h.Repository.GetDocumentShares(uint(id))
	if err != nil {
		logrus.Error("Error getting shares: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения выдач")
		return
	}

	dtoShares := make([]dto.ShareResponse, len(shares))
	for i, s := range shares {
		dtoShares[i] = dto.ShareResponse{
			ID:        s.ID,
			ClientID:  s.ClientID,
			Client:    s.ClientU.Login,
			Note:      s.Note,
			GrantedBy: s.Granter.Login,
			CreatedAt: s.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, dtoShares)
}

// GetSharedDocuments получает документы, выданные текущему клиенту
// @Summary Выданные клиенту документы
// @Tags Vault
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.SharedDocumentResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/shared-documents [get]
func (h *APIHandler) GetSharedDocuments(c *gin.Context) {
	userID, _, err := h.getUserFromContext(c)
	if err != nil {
		h.errorResponse(c, http.StatusUnauthorized, "Ошибка авторизации")
		return
	}

	shares, err := h.Repository.GetSharedDocumentsForClient(userID)
	if err != nil {
		logrus.Error("Error getting shared documents: ", err)
		h.errorResponse(c, http.StatusInternalServerError, "Ошибка получения документов")
		return
	}

	dtoShares := make([]dto.SharedDocumentResponse, len(shares))
	for i, s := range shares {
		dtoShares[i] = dto.SharedDocumentResponse{
			ShareID:  s.ID,
			Note:     s.Note,
			SharedAt: s.CreatedAt,
			Document: toInternalDocumentResponse(&s.Document),
		}
	}

	c.JSON(http.StatusOK, dtoShares)
}
