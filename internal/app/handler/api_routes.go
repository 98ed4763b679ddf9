package handler

import (
	"irs-backend/internal/app/middleware"
	"irs-backend/internal/app/role"

	"github.com/gin-gonic/gin"
)

// RegisterAPIRoutes регистрирует все REST API маршруты с авторизацией
func (h *APIHandler) RegisterAPIRoutes(router *gin.Engine, authMiddleware *middleware.AuthMiddleware) {
	// REST API маршруты
	api := router.Group("/api")

	// ============ Заявки на услуги (Service Requests) ============
	requests := api.Group("/requests")
	{
		// Клиент подает заявку и работает со своими заявками
		requests.POST("", authMiddleware.WithAuthCheck(role.Client), h.CreateRequest)
		requests.POST("/:id/respond", authMiddleware.WithAuthCheck(role.Client), h.RespondToRequest)
		requests.POST("/:id/cancel", authMiddleware.WithAuthCheck(role.Client), h.CancelRequest)

		// Список и карточка доступны всем ролям, фильтрация по владельцу внутри
		requests.GET("", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetRequests)
		requests.GET("/:id", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetRequest)

		// Решения по заявке принимают сотрудники
		requests.POST("/:id/approve", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.ApproveRequest)
		requests.POST("/:id/reject", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.RejectRequest)
		requests.POST("/:id/request-info", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.RequestInfo)
	}

	// ============ Проекты (Projects) ============
	projects := api.Group("/projects")
	{
		projects.GET("", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetProjects)
		projects.GET("/:id", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetProject)
		projects.GET("/:id/updates", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetProjectFeed)
		projects.PUT("/:id", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.UpdateProject)

		// Этапы проекта
		projects.GET("/:id/milestones", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetMilestones)
		projects.POST("/:id/milestones", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.CreateMilestone)
		projects.POST("/:id/milestones/generate", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GenerateMilestones)

		// Контракт проекта
		projects.GET("/:id/contract", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.GetContract)
		projects.POST("/:id/contract", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GenerateContract)
		projects.DELETE("/:id/contract", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.DeleteContract)

		// Документы проекта
		projects.POST("/:id/documents", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.UploadProjectDocument)
	}

	// Этапы адресуются собственным ID
	milestones := api.Group("/milestones")
	milestones.Use(authMiddleware.WithAuthCheck(role.Staff, role.Admin))
	{
		milestones.PUT("/:id/toggle", h.ToggleMilestone)
		milestones.DELETE("/:id", h.DeleteMilestone)
	}

	// Документы проекта адресуются собственным ID
	documents := api.Group("/documents")
	{
		documents.GET("/:id/download", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.DownloadProjectDocument)
		documents.DELETE("/:id", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.DeleteProjectDocument)
	}

	// ============ Хранилище документов компании (Document Vault) ============
	vault := api.Group("/internal-documents")
	{
		vault.POST("", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.UploadInternalDocument)
		vault.GET("", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetInternalDocuments)
		vault.DELETE("/:id", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.DeleteInternalDocument)

		// Клиент скачивает только выданные ему документы, проверка внутри
		vault.GET("/:id/download", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.DownloadInternalDocument)

		// Выдача документов клиентам
		vault.POST("/:id/share", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.ShareDocument)
		vault.DELETE("/:id/share/:client_id", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.RevokeShare)
		vault.GET("/:id/shares", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.GetDocumentShares)
	}

	// Документы, выданные текущему клиенту
	api.GET("/shared-documents", authMiddleware.WithAuthCheck(role.Client), h.GetSharedDocuments)

	// Список клиентов для формы выдачи документов
	api.GET("/clients", authMiddleware.WithAuthCheck(role.Staff, role.Admin), h.AuthHandler.GetClients)

	// ============ Аутентификация (публичные эндпоинты) ============
	auth := api.Group("/auth")
	{
		// Публичные эндпоинты
		auth.POST("/register", h.AuthHandler.RegisterUser) // POST регистрация
		auth.POST("/login", h.AuthHandler.LoginUser)       // POST аутентификация JWT

		// Защищенные эндпоинты
		auth.GET("/profile", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.AuthHandler.GetUserProfile)
		auth.PUT("/profile", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.AuthHandler.UpdateProfile)
		auth.POST("/avatar", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.AuthHandler.UploadAvatar)
		auth.POST("/logout", authMiddleware.WithAuthCheck(role.Client, role.Staff, role.Admin), h.AuthHandler.LogoutUser)
	}

	// Ping эндпоинт для проверки
	router.GET("/ping", h.Ping)
}

// Ping проверяет работоспособность API
// @Summary Проверка работоспособности
// @Description Возвращает простой ответ для проверки работы сервера
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (h *APIHandler) Ping(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"message": "pong"})
}
