package dto

import (
	"encoding/json"
	"time"
)

// ============ Общие структуры ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ============ Заявки на услуги (Service Requests) ============

type CreateRequestRequest struct {
	ServiceType string          `json:"service_type" binding:"required"`
	Details     json.RawMessage `json:"details"`
}

type RequestResponse struct {
	ID          uint            `json:"id"`
	ServiceType string          `json:"service_type"`
	Status      string          `json:"status"`
	Details     json.RawMessage `json:"details,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	Client        string `json:"client,omitempty"`         // Логин клиента
	ClientName    string `json:"client_name,omitempty"`    // ФИО клиента
	ClientCompany string `json:"client_company,omitempty"` // Компания клиента

	AdminNotes        string     `json:"admin_notes,omitempty"`
	ClientResponse    string     `json:"client_response,omitempty"`
	ClientRespondedAt *time.Time `json:"client_responded_at,omitempty"`
	Reviewer          string     `json:"reviewer,omitempty"` // Логин рецензента
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	ProjectID *uint `json:"project_id,omitempty"` // Проект, созданный по заявке
}

type RequestListResponse struct {
	Requests []RequestResponse `json:"requests"`
	Total    int               `json:"total"`
}

type ApproveRequestRequest struct {
	ContractValue  float64 `json:"contract_value" binding:"required,gt=0"`
	CompletionDate string  `json:"completion_date" binding:"required"` // Формат 2006-01-02
}

type ApproveRequestResponse struct {
	ProjectID    uint     `json:"project_id"`
	TrackingCode string   `json:"tracking_code"`
	SetupStatus  string   `json:"setup_status"`            // ready / needs_attention
	SkippedSteps []string `json:"skipped_steps,omitempty"` // Пропущенные шаги пост-обработки
}

type RequestInfoRequest struct {
	Note string `json:"note" binding:"required"`
}

type ClientResponseRequest struct {
	Response string `json:"response" binding:"required"`
}

// ============ Проекты (Projects) ============

type ProjectResponse struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	SetupStatus   string          `json:"setup_status,omitempty"`
	TrackingCode  string          `json:"tracking_code,omitempty"`
	ServiceType   string          `json:"service_type,omitempty"`
	Location      string          `json:"location,omitempty"`
	Vessel        string          `json:"vessel,omitempty"`
	ContractValue float64         `json:"contract_value"`
	Notes         string          `json:"notes,omitempty"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`

	Client        string `json:"client,omitempty"`
	ClientName    string `json:"client_name,omitempty"`
	ClientCompany string `json:"client_company,omitempty"`

	Progress int `json:"progress"` // Процент готовности по этапам

	ServiceRequestID *uint `json:"service_request_id,omitempty"`
}

type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Total    int               `json:"total"`
}

type ProjectDetailResponse struct {
	Project    ProjectResponse           `json:"project"`
	Milestones []MilestoneResponse       `json:"milestones"`
	Documents  []ProjectDocumentResponse `json:"documents"`
	Updates    []ProjectUpdateResponse   `json:"updates"`
}

type UpdateProjectRequest struct {
	Name          *string         `json:"name"`
	Description   *string         `json:"description"`
	Status        *string         `json:"status" binding:"omitempty,oneof=active on_hold completed cancelled"`
	StartDate     *string         `json:"start_date"` // Формат 2006-01-02
	EndDate       *string         `json:"end_date"`
	Location      *string         `json:"location"`
	Vessel        *string         `json:"vessel"`
	ContractValue *float64        `json:"contract_value" binding:"omitempty,gte=0"`
	Notes         *string         `json:"notes"`
	Metadata      json.RawMessage `json:"metadata"`
}

type ProjectUpdateResponse struct {
	ID          uint            `json:"id"`
	UpdateType  string          `json:"update_type"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	Visibility  string          `json:"visibility"`
	CreatedBy   string          `json:"created_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ============ Контракты (Contracts) ============

type GenerateContractRequest struct {
	Note string `json:"note"` // Необязательные дополнительные условия
}

type ContractResponse struct {
	DocumentID uint      `json:"document_id"`
	Title      string    `json:"title"`
	FileType   string    `json:"file_type"`
	CreatedAt  time.Time `json:"created_at"`
	ViewURL    string    `json:"view_url,omitempty"` // Подписанная ссылка на просмотр
}

// ============ Этапы (Milestones) ============

type MilestoneResponse struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	IsCompleted bool       `json:"is_completed"`
	IsCustom    bool       `json:"is_custom"`
	Status      string     `json:"status"`
	SortOrder   int        `json:"sort_order"`
}

type MilestoneListResponse struct {
	Milestones []MilestoneResponse `json:"milestones"`
	Progress   int                 `json:"progress"`
	Total      int                 `json:"total"`
}

type CreateMilestoneRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"` // Формат 2006-01-02
}

// ============ Документы (Documents) ============

type ProjectDocumentResponse struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	FileType    string    `json:"file_type,omitempty"`
	FileSize    int64     `json:"file_size"`
	Visibility  string    `json:"visibility"`
	CreatedAt   time.Time `json:"created_at"`
}

type InternalDocumentResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Category       string    `json:"category"`
	IsConfidential bool      `json:"is_confidential"`
	FileType       string    `json:"file_type,omitempty"`
	FileSize       int64     `json:"file_size"`
	CreatedBy      string    `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type InternalDocumentListResponse struct {
	Documents []InternalDocumentResponse `json:"documents"`
	Total     int                        `json:"total"`
}

type ShareDocumentRequest struct {
	ClientID uint   `json:"client_id" binding:"required"`
	Note     string `json:"note"`
}

type ShareResponse struct {
	ID        uint      `json:"id"`
	ClientID  uint      `json:"client_id"`
	Client    string    `json:"client,omitempty"`
	Note      string    `json:"note,omitempty"`
	GrantedBy string    `json:"granted_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SharedDocumentResponse struct {
	ShareID  uint                     `json:"share_id"`
	Note     string                   `json:"note,omitempty"`
	SharedAt time.Time                `json:"shared_at"`
	Document InternalDocumentResponse `json:"document"`
}

type DownloadResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // Секунды
}

// ============ Пользователи (Users) ============

type UserResponse struct {
	ID       uint   `json:"id"`
	Login    string `json:"login"`
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Company  string `json:"company,omitempty"`
	Role     int    `json:"role"`
}

type RegisterRequest struct {
	Login    string `json:"login" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"omitempty,email"`
	Company  string `json:"company"`
	Role     int    `json:"role"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Company  string `json:"company"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}
