package repository

import (
	"errors"
	"fmt"

	"irs-backend/internal/app/ds"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Ошибки уровня хранилища
var (
	ErrAlreadyShared     = errors.New("документ уже выдан этому клиенту")
	ErrAlreadyApproved   = errors.New("по этой заявке уже создан проект")
	ErrInvalidTransition = errors.New("недопустимый переход статуса заявки")
)

type Repository struct {
	db *gorm.DB
}

func New(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	return NewWithDB(db)
}

// NewWithDB оборачивает готовое подключение (в тестах - sqlite in-memory)
func NewWithDB(db *gorm.DB) (*Repository, error) {
	// Автоматическая миграция всех таблиц
	err := db.AutoMigrate(
		&ds.User{},
		&ds.ServiceRequest{},
		&ds.Project{},
		&ds.Milestone{},
		&ds.ProjectDocument{},
		&ds.ProjectUpdate{},
		&ds.InternalDocument{},
		&ds.ClientDocumentShare{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{
		db: db,
	}, nil
}
