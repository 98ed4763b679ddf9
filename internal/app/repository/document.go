package repository

import (
	"errors"
	"time"

	"irs-backend/internal/app/ds"

	"gorm.io/gorm"
)

// Методы для документов проекта и внутреннего хранилища

func (r *Repository) CreateProjectDocument(projectID uint, title, description, storageKey, fileType string, fileSize int64, visibility string, createdBy uint) (*ds.ProjectDocument, error) {
	doc := ds.ProjectDocument{
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		StorageKey:  storageKey,
		FileType:    fileType,
		FileSize:    fileSize,
		Visibility:  visibility,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now(),
	}

	err := r.db.Create(&doc).Error
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *Repository) GetProjectDocuments(projectID uint, clientVisibleOnly bool) ([]ds.ProjectDocument, error) {
	dbq := r.db.Where("project_id = ?", projectID).Order("created_at desc")
	if clientVisibleOnly {
		dbq = dbq.Where("visibility = ?", ds.VisibilityClient)
	}

	var docs []ds.ProjectDocument
	err := dbq.Find(&docs).Error
	return docs, err
}

func (r *Repository) GetProjectDocumentByID(id uint) (*ds.ProjectDocument, error) {
	var doc ds.ProjectDocument
	err := r.db.First(&doc, id).Error
	if err != nil {
		return nil, errors.New("документ не найден")
	}
	return &doc, nil
}

// GetLatestContract возвращает последний сгенерированный контракт проекта.
// Контракты не дедуплицируются, "текущий" - самый свежий по заголовку.
func (r *Repository) GetLatestContract(projectID uint) (*ds.ProjectDocument, error) {
	var doc ds.ProjectDocument
	err := r.db.Where("project_id = ? AND title LIKE ?", projectID, ds.ContractTitlePrefix+"%").
		Order("created_at desc").First(&doc).Error
	if err != nil {
		return nil, errors.New("контракт не найден")
	}
	return &doc, nil
}

// DeleteProjectDocument удаляет строку документа.
// Объект в MinIO удаляет вызывающая сторона (best-effort).
func (r *Repository) DeleteProjectDocument(id uint) error {
	result := r.db.Delete(&ds.ProjectDocument{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("документ не найден")
	}
	return nil
}

// ============ Внутреннее хранилище ============

func (r *Repository) CreateInternalDocument(title, description, category, storageKey, fileType string, fileSize int64, confidential bool, createdBy uint) (*ds.InternalDocument, error) {
	if !ds.ValidDocumentCategory(category) {
		return nil, errors.New("неизвестная категория документа")
	}

	doc := ds.InternalDocument{
		Title:          title,
		Description:    description,
		Category:       category,
		IsConfidential: confidential,
		StorageKey:     storageKey,
		FileType:       fileType,
		FileSize:       fileSize,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}

	err := r.db.Create(&doc).Error
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

func (r *Repository) GetInternalDocuments(category, search string) ([]ds.InternalDocument, error) {
	dbq := r.db.Preload("Creator").Order("created_at desc")

	if category != "" {
		dbq = dbq.Where("category = ?", category)
	}
	if search != "" {
		pattern := "%" + search + "%"
		dbq = dbq.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	var docs []ds.InternalDocument
	err := dbq.Find(&docs).Error
	return docs, err
}

func (r *Repository) GetInternalDocumentByID(id uint) (*ds.InternalDocument, error) {
	var doc ds.InternalDocument
	err := r.db.First(&doc, id).Error
	if err != nil {
		return nil, errors.New("документ не найден")
	}
	return &doc, nil
}

// DeleteInternalDocument удаляет строку и все выдачи документа клиентам
func (r *Repository) DeleteInternalDocument(id uint) error {
	if err := r.db.Where("document_id = ?", id).Delete(&ds.ClientDocumentShare{}).Error; err != nil {
		return err
	}

	result := r.db.Delete(&ds.InternalDocument{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("документ не найден")
	}
	return nil
}

// ============ Выдача документов клиентам ============

// ShareDocumentWithClient выдает внутренний документ клиенту.
// Дубликат пары (клиент, документ) отсекает уникальный индекс,
// конфликт вставки - авторитетный признак "уже выдан".
func (r *Repository) ShareDocumentWithClient(documentID, clientID uint, note string, grantedBy uint) (*ds.ClientDocumentShare, error) {
	share := ds.ClientDocumentShare{
		DocumentID: documentID,
		ClientID:   clientID,
		Note:       note,
		GrantedBy:  grantedBy,
		CreatedAt:  time.Now(),
	}

	err := r.db.Create(&share).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyShared
		}
		return nil, err
	}

	return &share, nil
}

// RevokeShare снимает выдачу документа клиенту
func (r *Repository) RevokeShare(documentID, clientID uint) error {
	result := r.db.Where("document_id = ? AND client_id = ?", documentID, clientID).
		Delete(&ds.ClientDocumentShare{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errors.New("выдача не найдена")
	}
	return nil
}

func (r *Repository) GetDocumentShares(documentID uint) ([]ds.ClientDocumentShare, error) {
	var shares []ds.ClientDocumentShare
	err := r.db.Preload("ClientU").Preload("Granter").
		Where("document_id = ?", documentID).Order("created_at desc").Find(&shares).Error
	return shares, err
}

func (r *Repository) CountDocumentShares(documentID, clientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&ds.ClientDocumentShare{}).
		Where("document_id = ? AND client_id = ?", documentID, clientID).Count(&count).Error
	return count, err
}

// GetSharedDocumentsForClient возвращает документы, выданные клиенту
func (r *Repository) GetSharedDocumentsForClient(clientID uint) ([]ds.ClientDocumentShare, error) {
	var shares []ds.ClientDocumentShare
	err := r.db.Preload("Document").
		Where("client_id = ?", clientID).Order("created_at desc").Find(&shares).Error
	return shares, err
}
