package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tnqbao/gau-document-service/entity"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(document *entity.Document) error {
	if document.ID == uuid.Nil {
		document.ID = uuid.New()
	}
	return r.db.Create(document).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, bool, error) {
	var document entity.Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &document, true, nil
}

func (r *DocumentRepository) FindAll() ([]entity.Document, error) {
	var documents []entity.Document
	err := r.db.Order("created_at DESC").Find(&documents).Error
	return documents, err
}

func (r *DocumentRepository) FindByOwner(ownerID uuid.UUID) ([]entity.Document, error) {
	var documents []entity.Document
	err := r.db.Where("created_by_id = ?", ownerID).Order("created_at DESC").Find(&documents).Error
	return documents, err
}

func (r *DocumentRepository) Update(document *entity.Document) error {
	return r.db.Save(document).Error
}

func (r *DocumentRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&entity.Document{}, "id = ?", id).Error
}
