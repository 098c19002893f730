package implementation

import (
	"context"
	"errors"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notebookRepository struct {
	db *gorm.DB
}

func NewNotebookRepository(db *gorm.DB) contract.INotebookRepository {
	return &notebookRepository{db: db}
}

func (r *notebookRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Notebook, error) {
	var notebook entity.Notebook
	err := r.db.WithContext(ctx).First(&notebook, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &notebook, nil
}

func (r *notebookRepository) Create(ctx context.Context, notebook *entity.Notebook) error {
	return r.db.WithContext(ctx).Create(notebook).Error
}
