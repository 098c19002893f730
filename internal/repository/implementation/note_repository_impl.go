package implementation

import (
	"context"
	"errors"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type noteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) contract.INoteRepository {
	return &noteRepository{db: db}
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	var note entity.Note
	err := r.db.WithContext(ctx).First(&note, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *noteRepository) FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Note, error) {
	var notes []entity.Note
	err := r.db.WithContext(ctx).
		Where("notebook_id = ?", notebookId).
		Order("created_at ASC").
		Find(&notes).Error
	return notes, err
}
