package implementation

import (
	"context"
	"errors"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) contract.ISourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Source, error) {
	var source entity.Source
	err := r.db.WithContext(ctx).First(&source, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &source, nil
}

func (r *sourceRepository) FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Source, error) {
	var sources []entity.Source
	err := r.db.WithContext(ctx).
		Where("notebook_id = ?", notebookId).
		Order("created_at ASC").
		Find(&sources).Error
	return sources, err
}

func (r *sourceRepository) InsightsBySource(ctx context.Context, sourceId uuid.UUID) ([]entity.SourceInsight, error) {
	var insights []entity.SourceInsight
	err := r.db.WithContext(ctx).
		Where("source_id = ?", sourceId).
		Order("created_at ASC").
		Find(&insights).Error
	return insights, err
}

func (r *sourceRepository) FindInsightByID(ctx context.Context, id uuid.UUID) (*entity.SourceInsight, error) {
	var insight entity.SourceInsight
	err := r.db.WithContext(ctx).First(&insight, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &insight, nil
}

func (r *sourceRepository) FindEmbeddingByID(ctx context.Context, id uuid.UUID) (*entity.SourceEmbedding, error) {
	var chunk entity.SourceEmbedding
	err := r.db.WithContext(ctx).First(&chunk, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

func (r *sourceRepository) ReplaceEmbeddings(ctx context.Context, sourceId uuid.UUID, chunks []entity.SourceEmbedding) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", sourceId).Delete(&entity.SourceEmbedding{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		return tx.Create(&chunks).Error
	})
}
