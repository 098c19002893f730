package contract

import (
	"context"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
)

type ISourceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Source, error)
	FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Source, error)
	InsightsBySource(ctx context.Context, sourceId uuid.UUID) ([]entity.SourceInsight, error)
	FindInsightByID(ctx context.Context, id uuid.UUID) (*entity.SourceInsight, error)
	FindEmbeddingByID(ctx context.Context, id uuid.UUID) (*entity.SourceEmbedding, error)
	// ReplaceEmbeddings swaps all embedded chunks of a source in one
	// transaction
	ReplaceEmbeddings(ctx context.Context, sourceId uuid.UUID, chunks []entity.SourceEmbedding) error
}
