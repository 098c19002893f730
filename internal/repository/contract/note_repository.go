package contract

import (
	"context"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
)

type INoteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	FindByNotebook(ctx context.Context, notebookId uuid.UUID) ([]entity.Note, error)
}
