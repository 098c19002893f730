package contract

import (
	"context"

	"research-chat-be/internal/entity"

	"github.com/google/uuid"
)

type INotebookRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Notebook, error)
	Create(ctx context.Context, notebook *entity.Notebook) error
}
