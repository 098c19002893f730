package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NotebookId uuid.UUID `gorm:"type:uuid;index;not null"`
	Title      string    `gorm:"not null"`
	// Last saved context selection (assembly.ContextConfig as JSONB) so a
	// reopened session starts with the same toggles
	ContextConfig datatypes.JSON
	CreatedAt     time.Time
	UpdatedAt     *time.Time

	Notebook *Notebook `gorm:"foreignKey:NotebookId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;index;not null"`
	Role          string    `gorm:"not null"` // "user" | "assistant"
	Content       string    `gorm:"type:text;not null"`
	CreatedAt     time.Time

	ChatSession *ChatSession `gorm:"foreignKey:ChatSessionId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ChatMessageReference is a persistent link between an assistant message and
// a cited entity (source, note, insight or embedding chunk)
type ChatMessageReference struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;index;not null"`
	Kind          string    `gorm:"not null"`
	EntityId      string    `gorm:"not null"`
	CreatedAt     time.Time

	ChatMessage *ChatMessage `gorm:"foreignKey:ChatMessageId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
