package entity

import (
	"time"

	"github.com/google/uuid"
)

type Note struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NotebookId uuid.UUID `gorm:"type:uuid;index;not null"`
	Title      string    `gorm:"not null"`
	// Content may be Lexical JSON or plain markdown
	Content   string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt *time.Time

	Notebook *Notebook `gorm:"foreignKey:NotebookId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
