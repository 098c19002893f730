package entity

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Source struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey"`
	NotebookId uuid.UUID `gorm:"type:uuid;index;not null"`
	Title      string    `gorm:"not null"`
	FullText   string    `gorm:"type:text"`
	Topics     datatypes.JSON
	CreatedAt  time.Time
	UpdatedAt  *time.Time

	Notebook *Notebook `gorm:"foreignKey:NotebookId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type SourceInsight struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SourceId    uuid.UUID `gorm:"type:uuid;index;not null"`
	InsightType string    `gorm:"not null"` // "summary", "key_topics", ...
	Content     string    `gorm:"type:text;not null"`
	CreatedAt   time.Time

	Source *Source `gorm:"foreignKey:SourceId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// SourceEmbedding is one embedded chunk of a source's full text
type SourceEmbedding struct {
	Id         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SourceId   uuid.UUID       `gorm:"type:uuid;index;not null"`
	ChunkIndex int             `gorm:"not null"`
	Content    string          `gorm:"type:text;not null"`
	Embedding  pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt  time.Time

	Source *Source `gorm:"foreignKey:SourceId;references:Id;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
