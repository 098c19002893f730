package service

import (
	"context"
	"encoding/json"
	"strings"

	"research-chat-be/internal/entity"
	"research-chat-be/internal/pkg/logger"
	"research-chat-be/internal/repository/contract"
	"research-chat-be/pkg/embedding"
	"research-chat-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

const reembedTopic = "source.reembed"

type reembedMessage struct {
	SourceId uuid.UUID `json:"source_id"`
}

type IReembedService interface {
	RequestReembed(ctx context.Context, sourceId uuid.UUID) error
	Consume(ctx context.Context) error
}

// reembedService re-chunks a source's full text and regenerates its
// embedding rows off the request path. Requests go over the in-process event
// bus; a second request for the same source simply redoes the work, the
// replace is transactional.
type reembedService struct {
	pubSub     *gochannel.GoChannel
	sourceRepo contract.ISourceRepository
	embedder   embedding.Provider
	chunkSize  int
	overlap    int
	logger     logger.ILogger
}

func NewReembedService(
	pubSub *gochannel.GoChannel,
	sourceRepo contract.ISourceRepository,
	embedder embedding.Provider,
	chunkSize int,
	overlap int,
	log logger.ILogger,
) IReembedService {
	return &reembedService{
		pubSub:     pubSub,
		sourceRepo: sourceRepo,
		embedder:   embedder,
		chunkSize:  chunkSize,
		overlap:    overlap,
		logger:     log,
	}
}

func (s *reembedService) RequestReembed(ctx context.Context, sourceId uuid.UUID) error {
	payload, err := json.Marshal(reembedMessage{SourceId: sourceId})
	if err != nil {
		return err
	}
	return s.pubSub.Publish(reembedTopic, message.NewMessage(watermill.NewUUID(), payload))
}

// Consume blocks processing reembed requests until the context is canceled.
// Run it on its own goroutine from main.
func (s *reembedService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, reembedTopic)
	if err != nil {
		return err
	}

	for msg := range messages {
		if err := s.process(ctx, msg); err != nil {
			s.logger.Error("ReembedService", "Reembed failed", map[string]interface{}{
				"message_id": msg.UUID,
				"error":      err.Error(),
			})
		}
		// Ack regardless; a failed reembed is retried by the next explicit
		// request, not by redelivery.
		msg.Ack()
	}
	return nil
}

func (s *reembedService) process(ctx context.Context, msg *message.Message) error {
	var payload reembedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return err
	}

	source, err := s.sourceRepo.FindByID(ctx, payload.SourceId)
	if err != nil {
		return err
	}
	if source == nil {
		s.logger.Warn("ReembedService", "Source vanished before reembed", map[string]interface{}{
			"source_id": payload.SourceId.String(),
		})
		return nil
	}

	var chunks []string
	if strings.TrimSpace(source.FullText) != "" {
		chunks = utils.SplitText(source.FullText, s.chunkSize, s.overlap)
	}
	rows := make([]entity.SourceEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return err
		}
		rows = append(rows, entity.SourceEmbedding{
			Id:         uuid.New(),
			SourceId:   source.Id,
			ChunkIndex: i,
			Content:    chunk,
			Embedding:  pgvector.NewVector(vec),
		})
	}

	if err := s.sourceRepo.ReplaceEmbeddings(ctx, source.Id, rows); err != nil {
		return err
	}

	s.logger.Info("ReembedService", "Source reembedded", map[string]interface{}{
		"source_id": source.Id.String(),
		"chunks":    len(rows),
	})
	return nil
}
