package service

import (
	"context"
	"encoding/json"

	"docchat-be/internal/dto"
	"docchat-be/internal/pkg/logger"
	"docchat-be/internal/repository/contract"
	"docchat-be/pkg/vector"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService turns extracted text into the .vector companion that marks
// an upload as available.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	documents  contract.DocumentRepository
	uploads    contract.UploadRepository
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	documents contract.DocumentRepository,
	uploads contract.UploadRepository,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		documents:  documents,
		uploads:    uploads,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A failed encode leaves the upload unlisted;
// redelivering on a local filesystem error would only spin.
func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload dto.EncodeVectorMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("VectorConsumer", "Failed to unmarshal message", map[string]interface{}{
			"error":      err,
			"message_id": msg.UUID,
		})
		return
	}

	text, found := cs.documents.ReadDocument(ctx, payload.Filename)
	if !found {
		cs.logger.Warn("VectorConsumer", "Text companion missing, skipping", map[string]interface{}{
			"filename": payload.Filename,
		})
		return
	}

	data := vector.EncodeText(text)
	if err := cs.uploads.WriteVector(ctx, payload.Filename, data); err != nil {
		cs.logger.Error("VectorConsumer", "Failed to write vector", map[string]interface{}{
			"error":    err,
			"filename": payload.Filename,
		})
		return
	}

	cs.logger.Info("VectorConsumer", "Vector written", map[string]interface{}{
		"filename":   payload.Filename,
		"dimensions": len(data) / 4,
	})
}
