package whatsapp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmacia/internal/domain/models"
	client "github.com/mamadbah2/farmacia/pkg/clients/whatsapp"
)

// MessagingService pushes operator notifications to an external channel.
type MessagingService interface {
	SendOutbound(ctx context.Context, msg models.OutboundMessage) error
}

// MetaWhatsAppService delivers notifications through the WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client client.Client
	logger *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(c client.Client, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{client: c, logger: logger}
}

// SendOutbound sends msg as a plain text message.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, msg models.OutboundMessage) error {
	if msg.To == "" {
		return errors.New("outbound message has no recipient")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
		To:   msg.To,
		Body: msg.Message,
	})
	if err != nil {
		return err
	}

	if len(resp.Messages) > 0 {
		s.logger.Debug("outbound message accepted", zap.String("message_id", resp.Messages[0].ID))
	}
	return nil
}
