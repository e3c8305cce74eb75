package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"portfolio/internal/domain/models"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/metrics"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidMessage = errors.New("invalid contact message")
	ErrDeliveryFailed = errors.New("failed to send message, please try again")
	ErrRateLimited    = errors.New("too many messages, please try again later")
)

const rateWindow = time.Hour

type EmailSender interface {
	Send(ctx context.Context, serviceID, templateID, publicKey string, params map[string]string) error
}

type RateLimiter interface {
	Hit(ctx context.Context, key string, window time.Duration) (int64, error)
}

// EmailTemplate identifies the template used for contact messages and the
// owner address it is delivered to.
type EmailTemplate struct {
	ServiceID  string
	TemplateID string
	PublicKey  string
	ToEmail    string
}

type ContactService struct {
	log      *slog.Logger
	sender   EmailSender
	template EmailTemplate
	limiter  RateLimiter
	perHour  int64
	validate *validator.Validate
}

// NewContactService builds the service. A nil limiter or perHour <= 0
// disables rate limiting.
func NewContactService(log *slog.Logger, sender EmailSender, template EmailTemplate, limiter RateLimiter, perHour int64) *ContactService {
	return &ContactService{
		log:      log,
		sender:   sender,
		template: template,
		limiter:  limiter,
		perHour:  perHour,
		validate: validator.New(),
	}
}

// Send forwards msg to the site owner. Delivery errors are logged and
// reported as ErrDeliveryFailed; nothing is retried.
func (s *ContactService) Send(ctx context.Context, ip string, msg models.ContactMessage) error {
	const op = "contact_service.Send"

	log := s.log.With(
		slog.String("op", op),
		slog.String("ip", ip),
	)

	msg = trimMessage(msg)

	if err := s.validate.Struct(msg); err != nil {
		metrics.ContactMessagesTotal.WithLabelValues("invalid").Inc()
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidMessage, err)
	}

	if s.limited(ctx, log, ip) {
		metrics.ContactMessagesTotal.WithLabelValues("rate_limited").Inc()
		return fmt.Errorf("%s: %w", op, ErrRateLimited)
	}

	if err := s.sender.Send(ctx, s.template.ServiceID, s.template.TemplateID, s.template.PublicKey, s.Params(msg)); err != nil {
		log.Error("email delivery failed", sl.Err(err))
		metrics.ContactMessagesTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("%s: %w", op, ErrDeliveryFailed)
	}

	metrics.ContactMessagesTotal.WithLabelValues("sent").Inc()
	log.Info("contact message sent")

	return nil
}

// Params is the flat template parameter map sent to the email API.
func (s *ContactService) Params(msg models.ContactMessage) map[string]string {
	return map[string]string{
		"from_name":  msg.Name,
		"from_email": msg.Email,
		"subject":    msg.Subject,
		"message":    msg.Message,
		"to_email":   s.template.ToEmail,
	}
}

// limited fails open: a broken counter never blocks a message.
func (s *ContactService) limited(ctx context.Context, log *slog.Logger, ip string) bool {
	if s.limiter == nil || s.perHour <= 0 {
		return false
	}

	count, err := s.limiter.Hit(ctx, "contact:"+ip, rateWindow)
	if err != nil {
		log.Warn("rate limiter unavailable", sl.Err(err))
		return false
	}

	return count > s.perHour
}

func trimMessage(msg models.ContactMessage) models.ContactMessage {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)
	return msg
}
