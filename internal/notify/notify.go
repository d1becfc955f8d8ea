package notify

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/gym-manager/internal/logger"
	"github.com/BruksfildServices01/gym-manager/internal/mailer"
	"github.com/BruksfildServices01/gym-manager/internal/models"
)

// Service stores in-app notifications and mirrors them by e-mail in the
// background. E-mails are dropped when the outbox is full or closed.
type Service struct {
	db     *gorm.DB
	mailer mailer.Mailer
	outbox chan mailer.Message
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewService(db *gorm.DB, m mailer.Mailer) *Service {
	s := &Service{
		db:     db,
		mailer: m,
		outbox: make(chan mailer.Message, 100),
		done:   make(chan struct{}),
	}

	go s.worker()
	return s
}

func (s *Service) worker() {
	defer close(s.done)
	for msg := range s.outbox {
		if err := s.mailer.Send(context.Background(), msg); err != nil {
			logger.L().Warn("notification mail failed",
				zap.String("to", msg.To),
				zap.Error(err),
			)
		}
	}
}

// Notify creates a notification for userID. A nil service does nothing.
func (s *Service) Notify(
	ctx context.Context,
	userID uint,
	kind string,
	title string,
	message string,
) (*models.Notification, error) {

	if s == nil {
		return nil, nil
	}

	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Type:    kind,
		SentAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(n).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.WithContext(ctx).Select("id", "email").First(&user, userID).Error; err == nil && user.Email != "" {
		s.enqueue(mailer.Message{To: user.Email, Subject: title, Body: message})
	}

	return n, nil
}

// NotifyQuietly is Notify for callers that must not fail on notification errors.
func (s *Service) NotifyQuietly(ctx context.Context, userID uint, kind, title, message string) {
	if _, err := s.Notify(ctx, userID, kind, title, message); err != nil {
		logger.FromContext(ctx).Warn("notification failed",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *Service) enqueue(msg mailer.Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		logger.L().Warn("mail outbox closed, dropping message", zap.String("to", msg.To))
		return
	}

	select {
	case s.outbox <- msg:
	default:
		logger.L().Warn("mail outbox full, dropping message", zap.String("to", msg.To))
	}
}

// Close drains the outbox. Notifications created afterwards are still
// stored but no longer mailed. Calling Close twice is safe.
func (s *Service) Close() {
	if s == nil {
		return
	}

	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.outbox)
	}
	s.mu.Unlock()

	<-s.done
}
