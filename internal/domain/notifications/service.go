package notifications

import (
	"context"

	"github.com/rs/zerolog/log"
)

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Service struct {
	Store       *Store
	Mailer      Mailer
	DefaultFrom string
}

func NewService(store *Store, mailer Mailer, defaultFrom string) *Service {
	if defaultFrom == "" {
		defaultFrom = "no-reply@example.com"
	}
	return &Service{Store: store, Mailer: mailer, DefaultFrom: defaultFrom}
}

// Notify persists an in-app notification and mirrors it to email on a
// best-effort basis. Email failures are logged, never surfaced; the in-app
// record is the source of truth.
func (s *Service) Notify(ctx context.Context, userID, ntype, title, body string) error {
	if err := s.Store.CreateNotification(ctx, userID, ntype, title, body); err != nil {
		return err
	}
	if s.Mailer == nil {
		return nil
	}
	email, err := s.Store.UserEmail(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("notification email lookup failed")
		return nil
	}
	if email == "" {
		return nil
	}
	if err := s.Mailer.Send(ctx, s.DefaultFrom, email, title, body); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("notification email send failed")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.Store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.Store.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Store.MarkRead(ctx, userID, notificationID)
}
