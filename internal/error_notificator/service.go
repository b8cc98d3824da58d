package error_notificator

import (
	"context"
	"errors"
)

// Service fans a notification out to every configured channel.
type Service struct {
	infras []Notificator
}

func NewService(infras ...Notificator) *Service {
	out := make([]Notificator, 0, len(infras))
	for _, i := range infras {
		if i != nil {
			out = append(out, i)
		}
	}
	return &Service{infras: out}
}

func (s *Service) Notify(ctx context.Context, source string, err error, details string) error {
	var errs []error
	for _, i := range s.infras {
		if nErr := i.Notify(ctx, source, err, details); nErr != nil {
			errs = append(errs, nErr)
		}
	}
	return errors.Join(errs...)
}
