package error_notificator

import "context"

type Notificator interface {
	// Notify: сообщает о сбое бэкенда (source: stage или компонент)
	Notify(ctx context.Context, source string, err error, details string) error
}
