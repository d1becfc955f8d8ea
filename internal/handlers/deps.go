package handlers

import "context"

// StatsInvalidator drops cached gym statistics after revenue or usage changes.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

// Notifier stores an in-app notification and e-mails the user.
type Notifier interface {
	NotifyQuietly(ctx context.Context, userID uint, kind, title, message string)
}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

type noopNotifier struct{}

func (noopNotifier) NotifyQuietly(context.Context, uint, string, string, string) {}

func orNoopInvalidator(s StatsInvalidator) StatsInvalidator {
	if s == nil {
		return noopInvalidator{}
	}
	return s
}

func orNoopNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}
