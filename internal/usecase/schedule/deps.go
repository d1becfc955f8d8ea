package schedule

import "context"

// Notifier delivers in-app notifications. Failures are logged, never returned.
type Notifier interface {
	NotifyQuietly(ctx context.Context, userID uint, kind, title, message string)
}

// StatsInvalidator drops cached gym statistics after schedule changes.
type StatsInvalidator interface {
	Invalidate(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) NotifyQuietly(context.Context, uint, string, string, string) {}

type noopInvalidator struct{}

func (noopInvalidator) Invalidate(context.Context) {}

func orNoopNotifier(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func orNoopInvalidator(i StatsInvalidator) StatsInvalidator {
	if i == nil {
		return noopInvalidator{}
	}
	return i
}
