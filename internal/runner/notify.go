package runner

import (
	"time"

	"golang.org/x/time/rate"
)

// Notifier shows a user-visible notification.
type Notifier interface {
	Notify(title, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(title, message string)

func (f NotifierFunc) Notify(title, message string) { f(title, message) }

type rateLimitedNotifier struct {
	next    Notifier
	limiter *rate.Limiter
}

// RateLimited drops notifications arriving faster than one per interval.
// Queries are re-run on every keystroke, so an unavailable wallet would
// otherwise notify once per character.
func RateLimited(next Notifier, every time.Duration) Notifier {
	return &rateLimitedNotifier{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

func (n *rateLimitedNotifier) Notify(title, message string) {
	if n.limiter.Allow() {
		n.next.Notify(title, message)
	}
}
