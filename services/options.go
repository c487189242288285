package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/ordermenu/utils"
)

// Order events published to kitchen displays.
const (
	EventOrderCreated = "order_created"
	EventOrderUpdated = "order_updated"
	EventOrderDeleted = "order_deleted"
)

// Notifier receives order events after their transaction has committed.
type Notifier interface {
	Publish(event string, data interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, interface{}) {}

type settings struct {
	now        Clock
	notifier   Notifier
	location   *time.Location
	paymentKey string
}

// Option tunes a service at construction time.
type Option func(*settings)

func WithClock(c Clock) Option {
	return func(s *settings) { s.now = c }
}

func WithNotifier(n Notifier) Option {
	return func(s *settings) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLocation sets the zone whose calendar day scopes order sequences.
func WithLocation(loc *time.Location) Option {
	return func(s *settings) { s.location = loc }
}

// WithPaymentServerKey enables signature checks on payment notifications.
func WithPaymentServerKey(key string) Option {
	return func(s *settings) { s.paymentKey = key }
}

func newSettings(opts []Option) settings {
	s := settings{
		now:      time.Now,
		notifier: noopNotifier{},
		location: time.Local,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (s settings) publish(event string, data interface{}) {
	defer func() {
		if r := recover(); r != nil {
			utils.Error(logrus.Fields{"event": event, "panic": r}).Error("Notifier panicked")
		}
	}()
	s.notifier.Publish(event, data)
}
