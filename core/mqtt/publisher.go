package mqtt

import (
	"errors"
	"time"
)

// Publisher pushes finalized day schedules to downstream consumers.
type Publisher interface {
	// PublishSchedule publishes the payload for the given calendar day and
	// returns once the broker acknowledged it or retries are exhausted.
	PublishSchedule(day time.Time, payload []byte) error
}

// ErrNotConnected is returned when publishing without a broker connection.
var ErrNotConnected = errors.New("mqtt: not connected")
