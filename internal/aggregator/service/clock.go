package service

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// timestamp renders the wall clock the way every API payload reports it.
func timestamp(clock clockwork.Clock) string {
	return clock.Now().Format(time.RFC3339)
}
