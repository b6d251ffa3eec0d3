package services

import (
	"time"

	"gin-inventory/models"
)

// Clock returns the current time in the zone used for calendar dates.
type Clock func() time.Time

func SystemClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

func (c Clock) Today() models.Date {
	return models.DateOf(c())
}
