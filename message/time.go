package message

import (
	"time"

	"dvrip/wire"
)

// timeForJSON renders an optional datetime using the shared sentinel
// encoding; nil means absent.
func timeForJSON(t *time.Time) (string, error) {
	return wire.DatetimeString(t)
}

func popTime(o object, key, description string) (*time.Time, error) {
	s, err := popString(o, key, description)
	if err != nil {
		return nil, err
	}
	return wire.ParseDatetime(s)
}
