// Package platform sends desktop notifications through whatever the host
// operating system provides.
package platform

import "time"

// AppName is reported to notification servers that group by application.
const AppName = "Scribble"

// Options configures how a notification is displayed.
type Options struct {
	// IconPath points to an image shown with the notification when the
	// platform supports it.
	IconPath string
	// Timeout is how long the notification stays up. Zero leaves it to
	// the platform.
	Timeout time.Duration
}

func (o Options) timeoutMillis() int32 {
	if o.Timeout <= 0 {
		return -1
	}
	return int32(o.Timeout / time.Millisecond)
}
