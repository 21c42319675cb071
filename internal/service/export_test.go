package service

import "time"

// WithSleep replaces the blocking sleep used for the add delay.
func WithSleep(sleep func(time.Duration)) Option {
	return func(s *TodoService) { s.sleep = sleep }
}
