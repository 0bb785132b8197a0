package probe

import "time"

type RequestLog struct {
	Method   string
	URL      string
	Headers  map[string][]string
	Status   int
	Duration time.Duration
	Err      error
}

type RequestLogger func(RequestLog)
