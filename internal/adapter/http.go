package adapter

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// parseRetryAfter turns a Retry-After header into a wait. Both delay-seconds
// ("120") and HTTP-date forms are accepted. Absent, unparseable or past
// values yield zero.
func parseRetryAfter(value string, now time.Time) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	at, err := http.ParseTime(value)
	if err != nil {
		return 0
	}
	if wait := at.Sub(now); wait > 0 {
		return wait
	}
	return 0
}
