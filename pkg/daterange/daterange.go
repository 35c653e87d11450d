// Package daterange turns the from/to/range query parameters of the analytics
// endpoints into a UTC time window.
package daterange

import (
	"fmt"
	"strings"
	"time"
)

type Window struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

var layouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Millisecond)
}

// Resolve builds the window. An explicit from wins over rng; unknown or empty
// rng with no from means all time. Unparseable dates are ignored.
func Resolve(from, to, rng string, now time.Time) Window {
	now = now.UTC()

	end := now
	if t, ok := parseDate(to); ok {
		end = endOfDay(t)
	}

	if t, ok := parseDate(from); ok {
		return Window{From: startOfDay(t), To: end}
	}

	start := time.Unix(0, 0).UTC()
	switch strings.ToLower(strings.TrimSpace(rng)) {
	case "1d":
		start = end.AddDate(0, 0, -1)
	case "7d":
		start = end.AddDate(0, 0, -7)
	case "15d":
		start = end.AddDate(0, 0, -15)
	case "30d":
		start = end.AddDate(0, 0, -30)
	case "6m":
		start = end.AddDate(0, -6, 0)
	case "1y":
		start = end.AddDate(-1, 0, 0)
	}

	return Window{From: start, To: end}
}

// Today is the window from UTC midnight to now.
func Today(now time.Time) Window {
	return Window{From: startOfDay(now), To: now.UTC()}
}

// Key is a cache key fragment for the window. Bounds are truncated to the
// minute so relative windows share a key between nearby requests.
func (w Window) Key() string {
	return fmt.Sprintf("%d-%d", w.From.Truncate(time.Minute).Unix(), w.To.Truncate(time.Minute).Unix())
}
