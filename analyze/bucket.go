// Package analyze holds the corpus analyzers: time-of-day bucketing, emoji
// counting, word-frequency classification, and the corpus language profile.
//
// Every analyzer is a pure, single-pass function over an immutable
// []message.Message snapshot. None of them mutate the corpus or keep state
// between calls, so they can run in any order (or concurrently) over the
// same slice, and all of them return well-defined empty results for an empty
// corpus.
package analyze

import (
	"fmt"
	"sort"
	"time"

	"github.com/sillydata/message-miner/message"
)

// Point is one time-bucketed message, ready for a time-vs-date plot.
type Point struct {
	// SecondsOfDay is seconds since midnight in the target zone.
	SecondsOfDay int `json:"seconds_of_day"`

	// Date is midnight of the message's calendar day in the target zone.
	Date time.Time `json:"date"`

	// TimeLabel is the "HH:MM" hover label.
	TimeLabel string `json:"time_label"`
}

// MonthTick marks the first day of a calendar month on the date axis.
// January ticks carry no axis label; they anchor the year annotation instead.
type MonthTick struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label,omitempty"`
	Year  int       `json:"year,omitempty"`
}

// BucketResult is the decorated view of a corpus for plotting.
type BucketResult struct {
	Points     []Point     `json:"points"`
	MonthTicks []MonthTick `json:"month_ticks"`

	// Dropped counts messages excluded for an unparseable (zero) timestamp.
	// Callers surface this; bucketing never absorbs the discrepancy
	// silently.
	Dropped int `json:"dropped"`
}

// Bucket converts each message's timestamp to loc once, derives its
// intra-day offset and calendar date, and computes one tick per calendar
// month spanned by the corpus (min..max inclusive). Points are ordered by
// date, ties keeping corpus order. A nil loc means UTC.
func Bucket(msgs []message.Message, loc *time.Location) BucketResult {
	if loc == nil {
		loc = time.UTC
	}

	var res BucketResult
	for _, m := range msgs {
		if m.Time.IsZero() {
			res.Dropped++
			continue
		}
		t := m.Time.In(loc)
		res.Points = append(res.Points, Point{
			SecondsOfDay: t.Hour()*3600 + t.Minute()*60 + t.Second(),
			Date:         midnight(t),
			TimeLabel:    fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()),
		})
	}
	if len(res.Points) == 0 {
		return res
	}

	sort.SliceStable(res.Points, func(i, j int) bool {
		return res.Points[i].Date.Before(res.Points[j].Date)
	})

	first := res.Points[0].Date
	last := res.Points[len(res.Points)-1].Date
	res.MonthTicks = monthTicks(first, last)
	return res
}

// monthTicks returns a tick for every month between first and last
// inclusive. Both arguments are midnights in the target zone.
func monthTicks(first, last time.Time) []MonthTick {
	var ticks []MonthTick
	m := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	end := time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, last.Location())
	for !m.After(end) {
		tick := MonthTick{Date: m}
		if m.Month() == time.January {
			tick.Year = m.Year()
		} else {
			tick.Label = m.Month().String()[:3]
		}
		ticks = append(ticks, tick)
		m = m.AddDate(0, 1, 0)
	}
	return ticks
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
