// Package quickadd parses one-line task descriptions such as
// "Review PR !high due:tomorrow".
package quickadd

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dori/tasknote/internal/model"
)

// Result is a parsed task description
type Result struct {
	Title    string
	Category model.Category
	Due      time.Time
	HasDue   bool
}

// Parse splits a description into title, category and deadline.
// Words that look like markers but do not parse stay in the title.
func Parse(text string, now time.Time) Result {
	task := Result{Category: model.CategoryMedium}

	var titleParts []string
	for _, word := range strings.Fields(text) {
		switch {
		// Priority (!low, !high, etc.)
		case strings.HasPrefix(word, "!") && len(word) > 1:
			if c, ok := model.ParseCategory(strings.TrimPrefix(word, "!")); ok {
				task.Category = c
			} else {
				titleParts = append(titleParts, word)
			}

		// Due date (due:tomorrow, due:fri, due:2026-01-15, due:3d)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			if due, ok := ParseDue(word[len("due:"):], now); ok {
				task.Due = due
				task.HasDue = true
			} else {
				titleParts = append(titleParts, word)
			}

		default:
			titleParts = append(titleParts, word)
		}
	}

	task.Title = strings.Join(titleParts, " ")
	return task
}

var relativeDue = regexp.MustCompile(`^(\d+)(m|h|d|w)$`)

// ParseDue understands day names, relative offsets, clock times and a
// few absolute date layouts. Dates without a time mean end of that day.
func ParseDue(s string, now time.Time) (time.Time, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	switch s {
	case "":
		return time.Time{}, false
	case "today", "tod":
		return endOfToday, true
	case "tomorrow", "tom":
		return endOfToday.AddDate(0, 0, 1), true
	case "nextweek":
		return endOfToday.AddDate(0, 0, 7), true
	}

	if day, ok := weekdays[s]; ok {
		return nextWeekday(endOfToday, now.Weekday(), day), true
	}

	if m := relativeDue.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return time.Time{}, false
		}
		switch m[2] {
		case "m":
			return now.Add(time.Duration(n) * time.Minute), true
		case "h":
			return now.Add(time.Duration(n) * time.Hour), true
		case "d":
			return endOfToday.AddDate(0, 0, n), true
		case "w":
			return endOfToday.AddDate(0, 0, 7*n), true
		}
	}

	// Clock time today, e.g. due:17:30
	if t, err := time.ParseInLocation("15:04", s, now.Location()); err == nil {
		return time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location()), true
	}

	for _, layout := range []string{"2006-01-02t15:04", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}

	for _, layout := range []string{"2006-01-02", "01/02/2006", "01-02-2006", "Jan 2, 2006"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return EndOfDay(t), true
		}
	}

	// Month and day only, this year. Month names match case-insensitively.
	for _, layout := range []string{"Jan2", "Jan-2", "Jan 2"} {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return EndOfDay(time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())), true
		}
	}

	return time.Time{}, false
}

var weekdays = map[string]time.Weekday{
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
	"sunday": time.Sunday, "sun": time.Sunday,
}

// nextWeekday returns the next occurrence of day strictly after today
func nextWeekday(endOfToday time.Time, today, day time.Weekday) time.Time {
	daysUntil := int(day - today)
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return endOfToday.AddDate(0, 0, daysUntil)
}

// EndOfDay returns 23:59:59 on t's day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
