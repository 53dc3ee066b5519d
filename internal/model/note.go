package model

import (
	"time"
)

// Note is a free-text entry keyed by its creation instant (unix millis)
type Note struct {
	Timestamp int64  `json:"timestamp"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// Created returns the creation time of the note
func (n *Note) Created() time.Time {
	return time.UnixMilli(n.Timestamp)
}
