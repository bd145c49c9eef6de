package ws

import "time"

type EventType string

const (
	EventFrame       EventType = "frame.annotated"
	EventAttendance  EventType = "attendance.recorded"
	EventState       EventType = "recognition.state"
	EventEnrollment  EventType = "enrollment.updated"
	EventGalleryLoad EventType = "gallery.reloaded"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}
