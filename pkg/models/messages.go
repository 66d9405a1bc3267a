package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type StatusType int

const (
	StatusInfo StatusType = iota
	StatusSuccess
	StatusWarning
	StatusFailed
)

// EventType tells what happened to a job or one of its tasks
type EventType int

const (
	JobStarted EventType = iota
	JobTaskStarted
	JobTaskSuccess
	JobTaskError
	JobEnded
)

var eventNames = map[EventType]string{
	JobStarted:     "job started",
	JobTaskStarted: "task started",
	JobTaskSuccess: "task succeeded",
	JobTaskError:   "task failed",
	JobEnded:       "job ended",
}

func (e EventType) String() string { return eventNames[e] }

// Message is a notification published on the dispatcher
type Message struct {
	ID          uuid.UUID           // message uuid
	JobID       uuid.UUID           // job emitting the message
	TaskID      uuid.UUID           // task concerned, uuid.Nil for job events
	Event       EventType           // what happened
	Status      StatusType          // Status Success/Error/Info...
	When        time.Time           // creation time
	Text        string              // Textual message
	Err         error               // the task error for JobTaskError
	Progression *ProgressionPayload // completed tasks so far
}

func NewMessage(t string) *Message {
	return &Message{
		When: time.Now(),
		ID:   uuid.New(),
		Text: t,
	}
}

// NewEvent builds a message for a job event
func NewEvent(jobID uuid.UUID, event EventType, text string) *Message {
	m := NewMessage(text)
	m.JobID = jobID
	m.Event = event
	switch event {
	case JobTaskSuccess:
		m.Status = StatusSuccess
	case JobTaskError:
		m.Status = StatusFailed
	}
	return m
}

func (m *Message) SetTask(id uuid.UUID) *Message   { m.TaskID = id; return m }
func (m *Message) SetStatus(s StatusType) *Message { m.Status = s; return m }
func (m *Message) SetText(t string) *Message       { m.Text = t; return m }
func (m *Message) SetError(err error) *Message     { m.Err = err; return m }
func (m *Message) SetProgression(current, total int) *Message {
	m.Progression = &ProgressionPayload{Current: current, Total: total}
	return m
}

func (m Message) UUID() uuid.UUID { return m.ID }
func (m Message) String() string {
	s := m.Event.String() + ": " + m.Text
	if m.Progression != nil {
		s += " " + m.Progression.String()
	}
	return s
}

// ProgressionPayload is the completion ratio of a job
type ProgressionPayload struct {
	Current int
	Total   int
}

func (p ProgressionPayload) String() string {
	pc := float64(0)
	if p.Total > 0 {
		pc = float64(p.Current) * 100.0 / float64(p.Total)
	}
	return fmt.Sprintf("%d/%d (%3.1f%%)", p.Current, p.Total, pc)
}
