package domain

import "time"

// EventName identifies a domain event type for handler registration.
type EventName string

const (
	EventExerciseDeleted          EventName = "exercise.deleted"
	EventCoachApplicationApproved EventName = "coach_application.approved"
	EventCoachApplicationDenied   EventName = "coach_application.denied"
)

// Event is a fact raised by an aggregate and consumed by registered handlers.
type Event interface {
	Name() EventName
	OccurredAt() time.Time
}

// ExerciseDeleted carries a snapshot of the removed exercise.
type ExerciseDeleted struct {
	Exercise Exercise
	At       time.Time
}

func (ExerciseDeleted) Name() EventName         { return EventExerciseDeleted }
func (e ExerciseDeleted) OccurredAt() time.Time { return e.At }

type CoachApplicationApproved struct {
	Application CoachApplication
	At          time.Time
}

func (CoachApplicationApproved) Name() EventName         { return EventCoachApplicationApproved }
func (e CoachApplicationApproved) OccurredAt() time.Time { return e.At }

type CoachApplicationDenied struct {
	Application CoachApplication
	At          time.Time
}

func (CoachApplicationDenied) Name() EventName         { return EventCoachApplicationDenied }
func (e CoachApplicationDenied) OccurredAt() time.Time { return e.At }

// eventRecorder is embedded by aggregates that raise events.
type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) record(e Event) {
	r.events = append(r.events, e)
}

// PullEvents returns the recorded events and clears the buffer.
func (r *eventRecorder) PullEvents() []Event {
	out := r.events
	r.events = nil
	return out
}
