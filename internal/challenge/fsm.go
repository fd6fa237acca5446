package challenge

import "strings"

// Event is something that happens to a challenge.
type Event string

const (
	EventAccept         Event = "accept"
	EventAcceptSlot     Event = "accept slot of"
	EventLineupComplete Event = "complete lineup of"
	EventLineupFilled   Event = "fill lineup of"
	EventLineupOpened   Event = "free a slot of"
	EventEdit           Event = "edit"
	EventDelete         Event = "delete"
	EventCancel         Event = "cancel"
	EventDecline        Event = "decline"
	EventRecordResult   Event = "record result for"
)

// transitions is the complete lifecycle. A missing entry is an illegal move.
var transitions = map[Status]map[Event]Status{
	StatusOpen: {
		EventAccept:         StatusAccepted,
		EventAcceptSlot:     StatusOpen,
		EventLineupComplete: StatusAccepted,
		EventLineupFilled:   StatusPending,
		EventLineupOpened:   StatusOpen,
		EventEdit:           StatusOpen,
		EventDelete:         StatusOpen,
		EventCancel:         StatusCancelled,
	},
	StatusPending: {
		EventAccept:         StatusAccepted,
		EventAcceptSlot:     StatusPending,
		EventLineupComplete: StatusAccepted,
		EventLineupFilled:   StatusPending,
		EventLineupOpened:   StatusOpen,
		EventEdit:           StatusPending,
		EventDelete:         StatusPending,
		EventCancel:         StatusCancelled,
		EventDecline:        StatusCancelled,
	},
	StatusAccepted: {
		EventRecordResult: StatusCompleted,
	},
	StatusCompleted: {
		EventRecordResult: StatusCompleted,
	},
}

// Initial is the status of a new challenge. An invitation to named players
// starts PENDING, anything open to the floor starts OPEN.
func Initial(invited bool) Status {
	if invited {
		return StatusPending
	}
	return StatusOpen
}

// Transition returns the status reached by applying ev in from.
func Transition(from Status, ev Event) (Status, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return from, &StateConflictError{From: from, Event: ev, Reason: "only allowed while " + allowedFrom(ev)}
}

// Allowed reports whether ev is legal in from.
func Allowed(from Status, ev Event) bool {
	_, ok := transitions[from][ev]
	return ok
}

func allowedFrom(ev Event) string {
	var names []string
	for _, s := range Statuses {
		if Allowed(s, ev) {
			names = append(names, string(s))
		}
	}
	if len(names) == 0 {
		return "never"
	}
	return strings.Join(names, " or ")
}

// transition is Transition with the challenge id filled into the error.
func transition(c *Challenge, ev Event) (Status, error) {
	to, err := Transition(c.Status, ev)
	if err != nil {
		err.(*StateConflictError).ChallengeID = c.ID
	}
	return to, err
}
