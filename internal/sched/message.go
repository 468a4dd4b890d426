package sched

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp is returned when a ShiftMessage carries a start or
// end value that does not parse as an RFC 3339 instant. The failure is
// surfaced to the caller; timestamps are never silently coerced.
var ErrMalformedTimestamp = errors.New("sched: malformed timestamp")

// ShiftMessage is the wire projection of Shift. Start and End are RFC 3339
// strings so the record survives JSON transport without losing the zone
// offset. This is the only format with cross-boundary compatibility
// requirements.
type ShiftMessage struct {
	ID           int         `json:"id"`
	SupervisorID int         `json:"supervisor_id"`
	EmployeeID   *int        `json:"employee_id,omitempty"`
	Start        string      `json:"start"`
	End          string      `json:"end"`
	Repeat       ShiftRepeat `json:"repeat"`
	EveryX       *int        `json:"every_x,omitempty"`
	Note         *string     `json:"note,omitempty"`
	OnCall       bool        `json:"on_call"`
}

// EntityID returns the message identity, mirroring Shift.
func (m ShiftMessage) EntityID() int { return m.ID }

// WithEntityID returns a copy of the message with the identity replaced.
func (m ShiftMessage) WithEntityID(id int) ShiftMessage {
	m.ID = id
	return m
}

// Message projects the shift onto its wire form. RFC3339Nano keeps
// sub-second precision so ShiftFromMessage restores the same instant.
func (s Shift) Message() ShiftMessage {
	return ShiftMessage{
		ID:           s.ID,
		SupervisorID: s.SupervisorID,
		EmployeeID:   s.EmployeeID,
		Start:        s.Start.Format(time.RFC3339Nano),
		End:          s.End.Format(time.RFC3339Nano),
		Repeat:       s.Repeat,
		EveryX:       s.EveryX,
		Note:         s.Note,
		OnCall:       s.OnCall,
	}
}

// ShiftFromMessage parses the wire form back into a Shift. Both timestamps
// are validated; a parse failure wraps ErrMalformedTimestamp and names the
// offending field.
func ShiftFromMessage(m ShiftMessage) (Shift, error) {
	start, err := time.Parse(time.RFC3339Nano, m.Start)
	if err != nil {
		return Shift{}, fmt.Errorf("%w: start %q", ErrMalformedTimestamp, m.Start)
	}
	end, err := time.Parse(time.RFC3339Nano, m.End)
	if err != nil {
		return Shift{}, fmt.Errorf("%w: end %q", ErrMalformedTimestamp, m.End)
	}
	return Shift{
		ID:           m.ID,
		SupervisorID: m.SupervisorID,
		EmployeeID:   m.EmployeeID,
		Start:        start,
		End:          end,
		Repeat:       m.Repeat,
		EveryX:       m.EveryX,
		Note:         m.Note,
		OnCall:       m.OnCall,
	}, nil
}
