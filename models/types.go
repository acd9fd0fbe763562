package models

import "time"

// Session phase constants
const (
	PhaseOpen       = "OPEN"
	PhaseClosed     = "CLOSED"
	PhaseTerminated = "TERMINATED"
)

// Vote choice constants
const (
	VoteFavor   = "FAVOR"
	VoteAgainst = "AGAINST"
	VoteAbstain = "ABSTAIN"
)

// ValidChoice reports whether s is one of the three vote choices.
func ValidChoice(s string) bool {
	return s == VoteFavor || s == VoteAgainst || s == VoteAbstain
}

// Domain types

// Session is the singleton record governing the voting round.
// There is exactly one row; all phase transitions go through the
// session state machine.
type Session struct {
	Phase      string `json:"phase"`
	Topic      string `json:"topic"`
	AccessCode string `json:"-"` // Never expose in JSON
}

type Participant struct {
	ID         string    `json:"id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Vote       *string   `json:"vote,omitempty"`
	AdmittedAt time.Time `json:"admitted_at"`
}

// HasVoted reports whether the participant has cast a vote this round.
func (p Participant) HasVoted() bool {
	return p.Vote != nil
}

// SessionReport is an immutable archive record appended when a voting
// round closes. It captures the tally at the instant of closing.
type SessionReport struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	TotalPresent int       `json:"total_present"`
	Favor        int       `json:"favor"`
	Against      int       `json:"against"`
	Abstain      int       `json:"abstain"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tally is the derived vote count over the current participant set.
type Tally struct {
	Total   int `json:"total"`
	Voted   int `json:"voted"`
	Favor   int `json:"favor"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
	Missing int `json:"missing"`
}

// Request types

type AdmitRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	AccessCode string `json:"access_code"`
}

type CastVoteRequest struct {
	Choice string `json:"choice"`
}

type SetTopicRequest struct {
	Topic string `json:"topic"`
}

type SetAccessCodeRequest struct {
	AccessCode string `json:"access_code"`
}

// Response types

// SessionView is the public projection of the session row. The access
// code is admin-only and never leaves through this type.
type SessionView struct {
	Phase string `json:"phase"`
	Topic string `json:"topic"`
}

// AdminSessionView includes the access code so the admin panel can
// prefill its form fields.
type AdminSessionView struct {
	Phase      string `json:"phase"`
	Topic      string `json:"topic"`
	AccessCode string `json:"access_code"`
}

// ConfirmResponse is returned by guarded destructive endpoints. The
// first invocation arms the action; the second one executes it.
type ConfirmResponse struct {
	Executed bool       `json:"executed"`
	Armed    bool       `json:"armed"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
