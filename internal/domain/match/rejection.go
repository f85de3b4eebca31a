package match

import (
	"errors"
	"fmt"
)

// RejectionReason names why the ledger refused an event.
type RejectionReason string

const (
	ReasonPlayerExpelled          RejectionReason = "PlayerExpelled"
	ReasonPlayerNotInLineup       RejectionReason = "PlayerNotInLineup"
	ReasonCardAlreadyMaxed        RejectionReason = "CardAlreadyMaxed"
	ReasonSubstituteNotOnBench    RejectionReason = "SubstituteNotOnBench"
	ReasonSubstituteAlreadyActive RejectionReason = "SubstituteAlreadyActive"
	ReasonMissingSubstitute       RejectionReason = "MissingSubstitute"
	ReasonInvalidAssist           RejectionReason = "InvalidAssist"
	ReasonStandaloneAssist        RejectionReason = "StandaloneAssist"
	ReasonUnknownTeam             RejectionReason = "UnknownTeam"
	ReasonUnknownEventType        RejectionReason = "UnknownEventType"
	ReasonInvalidMinute           RejectionReason = "InvalidMinute"
)

var (
	// ErrRejected matches every RejectionError.
	ErrRejected = errors.New("event rejected")

	ErrPlayerExpelled          = errors.New("player has been sent off")
	ErrPlayerNotInLineup       = errors.New("player is not on the pitch")
	ErrCardAlreadyMaxed        = errors.New("player already has a red card")
	ErrSubstituteNotOnBench    = errors.New("substitute is not on the bench")
	ErrSubstituteAlreadyActive = errors.New("substitute is already on the pitch")
	ErrMissingSubstitute       = errors.New("substitution needs an incoming player")
	ErrInvalidAssist           = errors.New("invalid assist")
	ErrStandaloneAssist        = errors.New("assists are recorded with a goal")
	ErrUnknownTeam             = errors.New("team is not playing this match")
	ErrUnknownEventType        = errors.New("unknown event type")
	ErrInvalidMinute           = errors.New("minute must not be negative")
)

var reasonErrors = map[RejectionReason]error{
	ReasonPlayerExpelled:          ErrPlayerExpelled,
	ReasonPlayerNotInLineup:       ErrPlayerNotInLineup,
	ReasonCardAlreadyMaxed:        ErrCardAlreadyMaxed,
	ReasonSubstituteNotOnBench:    ErrSubstituteNotOnBench,
	ReasonSubstituteAlreadyActive: ErrSubstituteAlreadyActive,
	ReasonMissingSubstitute:       ErrMissingSubstitute,
	ReasonInvalidAssist:           ErrInvalidAssist,
	ReasonStandaloneAssist:        ErrStandaloneAssist,
	ReasonUnknownTeam:             ErrUnknownTeam,
	ReasonUnknownEventType:        ErrUnknownEventType,
	ReasonInvalidMinute:           ErrInvalidMinute,
}

// RejectionError is returned by Ledger.RecordEvent when an event is refused.
// The ledger is unchanged when it is returned.
type RejectionError struct {
	Reason   RejectionReason
	PlayerID string
	Detail   string
}

func reject(reason RejectionReason, playerID, detail string) *RejectionError {
	return &RejectionError{Reason: reason, PlayerID: playerID, Detail: detail}
}

func (e *RejectionError) Error() string {
	msg := string(e.Reason)
	if sentinel, ok := reasonErrors[e.Reason]; ok {
		msg = sentinel.Error()
	}
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", msg, e.Detail)
	}
	if e.PlayerID != "" {
		return fmt.Sprintf("%s: %s", msg, e.PlayerID)
	}
	return msg
}

func (e *RejectionError) Is(target error) bool {
	if target == ErrRejected {
		return true
	}
	sentinel, ok := reasonErrors[e.Reason]
	return ok && sentinel == target
}

// ReasonOf extracts the rejection reason from err, if any.
func ReasonOf(err error) (RejectionReason, bool) {
	var rejection *RejectionError
	if errors.As(err, &rejection) {
		return rejection.Reason, true
	}
	return "", false
}
