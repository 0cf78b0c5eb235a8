package repository

import "errors"

// Sentinel kinds for league store errors.
var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrParticipantNotFound = errors.New("participant not found")
)
