package trust

import "errors"

var (
	ErrInvalidRequest    = errors.New("invalid_request")
	ErrInvalidSplit      = errors.New("invalid_split")
	ErrAgentNotFound     = errors.New("agent_not_found")
	ErrTrustlineNotFound = errors.New("trustline_not_found")
	ErrNotParticipant    = errors.New("not_participant")
	ErrSelfAcceptance    = errors.New("proposer_cannot_accept")
	ErrAlreadyResolved   = errors.New("already_resolved")
	ErrDuplicatePair     = errors.New("duplicate_pair")
)
