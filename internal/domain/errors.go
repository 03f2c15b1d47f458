package domain

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing failures of the queue core. All are recoverable by the caller;
// the discord layer turns them into ephemeral replies.
var (
	ErrNotQueueChannel = errors.New("not a configured queue channel")
	ErrQueueClosed     = errors.New("queue is closed")
	ErrAlreadyClosed   = errors.New("queue is already closed")
	ErrAlreadyPresent  = errors.New("already in the queue or testers list")
	ErrNotPresent      = errors.New("not in the queue or testers list")
	ErrOnCooldown      = errors.New("on cooldown")
	ErrNotVerified     = errors.New("account not verified")
)

// RegionMismatchError: the participant picked a region and this bucket serves
// a different non-default one.
type RegionMismatchError struct {
	QueueRegion    string
	SelectedRegion string
}

func (e *RegionMismatchError) Error() string {
	return fmt.Sprintf("queue region %s does not match selected region %s",
		strings.ToUpper(e.QueueRegion), strings.ToUpper(e.SelectedRegion))
}

type GamemodeMismatchError struct {
	QueueGamemode    string
	SelectedGamemode string
}

func (e *GamemodeMismatchError) Error() string {
	return fmt.Sprintf("queue gamemode %s does not match selected gamemode %s",
		strings.ToUpper(e.QueueGamemode), strings.ToUpper(e.SelectedGamemode))
}

// SetupIncompleteError carries the checklist of missing settings so the caller
// can tell the admin exactly what to configure.
type SetupIncompleteError struct {
	Missing []string
}

func (e *SetupIncompleteError) Error() string {
	return "setup incomplete, missing: " + strings.Join(e.Missing, ", ")
}
