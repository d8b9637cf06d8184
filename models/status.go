package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidStatus     = errors.New("invalid status")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type DonationStatus string

const (
	StatusPending    DonationStatus = "pending"
	StatusInProgress DonationStatus = "inprogress"
	StatusDone       DonationStatus = "done"
	StatusCanceled   DonationStatus = "canceled"
)

// donationTransitions lists the forward moves out of each state. done and
// canceled are terminal. inprogress may fall back to pending when the donor
// withdraws.
var donationTransitions = map[DonationStatus][]DonationStatus{
	StatusPending:    {StatusInProgress, StatusCanceled},
	StatusInProgress: {StatusDone, StatusCanceled, StatusPending},
	StatusDone:       nil,
	StatusCanceled:   nil,
}

func ParseDonationStatus(s string) (DonationStatus, error) {
	st := DonationStatus(s)
	if _, ok := donationTransitions[st]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// CanTransition reports whether a request may move from one status to
// another. Re-applying the current status is always allowed.
func (from DonationStatus) CanTransition(to DonationStatus) bool {
	if from == to {
		return true
	}
	// Documents written before statuses were enforced may carry no status.
	if from == "" {
		from = StatusPending
		if to == StatusPending {
			return true
		}
	}
	for _, next := range donationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates a move and returns the new status or a wrapped
// ErrIllegalTransition.
func (from DonationStatus) Transition(to DonationStatus) (DonationStatus, error) {
	if !from.CanTransition(to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return to, nil
}

type PostStatus string

const (
	PostDraft     PostStatus = "draft"
	PostPublished PostStatus = "published"
)

func ParsePostStatus(s string) (PostStatus, error) {
	switch st := PostStatus(s); st {
	case PostDraft, PostPublished:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}
