package auction

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("auction not found")
	ErrBidTooLow         = errors.New("bid too low")
	ErrBidOverflow       = errors.New("bid too large")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrNotReady          = errors.New("auctions are still being recovered")
	ErrForbidden         = errors.New("missing permission")
	ErrTransient         = errors.New("temporary failure")
	ErrUnresolvable      = errors.New("display message cannot be resolved")
	ErrAlreadyArmed      = errors.New("timer already armed")
	ErrInvalidParams     = errors.New("invalid auction parameters")
)

// BidRejection is returned when a bid fails validation. It unwraps to one of
// ErrBidTooLow, ErrBidOverflow or ErrInsufficientFunds.
type BidRejection struct {
	Reason     error
	Amount     int64
	CurrentBid *int64
	MinBid     int64
	Balance    int64
}

func (r *BidRejection) Error() string {
	switch r.Reason {
	case ErrBidTooLow:
		if r.CurrentBid != nil {
			return fmt.Sprintf("bid of %d rejected: current bid is %d", r.Amount, *r.CurrentBid)
		}
		return fmt.Sprintf("bid of %d rejected: minimum bid is %d", r.Amount, r.MinBid)
	case ErrInsufficientFunds:
		return fmt.Sprintf("bid of %d rejected: balance is %d", r.Amount, r.Balance)
	}
	return fmt.Sprintf("bid of %d rejected: %v", r.Amount, r.Reason)
}

func (r *BidRejection) Unwrap() error {
	return r.Reason
}

// transient marks err as a retryable infrastructure failure.
func transient(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrTransient) {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return fmt.Errorf("failed to %s: %w: %w", op, ErrTransient, err)
}
