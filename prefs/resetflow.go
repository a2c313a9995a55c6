package prefs

import (
	"context"

	"github.com/pkg/errors"
)

// HapticKind selects the feedback signal the host should emit.
type HapticKind string

const (
	HapticSuccess HapticKind = "success"
	HapticError   HapticKind = "error"
)

// Bridge is the host-side capability set the preference session consumes.
// The Mini App page satisfies it with the Telegram WebApp SDK; the in-chat
// fallback satisfies it with inline keyboards and callback-query answers.
type Bridge interface {
	// Confirm presents a modal with confirm/cancel choices and resolves
	// exactly once with the user's decision.
	Confirm(ctx context.Context, title, message string) (bool, error)
	// Haptic emits a feedback signal. Best effort; failures are invisible.
	Haptic(kind HapticKind)
	// SendPayload hands the serialized payload to the hosting application.
	// Fire and forget: no delivery confirmation is observable.
	SendPayload(data []byte) error
}

// ErrConfirmationPending is returned when a reset is requested while an
// earlier confirmation is still unresolved.
var ErrConfirmationPending = errors.New("reset confirmation already pending")

const (
	resetConfirmTitle   = "Reset ratings"
	resetConfirmMessage = "Set all four categories back to 5?"
)

// ResetFlow guards ResetAll behind an explicit user confirmation. It is a
// two-state machine: idle until a reset is requested, awaiting confirmation
// until the bridge resolves the modal, then idle again. Confirming applies
// the reset and fires a success haptic; cancelling leaves the list untouched
// and fires an error haptic.
type ResetFlow struct {
	list   *List
	bridge Bridge

	// pending holds one token while a confirmation is unresolved, which is
	// the whole of the machine's state.
	pending chan struct{}
}

// NewResetFlow creates an idle reset flow for list, confirming through bridge.
func NewResetFlow(list *List, bridge Bridge) *ResetFlow {
	return &ResetFlow{
		list:    list,
		bridge:  bridge,
		pending: make(chan struct{}, 1),
	}
}

// AwaitingConfirmation reports whether a confirmation is currently pending.
func (f *ResetFlow) AwaitingConfirmation() bool {
	select {
	case f.pending <- struct{}{}:
		<-f.pending
		return false
	default:
		return true
	}
}

// Request asks the user to confirm a reset and applies it on confirmation.
// It returns whether the reset was applied. The bridge call blocks until the
// user chooses, so Request must not be invoked from a bridge callback.
func (f *ResetFlow) Request(ctx context.Context) (bool, error) {
	select {
	case f.pending <- struct{}{}:
	default:
		return false, ErrConfirmationPending
	}
	defer func() { <-f.pending }()

	confirmed, err := f.bridge.Confirm(ctx, resetConfirmTitle, resetConfirmMessage)
	if err != nil {
		return false, errors.Wrap(err, "reset confirmation failed")
	}
	if !confirmed {
		f.bridge.Haptic(HapticError)
		return false, nil
	}

	f.list.ResetAll()
	f.bridge.Haptic(HapticSuccess)
	return true, nil
}
