package prefs

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Payload is the outbound wire shape handed to the hosting client:
//
//	{"userId":<integer|null>,"preferences":[{"name":...,"value":...} x4]}
//
// Preferences appear in display order. UserID is null when the host did not
// supply an identity; that is not an error.
type Payload struct {
	UserID      *int64       `json:"userId"`
	Preferences []Preference `json:"preferences"`
}

// Payload builds the outbound payload from the current ratings. It is a pure
// projection of list state: no side effects, and calling it twice without an
// intervening mutation yields structurally identical payloads.
func (l *List) Payload(userID *int64) *Payload {
	return &Payload{
		UserID:      userID,
		Preferences: l.Snapshot(),
	}
}

// Serialize JSON-encodes the outbound payload for the send-data primitive.
func (l *List) Serialize(userID *int64) ([]byte, error) {
	data, err := json.Marshal(l.Payload(userID))
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal preference payload")
	}
	return data, nil
}

// DecodePayload parses and validates an inbound payload on the receiving
// side of the wire contract. It enforces what the sending page guarantees:
// exactly one entry per category, canonical names in display order, and every
// rating within [MinValue, MaxValue].
func DecodePayload(data []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal preference payload")
	}

	categories := Categories()
	if len(payload.Preferences) != len(categories) {
		return nil, errors.Errorf("expected %d preferences, got %d", len(categories), len(payload.Preferences))
	}
	for i, preference := range payload.Preferences {
		if preference.Name != categories[i] {
			return nil, errors.Errorf("unexpected category %q at position %d, want %q", preference.Name, i, categories[i])
		}
		if preference.Value < MinValue || preference.Value > MaxValue {
			return nil, errors.Wrapf(ErrValueOutOfRange, "category %q has value %d", preference.Name, preference.Value)
		}
	}
	return &payload, nil
}
