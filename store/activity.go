package store

import "context"

// Activity event types recorded by the bot. Slider values are deliberately
// not part of any payload; the log records that something happened, not what
// was rated.
const (
	ActivitySessionStarted       = "session_started"
	ActivityPreferencesSubmitted = "preferences_submitted"
	ActivityPreferencesReset     = "preferences_reset"
)

type Activity struct {
	// ID is the system generated unique identifier for the activity.
	ID int32

	// Standard fields
	CreatorID int32
	CreatedTs int64

	// Domain specific fields
	Type string
	// Source is the surface the event came from: "webapp" or "chat".
	Source string
}

type FindActivity struct {
	ID        *int32
	CreatorID *int32
	Type      *string
	Limit     *int
	Offset    *int
}

func (s *Store) CreateActivity(ctx context.Context, create *Activity) (*Activity, error) {
	return s.driver.CreateActivity(ctx, create)
}

func (s *Store) ListActivities(ctx context.Context, find *FindActivity) ([]*Activity, error) {
	return s.driver.ListActivities(ctx, find)
}
