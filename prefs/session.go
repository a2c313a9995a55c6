package prefs

// Session ties one user's preference list to the bridge that hosts it. It is
// created when the surface opens, lives in memory only, and is discarded when
// the surface closes.
type Session struct {
	List  *List
	Reset *ResetFlow
	User  *UserInfo

	bridge Bridge
}

// NewSession creates a fresh session for user with every rating at
// DefaultValue. user may be nil when the host supplied no identity.
func NewSession(user *UserInfo, bridge Bridge) *Session {
	list := NewList()
	return &Session{
		List:   list,
		Reset:  NewResetFlow(list, bridge),
		User:   user,
		bridge: bridge,
	}
}

// Submit serializes the current ratings and hands them to the bridge's send
// primitive. The user id is null in the payload when the session has no
// identity. Fire and forget: a delivery failure is the bridge's concern.
func (s *Session) Submit() error {
	var userID *int64
	if s.User != nil {
		userID = &s.User.ID
	}
	data, err := s.List.Serialize(userID)
	if err != nil {
		return err
	}
	return s.bridge.SendPayload(data)
}
