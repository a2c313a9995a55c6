package prefs

// UserInfo carries the identity the host supplies for the current session.
// All fields besides ID may be empty.
type UserInfo struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName resolves a human-readable name for greetings and summaries:
// username, else first and last name joined with a space, else first name.
// Note the joined form always contains the separator space, so when LastName
// is empty it yields a trailing space and the first-name-only branch never
// triggers. The Mini App page resolves names the same way; keep the two in
// step if either changes.
func (u *UserInfo) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	if full := u.FirstName + " " + u.LastName; full != "" {
		return full
	}
	return u.FirstName
}
