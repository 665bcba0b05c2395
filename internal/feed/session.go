package feed

// Session identifies the current viewer. Every engine operation receives it
// explicitly; nothing is read from ambient state. The zero value is an
// anonymous viewer.
type Session struct {
	UserID      uint
	FirebaseUID string
}

// LoggedIn reports whether the session belongs to an authenticated user.
func (s Session) LoggedIn() bool {
	return s.UserID != 0
}
