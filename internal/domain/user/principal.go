package user

// Principal identifies the authenticated scheduler or coordinator behind a
// mutating request.
type Principal struct {
	UserID string
	Email  string
}
