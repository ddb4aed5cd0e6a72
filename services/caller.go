package services

// Caller is the authenticated identity resolved by the auth middleware and
// passed explicitly into service operations that make authorization decisions.
type Caller struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

func (c Caller) canManageExam(createdBy uint) bool {
	return c.IsAdmin || c.UserID == createdBy
}
