package domain

// CanEditUser decides whether actor may mutate target.
//
//	self edit                      → allowed
//	admin editing a non-admin user → allowed
//	admin editing another admin    → denied
//	user editing anyone else       → denied
//
// Ownership is decided by email, not by id.
func CanEditUser(target, actor *User) bool {
	isOwner := target.Email == actor.Email

	if target.IsAdmin() && !isOwner {
		return false
	}
	if !actor.IsAdmin() && !isOwner {
		return false
	}
	return true
}
