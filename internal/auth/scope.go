package auth

// Scope is what an authenticated request may see: the caller and the projects it owns.
type Scope struct {
	UserID     uint64
	ProjectIDs []uint64
}

func (s Scope) OwnsProject(projectID uint64) bool {
	for _, id := range s.ProjectIDs {
		if id == projectID {
			return true
		}
	}
	return false
}
