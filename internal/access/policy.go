// Package access holds the role-to-visibility policy and the mutation gate.
package access

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

// Access ranks, lower is more restricted. A document carries one rank; a
// requester may see every document whose rank is >= their visibility floor.
const (
	RankAdmin   = 0
	RankPrivate = 1
	RankPublic  = 2
)

// Level names accepted on document payloads.
const (
	LevelAdmin   = "admin"
	LevelPrivate = "private"
	LevelPublic  = "public"
)

// RankForLevel maps a payload access level to its numeric rank.
func RankForLevel(level string) (int, bool) {
	switch level {
	case LevelAdmin:
		return RankAdmin, true
	case LevelPrivate:
		return RankPrivate, true
	case LevelPublic:
		return RankPublic, true
	}
	return 0, false
}

// LevelForRank is the inverse of RankForLevel. Unknown ranks read as public.
func LevelForRank(rank int) string {
	switch rank {
	case RankAdmin:
		return LevelAdmin
	case RankPrivate:
		return LevelPrivate
	}
	return LevelPublic
}

// Requester identifies the authenticated caller of a service operation.
// It is derived from the access token by the auth middleware and passed
// explicitly into every call.
type Requester struct {
	ID   string
	Role Role
}

// VisibilityFloor returns the minimum access rank a role may see.
// "owner" is accepted as an alias for the user role so it can double as the
// role override value on list queries.
func VisibilityFloor(role Role) int {
	switch role {
	case RoleAdmin:
		return RankAdmin
	case RoleUser, Role("owner"):
		return RankPrivate
	default:
		return RankPublic
	}
}

// CanMutate reports whether the requester may update or delete a document
// owned by ownerID. Admins may mutate anything, owners their own documents.
func CanMutate(r Requester, ownerID string) bool {
	return r.Role == RoleAdmin || r.ID == ownerID
}
