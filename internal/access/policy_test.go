package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVisibilityFloor(t *testing.T) {
	assert.Equal(t, RankAdmin, VisibilityFloor(RoleAdmin))
	assert.Equal(t, RankPrivate, VisibilityFloor(RoleUser))
	assert.Equal(t, RankPrivate, VisibilityFloor(Role("owner")))
	assert.Equal(t, RankPublic, VisibilityFloor(RoleViewer))
	assert.Equal(t, RankPublic, VisibilityFloor(Role("")))
	assert.Equal(t, RankPublic, VisibilityFloor(Role("something-else")))
}

func TestCanMutate(t *testing.T) {
	owner := Requester{ID: "user-1", Role: RoleUser}
	admin := Requester{ID: "admin-1", Role: RoleAdmin}
	viewer := Requester{ID: "viewer-1", Role: RoleViewer}

	assert.True(t, CanMutate(owner, "user-1"))
	assert.False(t, CanMutate(owner, "user-2"))
	assert.True(t, CanMutate(admin, "user-2"))
	assert.False(t, CanMutate(viewer, "user-1"))
}

func TestRankForLevel(t *testing.T) {
	for level, want := range map[string]int{
		LevelAdmin:   RankAdmin,
		LevelPrivate: RankPrivate,
		LevelPublic:  RankPublic,
	} {
		rank, ok := RankForLevel(level)
		assert.True(t, ok)
		assert.Equal(t, want, rank)
		assert.Equal(t, level, LevelForRank(rank))
	}

	_, ok := RankForLevel("secret")
	assert.False(t, ok)
}
