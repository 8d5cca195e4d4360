package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	tests := []struct {
		q    Query
		want string
	}{
		{Query{UserID: 1, PathID: 2}, "1:2::"},
		{Query{UserID: 1, PathID: 2, LevelID: 3}, "1:2:3:"},
		{Query{UserID: 1, PathID: 2, LevelID: 3, ExerciseID: 4}, "1:2:3:4"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CacheKey(tt.q))
	}
}

func TestUserIDFromCacheKey(t *testing.T) {
	id, ok := UserIDFromCacheKey("42:2:3:")
	assert.True(t, ok)
	assert.Equal(t, uint(42), id)

	_, ok = UserIDFromCacheKey(":2::")
	assert.False(t, ok)

	_, ok = UserIDFromCacheKey("garbage")
	assert.False(t, ok)
}

func TestQueryValidate(t *testing.T) {
	assert.Error(t, Query{PathID: 1}.Validate())
	assert.Error(t, Query{UserID: 1}.Validate())
	assert.NoError(t, Query{UserID: 1, PathID: 1, ExerciseID: 3}.Validate())
	assert.NoError(t, Query{UserID: 1, PathID: 1, LevelID: 2, ExerciseID: 3}.Validate())
}

func TestOutcome(t *testing.T) {
	d := Decisive(Grant(AccessTypeFree, SourceFreeFirstLesson, true, true, false))
	assert.True(t, d.IsDecisive())
	assert.True(t, d.Decision().HasAccess)

	c := Continue(ReasonNoCategoryAccess)
	assert.False(t, c.IsDecisive())
	assert.Equal(t, ReasonNoCategoryAccess, c.Decision().Reason)
}

func TestSubscriptionSource(t *testing.T) {
	assert.Equal(t, Source("subscription_path_list"), SubscriptionSource("path_list"))
	assert.Equal(t, Source("subscription"), SubscriptionSource(""))
}
