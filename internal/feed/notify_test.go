package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyh422797297/juan-le-me/internal/models"
)

func TestLoadNotificationsRequiresSession(t *testing.T) {
	svc := newTestService(&stubPosts{}, &stubReactions{}, &stubComments{}, &stubUsers{}, Config{})

	_, err := svc.LoadNotifications(context.Background(), Session{})
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestLoadNotificationsEmptyWithoutPosts(t *testing.T) {
	svc := newTestService(&stubPosts{}, &stubReactions{}, &stubComments{}, &stubUsers{}, Config{})

	got, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLoadNotificationsFailsWhenOwnedQueryFails(t *testing.T) {
	posts := &stubPosts{owned: func(userID string, skip, limit int64) ([]models.Post, error) {
		return nil, errors.New("mongo down")
	}}
	svc := newTestService(posts, &stubReactions{}, &stubComments{}, &stubUsers{}, Config{})

	_, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "owned posts", fetchErr.Op)
}

func TestLoadNotificationsMergesStreamsNewestFirst(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	posts := &stubPosts{owned: func(userID string, skip, limit int64) ([]models.Post, error) {
		assert.Equal(t, "u7", userID)
		return []models.Post{makePost(t, postHexA, "my awful week at work", now.Add(-48*time.Hour))}, nil
	}}
	reactions := &stubReactions{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error) {
		return []models.Reaction{
			{ID: 10, PostID: postHexA, UserID: 2, Kind: models.ReactionHug, CreatedAt: now.Add(-1 * time.Minute)},
			{ID: 11, PostID: postHexA, UserID: 3, Kind: models.ReactionSlap, CreatedAt: now.Add(-30 * time.Minute)},
		}, nil
	}}
	comments := &stubComments{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error) {
		return []models.Comment{
			{ID: 20, PostID: postHexA, UserID: 4, Content: "hang in there", CreatedAt: now.Add(-10 * time.Minute)},
		}, nil
	}}
	users := &stubUsers{byIDs: func(ids []uint) ([]models.User, error) {
		out := make([]models.User, 0, len(ids))
		names := map[uint]string{2: "ana", 3: "bob", 4: "cyn"}
		for _, id := range ids {
			u := models.User{Username: names[id]}
			u.ID = id
			out = append(out, u)
		}
		return out, nil
	}}
	svc := newTestService(posts, reactions, comments, users, Config{})

	got, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Newest first across both streams.
	assert.Equal(t, "reaction-10", got[0].ID)
	assert.Equal(t, "comment-20", got[1].ID)
	assert.Equal(t, "reaction-11", got[2].ID)

	assert.Equal(t, "hug", got[0].Kind)
	assert.Equal(t, "ana", got[0].Actor.Username)
	assert.Equal(t, `hugged your post "my awful w..."`, got[0].Message)

	assert.Equal(t, "comment", got[1].Kind)
	assert.Equal(t, "cyn", got[1].Actor.Username)
	assert.Equal(t, `commented: "hang in there" on "my awful w..."`, got[1].Message)

	assert.Equal(t, "slap", got[2].Kind)
	assert.Equal(t, `slapped your post "my awful w..."`, got[2].Message)

	for _, n := range got {
		assert.False(t, n.Read)
		assert.Equal(t, postHexA, n.PostID)
	}
}

func TestLoadNotificationsToleratesStreamFailure(t *testing.T) {
	now := time.Now()
	posts := &stubPosts{owned: func(userID string, skip, limit int64) ([]models.Post, error) {
		return []models.Post{makePost(t, postHexA, "post", now.Add(-time.Hour))}, nil
	}}
	reactions := &stubReactions{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error) {
		return nil, errors.New("postgres down")
	}}
	comments := &stubComments{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, PostID: postHexA, UserID: 2, Content: "hey", CreatedAt: now}}, nil
	}}
	svc := newTestService(posts, reactions, comments, &stubUsers{}, Config{})

	got, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "comment-1", got[0].ID)
}

func TestLoadNotificationsActorLookupFallsBack(t *testing.T) {
	now := time.Now()
	posts := &stubPosts{owned: func(userID string, skip, limit int64) ([]models.Post, error) {
		return []models.Post{makePost(t, postHexA, "post", now.Add(-time.Hour))}, nil
	}}
	comments := &stubComments{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error) {
		return []models.Comment{{ID: 1, PostID: postHexA, UserID: 2, Content: "hey", CreatedAt: now}}, nil
	}}
	users := &stubUsers{byIDs: func(ids []uint) ([]models.User, error) {
		return nil, errors.New("postgres down")
	}}
	svc := newTestService(posts, &stubReactions{}, comments, users, Config{})

	got, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Unknown", got[0].Actor.Username)
	assert.Equal(t, uint(2), got[0].Actor.ID)
}

func TestLoadNotificationsExcludesViewerWhenConfigured(t *testing.T) {
	now := time.Now()
	posts := &stubPosts{owned: func(userID string, skip, limit int64) ([]models.Post, error) {
		return []models.Post{makePost(t, postHexA, "post", now.Add(-time.Hour))}, nil
	}}

	var commentExclude, reactionExclude uint
	reactions := &stubReactions{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Reaction, error) {
		reactionExclude = excludeUserID
		return nil, nil
	}}
	comments := &stubComments{recent: func(postIDs []string, excludeUserID uint, limit int) ([]models.Comment, error) {
		commentExclude = excludeUserID
		return nil, nil
	}}
	svc := newTestService(posts, reactions, comments, &stubUsers{}, Config{IncludeSelf: false})

	_, err := svc.LoadNotifications(context.Background(), Session{UserID: 7, FirebaseUID: "u7"})
	require.NoError(t, err)
	assert.Equal(t, uint(7), commentExclude)
	assert.Equal(t, uint(7), reactionExclude)
}

func TestMergeByTimeOrderIndependentOfStreamOrder(t *testing.T) {
	now := time.Now()
	a := []Notification{
		{ID: "comment-1", CreatedAt: now},
		{ID: "comment-2", CreatedAt: now.Add(-2 * time.Minute)},
	}
	b := []Notification{
		{ID: "reaction-1", CreatedAt: now},
		{ID: "reaction-2", CreatedAt: now.Add(-1 * time.Minute)},
	}

	ids := func(ns []Notification) []string {
		out := make([]string, len(ns))
		for i, n := range ns {
			out[i] = n.ID
		}
		return out
	}

	forward := mergeByTime(a, b)
	backward := mergeByTime(b, a)
	assert.Equal(t, ids(forward), ids(backward))
	assert.Equal(t, []string{"comment-1", "reaction-1", "reaction-2", "comment-2"}, ids(forward))
}

func TestMergeByTimeEmptyStreams(t *testing.T) {
	assert.Empty(t, mergeByTime(nil, nil))
	assert.Empty(t, mergeByTime())
}

func TestReactionVerbs(t *testing.T) {
	assert.Equal(t, "liked", reactionVerb(models.ReactionLike))
	assert.Equal(t, "hugged", reactionVerb(models.ReactionHug))
	assert.Equal(t, "slapped", reactionVerb(models.ReactionSlap))
	assert.Equal(t, "reacted to", reactionVerb("poke"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "exactly10!", truncate("exactly10!", 10))
	assert.Equal(t, "0123456789...", truncate("0123456789abc", 10))

	// Cuts on rune boundaries, not bytes.
	assert.Equal(t, "加油加油加油加油加油...", truncate("加油加油加油加油加油加油", 10))
}
