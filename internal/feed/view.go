package feed

import (
	"time"

	"github.com/zyh422797297/juan-le-me/internal/models"
)

// PostView is the ranked feed view model: one post plus its recomputed
// counters. All fields are enumerated explicitly; nothing is spread from the
// raw document.
type PostView struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	Author         models.UserCompact `json:"author"`
	Content        string             `json:"content"`
	Category       string             `json:"category"`
	ImageURLs      []string           `json:"image_urls,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	Likes          int                `json:"likes"`
	Hugs           int                `json:"hugs"`
	Slaps          int                `json:"slaps"`
	Comments       int                `json:"comments_count"`
	ViewerReaction string             `json:"viewer_reaction,omitempty"`
	Score          float64            `json:"score"`
}

// counters holds the per-post tallies computed from the event tables.
type counters struct {
	likes, hugs, slaps, comments int
}

func (c *counters) addReaction(kind string) {
	switch kind {
	case models.ReactionLike:
		c.likes++
	case models.ReactionHug:
		c.hugs++
	case models.ReactionSlap:
		c.slaps++
	}
}

// newPostView maps a raw post document plus computed counters into a view
// model. viewerKinds holds the reaction kinds the current viewer has on this
// post; when several are held the exposed one is picked by fixed precedence
// (like > hug > slap) so the output is deterministic.
func newPostView(post models.Post, c counters, viewerKinds map[string]bool, now time.Time) PostView {
	v := PostView{
		ID:        post.ID.Hex(),
		UserID:    post.UserID,
		Author:    post.Author,
		Content:   post.Content,
		Category:  post.Category,
		ImageURLs: append([]string(nil), post.ImageURLs...),
		CreatedAt: post.CreatedAt,
		Likes:     clampCount(c.likes),
		Hugs:      clampCount(c.hugs),
		Slaps:     clampCount(c.slaps),
		Comments:  clampCount(c.comments),
	}
	for _, kind := range models.ReactionKinds {
		if viewerKinds[kind] {
			v.ViewerReaction = kind
			break
		}
	}
	v.Score = Score(v.Likes, v.Hugs, v.Slaps, v.Comments, v.CreatedAt, now)
	return v
}

// preferredKind picks between two held reaction kinds using the same fixed
// precedence newPostView applies (like > hug > slap), so an optimistic update
// exposes the same viewer_reaction the next full load would.
func preferredKind(a, b string) string {
	for _, k := range models.ReactionKinds {
		if a == k || b == k {
			return k
		}
	}
	return ""
}

// clampCount floors a counter at zero. A negative tally is an invariant
// violation and is clamped rather than propagated.
func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// cloneViews deep-copies a view list so snapshots cannot alias live state.
func cloneViews(views []PostView) []PostView {
	out := make([]PostView, len(views))
	for i, v := range views {
		v.ImageURLs = append([]string(nil), v.ImageURLs...)
		out[i] = v
	}
	return out
}
