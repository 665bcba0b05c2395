package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/zyh422797297/juan-le-me/internal/metrics"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"golang.org/x/sync/errgroup"
)

// Excerpt budgets (in runes) for the content embedded in notification
// summaries. Content shorter than the budget passes through untouched.
const (
	postExcerptRunes    = 10
	commentExcerptRunes = 80
)

// Notification is a derived inbox entry, synthesized per comment or reaction
// event on a post owned by the viewer. Constructed fresh on every fetch,
// never persisted. Read state is not tracked; Read is always false.
type Notification struct {
	ID        string             `json:"id"`
	Kind      string             `json:"kind"` // comment, like, hug, slap
	Actor     models.UserCompact `json:"actor"`
	PostID    string             `json:"post_id"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"created_at"`
	Read      bool               `json:"read"`
}

// LoadNotifications derives the viewer's inbox: comments and reactions on
// posts the viewer owns, merged into one feed ordered by event time
// descending.
//
// The comment and reaction queries are independent: either failing is logged
// and contributes nothing. Only the initial owned-post query failing fails
// the operation.
func (s *Service) LoadNotifications(ctx context.Context, sess Session) ([]Notification, error) {
	if !sess.LoggedIn() {
		return nil, ErrNoSession
	}

	octx, cancel := s.callCtx(ctx)
	owned, err := s.posts.GetPostsByUserID(octx, sess.FirebaseUID, 0, 0)
	cancel()
	if err != nil {
		metrics.NotificationLoads.WithLabelValues("error").Inc()
		return nil, &FetchError{Op: "owned posts", Err: err}
	}
	if len(owned) == 0 {
		metrics.NotificationLoads.WithLabelValues("ok").Inc()
		return []Notification{}, nil
	}

	postIDs := make([]string, len(owned))
	postContent := make(map[string]string, len(owned))
	for i, p := range owned {
		id := p.ID.Hex()
		postIDs[i] = id
		postContent[id] = p.Content
	}

	var exclude uint
	if !s.cfg.IncludeSelf {
		exclude = sess.UserID
	}

	var comments []models.Comment
	var reactions []models.Reaction
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cctx, cancel := s.callCtx(gctx)
		defer cancel()
		rows, err := s.comments.GetRecentCommentsByPostIDs(cctx, postIDs, exclude, s.cfg.NotifyLimit)
		if err != nil {
			s.logger.Warn("comment notifications unavailable", "error", err)
			return nil
		}
		comments = rows
		return nil
	})
	g.Go(func() error {
		rctx, cancel := s.callCtx(gctx)
		defer cancel()
		rows, err := s.reactions.GetRecentReactionsByPostIDs(rctx, postIDs, exclude, s.cfg.NotifyLimit)
		if err != nil {
			s.logger.Warn("reaction notifications unavailable", "error", err)
			return nil
		}
		reactions = rows
		return nil
	})
	g.Wait()

	actors := s.resolveActors(ctx, comments, reactions)

	commentStream := make([]Notification, 0, len(comments))
	for _, c := range comments {
		commentStream = append(commentStream, Notification{
			ID:     fmt.Sprintf("comment-%d", c.ID),
			Kind:   "comment",
			Actor:  actors[c.UserID],
			PostID: c.PostID,
			Message: fmt.Sprintf("commented: %q on %q",
				truncate(c.Content, commentExcerptRunes),
				truncate(postContent[c.PostID], postExcerptRunes)),
			CreatedAt: c.CreatedAt,
		})
	}

	reactionStream := make([]Notification, 0, len(reactions))
	for _, r := range reactions {
		reactionStream = append(reactionStream, Notification{
			ID:     fmt.Sprintf("reaction-%d", r.ID),
			Kind:   r.Kind,
			Actor:  actors[r.UserID],
			PostID: r.PostID,
			Message: fmt.Sprintf("%s your post %q",
				reactionVerb(r.Kind),
				truncate(postContent[r.PostID], postExcerptRunes)),
			CreatedAt: r.CreatedAt,
		})
	}

	metrics.NotificationLoads.WithLabelValues("ok").Inc()
	return mergeByTime(commentStream, reactionStream), nil
}

// resolveActors batch-fetches the acting users behind both event streams.
// A failed lookup degrades to placeholder identities instead of failing the
// inbox.
func (s *Service) resolveActors(ctx context.Context, comments []models.Comment, reactions []models.Reaction) map[uint]models.UserCompact {
	seen := make(map[uint]bool)
	var ids []uint
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			ids = append(ids, c.UserID)
		}
	}
	for _, r := range reactions {
		if !seen[r.UserID] {
			seen[r.UserID] = true
			ids = append(ids, r.UserID)
		}
	}

	actors := make(map[uint]models.UserCompact, len(ids))
	for _, id := range ids {
		actors[id] = models.UserCompact{ID: id, Username: "Unknown"}
	}
	if len(ids) == 0 {
		return actors
	}

	uctx, cancel := s.callCtx(ctx)
	defer cancel()
	users, err := s.users.GetUsersByIDs(uctx, ids)
	if err != nil {
		s.logger.Warn("actor lookup failed, using placeholders", "error", err)
		return actors
	}
	for i := range users {
		actors[users[i].ID] = users[i].ToCompact()
	}
	return actors
}

// reactionVerb maps a reaction kind to its summary phrase.
func reactionVerb(kind string) string {
	switch kind {
	case models.ReactionLike:
		return "liked"
	case models.ReactionHug:
		return "hugged"
	case models.ReactionSlap:
		return "slapped"
	default:
		return "reacted to"
	}
}

// truncate cuts s to at most n runes, appending an ellipsis only when
// something was actually cut.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

// mergeByTime is a k-way merge over notification streams that are each
// ordered by timestamp descending. Ties order by notification ID so the
// result is independent of stream order; new event kinds merge in by adding
// a stream, without restructuring.
func mergeByTime(streams ...[]Notification) []Notification {
	total := 0
	for _, st := range streams {
		total += len(st)
	}
	out := make([]Notification, 0, total)
	idx := make([]int, len(streams))

	for len(out) < total {
		best := -1
		for si, st := range streams {
			if idx[si] >= len(st) {
				continue
			}
			if best == -1 || notifBefore(st[idx[si]], streams[best][idx[best]]) {
				best = si
			}
		}
		out = append(out, streams[best][idx[best]])
		idx[best]++
	}
	return out
}

// notifBefore reports whether a sorts ahead of b in the merged feed:
// newer first, equal timestamps by ID.
func notifBefore(a, b Notification) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}
