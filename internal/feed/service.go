package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/zyh422797297/juan-le-me/internal/metrics"
	"github.com/zyh422797297/juan-le-me/internal/models"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const (
	defaultFeedLimit   = 20
	defaultNotifyLimit = 20
	defaultCallTimeout = 5 * time.Second
	maxFeedLimit       = 50
)

// Config tunes the engine. Zero values fall back to defaults.
type Config struct {
	// FeedLimit is the default number of posts per feed load.
	FeedLimit int

	// NotifyLimit caps each notification source query independently.
	NotifyLimit int

	// IncludeSelf controls whether the viewer's own comments and reactions
	// appear in their inbox.
	IncludeSelf bool

	// CallTimeout bounds every remote store call.
	CallTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.FeedLimit <= 0 {
		c.FeedLimit = defaultFeedLimit
	}
	if c.NotifyLimit <= 0 {
		c.NotifyLimit = defaultNotifyLimit
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = defaultCallTimeout
	}
	return c
}

// Service is the feed engine: it ranks the community feed, reconciles
// optimistic reaction toggles against the remote store, and derives the
// notification inbox.
//
// The in-memory ranked post list is the only shared mutable state. It is
// mutated exclusively by whole-list replace (after a load or an optimistic
// update) or whole-list restore (rollback), never by concurrent partial
// edits.
type Service struct {
	posts     PostSource
	reactions ReactionStore
	comments  CommentSource
	users     UserSource
	cfg       Config
	logger    *slog.Logger

	flight singleflight.Group

	mu      sync.RWMutex
	current []PostView
}

// NewService creates a feed Service over the given sources.
func NewService(posts PostSource, reactions ReactionStore, comments CommentSource, users UserSource, cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		posts:     posts,
		reactions: reactions,
		comments:  comments,
		users:     users,
		cfg:       cfg.withDefaults(),
		logger:    logger,
	}
}

// Current returns a copy of the last ranked feed without touching the store.
func (s *Service) Current() []PostView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneViews(s.current)
}

// LoadFeed fetches the most recent posts, recomputes their counters from the
// reaction and comment tables, and returns them ranked by heat score.
//
// The load issues at most three remote queries regardless of limit: one for
// posts and one batched query each for reactions and comments. The two batch
// queries run concurrently; a failure in either degrades the affected counts
// to zero instead of failing the load. Only the primary post query failing
// fails the whole operation. Overlapping refreshes for the same viewer are
// coalesced into a single in-flight load.
func (s *Service) LoadFeed(ctx context.Context, sess Session, limit int) ([]PostView, error) {
	if limit <= 0 || limit > maxFeedLimit {
		limit = s.cfg.FeedLimit
	}

	key := fmt.Sprintf("feed:%d:%d", sess.UserID, limit)
	res, err, _ := s.flight.Do(key, func() (any, error) {
		return s.loadFeed(ctx, sess, limit)
	})
	if err != nil {
		return nil, err
	}
	return res.([]PostView), nil
}

func (s *Service) loadFeed(ctx context.Context, sess Session, limit int) ([]PostView, error) {
	start := time.Now()

	pctx, cancel := s.callCtx(ctx)
	posts, err := s.posts.GetRecentPosts(pctx, int64(limit))
	cancel()
	if err != nil {
		metrics.FeedLoads.WithLabelValues("error").Inc()
		return nil, &FetchError{Op: "posts", Err: err}
	}
	if len(posts) == 0 {
		s.replace(nil)
		metrics.FeedLoads.WithLabelValues("ok").Inc()
		return []PostView{}, nil
	}

	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID.Hex()
	}

	// Batched companion queries; each tolerates failure independently and
	// degrades to zero counts rather than aborting the load.
	var reactions []models.Reaction
	var comments []models.Comment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rctx, cancel := s.callCtx(gctx)
		defer cancel()
		rows, err := s.reactions.GetReactionsByPostIDs(rctx, postIDs)
		if err != nil {
			s.logger.Warn("reaction counts unavailable, degrading to zero", "error", err)
			return nil
		}
		reactions = rows
		return nil
	})
	g.Go(func() error {
		cctx, cancel := s.callCtx(gctx)
		defer cancel()
		rows, err := s.comments.GetCommentsByPostIDs(cctx, postIDs)
		if err != nil {
			s.logger.Warn("comment counts unavailable, degrading to zero", "error", err)
			return nil
		}
		comments = rows
		return nil
	})
	g.Wait()

	tallies := make(map[string]*counters, len(posts))
	for _, id := range postIDs {
		tallies[id] = &counters{}
	}
	viewer := make(map[string]map[string]bool)
	for _, r := range reactions {
		t, ok := tallies[r.PostID]
		if !ok {
			continue
		}
		t.addReaction(r.Kind)
		if sess.LoggedIn() && r.UserID == sess.UserID {
			if viewer[r.PostID] == nil {
				viewer[r.PostID] = make(map[string]bool)
			}
			viewer[r.PostID][r.Kind] = true
		}
	}
	for _, c := range comments {
		if t, ok := tallies[c.PostID]; ok {
			t.comments++
		}
	}

	now := time.Now()
	views := make([]PostView, len(posts))
	for i, p := range posts {
		id := p.ID.Hex()
		views[i] = newPostView(p, *tallies[id], viewer[id], now)
	}
	rankPosts(views)

	s.replace(views)
	metrics.FeedLoads.WithLabelValues("ok").Inc()
	metrics.FeedLoadDuration.Observe(time.Since(start).Seconds())
	return cloneViews(views), nil
}

// ToggleReaction applies an optimistic local increment for kind, then asks
// the store whether the viewer already holds that reaction: if not, it is
// inserted (the +1 stands); if so, it is deleted and the local counter is
// corrected by a net -1 relative to the pre-call state. Any remote error or
// timeout restores the entire pre-call post list snapshot.
//
// Counters may therefore be transiently wrong by at most one unit of one
// kind for the duration of one round trip, and converge to server truth on
// the next full feed load.
func (s *Service) ToggleReaction(ctx context.Context, sess Session, postID, kind string) (PostView, error) {
	if !sess.LoggedIn() {
		return PostView{}, ErrNoSession
	}
	if !models.IsValidReactionKind(kind) {
		return PostView{}, fmt.Errorf("invalid reaction kind %q", kind)
	}

	snapshot := s.snapshot()
	s.adjust(postID, kind, +1, kind)

	lctx, cancel := s.callCtx(ctx)
	existing, err := s.reactions.GetReaction(lctx, postID, sess.UserID, kind)
	cancel()

	switch {
	case err == nil:
		// Already reacted: the true action is a removal.
		dctx, cancel := s.callCtx(ctx)
		derr := s.reactions.DeleteReaction(dctx, existing.ID)
		cancel()
		if derr != nil {
			s.restore(snapshot)
			metrics.ReactionToggles.WithLabelValues(kind, "error").Inc()
			return PostView{}, &MutationError{Op: "delete reaction", Err: derr}
		}
		// Undo the speculative +1 and apply the real -1.
		s.adjust(postID, kind, -2, "")
		metrics.ReactionToggles.WithLabelValues(kind, "removed").Inc()

	case errors.Is(err, ErrNotFound):
		cctx, cancel := s.callCtx(ctx)
		cerr := s.reactions.CreateReaction(cctx, &models.Reaction{
			PostID: postID,
			UserID: sess.UserID,
			Kind:   kind,
		})
		cancel()
		if cerr != nil {
			// Includes the duplicate-insert race: the store's uniqueness
			// constraint rejects it and we roll back rather than patch.
			s.restore(snapshot)
			metrics.ReactionToggles.WithLabelValues(kind, "error").Inc()
			return PostView{}, &MutationError{Op: "create reaction", Err: cerr}
		}
		metrics.ReactionToggles.WithLabelValues(kind, "added").Inc()

	default:
		s.restore(snapshot)
		metrics.ReactionToggles.WithLabelValues(kind, "error").Inc()
		return PostView{}, &FetchError{Op: "reaction lookup", Err: err}
	}

	if v, ok := s.viewOf(postID); ok {
		return v, nil
	}
	// Post not on the current feed page; counters converge on next load.
	return PostView{ID: postID}, nil
}

// callCtx bounds a single remote store call.
func (s *Service) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.cfg.CallTimeout)
}

func (s *Service) snapshot() []PostView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneViews(s.current)
}

func (s *Service) replace(views []PostView) {
	s.mu.Lock()
	s.current = views
	s.mu.Unlock()
}

func (s *Service) restore(snapshot []PostView) {
	s.mu.Lock()
	s.current = snapshot
	s.mu.Unlock()
}

// adjust rebuilds the list with one post's counter shifted by delta, then
// swaps it in wholesale. setViewer, when non-empty, records the viewer's
// reaction on the view; delta < 0 clears it.
func (s *Service) adjust(postID, kind string, delta int, setViewer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneViews(s.current)
	for i := range next {
		if next[i].ID != postID {
			continue
		}
		switch kind {
		case models.ReactionLike:
			next[i].Likes = clampCount(next[i].Likes + delta)
		case models.ReactionHug:
			next[i].Hugs = clampCount(next[i].Hugs + delta)
		case models.ReactionSlap:
			next[i].Slaps = clampCount(next[i].Slaps + delta)
		}
		if setViewer != "" {
			next[i].ViewerReaction = preferredKind(next[i].ViewerReaction, setViewer)
		} else if next[i].ViewerReaction == kind {
			next[i].ViewerReaction = ""
		}
		break
	}
	s.current = next
}

func (s *Service) viewOf(postID string) (PostView, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, v := range s.current {
		if v.ID == postID {
			v.ImageURLs = append([]string(nil), v.ImageURLs...)
			return v, true
		}
	}
	return PostView{}, false
}
