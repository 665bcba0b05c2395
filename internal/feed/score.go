package feed

import (
	"math"
	"sort"
	"time"
)

// Heat score parameters. Comments weigh double because writing one costs more
// than tapping a reaction; the +2 offset and 1.5 exponent shape the gravity
// decay so a post loses roughly half its rank weight within its first hours.
const (
	commentWeight  = 2
	scoreAgeOffset = 2.0
	scoreGravity   = 1.5
)

// Score computes the time-decayed heat score for one post. Pure and
// deterministic: same counters, timestamps in, same score out.
//
//	score = (likes + hugs + slaps + 2*comments + 1) / (ageHours + 2)^1.5
//
// Age is clamped at zero so a future or malformed timestamp cannot inflate
// the score.
func Score(likes, hugs, slaps, comments int, createdAt, now time.Time) float64 {
	interactions := float64(likes + hugs + slaps + commentWeight*comments)
	ageHours := now.Sub(createdAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}
	return (interactions + 1) / math.Pow(ageHours+scoreAgeOffset, scoreGravity)
}

// rankPosts sorts views by score descending. Equal scores order by post id
// ascending so the ranking is deterministic.
func rankPosts(views []PostView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Score != views[j].Score {
			return views[i].Score > views[j].Score
		}
		return views[i].ID < views[j].ID
	})
}
