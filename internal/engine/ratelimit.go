package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// youtubeLimiter caps outbound Innertube calls so batch runs over playlists
// and channels do not trip YouTube's rate limits.
var youtubeLimiter = rate.NewLimiter(rate.Limit(5), 10)

// WaitYouTube blocks until the shared YouTube limiter admits another request.
func WaitYouTube(ctx context.Context) error {
	return youtubeLimiter.Wait(ctx)
}
