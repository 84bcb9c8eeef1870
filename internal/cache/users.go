package cache

import (
	"context"
	"fmt"
	"time"
)

// User records are the hot read path: the identity resolver loads the
// requesting user on every protected call, and feed reads backfill author
// snapshots by user ID.
const (
	UserKeyPrefix = "user:%d"
	UserTTL       = 5 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
