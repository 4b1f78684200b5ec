package auth

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"ghagga-dashboard/database"
	"ghagga-dashboard/models"
)

// UserReader loads stored users.
type UserReader interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type cachedUser struct {
	user    *models.User
	expires time.Time
}

// Resolver turns a session user id into an AuthState. Lookups are cached,
// collapsed per user id, and bounded by a wait budget: a lookup that is still
// running when the budget runs out reports Loading and keeps going in the
// background so a later request finds it cached.
type Resolver struct {
	users  UserReader
	wait   time.Duration
	ttl    time.Duration
	lookup time.Duration
	log    *zap.Logger
	now    func() time.Time

	group singleflight.Group
	mu    sync.RWMutex
	cache map[int64]cachedUser
}

func NewResolver(users UserReader, wait, ttl time.Duration, log *zap.Logger) *Resolver {
	return &Resolver{
		users:  users,
		wait:   wait,
		ttl:    ttl,
		lookup: 10 * time.Second,
		log:    log,
		now:    time.Now,
		cache:  make(map[int64]cachedUser),
	}
}

func (r *Resolver) Resolve(ctx context.Context, userID int64) models.AuthState {
	if userID == 0 {
		return models.AuthState{}
	}

	if u, ok := r.cached(userID); ok {
		return models.AuthState{User: u}
	}

	ch := r.group.DoChan(strconv.FormatInt(userID, 10), func() (interface{}, error) {
		// Detached from the request so an abandoned wait still fills the cache.
		lctx, cancel := context.WithTimeout(context.Background(), r.lookup)
		defer cancel()

		u, err := r.users.GetUser(lctx, userID)
		if err != nil {
			return nil, err
		}
		r.store(u)
		return u, nil
	})

	timer := time.NewTimer(r.wait)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.Err != nil {
			if !errors.Is(res.Err, database.ErrNotFound) {
				r.log.Error("resolve session user", zap.Int64("user_id", userID), zap.Error(res.Err))
			}
			return models.AuthState{}
		}
		return models.AuthState{User: res.Val.(*models.User)}
	case <-timer.C:
		return models.AuthState{Loading: true}
	case <-ctx.Done():
		return models.AuthState{Loading: true}
	}
}

// Forget drops a cached user, e.g. on logout.
func (r *Resolver) Forget(userID int64) {
	r.mu.Lock()
	delete(r.cache, userID)
	r.mu.Unlock()
}

func (r *Resolver) cached(userID int64) (*models.User, bool) {
	r.mu.RLock()
	c, ok := r.cache[userID]
	r.mu.RUnlock()
	if !ok || r.now().After(c.expires) {
		return nil, false
	}
	return c.user, true
}

func (r *Resolver) store(u *models.User) {
	r.mu.Lock()
	r.cache[u.ID] = cachedUser{user: u, expires: r.now().Add(r.ttl)}
	r.mu.Unlock()
}
