package access

import (
	"context"
	"strings"
	"sync"
	"time"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/progress"
	"genesiscode/internal/domain/subscription"
	"genesiscode/internal/domain/user"
)

// world is an in-memory set of entitlement sources. Function fields override
// behaviour for failure tests.
type world struct {
	mu sync.Mutex

	users      map[uint]*user.User
	roles      map[uint][]string
	paths      map[uint]*catalog.Path
	grants     []*courseaccess.Grant
	subs       map[uint]*subscription.Subscription
	plans      map[uint]*subscription.Plan
	categories map[[2]uint]*categoryaccess.CategoryAccess
	completed  map[[2]uint]bool

	getUserCalls int

	GetUserFunc          func(ctx context.Context, id uint) (*user.User, error)
	FindMostSpecificFunc func(ctx context.Context, userID, pathID, levelID, exerciseID uint, now time.Time) (*courseaccess.Grant, error)
	FindActiveFunc       func(ctx context.Context, userID uint) (*subscription.Subscription, error)
	IsCompletedFunc      func(ctx context.Context, userID, levelID uint) (bool, error)
}

func newWorld() *world {
	return &world{
		users:      map[uint]*user.User{},
		roles:      map[uint][]string{},
		paths:      map[uint]*catalog.Path{},
		subs:       map[uint]*subscription.Subscription{},
		plans:      map[uint]*subscription.Plan{},
		categories: map[[2]uint]*categoryaccess.CategoryAccess{},
		completed:  map[[2]uint]bool{},
	}
}

func (w *world) sources() Sources {
	return Sources{
		Users:          userRepo{w},
		Roles:          roleSource{w},
		Catalog:        catalogRepo{w},
		Grants:         grantRepo{w},
		Subscriptions:  subRepo{w},
		Plans:          planRepo{w},
		CategoryAccess: categoryRepo{w},
		Progress:       progressRepo{w},
	}
}

type userRepo struct{ w *world }

func (r userRepo) Create(context.Context, *user.User) error { return nil }
func (r userRepo) GetByEmail(context.Context, string) (*user.User, error) {
	return nil, nil
}
func (r userRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	r.w.mu.Lock()
	r.w.getUserCalls++
	r.w.mu.Unlock()
	if r.w.GetUserFunc != nil {
		return r.w.GetUserFunc(ctx, id)
	}
	return r.w.users[id], nil
}

type roleSource struct{ w *world }

func (r roleSource) GetRolesForUser(userID uint) ([]string, error) {
	return r.w.roles[userID], nil
}

type catalogRepo struct{ w *world }

func (r catalogRepo) GetPath(_ context.Context, id uint) (*catalog.Path, error) {
	return r.w.paths[id], nil
}
func (r catalogRepo) GetCategory(context.Context, uint) (*catalog.Category, error) { return nil, nil }
func (r catalogRepo) GetLevel(context.Context, uint) (*catalog.Level, error)       { return nil, nil }
func (r catalogRepo) ListPathsByCategory(_ context.Context, categoryID uint) ([]*catalog.Path, error) {
	var out []*catalog.Path
	for _, p := range r.w.paths {
		if p.CategoryID() == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}
func (r catalogRepo) CreateCategory(context.Context, *catalog.Category) error { return nil }
func (r catalogRepo) CreatePath(context.Context, *catalog.Path) error         { return nil }
func (r catalogRepo) CreateLevel(context.Context, *catalog.Level) error       { return nil }

type grantRepo struct{ w *world }

func (r grantRepo) Create(_ context.Context, g *courseaccess.Grant) error {
	r.w.grants = append(r.w.grants, g)
	return nil
}
func (r grantRepo) Update(context.Context, *courseaccess.Grant) error { return nil }
func (r grantRepo) GetByID(context.Context, uint) (*courseaccess.Grant, error) {
	return nil, nil
}
func (r grantRepo) GetByScope(context.Context, courseaccess.Scope) (*courseaccess.Grant, error) {
	return nil, nil
}
func (r grantRepo) DeactivateExpired(context.Context, time.Time) ([]uint, error) { return nil, nil }
func (r grantRepo) FindMostSpecific(ctx context.Context, userID, pathID, levelID, exerciseID uint, now time.Time) (*courseaccess.Grant, error) {
	if r.w.FindMostSpecificFunc != nil {
		return r.w.FindMostSpecificFunc(ctx, userID, pathID, levelID, exerciseID, now)
	}
	var best *courseaccess.Grant
	for _, g := range r.w.grants {
		if g.UserID() != userID || !g.Matches(pathID, levelID, exerciseID) || !g.IsEffectiveAt(now) {
			continue
		}
		if best == nil || g.Specificity() > best.Specificity() {
			best = g
		}
	}
	return best, nil
}

type subRepo struct{ w *world }

func (r subRepo) Create(context.Context, *subscription.Subscription) error { return nil }
func (r subRepo) Update(context.Context, *subscription.Subscription) error { return nil }
func (r subRepo) ExpireOverdue(context.Context, time.Time) ([]uint, error) { return nil, nil }
func (r subRepo) FindActiveByUser(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	if r.w.FindActiveFunc != nil {
		return r.w.FindActiveFunc(ctx, userID)
	}
	return r.w.subs[userID], nil
}

type planRepo struct{ w *world }

func (r planRepo) Create(context.Context, *subscription.Plan) error { return nil }
func (r planRepo) GetByID(_ context.Context, id uint) (*subscription.Plan, error) {
	return r.w.plans[id], nil
}
func (r planRepo) ListActive(context.Context) ([]*subscription.Plan, error) { return nil, nil }

type categoryRepo struct{ w *world }

func (r categoryRepo) Create(context.Context, *categoryaccess.CategoryAccess) error { return nil }
func (r categoryRepo) Update(context.Context, *categoryaccess.CategoryAccess) error { return nil }
func (r categoryRepo) GetByUserAndCategory(_ context.Context, userID, categoryID uint) (*categoryaccess.CategoryAccess, error) {
	return r.w.categories[[2]uint{userID, categoryID}], nil
}
func (r categoryRepo) UnlockLevel(context.Context, uint, uint, uint, uint, time.Time) (bool, error) {
	return false, nil
}
func (r categoryRepo) DeactivateExpired(context.Context, time.Time) ([]uint, error) { return nil, nil }

type progressRepo struct{ w *world }

func (r progressRepo) IsCompleted(ctx context.Context, userID, levelID uint) (bool, error) {
	if r.w.IsCompletedFunc != nil {
		return r.w.IsCompletedFunc(ctx, userID, levelID)
	}
	return r.w.completed[[2]uint{userID, levelID}], nil
}
func (r progressRepo) MarkCompleted(_ context.Context, userID, levelID uint, _ time.Time) (bool, error) {
	r.w.completed[[2]uint{userID, levelID}] = true
	return true, nil
}
func (r progressRepo) GetByUserAndLevel(context.Context, uint, uint) (*progress.UserLevelProgress, error) {
	return nil, nil
}

// memCache is a map-backed decision cache.
type memCache struct {
	mu      sync.Mutex
	entries map[string]access.Decision
	gens    map[uint]uint64
	getErr  error
	genErr  error
	setErr  error
	sets    int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string]access.Decision{}, gens: map[uint]uint64{}}
}

func (c *memCache) Generation(_ context.Context, userID uint) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.genErr != nil {
		return 0, c.genErr
	}
	return c.gens[userID], nil
}

func (c *memCache) Get(_ context.Context, key string) (*access.Decision, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	d, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (c *memCache) Set(_ context.Context, key string, d access.Decision, _ time.Duration, gen uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	if userID, ok := access.UserIDFromCacheKey(key); ok && c.gens[userID] != gen {
		return nil
	}
	c.sets++
	c.entries[key] = d
	return nil
}

func (c *memCache) InvalidateUser(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gens[userID]++
	prefix := access.CacheKey(access.Query{UserID: userID}) // "id:::"
	prefix = prefix[:strings.Index(prefix, ":")+1]
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
		}
	}
	return nil
}
