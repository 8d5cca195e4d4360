// Package access implements the access decision engine: given a user, a path and
// optionally a level and exercise, it decides whether access is granted and why.
package access

import (
	"context"
	"fmt"
	"runtime/debug"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/progress"
	"genesiscode/internal/domain/subscription"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/logger"
)

const defaultCacheTTL = 5 * time.Minute

// Sources are the stores the engine reads. The engine never writes to them.
type Sources struct {
	Users          user.Repository
	Roles          user.RoleSource // optional
	Catalog        catalog.Repository
	Grants         courseaccess.Repository
	Subscriptions  subscription.SubscriptionRepository
	Plans          subscription.PlanRepository
	CategoryAccess categoryaccess.Repository
	Progress       progress.Repository
}

// Engine evaluates access queries. It is safe for concurrent use and keeps no state
// between calls besides the injected cache.
type Engine struct {
	src      Sources
	cache    access.DecisionCache
	cacheTTL time.Duration
	metrics  Metrics
	now      func() time.Time
	group    singleflight.Group
	logger   logger.Interface
}

// NewEngine creates an engine. A nil cache disables caching.
func NewEngine(src Sources, cache access.DecisionCache, log logger.Interface, opts ...Option) *Engine {
	if cache == nil {
		cache = access.NopCache{}
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	e := &Engine{
		src:      src,
		cache:    cache,
		cacheTTL: defaultCacheTTL,
		metrics:  nopMetrics{},
		now:      func() time.Time { return time.Now().UTC() },
		logger:   log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// principal is the normalized view of a user: the engine never inspects raw roles.
type principal struct {
	id      uint
	isAdmin bool
}

// evaluation carries per-call state shared by the steps.
type evaluation struct {
	query access.Query
	now   time.Time
	who   principal
	path  *catalog.Path
}

type step struct {
	name string
	run  func(ctx context.Context, ev *evaluation) (access.Outcome, error)
}

// EvaluateAccess decides whether the user may access the queried resource. It never
// returns an error: infrastructure failures and panics resolve to a deny with reason "error".
func (e *Engine) EvaluateAccess(ctx context.Context, q access.Query) (decision access.Decision) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveDecision(decision, time.Since(start))
	}()

	if q.UserID == 0 {
		return access.Deny(access.ReasonUserNotFound)
	}
	if err := q.Validate(); err != nil {
		e.logger.Warnw("rejecting malformed access query", "error", err, "query", access.CacheKey(q))
		return access.Deny(access.ReasonNoAccess)
	}

	key := access.CacheKey(q)
	gen, cacheUsable := e.cacheGeneration(ctx, q.UserID)
	if cacheUsable {
		if cached := e.cacheGet(ctx, key); cached != nil {
			return *cached
		}
	}

	// Concurrent misses for the same key and generation share one evaluation, so a
	// caller arriving after an invalidation never joins a flight that started before
	// it. The shared run must not be cut short because the first caller went away.
	flight := key + "@" + strconv.FormatUint(gen, 10)
	v, _, _ := e.group.Do(flight, func() (any, error) {
		shared := context.WithoutCancel(ctx)
		d, cacheable := e.evaluateSafely(shared, q)
		if cacheable && cacheUsable {
			e.cacheSet(shared, key, d, gen)
		}
		return d, nil
	})
	return v.(access.Decision)
}

// InvalidateUser drops cached decisions after an entitlement change.
func (e *Engine) InvalidateUser(ctx context.Context, userID uint) error {
	if err := e.cache.InvalidateUser(ctx, userID); err != nil {
		e.logger.Warnw("failed to invalidate cached access decisions", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// IsAdmin reports the normalized admin flag of a user. Unknown users are not admins.
func (e *Engine) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	p, err := e.resolvePrincipal(ctx, userID)
	if err != nil {
		return false, err
	}
	return p != nil && p.isAdmin, nil
}

// evaluateSafely runs the pipeline and converts errors and panics into a fail-closed deny.
// The boolean reports whether the decision may be cached.
func (e *Engine) evaluateSafely(ctx context.Context, q access.Query) (d access.Decision, cacheable bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Errorw("panic during access evaluation",
				"panic", r,
				"query", access.CacheKey(q),
				"stack", string(debug.Stack()),
			)
			d, cacheable = access.Deny(access.ReasonError), false
		}
	}()

	d, cacheable, err := e.evaluate(ctx, q)
	if err != nil {
		e.logger.Errorw("access evaluation failed, denying",
			"error", err,
			"user_id", q.UserID,
			"path_id", q.PathID,
			"level_id", q.LevelID,
			"exercise_id", q.ExerciseID,
		)
		return access.Deny(access.ReasonError), false
	}
	return d, cacheable
}

func (e *Engine) evaluate(ctx context.Context, q access.Query) (access.Decision, bool, error) {
	who, err := e.resolvePrincipal(ctx, q.UserID)
	if err != nil {
		return access.Decision{}, false, err
	}
	if who == nil {
		return access.Deny(access.ReasonUserNotFound), false, nil
	}
	if who.isAdmin {
		return access.FullAccess(access.SourceAdminBypass), false, nil
	}

	ev := &evaluation{query: q, now: e.now(), who: *who}
	steps := []step{
		{"explicit_grant", e.explicitGrantStep},
		{"load_path", e.loadPathStep},
		{"subscription", e.subscriptionStep},
		{"sequential_unlock", e.sequentialStep},
		{"free_first_level", e.freeFirstLevelStep},
	}

	for _, s := range steps {
		outcome, err := s.run(ctx, ev)
		if err != nil {
			return access.Decision{}, false, fmt.Errorf("%s: %w", s.name, err)
		}
		if outcome.IsDecisive() {
			return outcome.Decision(), true, nil
		}
		e.logger.Debugw("access step did not decide",
			"step", s.name,
			"reason", outcome.Decision().Reason,
			"user_id", q.UserID,
			"path_id", q.PathID,
		)
	}

	return access.Deny(access.ReasonNoAccess), true, nil
}

func (e *Engine) resolvePrincipal(ctx context.Context, userID uint) (*principal, error) {
	u, err := e.src.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil {
		return nil, nil
	}
	if e.src.Roles != nil {
		roles, err := e.src.Roles.GetRolesForUser(userID)
		if err != nil {
			return nil, fmt.Errorf("get roles: %w", err)
		}
		u = u.WithRoles(append(u.Roles(), roles...))
	}
	return &principal{id: u.ID(), isAdmin: u.IsAdmin()}, nil
}

func (e *Engine) explicitGrantStep(ctx context.Context, ev *evaluation) (access.Outcome, error) {
	q := ev.query
	g, err := e.src.Grants.FindMostSpecific(ctx, q.UserID, q.PathID, q.LevelID, q.ExerciseID, ev.now)
	if err != nil {
		return access.Outcome{}, fmt.Errorf("find explicit grant: %w", err)
	}
	if g == nil {
		return access.Continue(access.ReasonNoAccess), nil
	}
	caps := g.Capabilities()
	return access.Decisive(access.Grant(
		g.AccessType().String(),
		access.SourceExplicit,
		caps.CanView, caps.CanInteract, caps.CanDownload,
	)), nil
}

func (e *Engine) loadPathStep(ctx context.Context, ev *evaluation) (access.Outcome, error) {
	p, err := e.loadPath(ctx, ev.query.PathID)
	if err != nil {
		return access.Outcome{}, err
	}
	if p == nil {
		return access.Decisive(access.Deny(access.ReasonNoAccess)), nil
	}
	ev.path = p
	return access.Continue(access.ReasonNoAccess), nil
}

func (e *Engine) subscriptionStep(ctx context.Context, ev *evaluation) (access.Outcome, error) {
	sub, err := e.src.Subscriptions.FindActiveByUser(ctx, ev.who.id)
	if err != nil {
		return access.Outcome{}, fmt.Errorf("find active subscription: %w", err)
	}
	if sub == nil || !sub.GrantsAccessAt(ev.now) {
		return access.Continue(access.ReasonNoAccess), nil
	}

	plan, err := e.src.Plans.GetByID(ctx, sub.PlanID())
	if err != nil {
		return access.Outcome{}, fmt.Errorf("get subscription plan: %w", err)
	}
	if plan == nil || !plan.IsValid() {
		planType := ""
		if plan != nil {
			planType = plan.Type().String()
		}
		e.logger.Warnw("subscription references a missing or invalid plan",
			"subscription_id", sub.ID(),
			"plan_id", sub.PlanID(),
			"plan_type", planType,
			"user_id", ev.who.id,
		)
		return access.Continue(access.ReasonInvalidSubscriptionPlan), nil
	}

	scope, ok := plan.Covers(ev.path.ID(), ev.path.CategoryID())
	if !ok {
		return access.Continue(access.ReasonPlanScopeMismatch), nil
	}
	return access.Decisive(access.Grant(
		access.AccessTypeSubscription,
		access.SubscriptionSource(scope.String()),
		true, true, false,
	)), nil
}

func (e *Engine) sequentialStep(ctx context.Context, ev *evaluation) (access.Outcome, error) {
	if !ev.query.IsLevelQuery() {
		return access.Continue(access.ReasonNoAccess), nil
	}
	return e.sequentialOutcome(ctx, ev.who.id, ev.path, ev.query.LevelID, ev.now)
}

func (e *Engine) freeFirstLevelStep(_ context.Context, ev *evaluation) (access.Outcome, error) {
	if !ev.query.IsLevelQuery() {
		// The path overview is always free to look at.
		return access.Decisive(access.Grant(access.AccessTypePreview, access.SourcePathPreview, true, false, false)), nil
	}
	if catalog.IsFirstLevelOf(ev.path, ev.query.LevelID) {
		return access.Decisive(access.Grant(access.AccessTypeFree, access.SourceFreeFirstLesson, true, true, false)), nil
	}
	return access.Decisive(access.Deny(access.ReasonNotFirstLesson)), nil
}

// loadPath fetches the path and reports ordering anomalies. (nil, nil) if missing.
func (e *Engine) loadPath(ctx context.Context, pathID uint) (*catalog.Path, error) {
	p, err := e.src.Catalog.GetPath(ctx, pathID)
	if err != nil {
		return nil, fmt.Errorf("get path: %w", err)
	}
	if p == nil {
		return nil, nil
	}
	for _, issue := range catalog.ValidateOrdering(p.Levels()) {
		e.logger.Warnw("level ordering anomaly, using lowest level ID as tie-break",
			"path_id", p.ID(),
			"kind", issue.Kind,
			"order", issue.Order,
			"level_ids", issue.LevelIDs,
		)
	}
	return p, nil
}

// cacheGeneration reads the user's invalidation counter. When it cannot be read the
// cache is bypassed for the call, both ways.
func (e *Engine) cacheGeneration(ctx context.Context, userID uint) (uint64, bool) {
	gen, err := e.cache.Generation(ctx, userID)
	if err != nil {
		e.metrics.CacheResult(CacheResultError)
		e.logger.Warnw("access cache generation read failed, bypassing cache", "user_id", userID, "error", err)
		return 0, false
	}
	return gen, true
}

func (e *Engine) cacheGet(ctx context.Context, key string) *access.Decision {
	d, err := e.cache.Get(ctx, key)
	if err != nil {
		e.metrics.CacheResult(CacheResultError)
		e.logger.Warnw("access cache read failed, evaluating from source", "key", key, "error", err)
		return nil
	}
	if d == nil {
		e.metrics.CacheResult(CacheResultMiss)
		return nil
	}
	e.metrics.CacheResult(CacheResultHit)
	return d
}

func (e *Engine) cacheSet(ctx context.Context, key string, d access.Decision, gen uint64) {
	if err := e.cache.Set(ctx, key, d, e.cacheTTL, gen); err != nil {
		e.metrics.CacheResult(CacheResultError)
		e.logger.Warnw("access cache write failed", "key", key, "error", err)
	}
}
