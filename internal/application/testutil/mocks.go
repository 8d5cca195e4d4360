// Package testutil provides in-memory repositories and collaborators for use case tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"genesiscode/internal/domain/access"
	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/domain/courseaccess"
	"genesiscode/internal/domain/progress"
	"genesiscode/internal/domain/subscription"
	vo "genesiscode/internal/domain/subscription/valueobjects"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/logger"
)

// errDuplicate mimics the driver message errors.IsDuplicateError recognises.
var errDuplicate = fmt.Errorf("UNIQUE constraint failed")

// MockUserRepository is an in-memory user.Repository.
type MockUserRepository struct {
	mu     sync.RWMutex
	users  map[uint]*user.User
	nextID uint

	GetError error
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*user.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u.ID() == 0 {
		m.nextID++
		if err := u.SetID(m.nextID); err != nil {
			return err
		}
	}
	m.users[u.ID()] = u
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, nil
}

// AddUser stores a user with a fixed ID.
func (m *MockUserRepository) AddUser(id uint, email string) *user.User {
	u, err := user.ReconstructUser(id, email, email, nil, "", time.Now().UTC())
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	m.users[id] = u
	m.mu.Unlock()
	return u
}

// MockCatalogRepository is an in-memory catalog.Repository.
type MockCatalogRepository struct {
	mu         sync.RWMutex
	categories map[uint]*catalog.Category
	paths      map[uint]*catalog.Path
	levels     map[uint]*catalog.Level
	nextID     uint
}

func NewMockCatalogRepository() *MockCatalogRepository {
	return &MockCatalogRepository{
		categories: make(map[uint]*catalog.Category),
		paths:      make(map[uint]*catalog.Path),
		levels:     make(map[uint]*catalog.Level),
	}
}

func (m *MockCatalogRepository) GetPath(ctx context.Context, id uint) (*catalog.Path, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.paths[id], nil
}

func (m *MockCatalogRepository) GetCategory(ctx context.Context, id uint) (*catalog.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.categories[id], nil
}

func (m *MockCatalogRepository) GetLevel(ctx context.Context, id uint) (*catalog.Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.levels[id], nil
}

func (m *MockCatalogRepository) ListPathsByCategory(ctx context.Context, categoryID uint) ([]*catalog.Path, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*catalog.Path
	for _, p := range m.paths {
		if p.CategoryID() == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MockCatalogRepository) CreateCategory(ctx context.Context, c *catalog.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := c.SetID(m.nextID); err != nil {
		return err
	}
	m.categories[c.ID()] = c
	return nil
}

func (m *MockCatalogRepository) CreatePath(ctx context.Context, p *catalog.Path) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := p.SetID(m.nextID); err != nil {
		return err
	}
	m.paths[p.ID()] = p
	return nil
}

func (m *MockCatalogRepository) CreateLevel(ctx context.Context, l *catalog.Level) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := l.SetID(m.nextID); err != nil {
		return err
	}
	m.levels[l.ID()] = l
	return nil
}

// AddCategory stores a category with a fixed ID.
func (m *MockCatalogRepository) AddCategory(id uint, name string) *catalog.Category {
	c, err := catalog.ReconstructCategory(id, name, fmt.Sprintf("category-%d", id), time.Now().UTC())
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	m.categories[id] = c
	m.mu.Unlock()
	return c
}

// AddPath stores a path whose levels are given as ID to order pairs, in listing order.
func (m *MockCatalogRepository) AddPath(id, categoryID uint, title string, levels ...[2]uint) *catalog.Path {
	now := time.Now().UTC()
	ls := make([]*catalog.Level, 0, len(levels))
	for _, l := range levels {
		lvl, err := catalog.ReconstructLevel(l[0], id, int(l[1]), fmt.Sprintf("Level %d", l[1]), now)
		if err != nil {
			panic(err)
		}
		ls = append(ls, lvl)
	}
	p, err := catalog.ReconstructPath(id, categoryID, title, "", ls, now)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	m.paths[id] = p
	for _, l := range ls {
		m.levels[l.ID()] = l
	}
	m.mu.Unlock()
	return p
}

// PutPath stores a path built outside the repository, together with its levels.
func (m *MockCatalogRepository) PutPath(p *catalog.Path) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.paths[p.ID()] = p
	for _, l := range p.Levels() {
		m.levels[l.ID()] = l
	}
}

// MockGrantRepository is an in-memory courseaccess.Repository.
type MockGrantRepository struct {
	mu     sync.RWMutex
	grants map[uint]*courseaccess.Grant
	nextID uint

	CreateError error
	UpdateError error
	// DuplicateOnCreate makes the next Create fail as if another writer won the race.
	DuplicateOnCreate bool
	UpdateCalls       int
}

func NewMockGrantRepository() *MockGrantRepository {
	return &MockGrantRepository{grants: make(map[uint]*courseaccess.Grant)}
}

func (m *MockGrantRepository) Create(ctx context.Context, g *courseaccess.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateError != nil {
		return m.CreateError
	}
	if m.DuplicateOnCreate {
		m.DuplicateOnCreate = false
		return errDuplicate
	}
	m.nextID++
	if err := g.SetID(m.nextID); err != nil {
		return err
	}
	m.grants[g.ID()] = g
	return nil
}

func (m *MockGrantRepository) Update(ctx context.Context, g *courseaccess.Grant) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	if m.UpdateError != nil {
		return m.UpdateError
	}
	if _, ok := m.grants[g.ID()]; !ok {
		return courseaccess.ErrGrantNotFound
	}
	m.grants[g.ID()] = g
	return nil
}

func (m *MockGrantRepository) GetByID(ctx context.Context, id uint) (*courseaccess.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.grants[id], nil
}

func (m *MockGrantRepository) GetByScope(ctx context.Context, scope courseaccess.Scope) (*courseaccess.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, g := range m.grants {
		if g.Scope() == scope {
			return g, nil
		}
	}
	return nil, nil
}

func (m *MockGrantRepository) FindMostSpecific(ctx context.Context, userID, pathID, levelID, exerciseID uint, now time.Time) (*courseaccess.Grant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best *courseaccess.Grant
	for _, g := range m.grants {
		if g.UserID() != userID || !g.Matches(pathID, levelID, exerciseID) || !g.IsEffectiveAt(now) {
			continue
		}
		if best == nil || g.Specificity() > best.Specificity() {
			best = g
		}
	}
	return best, nil
}

func (m *MockGrantRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []uint
	for _, g := range m.grants {
		if g.IsActive() && g.ExpiresAt() != nil && !g.ExpiresAt().After(now) {
			g.Deactivate()
			users = append(users, g.UserID())
		}
	}
	return users, nil
}

// Put stores a grant that was built outside the repository.
func (m *MockGrantRepository) Put(g *courseaccess.Grant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if g.ID() == 0 {
		m.nextID++
		_ = g.SetID(m.nextID)
	}
	m.grants[g.ID()] = g
}

func (m *MockGrantRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.grants)
}

// MockCategoryAccessRepository is an in-memory categoryaccess.Repository. UnlockLevel
// is atomic under the mutex, matching the conditional insert of the SQL store.
type MockCategoryAccessRepository struct {
	mu      sync.Mutex
	records map[[2]uint]*categoryaccess.CategoryAccess
	nextID  uint

	UnlockError error
	CreateCalls int
	UpdateCalls int
}

func NewMockCategoryAccessRepository() *MockCategoryAccessRepository {
	return &MockCategoryAccessRepository{records: make(map[[2]uint]*categoryaccess.CategoryAccess)}
}

func (m *MockCategoryAccessRepository) Create(ctx context.Context, ca *categoryaccess.CategoryAccess) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls++
	key := [2]uint{ca.UserID(), ca.CategoryID()}
	if _, ok := m.records[key]; ok {
		return errDuplicate
	}
	m.nextID++
	if err := ca.SetID(m.nextID); err != nil {
		return err
	}
	m.records[key] = ca
	return nil
}

func (m *MockCategoryAccessRepository) Update(ctx context.Context, ca *categoryaccess.CategoryAccess) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UpdateCalls++
	m.records[[2]uint{ca.UserID(), ca.CategoryID()}] = ca
	return nil
}

func (m *MockCategoryAccessRepository) GetByUserAndCategory(ctx context.Context, userID, categoryID uint) (*categoryaccess.CategoryAccess, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[[2]uint{userID, categoryID}], nil
}

func (m *MockCategoryAccessRepository) UnlockLevel(ctx context.Context, userID, categoryID, pathID, levelID uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UnlockError != nil {
		return false, m.UnlockError
	}
	key := [2]uint{userID, categoryID}
	ca, ok := m.records[key]
	if !ok || !ca.IsActiveAt(now) {
		return false, categoryaccess.ErrCategoryAccessInactive
	}
	if ca.HasUnlocked(pathID, levelID) {
		return false, nil
	}
	unlocked := append(ca.UnlockedLevels(), categoryaccess.UnlockedLevel{PathID: pathID, LevelID: levelID, UnlockedAt: now})
	updated, err := categoryaccess.ReconstructCategoryAccess(ca.ID(), ca.UserID(), ca.CategoryID(), ca.AccessType(), ca.Status(),
		ca.ExpiresAt(), ca.PaymentReference(), unlocked, ca.CreatedAt(), now)
	if err != nil {
		return false, err
	}
	m.records[key] = updated
	return true, nil
}

func (m *MockCategoryAccessRepository) DeactivateExpired(ctx context.Context, now time.Time) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var users []uint
	for _, ca := range m.records {
		if ca.Status() == categoryaccess.StatusActive && !ca.IsActiveAt(now) {
			ca.Deactivate()
			users = append(users, ca.UserID())
		}
	}
	return users, nil
}

// Put stores a record that was built outside the repository.
func (m *MockCategoryAccessRepository) Put(ca *categoryaccess.CategoryAccess) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ca.ID() == 0 {
		m.nextID++
		_ = ca.SetID(m.nextID)
	}
	m.records[[2]uint{ca.UserID(), ca.CategoryID()}] = ca
}

// MockProgressRepository is an in-memory progress.Repository.
type MockProgressRepository struct {
	mu        sync.Mutex
	completed map[[2]uint]time.Time
}

func NewMockProgressRepository() *MockProgressRepository {
	return &MockProgressRepository{completed: make(map[[2]uint]time.Time)}
}

func (m *MockProgressRepository) IsCompleted(ctx context.Context, userID, levelID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.completed[[2]uint{userID, levelID}]
	return ok, nil
}

func (m *MockProgressRepository) MarkCompleted(ctx context.Context, userID, levelID uint, at time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{userID, levelID}
	if _, ok := m.completed[key]; ok {
		return false, nil
	}
	m.completed[key] = at
	return true, nil
}

func (m *MockProgressRepository) GetByUserAndLevel(ctx context.Context, userID, levelID uint) (*progress.UserLevelProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.completed[[2]uint{userID, levelID}]
	if !ok {
		return nil, nil
	}
	return progress.ReconstructUserLevelProgress(1, userID, levelID, true, &at, at)
}

// MockPlanRepository is an in-memory subscription.PlanRepository.
type MockPlanRepository struct {
	mu     sync.RWMutex
	plans  map[uint]*subscription.Plan
	nextID uint

	ListError error
}

func NewMockPlanRepository() *MockPlanRepository {
	return &MockPlanRepository{plans: make(map[uint]*subscription.Plan)}
}

func (m *MockPlanRepository) Create(ctx context.Context, p *subscription.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := p.SetID(m.nextID); err != nil {
		return err
	}
	m.plans[p.ID()] = p
	return nil
}

func (m *MockPlanRepository) GetByID(ctx context.Context, id uint) (*subscription.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.plans[id], nil
}

func (m *MockPlanRepository) ListActive(ctx context.Context) ([]*subscription.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ListError != nil {
		return nil, m.ListError
	}
	var out []*subscription.Plan
	for _, p := range m.plans {
		if p.IsActive() {
			out = append(out, p)
		}
	}
	return out, nil
}

// PutPlan stores a plan that already has an ID.
func (m *MockPlanRepository) PutPlan(p *subscription.Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID()] = p
}

// MockSubscriptionRepository is an in-memory subscription.SubscriptionRepository.
type MockSubscriptionRepository struct {
	mu     sync.Mutex
	subs   map[uint]*subscription.Subscription
	nextID uint

	ExpireError error
}

func NewMockSubscriptionRepository() *MockSubscriptionRepository {
	return &MockSubscriptionRepository{subs: make(map[uint]*subscription.Subscription)}
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := s.SetID(m.nextID); err != nil {
		return err
	}
	m.subs[s.ID()] = s
	return nil
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs[s.ID()] = s
	return nil
}

func (m *MockSubscriptionRepository) FindActiveByUser(ctx context.Context, userID uint) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subs {
		if s.UserID() == userID && s.GrantsAccessAt(time.Now().UTC()) {
			return s, nil
		}
	}
	return nil, nil
}

func (m *MockSubscriptionRepository) ExpireOverdue(ctx context.Context, now time.Time) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ExpireError != nil {
		return nil, m.ExpireError
	}
	var users []uint
	for _, s := range m.subs {
		if s.Status() == vo.StatusActive && !s.CurrentPeriodEnd().After(now) {
			s.Expire()
			users = append(users, s.UserID())
		}
	}
	return users, nil
}

// MockInvalidator records cache invalidations.
type MockInvalidator struct {
	mu    sync.Mutex
	users []uint

	Err error
}

func NewMockInvalidator() *MockInvalidator {
	return &MockInvalidator{}
}

func (m *MockInvalidator) InvalidateUser(ctx context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = append(m.users, userID)
	return m.Err
}

// Invalidated returns the user IDs passed to InvalidateUser, in call order.
func (m *MockInvalidator) Invalidated() []uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint(nil), m.users...)
}

// MockAccessEvaluator answers access queries from a per-level table, falling back
// to Default.
type MockAccessEvaluator struct {
	mu      sync.Mutex
	queries []access.Query

	Default access.Decision
	ByLevel map[uint]access.Decision
}

func NewMockAccessEvaluator(def access.Decision) *MockAccessEvaluator {
	return &MockAccessEvaluator{Default: def, ByLevel: map[uint]access.Decision{}}
}

func (m *MockAccessEvaluator) EvaluateAccess(_ context.Context, q access.Query) access.Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if d, ok := m.ByLevel[q.LevelID]; ok {
		return d
	}
	return m.Default
}

// Queries returns the evaluated queries, in call order.
func (m *MockAccessEvaluator) Queries() []access.Query {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]access.Query(nil), m.queries...)
}

// SentEmail is one recorded unlock notification.
type SentEmail struct {
	To           string
	CategoryName string
	PathTitles   []string
}

// MockNotifier records unlock notifications.
type MockNotifier struct {
	mu   sync.Mutex
	sent []SentEmail

	Err error
}

func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

func (m *MockNotifier) SendCategoryUnlockedEmail(to, categoryName string, pathTitles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentEmail{To: to, CategoryName: categoryName, PathTitles: pathTitles})
	return m.Err
}

func (m *MockNotifier) Sent() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentEmail(nil), m.sent...)
}

// MockLogger records log calls.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// LogEntry records a log call.
type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

func NewMockLogger() *MockLogger {
	return &MockLogger{entries: make([]LogEntry, 0)}
}

func (m *MockLogger) Debug(msg string, args ...any)           { m.log("DEBUG", msg, args...) }
func (m *MockLogger) Info(msg string, args ...any)            { m.log("INFO", msg, args...) }
func (m *MockLogger) Warn(msg string, args ...any)            { m.log("WARN", msg, args...) }
func (m *MockLogger) Error(msg string, args ...any)           { m.log("ERROR", msg, args...) }
func (m *MockLogger) With(args ...any) logger.Interface       { return m }
func (m *MockLogger) Named(name string) logger.Interface      { return m }
func (m *MockLogger) Debugw(msg string, keysAndValues ...any) { m.log("DEBUG", msg, keysAndValues...) }
func (m *MockLogger) Infow(msg string, keysAndValues ...any)  { m.log("INFO", msg, keysAndValues...) }
func (m *MockLogger) Warnw(msg string, keysAndValues ...any)  { m.log("WARN", msg, keysAndValues...) }
func (m *MockLogger) Errorw(msg string, keysAndValues ...any) { m.log("ERROR", msg, keysAndValues...) }
func (m *MockLogger) Fatalw(msg string, keysAndValues ...any) { m.log("FATAL", msg, keysAndValues...) }

func (m *MockLogger) log(level, msg string, fields ...any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := LogEntry{Level: level, Message: msg, Fields: make(map[string]any)}
	for i := 0; i < len(fields)-1; i += 2 {
		if key, ok := fields[i].(string); ok {
			entry.Fields[key] = fields[i+1]
		}
	}
	m.entries = append(m.entries, entry)
}

func (m *MockLogger) GetEntries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]LogEntry(nil), m.entries...)
}

// HasLevel reports whether any entry was logged at the level.
func (m *MockLogger) HasLevel(level string) bool {
	for _, e := range m.GetEntries() {
		if e.Level == level {
			return true
		}
	}
	return false
}
