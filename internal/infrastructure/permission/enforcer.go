package permission

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/constants"
	"genesiscode/internal/shared/logger"
)

// defaultModel is RBAC with key-matched resources: g binds users to roles, p grants
// a role an action on a resource pattern.
const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && (r.act == p.act || p.act == "*")
`

// AdminResource covers every admin route.
const AdminResource = "/api/admin/*"

var _ user.RoleSource = (*Enforcer)(nil)

// Enforcer is the roles collection. Role assignments live in casbin grouping policies
// persisted through the gorm adapter.
type Enforcer struct {
	enforcer *casbin.Enforcer
	mu       sync.RWMutex
	logger   logger.Interface
}

// NewEnforcer loads policies from db. modelPath is optional; the built-in RBAC model is
// used when empty.
func NewEnforcer(db *gorm.DB, modelPath string, log logger.Interface) (*Enforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin adapter: %w", err)
	}

	var m model.Model
	if modelPath != "" {
		m, err = model.NewModelFromFile(modelPath)
	} else {
		m, err = model.NewModelFromString(defaultModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("failed to load policy: %w", err)
	}

	return &Enforcer{
		enforcer: enforcer,
		logger:   log,
	}, nil
}

func subject(userID uint) string {
	return strconv.FormatUint(uint64(userID), 10)
}

// EnsureDefaultPolicies grants the admin role every admin route. Safe to call on each start.
func (e *Enforcer) EnsureDefaultPolicies() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddPolicy(constants.RoleAdmin, AdminResource, "*"); err != nil {
		return fmt.Errorf("failed to add admin policy: %w", err)
	}
	return nil
}

// Enforce reports whether the user's roles allow action on resource.
func (e *Enforcer) Enforce(userID uint, resource, action string) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	allowed, err := e.enforcer.Enforce(subject(userID), resource, action)
	if err != nil {
		e.logger.Errorw("permission check failed", "error", err, "user_id", userID, "resource", resource, "action", action)
		return false, fmt.Errorf("permission check failed: %w", err)
	}
	return allowed, nil
}

func (e *Enforcer) AddRoleForUser(userID uint, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.AddRoleForUser(subject(userID), role); err != nil {
		e.logger.Errorw("failed to add role for user", "error", err, "user_id", userID, "role", role)
		return fmt.Errorf("failed to add role for user: %w", err)
	}
	return nil
}

func (e *Enforcer) DeleteRoleForUser(userID uint, role string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.enforcer.DeleteRoleForUser(subject(userID), role); err != nil {
		e.logger.Errorw("failed to delete role for user", "error", err, "user_id", userID, "role", role)
		return fmt.Errorf("failed to delete role for user: %w", err)
	}
	return nil
}

// GetRolesForUser returns the roles collection of a user; empty when none are assigned.
func (e *Enforcer) GetRolesForUser(userID uint) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	roles, err := e.enforcer.GetRolesForUser(subject(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get roles for user: %w", err)
	}
	return roles, nil
}

func (e *Enforcer) LoadPolicy() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("failed to reload policy: %w", err)
	}

	e.logger.Infow("policy reloaded successfully")
	return nil
}
