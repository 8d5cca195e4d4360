// Package seed loads a catalog, plans and users from a YAML file into the stores.
package seed

import (
	"context"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"genesiscode/internal/domain/catalog"
	"genesiscode/internal/domain/subscription"
	vo "genesiscode/internal/domain/subscription/valueobjects"
	"genesiscode/internal/domain/user"
	"genesiscode/internal/shared/logger"
)

// File is the seed document.
type File struct {
	Categories []CategorySeed `yaml:"categories"`
	Plans      []PlanSeed     `yaml:"plans"`
	Users      []UserSeed     `yaml:"users"`
}

type CategorySeed struct {
	Name  string     `yaml:"name"`
	Slug  string     `yaml:"slug"`
	Paths []PathSeed `yaml:"paths"`
}

// PathSeed.Key names the path for plan references inside the same file.
type PathSeed struct {
	Key         string      `yaml:"key"`
	Title       string      `yaml:"title"`
	Description string      `yaml:"description"`
	Levels      []LevelSeed `yaml:"levels"`
}

// LevelSeed.Order defaults to the position in the list, starting at 1.
type LevelSeed struct {
	Title string `yaml:"title"`
	Order int    `yaml:"order"`
}

// PlanSeed targets a category by slug or paths by key.
type PlanSeed struct {
	Name         string   `yaml:"name"`
	Type         string   `yaml:"type"`
	Category     string   `yaml:"category"`
	Path         string   `yaml:"path"`
	AllowedPaths []string `yaml:"allowed_paths"`
	PriceCents   int64    `yaml:"price_cents"`
	Currency     string   `yaml:"currency"`
}

type UserSeed struct {
	Email string   `yaml:"email"`
	Name  string   `yaml:"name"`
	Role  string   `yaml:"role"`
	Roles []string `yaml:"roles"`
}

// Parse decodes a seed document, rejecting unknown fields.
func Parse(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if err == io.EOF {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &f, nil
}

// RoleAssigner writes the roles collection. Implemented by the casbin enforcer.
type RoleAssigner interface {
	AddRoleForUser(userID uint, role string) error
}

// Transactor runs fn in one database transaction.
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Result counts what Apply created.
type Result struct {
	Categories int
	Paths      int
	Levels     int
	Plans      int
	Users      int
}

type Seeder struct {
	tx      Transactor
	catalog catalog.Repository
	plans   subscription.PlanRepository
	users   user.Repository
	roles   RoleAssigner
	logger  logger.Interface
}

// NewSeeder creates a seeder. roles may be nil, in which case role assignments are skipped.
func NewSeeder(tx Transactor, catalogRepo catalog.Repository, planRepo subscription.PlanRepository,
	userRepo user.Repository, roles RoleAssigner, logger logger.Interface) *Seeder {
	return &Seeder{
		tx:      tx,
		catalog: catalogRepo,
		plans:   planRepo,
		users:   userRepo,
		roles:   roles,
		logger:  logger,
	}
}

// Apply writes the document. Catalog, plans and users are stored in one transaction;
// role assignments follow once it has committed.
func (s *Seeder) Apply(ctx context.Context, f *File) (*Result, error) {
	res := &Result{}
	type pendingRole struct {
		userID uint
		role   string
	}
	var roles []pendingRole

	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		*res = Result{}
		roles = roles[:0]

		categoryIDs := map[string]uint{}
		pathIDs := map[string]uint{}

		for _, cs := range f.Categories {
			c, err := catalog.NewCategory(cs.Name, cs.Slug)
			if err != nil {
				return fmt.Errorf("category %q: %w", cs.Slug, err)
			}
			if err := s.catalog.CreateCategory(ctx, c); err != nil {
				return fmt.Errorf("category %q: %w", cs.Slug, err)
			}
			categoryIDs[c.Slug()] = c.ID()
			res.Categories++

			for _, ps := range cs.Paths {
				p, err := catalog.NewPath(c.ID(), ps.Title, ps.Description)
				if err != nil {
					return fmt.Errorf("path %q: %w", ps.Title, err)
				}
				if err := s.catalog.CreatePath(ctx, p); err != nil {
					return fmt.Errorf("path %q: %w", ps.Title, err)
				}
				if ps.Key != "" {
					if _, dup := pathIDs[ps.Key]; dup {
						return fmt.Errorf("duplicate path key %q", ps.Key)
					}
					pathIDs[ps.Key] = p.ID()
				}
				res.Paths++

				for i, ls := range ps.Levels {
					order := ls.Order
					if order == 0 {
						order = i + 1
					}
					l, err := catalog.NewLevel(p.ID(), order, ls.Title)
					if err != nil {
						return fmt.Errorf("level %q of path %q: %w", ls.Title, ps.Title, err)
					}
					if err := s.catalog.CreateLevel(ctx, l); err != nil {
						return fmt.Errorf("level %q of path %q: %w", ls.Title, ps.Title, err)
					}
					res.Levels++
				}
			}
		}

		for _, ps := range f.Plans {
			p, err := s.buildPlan(ps, categoryIDs, pathIDs)
			if err != nil {
				return fmt.Errorf("plan %q: %w", ps.Name, err)
			}
			if err := s.plans.Create(ctx, p); err != nil {
				return fmt.Errorf("plan %q: %w", ps.Name, err)
			}
			res.Plans++
		}

		for _, us := range f.Users {
			u, err := user.NewUser(us.Email, us.Name)
			if err != nil {
				return fmt.Errorf("user %q: %w", us.Email, err)
			}
			u.SetLegacyRole(strings.TrimSpace(us.Role))
			if err := s.users.Create(ctx, u); err != nil {
				return fmt.Errorf("user %q: %w", us.Email, err)
			}
			for _, r := range us.Roles {
				roles = append(roles, pendingRole{userID: u.ID(), role: r})
			}
			res.Users++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, r := range roles {
		if s.roles == nil {
			s.logger.Warnw("no role store configured, skipping role assignment", "user_id", r.userID, "role", r.role)
			continue
		}
		if err := s.roles.AddRoleForUser(r.userID, r.role); err != nil {
			return res, fmt.Errorf("failed to assign role %q to user %d: %w", r.role, r.userID, err)
		}
	}

	s.logger.Infow("seed applied",
		"categories", res.Categories,
		"paths", res.Paths,
		"levels", res.Levels,
		"plans", res.Plans,
		"users", res.Users,
	)
	return res, nil
}

func (s *Seeder) buildPlan(ps PlanSeed, categoryIDs, pathIDs map[string]uint) (*subscription.Plan, error) {
	planType, err := vo.NewPlanType(ps.Type)
	if err != nil {
		return nil, err
	}

	var targetID uint
	switch {
	case ps.Category != "":
		id, ok := categoryIDs[ps.Category]
		if !ok {
			return nil, fmt.Errorf("unknown category %q", ps.Category)
		}
		targetID = id
	case ps.Path != "":
		id, ok := pathIDs[ps.Path]
		if !ok {
			return nil, fmt.Errorf("unknown path %q", ps.Path)
		}
		targetID = id
	}

	allowed := make([]uint, 0, len(ps.AllowedPaths))
	for _, key := range ps.AllowedPaths {
		id, ok := pathIDs[key]
		if !ok {
			return nil, fmt.Errorf("unknown path %q", key)
		}
		allowed = append(allowed, id)
	}

	return subscription.NewPlan(ps.Name, planType, targetID, allowed, ps.PriceCents, ps.Currency)
}
