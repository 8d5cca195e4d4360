// Package catalog holds the learning content structure that access rules are evaluated
// against: categories group paths, and paths are ordered sequences of levels.
package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Category groups paths; it is the unit of bulk purchases and category-scoped plans.
type Category struct {
	id        uint
	name      string
	slug      string
	createdAt time.Time
}

func NewCategory(name, slug string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	}
	return &Category{name: name, slug: slug, createdAt: time.Now().UTC()}, nil
}

func ReconstructCategory(id uint, name, slug string, createdAt time.Time) (*Category, error) {
	if id == 0 {
		return nil, fmt.Errorf("category ID cannot be zero")
	}
	return &Category{id: id, name: name, slug: slug, createdAt: createdAt}, nil
}

func (c *Category) ID() uint             { return c.id }
func (c *Category) Name() string         { return c.name }
func (c *Category) Slug() string         { return c.slug }
func (c *Category) CreatedAt() time.Time { return c.createdAt }

// SetID sets the category ID (only for persistence layer use)
func (c *Category) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("category ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("category ID cannot be zero")
	}
	c.id = id
	return nil
}

// Path is a learning track inside a category. Levels are carried in the order the
// repository loaded them; use FirstLevel/PreviousLevel for sequence semantics.
type Path struct {
	id          uint
	categoryID  uint
	title       string
	description string
	levels      []*Level
	createdAt   time.Time
}

func NewPath(categoryID uint, title, description string) (*Path, error) {
	if categoryID == 0 {
		return nil, fmt.Errorf("category ID is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("path title is required")
	}
	return &Path{
		categoryID:  categoryID,
		title:       title,
		description: description,
		createdAt:   time.Now().UTC(),
	}, nil
}

func ReconstructPath(id, categoryID uint, title, description string, levels []*Level, createdAt time.Time) (*Path, error) {
	if id == 0 {
		return nil, fmt.Errorf("path ID cannot be zero")
	}
	if categoryID == 0 {
		return nil, fmt.Errorf("category ID is required")
	}
	kept := make([]*Level, 0, len(levels))
	for _, l := range levels {
		if l == nil {
			continue
		}
		if l.pathID != id {
			return nil, fmt.Errorf("level %d belongs to path %d, not %d", l.id, l.pathID, id)
		}
		kept = append(kept, l)
	}
	return &Path{
		id:          id,
		categoryID:  categoryID,
		title:       title,
		description: description,
		levels:      kept,
		createdAt:   createdAt,
	}, nil
}

func (p *Path) ID() uint             { return p.id }
func (p *Path) CategoryID() uint     { return p.categoryID }
func (p *Path) Title() string        { return p.title }
func (p *Path) Description() string  { return p.description }
func (p *Path) CreatedAt() time.Time { return p.createdAt }

// Levels returns a copy of the path's levels.
func (p *Path) Levels() []*Level {
	out := make([]*Level, len(p.levels))
	copy(out, p.levels)
	return out
}

// Level looks up one of the path's levels by ID.
func (p *Path) Level(levelID uint) (*Level, bool) {
	for _, l := range p.levels {
		if l.id == levelID {
			return l, true
		}
	}
	return nil, false
}

// SetID sets the path ID (only for persistence layer use)
func (p *Path) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("path ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("path ID cannot be zero")
	}
	p.id = id
	return nil
}

// Level is a single lesson inside a path, positioned by order.
type Level struct {
	id        uint
	pathID    uint
	order     int
	title     string
	createdAt time.Time
}

func NewLevel(pathID uint, order int, title string) (*Level, error) {
	if pathID == 0 {
		return nil, fmt.Errorf("path ID is required")
	}
	if order < 0 {
		return nil, fmt.Errorf("level order cannot be negative: %d", order)
	}
	return &Level{pathID: pathID, order: order, title: strings.TrimSpace(title), createdAt: time.Now().UTC()}, nil
}

func ReconstructLevel(id, pathID uint, order int, title string, createdAt time.Time) (*Level, error) {
	if id == 0 {
		return nil, fmt.Errorf("level ID cannot be zero")
	}
	if pathID == 0 {
		return nil, fmt.Errorf("path ID is required")
	}
	return &Level{id: id, pathID: pathID, order: order, title: title, createdAt: createdAt}, nil
}

func (l *Level) ID() uint             { return l.id }
func (l *Level) PathID() uint         { return l.pathID }
func (l *Level) Order() int           { return l.order }
func (l *Level) Title() string        { return l.title }
func (l *Level) CreatedAt() time.Time { return l.createdAt }

// SetID sets the level ID (only for persistence layer use)
func (l *Level) SetID(id uint) error {
	if l.id != 0 {
		return fmt.Errorf("level ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("level ID cannot be zero")
	}
	l.id = id
	return nil
}
