// Package catalog provides read-only lookups of enemies, skills and traits.
//
// The storyline engine only uses the catalog to snapshot an enemy onto a
// Battle event and to show readable names; the records themselves are game
// data it never interprets. Catalogs are loaded from TOML:
//
//	[[enemies]]
//	id = "goblin"
//	name = "Goblin"
//	level = 2
//	skills = ["stab"]
//	traits = ["cowardly"]
//	[enemies.stats]
//	hp = 12
//
//	[[skills]]
//	id = "stab"
//	name = "Stab"
//	manual = "attack"
//
//	[[traits]]
//	id = "cowardly"
//	name = "Cowardly"
package catalog

import (
	stderrors "errors"
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/storyforge/pkg/errors"
	"github.com/matzehuels/storyforge/pkg/story"
)

// ErrNotFound is returned when an id is not in the catalog.
var ErrNotFound = stderrors.New("catalog entry not found")

// Manual is the skill manual a skill belongs to.
type Manual string

const (
	ManualInternal Manual = "internal"
	ManualAttack   Manual = "attack"
	ManualDefense  Manual = "defense"
)

// Entry kinds accepted by [Catalog.Name].
const (
	KindEnemy = "enemy"
	KindSkill = "skill"
	KindTrait = "trait"
)

// Enemy is an opponent a Battle event can reference.
type Enemy struct {
	ID          string         `toml:"id" json:"id"`
	Name        string         `toml:"name" json:"name"`
	Description string         `toml:"description" json:"description,omitempty"`
	Level       int            `toml:"level" json:"level,omitempty"`
	Stats       map[string]any `toml:"stats" json:"stats,omitempty"`
	Skills      []string       `toml:"skills" json:"skills,omitempty"`
	Traits      []string       `toml:"traits" json:"traits,omitempty"`
}

// Skill is an ability from one of the skill manuals.
type Skill struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Manual      Manual `toml:"manual" json:"manual"`
	Description string `toml:"description" json:"description,omitempty"`
}

// Trait is a passive characteristic.
type Trait struct {
	ID          string `toml:"id" json:"id"`
	Name        string `toml:"name" json:"name"`
	Description string `toml:"description" json:"description,omitempty"`
}

// Catalog indexes the loaded records by id.
type Catalog struct {
	enemies map[string]Enemy
	skills  map[string]Skill
	traits  map[string]Trait
}

type catalogFile struct {
	Enemies []Enemy `toml:"enemies"`
	Skills  []Skill `toml:"skills"`
	Traits  []Trait `toml:"traits"`
}

// Empty returns a catalog without entries.
func Empty() *Catalog {
	return &Catalog{
		enemies: map[string]Enemy{},
		skills:  map[string]Skill{},
		traits:  map[string]Trait{},
	}
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s not found", path)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes catalog TOML. Ids must be unique per section, skills must
// name a known manual, and enemies may only reference skills and traits
// defined in the same catalog.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode catalog")
	}

	c := Empty()
	for _, s := range f.Skills {
		if err := checkNew(KindSkill, s.ID, c.skills); err != nil {
			return nil, err
		}
		switch s.Manual {
		case ManualInternal, ManualAttack, ManualDefense:
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "skill %q: unknown manual %q", s.ID, s.Manual)
		}
		c.skills[s.ID] = s
	}
	for _, t := range f.Traits {
		if err := checkNew(KindTrait, t.ID, c.traits); err != nil {
			return nil, err
		}
		c.traits[t.ID] = t
	}
	for _, e := range f.Enemies {
		if err := checkNew(KindEnemy, e.ID, c.enemies); err != nil {
			return nil, err
		}
		for _, id := range e.Skills {
			if _, ok := c.skills[id]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "enemy %q: unknown skill %q", e.ID, id)
			}
		}
		for _, id := range e.Traits {
			if _, ok := c.traits[id]; !ok {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "enemy %q: unknown trait %q", e.ID, id)
			}
		}
		c.enemies[e.ID] = e
	}
	return c, nil
}

func checkNew[V any](kind, id string, m map[string]V) error {
	if id == "" {
		return errors.New(errors.ErrCodeInvalidFormat, "%s without id", kind)
	}
	if _, dup := m[id]; dup {
		return errors.New(errors.ErrCodeInvalidFormat, "duplicate %s id %q", kind, id)
	}
	return nil
}

// Enemy looks up an enemy.
func (c *Catalog) Enemy(id string) (Enemy, error) {
	e, ok := c.enemies[id]
	if !ok {
		return Enemy{}, missing(KindEnemy, id)
	}
	return e, nil
}

// Skill looks up a skill.
func (c *Catalog) Skill(id string) (Skill, error) {
	s, ok := c.skills[id]
	if !ok {
		return Skill{}, missing(KindSkill, id)
	}
	return s, nil
}

// Trait looks up a trait.
func (c *Catalog) Trait(id string) (Trait, error) {
	t, ok := c.traits[id]
	if !ok {
		return Trait{}, missing(KindTrait, id)
	}
	return t, nil
}

// Enemies returns all enemies ordered by id.
func (c *Catalog) Enemies() []Enemy {
	out := make([]Enemy, 0, len(c.enemies))
	for _, e := range c.enemies {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SkillsByManual returns the skills of one manual ordered by id.
func (c *Catalog) SkillsByManual(m Manual) []Skill {
	var out []Skill
	for _, s := range c.skills {
		if s.Manual == m {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EnemySnapshot returns the opaque payload stored on a Battle event: the
// enemy record with its skills and traits resolved to full records. The
// snapshot does not change when the catalog is edited later.
func (c *Catalog) EnemySnapshot(id string) (story.Payload, error) {
	e, err := c.Enemy(id)
	if err != nil {
		return nil, err
	}
	skills := make([]any, 0, len(e.Skills))
	for _, sid := range e.Skills {
		s := c.skills[sid]
		skills = append(skills, map[string]any{"id": s.ID, "name": s.Name, "manual": string(s.Manual)})
	}
	traits := make([]any, 0, len(e.Traits))
	for _, tid := range e.Traits {
		t := c.traits[tid]
		traits = append(traits, map[string]any{"id": t.ID, "name": t.Name})
	}
	snap := story.Payload{
		"id":     e.ID,
		"name":   e.Name,
		"level":  e.Level,
		"skills": skills,
		"traits": traits,
	}
	if e.Description != "" {
		snap["description"] = e.Description
	}
	if len(e.Stats) > 0 {
		snap["stats"] = map[string]any(story.ClonePayload(e.Stats))
	}
	return snap, nil
}

// Name returns the display name of an entry, or the id itself when the entry
// is unknown.
func (c *Catalog) Name(kind, id string) string {
	var name string
	switch kind {
	case KindEnemy:
		name = c.enemies[id].Name
	case KindSkill:
		name = c.skills[id].Name
	case KindTrait:
		name = c.traits[id].Name
	}
	if name == "" {
		return id
	}
	return name
}

func missing(kind, id string) error {
	return errors.Wrap(errors.ErrCodeCatalogNotFound, ErrNotFound, "%s %q not found", kind, id)
}
