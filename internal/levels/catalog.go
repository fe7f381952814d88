// internal/levels/catalog.go
//
// Static level catalog.
// Responsibilities:
//   - Decode level definitions from YAML (embedded by default).
//   - Reject malformed levels at load time so the validator only ever sees
//     consistent grids (start, objectives and map items inside the grid).
//   - Serve levels by id, in catalog order.

package levels

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/JoaquimColacilli/bloxmision-sub001/assets"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/blocks"
)

var ErrNotFound = errors.New("level not found")

type point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

func (p point) pos() blocks.Position { return blocks.Position{X: p.X, Y: p.Y} }

type levelDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	Grid struct {
		Rows int `yaml:"rows"`
		Cols int `yaml:"cols"`
	} `yaml:"grid"`
	Start struct {
		X      int    `yaml:"x"`
		Y      int    `yaml:"y"`
		Facing string `yaml:"facing"`
	} `yaml:"start"`
	OptimalBlocks   int      `yaml:"optimalBlocks"`
	AvailableBlocks []string `yaml:"availableBlocks"`
	Objectives      []struct {
		Type   string `yaml:"type"`
		Target *point `yaml:"target"`
		Item   string `yaml:"item"`
		Count  int    `yaml:"count"`
		ID     string `yaml:"id"`
	} `yaml:"objectives"`
	Obstacles []struct {
		point `yaml:",inline"`
		Type  string `yaml:"type"`
	} `yaml:"obstacles"`
	Collectibles []struct {
		point `yaml:",inline"`
		Type  string `yaml:"type"`
		ID    string `yaml:"id"`
	} `yaml:"collectibles"`
}

type catalogDoc struct {
	Levels []levelDoc `yaml:"levels"`
}

// Catalog is an immutable, ordered set of levels.
type Catalog struct {
	order []string
	byID  map[string]blocks.Level
}

// Default loads the catalog embedded in the binary.
func Default() (*Catalog, error) {
	raw, err := assets.Levels()
	if err != nil {
		return nil, fmt.Errorf("levels: read embedded catalog: %w", err)
	}
	return Parse(raw)
}

// Parse decodes and validates a YAML catalog.
func Parse(raw []byte) (*Catalog, error) {
	var doc catalogDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("levels: decode: %w", err)
	}
	c := &Catalog{byID: make(map[string]blocks.Level, len(doc.Levels))}
	for i, d := range doc.Levels {
		lvl := d.toLevel()
		if err := check(lvl); err != nil {
			return nil, fmt.Errorf("levels: entry %d (%q): %w", i, d.ID, err)
		}
		if _, dup := c.byID[lvl.ID]; dup {
			return nil, fmt.Errorf("levels: duplicate id %q", lvl.ID)
		}
		c.byID[lvl.ID] = lvl
		c.order = append(c.order, lvl.ID)
	}
	return c, nil
}

func (d levelDoc) toLevel() blocks.Level {
	lvl := blocks.Level{
		ID:   d.ID,
		Name: d.Name,
		Rows: d.Grid.Rows,
		Cols: d.Grid.Cols,
		Start: blocks.StartPosition{
			X:      d.Start.X,
			Y:      d.Start.Y,
			Facing: blocks.Facing(d.Start.Facing),
		},
		OptimalBlockCount: d.OptimalBlocks,
		Objectives:        []blocks.Objective{},
		Obstacles:         []blocks.Obstacle{},
		Collectibles:      []blocks.Collectible{},
		AvailableBlocks:   []blocks.BlockType{},
	}
	for _, o := range d.Objectives {
		obj := blocks.Objective{Type: blocks.ObjectiveType(o.Type), Item: o.Item, Count: o.Count, ID: o.ID}
		if o.Target != nil {
			p := o.Target.pos()
			obj.Target = &p
		}
		lvl.Objectives = append(lvl.Objectives, obj)
	}
	for _, o := range d.Obstacles {
		lvl.Obstacles = append(lvl.Obstacles, blocks.Obstacle{Position: o.pos(), Type: o.Type})
	}
	for _, c := range d.Collectibles {
		lvl.Collectibles = append(lvl.Collectibles, blocks.Collectible{Position: c.pos(), Type: c.Type, ID: c.ID})
	}
	for _, b := range d.AvailableBlocks {
		lvl.AvailableBlocks = append(lvl.AvailableBlocks, blocks.BlockType(b))
	}
	return lvl
}

// check enforces the structural rules a level must satisfy.
func check(l blocks.Level) error {
	if l.ID == "" {
		return errors.New("missing id")
	}
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("grid %dx%d must be positive", l.Rows, l.Cols)
	}
	start := blocks.Position{X: l.Start.X, Y: l.Start.Y}
	if !l.InBounds(start) {
		return fmt.Errorf("start (%d,%d) outside grid", start.X, start.Y)
	}
	if !l.Start.Facing.Valid() {
		return fmt.Errorf("unknown facing %q", l.Start.Facing)
	}
	if l.ObstacleAt(start) {
		return errors.New("start cell is blocked")
	}
	for i, o := range l.Objectives {
		if o.Target != nil && !l.InBounds(*o.Target) {
			return fmt.Errorf("objective %d target outside grid", i)
		}
		if o.Type == blocks.ObjectiveReach && o.Target == nil {
			return fmt.Errorf("objective %d: reach needs a target", i)
		}
	}
	for i, o := range l.Obstacles {
		if !l.InBounds(o.Position) {
			return fmt.Errorf("obstacle %d outside grid", i)
		}
	}
	for i, c := range l.Collectibles {
		if !l.InBounds(c.Position) {
			return fmt.Errorf("collectible %d outside grid", i)
		}
	}
	if l.OptimalBlockCount < 0 {
		return errors.New("optimalBlocks must not be negative")
	}
	return nil
}

// Get returns the level with the given id.
func (c *Catalog) Get(id string) (blocks.Level, error) {
	lvl, ok := c.byID[id]
	if !ok {
		return blocks.Level{}, ErrNotFound
	}
	return lvl, nil
}

// List returns all levels in catalog order.
func (c *Catalog) List() []blocks.Level {
	out := make([]blocks.Level, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.byID[id])
	}
	return out
}

// Len reports how many levels are loaded.
func (c *Catalog) Len() int { return len(c.order) }
