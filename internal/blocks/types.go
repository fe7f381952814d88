// internal/blocks/types.go
//
// Core type definitions for the block-program validator.
// Defines:
//   - Level: immutable grid-world definition (size, start, objectives, map items).
//   - Block: one node of a player-authored program tree.
//   - GameState: the agent's mutable state during a single validation run.
//   - ValidationResult: what Validate reports back to callers.

package blocks

// Facing is the agent's cardinal orientation.
type Facing string

const (
	North Facing = "north"
	East  Facing = "east"
	South Facing = "south"
	West  Facing = "west"
)

// facingOrder is the cycle used by turn blocks: right = +1, left = -1.
var facingOrder = [4]Facing{North, East, South, West}

// Valid reports whether f is one of the four cardinal directions.
func (f Facing) Valid() bool {
	_, ok := f.index()
	return ok
}

func (f Facing) index() (int, bool) {
	for i, d := range facingOrder {
		if d == f {
			return i, true
		}
	}
	return 0, false
}

// delta returns the unit step for f. North is towards y = 0.
func (f Facing) delta() Position {
	switch f {
	case North:
		return Position{X: 0, Y: -1}
	case East:
		return Position{X: 1, Y: 0}
	case South:
		return Position{X: 0, Y: 1}
	case West:
		return Position{X: -1, Y: 0}
	}
	return Position{}
}

// Position is a grid cell; X is the column, Y the row.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// StartPosition is where the agent is placed when a run begins.
type StartPosition struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Facing Facing `json:"facing"`
}

// ObjectiveType discriminates Objective.
type ObjectiveType string

const (
	ObjectiveReach      ObjectiveType = "reach"
	ObjectiveCollect    ObjectiveType = "collect"
	ObjectiveCollectAll ObjectiveType = "collectAll"
	ObjectiveActivate   ObjectiveType = "activate"
)

// Objective is a goal condition of a level.
//
// reach uses Target. collect uses Item, Count, and optionally Target and ID;
// ID is what gets recorded in GameState.ObjectivesCompleted.
// collectAll and activate are accepted in level data but never satisfied.
type Objective struct {
	Type   ObjectiveType `json:"type"`
	Target *Position     `json:"target,omitempty"`
	Item   string        `json:"item,omitempty"`
	Count  int           `json:"count,omitempty"`
	ID     string        `json:"id,omitempty"`
}

// Obstacle blocks movement into its cell.
type Obstacle struct {
	Position Position `json:"position"`
	Type     string   `json:"type"`
}

// Collectible is an item lying on the map.
type Collectible struct {
	Position Position `json:"position"`
	Type     string   `json:"type"`
	ID       string   `json:"id,omitempty"`
}

// Item identifiers pushed into the inventory.
const (
	ItemChest = "chest"
	ItemCoin  = "coin"
)

// Level is an immutable level definition.
type Level struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Rows              int           `json:"rows"`
	Cols              int           `json:"cols"`
	Start             StartPosition `json:"startPosition"`
	Objectives        []Objective   `json:"objectives"`
	Obstacles         []Obstacle    `json:"obstacles"`
	Collectibles      []Collectible `json:"collectibles"`
	OptimalBlockCount int           `json:"optimalBlockCount"`
	AvailableBlocks   []BlockType   `json:"availableBlocks"`
}

// InBounds reports whether p lies inside [0, Cols) x [0, Rows).
func (l Level) InBounds(p Position) bool {
	return p.X >= 0 && p.X < l.Cols && p.Y >= 0 && p.Y < l.Rows
}

// ObstacleAt reports whether an obstacle occupies p.
func (l Level) ObstacleAt(p Position) bool {
	for _, o := range l.Obstacles {
		if o.Position == p {
			return true
		}
	}
	return false
}

// Allows reports whether t is in the level's block palette.
func (l Level) Allows(t BlockType) bool {
	for _, a := range l.AvailableBlocks {
		if a == t {
			return true
		}
	}
	return false
}

// BlockType discriminates Block.
type BlockType string

const (
	BlockMove        BlockType = "move"
	BlockTurnRight   BlockType = "turnRight"
	BlockTurnLeft    BlockType = "turnLeft"
	BlockOpenChest   BlockType = "openChest"
	BlockCollectCoin BlockType = "collectCoin"
	BlockLoop        BlockType = "loop"
	BlockConditional BlockType = "conditional"
)

// Block is one node of a program tree. Steps is used by move (negative
// values are accepted), Count and Children by loop.
type Block struct {
	Type     BlockType `json:"type"`
	Steps    int       `json:"steps,omitempty"`
	Count    int       `json:"count,omitempty"`
	Children []Block   `json:"blocks,omitempty"`
}

// CountBlocks returns the total number of nodes in a program tree.
func CountBlocks(program []Block) int {
	n := 0
	for _, b := range program {
		n++
		n += CountBlocks(b.Children)
	}
	return n
}

// GameState is the agent's state during one validation run.
type GameState struct {
	Position            Position `json:"position"`
	Facing              Facing   `json:"facing"`
	Inventory           []string `json:"inventory"`
	ObjectivesCompleted []string `json:"objectivesCompleted"`
}

// clone returns a deep copy so callers never alias validator internals.
func (s GameState) clone() GameState {
	out := s
	out.Inventory = append([]string{}, s.Inventory...)
	out.ObjectivesCompleted = append([]string{}, s.ObjectivesCompleted...)
	return out
}

func (s GameState) completed(id string) bool {
	for _, c := range s.ObjectivesCompleted {
		if c == id {
			return true
		}
	}
	return false
}

// ValidationResult is returned by Validator.Validate.
type ValidationResult struct {
	Success       bool            `json:"success"`
	FinalState    GameState       `json:"finalState"`
	ObjectivesMet bool            `json:"objectivesMet"`
	IsOptimal     bool            `json:"isOptimal"`
	Error         *ExecutionError `json:"error,omitempty"`
}
