// internal/blocks/validator.go
//
// Block-program interpreter for a single level.
// Responsibilities:
//   - Replay a program tree against the level's grid world.
//   - Enforce bounds and obstacles on every single-cell step.
//   - Bound total work with a shared dispatch budget (MaxSteps).
//   - Check objectives and the optimality flag once the program finishes.
//
// Notes:
//   - A Validator is single use: build a new one per submitted program.
//   - Nothing here performs I/O or logs; callers decide what to record.
package blocks

import "fmt"

// MaxSteps is the dispatch budget of one run. Every block dispatch counts,
// including each dispatch inside every loop iteration.
const MaxSteps = 1000

// execContext is the mutable state threaded through the interpreter.
type execContext struct {
	state GameState
	steps int
}

// Validator runs one program against one level.
type Validator struct {
	level Level
	ec    execContext
}

// NewValidator places the agent at the level's start position.
func NewValidator(level Level) *Validator {
	return &Validator{
		level: level,
		ec: execContext{
			state: GameState{
				Position:            Position{X: level.Start.X, Y: level.Start.Y},
				Facing:              level.Start.Facing,
				Inventory:           []string{},
				ObjectivesCompleted: []string{},
			},
		},
	}
}

// Validate executes program and reports the outcome. It never panics;
// execution failures come back in ValidationResult.Error.
func (v *Validator) Validate(program []Block) (res ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			e := newExecError(KindInvalidAction, -1)
			e.Message = fmt.Sprintf("%s (%v)", e.Message, r)
			res = ValidationResult{FinalState: v.ec.state.clone(), Error: e}
		}
	}()

	if err := v.run(&v.ec, program); err != nil {
		return ValidationResult{FinalState: v.ec.state.clone(), Error: err}
	}

	met := v.objectivesMet(v.ec.state)
	return ValidationResult{
		Success:       met,
		FinalState:    v.ec.state.clone(),
		ObjectivesMet: met,
		IsOptimal:     len(program) == v.level.OptimalBlockCount,
	}
}

// run executes list in order; the first error aborts the whole run.
func (v *Validator) run(ec *execContext, list []Block) *ExecutionError {
	for i, b := range list {
		ec.steps++
		if ec.steps > MaxSteps {
			return newExecError(KindInfiniteLoop, i)
		}
		if err := v.dispatch(ec, b, i); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) dispatch(ec *execContext, b Block, index int) *ExecutionError {
	switch b.Type {
	case BlockMove:
		return v.move(ec, b.Steps, index)
	case BlockTurnRight:
		return turn(ec, 1, index)
	case BlockTurnLeft:
		return turn(ec, -1, index)
	case BlockOpenChest:
		return v.openChest(ec, index)
	case BlockCollectCoin:
		return v.collectCoin(ec, index)
	case BlockLoop:
		if len(b.Children) == 0 {
			return nil
		}
		for n := 0; n < b.Count; n++ {
			if err := v.run(ec, b.Children); err != nil {
				return err
			}
		}
		return nil
	default:
		// conditional has no interpreter support yet.
		return newExecError(KindInvalidAction, index)
	}
}

// move advances |steps| cells along the current facing. Each cell is
// checked before it is entered; cells already entered are kept on failure.
func (v *Validator) move(ec *execContext, steps, index int) *ExecutionError {
	if !ec.state.Facing.Valid() {
		return newExecError(KindInvalidAction, index)
	}
	if steps < 0 {
		steps = -steps
	}
	d := ec.state.Facing.delta()
	for s := 0; s < steps; s++ {
		next := Position{X: ec.state.Position.X + d.X, Y: ec.state.Position.Y + d.Y}
		if !v.level.InBounds(next) {
			return newExecError(KindOutOfBounds, index)
		}
		if v.level.ObstacleAt(next) {
			return newExecError(KindCollision, index)
		}
		ec.state.Position = next
	}
	return nil
}

func turn(ec *execContext, dir, index int) *ExecutionError {
	i, ok := ec.state.Facing.index()
	if !ok {
		return newExecError(KindInvalidAction, index)
	}
	ec.state.Facing = facingOrder[(i+dir+len(facingOrder))%len(facingOrder)]
	return nil
}

// openChest satisfies the first chest objective targeting the current cell.
// Reopening pushes another chest into the inventory but records the
// objective id only once.
func (v *Validator) openChest(ec *execContext, index int) *ExecutionError {
	for _, o := range v.level.Objectives {
		if o.Type != ObjectiveCollect || o.Item != ItemChest || o.Target == nil {
			continue
		}
		if *o.Target != ec.state.Position {
			continue
		}
		ec.state.Inventory = append(ec.state.Inventory, ItemChest)
		if !ec.state.completed(o.ID) {
			ec.state.ObjectivesCompleted = append(ec.state.ObjectivesCompleted, o.ID)
		}
		return nil
	}
	return newExecError(KindInvalidAction, index)
}

// collectCoin only touches the inventory; coins are never removed from the
// map and never complete an objective.
func (v *Validator) collectCoin(ec *execContext, index int) *ExecutionError {
	for _, c := range v.level.Collectibles {
		if c.Type == ItemCoin && c.Position == ec.state.Position {
			ec.state.Inventory = append(ec.state.Inventory, ItemCoin)
			return nil
		}
	}
	return newExecError(KindInvalidAction, index)
}

// objectivesMet requires every objective to hold. collectAll and activate
// have no satisfaction rule and always fail.
func (v *Validator) objectivesMet(s GameState) bool {
	for _, o := range v.level.Objectives {
		switch o.Type {
		case ObjectiveReach:
			if o.Target == nil || *o.Target != s.Position {
				return false
			}
		case ObjectiveCollect:
			if !s.completed(o.ID) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// CheckAvailable returns an *UnavailableBlockError for the first top-level
// block whose tree uses a type outside the level's palette. Levels with an
// empty palette accept everything.
func CheckAvailable(level Level, program []Block) error {
	if len(level.AvailableBlocks) == 0 {
		return nil
	}
	for i, b := range program {
		if t, ok := firstUnavailable(level, b); !ok {
			return &UnavailableBlockError{Index: i, Type: t}
		}
	}
	return nil
}

func firstUnavailable(level Level, b Block) (BlockType, bool) {
	if !level.Allows(b.Type) {
		return b.Type, false
	}
	for _, c := range b.Children {
		if t, ok := firstUnavailable(level, c); !ok {
			return t, false
		}
	}
	return "", true
}
