package blocks

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pos(x, y int) *Position { return &Position{X: x, Y: y} }

// openField is a 5x5 level starting at the top-left corner facing east.
func openField() Level {
	return Level{
		ID:                "test",
		Rows:              5,
		Cols:              5,
		Start:             StartPosition{X: 0, Y: 0, Facing: East},
		OptimalBlockCount: 1,
	}
}

func move(n int) Block { return Block{Type: BlockMove, Steps: n} }

func loop(n int, children ...Block) Block {
	return Block{Type: BlockLoop, Count: n, Children: children}
}

var (
	right = Block{Type: BlockTurnRight}
	left  = Block{Type: BlockTurnLeft}
)

func TestValidate_ReachObjective(t *testing.T) {
	lvl := openField()
	lvl.Objectives = []Objective{{Type: ObjectiveReach, Target: pos(2, 0)}}

	res := NewValidator(lvl).Validate([]Block{move(2)})

	require.Nil(t, res.Error)
	assert.True(t, res.Success)
	assert.True(t, res.ObjectivesMet)
	assert.True(t, res.IsOptimal)
	assert.Equal(t, Position{X: 2, Y: 0}, res.FinalState.Position)
	assert.Equal(t, East, res.FinalState.Facing)
}

func TestValidate_ReachObjectiveMissed(t *testing.T) {
	lvl := openField()
	lvl.Objectives = []Objective{{Type: ObjectiveReach, Target: pos(3, 0)}}

	res := NewValidator(lvl).Validate([]Block{move(2)})

	require.Nil(t, res.Error)
	assert.False(t, res.Success)
	assert.False(t, res.ObjectivesMet)
}

func TestValidate_OutOfBoundsKeepsPartialProgress(t *testing.T) {
	lvl := openField()

	res := NewValidator(lvl).Validate([]Block{right, move(10)})

	require.NotNil(t, res.Error)
	assert.Equal(t, KindOutOfBounds, res.Error.Kind)
	assert.Equal(t, 1, res.Error.BlockIndex)
	assert.NotEmpty(t, res.Error.Message)
	assert.True(t, errors.Is(res.Error, ErrOutOfBounds))
	assert.False(t, res.Success)
	assert.Equal(t, Position{X: 0, Y: 4}, res.FinalState.Position)
	assert.Equal(t, South, res.FinalState.Facing)
}

func TestValidate_CollisionStopsBeforeObstacle(t *testing.T) {
	lvl := openField()
	lvl.Obstacles = []Obstacle{{Position: Position{X: 2, Y: 0}, Type: "rock"}}

	res := NewValidator(lvl).Validate([]Block{move(3)})

	require.NotNil(t, res.Error)
	assert.Equal(t, KindCollision, res.Error.Kind)
	assert.Equal(t, 0, res.Error.BlockIndex)
	assert.True(t, errors.Is(res.Error, ErrCollision))
	assert.Equal(t, Position{X: 1, Y: 0}, res.FinalState.Position)
}

func TestValidate_LoopMatchesUnrolledProgram(t *testing.T) {
	lvl := openField()

	looped := NewValidator(lvl).Validate([]Block{loop(3, move(1))})
	unrolled := NewValidator(lvl).Validate([]Block{move(1), move(1), move(1)})

	require.Nil(t, looped.Error)
	require.Nil(t, unrolled.Error)
	assert.Equal(t, unrolled.FinalState, looped.FinalState)
	assert.Equal(t, Position{X: 3, Y: 0}, looped.FinalState.Position)
}

func TestValidate_StepBudget(t *testing.T) {
	lvl := openField()

	t.Run("exact budget passes", func(t *testing.T) {
		program := make([]Block, MaxSteps)
		for i := range program {
			program[i] = right
		}
		res := NewValidator(lvl).Validate(program)
		assert.Nil(t, res.Error)
	})

	t.Run("one over trips at the extra block", func(t *testing.T) {
		program := make([]Block, MaxSteps+1)
		for i := range program {
			program[i] = right
		}
		res := NewValidator(lvl).Validate(program)
		require.NotNil(t, res.Error)
		assert.Equal(t, KindInfiniteLoop, res.Error.Kind)
		assert.Equal(t, MaxSteps, res.Error.BlockIndex)
	})

	t.Run("loop iterations count", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{loop(2000, right)})
		require.NotNil(t, res.Error)
		assert.Equal(t, KindInfiniteLoop, res.Error.Kind)
		assert.Equal(t, 0, res.Error.BlockIndex)
		assert.True(t, errors.Is(res.Error, ErrInfiniteLoop))
	})

	t.Run("nested loops share the budget", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{loop(50, loop(50, right, left))})
		require.NotNil(t, res.Error)
		assert.Equal(t, KindInfiniteLoop, res.Error.Kind)
	})

	t.Run("obstacle-free path still trips", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{loop(600, right, left)})
		require.NotNil(t, res.Error)
		assert.Equal(t, KindInfiniteLoop, res.Error.Kind)
	})
}

func TestValidate_Optimality(t *testing.T) {
	lvl := openField()
	lvl.OptimalBlockCount = 2
	lvl.Objectives = []Objective{{Type: ObjectiveReach, Target: pos(2, 0)}}

	tests := []struct {
		name    string
		program []Block
		optimal bool
	}{
		{"exact count", []Block{move(1), move(1)}, true},
		{"one fewer", []Block{move(2)}, false},
		{"one more", []Block{move(1), move(1), right}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewValidator(lvl).Validate(tt.program)
			require.Nil(t, res.Error)
			if tt.name == "one more" {
				assert.Equal(t, South, res.FinalState.Facing)
			}
			assert.True(t, res.ObjectivesMet)
			assert.Equal(t, tt.optimal, res.IsOptimal)
		})
	}
}

func TestValidate_NoObjectivesAlwaysMet(t *testing.T) {
	lvl := openField()
	for _, program := range [][]Block{
		{},
		{move(1)},
		{right, move(3), left},
	} {
		res := NewValidator(lvl).Validate(program)
		require.Nil(t, res.Error)
		assert.True(t, res.ObjectivesMet)
		assert.True(t, res.Success)
	}
}

func TestValidate_Turns(t *testing.T) {
	lvl := openField()
	lvl.Start.Facing = North

	res := NewValidator(lvl).Validate([]Block{left})
	assert.Equal(t, West, res.FinalState.Facing)

	res = NewValidator(lvl).Validate([]Block{right, right, right, right})
	assert.Equal(t, North, res.FinalState.Facing)

	res = NewValidator(lvl).Validate([]Block{right, right})
	assert.Equal(t, South, res.FinalState.Facing)
}

func TestValidate_OpenChest(t *testing.T) {
	lvl := openField()
	lvl.Objectives = []Objective{{Type: ObjectiveCollect, Item: ItemChest, Count: 1, Target: pos(2, 0), ID: "chest-1"}}

	t.Run("at chest", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{move(2), {Type: BlockOpenChest}})
		require.Nil(t, res.Error)
		assert.True(t, res.Success)
		assert.Equal(t, []string{ItemChest}, res.FinalState.Inventory)
		assert.Equal(t, []string{"chest-1"}, res.FinalState.ObjectivesCompleted)
	})

	t.Run("reopening records the objective once", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{move(2), {Type: BlockOpenChest}, {Type: BlockOpenChest}})
		require.Nil(t, res.Error)
		assert.Equal(t, []string{ItemChest, ItemChest}, res.FinalState.Inventory)
		assert.Equal(t, []string{"chest-1"}, res.FinalState.ObjectivesCompleted)
	})

	t.Run("away from chest", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{move(1), {Type: BlockOpenChest}})
		require.NotNil(t, res.Error)
		assert.Equal(t, KindInvalidAction, res.Error.Kind)
		assert.Equal(t, 1, res.Error.BlockIndex)
		assert.Empty(t, res.FinalState.Inventory)
	})

	t.Run("objective unmet without opening", func(t *testing.T) {
		res := NewValidator(lvl).Validate([]Block{move(2)})
		require.Nil(t, res.Error)
		assert.False(t, res.ObjectivesMet)
	})
}

func TestValidate_CollectCoinOnlyTouchesInventory(t *testing.T) {
	lvl := openField()
	lvl.Collectibles = []Collectible{{Position: Position{X: 1, Y: 0}, Type: ItemCoin, ID: "c1"}}
	lvl.Objectives = []Objective{{Type: ObjectiveCollect, Item: ItemCoin, Count: 1, ID: "coins"}}

	res := NewValidator(lvl).Validate([]Block{move(1), {Type: BlockCollectCoin}, {Type: BlockCollectCoin}})
	require.Nil(t, res.Error)
	assert.Equal(t, []string{ItemCoin, ItemCoin}, res.FinalState.Inventory)
	assert.Empty(t, res.FinalState.ObjectivesCompleted)
	assert.False(t, res.ObjectivesMet)

	res = NewValidator(lvl).Validate([]Block{{Type: BlockCollectCoin}})
	require.NotNil(t, res.Error)
	assert.Equal(t, KindInvalidAction, res.Error.Kind)
	assert.Equal(t, 0, res.Error.BlockIndex)
}

func TestValidate_UnsupportedBlocks(t *testing.T) {
	lvl := openField()
	for _, bt := range []BlockType{BlockConditional, "jump", ""} {
		res := NewValidator(lvl).Validate([]Block{move(1), {Type: bt}})
		require.NotNil(t, res.Error, "type %q", bt)
		assert.Equal(t, KindInvalidAction, res.Error.Kind)
		assert.Equal(t, 1, res.Error.BlockIndex)
		assert.True(t, errors.Is(res.Error, ErrInvalidAction))
	}
}

func TestValidate_UnsatisfiableObjectiveTypes(t *testing.T) {
	for _, ot := range []ObjectiveType{ObjectiveCollectAll, ObjectiveActivate} {
		lvl := openField()
		lvl.Objectives = []Objective{{Type: ot, Item: ItemCoin}}
		res := NewValidator(lvl).Validate([]Block{move(1)})
		require.Nil(t, res.Error)
		assert.False(t, res.ObjectivesMet, "type %s", ot)
		assert.False(t, res.Success)
	}
}

func TestValidate_NestedErrorIndexIsLocalToLoopBody(t *testing.T) {
	lvl := openField()

	res := NewValidator(lvl).Validate([]Block{move(1), loop(2, left, move(5))})

	require.NotNil(t, res.Error)
	assert.Equal(t, KindOutOfBounds, res.Error.Kind)
	assert.Equal(t, 1, res.Error.BlockIndex)
	assert.Equal(t, Position{X: 1, Y: 0}, res.FinalState.Position)
	assert.Equal(t, North, res.FinalState.Facing)
}

func TestValidate_NegativeStepsAdvanceAlongFacing(t *testing.T) {
	res := NewValidator(openField()).Validate([]Block{move(-2)})

	require.Nil(t, res.Error)
	assert.Equal(t, Position{X: 2, Y: 0}, res.FinalState.Position)
}

func TestValidate_EmptyAndZeroCountLoops(t *testing.T) {
	res := NewValidator(openField()).Validate([]Block{loop(1 << 30), loop(0, move(1)), loop(-3, move(1))})

	require.Nil(t, res.Error)
	assert.Equal(t, Position{X: 0, Y: 0}, res.FinalState.Position)
}

func TestValidate_FinalStateIsACopy(t *testing.T) {
	lvl := openField()
	lvl.Collectibles = []Collectible{{Position: Position{X: 0, Y: 0}, Type: ItemCoin}}
	v := NewValidator(lvl)

	res := v.Validate([]Block{{Type: BlockCollectCoin}})
	res.FinalState.Inventory[0] = "tampered"

	assert.Equal(t, []string{ItemCoin}, v.ec.state.Inventory)
}

func TestCheckAvailable(t *testing.T) {
	lvl := openField()
	lvl.AvailableBlocks = []BlockType{BlockMove, BlockLoop}

	assert.NoError(t, CheckAvailable(lvl, []Block{move(1), loop(2, move(1))}))

	err := CheckAvailable(lvl, []Block{move(1), loop(2, move(1), right)})
	var ue *UnavailableBlockError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, 1, ue.Index)
	assert.Equal(t, BlockTurnRight, ue.Type)

	lvl.AvailableBlocks = nil
	assert.NoError(t, CheckAvailable(lvl, []Block{right}))
}

func TestCountBlocks(t *testing.T) {
	assert.Equal(t, 0, CountBlocks(nil))
	assert.Equal(t, 5, CountBlocks([]Block{move(1), loop(2, right, loop(3, move(1)))}))
}
