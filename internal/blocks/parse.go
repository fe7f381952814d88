package blocks

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireBlock is the block shape sent by the block-palette UI.
type wireBlock struct {
	Type   string `json:"type"`
	Params struct {
		Steps  *int        `json:"steps"`
		Count  *int        `json:"count"`
		Times  *int        `json:"times"`
		Blocks []wireBlock `json:"blocks"`
	} `json:"params"`
}

// aliases maps UI block identifiers onto validator block types.
var aliases = map[string]BlockType{
	"move":           BlockMove,
	"moveforward":    BlockMove,
	"move_forward":   BlockMove,
	"avanzar":        BlockMove,
	"turnright":      BlockTurnRight,
	"turn_right":     BlockTurnRight,
	"girarderecha":   BlockTurnRight,
	"turnleft":       BlockTurnLeft,
	"turn_left":      BlockTurnLeft,
	"girarizquierda": BlockTurnLeft,
	"openchest":      BlockOpenChest,
	"open_chest":     BlockOpenChest,
	"abrircofre":     BlockOpenChest,
	"collectcoin":    BlockCollectCoin,
	"collect_coin":   BlockCollectCoin,
	"recogermoneda":  BlockCollectCoin,
	"loop":           BlockLoop,
	"repeat":         BlockLoop,
	"repetir":        BlockLoop,
	"conditional":    BlockConditional,
	"if":             BlockConditional,
	"si":             BlockConditional,
}

var backwardAliases = map[string]bool{
	"movebackward":  true,
	"move_backward": true,
	"retroceder":    true,
}

// ParseProgram decodes a JSON array of UI blocks into a program tree.
// Unknown identifiers are kept verbatim so the validator reports them as
// invalid actions at the right index.
func ParseProgram(data []byte) ([]Block, error) {
	var raw []wireBlock
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode program: %w", err)
	}
	return translate(raw), nil
}

// Translate converts already-decoded UI blocks (as generic JSON) into a
// program tree. Used when the program is embedded in a larger request body.
func Translate(raw json.RawMessage) ([]Block, error) {
	if len(raw) == 0 {
		return []Block{}, nil
	}
	return ParseProgram(raw)
}

func translate(raw []wireBlock) []Block {
	out := make([]Block, 0, len(raw))
	for _, w := range raw {
		out = append(out, translateOne(w))
	}
	return out
}

func translateOne(w wireBlock) Block {
	key := strings.ToLower(strings.TrimSpace(w.Type))
	steps := 1
	if w.Params.Steps != nil {
		steps = *w.Params.Steps
	}

	if backwardAliases[key] {
		return Block{Type: BlockMove, Steps: -steps}
	}

	t, ok := aliases[key]
	if !ok {
		return Block{Type: BlockType(w.Type)}
	}

	b := Block{Type: t}
	switch t {
	case BlockMove:
		b.Steps = steps
	case BlockLoop:
		switch {
		case w.Params.Count != nil:
			b.Count = *w.Params.Count
		case w.Params.Times != nil:
			b.Count = *w.Params.Times
		}
		b.Children = translate(w.Params.Blocks)
	}
	return b
}
