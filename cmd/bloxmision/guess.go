package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/game"
)

// tile renders one letter: [X] correct, (X) present, plain X absent.
func tile(c byte, s game.LetterState) string {
	switch s {
	case game.StateCorrect:
		return "[" + string(c) + "]"
	case game.StatePresent:
		return "(" + string(c) + ")"
	default:
		return " " + string(c) + " "
	}
}

func newGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <guess> <answer>",
		Short: "Score a word guess against an answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if v := game.IsValidGuess(args[0]); !v.Valid {
				return errors.New(v.Error)
			}
			res := game.ProcessGuess(args[0], args[1])

			var b strings.Builder
			for i, s := range res.Feedback {
				b.WriteString(tile(res.Guess[i], s))
			}
			fmt.Fprintln(cmd.OutOrStdout(), b.String())
			if res.IsCorrect {
				fmt.Fprintln(cmd.OutOrStdout(), "correct!")
			}
			return nil
		},
	}
}
