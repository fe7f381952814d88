package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoaquimColacilli/bloxmision-sub001/internal/blocks"
	"github.com/JoaquimColacilli/bloxmision-sub001/internal/levels"
)

func newRunCmd(a *app) *cobra.Command {
	var levelID, programPath, catalogPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate a block program against a level and print the result as JSON",
		Example: `  bloxmision run --level first-steps --program solution.json
  echo '[{"type":"move","params":{"steps":3}}]' | bloxmision run --level first-steps --program -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			lvl, err := cat.Get(levelID)
			if err != nil {
				return fmt.Errorf("level %q: %w", levelID, err)
			}

			raw, err := readProgram(cmd.InOrStdin(), programPath)
			if err != nil {
				return err
			}
			program, err := blocks.ParseProgram(raw)
			if err != nil {
				return err
			}
			if err := blocks.CheckAvailable(lvl, program); err != nil {
				return err
			}

			res := blocks.NewValidator(lvl).Validate(program)
			a.logger.Debug().Str("level", lvl.ID).Int("nodes", blocks.CountBlocks(program)).Bool("success", res.Success).Msg("program run")

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		},
	}
	cmd.Flags().StringVarP(&levelID, "level", "l", "", "level id")
	cmd.Flags().StringVarP(&programPath, "program", "f", "", "program JSON file, or - for stdin")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "level catalog YAML (default: embedded levels)")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("program")
	return cmd
}

func loadCatalog(path string) (*levels.Catalog, error) {
	if path == "" {
		return levels.Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return levels.Parse(raw)
}

func readProgram(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	return raw, nil
}
