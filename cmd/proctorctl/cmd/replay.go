package cmd

import (
	"ProctorGuard/internal/config"
	"ProctorGuard/internal/engine"
	"ProctorGuard/internal/entity"
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
)

const maxReplayLine = 4 * 1024 * 1024

func newReplayCommand() *cobra.Command {
	var (
		inputPath      string
		thresholdsPath string
	)

	command := &cobra.Command{
		Use:   "replay",
		Short: "Apply a recorded signal history to a fresh engine.",
		Long: `Reads one JSON step per line, either {"session_id": ..., "frame": {...}}
or {"session_id": ..., "reset": true}, and prints one result per line.

Each run starts from empty sessions, so the same input always yields the same output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			thresholds, err := config.LoadThresholds(thresholdsPath)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if inputPath != "" && inputPath != "-" {
				file, err := os.Open(inputPath)
				if err != nil {
					return fmt.Errorf("failed to open input: %w", err)
				}
				defer file.Close()
				in = file
			}

			return runReplay(in, cmd.OutOrStdout(), thresholds)
		},
	}

	command.Flags().StringVarP(&inputPath, "input", "i", "-", "JSON lines file of replay steps, - for stdin")
	command.Flags().StringVarP(&thresholdsPath, "thresholds", "t", "", "YAML thresholds file, defaults when empty")

	return command
}

func runReplay(in io.Reader, out io.Writer, thresholds entity.Thresholds) error {
	steps, err := readSteps(in)
	if err != nil {
		return err
	}

	encoder := jsoniter.NewEncoder(out)
	for _, result := range engine.Replay(thresholds, steps) {
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	}

	return nil
}

func readSteps(in io.Reader) ([]engine.ReplayStep, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxReplayLine)

	var steps []engine.ReplayStep
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var step engine.ReplayStep
		if err := jsoniter.UnmarshalFromString(text, &step); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if step.SessionID == "" {
			return nil, fmt.Errorf("line %d: session_id is required", line)
		}
		steps = append(steps, step)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return steps, nil
}
