package render

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"jumpcut/internal/services"
)

// CommandRunner executes one external command to completion.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// outputTail bounds how much tool output is carried into errors.
const outputTail = 2048

func runCommand(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	text := strings.TrimSpace(string(output))
	if len(text) > outputTail {
		text = "..." + text[len(text)-outputTail:]
	}
	return fmt.Errorf("%w: %s: %w: %s", services.ErrExternalTool, name, err, text)
}
