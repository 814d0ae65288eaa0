package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionTimeout bounds the -version probe; a hung binary is reported, not waited on.
const versionTimeout = 5 * time.Second

// MediaTools lists the binaries every jumpcut command that touches media needs.
func MediaTools(ffmpeg, ffprobe string) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     ffmpeg,
			Description: "Required for audio extraction and rendering",
		},
		{
			Name:        "FFprobe",
			Command:     ffprobe,
			Description: "Required for media inspection",
		},
	}
}

// Version runs `binary -version` and returns the first output line, which
// for ffmpeg and ffprobe names the build.
func Version(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-version").Output() //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("%s -version: %w", binary, err)
	}
	scanner := bufio.NewScanner(bytes.NewReader(out))
	if scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line, nil
		}
	}
	return "", fmt.Errorf("%s -version: empty output", binary)
}

// DescribeVersions fills Detail of every available status with its version line.
func DescribeVersions(ctx context.Context, statuses []Status) {
	for i := range statuses {
		if !statuses[i].Available {
			continue
		}
		version, err := Version(ctx, statuses[i].Resolved)
		if err != nil {
			statuses[i].Detail = err.Error()
			continue
		}
		statuses[i].Detail = version
	}
}
