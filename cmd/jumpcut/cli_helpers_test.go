package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jumpcut/internal/testsupport"
)

const probePayload = `{"streams":[` +
	`{"index":0,"codec_type":"video","codec_name":"h264","avg_frame_rate":"25/1","time_base":"1/1000"},` +
	`{"index":1,"codec_type":"audio","codec_name":"aac","channels":1,"disposition":{"default":1},"tags":{"language":"eng"}}` +
	`],"format":{"duration":"0.200000","size":"1024"}}`

type cliTestEnv struct {
	baseDir    string
	configPath string
	media      string
	callsPath  string
	workDir    string
}

// setupCLITestEnv writes a config that points at stub ffmpeg/ffprobe scripts.
// The ffmpeg stub copies a synthesised WAV to its last argument and records
// every invocation.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	binDir := filepath.Join(base, "bin")

	fixture := filepath.Join(base, "fixture.wav")
	writeFixtureWAV(t, fixture)
	callsPath := filepath.Join(base, "ffmpeg-calls.log")

	ffmpegScript := fmt.Sprintf(`#!/bin/sh
if [ "$1" = "-version" ]; then echo "ffmpeg version stub"; exit 0; fi
echo "$@" >> %q
for arg; do last=$arg; done
cp %q "$last"
`, callsPath, fixture)
	ffmpeg := testsupport.WriteScript(t, binDir, "ffmpeg", ffmpegScript)
	ffprobe := testsupport.WriteScript(t, binDir, "ffprobe", fmt.Sprintf("#!/bin/sh\nif [ \"$1\" = \"-version\" ]; then echo \"ffprobe version stub\"; exit 0; fi\necho '%s'\n", probePayload))

	media := filepath.Join(base, "talk.mkv")
	testsupport.WriteFile(t, media, 512)

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "jumpcut.toml"),
		media:      media,
		callsPath:  callsPath,
		workDir:    filepath.Join(base, "work"),
	}
	config := fmt.Sprintf(`[activity]
threshold = 0.5
padding_seconds = 0
frame_length_seconds = 0.01

[expression]
max_depth = 3

[paths]
work_dir = %q
log_dir = %q
cache_path = %q

[tools]
ffmpeg = %q
ffprobe = %q

[logging]
level = "error"
`, env.workDir, filepath.Join(base, "logs"), filepath.Join(base, "cache", "analysis.db"), ffmpeg, ffprobe)
	if err := os.WriteFile(env.configPath, []byte(config), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// writeFixtureWAV writes 20 frames of 10 samples at 1 kHz. Frames 5-9 and
// 14-16 swing between -1000 and 1000; the rest are silent.
func writeFixtureWAV(t *testing.T, path string) {
	t.Helper()
	var data []int
	for frame := 0; frame < 20; frame++ {
		loud := (frame >= 5 && frame <= 9) || (frame >= 14 && frame <= 16)
		for i := 0; i < 10; i++ {
			sample := 0
			if loud {
				sample = 1000
				if i%2 == 1 {
					sample = -1000
				}
			}
			data = append(data, sample)
		}
	}
	testsupport.WriteWAV(t, path, 1000, 1, data)
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// appendConfig adds TOML sections the base test config leaves at defaults.
func (e *cliTestEnv) appendConfig(t *testing.T, section string) {
	t.Helper()
	f, err := os.OpenFile(e.configPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open config: %v", err)
	}
	defer f.Close()
	if _, err := f.WriteString("\n" + section); err != nil {
		t.Fatalf("append config: %v", err)
	}
}

func (e *cliTestEnv) ffmpegCalls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(e.callsPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("read ffmpeg calls: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
