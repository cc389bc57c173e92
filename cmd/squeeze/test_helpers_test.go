package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	sourceRoot  string
	outputRoot  string
	scratchRoot string
	historyDB   string
}

// fakeEncoderScript mimics the external encoder: it locates the -i and -o
// arguments and copies the first 512 bytes of the input to the output.
const fakeEncoderScript = `#!/bin/sh
in=""
out=""
while [ $# -gt 0 ]; do
  case "$1" in
    -i) in="$2"; shift 2 ;;
    -o) out="$2"; shift 2 ;;
    *) shift ;;
  esac
done
head -c 512 "$in" > "$out"
`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.toml"),
		sourceRoot:  filepath.Join(base, "source"),
		outputRoot:  filepath.Join(base, "output"),
		scratchRoot: filepath.Join(base, "scratch"),
		historyDB:   filepath.Join(base, "history.db"),
	}
	if err := os.MkdirAll(env.sourceRoot, 0o755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}

	encoderPath := filepath.Join(base, "encoder")
	if err := os.WriteFile(encoderPath, []byte(fakeEncoderScript), 0o755); err != nil {
		t.Fatalf("write fake encoder: %v", err)
	}

	rewriteConfig(t, env, env.sourceRoot)
	return env
}

func rewriteConfig(t *testing.T, env *cliTestEnv, sourceRoot string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
source_root = %q
output_root = %q
scratch_root = %q
log_file = %q
report_file = %q
history_db = %q

[encoder]
binary = %q
min_output_bytes = 16

[processing]
min_source_bytes = 100
retry_delay_seconds = 1
`,
		sourceRoot, env.outputRoot, env.scratchRoot,
		filepath.Join(env.baseDir, "logs", "squeeze.log"),
		filepath.Join(env.baseDir, "report.csv"),
		env.historyDB,
		filepath.Join(env.baseDir, "encoder"))
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (e *cliTestEnv) seedSource(t *testing.T, name string, size int) {
	t.Helper()
	path := filepath.Join(e.sourceRoot, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", name, err)
	}
	if err := os.WriteFile(path, bytes.Repeat([]byte{0xAB}, size), 0o644); err != nil {
		t.Fatalf("seed %s: %v", name, err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()

	full := args
	if env != nil {
		full = append([]string{"--config", env.configPath}, args...)
	}

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
