package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/config"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/events"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	out, _, err := executeCaptured(t, ctx, args...)
	return out, err
}

// executeCaptured runs the command tree and returns stdout and stderr
func executeCaptured(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append(args, "--log-level", "error"))
	err := root.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

func parseCounts(t *testing.T, out string) (int, int, int) {
	t.Helper()
	var circle, cross, draw int
	line := strings.SplitN(out, "\n", 2)[0]
	_, err := fmt.Sscanf(line, "O/X/Draw: %d/%d/%d", &circle, &cross, &draw)
	require.NoError(t, err, "unexpected first line %q", line)
	return circle, cross, draw
}

func TestRunCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "run", "--games", "300", "--quiet")
	require.NoError(t, err)

	circle, cross, draw := parseCounts(t, out)
	assert.Equal(t, 300, circle+cross+draw)
	assert.Contains(t, out, "Time taken: ")
	assert.Contains(t, out, "Workers: 1")
}

func TestRootRunsBatchByDefault(t *testing.T) {
	out, err := execute(t, context.Background(), "--games", "20", "--quiet")
	require.NoError(t, err)

	circle, cross, draw := parseCounts(t, out)
	assert.Equal(t, 20, circle+cross+draw)
}

func TestRunCommand_Reproducible(t *testing.T) {
	args := []string{"run", "--games", "500", "--seed", "77", "--quiet"}

	first, err := execute(t, context.Background(), args...)
	require.NoError(t, err)
	second, err := execute(t, context.Background(), args...)
	require.NoError(t, err)

	assert.Equal(t, strings.SplitN(first, "\n", 2)[0], strings.SplitN(second, "\n", 2)[0])
}

func TestRunCommand_JSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	out, err := execute(t, context.Background(),
		"run", "--games", "100", "--workers", "3", "--tracker", "run", "--format", "json", "--output", path, "--quiet")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc["workers"], 3)
	options := doc["options"].(map[string]interface{})
	assert.Equal(t, "run", options["tracker"])
	assert.Equal(t, float64(100), options["games"])
}

func TestRunCommand_InvalidFlags(t *testing.T) {
	_, err := execute(t, context.Background(), "run", "--tracker", "bitboard", "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracker.kind")

	_, err = execute(t, context.Background(), "run", "--games=-4", "--quiet")
	assert.Error(t, err)
}

func TestRunCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  games: 42\n"), 0644))

	out, err := execute(t, context.Background(), "run", "--config", path, "--quiet")
	require.NoError(t, err)
	circle, cross, draw := parseCounts(t, out)
	assert.Equal(t, 42, circle+cross+draw)

	// Flags override the file
	out, err = execute(t, context.Background(), "run", "--config", path, "--games", "7", "--quiet")
	require.NoError(t, err)
	circle, cross, draw = parseCounts(t, out)
	assert.Equal(t, 7, circle+cross+draw)
}

func TestMalformedConfigLogsToConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: [games\n"), 0644))
	defer setupLogging("info", "console", os.Stderr)

	var out, errOut bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{"run", "--config", path, "--log-format", "json", "--quiet"})
	err := root.ExecuteContext(context.Background())
	require.Error(t, err)

	log.Error().Err(err).Msg("tttsim failed")
	logged := strings.TrimSpace(errOut.String())
	assert.Contains(t, logged, "tttsim failed")
	assert.Contains(t, logged, "error reading config file")
	assert.False(t, strings.HasPrefix(logged, "{"), "expected console output, got %q", logged)
}

func TestWatchRerunAppliesReloadedLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  games: 5\nlogging:\n  level: warn\n  format: json\n"), 0644))
	require.NoError(t, config.Init(path))
	defer setupLogging("info", "console", os.Stderr)

	var out, errOut bytes.Buffer
	cmd := Watch()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetContext(context.Background())
	require.NoError(t, cmd.Flags().Set("quiet", "true"))

	rerun(cmd)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	circle, cross, draw := parseCounts(t, out.String())
	assert.Equal(t, 5, circle+cross+draw)

	log.Warn().Msg("after reload")
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(errOut.Bytes()), &doc))
	assert.Equal(t, "after reload", doc["message"])
}

func TestNewEventLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	l := newEventLogger()
	assert.True(t, l.InterestedIn(events.TypeBatchCompleted))
	assert.False(t, l.InterestedIn(events.TypeWorkerFinished))

	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	l = newEventLogger()
	assert.True(t, l.InterestedIn(events.TypeWorkerFinished))
}

func TestSpinnerSuffix(t *testing.T) {
	assert.Equal(t, " playing 10000 games (0%)", spinnerSuffix(10000, 0))
	assert.Equal(t, " playing 10000 games (43%)", spinnerSuffix(10000, 42.6))
}

func TestRunCommand_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := execute(t, ctx, "run", "--games", "1000", "--quiet")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlayCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "play", "--plain", "--seed", "11")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// header, 20 board rows, summary and seed
	require.Len(t, lines, 23)
	assert.NotContains(t, out, "\033[")
	assert.Equal(t, "Seed: 11", lines[22])
	summary := lines[21]
	assert.True(t,
		strings.HasPrefix(summary, "O wins") || strings.HasPrefix(summary, "X wins") || strings.HasPrefix(summary, "Draw after 400"),
		summary)

	again, err := execute(t, context.Background(), "play", "--plain", "--seed", "11")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestWatchCommandStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  games: 10\n"), 0644))

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	out, err := execute(t, ctx, "watch", "--config", path, "--quiet")
	require.NoError(t, err)
	circle, cross, draw := parseCounts(t, out)
	assert.Equal(t, 10, circle+cross+draw)
}

func TestSetupLogging(t *testing.T) {
	var buf bytes.Buffer
	setupLogging("warn", "json", &buf)
	defer setupLogging("info", "console", os.Stderr)

	log.Info().Msg("filtered")
	log.Warn().Msg("kept")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &doc))
	assert.Equal(t, "warn", doc["level"])
	assert.Equal(t, "kept", doc["message"])
	assert.Contains(t, doc, "time")
}

func TestSetupLogging_UnknownLevel(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	setupLogging("chatty", "json", &bytes.Buffer{})
	defer setupLogging("info", "console", os.Stderr)

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
