package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/donghyeon/takkobebe/internal/config"
	"github.com/donghyeon/takkobebe/internal/converter"
	"github.com/donghyeon/takkobebe/internal/types"
)

func TestProcessFilesKeepsOrderAndLimit(t *testing.T) {
	files := []string{"a", "b", "c", "d", "e"}
	var inFlight, peak atomic.Int32

	results := processFiles(context.Background(), files, 2, func(path string) converter.Result {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		defer inFlight.Add(-1)

		if path == "c" {
			return converter.Result{FilePath: path, Error: errors.New("boom")}
		}
		return converter.Result{FilePath: path, Success: true}
	})

	require.Len(t, results, len(files))
	for i, r := range results {
		assert.Equal(t, files[i], r.FilePath)
	}
	assert.False(t, results[2].Success)
	assert.True(t, results[4].Success, "a failure does not stop later files")
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestProcessFilesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := processFiles(ctx, []string{"a"}, 1, func(path string) converter.Result {
		return converter.Result{FilePath: path, Success: true}
	})
	assert.ErrorIs(t, results[0].Error, context.Canceled)
}

func TestRunBatchConsolidatesInputDir(t *testing.T) {
	root := t.TempDir()
	cfg = config.Default()
	cfg.InputDir = filepath.Join(root, "in")
	cfg.OutputDir = filepath.Join(root, "out")
	cfg.UploadDir = filepath.Join(root, "uploads")
	logger = zap.NewNop()
	t.Cleanup(func() { cfg, logger = nil, nil })

	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	good := strings.Join(types.OrderInputColumns, ",") + "\n" +
		"김철수,010,서울,06236,135-080,O1,L1,Mug,,2,\n"
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "good.csv"), []byte(good), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "bad.csv"), []byte("이름\n김철수\n"), 0o644))

	var out bytes.Buffer
	err := runBatch(context.Background(), &out, "Order Consolidation", nil,
		func(c *converter.Converter) fileProcessor { return c.ConsolidateFile })
	assert.EqualError(t, err, "1 of 2 file(s) failed")

	report := out.String()
	assert.Contains(t, report, "Found 2 file(s) to process")
	assert.Contains(t, report, "✓ good.csv")
	assert.Contains(t, report, "✗ bad.csv")
	assert.Contains(t, report, "Successful:      1")

	written, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	assert.Len(t, written, 1)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = newLogger("loud", false)
	assert.Error(t, err)
}
