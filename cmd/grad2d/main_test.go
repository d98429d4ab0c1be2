package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/born-ml/grad2d/internal/serialization"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Commands(t *testing.T) {
	ctx := context.Background()
	assert.NoError(t, run(ctx, nil))
	assert.NoError(t, run(ctx, []string{"version"}))
	assert.ErrorContains(t, run(ctx, []string{"serve"}), `unknown command "serve"`)
}

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes("3, 4,4,1")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 4, 1}, sizes)

	_, err = parseSizes("3,x,1")
	assert.Error(t, err)
}

func TestRunTrain_CheckpointAndResume(t *testing.T) {
	t.Setenv("GRAD2D_CHECKPOINT", "")
	ctx := context.Background()
	store := t.TempDir()

	err := runTrain(ctx, []string{
		"-epochs", "20",
		"-momentum", "0.9",
		"-log-every", "0",
		"-checkpoint", store,
		"-checkpoint-key", "run/model.g2d",
	})
	require.NoError(t, err)

	path := filepath.Join(store, "run", "model.g2d")
	ckpt, err := serialization.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "MLP", ckpt.Header.ModelType)
	require.NotNil(t, ckpt.Header.Checkpoint)
	assert.Equal(t, "SGD", ckpt.Header.Checkpoint.OptimizerType)
	assert.Equal(t, 20, ckpt.Header.Checkpoint.Epoch)
	assert.NotEmpty(t, ckpt.Header.Checkpoint.OptimizerState)
	assert.Len(t, ckpt.Names(), 2*(4+4+1))

	require.NoError(t, runTrain(ctx, []string{"-epochs", "5", "-momentum", "0.9", "-resume", path}))
	require.NoError(t, runTrain(ctx, []string{
		"-epochs", "5",
		"-momentum", "0.9",
		"-resume", "file://" + store,
		"-checkpoint-key", "run/model.g2d",
	}))

	err = runTrain(ctx, []string{"-epochs", "1", "-resume", "file://" + store, "-checkpoint-key", "run/absent.g2d"})
	assert.ErrorIs(t, err, os.ErrNotExist)

	err = runTrain(ctx, []string{"-epochs", "1", "-sizes", "3,2,1", "-resume", path})
	assert.ErrorIs(t, err, serialization.ErrParameterCount)
}

func TestFetchCheckpoint(t *testing.T) {
	ctx := context.Background()

	path, cleanup, err := fetchCheckpoint(ctx, "local/model.g2d", "ignored")
	require.NoError(t, err)
	cleanup()
	assert.Equal(t, "local/model.g2d", path)

	store := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(store, "model.g2d"), []byte("payload"), 0o644))

	path, cleanup, err = fetchCheckpoint(ctx, "file://"+store, "model.g2d")
	require.NoError(t, err)
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(got))

	cleanup()
	_, err = os.Stat(path)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = fetchCheckpoint(ctx, "s3://bucket", "model.g2d")
	assert.Error(t, err)
}

func TestRunTrain_BadFlags(t *testing.T) {
	t.Setenv("GRAD2D_CHECKPOINT", "")
	ctx := context.Background()
	assert.Error(t, runTrain(ctx, []string{"-activation", "softmax"}))
	assert.Error(t, runTrain(ctx, []string{"-optimizer", "rmsprop"}))
	assert.Error(t, runTrain(ctx, []string{"-sizes", "3"}))
	assert.Error(t, runTrain(ctx, []string{"-checkpoint", "s3://bucket", "-epochs", "1"}))
}
