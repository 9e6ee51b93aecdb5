package engineconfig

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmptyReturnsDefaults(t *testing.T) {
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyMentionedFields(t *testing.T) {
	cfg, err := Load([]byte("max_query_iterations: 64\n"))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.MaxQueryIterations)
	assert.Equal(t, Default().WorkerCount, cfg.WorkerCount)
}

func TestLoadParsesDuration(t *testing.T) {
	cfg, err := Load([]byte("cancellation_deadline: 5s\n"))
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, time.Duration(cfg.CancellationDeadline))
}

func TestLoadRejectsInvalidIterationCap(t *testing.T) {
	_, err := Load([]byte("max_query_iterations: 0\n"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidWorkerCount(t *testing.T) {
	_, err := Load([]byte("worker_count: -1\n"))
	assert.Error(t, err)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	_, err := Load([]byte("max_query_iterations: [this is not a number]\n"))
	assert.Error(t, err)
}
