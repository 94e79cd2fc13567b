package observability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatheredNames(t *testing.T, reg *promclient.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	return names
}

func containsPrefix(names []string, prefix string) bool {
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			return true
		}
	}
	return false
}

func TestObservability_RecordOperation(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := NewWithRegisterer("fit-engine-test", reg)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	obs.RecordOperation(context.Background(), "rank", "http", StatusSuccess, 12*time.Millisecond)

	names := gatheredNames(t, reg)
	assert.True(t, containsPrefix(names, "engine_operations"), "got %v", names)
	assert.True(t, containsPrefix(names, "engine_operation_duration"), "got %v", names)
}

func TestObservability_Track(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := NewWithRegisterer("fit-engine-test", reg)
	require.NoError(t, err)

	done := obs.Track(context.Background(), "scenarios", "worker")
	done(errors.New("unknown industry"))

	assert.True(t, containsPrefix(gatheredNames(t, reg), "engine_operations"))
}

func TestObservability_NoopIsSafe(t *testing.T) {
	var nilObs *Observability
	assert.NotPanics(t, func() {
		nilObs.RecordOperation(context.Background(), "rank", "cli", StatusSuccess, time.Millisecond)
		NewNoop().Track(context.Background(), "rank", "cli")(nil)
	})
	assert.NoError(t, nilObs.Shutdown(context.Background()))
}
