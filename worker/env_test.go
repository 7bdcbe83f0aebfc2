package worker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel/types"
)

func envLookup(env []string) func(string) (string, bool) {
	m := make(map[string]string, len(env))
	for _, kv := range env {
		k, v, _ := strings.Cut(kv, "=")
		m[k] = v
	}

	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestEncodeDecodeEnv(t *testing.T) {
	a := types.Assignment{
		Share:   types.Share{Size: 9, EndOffset: 27},
		Index:   3,
		Attempt: 2,
		RunID:   "run-1",
	}

	env := EncodeEnv(a)
	require.Contains(t, env, "PARCEL_SIZE=9")
	require.Contains(t, env, "PARCEL_END_OFFSET=27")
	require.Contains(t, env, "PARCEL_INDEX=3")

	got, err := DecodeEnv(envLookup(env))
	require.NoError(t, err)
	require.Equal(t, a, got)
}

func TestDecodeEnv_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  []string
	}{
		{"missing size", []string{"PARCEL_END_OFFSET=9", "PARCEL_INDEX=1"}},
		{"missing index", []string{"PARCEL_SIZE=9", "PARCEL_END_OFFSET=9"}},
		{"not a number", []string{"PARCEL_SIZE=nine", "PARCEL_END_OFFSET=9", "PARCEL_INDEX=1"}},
		{"invalid share", []string{"PARCEL_SIZE=10", "PARCEL_END_OFFSET=9", "PARCEL_INDEX=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnv(envLookup(tt.env))
			require.ErrorIs(t, err, types.ErrInvalidAssignment)
		})
	}
}

func TestDecodeEnv_AttemptOptional(t *testing.T) {
	a, err := DecodeEnv(envLookup([]string{"PARCEL_SIZE=9", "PARCEL_END_OFFSET=9", "PARCEL_INDEX=1"}))
	require.NoError(t, err)
	require.Equal(t, 0, a.Attempt)
	require.Empty(t, a.RunID)
}

func TestIsWorkerProcess(t *testing.T) {
	t.Setenv(EnvIndex, "1")
	require.True(t, IsWorkerProcess())
}
