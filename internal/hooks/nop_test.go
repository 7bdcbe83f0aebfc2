package hooks

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel/types"
)

func TestNewNop(t *testing.T) {
	hooks := NewNop()

	require.NotNil(t, hooks.OnStateChanged)
	require.NotNil(t, hooks.OnWorkerOnline)
	require.NotNil(t, hooks.OnWorkerRestarted)
	require.NotNil(t, hooks.OnWorkerCompleted)
	require.NotNil(t, hooks.OnError)
}

func TestNopHooks_Callbacks(t *testing.T) {
	hooks := NewNop()
	ctx := context.Background()
	rec := types.WorkerRecord{WorkerID: "g-1", Index: 1, Share: types.Share{Size: 9, EndOffset: 9}}

	require.NoError(t, hooks.OnStateChanged(ctx, types.StateInit, types.StateRunning))
	require.NoError(t, hooks.OnWorkerOnline(ctx, rec))
	require.NoError(t, hooks.OnWorkerRestarted(ctx, rec, rec))
	require.NoError(t, hooks.OnWorkerCompleted(ctx, rec, types.Terminated("g-1", 0, types.ReasonExit, nil)))
	require.NoError(t, hooks.OnError(ctx, context.Canceled))
}

func TestFill(t *testing.T) {
	t.Run("nil hooks", func(t *testing.T) {
		filled := Fill(nil)

		require.NotNil(t, filled.OnStateChanged)
		require.NotNil(t, filled.OnError)
	})

	t.Run("keeps custom callbacks", func(t *testing.T) {
		called := false
		custom := &types.Hooks{
			OnWorkerOnline: func(context.Context, types.WorkerRecord) error {
				called = true
				return nil
			},
		}

		filled := Fill(custom)
		require.NoError(t, filled.OnWorkerOnline(context.Background(), types.WorkerRecord{}))

		require.True(t, called)
		require.NotNil(t, filled.OnWorkerRestarted)
		require.Nil(t, custom.OnWorkerRestarted, "input must not be modified")
	})
}
