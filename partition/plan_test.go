package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/parcel/types"
)

type fixedPartitioner struct {
	sizes []int
}

func (f fixedPartitioner) Sizes(_ /* total */, _ /* divisor */ int) ([]int, error) {
	return f.sizes, nil
}

func TestNewPlan(t *testing.T) {
	t.Run("prefix sums for twelve workers", func(t *testing.T) {
		plan, err := NewPlan(NewEven(), 100, 12)
		require.NoError(t, err)

		require.Equal(t, 12, plan.Workers())

		first, ok := plan.Share(1)
		require.True(t, ok)
		require.Equal(t, types.Share{Size: 9, EndOffset: 9}, first)
		require.Equal(t, 1, first.Start())

		fifth, ok := plan.Share(5)
		require.True(t, ok)
		require.Equal(t, types.Share{Size: 8, EndOffset: 44}, fifth)
		require.Equal(t, 37, fifth.Start())

		third, ok := plan.Share(3)
		require.True(t, ok)
		require.Equal(t, "[19,27]", third.String())

		last, ok := plan.Share(12)
		require.True(t, ok)
		require.Equal(t, 100, last.EndOffset)
	})

	t.Run("out of range index", func(t *testing.T) {
		plan, err := NewPlan(NewEven(), 100, 4)
		require.NoError(t, err)

		_, ok := plan.Share(0)
		require.False(t, ok)
		_, ok = plan.Share(5)
		require.False(t, ok)
		_, ok = plan.Assignment(5, 0, "")
		require.False(t, ok)
	})

	t.Run("zero divisor launches no workers", func(t *testing.T) {
		plan, err := NewPlan(NewEven(), 5, 0)
		require.NoError(t, err)

		require.Equal(t, []int{0}, plan.Sizes)
		require.Zero(t, plan.Workers())
		require.NoError(t, plan.Covers())
	})

	t.Run("rejects negative input", func(t *testing.T) {
		_, err := NewPlan(NewEven(), -1, 4)
		require.ErrorIs(t, err, types.ErrInvalidPartitionInput)

		_, err = NewPlan(NewEven(), 1, -4)
		require.ErrorIs(t, err, types.ErrInvalidPartitionInput)
	})

	t.Run("rejects partitioner output that does not sum to total", func(t *testing.T) {
		_, err := NewPlan(fixedPartitioner{sizes: []int{5, 5}}, 11, 2)
		require.ErrorIs(t, err, types.ErrInvalidPartitionInput)
	})

	t.Run("rejects short partitioner output", func(t *testing.T) {
		_, err := NewPlan(fixedPartitioner{sizes: []int{5}}, 5, 2)
		require.ErrorIs(t, err, types.ErrInvalidPartitionInput)
	})
}

func TestPlan_Assignment(t *testing.T) {
	plan, err := NewPlan(NewEven(), 100, 12)
	require.NoError(t, err)

	initial, ok := plan.Assignment(3, 0, "run-1")
	require.True(t, ok)
	restarted, ok := plan.Assignment(3, 4, "run-1")
	require.True(t, ok)

	require.Equal(t, initial.Share, restarted.Share)
	require.Equal(t, 3, restarted.Index)
	require.Equal(t, 4, restarted.Attempt)
	require.NoError(t, restarted.Validate())
}

func TestPlan_Covers(t *testing.T) {
	for total := 0; total <= 120; total += 11 {
		for divisor := 1; divisor <= 17; divisor++ {
			plan, err := NewPlan(NewEven(), total, divisor)
			require.NoError(t, err)
			require.NoError(t, plan.Covers(), "total=%d divisor=%d", total, divisor)

			seen := make(map[int]int, total)
			for i := 1; i <= plan.Workers(); i++ {
				share, _ := plan.Share(i)
				for v := share.Start(); v <= share.EndOffset; v++ {
					seen[v]++
				}
			}
			require.Len(t, seen, total)
			for v := 1; v <= total; v++ {
				require.Equal(t, 1, seen[v], "value %d covered %d times", v, seen[v])
			}
		}
	}

	t.Run("detects gaps", func(t *testing.T) {
		plan := &Plan{Total: 10, Divisor: 2, Shares: []types.Share{
			{Size: 4, EndOffset: 4},
			{Size: 5, EndOffset: 10},
		}}

		require.Error(t, plan.Covers())
	})
}

func TestPlan_Fingerprint(t *testing.T) {
	a, err := NewPlan(NewEven(), 100, 12)
	require.NoError(t, err)
	b, err := NewPlan(NewEven(), 100, 12)
	require.NoError(t, err)
	c, err := NewPlan(NewEven(), 100, 11)
	require.NoError(t, err)

	require.Equal(t, a.Fingerprint(), b.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}
