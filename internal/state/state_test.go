package state_test

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/sysmond/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateIsEmpty(t *testing.T) {
	st := state.New(time.Second)

	assert.False(t, st.HasCPUData())
	assert.False(t, st.HasGPUData())
	assert.False(t, st.HasMemoryData())
	assert.False(t, st.HasStorageData())
	assert.False(t, st.HasMainboardData())

	assert.Equal(t, time.Second, st.SamplingInterval)
	assert.False(t, st.SessionStart.IsZero())
}

func TestViewDefaultsExpanded(t *testing.T) {
	st := state.New(time.Second)

	assert.True(t, st.View.CPUExpanded)
	assert.True(t, st.View.GPUExpanded)
	assert.True(t, st.View.MemoryExpanded)
	assert.True(t, st.View.StorageExpanded)
	assert.True(t, st.View.MainboardExpanded)
}

func TestHasDataFlipsPerDomain(t *testing.T) {
	st := state.New(time.Second)

	st.CPU.Utilization.Update(12.5)
	assert.True(t, st.HasCPUData())
	assert.False(t, st.HasGPUData(), "CPU sample must not flip the GPU predicate")

	st.GPU.ThermalThrottling.Update(false)
	assert.True(t, st.HasGPUData(), "Any channel counts, including a false bool")

	st.Memory.UsedMB.Update(8192)
	assert.True(t, st.HasMemoryData())

	st.Storage.WriteSpeed.Update(120.5)
	assert.True(t, st.HasStorageData())

	st.Mainboard.PumpSpeed.Update(1450)
	assert.True(t, st.HasMainboardData())
}

func TestSharedReadSeesUpdate(t *testing.T) {
	shared := state.NewShared(time.Second)

	shared.Update(func(st *state.State) {
		st.CPU.Utilization.Update(55.0)
	})

	var current float64
	var ok bool
	shared.Read(func(st *state.State) {
		current, ok = st.CPU.Utilization.Current()
	})

	require.True(t, ok)
	assert.InDelta(t, 55.0, current, 0.0001)
}

func TestSharedImmutableFields(t *testing.T) {
	shared := state.NewShared(250 * time.Millisecond)

	assert.Equal(t, 250*time.Millisecond, shared.SamplingInterval())
	assert.False(t, shared.SessionStart().IsZero())
}

// One writer and two readers race over the same channel; readers must
// always observe min <= current <= max and a consistent history length.
func TestSharedConcurrentAccess(t *testing.T) {
	shared := state.NewShared(time.Millisecond)

	const updates = 500
	done := make(chan struct{})

	go func() {
		defer close(done)
		for i := 0; i < updates; i++ {
			value := float64(i % 100)
			shared.Update(func(st *state.State) {
				st.CPU.Utilization.Update(value)
			})
		}
	}()

	var wg sync.WaitGroup
	for r := 0; r < 2; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}

				shared.Read(func(st *state.State) {
					current, ok := st.CPU.Utilization.Current()
					if !ok {
						return
					}
					minValue, _ := st.CPU.Utilization.SessionMin()
					maxValue, _ := st.CPU.Utilization.SessionMax()
					assert.LessOrEqual(t, minValue, current)
					assert.LessOrEqual(t, current, maxValue)
					assert.Equal(t, st.CPU.Utilization.Len(), len(st.CPU.Utilization.History()))
				})
			}
		}()
	}

	<-done
	wg.Wait()

	shared.Read(func(st *state.State) {
		assert.Equal(t, updates, st.CPU.Utilization.Len())
	})
}
