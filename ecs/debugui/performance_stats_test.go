package debugui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPerformanceStatsRecord(t *testing.T) {
	ps := NewPerformanceStatsComponent(4)

	assert.InDelta(t, 2.5, ps.Record(0.010), 1e-4)
	assert.InDelta(t, 5.0, ps.Record(0.010), 1e-4)

	for range 4 {
		ps.Record(0.020)
	}
	assert.InDelta(t, 20.0, ps.Record(0.020), 1e-4)
	assert.Equal(t, 3, ps.frameIndex)
}
