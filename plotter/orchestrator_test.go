package plotter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axiplan/axiplan/ebb"
	"github.com/axiplan/axiplan/geom"
)

// loopbackPort answers every command with a canned OK (and QM with an
// idle status) so an Orchestrator.Run can execute end to end against
// a scripted device, counting outbound moves rather than exact bytes.
type loopbackPort struct {
	written []string
	pending string
}

func (p *loopbackPort) Write(b []byte) (int, error) {
	cmd := strings.TrimSuffix(string(b), "\r")
	p.written = append(p.written, cmd)

	switch {
	case strings.HasPrefix(cmd, "QM"):
		p.pending = "QM,0,0,0,0\r\n"
	case strings.HasPrefix(cmd, "V"):
		p.pending = "axiplot-test-fw\r\n"
	case strings.HasPrefix(cmd, "QP"):
		p.pending = "1\r\nOK\r\n"
	case strings.HasPrefix(cmd, "QS"):
		p.pending = "0,0\r\nOK\r\n"
	default:
		p.pending = "OK\r\n"
	}
	return len(b), nil
}

func (p *loopbackPort) Read(b []byte) (int, error) {
	if p.pending == "" {
		return 0, nil
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *loopbackPort) Close() error { return nil }

func (p *loopbackPort) countPrefix(prefix string) int {
	n := 0
	for _, cmd := range p.written {
		if strings.HasPrefix(cmd, prefix) {
			n++
		}
	}
	return n
}

func newTestOrchestrator(opts Options) (*Orchestrator, *loopbackPort) {
	port := &loopbackPort{}
	device := ebb.NewDevice(port, ebb.DefaultConfig(), zerolog.Nop())
	executor := NewExecutorFor(opts)
	return NewOrchestrator(device, opts, executor, zerolog.Nop()), port
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.PenUpDelay = time.Millisecond
	opts.PenDownDelay = time.Millisecond
	return opts
}

func TestOrchestratorSingleSquareDrawsAndReturnsHome(t *testing.T) {
	square := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}}
	orch, port := newTestOrchestrator(testOptions())

	err := orch.Run(context.Background(), Drawing{Polylines: [][]geom.Point{square}})
	require.NoError(t, err)

	assert.Equal(t, 1, port.countPrefix("SC,4,"), "pen-up servo position configured once at session start")
	assert.Equal(t, 1, port.countPrefix("SC,5,"), "pen-down servo position configured once at session start")
	assert.Equal(t, 1, port.countPrefix("SC,11,"), "pen-up servo rate configured once at session start")
	assert.Equal(t, 1, port.countPrefix("SC,12,"), "pen-down servo rate configured once at session start")
	assert.Contains(t, port.written, "EM,5,1")
	assert.GreaterOrEqual(t, port.countPrefix("SM,"), 1)
	assert.Equal(t, 1, port.countPrefix("SP,0"), "exactly one pen-down for the single polyline")
	assert.Equal(t, 3, port.countPrefix("SP,1"), "initial raise, post-polyline raise, final raise at origin")
	assert.Contains(t, port.written, "EM,0,0")
}

func TestOrchestratorSkipsLiftBetweenTouchingPolylines(t *testing.T) {
	a := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	b := []geom.Point{{X: 10, Y: 0}, {X: 10, Y: 10}}
	orch, port := newTestOrchestrator(testOptions())

	err := orch.Run(context.Background(), Drawing{Polylines: [][]geom.Point{a, b}})
	require.NoError(t, err)

	// Initial raise, raise after b, and final raise at origin, but no
	// lift between a and b since b starts exactly where a ends.
	assert.Equal(t, 2, port.countPrefix("SP,0"), "one pen-down per polyline")
	assert.Equal(t, 3, port.countPrefix("SP,1"), "no intermediate raise between touching polylines")
}

func TestOrchestratorLiftsBetweenDisjointPolylines(t *testing.T) {
	a := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	b := []geom.Point{{X: 50, Y: 50}, {X: 60, Y: 60}}
	orch, port := newTestOrchestrator(testOptions())

	err := orch.Run(context.Background(), Drawing{Polylines: [][]geom.Point{a, b}})
	require.NoError(t, err)

	assert.Equal(t, 2, port.countPrefix("SP,0"), "one pen-down per polyline")
	assert.Equal(t, 4, port.countPrefix("SP,1"), "intermediate raise issued since b does not start where a ends")
}

func TestOrchestratorEmptyPolylineSkipped(t *testing.T) {
	orch, port := newTestOrchestrator(testOptions())
	err := orch.Run(context.Background(), Drawing{Polylines: [][]geom.Point{{}}})
	require.NoError(t, err)
	assert.Contains(t, port.written, "EM,5,1")
}

func TestOrchestratorSampledExecutorSelection(t *testing.T) {
	opts := testOptions()
	opts.SliceDuration = 50 * time.Millisecond
	orch, port := newTestOrchestrator(opts)

	square := []geom.Point{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 20}}
	err := orch.Run(context.Background(), Drawing{Polylines: [][]geom.Point{square}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port.countPrefix("SM,"), 1)
}
