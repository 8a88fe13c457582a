package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressPassThroughUnderThreshold(t *testing.T) {
	// transcoding deliberately disabled: files under the threshold must never
	// reach ffmpeg.
	e := NewEngine(t.TempDir(), false)

	data := []byte("small video payload")
	out, transcoded, err := e.Compress(context.Background(), data, nil)

	require.NoError(t, err)
	assert.False(t, transcoded)
	assert.Equal(t, data, out, "pass-through must be byte-for-byte identical")
}

func TestCompressLargeFileRequiresTranscoding(t *testing.T) {
	e := NewEngine(t.TempDir(), false)

	data := make([]byte, CompressThresholdBytes)
	_, _, err := e.Compress(context.Background(), data, nil)
	assert.Error(t, err, "at-threshold files need the transcoder, which is disabled")
}

func TestConsumeProgressReportsFractions(t *testing.T) {
	e := NewEngine(t.TempDir(), true)

	input := strings.Join([]string{
		"frame=100",
		"out_time_us=2500000",
		"speed=4x",
		"out_time_us=5000000",
		"out_time_us=10000000",
		"progress=end",
	}, "\n")

	var fracs []float64
	e.consumeProgress(strings.NewReader(input), 10.0, func(f float64) {
		fracs = append(fracs, f)
	})

	require.Len(t, fracs, 4)
	assert.InDelta(t, 0.25, fracs[0], 0.001)
	assert.InDelta(t, 0.5, fracs[1], 0.001)
	assert.InDelta(t, 1.0, fracs[2], 0.001)
	assert.Equal(t, float64(1), fracs[3], "progress=end pins the fraction to 1")
}

func TestConsumeProgressClampsOverrun(t *testing.T) {
	e := NewEngine(t.TempDir(), true)

	var fracs []float64
	e.consumeProgress(strings.NewReader("out_time_us=15000000\n"), 10.0, func(f float64) {
		fracs = append(fracs, f)
	})

	require.Len(t, fracs, 1)
	assert.Equal(t, float64(1), fracs[0])
}

func TestConsumeProgressUnknownDuration(t *testing.T) {
	e := NewEngine(t.TempDir(), true)

	var fracs []float64
	e.consumeProgress(strings.NewReader("out_time_us=5000000\nprogress=end\n"), 0, func(f float64) {
		fracs = append(fracs, f)
	})

	// Without a probed duration only the terminal marker reports.
	require.Len(t, fracs, 1)
	assert.Equal(t, float64(1), fracs[0])
}

func TestConsumeProgressNilCallback(t *testing.T) {
	e := NewEngine(t.TempDir(), true)

	// Must not panic when the caller provides no callback.
	e.consumeProgress(strings.NewReader("out_time_us=5000000\nprogress=end\n"), 10.0, nil)
}

func TestAcquireRespectsContext(t *testing.T) {
	e := NewEngine(t.TempDir(), true)

	// Fill the single slot, then try to acquire with a cancelled context.
	require.NoError(t, e.acquire(context.Background()))
	defer e.release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := e.acquire(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestIsEnabled(t *testing.T) {
	assert.True(t, NewEngine(t.TempDir(), true).IsEnabled())
	assert.False(t, NewEngine(t.TempDir(), false).IsEnabled())
}
