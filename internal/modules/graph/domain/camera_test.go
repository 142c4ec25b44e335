package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/modules/graph/domain"
)

func TestZoomInTwiceDoublesScale(t *testing.T) {
	t.Parallel()
	v := domain.NewViewport(domain.DefaultViewportConfig())
	v.ZoomIn()
	v.ZoomIn()

	target := v.Target()
	assert.Equal(t, 4.0, target.Scale)
	assert.InDelta(t, 500, target.Width, 1e-9)
	assert.InDelta(t, 375, target.Height, 1e-9)
	assert.InDelta(t, 1000, target.Center().X, 1e-9)
	assert.InDelta(t, 750, target.Center().Y, 1e-9)
}

func TestZoomInClampsToMaxScale(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultViewportConfig()
	cfg.MaxScale = 3
	v := domain.NewViewport(cfg)
	v.ZoomIn()
	v.ZoomIn()
	assert.Equal(t, 3.0, v.Target().Scale)
	assert.InDelta(t, 2000.0/3, v.Target().Width, 1e-9)
}

func TestRepeatedZoomStaysInBounds(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultViewportConfig()
	v := domain.NewViewport(cfg)
	for i := 0; i < 50; i++ {
		v.ZoomIn()
		v.Wheel(-300)
		require.LessOrEqual(t, v.Target().Scale, cfg.MaxScale)
	}
	assert.Equal(t, cfg.MaxScale, v.Target().Scale)

	for i := 0; i < 50; i++ {
		v.ZoomOut()
		v.Wheel(10_000)
		require.GreaterOrEqual(t, v.Target().Scale, cfg.MinScale)
		require.Greater(t, v.Target().Width, 0.0)
		require.Greater(t, v.Target().Height, 0.0)
	}
	assert.Equal(t, cfg.MinScale, v.Target().Scale)
}

func TestWheelDirectionFollowsDeltaSign(t *testing.T) {
	t.Parallel()
	up := domain.NewViewport(domain.DefaultViewportConfig())
	up.Wheel(-100)
	assert.InDelta(t, 1.5, up.Target().Scale, 1e-9)

	down := domain.NewViewport(domain.DefaultViewportConfig())
	down.Wheel(100)
	assert.InDelta(t, 0.5, down.Target().Scale, 1e-9)
	assert.InDelta(t, 1000, down.Target().Center().X, 1e-9)
}

func TestPanScalesInverselyWithCurrentScale(t *testing.T) {
	t.Parallel()
	v := domain.NewViewport(domain.DefaultViewportConfig())
	v.Pan(3, -2)
	assert.InDelta(t, -30, v.Target().X, 1e-9)
	assert.InDelta(t, 20, v.Target().Y, 1e-9)

	v.ZoomIn()
	settle(t, v)
	before := v.Target()
	v.Pan(4, 0)
	assert.InDelta(t, before.X-20, v.Target().X, 1e-9)
}

func TestResetRestoresInitialRectangle(t *testing.T) {
	t.Parallel()
	cfg := domain.DefaultViewportConfig()
	v := domain.NewViewport(cfg)
	v.ZoomIn()
	v.Pan(10, 10)
	v.Reset()
	assert.Equal(t, cfg.Initial, v.Target())
}

func TestTickConvergesAndStops(t *testing.T) {
	t.Parallel()
	v := domain.NewViewport(domain.DefaultViewportConfig())
	v.ZoomIn()
	v.Pan(25, -40)

	settle(t, v)
	assert.Equal(t, v.Target(), v.Current())

	before := v.Current()
	assert.True(t, v.Tick())
	assert.Equal(t, before, v.Current())
}

func TestTickMovesPositionSlowerThanSize(t *testing.T) {
	t.Parallel()
	v := domain.NewViewport(domain.DefaultViewportConfig())
	v.ZoomIn()
	start, target := v.Current(), v.Target()
	require.False(t, v.Tick())
	cur := v.Current()

	sizeProgress := (cur.Width - start.Width) / (target.Width - start.Width)
	posProgress := (cur.X - start.X) / (target.X - start.X)
	assert.InDelta(t, 0.3, sizeProgress, 1e-9)
	assert.InDelta(t, 0.15, posProgress, 1e-9)
}

func TestCenterOn(t *testing.T) {
	t.Parallel()
	v := domain.NewViewport(domain.DefaultViewportConfig())
	v.CenterOn(domain.Position{X: 1800, Y: 750})
	assert.InDelta(t, 1800, v.Target().Center().X, 1e-9)
	assert.InDelta(t, 750, v.Target().Center().Y, 1e-9)
}

func settle(t *testing.T, v *domain.Viewport) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if v.Tick() {
			return
		}
	}
	t.Fatalf("viewport did not settle: current=%+v target=%+v", v.Current(), v.Target())
}
