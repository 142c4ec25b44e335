package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kgview/internal/modules/graph/domain"
)

func TestScreenToScene(t *testing.T) {
	t.Parallel()
	cam := domain.Camera{X: 100, Y: 50, Width: 1000, Height: 500, Scale: 2}
	p := domain.ScreenToScene(cam, domain.Position{X: 40, Y: 10}, 80, 20)
	assert.InDelta(t, 600, p.X, 1e-9)
	assert.InDelta(t, 300, p.Y, 1e-9)

	back := domain.SceneToScreen(cam, p, 80, 20)
	assert.InDelta(t, 40, back.X, 1e-9)
	assert.InDelta(t, 10, back.Y, 1e-9)
}

func TestScreenToSceneDegenerateSurface(t *testing.T) {
	t.Parallel()
	cam := domain.Camera{X: 3, Y: 4, Width: 10, Height: 10, Scale: 1}
	assert.Equal(t, domain.Position{X: 3, Y: 4}, domain.ScreenToScene(cam, domain.Position{X: 9, Y: 9}, 0, 10))
	assert.Equal(t, domain.Position{}, domain.SceneToScreen(domain.Camera{}, domain.Position{X: 1}, 10, 10))
}
