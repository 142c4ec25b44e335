package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"kgview/internal/modules/roadmap/domain"
)

var palette = []string{"#FF4086", "#FF5E86", "#FF7C86", "#FF9A86", "#FFB886", "#FFCB86"}

func TestColorForUsesPriorityIndex(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "#FF4086", domain.ColorFor(1, palette))
	assert.Equal(t, "#FF7C86", domain.ColorFor(3, palette))
	assert.Equal(t, "#FFCB86", domain.ColorFor(6, palette))
}

func TestColorForFallsBackOutsideRange(t *testing.T) {
	t.Parallel()
	assert.Equal(t, domain.DefaultColor, domain.ColorFor(0, palette))
	assert.Equal(t, domain.DefaultColor, domain.ColorFor(7, palette))
	assert.Equal(t, domain.DefaultColor, domain.ColorFor(-2, palette))
	assert.Equal(t, domain.DefaultColor, domain.ColorFor(4, palette[:2]))
}

func TestMarkdownListsItemsInOrder(t *testing.T) {
	t.Parallel()
	r := domain.Roadmap{
		Query: "computer science",
		Items: []domain.Item{
			{Entity: "Discrete Math", Relationship: "foundation\nfor proofs", Priority: 1},
			{Entity: "Algorithms", Priority: 2},
		},
	}
	want := "### Roadmap: computer science\n\n" +
		"1. **Discrete Math**: foundation for proofs (priority 1)\n" +
		"2. **Algorithms** (priority 2)\n"
	assert.Equal(t, want, r.Markdown())
}

func TestMarkdownEmpty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "_No roadmap items._\n", domain.Roadmap{}.Markdown())
}
