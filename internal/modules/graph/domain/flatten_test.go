package domain_test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kgview/internal/modules/graph/domain"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestFlattenSubjectExample(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":"CS","topics":[{"topic":"AI","definition":{"topics":[{"topic":"ML"}]}}]}`)
	nodes := domain.Flatten(domain.Normalize(raw, "The Brain"))

	require.Len(t, nodes, 3)
	assert.Equal(t, domain.RootID, nodes[0].ID)
	assert.Equal(t, "CS", nodes[0].Label)
	assert.Equal(t, 0, nodes[0].Depth)
	assert.Empty(t, nodes[0].ParentIDs)

	assert.Equal(t, "AI", nodes[1].Label)
	assert.Equal(t, 1, nodes[1].Depth)
	assert.Equal(t, []string{domain.RootID}, nodes[1].ParentIDs)

	assert.Equal(t, "ML", nodes[2].Label)
	assert.Equal(t, 2, nodes[2].Depth)
	assert.Equal(t, []string{nodes[1].ID}, nodes[2].ParentIDs)
}

func TestFlattenSentinelTitleSynthesisesRoot(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"title":"The Brain","definition":{"title":"organ","topics":[{"title":"Cortex"},{"title":"Cerebellum"}]}}`)
	doc := domain.Normalize(raw, "The Brain")
	require.Equal(t, domain.DocumentSentinel, doc.Kind)

	nodes := domain.Flatten(doc)
	require.Len(t, nodes, 3)
	assert.Equal(t, domain.RootID, nodes[0].ID)
	assert.Equal(t, "organ", nodes[0].Description)
	assert.Equal(t, 1, nodes[1].Depth)
	assert.Equal(t, 1, nodes[2].Depth)
	assertSingleRoot(t, nodes)
}

func TestFlattenTitledTreeRootIsTopNode(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"title":"Physics","topics":[{"title":"Optics"}]}`)
	doc := domain.Normalize(raw, "The Brain")
	require.Equal(t, domain.DocumentTitled, doc.Kind)

	nodes := domain.Flatten(doc)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Physics", nodes[0].Label)
	assert.Equal(t, 0, nodes[0].Depth)
	assert.Equal(t, []string{nodes[0].ID}, nodes[1].ParentIDs)
	assertSingleRoot(t, nodes)
}

func TestFlattenKeepsEmptyEntries(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":"S","topics":[{},{"definition":{}},{"topics":"not-a-list"},42,"Bare"]}`)
	nodes := domain.Flatten(domain.Normalize(raw, ""))

	require.Len(t, nodes, 6)
	assert.Equal(t, "", nodes[1].Label)
	assert.Equal(t, "", nodes[2].Label)
	assert.Equal(t, "", nodes[3].Label)
	assert.Equal(t, "", nodes[4].Label)
	assert.Equal(t, "Bare", nodes[5].Label)
	assertUniqueIDs(t, nodes)
}

func TestFlattenSiblingsWithSameLabelGetDistinctIDs(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":"S","topics":[{"title":"x"},{"title":"x"},{"title":"1:x"}]}`)
	nodes := domain.Flatten(domain.Normalize(raw, ""))
	assertUniqueIDs(t, nodes)
}

func TestFlattenIDsAreStableAcrossPasses(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":"S","topics":[{"title":"a","topics":[{"title":"b"}]}]}`)
	first := domain.Flatten(domain.Normalize(raw, ""))
	second := domain.Flatten(domain.Normalize(raw, ""))
	assert.Equal(t, first, second)
}

func TestFlattenDefinitionChildrenTakePrecedence(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":"S","topics":[{"title":"a","definition":{"topics":[{"title":"inner"}]},"topics":[{"title":"outer"}]}]}`)
	nodes := domain.Flatten(domain.Normalize(raw, ""))
	require.Len(t, nodes, 3)
	assert.Equal(t, "inner", nodes[2].Label)
}

func TestFlattenTopLevelList(t *testing.T) {
	t.Parallel()
	raw := decode(t, `[{"title":"a"},{"title":"b"}]`)
	nodes := domain.Flatten(domain.Normalize(raw, ""))
	require.Len(t, nodes, 3)
	assertSingleRoot(t, nodes)
}

func TestFlattenNumericAndBooleanLabels(t *testing.T) {
	t.Parallel()
	raw := decode(t, `{"subject":2024,"topics":[{"title":42},{"topic":7},{"title":0,"name":"zero"},{"title":true},{"title":1.5}]}`)
	nodes := domain.Flatten(domain.Normalize(raw, ""))
	labels := make([]string, 0, len(nodes))
	for _, n := range nodes {
		labels = append(labels, n.Label)
	}
	assert.Equal(t, []string{"2024", "42", "7", "zero", "true", "1.5"}, labels)

	// yaml.v3 and BurntSushi/toml decode integers as int and int64.
	tree := map[string]any{"title": int64(3), "topics": []any{map[string]any{"title": 9}}}
	nodes = domain.Flatten(domain.Normalize(tree, ""))
	require.Len(t, nodes, 2)
	assert.Equal(t, "3", nodes[0].Label)
	assert.Equal(t, "9", nodes[1].Label)
}

func TestFlattenScalarInputDegradesToSingleRoot(t *testing.T) {
	t.Parallel()
	for _, raw := range []any{nil, 3.5, true} {
		nodes := domain.Flatten(domain.Normalize(raw, ""))
		require.Len(t, nodes, 1)
		assert.Equal(t, "", nodes[0].Label)
		assertSingleRoot(t, nodes)
	}
}

func TestFlattenProperties(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		subject := rng.Intn(2) == 0
		var raw any
		entries := 0
		if subject {
			topics, n := randomTopics(rng, 0)
			raw = map[string]any{"subject": fmt.Sprintf("s%d", i), "topics": topics}
			entries = n + 1
		} else {
			root, n := randomTopic(rng, 0)
			raw = root
			entries = n
		}

		nodes := domain.Flatten(domain.Normalize(raw, "The Brain"))
		require.Len(t, nodes, entries, "tree %d", i)
		assertUniqueIDs(t, nodes)
		assertSingleRoot(t, nodes)
		assertParentsResolve(t, nodes)
	}
}

func randomTopics(rng *rand.Rand, depth int) ([]any, int) {
	if depth > 4 {
		return nil, 0
	}
	count := rng.Intn(4)
	out := make([]any, 0, count)
	total := 0
	for i := 0; i < count; i++ {
		t, n := randomTopic(rng, depth+1)
		out = append(out, t)
		total += n
	}
	return out, total
}

func randomTopic(rng *rand.Rand, depth int) (map[string]any, int) {
	labels := []string{"a", "b", "a b", "", "x:y", "topic-0"}
	node := map[string]any{}
	switch rng.Intn(3) {
	case 0:
		node["title"] = labels[rng.Intn(len(labels))]
	case 1:
		node["topic"] = labels[rng.Intn(len(labels))]
	}
	children, n := randomTopics(rng, depth)
	if len(children) > 0 {
		if rng.Intn(2) == 0 {
			node["topics"] = children
		} else {
			node["definition"] = map[string]any{"topics": children, "title": "desc"}
		}
	}
	return node, n + 1
}

func assertUniqueIDs(t *testing.T, nodes []domain.GraphNode) {
	t.Helper()
	seen := map[string]struct{}{}
	for _, n := range nodes {
		_, dup := seen[n.ID]
		require.False(t, dup, "duplicate id %q", n.ID)
		seen[n.ID] = struct{}{}
	}
}

func assertSingleRoot(t *testing.T, nodes []domain.GraphNode) {
	t.Helper()
	roots := 0
	for _, n := range nodes {
		if n.IsRoot() {
			roots++
		}
	}
	require.Equal(t, 1, roots)
}

func assertParentsResolve(t *testing.T, nodes []domain.GraphNode) {
	t.Helper()
	ids := map[string]struct{}{}
	for _, n := range nodes {
		ids[n.ID] = struct{}{}
	}
	for _, n := range nodes {
		if n.IsRoot() {
			continue
		}
		parent, ok := n.ParentID()
		require.True(t, ok, "node %q has no parent", n.ID)
		_, found := ids[parent]
		require.True(t, found, "node %q has dangling parent %q", n.ID, parent)
	}
}
