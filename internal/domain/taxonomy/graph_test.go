package taxonomy_test

import (
	"testing"

	"github.com/quizhabit/backend/internal/domain/taxonomy"
)

func TestPrerequisiteClosure_Transitive(t *testing.T) {
	graph := taxonomy.NewGraph([]taxonomy.Topic{
		{ID: "a"},
		{ID: "b", Prerequisites: []string{"a"}},
		{ID: "c", Prerequisites: []string{"b"}},
	})

	ids, ok := graph.PrerequisiteClosure("c", 0)
	if !ok {
		t.Fatal("expected traversal to succeed")
	}
	if len(ids) != 2 {
		t.Errorf("expected closure {a, b}, got %v", ids)
	}
}

func TestPrerequisiteClosure_NoPrerequisites(t *testing.T) {
	graph := taxonomy.NewGraph([]taxonomy.Topic{{ID: "a"}})

	ids, ok := graph.PrerequisiteClosure("a", 0)
	if !ok {
		t.Fatal("expected traversal to succeed")
	}
	if len(ids) != 0 {
		t.Errorf("expected empty closure, got %v", ids)
	}
}

func TestPrerequisiteClosure_CycleDetected(t *testing.T) {
	graph := taxonomy.NewGraph([]taxonomy.Topic{
		{ID: "a", Prerequisites: []string{"b"}},
		{ID: "b", Prerequisites: []string{"a"}},
	})

	if _, ok := graph.PrerequisiteClosure("a", 0); ok {
		t.Error("a cycle back to the root must fail the traversal")
	}
}

func TestPrerequisiteClosure_DepthBounded(t *testing.T) {
	// Chain deeper than the traversal bound.
	topics := []taxonomy.Topic{{ID: topicID(0)}}
	for i := 1; i <= 30; i++ {
		topics = append(topics, taxonomy.Topic{
			ID:            topicID(i),
			Prerequisites: []string{topicID(i - 1)},
		})
	}
	graph := taxonomy.NewGraph(topics)

	if _, ok := graph.PrerequisiteClosure(topicID(30), 16); ok {
		t.Error("a chain deeper than the bound must fail the traversal")
	}
}

func TestPrerequisiteClosure_DanglingEdgeTolerated(t *testing.T) {
	graph := taxonomy.NewGraph([]taxonomy.Topic{
		{ID: "a", Prerequisites: []string{"ghost"}},
	})

	ids, ok := graph.PrerequisiteClosure("a", 0)
	if !ok {
		t.Fatal("a dangling prerequisite edge must not fail the traversal")
	}
	if len(ids) != 1 || ids[0] != "ghost" {
		t.Errorf("expected the dangling id in the closure, got %v", ids)
	}
}

func topicID(i int) string {
	return "t" + string(rune('0'+i/10)) + string(rune('0'+i%10))
}
