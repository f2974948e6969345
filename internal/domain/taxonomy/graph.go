package taxonomy

// DefaultMaxDepth bounds prerequisite traversal. The persistence layer does
// not enforce acyclicity, so the graph must never trust the edge set to
// terminate on its own.
const DefaultMaxDepth = 16

// Graph is the prerequisite adjacency map keyed by topic ID.
type Graph struct {
	topics map[string]Topic
}

// NewGraph builds a Graph from a topic list.
func NewGraph(topics []Topic) *Graph {
	m := make(map[string]Topic, len(topics))
	for _, t := range topics {
		m[t.ID] = t
	}
	return &Graph{topics: m}
}

// Topic looks up a topic by ID.
func (g *Graph) Topic(topicID string) (Topic, bool) {
	t, ok := g.topics[topicID]
	return t, ok
}

// Topics returns all topics in the graph.
func (g *Graph) Topics() []Topic {
	out := make([]Topic, 0, len(g.topics))
	for _, t := range g.topics {
		out = append(out, t)
	}
	return out
}

// PrerequisiteClosure returns the transitive prerequisite set of a topic.
// Traversal keeps a visited set and stops at maxDepth levels; if it hits the
// depth bound or a cycle, ok is false and the caller must treat the topic as
// not eligible rather than loop.
func (g *Graph) PrerequisiteClosure(topicID string, maxDepth int) (ids []string, ok bool) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	visited := make(map[string]bool)
	if !g.walk(topicID, topicID, visited, maxDepth) {
		return nil, false
	}
	for tid := range visited {
		ids = append(ids, tid)
	}
	return ids, true
}

func (g *Graph) walk(rootID, topicID string, visited map[string]bool, depth int) bool {
	if depth < 0 {
		return false
	}
	t, ok := g.topics[topicID]
	if !ok {
		// Dangling edge: nothing to require from a topic we cannot see.
		return true
	}
	for _, pre := range t.Prerequisites {
		if pre == rootID {
			return false // cycle back to the start
		}
		if visited[pre] {
			continue
		}
		visited[pre] = true
		if !g.walk(rootID, pre, visited, depth-1) {
			return false
		}
	}
	return true
}
