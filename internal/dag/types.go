package dag

import "sync"

// Graph holds string-keyed vertices and the edges between them. It is safe
// for concurrent use.
type Graph struct {
	mutex sync.RWMutex
	nodes map[string]*node
	// order is the insertion order of node IDs; it breaks ties in sorts.
	order []string
}

// node is a vertex. Callers only ever see its ID.
type node struct {
	id string
	// deps are the vertices this one waits for.
	deps map[string]*node
	// dependents are the vertices waiting for this one.
	dependents map[string]*node
}

// Edge is a directed dependency: To depends on From.
type Edge struct {
	From string
	To   string
}
