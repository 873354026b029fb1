package manifest

import "sort"

// Node represents a module in the dependency graph.
type Node struct {
	Module   string  // Module name
	FileName string  // File defining the module; empty for external modules
	Children []*Edge // Outgoing edges to loaded modules
	Parents  []*Edge // Incoming edges from loading modules
}

// Edge represents a load relationship between two modules.
type Edge struct {
	From *Node
	To   *Node
}

// Graph is the module dependency graph of a manifest.
type Graph struct {
	Nodes map[string]*Node // All nodes indexed by module name
}

// NewGraph creates an empty dependency graph.
func NewGraph() *Graph {
	return &Graph{Nodes: make(map[string]*Node)}
}

// AddNode adds a node to the graph if it doesn't exist.
// Returns the existing or newly created node.
func (g *Graph) AddNode(module, fileName string) *Node {
	if existing, ok := g.Nodes[module]; ok {
		if existing.FileName == "" {
			existing.FileName = fileName
		}
		return existing
	}
	node := &Node{Module: module, FileName: fileName}
	g.Nodes[module] = node
	return node
}

// AddEdge adds a dependency edge between two nodes.
func (g *Graph) AddEdge(from, to *Node) *Edge {
	for _, e := range from.Children {
		if e.To == to {
			return e
		}
	}
	edge := &Edge{From: from, To: to}
	from.Children = append(from.Children, edge)
	to.Parents = append(to.Parents, edge)
	return edge
}

// GetNode returns the node for a module, or nil if not found.
func (g *Graph) GetNode(module string) *Node {
	return g.Nodes[module]
}

// External returns the referenced modules no file of the manifest
// defines, sorted.
func (g *Graph) External() []string {
	var out []string
	for _, n := range g.sortedNodes() {
		if n.FileName == "" {
			out = append(out, n.Module)
		}
	}
	return out
}

// sortedNodes returns the nodes ordered by module name so traversals are
// deterministic.
func (g *Graph) sortedNodes() []*Node {
	nodes := make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Module < nodes[j].Module })
	return nodes
}

func sortedChildren(n *Node) []*Node {
	out := make([]*Node, len(n.Children))
	for i, e := range n.Children {
		out[i] = e.To
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Module < out[j].Module })
	return out
}

// Graph builds the module dependency graph of m.
func (m *ModulesManifest) Graph() *Graph {
	g := NewGraph()
	for _, module := range m.Modules() {
		g.AddNode(module, m.moduleToFileName[module])
	}
	for _, module := range m.Modules() {
		from := g.Nodes[module]
		for _, ref := range m.ReferencedModules(from.FileName) {
			g.AddEdge(from, g.AddNode(ref, m.moduleToFileName[ref]))
		}
	}
	return g
}
