// Package graph holds the node and relationship records a query result is
// made of, plus decoders that produce them from a REST graph response or from
// Neo4j driver values.
package graph

// Node is one node record of a query result.
type Node struct {
	ID         int64          `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

// Relationship is one relationship record of a query result.
type Relationship struct {
	ID         int64          `json:"id"`
	Type       string         `json:"type"`
	StartID    int64          `json:"startNode"`
	EndID      int64          `json:"endNode"`
	Properties map[string]any `json:"properties"`
}

// Model is the set of records returned by one query. Records keep the order
// in which they were first added; duplicates by id are ignored.
type Model struct {
	Nodes         []*Node
	Relationships []*Relationship

	nodeIndex map[int64]*Node
	relIndex  map[int64]*Relationship
}

// NewModel creates an empty model.
func NewModel() *Model {
	return &Model{
		nodeIndex: make(map[int64]*Node),
		relIndex:  make(map[int64]*Relationship),
	}
}

func (m *Model) ensureIndex() {
	if m.nodeIndex == nil {
		m.nodeIndex = make(map[int64]*Node, len(m.Nodes))
		for _, n := range m.Nodes {
			m.nodeIndex[n.ID] = n
		}
	}
	if m.relIndex == nil {
		m.relIndex = make(map[int64]*Relationship, len(m.Relationships))
		for _, r := range m.Relationships {
			m.relIndex[r.ID] = r
		}
	}
}

// AddNode appends n unless a node with the same id is already present.
func (m *Model) AddNode(n *Node) bool {
	m.ensureIndex()
	if _, ok := m.nodeIndex[n.ID]; ok {
		return false
	}
	m.nodeIndex[n.ID] = n
	m.Nodes = append(m.Nodes, n)
	return true
}

// AddRelationship appends r unless a relationship with the same id is
// already present.
func (m *Model) AddRelationship(r *Relationship) bool {
	m.ensureIndex()
	if _, ok := m.relIndex[r.ID]; ok {
		return false
	}
	m.relIndex[r.ID] = r
	m.Relationships = append(m.Relationships, r)
	return true
}

// Node returns the node with the given id.
func (m *Model) Node(id int64) (*Node, bool) {
	m.ensureIndex()
	n, ok := m.nodeIndex[id]
	return n, ok
}

// Relationship returns the relationship with the given id.
func (m *Model) Relationship(id int64) (*Relationship, bool) {
	m.ensureIndex()
	r, ok := m.relIndex[id]
	return r, ok
}
