package graph

import (
	"maps"

	"github.com/cockroachdb/errors"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ErrUnsupportedValue is returned for record values that are neither nodes,
// relationships, paths nor lists of them.
var ErrUnsupportedValue = errors.New("unsupported graph value")

// FromRecords collects the nodes and relationships found in every value of
// every record. Scalars are skipped.
func FromRecords(records []*neo4j.Record) (*Model, error) {
	m := NewModel()
	for _, rec := range records {
		if rec == nil {
			continue
		}
		for _, v := range rec.Values {
			if err := m.add(v, true); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// FromValues collects the nodes and relationships in values. Anything else
// yields ErrUnsupportedValue.
func FromValues(values ...any) (*Model, error) {
	m := NewModel()
	for _, v := range values {
		if err := m.add(v, false); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Model) add(v any, skipScalars bool) error {
	switch t := v.(type) {
	case neo4j.Node:
		m.AddNode(fromNode(t))
	case *neo4j.Node:
		m.AddNode(fromNode(*t))
	case neo4j.Relationship:
		m.AddRelationship(fromRelationship(t))
	case *neo4j.Relationship:
		m.AddRelationship(fromRelationship(*t))
	case neo4j.Path:
		m.addPath(t)
	case *neo4j.Path:
		m.addPath(*t)
	case []any:
		for _, e := range t {
			if err := m.add(e, skipScalars); err != nil {
				return err
			}
		}
	default:
		if skipScalars {
			return nil
		}
		return errors.Wrapf(ErrUnsupportedValue, "%T", v)
	}
	return nil
}

func (m *Model) addPath(p neo4j.Path) {
	for _, n := range p.Nodes {
		m.AddNode(fromNode(n))
	}
	for _, r := range p.Relationships {
		m.AddRelationship(fromRelationship(r))
	}
}

func fromNode(n neo4j.Node) *Node {
	return &Node{
		ID:         n.Id, //nolint:staticcheck // numeric ids are the record identity
		Labels:     append([]string(nil), n.Labels...),
		Properties: maps.Clone(n.Props),
	}
}

func fromRelationship(r neo4j.Relationship) *Relationship {
	return &Relationship{
		ID:         r.Id,      //nolint:staticcheck
		Type:       r.Type,
		StartID:    r.StartId, //nolint:staticcheck
		EndID:      r.EndId,   //nolint:staticcheck
		Properties: maps.Clone(r.Props),
	}
}
