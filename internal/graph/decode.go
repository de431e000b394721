package graph

import (
	"bytes"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
)

// ErrMissingGraph is returned when a response has no graph section.
var ErrMissingGraph = errors.New("response has no graph section")

// wireID accepts an identity written either as a JSON number or as a string,
// as the REST endpoint does.
type wireID int64

func (id *wireID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid id %q", s)
		}
		*id = wireID(n)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.Wrapf(err, "invalid id %s", b)
	}
	*id = wireID(n)
	return nil
}

type wireNode struct {
	ID         wireID         `json:"id"`
	Labels     []string       `json:"labels"`
	Properties map[string]any `json:"properties"`
}

type wireRelationship struct {
	ID         wireID         `json:"id"`
	Type       string         `json:"type"`
	StartNode  wireID         `json:"startNode"`
	EndNode    wireID         `json:"endNode"`
	Properties map[string]any `json:"properties"`
}

type wireGraph struct {
	Nodes         []wireNode         `json:"nodes"`
	Relationships []wireRelationship `json:"relationships"`
}

type wireResponse struct {
	Graph *wireGraph `json:"graph"`
}

// Decode parses a graph response of the form
//
//	{"graph": {"nodes": [...], "relationships": [...]}}
//
// Node and relationship ids may be numbers or numeric strings. Integral
// property values decode to int64, other numbers to float64.
func Decode(data []byte) (*Model, error) {
	return DecodeReader(bytes.NewReader(data))
}

// DecodeReader is Decode over a stream.
func DecodeReader(r io.Reader) (*Model, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var resp wireResponse
	if err := dec.Decode(&resp); err != nil {
		return nil, errors.Wrap(err, "failed to decode graph response")
	}
	if resp.Graph == nil {
		return nil, ErrMissingGraph
	}

	m := NewModel()
	for _, n := range resp.Graph.Nodes {
		m.AddNode(&Node{
			ID:         int64(n.ID),
			Labels:     n.Labels,
			Properties: normalizeProperties(n.Properties),
		})
	}
	for _, r := range resp.Graph.Relationships {
		m.AddRelationship(&Relationship{
			ID:         int64(r.ID),
			Type:       r.Type,
			StartID:    int64(r.StartNode),
			EndID:      int64(r.EndNode),
			Properties: normalizeProperties(r.Properties),
		})
	}
	return m, nil
}

func normalizeProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = normalize(v)
	}
	return out
}

func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		return normalizeProperties(t)
	default:
		return v
	}
}
