package schema

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/ogm/internal/orm/descriptor"
)

func validatedClass(t *testing.T, d *descriptor.Class) *ClassDescriptor {
	t.Helper()
	r := Build([]*descriptor.Class{d})
	c, ok := r.Class(d.Name)
	require.True(t, ok)
	return c
}

func TestAnnotationValidator(t *testing.T) {
	v := NewAnnotationValidator()

	tests := []struct {
		name     string
		class    *descriptor.Class
		conflict bool
	}{
		{
			name:  "plain node entity",
			class: &descriptor.Class{Name: "x.User", Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}}},
		},
		{
			name: "node and relationship entity",
			class: &descriptor.Class{Name: "x.Odd", Annotations: []descriptor.Annotation{
				{Name: descriptor.NodeEntity}, {Name: descriptor.RelationshipEntity},
			}},
			conflict: true,
		},
		{
			// The check spans the whole type, so a transient member marks
			// a node entity as conflicting.
			name: "transient member on node entity",
			class: &descriptor.Class{
				Name:        "x.User",
				Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}},
				Fields: []descriptor.Member{
					{Name: "Cache", Signature: "string", Annotations: []descriptor.Annotation{{Name: descriptor.Transient}}},
				},
			},
			conflict: true,
		},
		{
			name: "annotations spread over methods",
			class: &descriptor.Class{
				Name:   "x.Edge",
				Fields: []descriptor.Member{{Name: "Weight", Signature: "int", Annotations: []descriptor.Annotation{{Name: descriptor.NodeEntity}}}},
				Methods: []descriptor.Member{
					{Name: "SetWeight", Signature: "int", Annotations: []descriptor.Annotation{{Name: descriptor.RelationshipEntity}}},
				},
			},
			conflict: true,
		},
		{
			name: "unrelated annotations",
			class: &descriptor.Class{
				Name:        "x.Rated",
				Annotations: []descriptor.Annotation{{Name: descriptor.RelationshipEntity}},
				Fields:      []descriptor.Member{{Name: "Stars", Signature: "int", Annotations: []descriptor.Annotation{{Name: descriptor.Property}}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(validatedClass(t, tt.class))
			if !tt.conflict {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrAnnotationConflict))
			assert.Contains(t, err.Error(), tt.class.Name)
		})
	}
}

func TestAnnotationValidator_CustomPairs(t *testing.T) {
	v := NewAnnotationValidator([2]string{"Audited", "Transient"})
	c := validatedClass(t, &descriptor.Class{
		Name:        "x.Log",
		Annotations: []descriptor.Annotation{{Name: "Audited"}, {Name: descriptor.NodeEntity}},
	})
	assert.NoError(t, v.Validate(c))
}
