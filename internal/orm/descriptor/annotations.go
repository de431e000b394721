package descriptor

import "strings"

// Well-known annotation names.
const (
	NodeEntity         = "NodeEntity"
	RelationshipEntity = "RelationshipEntity"
	Relationship       = "Relationship"
	Property           = "Property"
	GraphID            = "GraphId"
	Transient          = "Transient"
	Convert            = "Convert"
	StartNode          = "StartNode"
	EndNode            = "EndNode"
)

// Well-known annotation attributes.
const (
	AttrLabel     = "label"
	AttrName      = "name"
	AttrType      = "type"
	AttrDirection = "direction"
	AttrConverter = "converter"
)

// tagAliases maps short struct-tag spellings onto annotation names.
var tagAliases = map[string]string{
	"node":         NodeEntity,
	"rel_entity":   RelationshipEntity,
	"relationship": Relationship,
	"rel":          Relationship,
	"property":     Property,
	"prop":         Property,
	"id":           GraphID,
	"transient":    Transient,
	"-":            Transient,
	"convert":      Convert,
	"start":        StartNode,
	"end":          EndNode,
}

// ParseTag parses an ogm struct tag value into annotations.
//
// Items are comma separated. A bare item starts a new annotation; a
// key=value item adds an attribute to the annotation before it. A leading
// key=value item opens the annotation its key implies: name goes to
// Property, type and direction to Relationship, converter to Convert.
//
//	`ogm:"property,name=wheel_count"`
//	`ogm:"relationship,type=HAS_WHEEL,direction=INCOMING"`
//	`ogm:"id"`
func ParseTag(tag string) []Annotation {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return nil
	}

	var out []Annotation
	for _, item := range strings.Split(tag, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key, value, isAttr := strings.Cut(item, "=")
		if !isAttr {
			out = append(out, Annotation{Name: annotationName(item)})
			continue
		}
		if len(out) == 0 {
			out = append(out, Annotation{Name: implicitAnnotation(key)})
		}
		last := &out[len(out)-1]
		if last.Attributes == nil {
			last.Attributes = make(map[string]string)
		}
		last.Attributes[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return out
}

// ParseDirective parses a "//ogm:Name key=value ..." comment line. It returns
// false when the line is not an ogm directive.
func ParseDirective(line string) (Annotation, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "//ogm:")
	if !ok {
		return Annotation{}, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return Annotation{}, false
	}

	a := Annotation{Name: annotationName(fields[0])}
	for _, f := range fields[1:] {
		key, value, ok := strings.Cut(f, "=")
		if !ok {
			continue
		}
		if a.Attributes == nil {
			a.Attributes = make(map[string]string)
		}
		a.Attributes[key] = strings.Trim(value, `"`)
	}
	return a, true
}

func annotationName(s string) string {
	if name, ok := tagAliases[strings.ToLower(s)]; ok {
		return name
	}
	return s
}

func implicitAnnotation(key string) string {
	switch key {
	case AttrType, AttrDirection:
		return Relationship
	case AttrConverter:
		return Convert
	default:
		return Property
	}
}
