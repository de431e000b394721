package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/ogm/internal/cli/ui"
	"github.com/conduit-lang/ogm/internal/orm/convert"
	"github.com/conduit-lang/ogm/internal/orm/descriptor"
	"github.com/conduit-lang/ogm/internal/orm/schema"
)

type classView struct {
	Name             string       `json:"name"`
	Kind             string       `json:"kind"`
	Superclass       string       `json:"superclass,omitempty"`
	Labels           []string     `json:"labels,omitempty"`
	RelationshipType string       `json:"relationship_type,omitempty"`
	Interfaces       []string     `json:"interfaces,omitempty"`
	EnumValues       []string     `json:"enum_values,omitempty"`
	Members          []memberView `json:"members,omitempty"`
}

type memberView struct {
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	Signature      string `json:"signature"`
	Classification string `json:"classification"`
	StoredAs       string `json:"stored_as"`
	Direction      string `json:"direction,omitempty"`
	Converter      string `json:"converter,omitempty"`
}

func newInspectCommand(opts *globalOptions) *cobra.Command {
	var (
		className string
		format    string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List mapped classes or show one class in detail",
		Long: `List every class the registry knows with its kind, labels and superclass,
or show one class with each member's classification, stored name and
converter.`,
		Example: `  # List all classes
  ogm inspect --manifest model/bike.yaml

  # Show one class by simple or fully-qualified name
  ogm inspect --class Bike

  # JSON for tooling
  ogm inspect --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "table" && format != "json" {
				return errors.Newf("--format must be table or json, got %q", format)
			}
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			var views []classView
			if className != "" {
				class, err := lookupClass(cmd, s.registry, className, opts.noColor)
				if err != nil {
					return err
				}
				views = []classView{describeClass(class, true)}
			} else {
				for _, class := range s.registry.Classes() {
					views = append(views, describeClass(class, false))
				}
			}

			out := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			if className != "" {
				renderClass(out, views[0], opts.noColor)
				return nil
			}
			renderClasses(out, views, opts.noColor)
			return nil
		},
	}

	cmd.Flags().StringVar(&className, "class", "", "Show one class by simple or fully-qualified name")
	cmd.Flags().StringVar(&format, "format", "table", "Output format: table or json")
	return cmd
}

// lookupClass finds a class by fully-qualified name, then by simple name,
// printing a diagnostic on failure.
func lookupClass(cmd *cobra.Command, reg *schema.Registry, name string, noColor bool) (*schema.ClassDescriptor, error) {
	if class, ok := reg.Class(name); ok {
		return class, nil
	}

	class, err := reg.ClassBySimpleName(name)
	var ambiguous *schema.AmbiguousNameError
	if errors.As(err, &ambiguous) {
		fmt.Fprint(cmd.ErrOrStderr(), ui.AmbiguousClass(name, ambiguous.Candidates, noColor))
		return nil, err
	}
	if class == nil {
		var names []string
		for _, c := range reg.Classes() {
			names = append(names, c.SimpleName())
		}
		fmt.Fprint(cmd.ErrOrStderr(), ui.ClassNotFound(name, ui.Suggest(name, names), noColor))
		return nil, errors.Newf("class %s not found", name)
	}
	return class, nil
}

func classKind(c *schema.ClassDescriptor) string {
	switch {
	case c.IsEnum():
		return "enum"
	case c.IsInterface():
		return "interface"
	case c.RelationshipType() != "":
		return "relationship"
	case c.Annotations().Has(descriptor.NodeEntity):
		return "node"
	default:
		return "class"
	}
}

func describeClass(c *schema.ClassDescriptor, members bool) classView {
	v := classView{
		Name:             c.Name(),
		Kind:             classKind(c),
		Superclass:       c.SuperclassName(),
		RelationshipType: c.RelationshipType(),
		Interfaces:       c.Interfaces(),
		EnumValues:       c.EnumValues(),
	}
	if descriptor.IsRoot(v.Superclass) {
		v.Superclass = ""
	}
	if v.Kind == "node" || v.Kind == "class" {
		v.Labels = c.Labels()
	}
	if !members {
		return v
	}

	for _, f := range c.Fields() {
		v.Members = append(v.Members, describeMember(f, "field"))
	}
	for _, m := range c.Methods() {
		v.Members = append(v.Members, describeMember(m, "method"))
	}
	return v
}

func describeMember(m schema.Member, kind string) memberView {
	v := memberView{
		Name:      m.Name(),
		Kind:      kind,
		Signature: m.Signature(),
		Converter: converterName(m.Converter()),
	}
	if m.IsScalar() {
		v.Classification = "property"
		v.StoredAs = m.Property()
	} else {
		v.Classification = "relationship"
		v.StoredAs = m.Relationship()
		v.Direction = m.Direction()
	}
	return v
}

func converterName(c convert.Converter) string {
	if c == nil {
		return ""
	}
	name := fmt.Sprintf("%T", c)
	name = strings.TrimPrefix(name, "*")
	return strings.TrimPrefix(name, "convert.")
}

func renderClasses(w io.Writer, views []classView, noColor bool) {
	table := ui.NewTable(w, noColor, "CLASS", "KIND", "SUPERCLASS", "LABELS / TYPE")
	for _, v := range views {
		labels := strings.Join(v.Labels, ", ")
		if v.RelationshipType != "" {
			labels = v.RelationshipType
		}
		table.AddRow(v.Name, v.Kind, v.Superclass, labels)
	}
	table.Render()
	fmt.Fprintf(w, "\n%d classes\n", len(views))
}

func renderClass(w io.Writer, v classView, noColor bool) {
	ui.Header(w, v.Name, noColor)

	kv := ui.NewKeyValue(w, noColor)
	kv.Add("kind", v.Kind)
	if v.Superclass != "" {
		kv.Add("superclass", v.Superclass)
	}
	if len(v.Labels) > 0 {
		kv.Add("labels", strings.Join(v.Labels, ", "))
	}
	if v.RelationshipType != "" {
		kv.Add("relationship type", v.RelationshipType)
	}
	if len(v.Interfaces) > 0 {
		kv.Add("interfaces", strings.Join(v.Interfaces, ", "))
	}
	if len(v.EnumValues) > 0 {
		kv.Add("values", strings.Join(v.EnumValues, ", "))
	}
	kv.Render()

	if len(v.Members) == 0 {
		return
	}
	fmt.Fprintln(w)
	table := ui.NewTable(w, noColor, "MEMBER", "KIND", "SIGNATURE", "MAPPED AS", "STORED AS", "CONVERTER")
	for _, m := range v.Members {
		stored := m.StoredAs
		if m.Direction != "" {
			stored += " (" + strings.ToLower(m.Direction) + ")"
		}
		table.AddRow(m.Name, m.Kind, m.Signature, m.Classification, stored, m.Converter)
	}
	table.Render()
}
