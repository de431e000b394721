package commands

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/conduit-lang/ogm/internal/cli/ui"
	"github.com/conduit-lang/ogm/internal/graph"
	"github.com/conduit-lang/ogm/internal/orm/entity"
	"github.com/conduit-lang/ogm/internal/orm/schema"
)

func newDecodeCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <file.json|->",
		Short: "Summarise a graph response document",
		Long: `Decode a graph response ({"graph": {"nodes": [...], "relationships": [...]}})
and print its node label sets and relationship types.

When a domain is configured, every label set and relationship type is also
resolved to the class it would hydrate into.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := readModel(cmd, args[0])
			if err != nil {
				return err
			}

			cfg, err := opts.config()
			if err != nil {
				return err
			}
			var factory *entity.Factory
			if cfg.RequireDomain() == nil {
				s, err := openWith(cmd, cfg)
				if err != nil {
					return err
				}
				factory = entity.NewFactory(s.registry, entity.NewTable(), entity.WithFactoryLogger(s.logger))
			}

			summarise(cmd.OutOrStdout(), m, factory, opts.noColor)
			return nil
		},
	}
}

func readModel(cmd *cobra.Command, path string) (*graph.Model, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open %s", path)
		}
		defer f.Close()
		r = f
	}
	m, err := graph.DecodeReader(r)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}
	return m, nil
}

type tally struct {
	key   string
	count int
	class string
}

func summarise(w io.Writer, m *graph.Model, factory *entity.Factory, noColor bool) {
	kv := ui.NewKeyValue(w, noColor)
	kv.Add("nodes", fmt.Sprint(len(m.Nodes)))
	kv.Add("relationships", fmt.Sprint(len(m.Relationships)))
	kv.Render()

	nodes := make(map[string]*tally)
	for _, n := range m.Nodes {
		labels := append([]string(nil), n.Labels...)
		sort.Strings(labels)
		key := strings.Join(labels, ":")
		t, ok := nodes[key]
		if !ok {
			t = &tally{key: key, class: "-"}
			if factory != nil {
				t.class = resolved(factory.ResolveLabels(fmt.Sprintf("node %d", n.ID), n.Labels))
			}
			nodes[key] = t
		}
		t.count++
	}

	rels := make(map[string]*tally)
	for _, r := range m.Relationships {
		t, ok := rels[r.Type]
		if !ok {
			t = &tally{key: r.Type, class: "-"}
			if factory != nil && len(factory.Registry().RelationshipEntities(r.Type)) > 0 {
				t.class = resolved(factory.ResolveType(fmt.Sprintf("relationship %d", r.ID), r.Type))
			}
			rels[r.Type] = t
		}
		t.count++
	}

	fmt.Fprintln(w)
	renderTally(w, nodes, "LABELS", noColor)
	if len(rels) > 0 {
		fmt.Fprintln(w)
		renderTally(w, rels, "TYPE", noColor)
	}
}

func resolved(class *schema.ClassDescriptor, err error) string {
	if err != nil {
		return "unmappable"
	}
	return class.Name()
}

func renderTally(w io.Writer, tallies map[string]*tally, heading string, noColor bool) {
	keys := make([]string, 0, len(tallies))
	for k := range tallies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := ui.NewTable(w, noColor, heading, "COUNT", "CLASS")
	for _, k := range keys {
		t := tallies[k]
		table.AddRow(t.key, fmt.Sprint(t.count), t.class)
	}
	table.Render()
}
