package descriptor

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Manifest is the on-disk form of a descriptor stream.
//
//	package: example.com/bike
//	classes:
//	  - name: Bike
//	    fields:
//	      - {name: id, signature: "*int64"}
//
// Class, superclass and interface names without a package qualifier are
// qualified with Package.
type Manifest struct {
	Package string   `yaml:"package"`
	Classes []*Class `yaml:"classes"`
}

// LoadManifest decodes a YAML manifest.
func LoadManifest(r io.Reader) ([]*Class, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to decode descriptor manifest")
	}

	for i, c := range m.Classes {
		if c == nil || c.Name == "" {
			return nil, errors.Newf("manifest class #%d has no name", i)
		}
		qualify(c, m.Package)
	}
	return m.Classes, nil
}

// LoadManifestFile decodes the manifest at path.
func LoadManifestFile(path string) ([]*Class, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open manifest %s", path)
	}
	defer f.Close()

	classes, err := LoadManifest(f)
	if err != nil {
		return nil, errors.WithDetailf(err, "manifest: %s", path)
	}
	return classes, nil
}

func qualify(c *Class, pkg string) {
	if pkg == "" {
		return
	}
	c.Name = qualifyName(c.Name, pkg)
	if !IsRoot(c.Superclass) {
		c.Superclass = qualifyName(c.Superclass, pkg)
	}
	for i, iface := range c.Interfaces {
		c.Interfaces[i] = qualifyName(iface, pkg)
	}
}

func qualifyName(name, pkg string) string {
	if SimpleName(name) != name {
		return name
	}
	return pkg + "." + name
}
