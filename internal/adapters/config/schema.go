package config

import (
	"gopkg.in/yaml.v3"
)

// ManifestFile is the on-disk asset manifest. The layout follows the
// asset-builder format (dependencies, paths, config) with extra sections for
// templates and vendor injection. JSON manifests parse as YAML.
type ManifestFile struct {
	Dependencies OrderedDependencies `yaml:"dependencies"`
	Paths        PathsDTO            `yaml:"paths"`
	Config       ConfigDTO           `yaml:"config"`
	Templates    *TemplatesDTO       `yaml:"templates"`
	Vendor       OrderedVendors      `yaml:"vendor"`
}

// PathsDTO holds the source and dist roots.
type PathsDTO struct {
	Source string `yaml:"source"`
	Dist   string `yaml:"dist"`
	Public string `yaml:"public"`
}

// ConfigDTO holds dev server and style settings.
type ConfigDTO struct {
	DevURL        string   `yaml:"devUrl"`
	Host          string   `yaml:"host"`
	Port          int      `yaml:"port"`
	ServeRoot     string   `yaml:"serveRoot"`
	ReloadMatch   []string `yaml:"reloadMatch"`
	MapSourceRoot string   `yaml:"mapSourceRoot"`
	MixinsDir     string   `yaml:"mixinsDir"`
}

// TemplatesDTO configures the template task.
type TemplatesDTO struct {
	Cwd  string   `yaml:"cwd"`
	Src  []string `yaml:"src"`
	Dest string   `yaml:"dest"`
}

// DependencyDTO is one bundle declaration.
type DependencyDTO struct {
	// Vendor files are concatenated before Files.
	Vendor []string `yaml:"vendor"`
	Files  []string `yaml:"files"`
}

// VendorDTO describes a library with a locally bundled replacement.
type VendorDTO struct {
	Match []string `yaml:"match"`
	CSS   []string `yaml:"css"`
	JS    []string `yaml:"js"`
}

// NamedDependency pairs a bundle name with its declaration.
type NamedDependency struct {
	Name string
	DependencyDTO
}

// OrderedDependencies keeps bundles in declaration order.
type OrderedDependencies []NamedDependency

// UnmarshalYAML decodes a mapping while preserving key order.
func (o *OrderedDependencies) UnmarshalYAML(value *yaml.Node) error {
	return decodeOrdered(value, func(name string, node *yaml.Node) error {
		var dto DependencyDTO
		if err := node.Decode(&dto); err != nil {
			return err
		}
		*o = append(*o, NamedDependency{Name: name, DependencyDTO: dto})
		return nil
	})
}

// NamedVendor pairs a library name with its declaration.
type NamedVendor struct {
	Name string
	VendorDTO
}

// OrderedVendors keeps vendor entries in declaration order.
type OrderedVendors []NamedVendor

// UnmarshalYAML decodes a mapping while preserving key order.
func (o *OrderedVendors) UnmarshalYAML(value *yaml.Node) error {
	return decodeOrdered(value, func(name string, node *yaml.Node) error {
		var dto VendorDTO
		if err := node.Decode(&dto); err != nil {
			return err
		}
		*o = append(*o, NamedVendor{Name: name, VendorDTO: dto})
		return nil
	})
}

// decodeOrdered calls fn for each key of a mapping node, in document order.
func decodeOrdered(value *yaml.Node, fn func(key string, node *yaml.Node) error) error {
	if value.Kind != yaml.MappingNode {
		return &yaml.TypeError{Errors: []string{"expected a mapping of names to declarations"}}
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		if err := fn(value.Content[i].Value, value.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}
