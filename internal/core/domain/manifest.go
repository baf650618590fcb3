package domain

import (
	"path"
	"strings"
)

// Bundle is a named group of source files concatenated into one output.
type Bundle struct {
	// Name is the output filename, e.g. "main.css".
	Name string
	// Globs are source patterns relative to the source root, in order.
	Globs []string
}

// Ext returns the bundle's output extension without the dot.
func (b Bundle) Ext() string {
	return strings.TrimPrefix(path.Ext(b.Name), ".")
}

// IsStyle reports whether the bundle produces a stylesheet.
func (b Bundle) IsStyle() bool {
	return b.Ext() == "css"
}

// VendorDependency describes a third-party library that has a locally
// bundled equivalent.
type VendorDependency struct {
	Name string
	// Match lists substrings identifying remote references to the library.
	Match []string
	// CSS and JS are public paths of the local files, relative to the dist root.
	CSS []string
	JS  []string
}

// TemplatePaths configures the template compiler task.
type TemplatePaths struct {
	// Cwd is the directory globs are resolved against.
	Cwd string
	// Src holds glob patterns relative to Cwd.
	Src []string
	// Dest is the layout output directory.
	Dest string
}

// DevServer configures the watch task's server.
type DevServer struct {
	// URL is the development site URL. When it carries an http(s) scheme the
	// server proxies to it, otherwise it names the host to bind.
	URL  string
	Host string
	Port int
	// Root is the directory served in static mode.
	Root string
}

// AssetManifest is the resolved pipeline configuration read from the manifest file.
type AssetManifest struct {
	// SourceRoot is the root of all asset sources.
	SourceRoot string
	// DistRoot is the root of all built assets.
	DistRoot string
	// PublicPath prefixes asset URLs written into HTML.
	PublicPath string
	// Bundles in declaration order.
	Bundles   []Bundle
	Templates TemplatePaths
	Server    DevServer
	Vendor    []VendorDependency
	// ReloadMatch holds patterns of written files that trigger live reload.
	ReloadMatch []string
	// MapSourceRoot is the sourceRoot recorded in emitted source maps.
	MapSourceRoot string
	// MixinsDir holds shared mixin definitions.
	MixinsDir string
}

// StyleBundles returns the stylesheet bundles in declaration order.
func (m *AssetManifest) StyleBundles() []Bundle {
	var out []Bundle
	for _, b := range m.Bundles {
		if b.IsStyle() {
			out = append(out, b)
		}
	}
	return out
}

// Config is everything a run needs: the frozen features record and the manifest.
type Config struct {
	Features Features
	Manifest AssetManifest
}
