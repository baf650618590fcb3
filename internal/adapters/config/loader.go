// Package config loads the asset manifest and resolves the run configuration.
package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.trai.ch/assetpipe/internal/core/domain"
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.ConfigLoader = (*Loader)(nil)

// Loader implements ports.ConfigLoader for asset-builder style manifests.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load reads the manifest named by opts (relative to cwd) and derives the
// frozen run configuration.
func (l *Loader) Load(cwd string, opts domain.Options) (*domain.Config, error) {
	manifestPath := opts.ManifestPath
	if manifestPath == "" {
		manifestPath = domain.DefaultManifestPath
	}
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(cwd, manifestPath)
	}

	file, err := readManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	manifest, err := l.resolve(cwd, file, opts)
	if err != nil {
		return nil, zerr.With(err, "path", manifestPath)
	}

	return &domain.Config{
		Features: domain.NewFeatures(opts.Production).WithOverrides(opts.Revision, opts.SourceMaps),
		Manifest: *manifest,
	}, nil
}

func readManifest(path string) (*ManifestFile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrManifestNotFound, "path", path)
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		data = detab(data)
	}

	var file ManifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrManifestParseFailed.Error()), "path", path)
	}
	return &file, nil
}

// detab replaces tabs outside string literals with spaces. JSON allows tab
// indentation, YAML does not.
func detab(data []byte) []byte {
	out := make([]byte, len(data))
	inString := false
	escaped := false
	for i, c := range data {
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == '\t':
			c = ' '
		}
		out[i] = c
	}
	return out
}

func (l *Loader) resolve(cwd string, file *ManifestFile, opts domain.Options) (*domain.AssetManifest, error) {
	source := orDefault(file.Paths.Source, domain.DefaultSourceRoot)
	dist := orDefault(file.Paths.Dist, domain.DefaultDistRoot)

	m := &domain.AssetManifest{
		SourceRoot:    absPath(cwd, source),
		DistRoot:      absPath(cwd, dist),
		PublicPath:    publicPath(file.Paths.Public, dist),
		MapSourceRoot: orDefault(file.Config.MapSourceRoot, domain.DefaultMapSourceRoot),
		ReloadMatch:   file.Config.ReloadMatch,
	}
	if len(m.ReloadMatch) == 0 {
		m.ReloadMatch = []string{domain.DefaultReloadMatch}
	}

	m.MixinsDir = filepath.Join(m.SourceRoot, filepath.FromSlash(domain.DefaultMixinsDir))
	if file.Config.MixinsDir != "" {
		m.MixinsDir = absPath(cwd, file.Config.MixinsDir)
	}

	bundles, err := toBundles(file.Dependencies)
	if err != nil {
		return nil, err
	}
	m.Bundles = bundles

	m.Templates = domain.TemplatePaths{
		Cwd:  absPath(cwd, domain.DefaultTemplateCwd),
		Src:  []string{domain.DefaultTemplateGlob},
		Dest: absPath(cwd, domain.DefaultLayoutDir),
	}
	if t := file.Templates; t != nil {
		if t.Cwd != "" {
			m.Templates.Cwd = absPath(cwd, t.Cwd)
		}
		if len(t.Src) > 0 {
			m.Templates.Src = t.Src
		}
		if t.Dest != "" {
			m.Templates.Dest = absPath(cwd, t.Dest)
		}
	}

	server, err := resolveServer(cwd, file.Config, m.DistRoot, opts)
	if err != nil {
		return nil, err
	}
	m.Server = server

	for _, v := range file.Vendor {
		m.Vendor = append(m.Vendor, domain.VendorDependency{
			Name:  v.Name,
			Match: v.Match,
			CSS:   v.CSS,
			JS:    v.JS,
		})
	}

	if len(m.StyleBundles()) == 0 && l.Logger != nil {
		l.Logger.Warn("manifest declares no stylesheet bundles")
	}

	return m, nil
}

func toBundles(deps OrderedDependencies) ([]domain.Bundle, error) {
	bundles := make([]domain.Bundle, 0, len(deps))
	for _, dep := range deps {
		if strings.TrimSpace(dep.Name) == "" {
			return nil, zerr.With(domain.ErrInvalidBundle, "reason", "empty bundle name")
		}

		globs := make([]string, 0, len(dep.Vendor)+len(dep.Files))
		globs = append(globs, dep.Vendor...)
		globs = append(globs, dep.Files...)

		b := domain.Bundle{Name: dep.Name, Globs: globs}
		if b.IsStyle() && len(globs) == 0 {
			return nil, zerr.With(zerr.With(domain.ErrInvalidBundle, "reason", "no source files"), "bundle", dep.Name)
		}
		bundles = append(bundles, b)
	}
	return bundles, nil
}

// resolveServer applies host and port precedence: flags, then the manifest
// config section, then the dev URL, then defaults.
func resolveServer(cwd string, cfg ConfigDTO, distRoot string, opts domain.Options) (domain.DevServer, error) {
	server := domain.DevServer{
		URL:  cfg.DevURL,
		Root: filepath.Dir(distRoot),
	}
	if cfg.ServeRoot != "" {
		server.Root = absPath(cwd, cfg.ServeRoot)
	}

	var urlHost string
	var urlPort int
	if cfg.DevURL != "" {
		h, p, err := parseDevURL(cfg.DevURL)
		if err != nil {
			return domain.DevServer{}, err
		}
		urlHost, urlPort = h, p
	}

	server.Host = firstNonEmpty(opts.Host, cfg.Host, urlHost, domain.DefaultDevHost)
	server.Port = firstPositive(opts.Port, cfg.Port, urlPort, domain.DefaultDevPort)

	return server, nil
}

// parseDevURL extracts host and port from a dev URL. A URL with a scheme is a
// proxy target and only contributes its host. A bare value names the host to
// bind, optionally with a port.
func parseDevURL(raw string) (string, int, error) {
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", 0, zerr.With(zerr.Wrap(err, domain.ErrInvalidDevURL.Error()), "dev_url", raw)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", 0, zerr.With(domain.ErrInvalidDevURL, "dev_url", raw)
		}
		return "", 0, nil
	}

	host, portStr, err := net.SplitHostPort(raw)
	if err != nil {
		return strings.TrimSuffix(raw, "/"), 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return "", 0, zerr.With(domain.ErrInvalidDevURL, "dev_url", raw)
	}
	return host, port, nil
}

// publicPath derives the URL prefix of built assets. The first path segment
// of the dist root is the web root unless configured otherwise.
func publicPath(configured, dist string) string {
	p := configured
	if p == "" {
		p = filepath.ToSlash(filepath.Clean(dist))
		if _, rest, ok := strings.Cut(p, "/"); ok {
			p = rest
		}
	}
	p = "/" + strings.Trim(p, "/")
	if p != "/" {
		p += "/"
	}
	return p
}

func absPath(cwd, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(cwd, filepath.FromSlash(p))
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
