package domain

const (
	// DefaultManifestPath is the asset manifest location relative to the working directory.
	DefaultManifestPath = "source/asset-manifest.json"

	// DefaultSourceRoot is the asset source root when the manifest omits it.
	DefaultSourceRoot = "source/"

	// DefaultDistRoot is the built asset root when the manifest omits it.
	DefaultDistRoot = "static/assets/"

	// DefaultTemplateCwd is the directory template globs resolve against.
	DefaultTemplateCwd = "source"

	// DefaultTemplateGlob matches template sources below DefaultTemplateCwd.
	DefaultTemplateGlob = "templates/**/*.pug"

	// DefaultLayoutDir receives compiled templates.
	DefaultLayoutDir = "layouts"

	// DefaultDevPort is the dev server port.
	DefaultDevPort = 8100

	// DefaultDevHost is the dev server bind host.
	DefaultDevHost = "localhost"

	// DefaultReloadMatch selects written files that are pushed to live reload clients.
	DefaultReloadMatch = "**/*.{js,css}"

	// DefaultMapSourceRoot is the sourceRoot recorded in stylesheet maps.
	DefaultMapSourceRoot = "static/assets/styles/"

	// DefaultMixinsDir holds shared mixin definitions, relative to the source root.
	DefaultMixinsDir = "scripts/postcss/mixins"

	// RevisionManifestName is the revision manifest filename under the dist root.
	RevisionManifestName = "assets.json"

	// StylesDir is the dist subdirectory that receives stylesheet bundles.
	StylesDir = "styles"

	// HTMLExt is the extension of compiled templates.
	HTMLExt = ".html"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)
