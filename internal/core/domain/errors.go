package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to add a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that doesn't exist in the graph.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when a cycle is detected in the task dependency graph.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not found in the graph.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetsSpecified is returned when no targets are specified for a run.
	ErrNoTargetsSpecified = zerr.New("no targets specified")

	// ErrBuildExecutionFailed is returned when the build execution fails.
	ErrBuildExecutionFailed = zerr.New("build execution failed")

	// ErrTaskExecutionFailed is returned when a task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrTaskRunnerMissing is returned when a task in the graph has no runner bound to it.
	ErrTaskRunnerMissing = zerr.New("no runner registered for task")

	// ErrManifestNotFound is returned when the asset manifest file does not exist.
	ErrManifestNotFound = zerr.New("asset manifest not found")

	// ErrManifestReadFailed is returned when the asset manifest cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read asset manifest")

	// ErrManifestParseFailed is returned when the asset manifest is malformed.
	ErrManifestParseFailed = zerr.New("failed to parse asset manifest")

	// ErrInvalidBundle is returned when a bundle declaration is unusable.
	ErrInvalidBundle = zerr.New("invalid bundle declaration")

	// ErrInvalidDevURL is returned when the configured dev server URL cannot be parsed.
	ErrInvalidDevURL = zerr.New("invalid dev server url")

	// ErrGlobFailed is returned when a glob pattern is malformed.
	ErrGlobFailed = zerr.New("failed to expand glob pattern")

	// ErrNoSourceFiles is returned when a bundle's globs match no files.
	ErrNoSourceFiles = zerr.New("bundle globs matched no files")

	// ErrTemplateCompileFailed is returned when a template cannot be compiled.
	ErrTemplateCompileFailed = zerr.New("failed to compile template")

	// ErrNoCompiler is returned when no compiler is registered for a template extension.
	ErrNoCompiler = zerr.New("no compiler for template extension")

	// ErrStyleTransformFailed is returned when a stylesheet transform fails.
	ErrStyleTransformFailed = zerr.New("stylesheet transform failed")

	// ErrImportNotFound is returned when a stylesheet import matches no file.
	ErrImportNotFound = zerr.New("import not found")

	// ErrImportCycle is returned when stylesheet imports form a cycle.
	ErrImportCycle = zerr.New("import cycle detected")

	// ErrUndefinedVariable is returned when a stylesheet references an undefined variable.
	ErrUndefinedVariable = zerr.New("undefined variable")

	// ErrUndefinedMixin is returned when a stylesheet includes an undefined mixin.
	ErrUndefinedMixin = zerr.New("undefined mixin")

	// ErrMixinDepthExceeded is returned when mixin expansion nests too deeply.
	ErrMixinDepthExceeded = zerr.New("mixin expansion too deep")

	// ErrUnbalancedBlock is returned when braces in a stylesheet do not balance.
	ErrUnbalancedBlock = zerr.New("unbalanced block")

	// ErrBundleFailed is returned when a bundle cannot be built.
	ErrBundleFailed = zerr.New("bundle build failed")

	// ErrFileReadFailed is returned when a source file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when an output file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrRevisionManifestReadFailed is returned when the revision manifest cannot be read.
	ErrRevisionManifestReadFailed = zerr.New("failed to read revision manifest")

	// ErrRevisionManifestParseFailed is returned when the revision manifest on disk is malformed.
	ErrRevisionManifestParseFailed = zerr.New("failed to parse revision manifest")

	// ErrRevisionManifestWriteFailed is returned when the revision manifest cannot be written.
	ErrRevisionManifestWriteFailed = zerr.New("failed to write revision manifest")

	// ErrInjectFailed is returned when dependency injection into a layout fails.
	ErrInjectFailed = zerr.New("failed to inject dependencies")

	// ErrWatchFailed is returned when a watch subscription cannot be established.
	ErrWatchFailed = zerr.New("failed to watch directory")

	// ErrServerFailed is returned when the dev server stops unexpectedly.
	ErrServerFailed = zerr.New("dev server failed")
)
