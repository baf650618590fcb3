// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/assetpipe/internal/adapters/config"
	_ "go.trai.ch/assetpipe/internal/adapters/devserver"
	_ "go.trai.ch/assetpipe/internal/adapters/fs"
	_ "go.trai.ch/assetpipe/internal/adapters/livereload"
	_ "go.trai.ch/assetpipe/internal/adapters/logger"
	_ "go.trai.ch/assetpipe/internal/adapters/manifest"
	_ "go.trai.ch/assetpipe/internal/adapters/styles"
	_ "go.trai.ch/assetpipe/internal/adapters/telemetry"
	_ "go.trai.ch/assetpipe/internal/adapters/templates"
	_ "go.trai.ch/assetpipe/internal/adapters/watcher"
	// Register task nodes.
	_ "go.trai.ch/assetpipe/internal/tasks/styles"
	_ "go.trai.ch/assetpipe/internal/tasks/templates"
	_ "go.trai.ch/assetpipe/internal/tasks/wiredep"
	// Register app and engine nodes.
	_ "go.trai.ch/assetpipe/internal/app"
	_ "go.trai.ch/assetpipe/internal/engine/scheduler"
)
