package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/assetpipe/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/manifest"  //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/assetpipe/internal/core/ports"
	"go.trai.ch/assetpipe/internal/engine/scheduler"
	"go.trai.ch/assetpipe/internal/tasks/styles"
	"go.trai.ch/assetpipe/internal/tasks/templates"
	"go.trai.ch/assetpipe/internal/tasks/wiredep"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains the initialized components the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			scheduler.NodeID,
			templates.NodeID,
			styles.NodeID,
			wiredep.NodeID,
			manifest.PrunerNodeID,
			devserver.NodeID,
			watcher.WatcherNodeID,
			watcher.FilterNodeID,
			fs.WalkerNodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			app, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: app, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	sched, err := graft.Dep[*scheduler.Scheduler](ctx)
	if err != nil {
		return nil, err
	}
	templatesTask, err := graft.Dep[*templates.Task](ctx)
	if err != nil {
		return nil, err
	}
	stylesTask, err := graft.Dep[*styles.Task](ctx)
	if err != nil {
		return nil, err
	}
	wiredepTask, err := graft.Dep[*wiredep.Task](ctx)
	if err != nil {
		return nil, err
	}
	pruner, err := graft.Dep[*manifest.Pruner](ctx)
	if err != nil {
		return nil, err
	}
	server, err := graft.Dep[ports.DevServer](ctx)
	if err != nil {
		return nil, err
	}
	fileWatcher, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}
	filter, err := graft.Dep[*watcher.ContentFilter](ctx)
	if err != nil {
		return nil, err
	}
	walker, err := graft.Dep[*fs.Walker](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, sched, TerminalRenderers,
		Tasks{Templates: templatesTask, Styles: stylesTask, Wiredep: wiredepTask},
		pruner,
		WatchDeps{
			Server:   server,
			Watcher:  fileWatcher,
			Filter:   filter,
			Walker:   walker,
			Debounce: watcher.DefaultDebounceWindow,
		},
	), nil
}
