package internal

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/buildmill/buildmill/internal/build"
	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// registerBuiltinTasks installs the static task table: the build, config,
// and generate namespaces with their canonical handlers. Plugins extend
// the registry after this table is in place.
func registerBuiltinTasks(reg *core.Registry, b *build.Builder, writer *core.ConfigWriter, settings *models.Settings) {
	type targetOp func(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error

	// forTargets resolves the targets option and runs op once per target
	// concurrently. All started targets run to completion; the first error
	// wins.
	forTargets := func(strict bool, op targetOp) core.Handler {
		return func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
			raw, _ := opts.Option("targets")
			targets := core.ResolveTargets(raw, settings.DefaultTargets, strict)

			var g errgroup.Group
			for _, target := range targets {
				g.Go(func() error {
					return op(ctx, target, opts, ws)
				})
			}
			return targets, g.Wait()
		}
	}

	// --- build namespace ---

	reg.Register("build", "config", forTargets(true, b.WriteTargetConfig))
	reg.Register("build", "core", forTargets(true, b.CoreAssets))
	reg.Register("build", "themes", forTargets(true, b.Themes))
	reg.Register("build", "manifest", forTargets(true, b.WriteManifest))
	reg.Register("build", "packages", forTargets(true, b.AllPackages))

	reg.Register("build", "package", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name := opts.OptionDefault("name", "")
		if err := core.ValidatePackageName(name); err != nil {
			return nil, err
		}
		h := forTargets(true, func(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
			return b.Package(ctx, target, opts, ws, name)
		})
		return h(ctx, opts, ws)
	})

	// --- config namespace ---

	requireOption := func(opts core.Options, name string) (string, error) {
		v, ok := opts.Option(name)
		if !ok || v == "" {
			return "", fmt.Errorf("%w: the %s option is required", core.ErrInvalidArgument, name)
		}
		return v, nil
	}

	reg.Register("config", "set", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		key, err := requireOption(opts, "key")
		if err != nil {
			return nil, err
		}
		value, err := requireOption(opts, "value")
		if err != nil {
			return nil, err
		}
		return nil, writer.Set(ws, key, value)
	})

	reg.Register("config", "add_mount", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name, err := requireOption(opts, "name")
		if err != nil {
			return nil, err
		}
		path, err := requireOption(opts, "path")
		if err != nil {
			return nil, err
		}
		return nil, writer.AddMount(ws, name, path)
	})

	reg.Register("config", "add_preload", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		path, err := requireOption(opts, "path")
		if err != nil {
			return nil, err
		}
		return nil, writer.AddPreload(ws, path)
	})

	reg.Register("config", "add_repository", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name, err := requireOption(opts, "name")
		if err != nil {
			return nil, err
		}
		url, err := requireOption(opts, "url")
		if err != nil {
			return nil, err
		}
		return nil, writer.AddRepository(ws, name, url)
	})

	reg.Register("config", "remove_repository", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name, err := requireOption(opts, "name")
		if err != nil {
			return nil, err
		}
		return nil, writer.RemoveRepository(ws, name)
	})

	reg.Register("config", "add_overlay", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		path, err := requireOption(opts, "path")
		if err != nil {
			return nil, err
		}
		return nil, writer.AddOverlayFile(ws, path)
	})

	reg.Register("config", "enable_package", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name, err := requireOption(opts, "name")
		if err != nil {
			return nil, err
		}
		return nil, writer.EnablePackage(ws, name)
	})

	reg.Register("config", "disable_package", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		name, err := requireOption(opts, "name")
		if err != nil {
			return nil, err
		}
		return nil, writer.DisablePackage(ws, name)
	})

	reg.Register("config", "list_packages", func(ctx context.Context, opts core.Options, ws *models.Workspace) (any, error) {
		pkgs := writer.ListPackages(ws)
		names := make([]string, 0, len(pkgs))
		for name := range pkgs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			state := "disabled"
			if pkgs[name] {
				state = "enabled"
			}
			fmt.Printf("%s\t%s\n", name, state)
		}
		return names, nil
	})

	// --- generate namespace ---

	reg.Register("generate", "manifest", forTargets(true, b.WriteManifest))
	reg.Register("generate", "icons", forTargets(true, b.Icons))
	reg.Register("generate", "fonts", forTargets(true, b.Fonts))
}
