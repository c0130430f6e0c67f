package build

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// Package archives one vendor/app package directory into the target's
// dist directory. The name must already be validated by the caller.
func (b *Builder) Package(ctx context.Context, target string, opts core.Options, ws *models.Workspace, name string) error {
	src := filepath.Join(b.PackagesDir(), filepath.FromSlash(name))
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("package %s: %w", name, err)
	}

	dir := filepath.Join(b.DistDir(target), "packages")
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("creating packages dir for %s: %w", target, err)
	}
	out := filepath.Join(dir, strings.ReplaceAll(name, "/", "-")+".zip")

	if err := zipTree(ctx, src, out); err != nil {
		return fmt.Errorf("archiving package %s: %w", name, err)
	}
	return nil
}

// AllPackages archives every enabled package from the workspace config.
// Packages are archived concurrently; the first failure wins but siblings
// already started run to completion.
func (b *Builder) AllPackages(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	var g errgroup.Group
	ws.Get("packages").ForEach(func(key, value gjson.Result) bool {
		if !value.Get("enabled").Bool() {
			return true
		}
		name := key.String()
		g.Go(func() error {
			return b.Package(ctx, target, opts, ws, name)
		})
		return true
	})
	return g.Wait()
}

// zipTree writes a zip archive of the directory tree rooted at src.
func zipTree(ctx context.Context, src, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	zw := zip.NewWriter(f)

	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		in, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = in.Close() }()
		_, err = io.Copy(w, in)
		return err
	})
	if err != nil {
		_ = zw.Close()
		_ = f.Close()
		return err
	}

	if err := zw.Close(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
