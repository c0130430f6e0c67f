package build

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// CoreAssets copies the client source tree into the dist directory of one
// target. Mount points from the workspace config are copied alongside the
// main tree under their mount names.
func (b *Builder) CoreAssets(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	dist := b.DistDir(target)
	if err := ensureDir(dist); err != nil {
		return fmt.Errorf("creating dist dir for %s: %w", target, err)
	}

	if err := copyTree(ctx, b.SourceDir(), dist); err != nil {
		return fmt.Errorf("copying core assets for %s: %w", target, err)
	}

	mounts := ws.Get("mounts").Map()
	for name, src := range mounts {
		from := src.String()
		if !filepath.IsAbs(from) {
			from = filepath.Join(b.basePath, from)
		}
		if err := copyTree(ctx, from, filepath.Join(dist, name)); err != nil {
			return fmt.Errorf("copying mount %s for %s: %w", name, target, err)
		}
	}
	return nil
}

// copyTree copies src into dst recursively. A missing source tree is not
// an error; fresh workspaces have nothing to copy yet.
func copyTree(ctx context.Context, src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() {
		return copyFile(src, dst)
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		out := filepath.Join(dst, rel)
		if d.IsDir() {
			return ensureDir(out)
		}
		return copyFile(path, out)
	})
}

func copyFile(src, dst string) error {
	if err := ensureDir(filepath.Dir(dst)); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
