package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// WriteTargetConfig writes the runtime config file for one dist target.
// The file is the workspace document with the target identity stamped in,
// so served assets know which profile they were built for.
func (b *Builder) WriteTargetConfig(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := sjson.SetBytes(ws.Raw, "dist_target", target)
	if err != nil {
		return fmt.Errorf("stamping target %s: %w", target, err)
	}
	out, err = sjson.SetBytes(out, "debug", target == "dist-dev")
	if err != nil {
		return fmt.Errorf("stamping debug flag for %s: %w", target, err)
	}

	dir := b.DistDir(target)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("creating dist dir for %s: %w", target, err)
	}
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("writing target config %s: %w", path, err)
	}
	return nil
}
