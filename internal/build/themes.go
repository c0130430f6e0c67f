package build

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/buildmill/buildmill/internal/core"
	"github.com/buildmill/buildmill/pkg/models"
)

// Themes builds every theme declared in the workspace config for one
// target: a stylesheet from the theme's color palette plus its icon and
// font assets.
func (b *Builder) Themes(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	var themes []gjson.Result
	ws.Get("themes").ForEach(func(key, value gjson.Result) bool {
		themes = append(themes, key)
		return true
	})

	for _, theme := range themes {
		name := theme.String()
		if err := b.Styles(ctx, target, name, ws); err != nil {
			return err
		}
	}

	if err := b.Icons(ctx, target, opts, ws); err != nil {
		return err
	}
	return b.Fonts(ctx, target, opts, ws)
}

// Styles renders the stylesheet of one theme from its color palette.
func (b *Builder) Styles(ctx context.Context, target, theme string, ws *models.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(":root {\n")
	ws.Get("themes." + models.EscapeKey(theme) + ".colors").ForEach(func(key, value gjson.Result) bool {
		fmt.Fprintf(&sb, "  --%s: %s;\n", key.String(), value.String())
		return true
	})
	sb.WriteString("}\n")

	dir := filepath.Join(b.DistDir(target), "themes", theme)
	if err := ensureDir(dir); err != nil {
		return fmt.Errorf("creating theme dir %s: %w", theme, err)
	}
	path := filepath.Join(dir, "theme.css")
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("writing stylesheet for theme %s: %w", theme, err)
	}
	return nil
}

// Icons copies the icon set into the target's asset directory.
func (b *Builder) Icons(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	src := filepath.Join(b.SourceDir(), "icons")
	return copyTree(ctx, src, filepath.Join(b.DistDir(target), "icons"))
}

// Fonts copies the font files into the target's asset directory.
func (b *Builder) Fonts(ctx context.Context, target string, opts core.Options, ws *models.Workspace) error {
	src := filepath.Join(b.SourceDir(), "fonts")
	return copyTree(ctx, src, filepath.Join(b.DistDir(target), "fonts"))
}
