package dashboard

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

const embeddedTemplateDir = "templates"

// templatePartials are included by DefaultTemplate and must ship with it.
var templatePartials = []string{
	"partials/chart_panel.html",
	"partials/orders_table.html",
	"partials/stat_card.html",
}

// ErrTemplateMissing is returned when a template tree lacks a required file.
var ErrTemplateMissing = errors.New("dashboard: template missing")

// NewTemplateRenderer renders the embedded page and partials.
func NewTemplateRenderer() (Renderer, error) {
	return NewTemplateRendererFS(embeddedTemplates, embeddedTemplateDir)
}

// NewTemplateRendererDir renders templates from a directory on disk laid out
// like the embedded tree.
func NewTemplateRendererDir(dir string) (Renderer, error) {
	return NewTemplateRendererFS(os.DirFS(dir), ".")
}

// NewTemplateRendererFS renders templates found under baseDir in fsys. Templates
// resolve only inside fsys, never against the working directory.
func NewTemplateRendererFS(fsys fs.FS, baseDir string) (Renderer, error) {
	if fsys == nil {
		return nil, errors.New("dashboard: template filesystem required")
	}
	if err := checkTemplateTree(fsys, baseDir); err != nil {
		return nil, err
	}
	root, err := fs.Sub(fsys, cleanTemplateDir(baseDir))
	if err != nil {
		return nil, fmt.Errorf("dashboard: template root %q: %w", baseDir, err)
	}
	return template.NewRenderer(
		template.WithFS(root),
		template.WithExtension(".html"),
	)
}

func cleanTemplateDir(dir string) string {
	return path.Clean(filepath.ToSlash(dir))
}

func checkTemplateTree(fsys fs.FS, baseDir string) error {
	required := append([]string{DefaultTemplate}, templatePartials...)
	for _, name := range required {
		if _, err := fs.Stat(fsys, path.Join(cleanTemplateDir(baseDir), name)); err != nil {
			return fmt.Errorf("%w: %s", ErrTemplateMissing, name)
		}
	}
	return nil
}
