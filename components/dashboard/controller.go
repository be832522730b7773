package dashboard

import (
	"context"
	"errors"
	"io"
)

// DefaultTemplate is the page template rendered by the controller.
const DefaultTemplate = "dashboard.html"

// Renderer describes the template renderer contract needed by the controller.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

type viewResolver interface {
	View(ctx context.Context, viewer ViewerContext) (View, error)
}

// ControllerOptions wires the controller collaborators.
type ControllerOptions struct {
	Service  viewResolver
	Renderer Renderer
	Template string
	BasePath string
}

// Controller orchestrates page rendering for the dashboard.
type Controller struct {
	service  viewResolver
	renderer Renderer
	template string
	basePath string
}

// NewController wires the service and renderer into a controller.
func NewController(opts ControllerOptions) *Controller {
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}
	return &Controller{
		service:  opts.Service,
		renderer: opts.Renderer,
		template: opts.Template,
		basePath: opts.BasePath,
	}
}

// ViewPayload resolves the derived view for a viewer.
func (c *Controller) ViewPayload(ctx context.Context, viewer ViewerContext) (View, error) {
	if c.service == nil {
		return View{}, errors.New("dashboard: controller requires a service")
	}
	return c.service.View(ctx, viewer)
}

// RenderTemplate renders the dashboard page for the viewer into out.
func (c *Controller) RenderTemplate(ctx context.Context, viewer ViewerContext, out io.Writer) error {
	if c.renderer == nil {
		return errors.New("dashboard: controller requires a renderer")
	}
	view, err := c.ViewPayload(ctx, viewer)
	if err != nil {
		return err
	}
	payload := map[string]any{
		"view":      view,
		"base_path": c.basePath,
		"api":       c.basePath + "/dashboard",
	}
	_, err = c.renderer.Render(c.template, payload, out)
	return err
}
