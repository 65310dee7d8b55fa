// Package render turns a pendulum snapshot into draw commands.
//
// Backends implement [Canvas] (a window, a terminal grid, an SVG document);
// the [Renderer] computes both endpoints, maps them through a [Viewport] and
// issues two line segments and two filled disks per frame:
//
//	r := render.NewRenderer(render.DefaultViewport())
//	if err := r.Render(state.Snapshot(), canvas); err != nil {
//	    // non-finite frame skipped
//	}
//
// The renderer is read-only with respect to the pendulum state.
package render
