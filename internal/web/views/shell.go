package views

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/doable/dashboard/internal/web/flash"
)

const styles = `body{margin:0;font-family:system-ui,sans-serif;color:#111827;background:#f9fafb}
a{color:#2563eb;text-decoration:none}
.shell{display:flex;min-height:100vh}
.sidebar{width:220px;background:#111827;color:#f9fafb;padding:1.5rem 1rem;display:flex;flex-direction:column;gap:.25rem}
.sidebar a{color:#d1d5db;padding:.5rem .75rem;border-radius:.375rem}
.sidebar a.active,.sidebar a:hover{background:#374151;color:#fff}
.sidebar form{margin-top:auto}
main{flex:1;padding:2rem}
.card{background:#fff;border:1px solid #e5e7eb;border-radius:.5rem;padding:1rem}
.cards{display:grid;grid-template-columns:repeat(auto-fit,minmax(200px,1fr));gap:1rem;margin-bottom:1.5rem}
table{width:100%;border-collapse:collapse;background:#fff}
th,td{text-align:left;padding:.5rem;border-bottom:1px solid #e5e7eb;vertical-align:top}
form.stack{display:flex;flex-direction:column;gap:.5rem;max-width:480px}
input,select,textarea{padding:.4rem;border:1px solid #d1d5db;border-radius:.375rem;font:inherit}
button{padding:.45rem .9rem;border:0;border-radius:.375rem;background:#2563eb;color:#fff;cursor:pointer}
button.link{background:none;color:#d1d5db;padding:.5rem .75rem;text-align:left}
.toast{position:fixed;right:1rem;bottom:1rem;padding:.75rem 1rem;border-radius:.5rem;background:#fff;border:1px solid #e5e7eb;box-shadow:0 4px 12px rgba(0,0,0,.1)}
.toast.destructive{background:#dc2626;color:#fff;border-color:#dc2626}
.error{color:#dc2626}
.muted{color:#6b7280}
.status{padding:.1rem .5rem;border-radius:999px;font-size:.8rem;background:#e5e7eb}
.status-completed{background:#dcfce7}
.status-processing{background:#dbeafe}`

// Shell is the frame around an authenticated page.
type Shell struct {
	Title string
	Email string
	Nav   []NavItem
	Toast *flash.Notice
	CSRF  string
}

// PublicShell is the frame around pages shown without the sidebar.
type PublicShell struct {
	Title string
	Toast *flash.Notice
	// RefreshSeconds adds a meta refresh when positive.
	RefreshSeconds int
	// RefreshURL is where the refresh goes; empty reloads the current URL.
	RefreshURL string
}

// htmlWriter keeps the first write error so markup can be emitted without
// checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (hw *htmlWriter) raw(s string) {
	if hw.err == nil {
		_, hw.err = io.WriteString(hw.w, s)
	}
}

func (hw *htmlWriter) text(s string) { hw.raw(templ.EscapeString(s)) }

func (hw *htmlWriter) url(s string) { hw.raw(templ.EscapeString(string(templ.URL(s)))) }

func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err == nil {
		hw.err = c.Render(ctx, hw.w)
	}
}

func (hw *htmlWriter) head(title string, refresh func()) {
	hw.raw("<!doctype html>\n<html lang=\"en\">\n<head><meta charset=\"utf-8\">\n")
	hw.raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n<style>\n")
	hw.raw(styles)
	hw.raw("\n</style>")
	if refresh != nil {
		refresh()
	}
	hw.raw("<title>")
	hw.text(title)
	hw.raw(" · Doable</title></head>\n<body>\n")
}

// main renders the children carried in ctx.
func (hw *htmlWriter) main(ctx context.Context) {
	hw.raw("<main>")
	hw.component(templ.ClearChildren(ctx), templ.GetChildren(ctx))
	hw.raw("</main>\n")
}

// Layout wraps the children in ctx with the sidebar shell.
func Layout(s Shell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.head(s.Title, nil)
		hw.raw("<div class=\"shell\">\n<nav class=\"sidebar\">\n<strong>Doable</strong>\n<span class=\"muted\">")
		hw.text(s.Email)
		hw.raw("</span>\n")
		for _, item := range s.Nav {
			hw.raw(`<a href="`)
			hw.url(item.Href)
			hw.raw(`"`)
			if item.Active {
				hw.raw(` class="active"`)
			}
			hw.raw(">")
			hw.text(item.Label)
			hw.raw("</a>\n")
		}
		hw.raw("<form method=\"post\" action=\"/logout\">\n<input type=\"hidden\" name=\"_csrf\" value=\"")
		hw.text(s.CSRF)
		hw.raw("\">\n<button type=\"submit\" class=\"link\">Logout</button>\n</form>\n</nav>\n")
		hw.main(ctx)
		hw.raw("</div>\n")
		hw.component(ctx, Toast(s.Toast))
		hw.raw("</body>\n</html>")
		return hw.err
	})
}

// Public wraps the children in ctx with the bare public shell.
func Public(s PublicShell) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		var refresh func()
		if s.RefreshSeconds > 0 {
			refresh = func() {
				hw.raw(`<meta http-equiv="refresh" content="`)
				hw.raw(strconv.Itoa(s.RefreshSeconds))
				if s.RefreshURL != "" {
					hw.raw("; url=")
					hw.url(s.RefreshURL)
				}
				hw.raw(`">`)
			}
		}
		hw.head(s.Title, refresh)
		hw.main(ctx)
		hw.component(ctx, Toast(s.Toast))
		hw.raw("</body>\n</html>")
		return hw.err
	})
}

// Toast renders n as a status popup; nil renders nothing.
func Toast(n *flash.Notice) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if n == nil {
			return nil
		}
		kind := flash.KindSuccess
		if n.Kind == flash.KindDestructive {
			kind = flash.KindDestructive
		}
		hw := &htmlWriter{w: w}
		hw.raw(`<div class="toast ` + string(kind) + `" role="status"><strong>`)
		hw.text(n.Title)
		hw.raw("</strong>")
		if n.Description != "" {
			hw.raw("<div>")
			hw.text(n.Description)
			hw.raw("</div>")
		}
		hw.raw("</div>\n")
		return hw.err
	})
}
