package pages

import (
	"context"
	"net/http"

	"kitchen_dashboard/internal/banner"
	"kitchen_dashboard/internal/config"
	"kitchen_dashboard/internal/handlers"
	"kitchen_dashboard/internal/sidebar"
)

// DismissBanner hides the api config banner for the rest of the session.
// htmx swaps the banner with the empty response.
func (p *PageHandler) DismissBanner(w http.ResponseWriter, r *http.Request) {
	b, err := p.h.Banner(r, nil)
	if err != nil {
		config.RespondInternalError(w, err, p.h.Logger)
		return
	}

	if err := b.Dismiss(r.Context()); err != nil {
		p.h.Logger.Error("failed to dismiss banner", "error", err)
		config.RespondInternalError(w, err, p.h.Logger)
		return
	}

	if p.h.Metrics != nil {
		p.h.Metrics.BannerDismissed()
	}
	p.h.Logger.Debug("api config banner dismissed")

	if !handlers.IsHTMX(r) {
		http.Redirect(w, r, handlers.CurrentPath(r), http.StatusSeeOther)
		return
	}
	p.h.RenderHTML(w, http.StatusOK, nil)
}

// ConfigureBanner sends the user to the setup page. The dismissal flag is untouched.
func (p *PageHandler) ConfigureBanner(w http.ResponseWriter, r *http.Request) {
	var target string
	nav := banner.NavigatorFunc(func(ctx context.Context, path string) error {
		target = path
		return nil
	})

	b, err := p.h.Banner(r, nav)
	if err != nil {
		config.RespondInternalError(w, err, p.h.Logger)
		return
	}

	if err := b.Configure(r.Context()); err != nil {
		config.RespondInternalError(w, err, p.h.Logger)
		return
	}

	if handlers.IsHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// ToggleSidebar flips the collapse cookie and re-renders the sidebar for the current page
func (p *PageHandler) ToggleSidebar(w http.ResponseWriter, r *http.Request) {
	state := sidebar.StateFromRequest(r).Toggle()
	http.SetCookie(w, sidebar.StateCookieFor(state, p.h.CookieSecure))

	if p.h.Metrics != nil {
		p.h.Metrics.SidebarToggled(string(state))
	}

	path := handlers.CurrentPath(r)
	if !handlers.IsHTMX(r) {
		http.Redirect(w, r, path, http.StatusSeeOther)
		return
	}
	p.h.RenderHTML(w, http.StatusOK, p.h.Sidebar.Render(path, state))
}

// NotificationsFragment renders the badge on its own for htmx refreshes
func (p *PageHandler) NotificationsFragment(w http.ResponseWriter, r *http.Request) {
	p.h.RenderHTML(w, http.StatusOK, p.h.LoadBadge(r.Context()).Render())
}
