package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/kirillkom/zero-shot-classifier/internal/core/domain"
	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

type pageData struct {
	Direct  bool
	BaseURL string
	Form    ports.Form
	State   ports.Snapshot
	Units   []presenter.DisplayUnit
}

func (rt *Router) index(w http.ResponseWriter, r *http.Request) {
	rt.render(w, r, ports.Form{EndpointSuffix: rt.cfg.HubEndpointSuffix}, rt.session.Snapshot())
}

func (rt *Router) predictForm(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	snap, err := rt.session.Predict(r.Context(), form)
	if err != nil && !domain.IsKind(err, domain.ErrBusy) {
		http.Error(w, err.Error(), mapErrorToHTTPStatus(err))
		return
	}
	rt.render(w, r, form, snap)
}

func (rt *Router) loadModelForm(w http.ResponseWriter, r *http.Request) {
	form, ok := parseForm(w, r)
	if !ok {
		return
	}
	snap, err := rt.session.LoadModel(r.Context(), form)
	if err != nil && !domain.IsKind(err, domain.ErrBusy) {
		http.Error(w, err.Error(), mapErrorToHTTPStatus(err))
		return
	}
	rt.render(w, r, form, snap)
}

// render draws the page. The API key is never written back.
func (rt *Router) render(w http.ResponseWriter, r *http.Request, form ports.Form, snap ports.Snapshot) {
	form.APIKey = ""
	data := pageData{
		Direct:  snap.Variant == domain.VariantDirect,
		BaseURL: rt.cfg.HubBaseURL,
		Form:    form,
		State:   snap,
		Units:   rt.presenter.Present(snap.Variant, snap.Result),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := rt.page.Execute(w, data); err != nil {
		slog.Error("render_page_failed", "request_id", requestIDFromContext(r.Context()), "error", err)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) (ports.Form, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return ports.Form{}, false
	}
	return ports.Form{
		EndpointSuffix: r.PostForm.Get("endpoint"),
		APIKey:         r.PostForm.Get("api_key"),
		Text:           r.PostForm.Get("text"),
		Classes:        r.PostForm.Get("classes"),
	}, true
}
