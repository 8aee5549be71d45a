package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kirillkom/zero-shot-classifier/internal/core/ports"
	"github.com/kirillkom/zero-shot-classifier/internal/presenter"
)

type stateResponse struct {
	ports.Snapshot
	Predictions []presenter.DisplayUnit `json:"predictions"`
}

func (rt *Router) predictJSON(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	snap, err := rt.session.Predict(r.Context(), form)
	rt.writeState(w, snap, err)
}

func (rt *Router) loadModelJSON(w http.ResponseWriter, r *http.Request) {
	form, ok := decodeForm(w, r)
	if !ok {
		return
	}
	snap, err := rt.session.LoadModel(r.Context(), form)
	rt.writeState(w, snap, err)
}

func (rt *Router) stateJSON(w http.ResponseWriter, _ *http.Request) {
	rt.writeState(w, rt.session.Snapshot(), nil)
}

func (rt *Router) writeState(w http.ResponseWriter, snap ports.Snapshot, err error) {
	if err != nil {
		writeJSON(w, mapErrorToHTTPStatus(err), map[string]any{
			"error": err.Error(),
			"state": snap,
		})
		return
	}
	writeJSON(w, http.StatusOK, stateResponse{
		Snapshot:    snap,
		Predictions: rt.presenter.Present(snap.Variant, snap.Result),
	})
}

func decodeForm(w http.ResponseWriter, r *http.Request) (ports.Form, bool) {
	var form ports.Form
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return ports.Form{}, false
	}
	return form, true
}
