package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/lrstanley/chix"

	"tableflip.dev/pokedex/pkg/app"
	"tableflip.dev/pokedex/pkg/favorites"
	"tableflip.dev/pokedex/pkg/pokeapi"
)

// maxLimit bounds the page size a client may ask for.
const maxLimit = 100

type Handler struct {
	svc *app.Service
}

func NewHandler(svc *app.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Route(r chi.Router) {
	r.Get("/pokemon", h.list)
	r.Get("/pokemon/{id}", h.detail)
	r.Get("/search/{name}", h.search)
	r.Get("/types/{name}", h.typeDetail)
	r.Get("/types/{name}/pokemon", h.typeMembers)
	r.Get("/moves/{id}", h.move)
	r.Get("/favorites", h.favorites)
	r.Post("/favorites/{id}", h.toggleFavorite)
}

// paging reads page and limit, defaulting to the first page of the service
// page size.
func paging(r *http.Request) (page, limit int, ok bool) {
	page, limit = 1, 0
	if v := r.URL.Query().Get("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 {
			return 0, 0, false
		}
		page = p
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil || l < 1 || l > maxLimit {
			return 0, 0, false
		}
		limit = l
	}
	return page, limit, true
}

// fail maps service errors onto status codes.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, pokeapi.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, app.ErrQueryTooShort):
		status = http.StatusBadRequest
	}
	log.FromContext(r.Context()).WithError(err).WithField("status", status).Warn("request failed")
	chix.JSON(w, r, status, chix.M{"error": err.Error()})
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := paging(r)
	if !ok {
		chix.JSON(w, r, http.StatusBadRequest, chix.M{"error": "invalid page or limit"})
		return
	}
	p, err := h.svc.ListPage(r.Context(), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, p)
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{
		"pokemon":  d,
		"stats":    d.OrderedStats(),
		"favorite": h.svc.IsFavorite(d.ID),
	})
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Search(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, s)
}

func (h *Handler) typeDetail(w http.ResponseWriter, r *http.Request) {
	td, err := h.svc.Type(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, td)
}

func (h *Handler) typeMembers(w http.ResponseWriter, r *http.Request) {
	page, limit, ok := paging(r)
	if !ok {
		chix.JSON(w, r, http.StatusBadRequest, chix.M{"error": "invalid page or limit"})
		return
	}
	p, err := h.svc.TypePage(r.Context(), chi.URLParam(r, "name"), page, limit)
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, p)
}

func (h *Handler) move(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Move(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{
		"move":     m,
		"power":    m.PowerLabel(),
		"accuracy": m.AccuracyLabel(),
		"priority": m.PriorityLabel(),
	})
}

func (h *Handler) favorites(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.FavoriteList()
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{
		"favorites": list,
		"count":     len(list),
		"label":     favorites.CountLabel(len(list)),
	})
}

func (h *Handler) toggleFavorite(w http.ResponseWriter, r *http.Request) {
	added, snap, err := h.svc.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err)
		return
	}
	chix.JSON(w, r, http.StatusOK, chix.M{
		"pokemon":  snap,
		"favorite": added,
		"count":    h.svc.Favorites.Count(),
	})
}
