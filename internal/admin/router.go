// Package admin exposes a registry over HTTP for operators.
package admin

import (
	"encoding/json"
	"github.com/Borislavv/go-ash-cachemgr"
	"github.com/go-chi/chi/v5"
	"log/slog"
	"net/http"
)

type handler struct {
	registry *cachemgr.Registry
	logger   *slog.Logger
}

// NewRouter mounts:
//
//	GET    /stats                 global statistics
//	POST   /stats/reset           zero all counters
//	GET    /caches                cache names
//	POST   /caches/clear          clear every cache
//	GET    /caches/{name}/stats   statistics of one cache
//	GET    /caches/{name}/keys    keys of one cache
//	DELETE /caches/{name}         destroy one cache
//	GET    /eviction              current eviction policy
//	PUT    /eviction/{policy}     change the eviction policy
func NewRouter(registry *cachemgr.Registry, logger *slog.Logger) http.Handler {
	h := &handler{registry: registry, logger: logger}

	r := chi.NewRouter()
	r.Get("/stats", h.globalStats)
	r.Post("/stats/reset", h.resetStats)
	r.Route("/caches", func(r chi.Router) {
		r.Get("/", h.listCaches)
		r.Post("/clear", h.clearCaches)
		r.Get("/{name}/stats", h.cacheStats)
		r.Get("/{name}/keys", h.cacheKeys)
		r.Delete("/{name}", h.destroyCache)
	})
	r.Get("/eviction", h.evictionPolicy)
	r.Put("/eviction/{policy}", h.setEvictionPolicy)
	return r
}

func (h *handler) globalStats(w http.ResponseWriter, _ *http.Request) {
	h.json(w, http.StatusOK, h.registry.GetGlobalStats())
}

func (h *handler) resetStats(w http.ResponseWriter, _ *http.Request) {
	h.registry.ResetStats()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) listCaches(w http.ResponseWriter, _ *http.Request) {
	names := h.registry.GetAllCaches()
	if names == nil {
		names = []string{}
	}
	h.json(w, http.StatusOK, names)
}

func (h *handler) clearCaches(w http.ResponseWriter, _ *http.Request) {
	h.registry.ClearAllCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	c, found := h.registry.GetCache(chi.URLParam(r, "name"))
	if !found {
		h.notFound(w)
		return
	}
	h.json(w, http.StatusOK, c.Stats())
}

func (h *handler) cacheKeys(w http.ResponseWriter, r *http.Request) {
	c, found := h.registry.GetCache(chi.URLParam(r, "name"))
	if !found {
		h.notFound(w)
		return
	}
	h.json(w, http.StatusOK, c.Keys())
}

func (h *handler) destroyCache(w http.ResponseWriter, r *http.Request) {
	if !h.registry.DestroyCache(chi.URLParam(r, "name")) {
		h.notFound(w)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) evictionPolicy(w http.ResponseWriter, _ *http.Request) {
	h.json(w, http.StatusOK, map[string]string{"policy": h.registry.EvictionPolicy()})
}

func (h *handler) setEvictionPolicy(w http.ResponseWriter, r *http.Request) {
	if !h.registry.SetEvictionPolicy(chi.URLParam(r, "policy")) {
		h.json(w, http.StatusConflict, map[string]string{"error": "eviction policy provider is read-only"})
		return
	}
	h.json(w, http.StatusOK, map[string]string{"policy": h.registry.EvictionPolicy()})
}

func (h *handler) notFound(w http.ResponseWriter) {
	h.json(w, http.StatusNotFound, map[string]string{"error": "cache not found"})
}

func (h *handler) json(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("write admin response", "err", err)
	}
}
