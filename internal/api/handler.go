package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nmishr/geo-dashboard/internal/models"
	"github.com/nmishr/geo-dashboard/internal/pipeline"
)

// Machine-readable error kinds so the presentation layer can branch without
// inspecting message text.
const (
	kindNotFound      = "not_found"
	kindProviderError = "provider_error"
	kindMissingConfig = "missing_config"
	kindValidation    = "validation"
	kindInternal      = "internal"
)

type Handler struct {
	svc *pipeline.Service
}

func NewHandler(svc *pipeline.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/api/search", h.search)
	r.GET("/api/recent", h.recent)
	r.GET("/api/stats", h.stats)
	r.GET("/api/export", h.export)
	r.GET("/api/suggest", h.suggest)
	r.GET("/api/reverse", h.reverse)
	r.GET("/api/route", h.route)
	r.GET("/health", h.health)
}

func (h *Handler) search(c *gin.Context) {
	snapshot, err := h.svc.Search(c.Request.Context(), c.Query("query"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) recent(c *gin.Context) {
	records, err := h.svc.Recent(c.Request.Context(), intQuery(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": records})
}

func (h *Handler) stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) export(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="geo_history.csv"`)
	if err := h.svc.ExportCSV(c.Request.Context(), intQuery(c, "limit", 0), c.Writer); err != nil {
		writeError(c, err)
	}
}

func (h *Handler) suggest(c *gin.Context) {
	items, err := h.svc.Suggest(c.Request.Context(), c.Query("q"), intQuery(c, "limit", 0))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) reverse(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		writeError(c, &models.ValidationError{Msg: "lat/lon required"})
		return
	}

	place, err := h.svc.Reverse(c.Request.Context(), models.Coordinate{Lat: lat, Lon: lon})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

func (h *Handler) route(c *gin.Context) {
	result, err := h.svc.Route(c.Request.Context(),
		c.Query("origin"), c.Query("destination"), c.Query("mode"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// writeError maps the pipeline error taxonomy onto HTTP statuses and kinds.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *models.ValidationError
		configErr     *models.ConfigError
		endpointErr   *models.EndpointNotFoundError
		providerErr   *models.ProviderError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Msg, "kind": kindValidation})
	case errors.As(err, &configErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": configErr.Error(), "kind": kindMissingConfig})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found", "kind": kindNotFound})
	case errors.As(err, &endpointErr):
		c.JSON(http.StatusNotFound, gin.H{"error": endpointErr.Error(), "kind": kindNotFound})
	case errors.As(err, &providerErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": providerErr.Error(), "kind": kindProviderError})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": kindInternal})
	}
}
