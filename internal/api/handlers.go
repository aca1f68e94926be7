package api

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"estatequery/server/config"
	"estatequery/server/internal/database"
	"estatequery/server/internal/geometry"
	"estatequery/server/internal/models"
	"estatequery/server/internal/queue"
)

// BatchQueue accepts listing batches for asynchronous storage.
type BatchQueue interface {
	Push(listings []*models.Listing) error
}

type Handler struct {
	db     *database.Database
	queue  BatchQueue
	config *config.Config
	logger *logrus.Logger
}

type PageQuery struct {
	Skip  int `form:"skip" binding:"min=0"`
	Limit int `form:"limit" binding:"min=1"`
}

type OfferQuery struct {
	SortBy string `form:"sort_by"`
	Order  string `form:"order"`
}

func NewHandler(db *database.Database, queue BatchQueue, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		db:     db,
		queue:  queue,
		config: cfg,
		logger: logger,
	}
}

func (h *Handler) Hello(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello World"})
}

func (h *Handler) HelloName(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Hello " + c.Param("name")})
}

func (h *Handler) ListLocations(c *gin.Context) {
	query := PageQuery{Limit: h.config.Listing.DefaultLimit}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.log(c).WithError(err).Warn("Invalid pagination parameters")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	locations, err := h.db.ListLocations(c.Request.Context(), query.Skip, query.Limit)
	if err != nil {
		h.log(c).WithError(err).Error("Failed to list locations")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list locations"})
		return
	}

	response := make([]models.LocationResponse, len(locations))
	for i, loc := range locations {
		response[i] = loc.Response()
	}
	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetLocation(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("location_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "location_id must be an integer"})
		return
	}

	location, err := h.db.GetLocation(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Location not found"})
		return
	}
	if err != nil {
		h.log(c).WithError(err).WithField("location_id", id).Error("Failed to get location")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to get location"})
		return
	}

	c.JSON(http.StatusOK, location.Response())
}

// LocationsGeoJSON returns every geocoded location as a FeatureCollection.
func (h *Handler) LocationsGeoJSON(c *gin.Context) {
	locations, err := h.db.ListGeocodedLocations(c.Request.Context())
	if err != nil {
		h.log(c).WithError(err).Error("Failed to list geocoded locations")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list locations"})
		return
	}

	c.JSON(http.StatusOK, geometry.LocationsToFeatureCollection(locations))
}

func (h *Handler) ListOffers(c *gin.Context) {
	var query OfferQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if query.Order == "" {
		query.Order = h.config.Listing.DefaultOrder
	}

	offers, err := h.db.ListOffers(c.Request.Context(), database.OfferQuery{
		SortBy: query.SortBy,
		Order:  query.Order,
	})
	if err != nil {
		h.log(c).WithError(err).Error("Failed to list offers")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to list offers"})
		return
	}

	c.JSON(http.StatusOK, offers)
}

// ImportOffers queues a batch of listings. Rows are stored asynchronously,
// replacing earlier listings with the same url.
func (h *Handler) ImportOffers(c *gin.Context) {
	var payload []models.Listing
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.log(c).WithError(err).Warn("Failed to parse import request")
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "request body must be a JSON array of listings"})
		return
	}

	if len(payload) == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "at least one listing is required"})
		return
	}
	if limit := h.config.BatchProcessing.MaxBatchSize; limit > 0 && len(payload) > limit {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "batch exceeds " + strconv.Itoa(limit) + " listings"})
		return
	}

	listings := make([]*models.Listing, len(payload))
	for i := range payload {
		l := &payload[i]
		if l.LocationID < 1 || l.BuildingID < 1 || l.OwnerID < 1 || l.FeaturesID < 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"detail": "listing " + strconv.Itoa(i) + " must reference location_id, building_id, owner_id and features_id",
			})
			return
		}
		// ids are assigned by the database
		l.ListingID = 0
		listings[i] = l
	}

	if err := h.queue.Push(listings); err != nil {
		if errors.Is(err, queue.ErrQueueFull) || errors.Is(err, queue.ErrQueueClosed) {
			h.log(c).WithError(err).Warn("Import queue unavailable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Import queue is unavailable, retry later"})
			return
		}
		h.log(c).WithError(err).Error("Failed to queue listings")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to queue listings"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status": "queued",
		"count":  len(listings),
	})
}

func (h *Handler) Healthz(c *gin.Context) {
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.log(c).WithError(err).Error("Database ping failed")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
