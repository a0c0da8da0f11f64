package api

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"

	"marketplace/server/config"
	"marketplace/server/internal/auth"
	"marketplace/server/internal/database"
	"marketplace/server/internal/geometry"
	"marketplace/server/internal/models"
	"marketplace/server/internal/search"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const sampleCount = 4

// Notifier accepts notification batches for asynchronous delivery
type Notifier interface {
	Push(batch []*models.Notification) error
}

type Handler struct {
	db       *database.Database
	search   *search.Service
	notifier Notifier
	sizes    config.PageSizes
	samples  bool
	logger   *logrus.Logger
}

type listResponse struct {
	Data       any               `json:"data"`
	Pagination search.Pagination `json:"pagination"`
	Samples    []models.Listing  `json:"samples,omitempty"`
}

func NewHandler(db *database.Database, notifier Notifier, cfg *config.Config, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	normalizer := search.NewNormalizer(cfg.PageSizes.For(config.EndpointListings), cfg.PageSizes.MaxLimit())

	return &Handler{
		db:       db,
		search:   search.NewService(db, normalizer, logger),
		notifier: notifier,
		sizes:    cfg.PageSizes,
		samples:  cfg.Presentation.EmptyStateSamples,
		logger:   logger,
	}
}

func (h *Handler) SearchListings(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.logger.WithError(err).Error("Failed to search listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load listings"})
		return
	}

	resp := listResponse{Data: result.Data, Pagination: result.Pagination}
	if h.samples && len(result.Data) == 0 {
		resp.Samples = h.sampleListings(c)
	}
	c.JSON(http.StatusOK, resp)
}

// sampleListings returns a few recent active listings to show beside an empty result.
// Failures only cost the samples.
func (h *Handler) sampleListings(c *gin.Context) []models.Listing {
	p := search.Build(search.Filter{Page: 1, Limit: sampleCount}, search.ScopePublic)
	rows, _, err := h.db.QueryListings(c.Request.Context(), p)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to load sample listings")
		return nil
	}
	return rows
}

func (h *Handler) SearchListingsMap(c *gin.Context) {
	result, err := h.search.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		h.logger.WithError(err).Error("Failed to search listings for map")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load listings"})
		return
	}

	c.JSON(http.StatusOK, geometry.ListingsFeatureCollection(result.Data))
}

func (h *Handler) GetListing(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	listing, err := h.db.GetListing(c.Request.Context(), id)
	if errors.Is(err, database.ErrNotFound) || (err == nil && listing.Status != models.ListingStatusActive) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("listing_id", id).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load listing"})
		return
	}

	c.JSON(http.StatusOK, listing)
}

func (h *Handler) AdminListings(c *gin.Context) {
	params := search.ParseAdminListingParams(c.Request.URL.Query(), h.sizes.For(config.EndpointAdminListings), h.sizes.MaxLimit())

	rows, total, err := h.db.QueryListingsWithOwner(c.Request.Context(), params.Predicate())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get admin listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load listings"})
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: search.Assemble(total, params.Page.Page, params.Limit)})
}

func (h *Handler) AdminBookings(c *gin.Context) {
	params := search.ParseAdminBookingParams(c.Request.URL.Query(), h.sizes.For(config.EndpointAdminBookings), h.sizes.MaxLimit())

	rows, total, err := h.db.QueryBookings(c.Request.Context(), params.Predicate())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get admin bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load bookings"})
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: search.Assemble(total, params.Page.Page, params.Limit)})
}

func (h *Handler) AdminUsers(c *gin.Context) {
	params := search.ParseAdminUserParams(c.Request.URL.Query(), h.sizes.For(config.EndpointAdminUsers), h.sizes.MaxLimit())

	rows, total, err := h.db.QueryUsers(c.Request.Context(), params.Predicate())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get admin users")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load users"})
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: search.Assemble(total, params.Page.Page, params.Limit)})
}

// HostBookings lists bookings on the caller's listings. The owned listing IDs
// are loaded first and bound into the booking query.
func (h *Handler) HostBookings(c *gin.Context) {
	session, _ := auth.FromContext(c)
	ctx := c.Request.Context()
	params := search.ParseHostBookingParams(c.Request.URL.Query(), h.sizes.For(config.EndpointHostBookings), h.sizes.MaxLimit())

	owned, err := h.db.ListingIDsByOwner(ctx, session.UserID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to get owned listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load bookings"})
		return
	}

	if params.ListingID != nil {
		if !slices.Contains(owned, *params.ListingID) {
			h.rejectForeignListing(c, *params.ListingID)
			return
		}
		owned = []uint{*params.ListingID}
	}

	rows, total, err := h.db.QueryBookings(ctx, params.Predicate(owned))
	if err != nil {
		h.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to get host bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load bookings"})
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: search.Assemble(total, params.Page.Page, params.Limit)})
}

// rejectForeignListing answers 404 for a listing that does not exist and 403
// for one owned by someone else.
func (h *Handler) rejectForeignListing(c *gin.Context, listingID uint) {
	_, err := h.db.GetListing(c.Request.Context(), listingID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
	case err != nil:
		h.logger.WithError(err).WithField("listing_id", listingID).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load bookings"})
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Listing belongs to another host"})
	}
}

type bookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) UpdateHostBooking(c *gin.Context) {
	session, _ := auth.FromContext(c)
	ctx := c.Request.Context()

	id, ok := parseID(c)
	if !ok {
		return
	}

	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !models.IsValidBookingStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown booking status"})
		return
	}

	booking, err := h.db.GetBooking(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", id).Error("Failed to get booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load booking"})
		return
	}
	if booking.Listing == nil || booking.Listing.OwnerID != session.UserID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Booking belongs to another host"})
		return
	}

	if err := h.db.UpdateBookingStatus(ctx, booking, status); err != nil {
		if errors.Is(err, models.ErrInvalidTransition) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).WithField("booking_id", id).Error("Failed to update booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to update booking"})
		return
	}

	h.notify(booking)
	c.JSON(http.StatusOK, booking)
}

// notify queues a status notification for the guest. A full or closed queue
// drops the notification without failing the request.
func (h *Handler) notify(booking *models.Booking) {
	if h.notifier == nil {
		return
	}
	bookingID := booking.ID
	n := &models.Notification{
		UserID:    booking.UserID,
		BookingID: &bookingID,
		Kind:      models.NotificationBookingStatus,
		Message:   fmt.Sprintf("Your booking for %s is now %s", booking.Listing.Title, strings.ToLower(booking.Status)),
	}
	if err := h.notifier.Push([]*models.Notification{n}); err != nil {
		h.logger.WithError(err).WithField("booking_id", booking.ID).Warn("Failed to queue booking notification")
	}
}

func (h *Handler) Notifications(c *gin.Context) {
	session, _ := auth.FromContext(c)
	params := search.ParseNotificationParams(c.Request.URL.Query(), h.sizes.For(config.EndpointNotifications), h.sizes.MaxLimit())

	rows, total, err := h.db.QueryNotifications(c.Request.Context(), params.Predicate(session.UserID))
	if err != nil {
		h.logger.WithError(err).WithField("user_id", session.UserID).Error("Failed to get notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to load notifications"})
		return
	}

	c.JSON(http.StatusOK, listResponse{Data: rows, Pagination: search.Assemble(total, params.Page.Page, params.Limit)})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return 0, false
	}
	return uint(id), true
}
