package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
)

// CreateBookingRequest represents the request body for creating a booking
type CreateBookingRequest struct {
	ProviderID      uint      `json:"provider_id" binding:"required"`
	ServiceCategory string    `json:"service_category" binding:"required,max=100"`
	Description     string    `json:"description" binding:"required"`
	Address         string    `json:"address" binding:"required"`
	ScheduledDate   time.Time `json:"scheduled_date" binding:"required"`
}

// UpdateBookingRequest represents the request body for updating a booking.
// Status and prices drive the state machine; the notes fields are a side
// channel each party may write regardless of status.
type UpdateBookingRequest struct {
	Status        *string  `json:"status" binding:"omitempty,oneof=PENDING QUOTE_GIVEN ACCEPTED IN_PROGRESS COMPLETED REJECTED CANCELLED"`
	QuotePrice    *float64 `json:"quote_price" binding:"omitempty,gt=0"`
	FinalPrice    *float64 `json:"final_price" binding:"omitempty,gt=0"`
	ProviderNotes *string  `json:"provider_notes"`
	UserNotes     *string  `json:"user_notes"`
}

// bookingResponse flattens a booking with the display names of both parties
type bookingResponse struct {
	models.Booking
	UserName     string `json:"user_name"`
	ProviderName string `json:"provider_name"`
}

func newBookingResponse(b models.Booking) bookingResponse {
	return bookingResponse{
		Booking:      b,
		UserName:     b.User.Username,
		ProviderName: b.ServiceProvider.User.Username,
	}
}

// CreateBooking handles POST /api/v1/bookings - creates a new booking in
// PENDING against an available service provider
func CreateBooking(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	if !req.ScheduledDate.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"scheduled_date": "Booking date must be in the future"},
			},
		})
		return
	}

	db := config.GetDB()
	var provider models.Profile
	if err := db.Preload("User").First(&provider, req.ProviderID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROVIDER_NOT_FOUND",
				"message": "Service provider not found",
			},
		})
		return
	}

	if !provider.IsProvider() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"provider_id": "Selected user is not a service provider"},
			},
		})
		return
	}

	if !provider.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"provider_id": "This service provider is not currently available"},
			},
		})
		return
	}

	// An empty provider category list imposes no restriction
	if len(provider.Categories) > 0 && !provider.Categories.Contains(req.ServiceCategory) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"service_category": "Service provider does not offer this category"},
			},
		})
		return
	}

	booking := models.Booking{
		UserID:            userID,
		ServiceProviderID: provider.ID,
		ServiceCategory:   req.ServiceCategory,
		Description:       req.Description,
		Address:           req.Address,
		ScheduledDate:     req.ScheduledDate,
		Status:            models.BookingPending,
	}

	if err := db.Create(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create booking",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("ServiceProvider.User").First(&booking, booking.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load booking details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newBookingResponse(booking),
	})
}

// ListBookings handles GET /api/v1/bookings - lists bookings where the caller
// is the requester (?type=user, default) or the provider (?type=provider)
func ListBookings(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	query := db.Model(&models.Booking{})

	if c.DefaultQuery("type", "user") == "provider" {
		var profile models.Profile
		if err := db.Where("user_id = ?", userID).First(&profile).Error; err != nil || !profile.IsProvider() {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "You are not a service provider",
				},
			})
			return
		}
		query = query.Where("service_provider_id = ?", profile.ID)
	} else {
		query = query.Where("user_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := query.Preload("User").Preload("ServiceProvider.User").
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch bookings",
			},
		})
		return
	}

	results := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		results = append(results, newBookingResponse(b))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// GetBooking handles GET /api/v1/bookings/:id - booking detail, visible only
// to its requester or its provider
func GetBooking(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Preload("User").Preload("ServiceProvider.User").
		First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	if booking.UserID != userID && booking.ServiceProvider.UserID != userID {
		// Outside the caller's visible set
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newBookingResponse(booking),
	})
}

// UpdateBooking handles PUT /api/v1/bookings/:id - applies the booking state
// machine. Only the edges of the lifecycle graph are accepted, each gated to
// one side of the booking; anything else is a conflict that leaves the
// booking untouched.
func UpdateBooking(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	db := config.GetDB()
	var booking models.Booking
	if err := db.Preload("User").Preload("ServiceProvider.User").
		First(&booking, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	isRequester := booking.UserID == userID
	isProvider := booking.ServiceProvider.UserID == userID
	if !isRequester && !isProvider {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	// Notes are a side channel: each party may write its own field in any
	// status, but never the other party's.
	if req.ProviderNotes != nil && !isProvider {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the provider can update provider notes",
			},
		})
		return
	}
	if req.UserNotes != nil && !isRequester {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the requesting user can update user notes",
			},
		})
		return
	}

	// A provider submitting a quote without an explicit status is asking for
	// the PENDING -> QUOTE_GIVEN edge.
	requestedStatus := ""
	if req.Status != nil {
		requestedStatus = *req.Status
	} else if req.QuotePrice != nil && isProvider {
		requestedStatus = models.BookingQuoteGiven
	}

	if requestedStatus != "" && requestedStatus != booking.Status {
		actor := models.ActorUser
		if isProvider {
			actor = models.ActorProvider
		}

		if !models.CanTransition(booking.Status, requestedStatus, actor) {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TRANSITION",
					"message": fmt.Sprintf("Cannot change status from %s to %s", booking.Status, requestedStatus),
					"details": gin.H{
						"current_status":   booking.Status,
						"requested_status": requestedStatus,
					},
				},
			})
			return
		}

		now := time.Now().UTC()
		switch requestedStatus {
		case models.BookingQuoteGiven:
			if req.QuotePrice == nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Invalid request data",
						"details": gin.H{"quote_price": "A positive quote price is required to give a quote"},
					},
				})
				return
			}
			booking.QuotePrice = req.QuotePrice
			if booking.QuotedAt == nil {
				booking.QuotedAt = &now
			}
		case models.BookingAccepted:
			if booking.QuotePrice == nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": "Invalid request data",
						"details": gin.H{"status": "Cannot accept booking without a quote price"},
					},
				})
				return
			}
			if booking.AcceptedAt == nil {
				booking.AcceptedAt = &now
			}
		case models.BookingInProgress:
			if booking.StartedAt == nil {
				booking.StartedAt = &now
			}
		case models.BookingCompleted:
			if booking.CompletedAt == nil {
				booking.CompletedAt = &now
			}
			if req.FinalPrice != nil {
				booking.FinalPrice = req.FinalPrice
			} else {
				// Default final price same as quote
				booking.FinalPrice = booking.QuotePrice
			}
		}

		booking.Status = requestedStatus
	} else if requestedStatus == models.BookingQuoteGiven && isProvider && req.QuotePrice != nil {
		// The quote stays open until the user responds, so the provider may
		// revise it in place. The original quoted_at stands.
		booking.QuotePrice = req.QuotePrice
	}

	if req.ProviderNotes != nil {
		booking.ProviderNotes = *req.ProviderNotes
	}
	if req.UserNotes != nil {
		booking.UserNotes = *req.UserNotes
	}

	if err := db.Save(&booking).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update booking",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newBookingResponse(booking),
	})
}
