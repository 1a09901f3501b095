package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
)

// CreateReviewRequest represents the request body for creating a review
type CreateReviewRequest struct {
	BookingID  uint   `json:"booking_id" binding:"required"`
	ProviderID uint   `json:"provider_id" binding:"required"`
	Rating     int    `json:"rating" binding:"required,min=1,max=5"`
	Comment    string `json:"comment" binding:"required"`
}

// reviewResponse flattens a review with the display names of both parties
type reviewResponse struct {
	models.Review
	UserName     string `json:"user_name"`
	ProviderName string `json:"provider_name"`
}

func newReviewResponse(r models.Review) reviewResponse {
	return reviewResponse{
		Review:       r,
		UserName:     r.User.Username,
		ProviderName: r.Provider.User.Username,
	}
}

// CreateReview handles POST /api/v1/reviews - creates a review for a
// completed booking and folds its rating into the provider's aggregate.
// The aggregate update is a single conditional UPDATE expression so that
// concurrent reviews for the same provider cannot lose an increment.
func CreateReview(c *gin.Context) {
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

	var req CreateReviewRequest
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
	if err := db.First(&booking, req.BookingID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "BOOKING_NOT_FOUND",
				"message": "Booking not found",
			},
		})
		return
	}

	if booking.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "You can only review your own bookings",
			},
		})
		return
	}

	if booking.Status != models.BookingCompleted {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"booking_id": "Can only review completed bookings"},
			},
		})
		return
	}

	if booking.ServiceProviderID != req.ProviderID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"provider_id": "Provider must match the booking's service provider"},
			},
		})
		return
	}

	review := models.Review{
		BookingID:  req.BookingID,
		UserID:     userID,
		ProviderID: req.ProviderID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}

	if err := db.Create(&review).Error; err != nil {
		// The unique index on booking_id rejects a second review
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "REVIEW_EXISTS",
					"message": "This booking has already been reviewed",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create review",
			},
		})
		return
	}

	// Atomic increment-and-recompute of the running average; no
	// read-modify-write window.
	if err := db.Model(&models.Profile{}).Where("id = ?", req.ProviderID).
		Updates(map[string]interface{}{
			"rating":        gorm.Expr("(rating * total_reviews + ?) / (total_reviews + 1)", float64(req.Rating)),
			"total_reviews": gorm.Expr("total_reviews + 1"),
		}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update provider rating",
			},
		})
		return
	}

	if err := db.Preload("User").Preload("Provider.User").First(&review, review.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load review details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newReviewResponse(review),
	})
}

// ListProviderReviews handles GET /api/v1/providers/:id/reviews - public list
// of a provider's reviews, newest first
func ListProviderReviews(c *gin.Context) {
	db := config.GetDB()

	var provider models.Profile
	if err := db.First(&provider, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROVIDER_NOT_FOUND",
				"message": "Service provider not found",
			},
		})
		return
	}

	var reviews []models.Review
	if err := db.Where("provider_id = ?", provider.ID).
		Preload("User").Preload("Provider.User").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch reviews",
			},
		})
		return
	}

	results := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		results = append(results, newReviewResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
