package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
	"github.com/servehub/servehub-api/services"
)

// CreateReportRequest represents the request body for filing a report
type CreateReportRequest struct {
	ReportedUserID    uint   `json:"reported_user_id" binding:"required"`
	ReportedProfileID *uint  `json:"reported_profile_id"`
	BookingID         *uint  `json:"booking_id"`
	ReportType        string `json:"report_type" binding:"required"`
	Description       string `json:"description" binding:"required"`
	EvidenceImage     string `json:"evidence_image"`
}

// reportResponse flattens a report with reporter/reported display names
type reportResponse struct {
	models.Report
	ReporterName     string `json:"reporter_name"`
	ReportedUserName string `json:"reported_user_name"`
	EvidenceURL      string `json:"evidence_url,omitempty"`
}

func newReportResponse(r models.Report) reportResponse {
	resp := reportResponse{
		Report:           r,
		ReporterName:     r.Reporter.Username,
		ReportedUserName: r.ReportedUser.Username,
	}
	if svc := services.GetImageService(); svc != nil && r.EvidenceImage != "" {
		if url, err := svc.GetImageURL(r.EvidenceImage); err == nil {
			resp.EvidenceURL = url
		}
	}
	return resp
}

// CreateReport handles POST /api/v1/reports - records a complaint. Status
// always starts PENDING; resolution happens through an administrative path
// outside this API.
func CreateReport(c *gin.Context) {
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

	var req CreateReportRequest
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

	if !models.ValidReportType(req.ReportType) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"report_type": "Unknown report type"},
			},
		})
		return
	}

	if req.ReportedUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"reported_user_id": "You cannot report yourself"},
			},
		})
		return
	}

	db := config.GetDB()
	var reported models.User
	if err := db.First(&reported, req.ReportedUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "Reported user not found",
			},
		})
		return
	}

	if req.ReportedProfileID != nil {
		var profile models.Profile
		if err := db.First(&profile, *req.ReportedProfileID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROFILE_NOT_FOUND",
					"message": "Reported profile not found",
				},
			})
			return
		}
		if !profile.IsProvider() {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Invalid request data",
					"details": gin.H{"reported_profile_id": "Can only report service providers"},
				},
			})
			return
		}
	}

	if req.BookingID != nil {
		var booking models.Booking
		if err := db.First(&booking, *req.BookingID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "BOOKING_NOT_FOUND",
					"message": "Related booking not found",
				},
			})
			return
		}
	}

	report := models.Report{
		ReporterID:        userID,
		ReportedUserID:    req.ReportedUserID,
		ReportedProfileID: req.ReportedProfileID,
		BookingID:         req.BookingID,
		ReportType:        req.ReportType,
		Description:       req.Description,
		EvidenceImage:     req.EvidenceImage,
		Status:            models.ReportStatusPending,
	}

	if err := db.Create(&report).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create report",
			},
		})
		return
	}

	if err := db.Preload("Reporter").Preload("ReportedUser").First(&report, report.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load report details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newReportResponse(report),
	})
}

// ListMyReports handles GET /api/v1/reports/mine - lists the caller's own reports,
// newest first
func ListMyReports(c *gin.Context) {
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
	var reports []models.Report
	if err := db.Where("reporter_id = ?", userID).
		Preload("Reporter").Preload("ReportedUser").
		Order("created_at DESC").
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch reports",
			},
		})
		return
	}

	results := make([]reportResponse, 0, len(reports))
	for _, r := range reports {
		results = append(results, newReportResponse(r))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
