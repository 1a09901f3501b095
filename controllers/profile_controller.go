package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
	"github.com/servehub/servehub-api/services"
	"github.com/servehub/servehub-api/utils"
)

// UpdateProfileRequest represents the request body for a partial profile
// update. Pointer fields distinguish "absent" from zero values.
type UpdateProfileRequest struct {
	Role             *string            `json:"role" binding:"omitempty,oneof=USER SERVICE"`
	Bio              *string            `json:"bio" binding:"omitempty,max=500"`
	Phone            *string            `json:"phone" binding:"omitempty,max=15"`
	Location         *string            `json:"location" binding:"omitempty,max=50"`
	ExperienceYears  *int               `json:"experience_years" binding:"omitempty,gte=0"`
	PricingType      *string            `json:"pricing_type" binding:"omitempty,oneof=FIXED FLEXIBLE"`
	BasePrice        *float64           `json:"base_price" binding:"omitempty,gt=0"`
	IsAvailable      *bool              `json:"is_available"`
	Categories       *models.StringList `json:"categories"`
	ServiceLocations *models.StringList `json:"service_locations"`
	Availability     *string            `json:"availability" binding:"omitempty,max=100"`
	Description      *string            `json:"description" binding:"omitempty,max=200"`
}

// profileResponse flattens a Profile with the identity fields of its user
type profileResponse struct {
	models.Profile
	Username          string `json:"username"`
	Email             string `json:"email"`
	IsServiceProvider bool   `json:"is_service_provider"`
	AvatarURL         string `json:"avatar_url,omitempty"`
}

func newProfileResponse(profile models.Profile, user models.User) profileResponse {
	resp := profileResponse{
		Profile:           profile,
		Username:          user.Username,
		Email:             user.Email,
		IsServiceProvider: user.IsServiceProvider,
	}
	if svc := services.GetImageService(); svc != nil && profile.Avatar != "" {
		if url, err := svc.GetImageURL(profile.Avatar); err == nil {
			resp.AvatarURL = url
		}
	}
	return resp
}

// GetMyProfile handles GET /api/v1/profile - gets the current user's profile
func GetMyProfile(c *gin.Context) {
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
	var profile models.Profile
	if err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newProfileResponse(profile, profile.User),
	})
}

// UpdateMyProfile handles PUT /api/v1/profile - partially updates the current
// user's profile. Moving role from USER to SERVICE requires the provider
// fields to be present and flips the denormalized account flag. Rating
// aggregates are never writable here.
func UpdateMyProfile(c *gin.Context) {
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

	var req UpdateProfileRequest
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
	var profile models.Profile
	if err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	becomingProvider := req.Role != nil && *req.Role == models.RoleService && profile.Role != models.RoleService
	if becomingProvider {
		missing := map[string]string{}
		if req.ExperienceYears == nil {
			missing["experience_years"] = "required to become a service provider"
		}
		if req.PricingType == nil {
			missing["pricing_type"] = "required to become a service provider"
		}
		if req.BasePrice == nil {
			missing["base_price"] = "required to become a service provider"
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": "Missing required fields to become service provider",
					"details": missing,
				},
			})
			return
		}
	}

	if req.Role != nil {
		profile.Role = *req.Role
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.Phone != nil {
		profile.Phone = *req.Phone
	}
	if req.Location != nil {
		profile.Location = *req.Location
	}
	if req.ExperienceYears != nil {
		profile.ExperienceYears = *req.ExperienceYears
	}
	if req.PricingType != nil {
		profile.PricingType = *req.PricingType
	}
	if req.BasePrice != nil {
		profile.BasePrice = req.BasePrice
	}
	if req.IsAvailable != nil {
		profile.IsAvailable = *req.IsAvailable
	}
	if req.Categories != nil {
		profile.Categories = *req.Categories
	}
	if req.ServiceLocations != nil {
		profile.ServiceLocations = *req.ServiceLocations
	}
	if req.Availability != nil {
		profile.Availability = *req.Availability
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}

	if err := db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	// Keep the denormalized account flag in sync with the role
	isProvider := profile.Role == models.RoleService
	if profile.User.IsServiceProvider != isProvider {
		if err := db.Model(&models.User{}).Where("id = ?", userID).
			Update("is_service_provider", isProvider).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update account flag",
				},
			})
			return
		}
		profile.User.IsServiceProvider = isProvider
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newProfileResponse(profile, profile.User),
	})
}

// BecomeProvider handles POST /api/v1/profile/become-provider - flips the
// account to service-provider role and tells the caller which provider fields
// still need to be filled in
func BecomeProvider(c *gin.Context) {
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
	var profile models.Profile
	if err := db.Preload("User").Where("user_id = ?", userID).First(&profile).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PROFILE_NOT_FOUND",
				"message": "Profile not found",
			},
		})
		return
	}

	if profile.Role == models.RoleService {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ALREADY_PROVIDER",
				"message": "You are already a service provider",
			},
		})
		return
	}

	profile.Role = models.RoleService
	if err := db.Save(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	if err := db.Model(&models.User{}).Where("id = ?", userID).
		Update("is_service_provider", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update account flag",
			},
		})
		return
	}

	// Tell the caller what still needs filling in before bookings can flow
	var pending []string
	if profile.ExperienceYears == 0 {
		pending = append(pending, "experience_years")
	}
	if profile.PricingType == "" {
		pending = append(pending, "pricing_type")
	}
	if profile.BasePrice == nil {
		pending = append(pending, "base_price")
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message":             "Profile updated to service provider",
			"is_service_provider": true,
			"pending_fields":      pending,
		},
	})
}

// ListProviders handles GET /api/v1/providers - public, filterable, paginated
// list of service-provider profiles
func ListProviders(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Profile{}).
		Joins("JOIN users ON users.id = profiles.user_id").
		Where("profiles.role = ?", models.RoleService)

	if location := c.Query("location"); location != "" {
		query = query.Where("profiles.location LIKE ?", "%"+location+"%")
	}
	if category := c.Query("category"); category != "" {
		// Categories are stored as a JSON-encoded string list
		query = query.Where(`profiles.categories LIKE ?`, `%"`+category+`"%`)
	}
	if minExp := c.Query("min_experience"); minExp != "" {
		query = query.Where("profiles.experience_years >= ?", minExp)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("profiles.base_price <= ?", maxPrice)
	}
	if avail := c.Query("is_available"); avail != "" {
		query = query.Where("profiles.is_available = ?", avail == "true")
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where(
			"users.username LIKE ? OR profiles.description LIKE ? OR profiles.bio LIKE ? OR profiles.location LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count providers",
			},
		})
		return
	}

	order := utils.ParseOrdering(c,
		[]string{"rating", "experience_years", "base_price", "created_at"},
		"rating DESC")
	page := utils.ParsePagination(c)

	var profiles []models.Profile
	if err := query.Preload("User").
		Order("profiles." + order).
		Limit(page.PageSize).Offset(page.Offset()).
		Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch providers",
			},
		})
		return
	}

	results := make([]profileResponse, 0, len(profiles))
	for _, p := range profiles {
		results = append(results, newProfileResponse(p, p.User))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"results":   results,
			"count":     total,
			"page":      page.Page,
			"page_size": page.PageSize,
		},
	})
}
