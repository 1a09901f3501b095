package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
)

// CreateCommentRequest represents the request body for commenting on a listing
type CreateCommentRequest struct {
	Comment     string `json:"comment" binding:"required"`
	ContactInfo string `json:"contact_info" binding:"omitempty,max=100"`
}

// commentResponse flattens a comment with its author's display name and the
// product title
type commentResponse struct {
	models.ProductComment
	UserName     string `json:"user_name"`
	ProductTitle string `json:"product_title,omitempty"`
}

// CreateComment handles POST /api/v1/marketplace/:id/comments
func CreateComment(c *gin.Context) {
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

	var req CreateCommentRequest
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
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if !product.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_INACTIVE",
				"message": "Cannot comment on an inactive product",
			},
		})
		return
	}

	comment := models.ProductComment{
		ProductID:   product.ID,
		UserID:      userID,
		Comment:     req.Comment,
		ContactInfo: req.ContactInfo,
		IsVisible:   true,
	}

	if err := db.Create(&comment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create comment",
			},
		})
		return
	}

	if err := db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load comment details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": commentResponse{
			ProductComment: comment,
			UserName:       comment.User.Username,
		},
	})
}

// ListComments handles GET /api/v1/marketplace/:id/comments - visible
// comments for everyone; the product's seller also sees hidden ones
func ListComments(c *gin.Context) {
	db := config.GetDB()
	var product models.Product
	if err := db.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	callerID, _ := middleware.GetUserID(c)
	isSeller := callerID != 0 && callerID == product.SellerID

	if !product.IsActive && !isSeller {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	query := db.Where("product_id = ?", product.ID)
	if !isSeller {
		query = query.Where("is_visible = ?", true)
	}

	var comments []models.ProductComment
	if err := query.Preload("User").Order("created_at DESC").Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch comments",
			},
		})
		return
	}

	results := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		results = append(results, commentResponse{
			ProductComment: cm,
			UserName:       cm.User.Username,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}

// DeleteComment handles DELETE /api/v1/marketplace/comments/:id. The
// comment's author removes the row outright; the product's seller only
// hides it from public view. Anyone else gets a 403.
func DeleteComment(c *gin.Context) {
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
	var comment models.ProductComment
	if err := db.Preload("Product").First(&comment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMMENT_NOT_FOUND",
				"message": "Comment not found",
			},
		})
		return
	}

	switch {
	case comment.UserID == userID:
		if err := db.Delete(&comment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to delete comment",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"message": "Comment deleted",
			},
		})

	case comment.Product.SellerID == userID:
		if err := db.Model(&comment).Update("is_visible", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to hide comment",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"message": "Comment hidden",
			},
		})

	default:
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the comment author or the product seller can delete this comment",
			},
		})
	}
}

// ListMyProductComments handles GET /api/v1/marketplace/comments/mine -
// all comments left on the caller's listings, hidden ones included
func ListMyProductComments(c *gin.Context) {
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
	var comments []models.ProductComment
	if err := db.Joins("JOIN products ON products.id = product_comments.product_id").
		Where("products.seller_id = ?", userID).
		Preload("User").
		Preload("Product").
		Order("product_comments.created_at DESC").
		Find(&comments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch comments",
			},
		})
		return
	}

	results := make([]commentResponse, 0, len(comments))
	for _, cm := range comments {
		results = append(results, commentResponse{
			ProductComment: cm,
			UserName:       cm.User.Username,
			ProductTitle:   cm.Product.Title,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
