package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/servehub/servehub-api/config"
	"github.com/servehub/servehub-api/middleware"
	"github.com/servehub/servehub-api/models"
	"github.com/servehub/servehub-api/services"
	"github.com/servehub/servehub-api/utils"
)

// CreateProductRequest represents the request body for creating a listing
type CreateProductRequest struct {
	Title           string  `json:"title" binding:"required,max=100"`
	Description     string  `json:"description" binding:"required"`
	Category        string  `json:"category" binding:"required"`
	Condition       string  `json:"condition" binding:"required"`
	Price           float64 `json:"price" binding:"required,gt=0"`
	Address         string  `json:"address" binding:"omitempty,max=255"`
	City            string  `json:"city" binding:"required,max=50"`
	MainImage       string  `json:"main_image"`
	Image2          string  `json:"image_2"`
	Image3          string  `json:"image_3"`
	ContactPhone    string  `json:"contact_phone" binding:"omitempty,max=15"`
	ContactWhatsapp string  `json:"contact_whatsapp" binding:"omitempty,max=15"`
	ContactEmail    string  `json:"contact_email" binding:"omitempty,email,max=50"`
}

// UpdateProductRequest represents the request body for a partial listing update
type UpdateProductRequest struct {
	Title           *string  `json:"title" binding:"omitempty,max=100"`
	Description     *string  `json:"description"`
	Category        *string  `json:"category"`
	Condition       *string  `json:"condition"`
	Price           *float64 `json:"price" binding:"omitempty,gt=0"`
	Address         *string  `json:"address" binding:"omitempty,max=255"`
	City            *string  `json:"city" binding:"omitempty,max=50"`
	MainImage       *string  `json:"main_image"`
	Image2          *string  `json:"image_2"`
	Image3          *string  `json:"image_3"`
	ContactPhone    *string  `json:"contact_phone" binding:"omitempty,max=15"`
	ContactWhatsapp *string  `json:"contact_whatsapp" binding:"omitempty,max=15"`
	ContactEmail    *string  `json:"contact_email" binding:"omitempty,email,max=50"`
	IsSold          *bool    `json:"is_sold"`
}

// productResponse flattens a product with seller info, the visible comment
// count and resolved image URLs
type productResponse struct {
	models.Product
	SellerName   string  `json:"seller_name"`
	SellerRating float64 `json:"seller_rating"`
	CommentCount int64   `json:"comment_count"`
	MainImageURL string  `json:"main_image_url,omitempty"`
	Image2URL    string  `json:"image_2_url,omitempty"`
	Image3URL    string  `json:"image_3_url,omitempty"`
}

func newProductResponse(db *gorm.DB, p models.Product) productResponse {
	resp := productResponse{
		Product:    p,
		SellerName: p.Seller.Username,
	}

	var sellerProfile models.Profile
	if err := db.Where("user_id = ?", p.SellerID).First(&sellerProfile).Error; err == nil {
		resp.SellerRating = sellerProfile.MarketplaceRating
	}

	db.Model(&models.ProductComment{}).
		Where("product_id = ? AND is_visible = ?", p.ID, true).
		Count(&resp.CommentCount)

	if svc := services.GetImageService(); svc != nil {
		if url, err := svc.GetImageURL(p.MainImage); err == nil {
			resp.MainImageURL = url
		}
		if url, err := svc.GetImageURL(p.Image2); err == nil {
			resp.Image2URL = url
		}
		if url, err := svc.GetImageURL(p.Image3); err == nil {
			resp.Image3URL = url
		}
	}

	return resp
}

// CreateProduct handles POST /api/v1/marketplace - creates a listing and
// marks the seller's profile as a marketplace seller (idempotent)
func CreateProduct(c *gin.Context) {
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

	var req CreateProductRequest
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

	if !models.ValidProductCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"category": "Unknown product category"},
			},
		})
		return
	}
	if !models.ValidCondition(req.Condition) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"condition": "Unknown product condition"},
			},
		})
		return
	}

	product := models.Product{
		SellerID:        userID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Condition:       req.Condition,
		Price:           req.Price,
		Address:         req.Address,
		City:            req.City,
		MainImage:       req.MainImage,
		Image2:          req.Image2,
		Image3:          req.Image3,
		ContactPhone:    req.ContactPhone,
		ContactWhatsapp: req.ContactWhatsapp,
		ContactEmail:    req.ContactEmail,
		IsActive:        true,
	}

	db := config.GetDB()
	if err := db.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	// First listing turns the profile into a marketplace seller
	if err := db.Model(&models.Profile{}).
		Where("user_id = ? AND is_marketplace_seller = ?", userID, false).
		Update("is_marketplace_seller", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update seller profile",
			},
		})
		return
	}

	if err := db.Preload("Seller").First(&product, product.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load product details",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    newProductResponse(db, product),
	})
}

// ListProducts handles GET /api/v1/marketplace - public listing of active
// products with filters, ordering and pagination
func ListProducts(c *gin.Context) {
	db := config.GetDB()
	query := db.Model(&models.Product{}).Where("is_active = ?", true)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if condition := c.Query("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("city LIKE ?", "%"+city+"%")
	}
	if isSold := c.Query("is_sold"); isSold != "" {
		query = query.Where("is_sold = ?", isSold == "true")
	}
	if minPrice := c.Query("min_price"); minPrice != "" {
		query = query.Where("price >= ?", minPrice)
	}
	if maxPrice := c.Query("max_price"); maxPrice != "" {
		query = query.Where("price <= ?", maxPrice)
	}
	if search := c.Query("search"); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to count products",
			},
		})
		return
	}

	order := utils.ParseOrdering(c, []string{"price", "created_at", "views"}, "created_at DESC")
	page := utils.ParsePagination(c)

	var products []models.Product
	if err := query.Preload("Seller").
		Order(order).
		Limit(page.PageSize).Offset(page.Offset()).
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	results := make([]productResponse, 0, len(products))
	for _, p := range products {
		results = append(results, newProductResponse(db, p))
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

// GetProduct handles GET /api/v1/marketplace/:id - product detail. Inactive
// products are only visible to their seller. Each read bumps the views
// counter with a single atomic UPDATE.
func GetProduct(c *gin.Context) {
	db := config.GetDB()
	var product models.Product
	if err := db.Preload("Seller").First(&product, c.Param("id")).Error; err != nil {
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

	if !isSeller {
		if err := db.Model(&models.Product{}).Where("id = ?", product.ID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err == nil {
			product.Views++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newProductResponse(db, product),
	})
}

// UpdateProduct handles PUT /api/v1/marketplace/:id - seller-only partial
// update, including the is_sold toggle
func UpdateProduct(c *gin.Context) {
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

	var req UpdateProductRequest
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

	if req.Category != nil && !models.ValidProductCategory(*req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"category": "Unknown product category"},
			},
		})
		return
	}
	if req.Condition != nil && !models.ValidCondition(*req.Condition) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": gin.H{"condition": "Unknown product condition"},
			},
		})
		return
	}

	db := config.GetDB()
	var product models.Product
	if err := db.Preload("Seller").First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	if product.SellerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the seller can update this product",
			},
		})
		return
	}

	if req.Title != nil {
		product.Title = *req.Title
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Condition != nil {
		product.Condition = *req.Condition
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.Address != nil {
		product.Address = *req.Address
	}
	if req.City != nil {
		product.City = *req.City
	}
	// Replacing or clearing an image key orphans the stored object, so
	// collect the old keys and remove them once the update sticks.
	var replacedImages []string
	replaceImage := func(old string, incoming *string) {
		if incoming != nil && old != "" && *incoming != old {
			replacedImages = append(replacedImages, old)
		}
	}
	replaceImage(product.MainImage, req.MainImage)
	replaceImage(product.Image2, req.Image2)
	replaceImage(product.Image3, req.Image3)

	if req.MainImage != nil {
		product.MainImage = *req.MainImage
	}
	if req.Image2 != nil {
		product.Image2 = *req.Image2
	}
	if req.Image3 != nil {
		product.Image3 = *req.Image3
	}
	if req.ContactPhone != nil {
		product.ContactPhone = *req.ContactPhone
	}
	if req.ContactWhatsapp != nil {
		product.ContactWhatsapp = *req.ContactWhatsapp
	}
	if req.ContactEmail != nil {
		product.ContactEmail = *req.ContactEmail
	}
	if req.IsSold != nil {
		product.IsSold = *req.IsSold
	}

	if err := db.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	if svc := services.GetImageService(); svc != nil {
		for _, key := range replacedImages {
			if err := svc.DeleteImage(key); err != nil {
				log.Printf("Failed to delete replaced image %s: %v", key, err)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    newProductResponse(db, product),
	})
}

// DeleteProduct handles DELETE /api/v1/marketplace/:id - seller-only soft
// delete; the row stays queryable through the seller's own listing
func DeleteProduct(c *gin.Context) {
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

	if product.SellerID != userID {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only the seller can delete this product",
			},
		})
		return
	}

	if err := db.Model(&product).Update("is_active", false).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Product deactivated",
		},
	})
}

// ListMyProducts handles GET /api/v1/marketplace/mine - the seller's own
// products, including inactive ones
func ListMyProducts(c *gin.Context) {
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
	var products []models.Product
	if err := db.Where("seller_id = ?", userID).
		Preload("Seller").
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	results := make([]productResponse, 0, len(products))
	for _, p := range products {
		results = append(results, newProductResponse(db, p))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
