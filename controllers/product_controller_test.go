package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/servehub/servehub-api/models"
	"github.com/servehub/servehub-api/services"
)

// createTestProduct inserts an active listing for the given seller
func createTestProduct(t *testing.T, db *gorm.DB, sellerID uint, title string) models.Product {
	t.Helper()

	product := models.Product{
		SellerID:    sellerID,
		Title:       title,
		Description: "A well-kept item",
		Category:    models.CategoryElectronics,
		Condition:   models.ConditionGood,
		Price:       150,
		City:        "Springfield",
		IsActive:    true,
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("Failed to create product fixture: %v", err)
	}
	return product
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")

	router := setupTestRouter()
	router.POST("/marketplace", mockAuthMiddleware(seller.ID), CreateProduct)

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create product",
			requestBody: map[string]interface{}{
				"title":       "Washing machine",
				"description": "Two years old, works fine",
				"category":    models.CategoryAppliances,
				"condition":   models.ConditionGood,
				"price":       220.0,
				"city":        "Springfield",
				"main_image":  "products/washer.jpg",
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "Washing machine", data["title"])
				assert.Equal(t, true, data["is_active"])
				assert.Equal(t, false, data["is_sold"])
				assert.Equal(t, float64(0), data["views"])
				assert.Equal(t, "seller", data["seller_name"])
				assert.Equal(t, "https://images.test/products/washer.jpg", data["main_image_url"])

				// First listing flips the seller flag
				var profile models.Profile
				assert.NoError(t, db.Where("user_id = ?", seller.ID).First(&profile).Error)
				assert.True(t, profile.IsMarketplaceSeller)
			},
		},
		{
			name: "Unknown category",
			requestBody: map[string]interface{}{
				"title":       "Thing",
				"description": "A thing",
				"category":    "ANTIQUES",
				"condition":   models.ConditionGood,
				"price":       10.0,
				"city":        "Springfield",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Unknown condition",
			requestBody: map[string]interface{}{
				"title":       "Thing",
				"description": "A thing",
				"category":    models.CategoryOther,
				"condition":   "BROKEN",
				"price":       10.0,
				"city":        "Springfield",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Zero price is rejected",
			requestBody: map[string]interface{}{
				"title":       "Freebie",
				"description": "Free thing",
				"category":    models.CategoryOther,
				"condition":   models.ConditionGood,
				"price":       0,
				"city":        "Springfield",
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
		{
			name: "Missing city",
			requestBody: map[string]interface{}{
				"title":       "Thing",
				"description": "A thing",
				"category":    models.CategoryOther,
				"condition":   models.ConditionGood,
				"price":       10.0,
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := doJSON(t, router, http.MethodPost, "/marketplace", tt.requestBody)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, errorCode(response))
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestListProducts(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")

	cheap := createTestProduct(t, db, seller.ID, "Old phone")
	db.Model(&cheap).Updates(map[string]interface{}{"price": 50, "condition": models.ConditionFair})

	pricey := createTestProduct(t, db, seller.ID, "Gaming laptop")
	db.Model(&pricey).Updates(map[string]interface{}{"price": 900, "views": 40})

	sofa := createTestProduct(t, db, seller.ID, "Leather sofa")
	db.Model(&sofa).Updates(map[string]interface{}{"category": models.CategoryFurniture, "city": "Shelbyville", "is_sold": true})

	hidden := createTestProduct(t, db, seller.ID, "Hidden item")
	db.Model(&hidden).Update("is_active", false)

	router := setupTestRouter()
	router.GET("/marketplace", ListProducts)

	t.Run("Lists only active products", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodGet, "/marketplace", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(3), data["count"])
		for _, r := range data["results"].([]interface{}) {
			assert.NotEqual(t, "Hidden item", r.(map[string]interface{})["title"])
		}
	})

	t.Run("Category filter", func(t *testing.T) {
		w, response := doJSON(t, router, http.MethodGet, "/marketplace?category=FURNITURE", nil)

		data := response["data"].(map[string]interface{})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), data["count"])
	})

	t.Run("Condition filter", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?condition=FAIR", nil)
		assert.Equal(t, float64(1), response["data"].(map[string]interface{})["count"])
	})

	t.Run("City filter", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?city=Shelby", nil)
		assert.Equal(t, float64(1), response["data"].(map[string]interface{})["count"])
	})

	t.Run("Sold filter", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?is_sold=false", nil)
		assert.Equal(t, float64(2), response["data"].(map[string]interface{})["count"])
	})

	t.Run("Price range filter", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?min_price=100&max_price=1000", nil)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(2), data["count"])
	})

	t.Run("Search in title and description", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?search=laptop", nil)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(1), data["count"])
	})

	t.Run("Ordering by price ascending", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?ordering=price", nil)
		results := response["data"].(map[string]interface{})["results"].([]interface{})
		first := results[0].(map[string]interface{})
		assert.Equal(t, "Old phone", first["title"])
	})

	t.Run("Ordering by views descending", func(t *testing.T) {
		_, response := doJSON(t, router, http.MethodGet, "/marketplace?ordering=-views", nil)
		results := response["data"].(map[string]interface{})["results"].([]interface{})
		first := results[0].(map[string]interface{})
		assert.Equal(t, "Gaming laptop", first["title"])
	})

	t.Run("Unknown ordering falls back to newest first", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodGet, "/marketplace?ordering=seller_id", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")
	buyer := createTestUser(t, db, "buyer", "password123")

	product := createTestProduct(t, db, seller.ID, "Bicycle")
	path := fmt.Sprintf("/marketplace/%d", product.ID)

	publicRouter := setupTestRouter()
	publicRouter.GET("/marketplace/:id", GetProduct)

	buyerRouter := setupTestRouter()
	buyerRouter.GET("/marketplace/:id", mockAuthMiddleware(buyer.ID), GetProduct)

	sellerRouter := setupTestRouter()
	sellerRouter.GET("/marketplace/:id", mockAuthMiddleware(seller.ID), GetProduct)

	t.Run("Each public read bumps the view counter", func(t *testing.T) {
		w, response := doJSON(t, publicRouter, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), response["data"].(map[string]interface{})["views"])

		_, response = doJSON(t, buyerRouter, http.MethodGet, path, nil)
		assert.Equal(t, float64(2), response["data"].(map[string]interface{})["views"])

		var reloaded models.Product
		assert.NoError(t, db.First(&reloaded, product.ID).Error)
		assert.Equal(t, 2, reloaded.Views)
	})

	t.Run("Seller reads do not bump views", func(t *testing.T) {
		var before models.Product
		assert.NoError(t, db.First(&before, product.ID).Error)

		w, _ := doJSON(t, sellerRouter, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var after models.Product
		assert.NoError(t, db.First(&after, product.ID).Error)
		assert.Equal(t, before.Views, after.Views)
	})

	t.Run("Inactive product hidden from everyone but the seller", func(t *testing.T) {
		db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false)

		w, response := doJSON(t, publicRouter, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(response))

		w, response = doJSON(t, buyerRouter, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w, response = doJSON(t, sellerRouter, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, false, response["data"].(map[string]interface{})["is_active"])
	})

	t.Run("Unknown product", func(t *testing.T) {
		w, response := doJSON(t, publicRouter, http.MethodGet, "/marketplace/99999", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "PRODUCT_NOT_FOUND", errorCode(response))
	})
}

func TestUpdateProduct(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")
	stranger := createTestUser(t, db, "stranger", "password123")

	product := createTestProduct(t, db, seller.ID, "Bicycle")
	path := fmt.Sprintf("/marketplace/%d", product.ID)

	sellerRouter := setupTestRouter()
	sellerRouter.PUT("/marketplace/:id", mockAuthMiddleware(seller.ID), UpdateProduct)

	strangerRouter := setupTestRouter()
	strangerRouter.PUT("/marketplace/:id", mockAuthMiddleware(stranger.ID), UpdateProduct)

	t.Run("Seller updates price and marks sold", func(t *testing.T) {
		w, response := doJSON(t, sellerRouter, http.MethodPut, path, map[string]interface{}{
			"price":   120.0,
			"is_sold": true,
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := response["data"].(map[string]interface{})
		assert.Equal(t, float64(120), data["price"])
		assert.Equal(t, true, data["is_sold"])
		assert.Equal(t, "Bicycle", data["title"])
	})

	t.Run("Stranger is forbidden", func(t *testing.T) {
		w, response := doJSON(t, strangerRouter, http.MethodPut, path, map[string]interface{}{
			"price": 1.0,
		})

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", errorCode(response))
	})

	t.Run("Invalid condition rejected", func(t *testing.T) {
		w, response := doJSON(t, sellerRouter, http.MethodPut, path, map[string]interface{}{
			"condition": "TRASHED",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(response))
	})
}

func TestUpdateProduct_ReplacedImageCleanup(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")

	mockImages := services.NewMockImageService()
	mockImages.SetAsMockForTesting()

	product := createTestProduct(t, db, seller.ID, "Bicycle")
	product.MainImage = "products/bike-front.jpg"
	product.Image2 = "products/bike-side.jpg"
	assert.NoError(t, db.Save(&product).Error)
	path := fmt.Sprintf("/marketplace/%d", product.ID)

	router := setupTestRouter()
	router.PUT("/marketplace/:id", mockAuthMiddleware(seller.ID), UpdateProduct)

	t.Run("Replacing an image deletes the old object", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPut, path, map[string]interface{}{
			"main_image": "products/bike-front-v2.jpg",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"products/bike-front.jpg"}, mockImages.DeletedKeys())

		var reloaded models.Product
		assert.NoError(t, db.First(&reloaded, product.ID).Error)
		assert.Equal(t, "products/bike-front-v2.jpg", reloaded.MainImage)
	})

	t.Run("Clearing an image deletes the old object", func(t *testing.T) {
		w, _ := doJSON(t, router, http.MethodPut, path, map[string]interface{}{
			"image_2": "",
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, mockImages.DeletedKeys(), "products/bike-side.jpg")
	})

	t.Run("Untouched images are left alone", func(t *testing.T) {
		before := len(mockImages.DeletedKeys())
		w, _ := doJSON(t, router, http.MethodPut, path, map[string]interface{}{
			"price": 175,
		})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, mockImages.DeletedKeys(), before)
	})
}

func TestDeleteProduct_SoftDelete(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")
	stranger := createTestUser(t, db, "stranger", "password123")

	product := createTestProduct(t, db, seller.ID, "Bicycle")
	path := fmt.Sprintf("/marketplace/%d", product.ID)

	strangerRouter := setupTestRouter()
	strangerRouter.DELETE("/marketplace/:id", mockAuthMiddleware(stranger.ID), DeleteProduct)

	w, response := doJSON(t, strangerRouter, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(response))

	sellerRouter := setupTestRouter()
	sellerRouter.DELETE("/marketplace/:id", mockAuthMiddleware(seller.ID), DeleteProduct)
	sellerRouter.GET("/marketplace", ListProducts)
	sellerRouter.GET("/marketplace/mine", mockAuthMiddleware(seller.ID), ListMyProducts)

	w, _ = doJSON(t, sellerRouter, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The row survives, deactivated
	var reloaded models.Product
	assert.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.False(t, reloaded.IsActive)

	// Gone from the public list
	_, response = doJSON(t, sellerRouter, http.MethodGet, "/marketplace", nil)
	assert.Equal(t, float64(0), response["data"].(map[string]interface{})["count"])

	// Still visible in the seller's own list
	_, response = doJSON(t, sellerRouter, http.MethodGet, "/marketplace/mine", nil)
	results := response["data"].([]interface{})
	assert.Len(t, results, 1)
	assert.Equal(t, false, results[0].(map[string]interface{})["is_active"])
}

func TestListMyProducts(t *testing.T) {
	db := setupTestDB(t)
	seller := createTestUser(t, db, "seller", "password123")
	other := createTestUser(t, db, "other", "password123")

	createTestProduct(t, db, seller.ID, "Bicycle")
	createTestProduct(t, db, seller.ID, "Skateboard")
	createTestProduct(t, db, other.ID, "Scooter")

	router := setupTestRouter()
	router.GET("/marketplace/mine", mockAuthMiddleware(seller.ID), ListMyProducts)

	w, response := doJSON(t, router, http.MethodGet, "/marketplace/mine", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	results := response["data"].([]interface{})
	assert.Len(t, results, 2)
}
