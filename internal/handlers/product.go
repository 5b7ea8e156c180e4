// internal/handlers/product.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/imageurl"
	"github.com/javajoker/brewhouse-backend/internal/middleware"
	"github.com/javajoker/brewhouse-backend/internal/models"
	"github.com/javajoker/brewhouse-backend/internal/repository"
	"github.com/javajoker/brewhouse-backend/internal/services"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

const maxUploadFiles = 10

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
}

// productResponse is a product as sent to clients, with image paths resolved
// for the requesting host.
type productResponse struct {
	*models.Product
	EffectivePrice  float64  `json:"effective_price"`
	ImageURLs       []string `json:"image_urls"`
	PrimaryImageURL string   `json:"primary_image_url,omitempty"`
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
	}
}

func presentProduct(product *models.Product, host imageurl.HostContext) productResponse {
	urls := imageurl.ResolveAll(product.ImagePaths(), host)
	resp := productResponse{
		Product:        product,
		EffectivePrice: product.EffectivePrice(),
		ImageURLs:      urls,
	}
	if len(urls) > 0 {
		resp.PrimaryImageURL = urls[0]
	}
	return resp
}

func presentProducts(products []models.Product, host imageurl.HostContext) []productResponse {
	out := make([]productResponse, len(products))
	for i := range products {
		out[i] = presentProduct(&products[i], host)
	}
	return out
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	// Build search parameters
	query := repository.ProductQuery{
		PaginationParams: params,
	}

	// Parse additional filters
	if featuredStr := c.Query("featured"); featuredStr != "" {
		if featured, err := strconv.ParseBool(featuredStr); err == nil {
			query.Featured = &featured
		}
	}

	if inStockStr := c.Query("in_stock"); inStockStr != "" {
		if inStock, err := strconv.ParseBool(inStockStr); err == nil {
			query.InStock = &inStock
		}
	}

	if priceMinStr := c.Query("price_min"); priceMinStr != "" {
		if priceMin, err := strconv.ParseFloat(priceMinStr, 64); err == nil {
			query.PriceMin = &priceMin
		}
	}

	if priceMaxStr := c.Query("price_max"); priceMaxStr != "" {
		if priceMax, err := strconv.ParseFloat(priceMaxStr, 64); err == nil {
			query.PriceMax = &priceMax
		}
	}

	// Search products
	products, total, err := h.productService.SearchProducts(c.Request.Context(), query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	host := middleware.GetHostContext(c)
	result := utils.CreatePaginationResult(presentProducts(products, host), total, params)
	utils.PaginatedResponse(c, result)
}

// GET /products/featured
func (h *ProductHandler) GetFeaturedProducts(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "8"))
	if err != nil {
		limit = 8
	}

	products, err := h.productService.GetFeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"products": presentProducts(products, middleware.GetHostContext(c)),
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": presentProduct(product, middleware.GetHostContext(c)),
	})
}

// GET /products/slug/:slug
func (h *ProductHandler) GetProductBySlug(c *gin.Context) {
	product, err := h.productService.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": presentProduct(product, middleware.GetHostContext(c)),
	})
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	creatorID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), creatorID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductCreated),
		"product": presentProduct(product, middleware.GetHostContext(c)),
	})
}

// PUT /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductUpdated),
		"product": presentProduct(product, middleware.GetHostContext(c)),
	})
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	id, ok := uuidParam(c, "id", "product")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyProductDeleted),
	})
}

// POST /products/upload-images
//
// Stores each image and returns its logical path, which is what the product's
// images and primary_image fields hold.
func (h *ProductHandler) UploadProductImages(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	// Parse multipart form
	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationRequired, "images"), nil)
		return
	}
	if len(files) > maxUploadFiles {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "images"), gin.H{"max_files": maxUploadFiles})
		return
	}

	host := middleware.GetHostContext(c)
	uploaded := []gin.H{}
	failed := []gin.H{}

	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			failed = append(failed, gin.H{"file": fileHeader.Filename, "error": i18n.T(lang, i18n.KeyFileUploadFailed)})
			continue
		}

		result, err := h.storageService.UploadImage(c.Request.Context(), file)
		file.Close()
		if err != nil {
			failed = append(failed, gin.H{"file": fileHeader.Filename, "error": utils.ErrorMessage(lang, err)})
			continue
		}

		uploaded = append(uploaded, gin.H{
			"file":      fileHeader.Filename,
			"path":      result.Path,
			"url":       imageurl.Resolve(result.Path, host),
			"size":      result.Size,
			"mime_type": result.MimeType,
		})
	}

	if len(uploaded) == 0 {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), failed)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"images":  uploaded,
		"failed":  failed,
	})
}

// GET /categories
func (h *ProductHandler) GetCategories(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"categories": h.productService.ListCategories(),
	})
}
