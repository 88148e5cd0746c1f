package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/bind"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"github.com/shashiranjanraj/vastra/pkg/storage"
	"gorm.io/gorm"
)

// uploadLimit caps product image uploads at 8 MiB.
const uploadLimit = 8 << 20

// AdminProductsController is the authenticated catalog management surface.
// Saving a product regenerates its variant matrix from the configured axes.
type AdminProductsController struct {
	products  *services.Products
	repo      *repositories.ProductRepository
	inventory *services.Inventory
}

func NewAdminProductsController(db *gorm.DB) *AdminProductsController {
	return &AdminProductsController{
		products:  services.NewProducts(db),
		repo:      repositories.NewProductRepository(db),
		inventory: services.NewInventory(db),
	}
}

// List handles GET /api/admin/products. Unlike the storefront it includes
// inactive products and disabled variants.
func (c *AdminProductsController) List(w http.ResponseWriter, r *http.Request) {
	products, p, err := c.repo.List(repositories.ProductFilter{
		Search:  r.URL.Query().Get("q"),
		Page:    queryInt(r, "page", 1),
		PerPage: queryInt(r, "per_page", 25),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Paginated(w, products, p)
}

// Show handles GET /api/admin/products/{id} with per-variant stock attached.
func (c *AdminProductsController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ids := make([]uint, 0, len(product.Variants))
	for _, v := range product.Variants {
		ids = append(ids, v.ID)
	}
	stock, err := c.inventory.AvailableStockBatch(ids)
	if err != nil {
		respondError(w, r, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"product": product,
		"stock":   stock,
	})
}

// Create handles POST /api/admin/products.
func (c *AdminProductsController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Create(in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update handles PUT /api/admin/products/{id}. The variant matrix is
// regenerated; variants whose axis pair survives keep their identity, stock
// and price overrides.
func (c *AdminProductsController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.products.Update(id, in)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, product)
}

// Delete handles DELETE /api/admin/products/{id}.
func (c *AdminProductsController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}
	if err := c.products.Delete(id); err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, map[string]interface{}{"deleted": id})
}

// UploadImage handles POST /api/admin/products/{id}/images as a multipart
// upload. The file lands on the configured storage disk and its URL is
// appended to the product's image list.
func (c *AdminProductsController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	product, err := c.products.Find(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(uploadLimit); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, "invalid multipart body")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".avif":
	default:
		response.Error(w, http.StatusUnprocessableEntity, fmt.Sprintf("unsupported image type %q", ext))
		return
	}

	path := fmt.Sprintf("products/%d/%s-%s%s",
		product.ID, time.Now().UTC().Format("20060102"), uuid.NewString()[:8], ext)
	if err := storage.PutStream(path, file); err != nil {
		respondError(w, r, err)
		return
	}

	product.Images = append(product.Images, models.Image{URL: storage.URL(path)})
	if err := c.repo.Update(product); err != nil {
		respondError(w, r, err)
		return
	}

	response.Created(w, map[string]interface{}{
		"url":    storage.URL(path),
		"images": product.Images,
	})
}

type stockRequest struct {
	LocationID uint `json:"location_id" validate:"required"`
	Available  int  `json:"available"   validate:"gte=0"`
}

// SetStock handles PUT /api/admin/variants/{id}/stock.
func (c *AdminProductsController) SetStock(w http.ResponseWriter, r *http.Request) {
	variantID, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	var body stockRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.ValidationError(w, errs)
		return
	}

	record, err := c.inventory.SetStock(variantID, body.LocationID, body.Available)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, record)
}

// VariantStock handles GET /api/admin/variants/{id}/stock and returns the
// per-location ledger rows.
func (c *AdminProductsController) VariantStock(w http.ResponseWriter, r *http.Request) {
	variantID, ok := urlID(r)
	if !ok {
		response.NotFound(w)
		return
	}

	records, err := c.inventory.Records(variantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, records)
}

// Locations handles GET /api/admin/locations.
func (c *AdminProductsController) Locations(w http.ResponseWriter, r *http.Request) {
	locations, err := c.inventory.Locations()
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Success(w, locations)
}

type locationRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CreateLocation handles POST /api/admin/locations.
func (c *AdminProductsController) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var body locationRequest
	if errs, err := bind.JSON(r, &body); err != nil {
		response.ValidationError(w, errs)
		return
	}

	location, err := c.inventory.CreateLocation(body.Name)
	if err != nil {
		respondError(w, r, err)
		return
	}
	response.Created(w, location)
}
