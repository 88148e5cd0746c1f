package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/app/resources"
	"github.com/shashiranjanraj/vastra/app/services"
	"github.com/shashiranjanraj/vastra/pkg/resource"
	"github.com/shashiranjanraj/vastra/pkg/response"
	"gorm.io/gorm"
)

// CatalogController serves the public storefront catalog. Everything here is
// read-only and shows active products only.
type CatalogController struct {
	products  *repositories.ProductRepository
	inventory *services.Inventory
}

func NewCatalogController(db *gorm.DB) *CatalogController {
	return &CatalogController{
		products:  repositories.NewProductRepository(db),
		inventory: services.NewInventory(db),
	}
}

// List handles GET /api/products.
func (c *CatalogController) List(w http.ResponseWriter, r *http.Request) {
	products, p, err := c.products.List(repositories.ProductFilter{
		Search:     r.URL.Query().Get("q"),
		ActiveOnly: true,
		Page:       queryInt(r, "page", 1),
		PerPage:    queryInt(r, "per_page", 24),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	stock, err := c.stockFor(products)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resource.CollectionOf(&resources.ProductResource{Stock: stock}, products).
		WithPagination(p).
		Respond(w)
}

// Show handles GET /api/products/{slug}.
func (c *CatalogController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.products.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if !product.Active {
		response.NotFound(w)
		return
	}

	stock, err := c.stockFor([]models.Product{*product})
	if err != nil {
		respondError(w, r, err)
		return
	}

	resource.New(&resources.ProductResource{Stock: stock}, *product).Respond(w)
}

// stockFor batches the advisory stock read for every variant on the page.
func (c *CatalogController) stockFor(products []models.Product) (map[uint]int, error) {
	var ids []uint
	for i := range products {
		for _, v := range products[i].Variants {
			ids = append(ids, v.ID)
		}
	}
	if len(ids) == 0 {
		return map[uint]int{}, nil
	}
	return c.inventory.AvailableStockBatch(ids)
}
