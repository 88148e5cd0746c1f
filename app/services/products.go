package services

import (
	"errors"
	"regexp"
	"strings"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/validate"
	"gorm.io/gorm"
)

// ProductInput is the admin create/update payload. Price fields are decimal
// amounts; Colors and Sizes are the variant axes and drive matrix
// regeneration on save.
type ProductInput struct {
	Title       string         `json:"title"       validate:"required,max=255"`
	Slug        string         `json:"slug,omitempty" validate:"nullable,max=255"`
	Description string         `json:"description,omitempty"`
	BasePrice   float64        `json:"base_price"  validate:"gte=0"`
	SalePrice   *float64       `json:"sale_price,omitempty" validate:"nullable,gte=0"`
	SKU         string         `json:"sku"         validate:"required,max=100"`
	HasColors   bool           `json:"has_colors"`
	HasSizes    bool           `json:"has_sizes"`
	Colors      []string       `json:"colors,omitempty"`
	Sizes       []string       `json:"sizes,omitempty"`
	Images      []models.Image `json:"images,omitempty"`
	Active      *bool          `json:"active,omitempty"`
}

// Products manages the admin side of the catalog: create and update with
// automatic variant-matrix regeneration, and hard deletion.
type Products struct {
	repo *repositories.ProductRepository
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{repo: repositories.NewProductRepository(db)}
}

// Create validates the input, persists the product and generates its
// initial variant matrix from the configured axes.
func (s *Products) Create(in ProductInput) (*models.Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:       in.Title,
		Slug:        s.slugOr(in.Slug, in.Title),
		Description: in.Description,
		BasePrice:   in.BasePrice,
		SalePrice:   in.SalePrice,
		SKU:         in.SKU,
		HasColors:   in.HasColors,
		HasSizes:    in.HasSizes,
		Colors:      in.Colors,
		Sizes:       SortSizes(in.Sizes),
		Images:      in.Images,
		Active:      true,
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.Variants = GenerateMatrix(product, nil)

	if err := s.repo.Create(product); err != nil {
		return nil, persistence("product create", err)
	}
	return product, nil
}

// Update applies the input and regenerates the variant matrix against the
// existing variant set: matching axis pairs keep their records, new pairs
// become drafts, removed pairs are dropped with their stock rows.
func (s *Products) Update(id uint, in ProductInput) (*models.Product, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	product, err := s.Find(id)
	if err != nil {
		return nil, err
	}

	product.Title = in.Title
	product.Slug = s.slugOr(in.Slug, in.Title)
	product.Description = in.Description
	product.BasePrice = in.BasePrice
	product.SalePrice = in.SalePrice
	product.SKU = in.SKU
	product.HasColors = in.HasColors
	product.HasSizes = in.HasSizes
	product.Colors = in.Colors
	product.Sizes = SortSizes(in.Sizes)
	if in.Images != nil {
		product.Images = in.Images
	}
	if in.Active != nil {
		product.Active = *in.Active
	}

	matrix := GenerateMatrix(product, product.Variants)

	if err := s.repo.Update(product); err != nil {
		return nil, persistence("product update", err)
	}
	if err := s.repo.SyncVariants(product.ID, matrix); err != nil {
		return nil, persistence("variant sync", err)
	}

	return s.Find(id)
}

// Find loads one product with variants.
func (s *Products) Find(id uint) (*models.Product, error) {
	product, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, validationf("unknown product %d", id)
	}
	if err != nil {
		return nil, persistence("product read", err)
	}
	return product, nil
}

// Delete hard-removes the product with its variants and stock rows.
func (s *Products) Delete(id uint) error {
	if _, err := s.Find(id); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return persistence("product delete", err)
	}
	return nil
}

func (s *Products) check(in ProductInput) error {
	if errs := validate.Struct(&in); validate.HasErrors(errs) {
		return &ValidationError{Message: "invalid product", Fields: errs}
	}
	if in.HasColors && len(in.Colors) == 0 {
		return validationf("colors axis is enabled but no colors are configured")
	}
	if in.HasSizes && len(in.Sizes) == 0 {
		return validationf("sizes axis is enabled but no sizes are configured")
	}
	if in.SalePrice != nil && *in.SalePrice >= in.BasePrice {
		return validationf("sale price must be below the base price")
	}
	return nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func (s *Products) slugOr(slug, title string) string {
	src := slug
	if src == "" {
		src = title
	}
	out := slugStrip.ReplaceAllString(strings.ToLower(src), "-")
	return strings.Trim(out, "-")
}
