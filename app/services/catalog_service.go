package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/pkg/apperr"
	"github.com/vanyajewels/storefront/pkg/cache"
	"github.com/vanyajewels/storefront/pkg/storage"
)

// listCacheTTL bounds how stale a cached catalogue page may be. Every
// admin write flushes the whole prefix anyway.
const listCacheTTL = 5 * time.Minute

var allowedImageExts = []string{".jpg", ".jpeg", ".png", ".webp", ".svg"}

// ImageUpload is one file extracted from the multipart form.
type ImageUpload struct {
	Filename string
	Data     io.Reader
}

// ProductInput carries the catalogue fields of a create or update. Numeric
// and boolean fields are pointers so a partial update can tell "set to
// zero/false" apart from "not submitted"; empty strings mean "leave
// unchanged" on update. The controller sets exactly what the form carried.
type ProductInput struct {
	Name             string
	Description      string
	MRP              *float64
	SellingPrice     *float64
	Discount         *float64
	Category         string
	SubCategory      string
	Material         string
	Purity           string
	Weight           *float64
	Stock            *int
	Featured         *bool
	Gender           string
	Occasion         string
	WarrantyInMonths *int
	IsReturnable     *bool
	ReturnPolicyDays *int
}

// ProductList is a page of catalogue results.
type ProductList struct {
	Products      []models.Product `json:"data"`
	Page          int              `json:"page"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
}

// CatalogService owns the product catalogue: admin CRUD with image upload
// and the cached public listing.
type CatalogService struct {
	products ProductStore
}

// NewCatalogService wires the product store.
func NewCatalogService(products ProductStore) *CatalogService {
	return &CatalogService{products: products}
}

// Create validates and stores a new product. The default image is
// mandatory and stored first so its path leads the image list.
func (s *CatalogService) Create(ctx context.Context, in ProductInput, defaultImage *ImageUpload, extra []ImageUpload) (*models.Product, error) {
	product := &models.Product{
		Name:             strings.TrimSpace(in.Name),
		Slug:             slugify(in.Name),
		Description:      strings.TrimSpace(in.Description),
		MRP:              orZero(in.MRP),
		SellingPrice:     orZero(in.SellingPrice),
		Discount:         orZero(in.Discount),
		Category:         in.Category,
		SubCategory:      in.SubCategory,
		Material:         in.Material,
		Purity:           in.Purity,
		Weight:           orZero(in.Weight),
		Stock:            orZero(in.Stock),
		Featured:         orZero(in.Featured),
		Gender:           in.Gender,
		Occasion:         in.Occasion,
		WarrantyInMonths: orZero(in.WarrantyInMonths),
		IsReturnable:     orZero(in.IsReturnable),
		ReturnPolicyDays: in.ReturnPolicyDays,
	}
	if product.Gender == "" {
		product.Gender = "Women"
	}

	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if defaultImage == nil {
		return nil, apperr.BadRequest("Default image is required")
	}

	paths, err := storeImages(append([]ImageUpload{*defaultImage}, extra...))
	if err != nil {
		return nil, err
	}
	product.Images = paths

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.flushListCache(ctx)
	return product, nil
}

// Update applies a partial admin edit. New images, when submitted, replace
// the old list; the old files are left in place.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput, defaultImage *ImageUpload, extra []ImageUpload) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Product not found")
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product not found")
	}

	applyProductInput(product, in)
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	var uploads []ImageUpload
	if defaultImage != nil {
		uploads = append(uploads, *defaultImage)
	}
	uploads = append(uploads, extra...)
	if len(uploads) > 0 {
		paths, err := storeImages(uploads)
		if err != nil {
			return nil, err
		}
		product.Images = paths
	}

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	s.flushListCache(ctx)
	return product, nil
}

// Delete removes a product and returns the deleted document.
func (s *CatalogService) Delete(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Product not found")
	}
	product, err := s.products.Delete(ctx, oid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product not found")
	}
	s.flushListCache(ctx)
	return product, nil
}

// Get returns one product by id.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperr.NotFound("Product not found")
	}
	product, err := s.products.FindByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("Product not found")
	}
	return product, nil
}

// List serves the public catalogue page, reading through the redis cache.
func (s *CatalogService) List(ctx context.Context, f repositories.ProductFilter) (*ProductList, error) {
	key := listCacheKey(f)
	var cached ProductList
	if cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	products, total, err := s.products.List(ctx, f)
	if err != nil {
		return nil, err
	}

	page := NewPagination(total, f.Page, f.Limit)
	result := &ProductList{
		Products:      products,
		Page:          page.Page,
		TotalPages:    page.TotalPages,
		TotalProducts: total,
	}
	_ = cache.Set(ctx, key, result, listCacheTTL)
	return result, nil
}

func (s *CatalogService) flushListCache(ctx context.Context) {
	_ = cache.DelPrefix(ctx, "products:")
}

func listCacheKey(f repositories.ProductFilter) string {
	return fmt.Sprintf("products:%s|%s|%s|%s|%s|%v|%v|%v|%s|%d|%d",
		f.Category, f.SubCategory, f.Material, f.Purity, f.Gender,
		f.Occasions, f.Featured, f.IsReturnable, f.Search, f.Page, f.Limit)
}

// storeImages writes each upload to the storage manager under products/ and
// returns the public paths in submission order.
func storeImages(uploads []ImageUpload) ([]string, error) {
	paths := make([]string, 0, len(uploads))
	for _, up := range uploads {
		ext := strings.ToLower(filepath.Ext(up.Filename))
		if !oneOf(allowedImageExts, ext) {
			return nil, apperr.BadRequest("Each image must be a jpg, jpeg, png, webp or svg file")
		}
		path := "products/" + primitive.NewObjectID().Hex() + ext
		if err := storage.PutStream(path, up.Data); err != nil {
			return nil, err
		}
		paths = append(paths, "/uploads/"+path)
	}
	return paths, nil
}

// validateProduct runs the schema rules against a fully assembled product:
// the freshly built one on create, the merged one on a partial update, so
// the cross-field checks always see both sides.
func validateProduct(p *models.Product) error {
	name := strings.TrimSpace(p.Name)
	if len(name) < 5 {
		return apperr.BadRequest("Product name must be at least 5 characters")
	}
	if len(name) > 100 {
		return apperr.BadRequest("Product name must be at most 100 characters")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperr.BadRequest("A product must have a description")
	}
	if p.MRP < 0 || p.SellingPrice < 0 {
		return apperr.BadRequest("Price must be above 0")
	}
	if p.SellingPrice > p.MRP {
		return apperr.BadRequest("Selling price cannot be greater than MRP")
	}
	if !oneOf(models.ProductCategories, p.Category) {
		return apperr.BadRequest("Invalid category")
	}
	if !oneOf(models.ProductMaterials, p.Material) {
		return apperr.BadRequest("Invalid material")
	}
	if models.PurityRequired(p.Material) && !oneOf(models.ProductPurities, p.Purity) {
		return apperr.BadRequest("Purity is required for gold, silver and platinum products")
	}
	if p.Weight < 0.1 {
		return apperr.BadRequest("Weight must be greater than 0")
	}
	if p.Stock < 0 {
		return apperr.BadRequest("Stock must be 0 or more")
	}
	if p.Gender != "" && !oneOf(models.ProductGenders, p.Gender) {
		return apperr.BadRequest("Invalid gender value")
	}
	if !oneOf(models.ProductOccasions, p.Occasion) {
		return apperr.BadRequestf("Invalid occasion value: %s", p.Occasion)
	}
	if p.WarrantyInMonths < 0 {
		return apperr.BadRequest("Warranty cannot be negative")
	}
	if p.IsReturnable && p.ReturnPolicyDays == nil {
		return apperr.BadRequest("Return policy days are required when product is returnable")
	}
	if p.ReturnPolicyDays != nil && *p.ReturnPolicyDays < 0 {
		return apperr.BadRequest("Return days cannot be negative")
	}
	return nil
}

// applyProductInput merges a partial edit into an existing product. Strings
// replace only when non-empty; pointer fields replace only when set, so an
// admin can turn Stock, Discount, Featured or IsReturnable back to
// zero/false without the edit being mistaken for an omitted field.
func applyProductInput(p *models.Product, in ProductInput) {
	if in.Name != "" {
		p.Name = strings.TrimSpace(in.Name)
		p.Slug = slugify(in.Name)
	}
	if in.Description != "" {
		p.Description = strings.TrimSpace(in.Description)
	}
	if in.MRP != nil {
		p.MRP = *in.MRP
	}
	if in.SellingPrice != nil {
		p.SellingPrice = *in.SellingPrice
	}
	if in.Discount != nil {
		p.Discount = *in.Discount
	}
	if in.Category != "" {
		p.Category = in.Category
	}
	if in.SubCategory != "" {
		p.SubCategory = in.SubCategory
	}
	if in.Material != "" {
		p.Material = in.Material
	}
	if in.Purity != "" {
		p.Purity = in.Purity
	}
	if in.Weight != nil {
		p.Weight = *in.Weight
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Gender != "" {
		p.Gender = in.Gender
	}
	if in.Occasion != "" {
		p.Occasion = in.Occasion
	}
	if in.WarrantyInMonths != nil {
		p.WarrantyInMonths = *in.WarrantyInMonths
	}
	if in.IsReturnable != nil {
		p.IsReturnable = *in.IsReturnable
	}
	if in.ReturnPolicyDays != nil {
		p.ReturnPolicyDays = in.ReturnPolicyDays
	}
}

func orZero[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

var slugStrip = regexp.MustCompile(`[^a-z0-9 -]`)

func slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "-")
	return s
}
