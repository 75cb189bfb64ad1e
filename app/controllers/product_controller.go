package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/app/services"
	"github.com/vanyajewels/storefront/pkg/response"
	"github.com/vanyajewels/storefront/pkg/router"
)

// maxUploadBytes bounds one multipart product upload.
const maxUploadBytes = 32 << 20

// ProductController serves the public catalogue and the admin CRUD.
type ProductController struct {
	service *services.CatalogService
}

// NewProductController wires the catalog service.
func NewProductController(service *services.CatalogService) *ProductController {
	return &ProductController{service: service}
}

// List is the public catalogue with filters, search and pagination.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.ProductFilter{
		Category:    q.Get("category"),
		SubCategory: q.Get("subCategory"),
		Material:    q.Get("material"),
		Purity:      q.Get("purity"),
		Gender:      q.Get("gender"),
		Search:      q.Get("search"),
		Page:        intQuery(q.Get("page"), 1),
		Limit:       intQuery(q.Get("limit"), 10),
	}
	if v := q.Get("occasion"); v != "" {
		filter.Occasions = strings.Split(v, ",")
	}
	if v := q.Get("featured"); v != "" {
		featured := v == "true"
		filter.Featured = &featured
	}
	if v := q.Get("isReturnable"); v != "" {
		returnable := v == "true"
		filter.IsReturnable = &returnable
	}

	list, err := c.service.List(r.Context(), filter)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Raw(w, http.StatusOK, map[string]any{
		"success":       true,
		"page":          list.Page,
		"totalPages":    list.TotalPages,
		"totalProducts": list.TotalProducts,
		"data":          list.Products,
	})
}

// Get returns one product.
func (c *ProductController) Get(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Get(r.Context(), router.Param(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Create uploads a new product (admin, multipart form).
func (c *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	in, defaultImage, extra, err := parseProductForm(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	product, err := c.service.Create(r.Context(), in, defaultImage, extra)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, map[string]any{"product": product})
}

// Update partially edits a product (admin, multipart form).
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	in, defaultImage, extra, err := parseProductForm(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	product, err := c.service.Update(r.Context(), router.Param(r, "id"), in, defaultImage, extra)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, product)
}

// Delete removes a product (admin).
func (c *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	product, err := c.service.Delete(r.Context(), router.Param(r, "id"))
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.SuccessMessage(w, "Product deleted successfully", product)
}

// parseProductForm reads the multipart upload into a ProductInput plus the
// image files. Open file handles are backed by the request's multipart
// buffer and live until the handler returns.
func parseProductForm(r *http.Request) (services.ProductInput, *services.ImageUpload, []services.ImageUpload, error) {
	var in services.ProductInput
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return in, nil, nil, err
	}

	in = services.ProductInput{
		Name:             r.FormValue("name"),
		Description:      r.FormValue("description"),
		MRP:              floatForm(r, "mrp"),
		SellingPrice:     floatForm(r, "sellingPrice"),
		Discount:         floatForm(r, "discount"),
		Category:         r.FormValue("category"),
		SubCategory:      r.FormValue("subCategory"),
		Material:         r.FormValue("material"),
		Purity:           r.FormValue("purity"),
		Weight:           floatForm(r, "weight"),
		Stock:            intForm(r, "stock"),
		Featured:         boolForm(r, "featured"),
		Gender:           r.FormValue("gender"),
		Occasion:         r.FormValue("occasion"),
		WarrantyInMonths: intForm(r, "warrantyInMonths"),
		IsReturnable:     boolForm(r, "isReturnable"),
		ReturnPolicyDays: intForm(r, "returnPolicyDays"),
	}

	var defaultImage *services.ImageUpload
	var extra []services.ImageUpload
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["defaultImage"]; len(files) > 0 {
			f, err := files[0].Open()
			if err != nil {
				return in, nil, nil, err
			}
			defaultImage = &services.ImageUpload{Filename: files[0].Filename, Data: f}
		}
		for _, header := range r.MultipartForm.File["images"] {
			f, err := header.Open()
			if err != nil {
				return in, nil, nil, err
			}
			extra = append(extra, services.ImageUpload{Filename: header.Filename, Data: f})
		}
	}
	return in, defaultImage, extra, nil
}

// The form helpers return nil for fields the form did not submit, so a
// partial update can tell an explicit 0/false from an omitted field.

func floatForm(r *http.Request, key string) *float64 {
	s := r.FormValue(key)
	if s == "" {
		return nil
	}
	v, _ := strconv.ParseFloat(s, 64)
	return &v
}

func intForm(r *http.Request, key string) *int {
	s := r.FormValue(key)
	if s == "" {
		return nil
	}
	v, _ := strconv.Atoi(s)
	return &v
}

func boolForm(r *http.Request, key string) *bool {
	s := r.FormValue(key)
	if s == "" {
		return nil
	}
	v := s == "true"
	return &v
}
