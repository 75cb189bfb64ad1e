package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/vanyajewels/storefront/app/models"
	"github.com/vanyajewels/storefront/app/repositories"
	"github.com/vanyajewels/storefront/pkg/storage"
)

// memDisk keeps uploads in a map so catalog tests never touch the filesystem.
type memDisk struct {
	files map[string][]byte
}

func (d *memDisk) Put(path string, content []byte) error {
	d.files[path] = content
	return nil
}

func (d *memDisk) PutStream(path string, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	d.files[path] = data
	return nil
}

func (d *memDisk) Get(path string) ([]byte, error) { return d.files[path], nil }
func (d *memDisk) Exists(path string) bool         { _, ok := d.files[path]; return ok }
func (d *memDisk) Delete(path string) error        { delete(d.files, path); return nil }
func (d *memDisk) URL(path string) string          { return "/uploads/" + path }

func catalogFixture(t *testing.T) (*CatalogService, *fakeProductStore, *memDisk) {
	t.Helper()
	storage.Connect()
	disk := &memDisk{files: map[string][]byte{}}
	storage.RegisterDisk("local", disk)
	products := newFakeProductStore()
	return NewCatalogService(products), products, disk
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func bptr(v bool) *bool       { return &v }

func ringInput() ProductInput {
	return ProductInput{
		Name:         "Classic Gold Band Ring",
		Description:  "A timeless 22k gold band.",
		MRP:          fptr(24999),
		SellingPrice: fptr(21999),
		Category:     "rings",
		Material:     "gold",
		Purity:       "22k",
		Weight:       fptr(4.2),
		Stock:        iptr(25),
		Occasion:     "Daily Wear",
	}
}

func upload(name string) *ImageUpload {
	return &ImageUpload{Filename: name, Data: bytes.NewReader([]byte("fake-image"))}
}

func TestCreateProduct(t *testing.T) {
	svc, _, disk := catalogFixture(t)

	p, err := svc.Create(context.Background(), ringInput(), upload("ring.jpg"), []ImageUpload{*upload("side.png")})
	require.NoError(t, err)
	assert.Equal(t, "classic-gold-band-ring", p.Slug)
	assert.Equal(t, "Women", p.Gender) // default
	require.Len(t, p.Images, 2)
	assert.True(t, strings.HasPrefix(p.Images[0], "/uploads/products/"))
	assert.Len(t, disk.files, 2)
}

func TestCreateProductRequiresDefaultImage(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	_, err := svc.Create(context.Background(), ringInput(), nil, nil)
	assert.EqualError(t, err, "Default image is required")
}

func TestCreateProductRejectsBadImageType(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	_, err := svc.Create(context.Background(), ringInput(), upload("ring.gif"), nil)
	assert.EqualError(t, err, "Each image must be a jpg, jpeg, png, webp or svg file")
}

func TestCreateProductValidation(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	cases := []struct {
		mutate  func(*ProductInput)
		message string
	}{
		{func(in *ProductInput) { in.Name = "Ring" }, "Product name must be at least 5 characters"},
		{func(in *ProductInput) { in.Description = " " }, "A product must have a description"},
		{func(in *ProductInput) { in.SellingPrice = fptr(*in.MRP + 1) }, "Selling price cannot be greater than MRP"},
		{func(in *ProductInput) { in.Category = "crowns" }, "Invalid category"},
		{func(in *ProductInput) { in.Material = "wood" }, "Invalid material"},
		{func(in *ProductInput) { in.Purity = "" }, "Purity is required for gold, silver and platinum products"},
		{func(in *ProductInput) { in.Weight = fptr(0) }, "Weight must be greater than 0"},
		{func(in *ProductInput) { in.Stock = iptr(-1) }, "Stock must be 0 or more"},
		{func(in *ProductInput) { in.Gender = "Robots" }, "Invalid gender value"},
		{func(in *ProductInput) { in.Occasion = "Funeral" }, "Invalid occasion value: Funeral"},
		{func(in *ProductInput) { in.IsReturnable = bptr(true) }, "Return policy days are required when product is returnable"},
	}
	for _, tc := range cases {
		in := ringInput()
		tc.mutate(&in)
		_, err := svc.Create(context.Background(), in, upload("ring.jpg"), nil)
		assert.EqualError(t, err, tc.message)
	}
}

func TestPurityNotRequiredForPearl(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	in := ringInput()
	in.Material = "pearl"
	in.Purity = ""
	_, err := svc.Create(context.Background(), in, upload("ring.jpg"), nil)
	assert.NoError(t, err)
}

func TestUpdateProductMergesFields(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	created, err := svc.Create(context.Background(), ringInput(), upload("ring.jpg"), nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID.Hex(),
		ProductInput{Stock: iptr(5), Occasion: "Wedding"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Stock)
	assert.Equal(t, "Wedding", updated.Occasion)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Images, updated.Images)
}

func TestUpdateProductHonoursZeroAndFalse(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	in := ringInput()
	in.Discount = fptr(1000)
	in.Featured = bptr(true)
	in.IsReturnable = bptr(true)
	in.ReturnPolicyDays = iptr(7)
	created, err := svc.Create(context.Background(), in, upload("ring.jpg"), nil)
	require.NoError(t, err)
	require.True(t, created.Featured)

	updated, err := svc.Update(context.Background(), created.ID.Hex(),
		ProductInput{Stock: iptr(0), Discount: fptr(0), IsReturnable: bptr(false)}, nil, nil)
	require.NoError(t, err)
	assert.Zero(t, updated.Stock, "stock must be settable back to 0")
	assert.Zero(t, updated.Discount)
	assert.False(t, updated.IsReturnable)
	assert.True(t, updated.Featured, "omitted bool must stay unchanged")
	assert.Equal(t, created.SellingPrice, updated.SellingPrice, "omitted number must stay unchanged")
}

func TestUpdateProductCrossFieldValidation(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	created, err := svc.Create(context.Background(), ringInput(), upload("ring.jpg"), nil)
	require.NoError(t, err)

	// Raising sellingPrice above the stored MRP must fail even though only
	// one side of the comparison is in the patch.
	_, err = svc.Update(context.Background(), created.ID.Hex(),
		ProductInput{SellingPrice: fptr(created.MRP + 1)}, nil, nil)
	assert.EqualError(t, err, "Selling price cannot be greater than MRP")
}

func TestUpdateProductReplacesImages(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	created, err := svc.Create(context.Background(), ringInput(), upload("ring.jpg"), nil)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID.Hex(),
		ProductInput{}, upload("new.webp"), nil)
	require.NoError(t, err)
	require.Len(t, updated.Images, 1)
	assert.NotEqual(t, created.Images[0], updated.Images[0])
}

func TestDeleteProduct(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	created, err := svc.Create(context.Background(), ringInput(), upload("ring.jpg"), nil)
	require.NoError(t, err)

	deleted, err := svc.Delete(context.Background(), created.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = svc.Delete(context.Background(), created.ID.Hex())
	assert.EqualError(t, err, "Product not found")

	_, err = svc.Get(context.Background(), created.ID.Hex())
	assert.EqualError(t, err, "Product not found")
}

func TestGetProductBadID(t *testing.T) {
	svc, _, _ := catalogFixture(t)

	_, err := svc.Get(context.Background(), "nope")
	assert.EqualError(t, err, "Product not found")

	_, err = svc.Get(context.Background(), primitive.NewObjectID().Hex())
	assert.EqualError(t, err, "Product not found")
}

func TestListProducts(t *testing.T) {
	svc, products, _ := catalogFixture(t)
	products.add(models.Product{Name: "Ring", SellingPrice: 50, Stock: 5})
	products.add(models.Product{Name: "Chain", SellingPrice: 30, Stock: 5})

	list, err := svc.List(context.Background(), repositories.ProductFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, list.Products, 2)
	assert.Equal(t, int64(2), list.TotalProducts)
	assert.Equal(t, 1, list.TotalPages)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "classic-gold-band-ring", slugify("  Classic Gold Band Ring "))
	assert.Equal(t, "ashas-22k-set", slugify("Asha's 22k Set!"))
}
