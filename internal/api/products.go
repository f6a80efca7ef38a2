package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"
	"gorm.io/gorm"

	"github.com/stockease/stockease/internal/domain"
	"github.com/stockease/stockease/internal/webserver"
	"github.com/stockease/stockease/pkg/common"
)

type productPayload struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Description string  `json:"description" validate:"omitempty,max=2000"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Stock       *int    `json:"stock" validate:"required,min=0"`
	Size        string  `json:"size" validate:"omitempty,oneof=SMALL MEDIUM LARGE"`
	Unit        string  `json:"unit" validate:"omitempty,oneof=kg g mg l ml"`
	CategoryID  int64   `json:"category,string" validate:"required"`
	SellerID    int64   `json:"seller,string" validate:"required"`
	BrandID     *int64  `json:"brand,string" validate:"omitempty"`
}

type productExportRow struct {
	ID       int64   `csv:"id"`
	Name     string  `csv:"name"`
	Price    float64 `csv:"price"`
	Stock    int     `csv:"stock"`
	Size     string  `csv:"size"`
	Unit     string  `csv:"unit"`
	Category string  `csv:"category"`
	Seller   string  `csv:"seller"`
	Brand    string  `csv:"brand"`
}

type productStats struct {
	Count       int64   `json:"count"`
	TotalStock  int64   `json:"total_stock"`
	PriceMean   float64 `json:"price_mean"`
	PriceMedian float64 `json:"price_median"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/export", exportProducts)
	webserver.ApiGET("/products/stats", productStatsHandler)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)

	// Sorting: whitelist allowed sort columns to avoid SQL injection
	sortField := strings.TrimSpace(c.QueryParam("sort"))
	order := strings.ToUpper(strings.TrimSpace(c.QueryParam("order")))
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	allowed := map[string]string{
		"id":         "id",
		"name":       "name",
		"price":      "price",
		"stock":      "stock",
		"created_at": "created_at",
	}
	sortCol, okCol := allowed[sortField]
	if !okCol || sortCol == "" {
		sortCol = "id"
	}

	db := GetDB(c).Model(&domain.Product{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ?", "%"+q+"%")
		} else {
			db = db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
	}
	if cid := strings.TrimSpace(c.QueryParam("category")); cid != "" {
		db = db.Where("category_id = ?", cid)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	var rows []domain.Product
	if err := db.Order(sortCol + " " + order).Offset((page - 1) * pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	return paged(c, rows, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}
	return ok(c, "ok", p)
}

// refError names the payload field whose reference did not resolve.
type refError struct {
	field   string
	message string
}

func (e *refError) Error() string {
	return e.message
}

// checkProductRefs verifies every reference on the payload resolves to an
// existing record. The first dangling reference aborts the write; nothing
// is written to the response here, the caller owns the envelope.
func checkProductRefs(db *gorm.DB, payload *productPayload) *refError {
	var count int64
	db.Model(&domain.Category{}).Where("id = ?", payload.CategoryID).Count(&count)
	if count == 0 {
		return &refError{field: "category", message: "Category reference does not resolve"}
	}

	db.Model(&domain.Seller{}).Where("id = ?", payload.SellerID).Count(&count)
	if count == 0 {
		return &refError{field: "seller", message: "Seller reference does not resolve"}
	}

	if payload.BrandID != nil {
		db.Model(&domain.Brand{}).Where("id = ?", *payload.BrandID).Count(&count)
		if count == 0 {
			return &refError{field: "brand", message: "Brand reference does not resolve"}
		}
	}
	return nil
}

func createProduct(c echo.Context) error {
	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if ref := checkProductRefs(GetDB(c), &payload); ref != nil {
		return fail(c, http.StatusUnprocessableEntity, "REF_NOT_FOUND", ref.message, ref.field)
	}

	now := time.Now()
	p := domain.Product{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Description: strings.TrimSpace(payload.Description),
		Price:       payload.Price,
		Stock:       *payload.Stock,
		Size:        payload.Size,
		Unit:        payload.Unit,
		CategoryID:  payload.CategoryID,
		SellerID:    payload.SellerID,
		BrandID:     payload.BrandID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := GetDB(c).Create(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create product", err.Error())
	}

	return created(c, "Product created", p)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var p domain.Product
	if err := GetDB(c).Where("id = ?", id).First(&p).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "Product not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query product", err.Error())
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}
	if ref := checkProductRefs(GetDB(c), &payload); ref != nil {
		return fail(c, http.StatusUnprocessableEntity, "REF_NOT_FOUND", ref.message, ref.field)
	}

	p.Name = strings.TrimSpace(payload.Name)
	p.Description = strings.TrimSpace(payload.Description)
	p.Price = payload.Price
	p.Stock = *payload.Stock
	p.Size = payload.Size
	p.Unit = payload.Unit
	p.CategoryID = payload.CategoryID
	p.SellerID = payload.SellerID
	p.BrandID = payload.BrandID
	p.UpdatedAt = time.Now()

	if err := GetDB(c).Save(&p).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update product", err.Error())
	}
	return ok(c, "Product updated", p)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Product{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete product", err.Error())
	}
	return ok(c, "Product deleted", map[string]interface{}{"id": id})
}

func exportProducts(c echo.Context) error {
	db := GetDB(c)

	var products []domain.Product
	if err := db.Order("id ASC").Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	categoryNames := map[int64]string{}
	sellerNames := map[int64]string{}
	brandNames := map[int64]string{}

	var categories []domain.Category
	db.Find(&categories)
	for _, v := range categories {
		categoryNames[v.ID] = v.Name
	}
	var sellers []domain.Seller
	db.Find(&sellers)
	for _, v := range sellers {
		sellerNames[v.ID] = v.Name
	}
	var brands []domain.Brand
	db.Find(&brands)
	for _, v := range brands {
		brandNames[v.ID] = v.Name
	}

	rows := make([]productExportRow, 0, len(products))
	for _, p := range products {
		row := productExportRow{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			Size:     p.Size,
			Unit:     p.Unit,
			Category: categoryNames[p.CategoryID],
			Seller:   sellerNames[p.SellerID],
		}
		if p.BrandID != nil {
			row.Brand = brandNames[*p.BrandID]
		}
		rows = append(rows, row)
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return gocsv.Marshal(&rows, c.Response())
}

func productStatsHandler(c echo.Context) error {
	db := GetDB(c)

	var products []domain.Product
	if err := db.Find(&products).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query products", err.Error())
	}

	result := productStats{Count: int64(len(products))}
	prices := make([]float64, 0, len(products))
	for _, p := range products {
		prices = append(prices, p.Price)
		result.TotalStock += int64(p.Stock)
	}
	if len(prices) > 0 {
		result.PriceMean, _ = stats.Mean(prices)
		result.PriceMedian, _ = stats.Median(prices)
	}

	return ok(c, "ok", result)
}
