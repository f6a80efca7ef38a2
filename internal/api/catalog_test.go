package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/stockease/stockease/internal/domain"
	"github.com/stockease/stockease/pkg/common"
)

func TestCreateAndListCategories(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "cat@example.com")

	rec := env.request(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "  Beverage  "})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := env.decode(t, rec)["data"].(map[string]interface{})
	require.Equal(t, "Beverage", data["name"])

	rec = env.request(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Grocery"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := env.decode(t, rec)["data"].([]interface{})
	require.Len(t, rows, 2)
	// Ordered by name ascending.
	require.Equal(t, "Beverage", rows[0].(map[string]interface{})["name"])
	require.Equal(t, "Grocery", rows[1].(map[string]interface{})["name"])
}

func TestDuplicateCategoryRejected(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "cat2@example.com")

	rec := env.request(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Household"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/v1/categories", map[string]string{"name": "Household"})
	require.Equal(t, http.StatusConflict, rec.Code)
	body := env.decode(t, rec)
	require.Equal(t, "CATEGORY_EXISTS", body["code"])
}

func TestDeleteCategoryInUse(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "cat3@example.com")
	categoryID, sellerID, _ := env.seedCatalog(t)

	now := time.Now()
	require.NoError(t, env.db.Create(&domain.Product{
		ID:         common.UUIDint64(),
		Name:       "Rice",
		Price:      450,
		Stock:      20,
		CategoryID: categoryID,
		SellerID:   sellerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := env.decode(t, rec)
	require.Equal(t, "CATEGORY_IN_USE", body["code"])
	require.Equal(t, "category", body["details"])

	var count int64
	env.db.Model(&domain.Category{}).Where("id = ?", categoryID).Count(&count)
	require.EqualValues(t, 1, count)

	// Removing the referencing product unblocks the delete.
	require.NoError(t, env.db.Where("category_id = ?", categoryID).Delete(&domain.Product{}).Error)
	rec = env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/categories/%d", categoryID), nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreateSellerAndDuplicateEmail(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "seller@example.com")

	payload := map[string]string{
		"name":      "Acme Foods",
		"email":     "acme@example.com",
		"contactNo": "0170000000",
	}
	rec := env.request(t, http.MethodPost, "/api/v1/sellers", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := env.decode(t, rec)["data"].(map[string]interface{})
	require.Equal(t, "Acme Foods", data["name"])
	sellerID := data["id"].(string)

	// Same email under a different trading name is still a duplicate.
	payload["name"] = "Acme Wholesale"
	rec = env.request(t, http.MethodPost, "/api/v1/sellers", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	body := env.decode(t, rec)
	require.Equal(t, "SELLER_EXISTS", body["code"])
	require.Equal(t, "email", body["details"])

	rec = env.request(t, http.MethodGet, "/api/v1/sellers/"+sellerID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = env.decode(t, rec)["data"].(map[string]interface{})
	require.Equal(t, "acme@example.com", data["email"])
}

func TestCreateSellerValidation(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "seller2@example.com")

	rec := env.request(t, http.MethodPost, "/api/v1/sellers", map[string]string{
		"name":      "No Mail",
		"email":     "not-an-email",
		"contactNo": "0170000000",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := env.decode(t, rec)
	require.Equal(t, "VALIDATION", body["code"])
	require.Equal(t, "email", body["details"])
}

func TestDeleteSellerInUse(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "seller3@example.com")
	categoryID, sellerID, _ := env.seedCatalog(t)

	now := time.Now()
	require.NoError(t, env.db.Create(&domain.Product{
		ID:         common.UUIDint64(),
		Name:       "Lentils",
		Price:      120,
		Stock:      5,
		CategoryID: categoryID,
		SellerID:   sellerID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}).Error)

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/sellers/%d", sellerID), nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "SELLER_IN_USE", env.decode(t, rec)["code"])
}

func TestCreateAndDeleteBrand(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "brand@example.com")

	rec := env.request(t, http.MethodPost, "/api/v1/brands", map[string]string{"name": "Fresh"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	brandID := env.decode(t, rec)["data"].(map[string]interface{})["id"].(string)

	rec = env.request(t, http.MethodPost, "/api/v1/brands", map[string]string{"name": "Fresh"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "BRAND_EXISTS", env.decode(t, rec)["code"])

	rec = env.request(t, http.MethodDelete, "/api/v1/brands/"+brandID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.request(t, http.MethodGet, "/api/v1/brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, env.decode(t, rec)["data"])
}

func TestDeleteBrandQueryFailure(t *testing.T) {
	env := setupAPI(t)
	env.loginAs(t, "brand2@example.com")
	_, _, brandID := env.seedCatalog(t)

	// A broken table surfaces as DATABASE_ERROR, not as a fall-through
	// into the in-use check.
	require.NoError(t, env.db.Migrator().DropTable(&domain.Brand{}))

	rec := env.request(t, http.MethodDelete, fmt.Sprintf("/api/v1/brands/%d", brandID), nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, "DATABASE_ERROR", env.decode(t, rec)["code"])
}

func TestCatalogRequiresAuth(t *testing.T) {
	env := setupAPI(t)

	for _, path := range []string{"/api/v1/categories", "/api/v1/brands", "/api/v1/sellers"} {
		rec := env.request(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}
