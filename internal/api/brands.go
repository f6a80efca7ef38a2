package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stockease/stockease/internal/domain"
	"github.com/stockease/stockease/internal/webserver"
	"github.com/stockease/stockease/pkg/common"
)

type brandPayload struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// registerBrandRoutes registers brand read/create endpoints
func registerBrandRoutes() {
	webserver.ApiGET("/brands", listBrands)
	webserver.ApiPOST("/brands", createBrand)
	webserver.ApiDELETE("/brands/:id", deleteBrand)
}

func listBrands(c echo.Context) error {
	var rows []domain.Brand
	if err := GetDB(c).Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brands", err.Error())
	}
	return ok(c, "ok", rows)
}

func createBrand(c echo.Context) error {
	var payload brandPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse brand parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Name = strings.TrimSpace(payload.Name)

	var exists int64
	GetDB(c).Model(&domain.Brand{}).Where("name = ?", payload.Name).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "BRAND_EXISTS", "Brand name already exists", "name")
	}

	brand := domain.Brand{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&brand).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create brand", err.Error())
	}

	return created(c, "Brand created", brand)
}

func deleteBrand(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid brand ID", nil)
	}

	var brand domain.Brand
	if err := GetDB(c).Where("id = ?", id).First(&brand).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "BRAND_NOT_FOUND", "Brand not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query brand", err.Error())
	}

	var refs int64
	GetDB(c).Model(&domain.Product{}).Where("brand_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "BRAND_IN_USE", "Brand is referenced by existing products", "brand")
	}

	if err := GetDB(c).Delete(&domain.Brand{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete brand", err.Error())
	}
	return ok(c, "Brand deleted", map[string]interface{}{"id": id})
}
