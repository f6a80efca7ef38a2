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

type sellerPayload struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	Email     string `json:"email" validate:"required,email"`
	ContactNo string `json:"contactNo" validate:"required,min=4,max=32"`
}

// registerSellerRoutes registers seller read/create endpoints
func registerSellerRoutes() {
	webserver.ApiGET("/sellers", listSellers)
	webserver.ApiGET("/sellers/:id", getSeller)
	webserver.ApiPOST("/sellers", createSeller)
	webserver.ApiDELETE("/sellers/:id", deleteSeller)
}

func listSellers(c echo.Context) error {
	var rows []domain.Seller
	if err := GetDB(c).Order("name ASC").Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query sellers", err.Error())
	}
	return ok(c, "ok", rows)
}

func getSeller(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid seller ID", nil)
	}
	var s domain.Seller
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query seller", err.Error())
	}
	return ok(c, "ok", s)
}

func createSeller(c echo.Context) error {
	var payload sellerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse seller parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)

	var exists int64
	GetDB(c).Model(&domain.Seller{}).Where("email = ?", payload.Email).Count(&exists)
	if exists > 0 {
		return fail(c, http.StatusConflict, "SELLER_EXISTS", "Seller email already exists", "email")
	}

	seller := domain.Seller{
		ID:        common.UUIDint64(),
		Name:      payload.Name,
		Email:     payload.Email,
		ContactNo: strings.TrimSpace(payload.ContactNo),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&seller).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create seller", err.Error())
	}

	return created(c, "Seller created", seller)
}

func deleteSeller(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid seller ID", nil)
	}

	var seller domain.Seller
	if err := GetDB(c).Where("id = ?", id).First(&seller).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SELLER_NOT_FOUND", "Seller not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query seller", err.Error())
	}

	var refs int64
	GetDB(c).Model(&domain.Product{}).Where("seller_id = ?", id).Count(&refs)
	if refs > 0 {
		return fail(c, http.StatusConflict, "SELLER_IN_USE", "Seller is referenced by existing products", "seller")
	}

	if err := GetDB(c).Delete(&domain.Seller{}, id).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete seller", err.Error())
	}
	return ok(c, "Seller deleted", map[string]interface{}{"id": id})
}
