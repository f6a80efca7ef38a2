package client

import (
	"context"
	"strings"

	"github.com/spf13/cast"

	"github.com/stockease/stockease/internal/domain"
)

// CatalogAPI is the slice of the api client the creation workflow needs.
type CatalogAPI interface {
	CreateProduct(ctx context.Context, payload ProductPayload) (*domain.Product, error)
}

// FormInput carries the raw text values gathered from the create-product
// form. Numeric fields arrive as text and are normalized on submit;
// selection fields carry the chosen record id as text, empty when no
// choice was made.
type FormInput struct {
	Name        string
	Description string
	Price       string
	Stock       string
	Size        string
	Unit        string
	Category    string
	Seller      string
	Brand       string
}

// Workflow orchestrates one product creation: normalize the form,
// fast-fail on missing requirements, submit, and clear the form on
// success. The server stays authoritative for every check repeated here.
type Workflow struct {
	api  CatalogAPI
	form FormInput
}

func NewWorkflow(api CatalogAPI) *Workflow {
	return &Workflow{api: api}
}

// Form returns the mutable form state.
func (w *Workflow) Form() *FormInput {
	return &w.form
}

// Reset returns the form to its initial empty state.
func (w *Workflow) Reset() {
	w.form = FormInput{}
}

// BuildPayload normalizes the current form into a create request. Price
// and stock are coerced to numbers; empty optional fields are dropped
// from the payload entirely rather than sent as empty strings.
func (w *Workflow) BuildPayload() (*ProductPayload, error) {
	name := strings.TrimSpace(w.form.Name)
	if name == "" {
		return nil, &ValidationError{Field: "name", Message: "name is required"}
	}
	if strings.TrimSpace(w.form.Category) == "" {
		return nil, &ValidationError{Field: "category", Message: "category is required"}
	}
	if strings.TrimSpace(w.form.Seller) == "" {
		return nil, &ValidationError{Field: "seller", Message: "seller is required"}
	}

	price, err := cast.ToFloat64E(strings.TrimSpace(w.form.Price))
	if err != nil {
		return nil, &ValidationError{Field: "price", Message: "price must be numeric"}
	}
	stock, err := cast.ToIntE(strings.TrimSpace(w.form.Stock))
	if err != nil {
		return nil, &ValidationError{Field: "stock", Message: "stock must be an integer"}
	}

	category, err := cast.ToInt64E(strings.TrimSpace(w.form.Category))
	if err != nil {
		return nil, &ValidationError{Field: "category", Message: "category selection is invalid"}
	}
	seller, err := cast.ToInt64E(strings.TrimSpace(w.form.Seller))
	if err != nil {
		return nil, &ValidationError{Field: "seller", Message: "seller selection is invalid"}
	}

	payload := &ProductPayload{
		Name:        name,
		Description: strings.TrimSpace(w.form.Description),
		Price:       price,
		Stock:       stock,
		Size:        strings.TrimSpace(w.form.Size),
		Unit:        strings.TrimSpace(w.form.Unit),
		Category:    category,
		Seller:      seller,
	}

	if b := strings.TrimSpace(w.form.Brand); b != "" {
		brand, err := cast.ToInt64E(b)
		if err != nil {
			return nil, &ValidationError{Field: "brand", Message: "brand selection is invalid"}
		}
		payload.Brand = &brand
	}

	return payload, nil
}

// Submit normalizes and sends the current form. On success the form is
// cleared for the next creation; on failure it is left as-is and the
// server's structured error surfaces unchanged.
func (w *Workflow) Submit(ctx context.Context) (*domain.Product, error) {
	payload, err := w.BuildPayload()
	if err != nil {
		return nil, err
	}

	product, err := w.api.CreateProduct(ctx, *payload)
	if err != nil {
		return nil, err
	}

	w.Reset()
	return product, nil
}
