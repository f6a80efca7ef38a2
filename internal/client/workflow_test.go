package client

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockease/stockease/internal/domain"
)

type fakeCatalog struct {
	lastPayload *ProductPayload
	product     *domain.Product
	err         error
}

func (f *fakeCatalog) CreateProduct(_ context.Context, payload ProductPayload) (*domain.Product, error) {
	f.lastPayload = &payload
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func TestWorkflowNormalizesAndElides(t *testing.T) {
	fake := &fakeCatalog{product: &domain.Product{ID: 9, Name: "Rice 5kg"}}
	w := NewWorkflow(fake)

	form := w.Form()
	form.Name = "Rice 5kg"
	form.Price = "450"
	form.Stock = "20"
	form.Category = "101"
	form.Seller = "202"
	form.Size = "" // empty selection must vanish from the payload

	product, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(9), product.ID)

	require.NotNil(t, fake.lastPayload)
	assert.Equal(t, 450.0, fake.lastPayload.Price)
	assert.Equal(t, 20, fake.lastPayload.Stock)
	assert.Equal(t, int64(101), fake.lastPayload.Category)
	assert.Equal(t, int64(202), fake.lastPayload.Seller)
	assert.Nil(t, fake.lastPayload.Brand)

	// The wire body must not carry empty optional fields.
	body, err := json.Marshal(fake.lastPayload)
	require.NoError(t, err)
	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &wire))
	assert.NotContains(t, wire, "size")
	assert.NotContains(t, wire, "unit")
	assert.NotContains(t, wire, "brand")
	assert.NotContains(t, wire, "description")
	assert.Equal(t, 450.0, wire["price"])
	assert.Equal(t, 20.0, wire["stock"])

	// Success clears the form for the next creation.
	assert.Equal(t, FormInput{}, *w.Form())
}

func TestWorkflowRequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *FormInput)
		field string
	}{
		{"missing name", func(f *FormInput) { f.Name = "" }, "name"},
		{"missing category", func(f *FormInput) { f.Category = "" }, "category"},
		{"missing seller", func(f *FormInput) { f.Seller = "" }, "seller"},
		{"bad price", func(f *FormInput) { f.Price = "abc" }, "price"},
		{"bad stock", func(f *FormInput) { f.Stock = "2.5x" }, "stock"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeCatalog{}
			w := NewWorkflow(fake)
			form := w.Form()
			form.Name = "Rice 5kg"
			form.Price = "450"
			form.Stock = "20"
			form.Category = "101"
			form.Seller = "202"
			tc.setup(form)

			product, err := w.Submit(context.Background())
			assert.Nil(t, product)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
			// Nothing was submitted.
			assert.Nil(t, fake.lastPayload)
		})
	}
}

func TestWorkflowSurfacesServerErrorVerbatim(t *testing.T) {
	fake := &fakeCatalog{err: &ReferentialIntegrityError{
		Reference: "category",
		Message:   "Category reference does not resolve",
	}}
	w := NewWorkflow(fake)
	form := w.Form()
	form.Name = "Rice 5kg"
	form.Price = "450"
	form.Stock = "20"
	form.Category = "999"
	form.Seller = "202"

	product, err := w.Submit(context.Background())
	assert.Nil(t, product)

	var refErr *ReferentialIntegrityError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "category", refErr.Reference)
	assert.Equal(t, "Category reference does not resolve", refErr.Message)

	// The form is not cleared on failure.
	assert.Equal(t, "Rice 5kg", w.Form().Name)
	assert.Equal(t, "999", w.Form().Category)
}

func TestWorkflowOptionalBrand(t *testing.T) {
	fake := &fakeCatalog{product: &domain.Product{ID: 1}}
	w := NewWorkflow(fake)
	form := w.Form()
	form.Name = "Olive Oil"
	form.Price = "12.5"
	form.Stock = "5"
	form.Size = "SMALL"
	form.Unit = "l"
	form.Category = "101"
	form.Seller = "202"
	form.Brand = "303"

	_, err := w.Submit(context.Background())
	require.NoError(t, err)

	require.NotNil(t, fake.lastPayload.Brand)
	assert.Equal(t, int64(303), *fake.lastPayload.Brand)
	assert.Equal(t, "SMALL", fake.lastPayload.Size)
	assert.Equal(t, "l", fake.lastPayload.Unit)
}
