package client

import (
	"context"
	"encoding/json"
	"time"

	"github.com/guonaihong/gout"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/singleflight"

	"github.com/stockease/stockease/internal/domain"
	"github.com/stockease/stockease/internal/session"
)

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// ProductPayload is the normalized create-product request body. Optional
// fields are elided entirely when empty so the server never stores an
// empty-string sentinel.
type ProductPayload struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Size        string  `json:"size,omitempty"`
	Unit        string  `json:"unit,omitempty"`
	Category    int64   `json:"category,string"`
	Seller      int64   `json:"seller,string"`
	Brand       *int64  `json:"brand,string,omitempty"`
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Code       string          `json:"code"`
	Message    string          `json:"message"`
	Details    interface{}     `json:"details"`
	Data       json.RawMessage `json:"data"`
}

// Client talks to the StockEase api on behalf of one operator session.
type Client struct {
	baseURL string
	store   *session.Store
	timeout time.Duration
	sf      singleflight.Group
}

func New(baseURL string, store *session.Store) *Client {
	return &Client{
		baseURL: baseURL,
		store:   store,
		timeout: 30 * time.Second,
	}
}

func (c *Client) authHeader() gout.H {
	h := gout.H{"Content-Type": "application/json"}
	if token := c.store.Credential(); token != "" {
		h["Authorization"] = "Bearer " + token
	}
	return h
}

func (c *Client) getRaw(ctx context.Context, path string) (*envelope, error) {
	var body []byte
	code := 0
	err := gout.GET(c.baseURL + "/api/v1" + path).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return decodeEnvelope(body, code)
}

func (c *Client) postRaw(ctx context.Context, path string, payload interface{}) (*envelope, error) {
	var body []byte
	code := 0
	err := gout.POST(c.baseURL + "/api/v1" + path).
		WithContext(ctx).
		SetTimeout(c.timeout).
		SetHeader(c.authHeader()).
		SetJSON(payload).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	return decodeEnvelope(body, code)
}

// decodeEnvelope turns a non-2xx envelope into the matching typed error,
// keeping the server's message text intact.
func decodeEnvelope(body []byte, code int) (*envelope, error) {
	var env envelope
	if err := jsonCodec.Unmarshal(body, &env); err != nil {
		return nil, &NetworkError{Err: err}
	}
	if code >= 200 && code < 300 {
		return &env, nil
	}

	field, _ := env.Details.(string)
	switch env.Code {
	case "REF_NOT_FOUND":
		return nil, &ReferentialIntegrityError{Reference: field, Message: env.Message}
	case "VALIDATION", "PASSWORD_MISMATCH":
		return nil, &ValidationError{Field: field, Message: env.Message}
	default:
		return nil, &APIError{StatusCode: code, Code: env.Code, Message: env.Message}
	}
}

// Login obtains a credential and installs it in the session store. A
// logout issued while the request is in flight wins: the stale login
// result is discarded and ErrSessionSuperseded returned.
func (c *Client) Login(ctx context.Context, email, password string) error {
	ticket := c.store.BeginLogin()

	env, err := c.postRaw(ctx, "/auth/login", gout.H{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}

	var data struct {
		Token string `json:"token"`
	}
	if err := jsonCodec.Unmarshal(env.Data, &data); err != nil {
		return &NetworkError{Err: err}
	}

	return c.store.CompleteLogin(ticket, data.Token)
}

// Register creates a staff account. The confirm mismatch check runs
// client-side as a fast-fail; the server repeats it authoritatively.
func (c *Client) Register(ctx context.Context, name, email, password, confirmPassword string) error {
	if password != confirmPassword {
		return &ValidationError{Field: "confirmPassword", Message: "password and confirmPassword do not match"}
	}
	_, err := c.postRaw(ctx, "/auth/register", gout.H{
		"name":            name,
		"email":           email,
		"password":        password,
		"confirmPassword": confirmPassword,
	})
	return err
}

// Logout tears the session down locally. No server round-trip is issued,
// so teardown can never be blocked by one.
func (c *Client) Logout() {
	c.store.Logout()
}

func (c *Client) Session() *session.Store {
	return c.store
}

// Categories returns the category projection used to populate selection
// choices. Concurrent calls are deduplicated.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	v, err, _ := c.sf.Do("categories", func() (interface{}, error) {
		env, err := c.getRaw(ctx, "/categories")
		if err != nil {
			return nil, err
		}
		var rows []domain.Category
		if err := jsonCodec.Unmarshal(env.Data, &rows); err != nil {
			return nil, &NetworkError{Err: err}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Category), nil
}

// Brands returns the brand projection.
func (c *Client) Brands(ctx context.Context) ([]domain.Brand, error) {
	v, err, _ := c.sf.Do("brands", func() (interface{}, error) {
		env, err := c.getRaw(ctx, "/brands")
		if err != nil {
			return nil, err
		}
		var rows []domain.Brand
		if err := jsonCodec.Unmarshal(env.Data, &rows); err != nil {
			return nil, &NetworkError{Err: err}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Brand), nil
}

// Sellers returns the seller projection.
func (c *Client) Sellers(ctx context.Context) ([]domain.Seller, error) {
	v, err, _ := c.sf.Do("sellers", func() (interface{}, error) {
		env, err := c.getRaw(ctx, "/sellers")
		if err != nil {
			return nil, err
		}
		var rows []domain.Seller
		if err := jsonCodec.Unmarshal(env.Data, &rows); err != nil {
			return nil, &NetworkError{Err: err}
		}
		return rows, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Seller), nil
}

// CreateProduct submits a normalized payload. Never retried implicitly:
// without an idempotency key a retry could create a duplicate product.
func (c *Client) CreateProduct(ctx context.Context, payload ProductPayload) (*domain.Product, error) {
	env, err := c.postRaw(ctx, "/products", payload)
	if err != nil {
		return nil, err
	}
	var p domain.Product
	if err := jsonCodec.Unmarshal(env.Data, &p); err != nil {
		return nil, &NetworkError{Err: err}
	}
	return &p, nil
}

var _ CatalogAPI = (*Client)(nil)
