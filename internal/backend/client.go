// Package backend is the HTTP client for the remote commerce backend. One
// call in flight per operation, no automatic retries; failures surface to the
// caller and the circuit breakers keep a dead backend from being hammered.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/models"
	"github.com/shopkit/storefront/internal/patterns"
)

const serviceName = "storefront"

// Client talks to the commerce backend.
type Client struct {
	http    *resty.Client
	baseURL string

	catalogCircuit *patterns.CircuitBreaker
	ordersCircuit  *patterns.CircuitBreaker
	ordersBulkhead *patterns.Bulkhead
}

// NewClient creates a client for the given base URL. Retries are disabled;
// resilience is handled by timeouts and circuit breakers instead.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0),
		baseURL:        baseURL,
		catalogCircuit: patterns.NewCircuitBreaker("Catalog", serviceName),
		ordersCircuit:  patterns.NewCircuitBreaker("Orders", serviceName),
		ordersBulkhead: patterns.NewBulkhead(1, "orders", serviceName),
	}
}

// FetchProducts retrieves the product catalog via GET /products.
func (c *Client) FetchProducts(ctx context.Context) ([]models.Product, error) {
	result, err := c.catalogCircuit.Execute(func() (interface{}, error) {
		resp, httpErr := c.http.R().
			SetContext(ctx).
			Get(c.baseURL + "/products")

		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() != http.StatusOK {
			return nil, fmt.Errorf("catalog returned status %d: %s", resp.StatusCode(), resp.String())
		}

		var products []models.Product
		if err := json.Unmarshal(resp.Body(), &products); err != nil {
			return nil, fmt.Errorf("failed to parse catalog: %w", err)
		}
		return products, nil
	})
	if err != nil {
		return nil, patterns.FormatError("Catalog", err)
	}

	return result.([]models.Product), nil
}

// Register creates a new account via POST /auth/register.
func (c *Client) Register(ctx context.Context, req models.RegistrationRequest) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(c.baseURL + "/auth/register")

	if err != nil {
		return fmt.Errorf("HTTP error: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("registration returned status %d: %s", resp.StatusCode(), resp.String())
	}

	log.WithField("email", req.Email).Info("Registration submitted")
	return nil
}

// PlaceOrder submits an order via POST /orders with the session's bearer
// token. The backend resolves product names and prices; the response is
// returned as-is.
func (c *Client) PlaceOrder(ctx context.Context, submission models.OrderSubmission, token string) (models.OrderResponse, error) {
	var order models.OrderResponse

	err := c.ordersBulkhead.Execute(func() error {
		result, cbErr := c.ordersCircuit.Execute(func() (interface{}, error) {
			resp, httpErr := c.http.R().
				SetContext(ctx).
				SetHeader("Content-Type", "application/json").
				SetHeader("Authorization", "Bearer "+token).
				SetBody(submission).
				Post(c.baseURL + "/orders")

			if httpErr != nil {
				return nil, fmt.Errorf("HTTP error: %w", httpErr)
			}
			if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated {
				return nil, fmt.Errorf("orders returned status %d: %s", resp.StatusCode(), resp.String())
			}

			var parsed models.OrderResponse
			if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
				return nil, fmt.Errorf("failed to parse order response: %w", err)
			}
			return parsed, nil
		})
		if cbErr != nil {
			return patterns.FormatError("Orders", cbErr)
		}

		order = result.(models.OrderResponse)
		return nil
	})
	if err != nil {
		return models.OrderResponse{}, err
	}

	return order, nil
}
