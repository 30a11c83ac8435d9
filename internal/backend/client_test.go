package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopkit/storefront/internal/models"
)

func TestFetchProducts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/products", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Laptop","price":999.99},{"id":2,"name":"Smartphone","price":699.99}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	products, err := client.FetchProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Laptop", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("999.99")))
}

func TestFetchProductsErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.FetchProducts(context.Background())
	assert.Error(t, err)
}

func TestRegisterPostsForm(t *testing.T) {
	var received models.RegistrationRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/register", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	err := client.Register(context.Background(), models.RegistrationRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john.doe@example.com",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", received.Email)
	assert.Equal(t, "John", received.FirstName)
}

func TestRegisterErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "email taken", http.StatusConflict)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	err := client.Register(context.Background(), models.RegistrationRequest{Email: "a@b.co"})
	assert.Error(t, err)
}

func TestPlaceOrderSendsBearerTokenAndMapsResponse(t *testing.T) {
	var (
		gotAuth string
		gotBody map[string]interface{}
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "ord-42",
			"createdAt": "2025-01-02T03:04:05Z",
			"totalAmount": 2029.97,
			"orderItems": [
				{"productId":1,"quantity":2,"totalPrice":1999.98,"productName":"Laptop"}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	submission := models.OrderSubmission{
		CustomerEmail: "john.doe@example.com",
		CustomerName:  "John Doe",
		OrderItems:    []models.OrderItemRef{{ProductID: 1, Quantity: 2}},
	}

	order, err := client.PlaceOrder(context.Background(), submission, "tok-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "john.doe@example.com", gotBody["customerEmail"])
	assert.Contains(t, gotBody, "orderItems")
	assert.Contains(t, gotBody, "shipping")
	assert.Contains(t, gotBody, "payment")

	assert.Equal(t, "ord-42", order.ID)
	assert.Equal(t, "2025-01-02T03:04:05Z", order.CreatedAt)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("2029.97")))
	require.Len(t, order.OrderItems, 1)
	assert.Equal(t, "Laptop", order.OrderItems[0].ProductName)
}

func TestPlaceOrderErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "payment declined", http.StatusPaymentRequired)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)

	_, err := client.PlaceOrder(context.Background(), models.OrderSubmission{}, "tok")
	assert.Error(t, err)
}

func TestPlaceOrderTransportError(t *testing.T) {
	// Point at a closed listener.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, 200*time.Millisecond)

	_, err := client.PlaceOrder(context.Background(), models.OrderSubmission{}, "tok")
	assert.Error(t, err)
}
