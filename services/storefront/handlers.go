package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/backend"
	"github.com/shopkit/storefront/internal/cart"
	"github.com/shopkit/storefront/internal/catalog"
	"github.com/shopkit/storefront/internal/checkout"
	"github.com/shopkit/storefront/internal/config"
	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/models"
	"github.com/shopkit/storefront/internal/session"
)

// app wires the storefront's components behind the HTTP surface. The cart is
// a single shared store, matching the one-user shape of the original client.
type app struct {
	cfg       config.Config
	sessions  *session.Holder
	backend   *backend.Client
	catalog   *catalog.Catalog
	cart      *cart.Store
	checkouts *checkout.Manager
}

func (a *app) router() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(metrics.PrometheusMiddleware("storefront"))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/login", a.login)
	router.POST("/auth/logout", a.logout)
	router.POST("/auth/register", a.register)

	authed := router.Group("/", a.requireSession)
	authed.GET("/products", a.listProducts)

	authed.GET("/cart", a.getCart)
	authed.POST("/cart/items", a.addCartItem)
	authed.PUT("/cart/items/:id", a.updateCartItem)
	authed.DELETE("/cart/items/:id", a.removeCartItem)
	authed.DELETE("/cart", a.clearCart)

	authed.POST("/checkout", a.startCheckout)
	authed.GET("/checkout/:id", a.getCheckout)
	authed.PUT("/checkout/:id/shipping", a.setShipping)
	authed.PUT("/checkout/:id/payment", a.setPayment)
	authed.POST("/checkout/:id/next", a.nextStep)
	authed.POST("/checkout/:id/back", a.previousStep)
	authed.POST("/checkout/:id/place-order", a.placeOrder)

	if a.cfg.IsDevelopment() {
		authed.GET("/demo/autofill", a.demoAutofill)
	}

	return router
}

// requireSession gates catalog, cart and checkout behind a login.
func (a *app) requireSession(c *gin.Context) {
	if _, ok := a.sessions.Current(); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}
	c.Next()
}

func (a *app) login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if errs := session.ValidateCredentials(creds); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	sess, err := a.sessions.Login(creds)
	if err != nil {
		if errors.Is(err, session.ErrLoginUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login failed. Please try again."})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed. Please try again."})
		return
	}

	c.JSON(http.StatusOK, sess)
}

func (a *app) logout(c *gin.Context) {
	if err := a.sessions.Logout(); err != nil {
		log.Error("Logout failed: ", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *app) register(c *gin.Context) {
	var req models.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if errs := session.ValidateRegistration(req); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
		return
	}

	if err := a.backend.Register(c.Request.Context(), req); err != nil {
		log.Error("Registration failed: ", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Registration failed. Please try again."})
		return
	}

	c.Status(http.StatusCreated)
}

func (a *app) listProducts(c *gin.Context) {
	products, err := a.catalog.List(c.Request.Context())
	if err != nil {
		log.Error("Catalog fetch failed: ", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (a *app) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, a.cart.Snapshot())
}

func (a *app) addCartItem(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	a.cart.AddItem(product)
	c.JSON(http.StatusOK, a.cart.Snapshot())
}

func (a *app) updateCartItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	a.cart.UpdateQuantity(id, body.Quantity)
	c.JSON(http.StatusOK, a.cart.Snapshot())
}

func (a *app) removeCartItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	a.cart.RemoveItem(id)
	c.JSON(http.StatusOK, a.cart.Snapshot())
}

func (a *app) clearCart(c *gin.Context) {
	a.cart.Clear()
	c.JSON(http.StatusOK, a.cart.Snapshot())
}

func (a *app) startCheckout(c *gin.Context) {
	sess, _ := a.sessions.Current()
	w := a.checkouts.Start(a.cart, sess)
	c.JSON(http.StatusCreated, w.View())
}

func (a *app) wizard(c *gin.Context) (*checkout.Wizard, bool) {
	w, err := a.checkouts.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "checkout not found"})
		return nil, false
	}
	return w, true
}

func (a *app) getCheckout(c *gin.Context) {
	if w, ok := a.wizard(c); ok {
		c.JSON(http.StatusOK, w.View())
	}
}

func (a *app) setShipping(c *gin.Context) {
	w, ok := a.wizard(c)
	if !ok {
		return
	}

	var info models.ShippingInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	w.SetShipping(info)
	c.JSON(http.StatusOK, w.View())
}

func (a *app) setPayment(c *gin.Context) {
	w, ok := a.wizard(c)
	if !ok {
		return
	}

	var info models.PaymentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	w.SetPayment(info)
	c.JSON(http.StatusOK, w.View())
}

func (a *app) nextStep(c *gin.Context) {
	w, ok := a.wizard(c)
	if !ok {
		return
	}

	if _, err := w.Next(); err != nil {
		if errors.Is(err, checkout.ErrValidationFailed) {
			c.JSON(http.StatusUnprocessableEntity, w.View())
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, w.View())
}

func (a *app) previousStep(c *gin.Context) {
	if w, ok := a.wizard(c); ok {
		w.Back()
		c.JSON(http.StatusOK, w.View())
	}
}

func (a *app) placeOrder(c *gin.Context) {
	w, ok := a.wizard(c)
	if !ok {
		return
	}

	confirmation, err := w.PlaceOrder(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrNotOnReview),
			errors.Is(err, checkout.ErrEmptyCart),
			errors.Is(err, checkout.ErrAlreadyProcessing):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "Order placement failed. Please try again."})
		}
		return
	}

	a.checkouts.Finish(w.ID)
	c.JSON(http.StatusOK, confirmation)
}

// demoAutofill returns the demo shipping and payment forms. Development only.
func (a *app) demoAutofill(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"shipping": models.ShippingInfo{
			Method:       models.ShippingStandard,
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john.doe@example.com",
			PhoneNumber:  "5551234567",
			AddressLine1: "123 Main St",
			City:         "Anytown",
			State:        "CA",
			PostalCode:   "12345",
			Country:      "USA",
		},
		"payment": models.PaymentInfo{
			Method:         models.PaymentCreditCard,
			CardNumber:     "1234 5678 9012 3456",
			ExpiryDate:     "12/25",
			CVV:            "123",
			CardholderName: "John Doe",
		},
	})
}
