package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"foodmarket/internal/auth"
	"foodmarket/internal/domain"
	"foodmarket/internal/metrics"
	"foodmarket/internal/repository"
	"foodmarket/internal/service"
)

// quickReadyMinutes порог для подборки "готово за 30 минут"
const quickReadyMinutes = 30

type Server struct {
	engine    *gin.Engine
	catalog   *service.CatalogService
	vendors   *service.VendorService
	customers *service.CustomerService
	orders    *service.OrderService
	issuer    *auth.Issuer
	metrics   *metrics.Registry
	log       log.FieldLogger
	health    func(ctx context.Context) error
}

func NewServer(
	catalog *service.CatalogService,
	vendors *service.VendorService,
	customers *service.CustomerService,
	orders *service.OrderService,
	issuer *auth.Issuer,
	m *metrics.Registry,
	logger log.FieldLogger,
) *Server {
	r := gin.New()
	r.Use(logMiddleware(logger), gin.Recovery())
	s := &Server{
		engine:    r,
		catalog:   catalog,
		vendors:   vendors,
		customers: customers,
		orders:    orders,
		issuer:    issuer,
		metrics:   m,
		log:       logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

// SetHealthCheck подключает проверку хранилища к /health
func (s *Server) SetHealthCheck(fn func(ctx context.Context) error) { s.health = fn }

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	s.engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	s.engine.GET("/health", s.healthz)

	user := s.engine.Group("/user")
	{
		user.POST("/signup", s.signUp)
		user.POST("/login", s.login)

		private := user.Group("", s.authenticate(auth.RoleCustomer))
		private.GET("/profile", s.getProfile)
		private.PATCH("/profile", s.editProfile)
		private.POST("/create-order", s.createOrder)
		private.GET("/orders", s.getOrders)
		private.GET("/order/:id", s.getOrder)
	}

	admin := s.engine.Group("/admin", s.authenticate(auth.RoleAdmin))
	{
		admin.POST("/vendor", s.createVendor)
		admin.GET("/vendors", s.listVendors)
		admin.GET("/vendor/:id", s.getVendor)
	}

	vendor := s.engine.Group("/vendor")
	{
		vendor.POST("/login", s.vendorLogin)

		private := vendor.Group("", s.authenticate(auth.RoleVendor))
		private.GET("/profile", s.getVendorProfile)
		private.PATCH("/profile", s.editVendorProfile)
		private.PATCH("/service", s.toggleVendorService)
		private.POST("/food", s.addFood)
		private.GET("/foods", s.getVendorFoods)
	}

	shopping := s.engine.Group("/shopping")
	{
		shopping.GET("/foods", s.listFoods)
		shopping.GET("/foods-in-30-min", s.listQuickFoods)
		shopping.GET("/food/:id", s.getFood)
		shopping.GET("/top-restaurants/:pincode", s.topRestaurants)
		shopping.GET("/restaurant/:id", s.getRestaurant)
	}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func (s *Server) healthz(c *gin.Context) {
	if s.health != nil {
		if err := s.health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Customer handlers

// @Summary Sign up customer
// @Tags customer
// @Accept json
// @Produce json
// @Param input body service.SignUpInput true "Customer"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /user/signup [post]
func (s *Server) signUp(c *gin.Context) {
	var req service.SignUpInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	customer, token, err := s.customers.SignUp(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Error while creating customer")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Signup successful",
		"data":    gin.H{"customer": customer, "token": token},
	})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// @Summary Customer login
// @Tags customer
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /user/login [post]
func (s *Server) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	token, err := s.customers.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "Error while logging in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "data": gin.H{"token": token}})
}

// @Summary Customer profile
// @Tags customer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Customer
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /user/profile [get]
func (s *Server) getProfile(c *gin.Context) {
	customer, err := s.customers.Profile(c.Request.Context(), subject(c))
	if err != nil {
		s.fail(c, err, "Error while fetching profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile fetched", "data": customer})
}

// @Summary Edit customer profile
// @Tags customer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.ProfileInput true "Profile"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /user/profile [patch]
func (s *Server) editProfile(c *gin.Context) {
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	customer, err := s.customers.UpdateProfile(c.Request.Context(), subject(c), req)
	if err != nil {
		s.fail(c, err, "Error while updating profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": customer})
}

// Order handlers

// cartLineReq строка корзины; id блюда принимается как foodItemId или _id
type cartLineReq struct {
	FoodItemID string `json:"foodItemId"`
	LegacyID   string `json:"_id"`
	Unit       int    `json:"unit"`
}

func (r cartLineReq) toDomain() domain.CartLine {
	id := r.FoodItemID
	if id == "" {
		id = r.LegacyID
	}
	return domain.CartLine{FoodID: id, Unit: r.Unit}
}

// @Summary Place order
// @Description Prices every cart line against the catalog, drops unknown foods and stores the order.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body []cartLineReq true "Cart"
// @Success 200 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /user/create-order [post]
func (s *Server) createOrder(c *gin.Context) {
	var req []cartLineReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	cart := make([]domain.CartLine, 0, len(req))
	for _, line := range req {
		cart = append(cart, line.toDomain())
	}
	o, err := s.orders.PlaceOrder(c.Request.Context(), subject(c), cart)
	if err != nil {
		s.fail(c, err, "An error occurred while placing the order.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "data": o})
}

// @Summary List customer orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Order
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /user/orders [get]
func (s *Server) getOrders(c *gin.Context) {
	orders, err := s.orders.ListForCustomer(c.Request.Context(), subject(c))
	if err != nil {
		s.fail(c, err, "Error while fetching orders")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Orders fetched", "data": orders})
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order document id"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /user/order/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetCustomerOrder(c.Request.Context(), subject(c), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Error while fetching order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order fetched", "data": o})
}

// Catalog handlers

type addFoodReq struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	FoodType    []string        `json:"foodType"`
	ReadyTime   int             `json:"readyTime"`
	Price       decimal.Decimal `json:"price" swaggertype:"number"`
	Images      []string        `json:"images"`
}

// @Summary Add food to the vendor menu
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body addFoodReq true "Food"
// @Success 201 {object} domain.FoodItem
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vendor/food [post]
func (s *Server) addFood(c *gin.Context) {
	var req addFoodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	f, err := s.catalog.AddFood(c.Request.Context(), subject(c), domain.FoodItem{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		FoodType:    req.FoodType,
		ReadyTime:   req.ReadyTime,
		Price:       req.Price,
		Images:      req.Images,
	})
	if err != nil {
		s.fail(c, err, "Error while adding food")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Food added", "data": f})
}

// @Summary List foods
// @Tags shopping
// @Produce json
// @Param vendorId query string false "Vendor id"
// @Param maxReadyTime query int false "Max ready time, minutes"
// @Success 200 {array} domain.FoodItem
// @Failure 400 {object} map[string]string
// @Router /shopping/foods [get]
func (s *Server) listFoods(c *gin.Context) {
	f := repository.FoodFilter{VendorID: c.Query("vendorId")}
	if v := c.Query("maxReadyTime"); v != "" {
		x, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid maxReadyTime"})
			return
		}
		f.MaxReadyTime = &x
	}
	s.writeFoods(c, f)
}

// @Summary Foods ready in 30 minutes
// @Tags shopping
// @Produce json
// @Success 200 {array} domain.FoodItem
// @Router /shopping/foods-in-30-min [get]
func (s *Server) listQuickFoods(c *gin.Context) {
	limit := quickReadyMinutes
	s.writeFoods(c, repository.FoodFilter{MaxReadyTime: &limit})
}

func (s *Server) writeFoods(c *gin.Context, f repository.FoodFilter) {
	list, err := s.catalog.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err, "Error while fetching foods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Foods fetched", "data": list})
}

// @Summary Get food by id
// @Tags shopping
// @Produce json
// @Param id path string true "Food id"
// @Success 200 {object} domain.FoodItem
// @Failure 404 {object} map[string]string
// @Router /shopping/food/{id} [get]
func (s *Server) getFood(c *gin.Context) {
	f, err := s.catalog.GetFood(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Error while fetching food")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Food fetched", "data": f})
}

// fail отвечает ошибкой; для 5xx наружу уходит fallback и краткая сводка
func (s *Server) fail(c *gin.Context, err error, fallback string) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"message": fallback, "error": err.Error()})
		return
	}
	c.JSON(status, gin.H{"message": errorMessage(err)})
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		return "Cart is empty"
	case errors.Is(err, service.ErrNoMatchingItems):
		return "No matching food items found"
	case errors.Is(err, service.ErrCustomerNotFound):
		return "Customer not found"
	case errors.Is(err, service.ErrOrderNotFound):
		return "Order not found"
	case errors.Is(err, service.ErrVendorNotFound):
		return "Vendor not found"
	case errors.Is(err, repository.ErrNotFound):
		return "Not found"
	default:
		return err.Error()
	}
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidUnit),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrNoMatchingItems):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrCustomerNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrVendorNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
