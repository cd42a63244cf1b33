package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"foodmarket/internal/service"
)

// Admin handlers

// @Summary Create vendor
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.CreateVendorInput true "Vendor"
// @Success 201 {object} domain.Vendor
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/vendor [post]
func (s *Server) createVendor(c *gin.Context) {
	var req service.CreateVendorInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	v, err := s.vendors.CreateVendor(c.Request.Context(), req)
	if err != nil {
		s.fail(c, err, "Error while creating vendor")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Vendor created", "data": v})
}

// @Summary List vendors
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.Vendor
// @Router /admin/vendors [get]
func (s *Server) listVendors(c *gin.Context) {
	list, err := s.vendors.List(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Error while fetching vendors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendors fetched", "data": list})
}

// @Summary Get vendor by id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Vendor id"
// @Success 200 {object} domain.Vendor
// @Failure 404 {object} map[string]string
// @Router /admin/vendor/{id} [get]
func (s *Server) getVendor(c *gin.Context) {
	v, err := s.vendors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Error while fetching vendor")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Vendor fetched", "data": v})
}

// Vendor handlers

// @Summary Vendor login
// @Tags vendor
// @Accept json
// @Produce json
// @Param input body loginReq true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 401 {object} map[string]string
// @Router /vendor/login [post]
func (s *Server) vendorLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	token, err := s.vendors.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.fail(c, err, "Error while logging in")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "data": gin.H{"token": token}})
}

// @Summary Vendor profile
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Vendor
// @Failure 404 {object} map[string]string
// @Router /vendor/profile [get]
func (s *Server) getVendorProfile(c *gin.Context) {
	v, err := s.vendors.Get(c.Request.Context(), subject(c))
	if err != nil {
		s.fail(c, err, "Error while fetching profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile fetched", "data": v})
}

// @Summary Edit vendor profile
// @Description Empty fields keep their current values.
// @Tags vendor
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body service.VendorProfileInput true "Profile"
// @Success 200 {object} domain.Vendor
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /vendor/profile [patch]
func (s *Server) editVendorProfile(c *gin.Context) {
	var req service.VendorProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
		return
	}
	v, err := s.vendors.UpdateProfile(c.Request.Context(), subject(c), req)
	if err != nil {
		s.fail(c, err, "Error while updating profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated", "data": v})
}

// @Summary Toggle vendor service availability
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.Vendor
// @Failure 404 {object} map[string]string
// @Router /vendor/service [patch]
func (s *Server) toggleVendorService(c *gin.Context) {
	v, err := s.vendors.ToggleService(c.Request.Context(), subject(c))
	if err != nil {
		s.fail(c, err, "Error while updating service")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service updated", "data": v})
}

// @Summary Vendor menu
// @Tags vendor
// @Produce json
// @Security BearerAuth
// @Success 200 {array} domain.FoodItem
// @Failure 404 {object} map[string]string
// @Router /vendor/foods [get]
func (s *Server) getVendorFoods(c *gin.Context) {
	foods, err := s.vendors.Foods(c.Request.Context(), subject(c))
	if err != nil {
		s.fail(c, err, "Error while fetching foods")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Foods fetched", "data": foods})
}

// Restaurant handlers

// @Summary Top restaurants in an area
// @Tags shopping
// @Produce json
// @Param pincode path string true "Area pincode"
// @Success 200 {array} domain.Vendor
// @Router /shopping/top-restaurants/{pincode} [get]
func (s *Server) topRestaurants(c *gin.Context) {
	list, err := s.vendors.TopRestaurants(c.Request.Context(), c.Param("pincode"))
	if err != nil {
		s.fail(c, err, "Error while fetching restaurants")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurants fetched", "data": list})
}

// @Summary Restaurant with its menu
// @Tags shopping
// @Produce json
// @Param id path string true "Vendor id"
// @Success 200 {object} service.Restaurant
// @Failure 404 {object} map[string]string
// @Router /shopping/restaurant/{id} [get]
func (s *Server) getRestaurant(c *gin.Context) {
	r, err := s.vendors.Restaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err, "Error while fetching restaurant")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant fetched", "data": r})
}
