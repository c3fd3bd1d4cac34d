// internal/pkg/apitest/handlers.go
package apitest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type cartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type orderRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// fieldMessages is one entry of a validation error response
type fieldMessages struct {
	field    string
	messages []string
}

// writeValidationError emits a Laravel-style 422 response with the
// errors object keys in the given order. Built by hand because Go maps
// do not keep insertion order.
func writeValidationError(c *gin.Context, entries []fieldMessages) {
	var buf bytes.Buffer
	buf.WriteString(`{"message":"The given data was invalid.","errors":{`)
	for i, entry := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(entry.field)
		value, _ := json.Marshal(entry.messages)
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString("}}")
	c.Data(http.StatusUnprocessableEntity, "application/json", buf.Bytes())
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	var missing []fieldMessages
	if req.Email == "" {
		missing = append(missing, fieldMessages{"email", []string{"The email field is required."}})
	}
	if req.Password == "" {
		missing = append(missing, fieldMessages{"password", []string{"The password field is required."}})
	}
	if len(missing) > 0 {
		writeValidationError(c, missing)
		return
	}

	s.mu.Lock()
	user := s.findUserByEmail(req.Email)
	s.mu.Unlock()

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := s.signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, s.authSuccessJSON(token, user))
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	var invalid []fieldMessages
	if req.Name == "" {
		invalid = append(invalid, fieldMessages{"name", []string{"The name field is required."}})
	}
	if req.Email == "" {
		invalid = append(invalid, fieldMessages{"email", []string{"The email field is required."}})
	}
	if len(req.Password) < 8 {
		invalid = append(invalid, fieldMessages{"password", []string{"The password must be at least 8 characters."}})
	}
	if len(invalid) > 0 {
		writeValidationError(c, invalid)
		return
	}

	s.mu.Lock()
	if s.findUserByEmail(req.Email) != nil {
		s.mu.Unlock()
		writeValidationError(c, []fieldMessages{{"email", []string{"The email has already been taken."}}})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		s.mu.Unlock()
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to hash password"})
		return
	}

	user := &userRecord{
		ID:           s.allocID("user"),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	s.users = append(s.users, user)
	s.mu.Unlock()

	token, err := s.signToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   s.authSuccessJSON(token, user),
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	// Tokens are stateless here; logout is an acknowledgement
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.ID == userID {
			c.JSON(http.StatusOK, userJSON(user))
			return
		}
	}
	c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
}

func (s *Server) handleGetCart(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.cartJSON(userID))
}

func (s *Server) handleAddCartItem(c *gin.Context) {
	userID := currentUserID(c)

	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	if req.Quantity < 1 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"quantity": []string{"The quantity must be at least 1."},
		})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, product := s.findProduct(req.ProductID)
	if product == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"product_id": []string{"The selected product is invalid."},
		})
		return
	}

	// Quantity already in the cart counts against stock
	held := 0
	for _, line := range s.carts[userID] {
		if line.ProductID == req.ProductID {
			held += line.Quantity
		}
	}
	if held+req.Quantity > product.Stock {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"stock": []string{"Requested quantity exceeds available stock."},
		})
		return
	}

	// Merge into an existing line when present; the unit price snapshot
	// from the first add is kept
	for _, line := range s.carts[userID] {
		if line.ProductID == req.ProductID {
			line.Quantity += req.Quantity
			c.JSON(http.StatusCreated, s.cartJSON(userID))
			return
		}
	}

	s.carts[userID] = append(s.carts[userID], &cartLine{
		ID:        s.allocID("cart_item"),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		UnitPrice: product.Price,
	})
	c.JSON(http.StatusCreated, s.cartJSON(userID))
}

func (s *Server) handleClearCart(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = nil
	c.JSON(http.StatusOK, s.cartJSON(userID))
}

func (s *Server) handleListOrders(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]gin.H, 0, len(s.orders[userID]))
	for _, order := range s.orders[userID] {
		result = append(result, s.orderJSON(order))
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleCreateOrder(c *gin.Context) {
	userID := currentUserID(c)

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	var missing []fieldMessages
	if strings.TrimSpace(req.Address) == "" {
		missing = append(missing, fieldMessages{"address", []string{"The address field is required."}})
	}
	if strings.TrimSpace(req.Phone) == "" {
		missing = append(missing, fieldMessages{"phone", []string{"The phone field is required."}})
	}
	if len(missing) > 0 {
		writeValidationError(c, missing)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[userID]
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"cart": []string{"Cart is empty."},
		})
		return
	}

	order := &orderRecord{
		ID:        s.allocID("order"),
		Address:   req.Address,
		Phone:     req.Phone,
		Status:    "pending",
		CreatedAt: time.Now().UTC(),
	}
	order.OrderNumber = fmt.Sprintf("ORD-%06d", order.ID)

	for _, line := range lines {
		subtotal := float64(line.Quantity) * line.UnitPrice
		order.Items = append(order.Items, orderLine{
			ID:        s.allocID("order_item"),
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		order.Total += subtotal

		// Ordering consumes stock
		if _, product := s.findProduct(line.ProductID); product != nil {
			product.Stock -= line.Quantity
		}
	}

	s.orders[userID] = append(s.orders[userID], order)
	s.carts[userID] = nil

	c.JSON(http.StatusCreated, s.orderJSON(order))
}

func (s *Server) handleListProducts(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]*productRecord, 0, len(s.products))
	for _, record := range s.products {
		if search == "" || strings.Contains(strings.ToLower(record.Name), search) {
			matched = append(matched, record)
		}
	}

	total := len(matched)
	lastPage := (total + s.perPage - 1) / s.perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * s.perPage
	end := start + s.perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	pageItems := matched[start:end]

	data := make([]gin.H, 0, len(pageItems))
	for _, record := range pageItems {
		data = append(data, productJSON(record))
	}

	from, to := 0, 0
	if len(pageItems) > 0 {
		from = start + 1
		to = start + len(pageItems)
	}

	c.JSON(http.StatusOK, gin.H{
		"data": data,
		"meta": gin.H{
			"total":        total,
			"per_page":     s.perPage,
			"current_page": page,
			"last_page":    lastPage,
			"from":         from,
			"to":           to,
		},
	})
}

func (s *Server) handleCreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	var invalid []fieldMessages
	if strings.TrimSpace(req.Name) == "" {
		invalid = append(invalid, fieldMessages{"name", []string{"The name field is required."}})
	}
	if req.Price <= 0 {
		invalid = append(invalid, fieldMessages{"price", []string{"The price must be greater than 0."}})
	}
	if len(invalid) > 0 {
		writeValidationError(c, invalid)
		return
	}

	s.mu.Lock()
	record := &productRecord{
		ID:          s.allocID("product"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		CreatedAt:   time.Now().UTC(),
	}
	s.products = append(s.products, record)
	s.mu.Unlock()

	c.JSON(http.StatusCreated, productJSON(record))
}

func (s *Server) handleUpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, record := s.findProduct(uint(id))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	record.Name = req.Name
	record.Description = req.Description
	record.Price = req.Price
	record.Stock = req.Stock

	c.JSON(http.StatusOK, productJSON(record))
}

func (s *Server) handleDeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, record := s.findProduct(uint(id))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	s.products = append(s.products[:index], s.products[index+1:]...)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

// authSuccessJSON is the session payload shared by login and register
func (s *Server) authSuccessJSON(token string, user *userRecord) gin.H {
	return gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"expires_in":   int64(tokenLifetime.Seconds()),
		"user":         userJSON(user),
	}
}

func userJSON(user *userRecord) gin.H {
	return gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	}
}

func productJSON(record *productRecord) gin.H {
	return gin.H{
		"id":           record.ID,
		"name":         record.Name,
		"description":  record.Description,
		"price":        record.Price,
		"stock":        record.Stock,
		"out_of_stock": record.Stock <= 0,
		"created_at":   record.CreatedAt,
	}
}

// cartJSON renders the caller's cart; callers must hold s.mu
func (s *Server) cartJSON(userID uint) gin.H {
	items := make([]gin.H, 0, len(s.carts[userID]))
	for _, line := range s.carts[userID] {
		item := gin.H{
			"id":         line.ID,
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
		}
		if _, product := s.findProduct(line.ProductID); product != nil {
			item["product"] = productJSON(product)
		}
		items = append(items, item)
	}
	return gin.H{
		"id":    userID,
		"items": items,
	}
}

// orderJSON renders one order; callers must hold s.mu
func (s *Server) orderJSON(order *orderRecord) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, line := range order.Items {
		item := gin.H{
			"id":         line.ID,
			"product_id": line.ProductID,
			"quantity":   line.Quantity,
			"unit_price": line.UnitPrice,
			"subtotal":   line.Subtotal,
		}
		if _, product := s.findProduct(line.ProductID); product != nil {
			item["product"] = productJSON(product)
		}
		items = append(items, item)
	}
	return gin.H{
		"id":           order.ID,
		"order_number": order.OrderNumber,
		"total":        order.Total,
		"address":      order.Address,
		"phone":        order.Phone,
		"status":       order.Status,
		"created_at":   order.CreatedAt,
		"items":        items,
	}
}
