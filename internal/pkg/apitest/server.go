// internal/pkg/apitest/server.go

// Package apitest hosts an in-process storefront API implementing every
// endpoint the client consumes, with the backend's error shapes: 422
// validation mappings, top-level cart/stock arrays, and flat message
// fields. Store tests and the demo command run against it so no real
// backend is needed.
package apitest

import (
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenLifetime = 24 * time.Hour

// Server is an in-memory storefront backend
type Server struct {
	engine    *gin.Engine
	jwtSecret []byte
	perPage   int

	mu       sync.Mutex
	users    []*userRecord
	products []*productRecord
	carts    map[uint][]*cartLine
	orders   map[uint][]*orderRecord
	nextID   map[string]uint

	requests atomic.Int64
}

type userRecord struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type productRecord struct {
	ID          uint
	Name        string
	Description string
	Price       float64
	Stock       int
	CreatedAt   time.Time
}

type cartLine struct {
	ID        uint
	ProductID uint
	Quantity  int
	UnitPrice float64
}

type orderRecord struct {
	ID          uint
	OrderNumber string
	Total       float64
	Address     string
	Phone       string
	Status      string
	CreatedAt   time.Time
	Items       []orderLine
}

type orderLine struct {
	ID        uint
	ProductID uint
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// claims are the JWT claims attached to issued bearer tokens
type claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// NewServer creates a fake storefront API with an empty catalog
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		jwtSecret: []byte("apitest-signing-secret-0123456789abcdef"),
		perPage:   10,
		carts:     make(map[uint][]*cartLine),
		orders:    make(map[uint][]*orderRecord),
		nextID:    make(map[string]uint),
	}

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		s.requests.Add(1)
		c.Next()
	})

	engine.POST("/auth/login", s.handleLogin)
	engine.POST("/auth/register", s.handleRegister)

	authed := engine.Group("/", s.requireAuth())
	authed.POST("/auth/logout", s.handleLogout)
	authed.GET("/auth/me", s.handleMe)
	authed.GET("/cart", s.handleGetCart)
	authed.POST("/cart/items", s.handleAddCartItem)
	authed.DELETE("/cart", s.handleClearCart)
	authed.GET("/orders", s.handleListOrders)
	authed.POST("/orders", s.handleCreateOrder)
	authed.GET("/products", s.handleListProducts)
	authed.POST("/products", s.handleCreateProduct)
	authed.PUT("/products/:id", s.handleUpdateProduct)
	authed.DELETE("/products/:id", s.handleDeleteProduct)

	s.engine = engine
	return s
}

// Handler returns the HTTP handler, suitable for httptest.NewServer
func (s *Server) Handler() http.Handler {
	return s.engine
}

// RequestCount returns how many requests the server has received
func (s *Server) RequestCount() int64 {
	return s.requests.Load()
}

// SetPerPage overrides the product listing page size
func (s *Server) SetPerPage(n int) {
	s.mu.Lock()
	s.perPage = n
	s.mu.Unlock()
}

// SeedUser registers an account directly, bypassing the HTTP surface
func (s *Server) SeedUser(name, email, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, &userRecord{
		ID:           s.allocID("user"),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	return nil
}

// SeedProduct adds a product directly to the catalog and returns its id
func (s *Server) SeedProduct(name, description string, price float64, stock int) uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	record := &productRecord{
		ID:          s.allocID("product"),
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   time.Now().UTC(),
	}
	s.products = append(s.products, record)
	return record.ID
}

// IssueToken mints a valid bearer token for a seeded user, so tests can
// simulate a restored session without going through login
func (s *Server) IssueToken(email string) (string, error) {
	s.mu.Lock()
	user := s.findUserByEmail(email)
	s.mu.Unlock()
	if user == nil {
		return "", fmt.Errorf("no seeded user with email %s", email)
	}
	return s.signToken(user)
}

func (s *Server) signToken(user *userRecord) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   fmt.Sprintf("user:%d", user.ID),
		},
	})
	return token.SignedString(s.jwtSecret)
}

// requireAuth validates the bearer token and stores the user id in the
// request context
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if authHeader == "" || tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			c.Abort()
			return
		}

		parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSecret, nil
		})
		if err != nil || !parsed.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
			c.Abort()
			return
		}

		tokenClaims := parsed.Claims.(*claims)
		c.Set("user_id", tokenClaims.UserID)
		c.Next()
	}
}

func (s *Server) allocID(kind string) uint {
	s.nextID[kind]++
	return s.nextID[kind]
}

func (s *Server) findUserByEmail(email string) *userRecord {
	for _, user := range s.users {
		if user.Email == email {
			return user
		}
	}
	return nil
}

func (s *Server) findProduct(id uint) (int, *productRecord) {
	for i, record := range s.products {
		if record.ID == id {
			return i, record
		}
	}
	return -1, nil
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint("user_id")
}
