// Package apitest provides an in-process stand-in for the remote store
// API, used by tests that need a full server rather than a single stub
// handler. It implements the subset of endpoints the client talks to:
// product listing with pagination and filters, product CRUD, categories,
// user registration and the login/refresh/profile auth flow.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mcarrillo/storefront/internal/api"
)

// tokenTTL controls the exp claim on issued access tokens. Tests that
// inspect expiry only care that it is in the future.
const tokenTTL = 20 * time.Minute

var signingKey = []byte("apitest-signing-key")

type account struct {
	user     api.User
	password string
}

// Server is a fake store API backed by in-memory tables. All methods are
// safe for concurrent use; handlers take the same lock as the seed
// helpers.
type Server struct {
	mu         sync.Mutex
	products   []api.Product
	categories []api.Category
	accounts   []account
	nextID     int

	// token -> user id
	access  map[string]int
	refresh map[string]int

	httpSrv *httptest.Server
}

// NewServer starts a fake API on a local listener. Callers must Close it.
func NewServer() *Server {
	s := &Server{
		nextID:  1,
		access:  make(map[string]int),
		refresh: make(map[string]int),
	}

	e := echo.New()
	e.HideBanner = true

	e.GET("/products", s.listProducts)
	e.GET("/products/:id", s.getProduct)
	e.POST("/products", s.createProduct)
	e.PUT("/products/:id", s.updateProduct)
	e.DELETE("/products/:id", s.deleteProduct)

	e.GET("/categories", s.listCategories)
	e.GET("/categories/:id", s.getCategory)

	e.POST("/users", s.createUser)
	e.POST("/users/is-available", s.emailAvailable)

	e.POST("/auth/login", s.login)
	e.POST("/auth/refresh-token", s.refreshToken)
	e.GET("/auth/profile", s.profile)

	s.httpSrv = httptest.NewServer(e)
	return s
}

// URL returns the base URL tests pass to api.NewClient.
func (s *Server) URL() string { return s.httpSrv.URL }

func (s *Server) Close() { s.httpSrv.Close() }

// SeedCategory registers a category and returns it with an assigned ID.
func (s *Server) SeedCategory(name string) api.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := api.Category{
		ID:         s.nextIDLocked(),
		Name:       name,
		Image:      "https://placehold.co/640",
		CreationAt: stamp(),
		UpdatedAt:  stamp(),
	}
	s.categories = append(s.categories, cat)
	return cat
}

// SeedProduct registers a product and returns it with an assigned ID.
func (s *Server) SeedProduct(title string, price float64, cat api.Category) api.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := api.Product{
		ID:          s.nextIDLocked(),
		Title:       title,
		Price:       price,
		Description: "seeded product",
		Images:      []string{"https://placehold.co/640"},
		Category:    cat,
		CreationAt:  stamp(),
		UpdatedAt:   stamp(),
	}
	s.products = append(s.products, p)
	return p
}

// SeedUser registers an account that can log in with the given password.
func (s *Server) SeedUser(name, email, password string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := api.User{
		ID:         s.nextIDLocked(),
		Email:      email,
		Name:       name,
		Role:       "customer",
		Avatar:     "https://placehold.co/64",
		CreationAt: stamp(),
		UpdatedAt:  stamp(),
	}
	s.accounts = append(s.accounts, account{user: u, password: password})
	return u
}

// RevokeTokens invalidates every issued token, forcing clients into the
// refresh path (which will also fail). Used to simulate expired sessions.
func (s *Server) RevokeTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]int)
	s.refresh = make(map[string]int)
}

// ExpireAccessTokens invalidates access tokens but keeps refresh tokens
// valid, so the next authenticated request exercises the refresh flow.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = make(map[string]int)
}

func (s *Server) nextIDLocked() int {
	id := s.nextID
	s.nextID++
	return id
}

func stamp() string { return time.Now().UTC().Format(time.RFC3339) }

type errorBody struct {
	Message string `json:"message"`
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorBody{Message: msg})
}

func (s *Server) listProducts(c echo.Context) error {
	offset := intParam(c, "offset", 0)
	limit := intParam(c, "limit", 0)
	title := c.QueryParam("title")
	priceMin := intParam(c, "price_min", 0)
	priceMax := intParam(c, "price_max", 0)

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]api.Product, 0, len(s.products))
	for _, p := range s.products {
		if title != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(title)) {
			continue
		}
		if priceMin > 0 && p.Price < float64(priceMin) {
			continue
		}
		if priceMax > 0 && p.Price > float64(priceMax) {
			continue
		}
		matched = append(matched, p)
	}

	if offset > len(matched) {
		offset = len(matched)
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return c.JSON(http.StatusOK, matched)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == id {
			return c.JSON(http.StatusOK, p)
		}
	}
	return fail(c, http.StatusNotFound, "product not found")
}

func (s *Server) createProduct(c echo.Context) error {
	if _, ok := s.authenticate(c); !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	var in api.CreateProductRequest
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if in.Title == "" {
		return fail(c, http.StatusBadRequest, "title is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cat, ok := s.categoryLocked(in.CategoryID)
	if !ok {
		return fail(c, http.StatusBadRequest, "unknown category")
	}
	p := api.Product{
		ID:          s.nextIDLocked(),
		Title:       in.Title,
		Price:       in.Price,
		Description: in.Description,
		Images:      in.Images,
		Category:    cat,
		CreationAt:  stamp(),
		UpdatedAt:   stamp(),
	}
	s.products = append(s.products, p)
	return c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProduct(c echo.Context) error {
	if _, ok := s.authenticate(c); !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}
	var in api.UpdateProductRequest
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID != id {
			continue
		}
		p := &s.products[i]
		if in.Title != nil {
			p.Title = *in.Title
		}
		if in.Price != nil {
			p.Price = *in.Price
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.CategoryID != nil {
			cat, ok := s.categoryLocked(*in.CategoryID)
			if !ok {
				return fail(c, http.StatusBadRequest, "unknown category")
			}
			p.Category = cat
		}
		if in.Images != nil {
			p.Images = in.Images
		}
		p.UpdatedAt = stamp()
		return c.JSON(http.StatusOK, *p)
	}
	return fail(c, http.StatusNotFound, "product not found")
}

func (s *Server) deleteProduct(c echo.Context) error {
	if _, ok := s.authenticate(c); !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid product id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			// the real API answers deletes with a bare boolean
			return c.JSON(http.StatusOK, true)
		}
	}
	return fail(c, http.StatusNotFound, "product not found")
}

func (s *Server) categoryLocked(id int) (api.Category, bool) {
	for _, cat := range s.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return api.Category{}, false
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Category, len(s.categories))
	copy(out, s.categories)
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid category id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if cat, ok := s.categoryLocked(id); ok {
		return c.JSON(http.StatusOK, cat)
	}
	return fail(c, http.StatusNotFound, "category not found")
}

func (s *Server) createUser(c echo.Context) error {
	var in api.CreateUserRequest
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if in.Email == "" || in.Password == "" {
		return fail(c, http.StatusBadRequest, "email and password are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == in.Email {
			return fail(c, http.StatusBadRequest, "email already registered")
		}
	}
	u := api.User{
		ID:         s.nextIDLocked(),
		Email:      in.Email,
		Name:       in.Name,
		Role:       "customer",
		Avatar:     in.Avatar,
		CreationAt: stamp(),
		UpdatedAt:  stamp(),
	}
	s.accounts = append(s.accounts, account{user: u, password: in.Password})
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) emailAvailable(c echo.Context) error {
	var in struct {
		Email string `json:"email"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == in.Email {
			return c.JSON(http.StatusOK, map[string]bool{"isAvailable": false})
		}
	}
	return c.JSON(http.StatusOK, map[string]bool{"isAvailable": true})
}

func (s *Server) login(c echo.Context) error {
	var creds api.Credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.Email == creds.Email && a.password == creds.Password {
			auth, err := s.issueLocked(a.user.ID)
			if err != nil {
				return fail(c, http.StatusInternalServerError, "sign token")
			}
			return c.JSON(http.StatusCreated, auth)
		}
	}
	return fail(c, http.StatusUnauthorized, "unauthorized")
}

func (s *Server) refreshToken(c echo.Context) error {
	var in struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.refresh[in.RefreshToken]
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	delete(s.refresh, in.RefreshToken)
	auth, err := s.issueLocked(userID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "sign token")
	}
	return c.JSON(http.StatusCreated, auth)
}

func (s *Server) profile(c echo.Context) error {
	userID, ok := s.authenticate(c)
	if !ok {
		return fail(c, http.StatusUnauthorized, "unauthorized")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.user.ID == userID {
			return c.JSON(http.StatusOK, a.user)
		}
	}
	return fail(c, http.StatusUnauthorized, "unauthorized")
}

// authenticate resolves the bearer token to a user id.
func (s *Server) authenticate(c echo.Context) (int, bool) {
	header := c.Request().Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return 0, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.access[token]
	return userID, ok
}

// issueLocked mints a fresh token pair for the user. Access tokens are
// real signed JWTs so clients can read the exp claim; refresh tokens are
// opaque.
func (s *Server) issueLocked(userID int) (api.AuthResponse, error) {
	claims := jwt.RegisteredClaims{
		Subject:   strconv.Itoa(userID),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		return api.AuthResponse{}, err
	}
	refresh := uuid.NewString()
	s.access[access] = userID
	s.refresh[refresh] = userID
	return api.AuthResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func intParam(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
