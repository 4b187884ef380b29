package apitest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcarrillo/storefront/internal/api"
	"github.com/mcarrillo/storefront/internal/session"
	"github.com/mcarrillo/storefront/internal/storage"
)

func TestListProducts_FiltersAndPaging(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	cat := srv.SeedCategory("Electronics")
	srv.SeedProduct("Gaming Laptop", 1200, cat)
	srv.SeedProduct("Laptop Sleeve", 25, cat)
	srv.SeedProduct("Laptop Stand", 45, cat)
	srv.SeedProduct("Desk Lamp", 30, cat)

	client, err := api.NewClient(srv.URL())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	products, err := client.ListProducts(ctx, api.ProductQuery{Offset: 0, Limit: 10, Title: "laptop"})
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("expected 3 laptops, got %d", len(products))
	}

	products, err = client.ListProducts(ctx, api.ProductQuery{Offset: 0, Limit: 10, Title: "laptop", PriceMin: 30, PriceMax: 100})
	if err != nil {
		t.Fatalf("ListProducts with price band: %v", err)
	}
	if len(products) != 1 || products[0].Title != "Laptop Stand" {
		t.Fatalf("expected only the stand, got %+v", products)
	}

	// second page of two
	products, err = client.ListProducts(ctx, api.ProductQuery{Offset: 2, Limit: 2})
	if err != nil {
		t.Fatalf("ListProducts page 2: %v", err)
	}
	if len(products) != 2 || products[0].Title != "Laptop Stand" {
		t.Fatalf("unexpected second page: %+v", products)
	}
}

func TestProductLifecycle(t *testing.T) {
	s := NewServer()
	defer s.Close()

	cat := s.SeedCategory("Furniture")
	s.SeedUser("Maria", "maria@example.com", "changeme")

	local, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	sess := session.Load(local)
	client, err := api.NewClient(s.URL(), api.WithTokenSource(sess))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sess.SetClient(client)

	ctx := context.Background()
	if err := sess.Login(ctx, "maria@example.com", "changeme"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	created, err := client.CreateProduct(ctx, api.CreateProductRequest{
		Title:      "Oak Table",
		Price:      320,
		CategoryID: cat.ID,
		Images:     []string{"https://placehold.co/640"},
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID == 0 || created.Category.Name != "Furniture" {
		t.Fatalf("unexpected created product: %+v", created)
	}

	newPrice := 280.0
	updated, err := client.UpdateProduct(ctx, created.ID, api.UpdateProductRequest{Price: &newPrice})
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Price != 280 || updated.Title != "Oak Table" {
		t.Fatalf("update lost fields: %+v", updated)
	}

	ok, err := client.DeleteProduct(ctx, created.ID)
	if err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if !ok {
		t.Fatal("expected delete to report true")
	}

	if _, err := client.GetProduct(ctx, created.ID); err == nil {
		t.Fatal("expected deleted product to 404")
	}
}

func TestCreateProduct_RequiresAuth(t *testing.T) {
	s := NewServer()
	defer s.Close()
	cat := s.SeedCategory("Misc")

	client, err := api.NewClient(s.URL())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	_, err = client.CreateProduct(context.Background(), api.CreateProductRequest{Title: "X", CategoryID: cat.ID})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != 401 {
		t.Fatalf("expected a 401 api error, got %v", err)
	}
}

func TestRefreshFlow_RecoversExpiredAccessToken(t *testing.T) {
	s := NewServer()
	defer s.Close()
	s.SeedUser("Maria", "maria@example.com", "changeme")

	local, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	sess := session.Load(local)
	client, err := api.NewClient(s.URL(), api.WithTokenSource(sess))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sess.SetClient(client)

	ctx := context.Background()
	if err := sess.Login(ctx, "maria@example.com", "changeme"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	before := sess.AccessToken()

	s.ExpireAccessTokens()
	if err := sess.LoadProfile(ctx); err != nil {
		t.Fatalf("LoadProfile after expiry: %v", err)
	}
	if sess.AccessToken() == before {
		t.Fatal("expected a rotated access token after refresh")
	}

	exp, ok := sess.TokenExpiry()
	if !ok || !exp.After(time.Now()) {
		t.Fatalf("expected a future expiry on the refreshed token, got %v ok=%v", exp, ok)
	}
}

func TestRefreshFlow_RevokedSessionExpires(t *testing.T) {
	s := NewServer()
	defer s.Close()
	s.SeedUser("Maria", "maria@example.com", "changeme")

	sess := session.Load(nil)
	client, err := api.NewClient(s.URL(), api.WithTokenSource(sess))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sess.SetClient(client)

	ctx := context.Background()
	if err := sess.Login(ctx, "maria@example.com", "changeme"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	s.RevokeTokens()
	err = sess.LoadProfile(ctx)
	if !errors.Is(err, api.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if sess.Snapshot().Authenticated {
		t.Fatal("expected session to be cleared after failed refresh")
	}
}

func TestUserRegistration(t *testing.T) {
	s := NewServer()
	defer s.Close()

	client, err := api.NewClient(s.URL())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx := context.Background()

	free, err := client.CheckEmailAvailable(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("CheckEmailAvailable: %v", err)
	}
	if !free {
		t.Fatal("expected unused email to be available")
	}

	user, err := client.CreateUser(ctx, api.CreateUserRequest{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "secret123",
		Avatar:   "https://placehold.co/64",
	})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == 0 || user.Role != "customer" {
		t.Fatalf("unexpected user: %+v", user)
	}

	free, err = client.CheckEmailAvailable(ctx, "new@example.com")
	if err != nil {
		t.Fatalf("CheckEmailAvailable after register: %v", err)
	}
	if free {
		t.Fatal("expected registered email to be unavailable")
	}
}
