package api

// Category groups products on the remote API.
type Category struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Image      string `json:"image"`
	CreationAt string `json:"creationAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// Product mirrors the remote API product schema.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Category    Category `json:"category"`
	CreationAt  string   `json:"creationAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

// User mirrors the remote API user schema.
type User struct {
	ID         int    `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Avatar     string `json:"avatar"`
	CreationAt string `json:"creationAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// CreateProductRequest is the payload for publishing a product.
type CreateProductRequest struct {
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	CategoryID  int      `json:"categoryId"`
	Images      []string `json:"images"`
}

// UpdateProductRequest is the payload for editing a product. Nil fields
// are omitted so the server keeps the previous values.
type UpdateProductRequest struct {
	Title       *string  `json:"title,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *int     `json:"categoryId,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// CreateUserRequest is the payload for registering a user.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Avatar   string `json:"avatar"`
}

// Credentials carry a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries the token pair issued by login and refresh.
type AuthResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// ProductQuery addresses one page of the catalog. Zero-valued filter
// fields mean "no constraint" and are omitted from the request.
type ProductQuery struct {
	Offset   int
	Limit    int
	Title    string
	PriceMin int
	PriceMax int
}
