package product

import "time"

type Product struct {
	ID          uint      `json:"id"`
	VendorID    uint      `json:"vendorId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Stock       int       `json:"stock"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Vendor info resolved for display.
	VendorName string `json:"vendorName,omitempty"`
	VendorCity string `json:"vendorCity,omitempty"`
}

type NewProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
	Image       string  `json:"image"`
}

type UpdateProductInput struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock"`
	Image       *string  `json:"image"`
}

type QueryOptions struct {
	Category string
	City     string
	Search   string
	VendorID uint
	Limit    int
	Page     int
}
