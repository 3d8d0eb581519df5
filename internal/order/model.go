package order

import "time"

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Phone  string `json:"phone"`
}

type StatusChange struct {
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	Note      string      `json:"note,omitempty"`
}

type Order struct {
	ID              uint           `json:"id"`
	CustomerID      uint           `json:"customerId"`
	CustomerName    string         `json:"customerName,omitempty"`
	CustomerPhone   string         `json:"customerPhone,omitempty"`
	Items           []*OrderItem   `json:"items"`
	TotalAmount     float64        `json:"totalAmount"`
	Status          OrderStatus    `json:"status"`
	DeliveryAddress Address        `json:"deliveryAddress"`
	StatusHistory   []StatusChange `json:"statusHistory,omitempty"`
	DeliveredAt     *time.Time     `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// OrderItem captures the product's name, unit price and owning vendor at
// order time. Later catalog edits never change a placed order.
type OrderItem struct {
	ID          uint    `json:"id"`
	OrderID     uint    `json:"orderId"`
	ProductID   uint    `json:"productId"`
	ProductName string  `json:"productName"`
	VendorID    uint    `json:"vendorId"`
	VendorName  string  `json:"vendorName,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

func (i *OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

type NewOrderItem struct {
	ProductID uint `json:"product"`
	Quantity  int  `json:"quantity"`
}

type NewOrderInput struct {
	Items           []NewOrderItem `json:"items"`
	DeliveryAddress Address        `json:"deliveryAddress"`
	// TotalAmount is the client-computed total; when present it is verified
	// against the server-computed total.
	TotalAmount *float64 `json:"totalAmount"`
}

// OrderProduct is the catalog snapshot the ledger reads during creation.
type OrderProduct struct {
	ID       uint
	Name     string
	Price    float64
	Stock    int
	VendorID uint
	IsActive bool
}
