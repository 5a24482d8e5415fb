package woocommerce

const (
	StatusInStock      = "in_stock"
	StatusInsufficient = "insufficient"
	StatusNotFound     = "not_found"
)

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type LineItem struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ProductID int    `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	Total     string `json:"total"`
}

type Order struct {
	ID          int        `json:"id"`
	Number      string     `json:"number"`
	Status      string     `json:"status"`
	Currency    string     `json:"currency"`
	Total       string     `json:"total"`
	DateCreated string     `json:"date_created"`
	Billing     Billing    `json:"billing"`
	LineItems   []LineItem `json:"line_items"`
}

type StockCheckItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type StockCheckRequest struct {
	LineItems []StockCheckItem `json:"line_items" binding:"required"`
}

type StockCheck struct {
	SKU          string `json:"sku"`
	Requested    int    `json:"requested"`
	CurrentStock int    `json:"current_stock"`
	Status       string `json:"status"`
}

type ShipItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
	OrderID  *int   `json:"order_id"`
}

type ShipResult struct {
	Message        string `json:"message"`
	SKU            string `json:"sku"`
	RemainingStock int    `json:"remaining_stock"`
	OrderCompleted bool   `json:"order_completed"`
}

// ShippedProduct is the shop floor state of a product after a shipment.
type ShippedProduct struct {
	ID             int
	ItemName       string
	RemainingStock int
}
