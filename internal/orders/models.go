package orders

import "time"

// Product is a catalog entry as resolved by the product directory.
// Only the fields copied into an order are kept here.
type Product struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// User is an identity record as resolved by the user directory.
// Phone and Location may be empty; the directory does not require them.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

// Order is the persisted result of a fulfilled order request.
// Immutable once created; there is no update or delete path.
type Order struct {
	ID          string    `json:"id"`
	ProductList []Product `json:"productList"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	PhoneNo     string    `json:"phoneno"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}
