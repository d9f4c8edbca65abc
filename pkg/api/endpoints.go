package api

import "fmt"

// Backend REST surface. Paths are relative to the configured base URL.
const (
	EndpointLogin      = "/auth/login"
	EndpointMe         = "/auth/me"
	EndpointProducts   = "/products"
	EndpointCategories = "/categories"
	EndpointCart       = "/cart"
	EndpointCartItems  = "/cart/items"
	EndpointOrders     = "/orders"
	EndpointContact    = "/contact/"
)

func ProductPath(id int64) string {
	return fmt.Sprintf("%s/%d", EndpointProducts, id)
}

func CartItemPath(itemID int64) string {
	return fmt.Sprintf("%s/%d", EndpointCartItems, itemID)
}

func OrderPath(id int64) string {
	return fmt.Sprintf("%s/%d", EndpointOrders, id)
}
