package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Duc13022005/Web-Shop/internal/app"
	"github.com/Duc13022005/Web-Shop/internal/catalog"
	"github.com/Duc13022005/Web-Shop/internal/contact"
	"github.com/Duc13022005/Web-Shop/internal/orders"
)

func run(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "login":
		return runLogin(ctx, a, args)
	case "logout":
		return runLogout(a)
	case "whoami":
		return runWhoami(a)
	case "products":
		return runProducts(ctx, a, args)
	case "product":
		return runProduct(ctx, a, args)
	case "categories":
		return runCategories(ctx, a)
	case "cart":
		return runCart(ctx, a, args)
	case "checkout":
		return runCheckout(ctx, a, args)
	case "orders":
		return runOrders(ctx, a)
	case "order":
		return runOrder(ctx, a, args)
	case "contact":
		return runContact(ctx, a, args)
	case "status":
		return runStatus(ctx, a)
	default:
		printUsage(os.Stderr)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runLogin(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.Auth.Login(ctx, *email, *password)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	a.Session.Login(result.AccessToken, result.User)

	name := result.User.Email
	if result.User.FullName != nil && *result.User.FullName != "" {
		name = *result.User.FullName
	}
	fmt.Printf("logged in as %s (cart: %d items)\n", name, a.Badge.Count())
	return nil
}

func runLogout(a *app.App) error {
	a.Session.Logout()
	fmt.Println("logged out")
	return nil
}

func runWhoami(a *app.App) error {
	user := a.Session.User()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fullName := "-"
	if user.FullName != nil && *user.FullName != "" {
		fullName = *user.FullName
	}
	fmt.Printf("id:    %d\nemail: %s\nname:  %s\nrole:  %s\n", user.ID, user.Email, fullName, user.Role)
	return nil
}

func runProducts(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.Int64("category", 0, "filter by category id")
	search := fs.String("search", "", "search text")
	page := fs.Int("page", 1, "page number")
	size := fs.Int("size", 20, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	result, err := a.Catalog.List(ctx, catalog.ListParams{
		CategoryID: *category,
		Search:     *search,
		Page:       *page,
		Size:       *size,
	})
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tUNIT\tSTOCK")
	for _, p := range result.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\n",
			p.ID, p.SKU, p.Name, p.CurrentPrice.StringFixed(0), p.Unit, p.AvailableStock)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("page %d, %d of %d products\n", result.Page, len(result.Items), result.Total)
	return nil
}

func runProduct(ctx context.Context, a *app.App, args []string) error {
	id, err := parseID(args, "product")
	if err != nil {
		return err
	}

	p, err := a.Catalog.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}

	fmt.Printf("%s (%s)\n", p.Name, p.SKU)
	if p.CategoryName != nil {
		fmt.Printf("category: %s\n", *p.CategoryName)
	}
	fmt.Printf("price: %s/%s", p.CurrentPrice.StringFixed(0), p.Unit)
	if p.SalePrice != nil && p.SalePrice.LessThan(p.BasePrice) {
		fmt.Printf(" (was %s)", p.BasePrice.StringFixed(0))
	}
	fmt.Printf("\nstock: %d\n", p.AvailableStock)
	if p.Description != "" {
		fmt.Printf("\n%s\n", p.Description)
	}
	if len(p.Specifications) > 0 {
		fmt.Println("\nspecifications:")
		for key, value := range p.Specifications {
			fmt.Printf("  %s: %v\n", key, value)
		}
	}
	if p.ImagePath != "" {
		fmt.Printf("\nimage: %s\n", p.ImagePath)
	}
	for _, img := range p.Images {
		fmt.Printf("image: %s\n", img)
	}
	return nil
}

func runCategories(ctx context.Context, a *app.App) error {
	categories, err := a.Catalog.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRODUCTS")
	for _, c := range categories {
		fmt.Fprintf(w, "%d\t%s\t%d\n", c.ID, c.Name, c.ProductCount)
	}
	return w.Flush()
}

func runCart(ctx context.Context, a *app.App, args []string) error {
	sub := "show"
	if len(args) > 0 {
		sub = args[0]
		args = args[1:]
	}

	switch sub {
	case "show":
		return runCartShow(ctx, a)
	case "add":
		return runCartAdd(ctx, a, args)
	case "update":
		return runCartUpdate(ctx, a, args)
	case "remove":
		return runCartRemove(ctx, a, args)
	case "clear":
		return runCartClear(ctx, a)
	default:
		return fmt.Errorf("unknown cart subcommand %q", sub)
	}
}

func runCartShow(ctx context.Context, a *app.App) error {
	cart, err := a.Cart.Get(ctx)
	if err != nil {
		return fmt.Errorf("get cart: %w", err)
	}

	if len(cart.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tQTY\tUNIT PRICE\tSUBTOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			item.ID, item.ProductName, item.Quantity,
			item.UnitPrice.StringFixed(0), item.Subtotal.StringFixed(0))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("%d items, subtotal %s\n", cart.TotalItems, cart.Subtotal.StringFixed(0))
	return nil
}

func runCartAdd(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: cart add <product-id> [-qty <n>]")
	}
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid product id %q", args[0])
	}

	fs := flag.NewFlagSet("cart add", flag.ContinueOnError)
	qty := fs.Int("qty", 1, "quantity to add")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	cart, err := a.Cart.AddItem(ctx, productID, *qty)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	a.Badge.Refresh(ctx)
	fmt.Printf("added, cart now holds %d items\n", cart.TotalItems)
	return nil
}

func runCartUpdate(ctx context.Context, a *app.App, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: cart update <item-id> -qty <n>")
	}
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	fs := flag.NewFlagSet("cart update", flag.ContinueOnError)
	qty := fs.Int("qty", 0, "new quantity")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	// Quantities below 1 never reach the backend; remove is the explicit
	// way to drop a line.
	if *qty < 1 {
		return errors.New("quantity must be at least 1; use `cart remove` to drop the item")
	}

	cart, err := a.Cart.UpdateItem(ctx, itemID, *qty)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	a.Badge.Refresh(ctx)
	fmt.Printf("updated, cart now holds %d items\n", cart.TotalItems)
	return nil
}

func runCartRemove(ctx context.Context, a *app.App, args []string) error {
	itemID, err := parseID(args, "cart item")
	if err != nil {
		return err
	}

	cart, err := a.Cart.RemoveItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	a.Badge.Refresh(ctx)
	fmt.Printf("removed, cart now holds %d items\n", cart.TotalItems)
	return nil
}

func runCartClear(ctx context.Context, a *app.App) error {
	if err := a.Cart.Clear(ctx); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	a.Badge.Refresh(ctx)
	fmt.Println("cart cleared")
	return nil
}

func runCheckout(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	name := fs.String("name", "", "recipient name")
	phone := fs.String("phone", "", "recipient phone")
	address := fs.String("address", "", "street address")
	city := fs.String("city", "", "city")
	notes := fs.String("notes", "", "delivery notes")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"name", *name}, {"phone", *phone}, {"address", *address}, {"city", *city},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}

	shippingAddress := fmt.Sprintf("%s, %s, %s, %s", *name, *phone, *address, *city)
	order, err := a.Orders.Create(ctx, orders.CreateOrderInput{
		ShippingAddress: shippingAddress,
		Notes:           *notes,
	})
	if err != nil {
		return fmt.Errorf("checkout: %w", err)
	}

	// The backend clears the cart on order creation; re-derive the badge.
	a.Badge.Refresh(ctx)
	fmt.Printf("order %d created, total %s, pay on delivery\n", order.ID, order.TotalAmount.StringFixed(0))
	return nil
}

func runOrders(ctx context.Context, a *app.App) error {
	page, err := a.Orders.List(ctx)
	if err != nil {
		return fmt.Errorf("list orders: %w", err)
	}

	if len(page.Items) == 0 {
		fmt.Println("no orders yet")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED")
	for _, o := range page.Items {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			o.ID, o.Status, o.TotalItems, o.TotalAmount.StringFixed(0),
			o.CreatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runOrder(ctx context.Context, a *app.App, args []string) error {
	id, err := parseID(args, "order")
	if err != nil {
		return err
	}

	o, err := a.Orders.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get order: %w", err)
	}

	fmt.Printf("order %d\nstatus:   %s\npayment:  %s (%s)\nsubtotal: %s\ndelivery: %s\ntotal:    %s\nship to:  %s\n",
		o.ID, o.Status, o.PaymentMethod, o.PaymentStatus,
		o.Subtotal.StringFixed(0), o.DeliveryFee.StringFixed(0),
		o.TotalAmount.StringFixed(0), o.ShippingAddress)
	return nil
}

func runContact(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("contact", flag.ContinueOnError)
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	email := fs.String("email", "", "email address")
	phone := fs.String("phone", "", "phone number")
	message := fs.String("message", "", "message")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.Contact.Send(ctx, contact.Form{
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
		Phone:     *phone,
		Message:   *message,
	})
	if err != nil {
		return fmt.Errorf("send contact form: %w", err)
	}
	fmt.Println(resp.Message)
	return nil
}

func runStatus(ctx context.Context, a *app.App) error {
	if err := a.HealthCheck(ctx); err != nil {
		return err
	}
	state := "anonymous"
	if a.Session.IsAuthenticated() {
		state = fmt.Sprintf("logged in as %s", a.Session.User().Email)
	}
	fmt.Printf("backend reachable, %s, cart badge %d\n", state, a.Badge.Count())
	return nil
}

func parseID(args []string, kind string) (int64, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s id is required", kind)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", kind, args[0])
	}
	return id, nil
}
