// cmd/storefront/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/your-org/storefront-client/internal/api"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/auth"
	"github.com/your-org/storefront-client/internal/domain/cart"
	"github.com/your-org/storefront-client/internal/domain/orders"
	"github.com/your-org/storefront-client/internal/domain/products"
	"github.com/your-org/storefront-client/internal/pkg/apitest"
	"github.com/your-org/storefront-client/internal/pkg/invoice"
	"github.com/your-org/storefront-client/internal/pkg/logger"
	"github.com/your-org/storefront-client/internal/session"
)

// app bundles the constructed stores for command dispatch
type app struct {
	cfg      *config.Config
	auth     *auth.Store
	cart     *cart.Store
	orders   *orders.Store
	products *products.Store
	invoices *invoice.Service
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if os.Args[1] == "demo" {
		runDemo(cfg)
		return
	}

	application, err := build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize client: %v", err)
	}

	if err := application.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		log.Fatalf("%v", err)
	}
}

// build wires config, logger, token store, API client and the stores
func build(cfg *config.Config) (*app, error) {
	logg := logger.New(cfg)

	sessions, err := session.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	client := api.NewClient(cfg, logg)

	return &app{
		cfg:      cfg,
		auth:     auth.NewStore(client, sessions, logg),
		cart:     cart.NewStore(client, logg),
		orders:   orders.NewStore(client, logg),
		products: products.NewStore(client, logg),
		invoices: invoice.NewService(cfg),
	}, nil
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront login <email> <password>")
		}
		if err := a.auth.Login(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("login failed: %s", a.auth.Err())
		}
		fmt.Printf("Logged in as %s\n", a.auth.User().Email)
		return nil

	case "register":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront register <name> <email> <password>")
		}
		if err := a.auth.Register(ctx, args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("registration failed: %s", a.auth.Err())
		}
		fmt.Println("Registered")
		return nil

	case "logout":
		a.auth.Logout(ctx)
		fmt.Println("Logged out")
		return nil

	case "me":
		a.auth.FetchProfile(ctx)
		user := a.auth.User()
		if user == nil {
			return fmt.Errorf("not authenticated")
		}
		fmt.Printf("#%d %s <%s>\n", user.ID, user.Name, user.Email)
		return nil

	case "products":
		return a.runProducts(ctx, args)

	case "cart":
		return a.runCart(ctx, args)

	case "orders":
		return a.runOrders(ctx, args)

	default:
		usage()
		return fmt.Errorf("unknown command: %s", command)
	}
}

func (a *app) runProducts(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("products", flag.ContinueOnError)
	search := flags.String("search", "", "filter products by name")
	page := flags.Int("page", 0, "page to fetch")
	if err := flags.Parse(args); err != nil {
		return err
	}

	a.products.SetSearchQuery(*search)
	if err := a.products.FetchProducts(ctx, *page); err != nil {
		return fmt.Errorf("failed to load products: %s", a.products.Err())
	}

	meta := a.products.Meta()
	fmt.Printf("Page %d/%d (%d products)\n", meta.CurrentPage, meta.LastPage, meta.Total)
	for _, product := range a.products.Products() {
		stock := strconv.Itoa(product.Stock)
		if product.OutOfStock {
			stock = "out of stock"
		}
		fmt.Printf("  #%d %s — %.2f (%s)\n", product.ID, product.Name, product.Price, stock)
	}
	return nil
}

func (a *app) runCart(ctx context.Context, args []string) error {
	action := "show"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "show":
		if err := a.cart.FetchCart(ctx); err != nil {
			return fmt.Errorf("failed to load cart: %s", a.cart.Err())
		}
		if a.cart.IsEmpty() {
			fmt.Println("Cart is empty")
			return nil
		}
		for _, item := range a.cart.Items() {
			name := fmt.Sprintf("#%d", item.ProductID)
			if item.Product != nil {
				name = item.Product.Name
			}
			fmt.Printf("  %s x%d @ %.2f\n", name, item.Quantity, item.UnitPrice)
		}
		fmt.Printf("Total: %.2f\n", a.cart.Total())
		return nil

	case "add":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront cart add <product-id> <quantity>")
		}
		productID, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid product id: %s", args[1])
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity: %s", args[2])
		}
		if err := a.cart.AddItem(ctx, uint(productID), quantity); err != nil {
			return fmt.Errorf("failed to add item: %s", a.cart.Err())
		}
		fmt.Printf("Added; cart now has %d items, total %.2f\n", a.cart.ItemCount(), a.cart.Total())
		return nil

	case "clear":
		if err := a.cart.ClearCart(ctx); err != nil {
			return fmt.Errorf("failed to clear cart: %s", a.cart.Err())
		}
		fmt.Println("Cart cleared")
		return nil

	default:
		return fmt.Errorf("unknown cart action: %s", action)
	}
}

func (a *app) runOrders(ctx context.Context, args []string) error {
	action := "list"
	if len(args) > 0 {
		action = args[0]
	}

	switch action {
	case "list":
		if err := a.orders.FetchOrders(ctx); err != nil {
			return fmt.Errorf("failed to load orders: %s", a.orders.Err())
		}
		if !a.orders.HasOrders() {
			fmt.Println("No orders yet")
			return nil
		}
		for _, order := range a.orders.Orders() {
			fmt.Printf("  %s %.2f %s (%s)\n", order.OrderNumber, order.Total, order.Status, orders.FormatDate(order.CreatedAt))
		}
		return nil

	case "create":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront orders create <address> <phone>")
		}
		if err := a.orders.CreateOrder(ctx, args[1], args[2]); err != nil {
			return fmt.Errorf("failed to create order: %s", a.orders.Err())
		}
		fmt.Printf("Order placed; you now have %d orders\n", a.orders.OrderCount())
		return nil

	case "invoice":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront orders invoice <order-number> <output.pdf>")
		}
		if err := a.orders.FetchOrders(ctx); err != nil {
			return fmt.Errorf("failed to load orders: %s", a.orders.Err())
		}
		for _, order := range a.orders.Orders() {
			if order.OrderNumber != args[1] {
				continue
			}
			pdf, err := a.invoices.RenderPDF(&order)
			if err != nil {
				return fmt.Errorf("failed to render invoice: %w", err)
			}
			if err := os.WriteFile(args[2], pdf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write invoice: %w", err)
			}
			fmt.Printf("Invoice written to %s\n", args[2])
			return nil
		}
		return fmt.Errorf("no order with number %s", args[1])

	default:
		return fmt.Errorf("unknown orders action: %s", action)
	}
}

// runDemo starts the in-process fake storefront API and walks a full
// purchase flow against it
func runDemo(cfg *config.Config) {
	backend := apitest.NewServer()
	if err := backend.SeedUser("Demo Shopper", "demo@example.com", "demo-password"); err != nil {
		log.Fatalf("Failed to seed demo user: %v", err)
	}
	backend.SeedProduct("Espresso Beans", "1kg dark roast", 18.50, 40)
	backend.SeedProduct("Pour-over Kettle", "Gooseneck, 1L", 42.00, 12)
	backend.SeedProduct("Ceramic Mug", "350ml", 9.90, 0)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		log.Fatalf("Failed to start demo backend: %v", err)
	}
	go func() {
		_ = http.Serve(listener, backend.Handler())
	}()

	cfg.API.BaseURL = "http://" + listener.Addr().String()
	cfg.Session.Backend = "file"
	cfg.Session.TokenFile = filepath.Join(os.TempDir(), "storefront-demo-token")
	defer os.Remove(cfg.Session.TokenFile)

	application, err := build(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize demo client: %v", err)
	}

	ctx := context.Background()
	steps := [][]string{
		{"login", "demo@example.com", "demo-password"},
		{"products"},
		{"cart", "add", "1", "2"},
		{"cart", "add", "2", "1"},
		{"cart", "show"},
		{"orders", "create", "1 Demo Street", "+1-555-0100"},
		{"orders", "list"},
		{"logout"},
	}
	for _, step := range steps {
		fmt.Printf("\n$ storefront %v\n", step)
		if err := application.run(ctx, step[0], step[1:]); err != nil {
			log.Fatalf("Demo step failed: %v", err)
		}
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: storefront <command> [args]

Commands:
  login <email> <password>
  register <name> <email> <password>
  logout
  me
  products [-page N] [-search TEXT]
  cart [show|add <product-id> <qty>|clear]
  orders [list|create <address> <phone>|invoice <order-number> <out.pdf>]
  demo`)
}
