// storefront is the terminal storefront client: browse the catalog, fill
// a cart and run the checkout flow against the backend, with the hosted
// payment widget played by an interactive terminal prompt.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Json604/labubu-ecom/internal/api"
	"github.com/Json604/labubu-ecom/internal/auth"
	"github.com/Json604/labubu-ecom/internal/cart"
	"github.com/Json604/labubu-ecom/internal/checkout"
	"github.com/Json604/labubu-ecom/internal/present"
	"github.com/Json604/labubu-ecom/internal/provider"
)

const usage = `usage: storefront [-backend URL] <command> [args]

commands:
  register <name> <email> <password>   create an account and sign in
  login <email> <password>             sign in
  logout                               drop the stored credential
  whoami                               show the signed-in account
  products                             list the catalog
  cart                                 show the cart
  add <product-id> [quantity]          add a product to the cart
  checkout                             create an order and pay for it
  pay <order-id>                       retry payment on an existing order
  orders                               list your orders
  order <order-id>                     show one order
  cancel <order-id>                    cancel an unpaid order
`

type app struct {
	client *api.Client
	creds  auth.Store
	flow   *checkout.Orchestrator
	reader *cart.Reader
}

func main() {
	backend := flag.String("backend", envOr("STOREFRONT_BACKEND", "http://localhost:8080"), "backend base URL")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	creds, err := auth.NewFileStore(credentialsPath())
	if err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}
	client := api.New(api.Config{BaseURL: *backend, Credentials: creds})

	a := &app{
		client: client,
		creds:  creds,
		reader: cart.NewReader(client),
		flow: checkout.NewOrchestrator(
			client,
			provider.NewTerminal(os.Stdin, os.Stdout),
			creds,
			checkout.NewReconciler(client, checkout.DefaultRecheckDelay),
		),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := a.run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		if len(args) != 3 {
			return fmt.Errorf("register needs <name> <email> <password>")
		}
		user, err := a.client.Register(ctx, args[0], args[1], args[2])
		if err != nil {
			return err
		}
		fmt.Printf("welcome, %s\n", user.Name)
		return nil

	case "login":
		if len(args) != 2 {
			return fmt.Errorf("login needs <email> <password>")
		}
		user, err := a.client.Login(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Printf("signed in as %s\n", user.Email)
		return nil

	case "logout":
		if err := a.client.Logout(); err != nil {
			return err
		}
		fmt.Println("signed out")
		return nil

	case "whoami":
		user, err := a.client.Me(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s>\n", user.Name, user.Email)
		return nil

	case "products":
		page, err := a.client.Products(ctx, 0, 50)
		if err != nil {
			return err
		}
		for _, p := range page.Products {
			fmt.Printf("%-10s %-28s ₹%-9.2f stock %d\n", p.ID, p.Name, p.Price, p.Stock)
		}
		return nil

	case "cart":
		snap, err := a.reader.Load(ctx)
		if err != nil {
			return err
		}
		if snap.IsEmpty() {
			fmt.Println("cart is empty")
			return nil
		}
		for _, item := range snap.Items {
			name := item.ProductID
			if item.Product != nil {
				name = item.Product.Name
			}
			fmt.Printf("%-28s x%d\n", name, item.Quantity)
		}
		fmt.Printf("total: ₹%.2f (%d items)\n", snap.Total(), snap.ItemCount())
		return nil

	case "add":
		if len(args) < 1 {
			return fmt.Errorf("add needs <product-id> [quantity]")
		}
		quantity := 1
		if len(args) > 1 {
			q, err := strconv.Atoi(args[1])
			if err != nil || q <= 0 {
				return fmt.Errorf("quantity must be a positive number")
			}
			quantity = q
		}
		item, err := a.client.AddToCart(ctx, args[0], quantity)
		if err != nil {
			return err
		}
		fmt.Printf("cart now holds %d of %s\n", item.Quantity, args[0])
		return nil

	case "checkout":
		snap, err := a.reader.Load(ctx)
		if err != nil {
			return err
		}
		render(present.Project(a.flow.Checkout(ctx, snap)))
		return nil

	case "pay":
		if len(args) != 1 {
			return fmt.Errorf("pay needs <order-id>")
		}
		render(present.Project(a.flow.PayOrder(ctx, args[0])))
		return nil

	case "orders":
		page, err := a.client.Orders(ctx, 0, 20)
		if err != nil {
			return err
		}
		for _, o := range page.Orders {
			fmt.Printf("%-38s %-10s ₹%-9.2f %s\n",
				o.ID, o.Status, o.TotalAmount, o.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil

	case "order":
		if len(args) != 1 {
			return fmt.Errorf("order needs <order-id>")
		}
		o, err := a.client.Order(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("order %s: %s, ₹%.2f\n", o.ID, o.Status, o.TotalAmount)
		for _, item := range o.Items {
			fmt.Printf("  %-10s x%d @ ₹%.2f\n", item.ProductID, item.Quantity, item.Price)
		}
		if o.Payment != nil {
			fmt.Printf("  payment %s: %s\n", o.Payment.ID, o.Payment.Status)
		}
		return nil

	case "cancel":
		if len(args) != 1 {
			return fmt.Errorf("cancel needs <order-id>")
		}
		o, err := a.client.CancelOrder(ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("order %s is now %s\n", o.ID, o.Status)
		return nil

	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func render(v present.View) {
	switch v.State {
	case present.UISuccess:
		fmt.Printf("\n%s\n", v.Message)
		fmt.Printf("order %s, ₹%.2f, %d items\n", v.OrderID, v.Amount, v.ItemCount)
	case present.UICancelled:
		fmt.Printf("\n%s\n", v.Message)
		if v.OrderID != "" {
			fmt.Printf("order %s is waiting; run: storefront pay %s\n", v.OrderID, v.OrderID)
		}
	case present.UIFailed:
		fmt.Printf("\n%s\n", v.Message)
		if v.SignInRequired {
			fmt.Println("sign in first: storefront login <email> <password>")
		} else if v.RetryPayment && v.OrderID != "" {
			fmt.Printf("retry with: storefront pay %s\n", v.OrderID)
		}
	default:
		fmt.Printf("\n%s\n", v.Message)
	}
}

func credentialsPath() string {
	if p := os.Getenv("STOREFRONT_CREDENTIALS"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront-credentials.json"
	}
	return filepath.Join(home, ".storefront", "credentials.json")
}

func envOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
