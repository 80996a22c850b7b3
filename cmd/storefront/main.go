// Command storefront is a terminal client for the loja backend: browse
// products, manage a cart and check out. Session and cart state live in
// a state file so they survive between invocations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/loja-storefront/internal/apiclient"
	"github.com/example/loja-storefront/internal/cart"
	"github.com/example/loja-storefront/internal/catalog"
	"github.com/example/loja-storefront/internal/checkout"
	"github.com/example/loja-storefront/internal/pricing"
	"github.com/example/loja-storefront/internal/session"
	"github.com/example/loja-storefront/internal/storage"
)

const usage = `Usage: storefront <command> [args]

Commands:
  register <usuario> <senha> <confirma>   create an account
  login <usuario> <senha>                 sign in and store the token
  logout                                  drop the stored session
  whoami                                  show the signed-in user
  products [usuario]                      list a store's products
  cart add <product-id> <qty> [color [size]]
  cart rm <product-id> [color [size]]
  cart qty <product-id> <n> [color [size]]
  cart show [coupon]                      print the cart with totals
  cart clear
  checkout -name NAME [-payment METHOD] [-coupon CODE]

Environment:
  LOJA_API    backend base URL (default http://localhost:8080)
  LOJA_STATE  state file path (default ~/.loja/state.json)
`

type app struct {
	storage *storage.FileStorage
	session *session.Store
	client  *apiclient.Client
	catalog *catalog.Cache
	cart    *cart.Store
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	a, err := newApp()
	if err != nil {
		fatal(err)
	}

	ctx := context.Background()
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(err)
	}
}

func newApp() (*app, error) {
	st, err := storage.NewFileStorage(statePath())
	if err != nil {
		return nil, err
	}

	sess := session.NewStore(st)
	sess.OnForcedLogout(func() {
		fmt.Fprintln(os.Stderr, "Sessão expirada. Faça login novamente.")
	})

	client := apiclient.New(getEnv("LOJA_API", "http://localhost:8080"), sess)

	cartStore, err := cart.Load(st)
	if err != nil {
		return nil, err
	}

	return &app{
		storage: st,
		session: sess,
		client:  client,
		catalog: catalog.NewCache(client, 5*time.Minute),
		cart:    cartStore,
	}, nil
}

func statePath() string {
	if p := os.Getenv("LOJA_STATE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".loja-state.json"
	}
	return filepath.Join(home, ".loja", "state.json")
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "register":
		return a.cmdRegister(ctx, args)
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.cmdWhoami()
	case "products":
		return a.cmdProducts(ctx, args)
	case "cart":
		return a.cmdCart(ctx, args)
	case "checkout":
		return a.cmdCheckout(ctx, args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q (run 'storefront help')", cmd)
	}
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: storefront register <usuario> <senha> <confirma>")
	}
	if err := a.client.Register(ctx, args[0], args[1], args[2]); err != nil {
		return err
	}
	fmt.Printf("Account %q created. Run 'storefront login' to sign in.\n", args[0])
	return nil
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: storefront login <usuario> <senha>")
	}
	usuario := args[0]

	token, err := a.client.Login(ctx, usuario, args[1])
	if err != nil {
		return err
	}

	if err := a.session.Login(token, roleFromToken(token), usuario); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s.\n", usuario)
	return nil
}

// roleFromToken reads the role claim without verifying the signature; the
// client has no signing key and the value is only used for display and
// menu gating. The backend re-checks roles on every request.
func roleFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

func (a *app) cmdWhoami() error {
	if !a.session.IsLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}
	fmt.Printf("Signed in as %s", a.session.Usuario())
	if role := a.session.Role(); role != "" {
		fmt.Printf(" (%s)", role)
	}
	fmt.Println()

	if claims, ok := a.session.Claims(); ok {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			fmt.Printf("Token expires %s\n", exp.Format(time.RFC1123))
		}
	}
	return nil
}

func (a *app) cmdProducts(ctx context.Context, args []string) error {
	usuario := a.session.Usuario()
	if len(args) > 0 {
		usuario = args[0]
	}
	if usuario == "" {
		return fmt.Errorf("usage: storefront products <usuario> (or sign in first)")
	}

	products, err := a.catalog.Products(ctx, usuario)
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products.")
		return nil
	}

	for _, p := range products {
		fmt.Printf("%-24s  %-30s  R$ %8s  stock %d\n",
			p.ID, p.Name, p.Price.StringFixed(2), p.Stock)
	}
	return nil
}

func (a *app) cmdCart(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: storefront cart <add|rm|qty|show|clear> ...")
	}

	switch args[0] {
	case "add":
		return a.cartAdd(ctx, args[1:])
	case "rm":
		if len(args) < 2 {
			return fmt.Errorf("usage: storefront cart rm <product-id> [color [size]]")
		}
		color, size := variant(args[2:])
		a.cart.Remove(args[1], color, size)
		return a.saveCart()
	case "qty":
		if len(args) < 3 {
			return fmt.Errorf("usage: storefront cart qty <product-id> <n> [color [size]]")
		}
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[2])
		}
		color, size := variant(args[3:])
		a.cart.UpdateQuantity(args[1], color, size, n)
		return a.saveCart()
	case "show":
		coupon := ""
		if len(args) > 1 {
			coupon = args[1]
		}
		a.printCart(coupon)
		return nil
	case "clear":
		a.cart.Clear()
		return a.saveCart()
	default:
		return fmt.Errorf("unknown cart command %q", args[0])
	}
}

func (a *app) cartAdd(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: storefront cart add <product-id> <qty> [color [size]]")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid quantity %q", args[1])
	}
	color, size := variant(args[2:])

	usuario := a.session.Usuario()
	if usuario == "" {
		return fmt.Errorf("sign in before adding to the cart")
	}
	products, err := a.catalog.Products(ctx, usuario)
	if err != nil {
		return err
	}

	for _, p := range products {
		if p.ID == args[0] {
			a.cart.Add(p, qty, color, size)
			return a.saveCart()
		}
	}
	return fmt.Errorf("product %q not found", args[0])
}

func variant(rest []string) (color, size string) {
	if len(rest) > 0 {
		color = rest[0]
	}
	if len(rest) > 1 {
		size = rest[1]
	}
	return color, size
}

func (a *app) saveCart() error {
	if err := a.cart.Persist(a.storage); err != nil {
		return err
	}
	fmt.Printf("Cart: %d item(s).\n", a.cart.Count())
	return nil
}

func (a *app) printCart(coupon string) {
	items := a.cart.Items()
	if len(items) == 0 {
		fmt.Println("Seu carrinho está vazio.")
		return
	}

	for _, li := range items {
		label := li.Name
		if li.Color != "" || li.Size != "" {
			label = fmt.Sprintf("%s (%s %s)", li.Name, li.Color, li.Size)
		}
		fmt.Printf("%-40s  %3d x R$ %8s = R$ %8s\n",
			label, li.Quantity, li.UnitPrice.StringFixed(2), li.Subtotal().StringFixed(2))
	}

	quote := pricing.Default().Quote(items, coupon).Rounded()
	fmt.Printf("\nSubtotal: R$ %s\n", quote.Subtotal.StringFixed(2))
	fmt.Printf("Frete:    R$ %s\n", quote.ShippingFee.StringFixed(2))
	if quote.Coupon.Valid {
		fmt.Printf("Cupom %s: -R$ %s\n", quote.Coupon.Code, quote.Discount.StringFixed(2))
	} else if coupon != "" {
		fmt.Println("Cupom inválido.")
	}
	fmt.Printf("Total:    R$ %s\n", quote.Total.StringFixed(2))
}

func (a *app) cmdCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ExitOnError)
	name := fs.String("name", "", "buyer name (required)")
	payment := fs.String("payment", "credit", "payment method: credit, pix or boleto")
	coupon := fs.String("coupon", "", "coupon code")
	if err := fs.Parse(args); err != nil {
		return err
	}

	orch := checkout.New(a.cart, a.session, a.client, checkout.Config{
		Pricing: pricing.Default(),
	})
	orch.OnSuccess(a.catalog.Invalidate)
	defer orch.Close()

	conf, err := orch.Submit(ctx, checkout.Input{
		BuyerName:     *name,
		PaymentMethod: *payment,
		Coupon:        *coupon,
	})
	if err != nil {
		return err
	}

	if err := a.cart.Persist(a.storage); err != nil {
		return err
	}
	fmt.Printf("Compra realizada com sucesso! Pedido %s para %s.\n", conf.SaleID, conf.BuyerName)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
