// stockease-cli drives the api from the command line: log in, inspect
// catalog projections, and create a product the way the operator UI does.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/stockease/stockease/internal/client"
	"github.com/stockease/stockease/internal/session"
)

var (
	server   = flag.String("server", "http://127.0.0.1:1816", "api base url")
	email    = flag.String("email", "demo@gmail.com", "operator email")
	password = flag.String("password", "demo@369", "operator password")

	name     = flag.String("name", "", "product name (create when set)")
	price    = flag.String("price", "", "product price")
	stock    = flag.String("stock", "", "product stock")
	size     = flag.String("size", "", "product size (SMALL|MEDIUM|LARGE)")
	unit     = flag.String("unit", "", "product unit (kg|g|mg|l|ml)")
	category = flag.String("category", "", "category id")
	seller   = flag.String("seller", "", "seller id")
	brand    = flag.String("brand", "", "brand id (optional)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := session.NewStore()
	c := client.New(*server, store)

	if err := c.Login(ctx, *email, *password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	defer c.Logout()

	identity := store.CurrentIdentity()
	fmt.Printf("logged in as %s <%s>\n", identity.Name, identity.Email)

	if *name == "" {
		return listCatalog(ctx, c)
	}

	w := client.NewWorkflow(c)
	form := w.Form()
	form.Name = *name
	form.Price = *price
	form.Stock = *stock
	form.Size = *size
	form.Unit = *unit
	form.Category = *category
	form.Seller = *seller
	form.Brand = *brand

	product, err := w.Submit(ctx)
	if err != nil {
		return fmt.Errorf("create failed: %w", err)
	}
	fmt.Printf("created product %d: %s\n", product.ID, product.Name)
	return nil
}

func listCatalog(ctx context.Context, c *client.Client) error {
	categories, err := c.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories failed: %w", err)
	}
	fmt.Println("categories:")
	for _, v := range categories {
		fmt.Printf("  %d  %s\n", v.ID, v.Name)
	}

	sellers, err := c.Sellers(ctx)
	if err != nil {
		return fmt.Errorf("list sellers failed: %w", err)
	}
	fmt.Println("sellers:")
	for _, v := range sellers {
		fmt.Printf("  %d  %s <%s>\n", v.ID, v.Name, v.Email)
	}

	brands, err := c.Brands(ctx)
	if err != nil {
		return fmt.Errorf("list brands failed: %w", err)
	}
	fmt.Println("brands:")
	for _, v := range brands {
		fmt.Printf("  %d  %s\n", v.ID, v.Name)
	}
	return nil
}
