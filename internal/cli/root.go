package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercadillo/internal/api"
	"mercadillo/internal/cache"
	"mercadillo/internal/payment"
	"mercadillo/internal/session"
	"mercadillo/internal/storage"
	"mercadillo/internal/usecase"
	"mercadillo/pkg/config"
)

// App wires the client stack together: config, local storage, session,
// cache, API clients and the flows on top of them.
type App struct {
	Config  *config.Config
	Cache   *cache.Store
	Session *session.Store
	Auth    *usecase.Auth
	Cart    *usecase.CartUseCase
	Catalog *usecase.Catalog
	Search  *usecase.Searcher
	Orders  *usecase.Orders
	Reviews *usecase.Reviews
	Account *usecase.Account

	orderAPI *api.OrderAPI
	gateway  *payment.Gateway
}

func NewApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	local, err := storage.NewLocalStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	store := cache.New(cfg.Cache.StaleAfter, cfg.Cache.GCAfter)
	sess := session.NewStore(local, store)
	if err := sess.Load(); err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL, sess, cfg.Retry.Reads)
	gateway := payment.NewGateway(cfg.Payment.BaseURL, cfg.Payment.PublishableKey)

	cart := usecase.NewCartUseCase(api.NewCartAPI(client), store, local)
	catalog := usecase.NewCatalog(api.NewProductAPI(client), store, cfg.Cache.TaxonomyStale)
	orderAPI := api.NewOrderAPI(client)

	return &App{
		Config:   cfg,
		Cache:    store,
		Session:  sess,
		Auth:     usecase.NewAuth(api.NewAuthAPI(client), sess),
		Cart:     cart,
		Catalog:  catalog,
		Search:   usecase.NewSearcher(catalog, cfg.Search.Debounce, cfg.Search.MinLength, cfg.Search.MaxHits),
		Orders:   usecase.NewOrders(orderAPI, store),
		Reviews:  usecase.NewReviews(api.NewReviewAPI(client), store),
		Account:  usecase.NewAccount(api.NewUserAPI(client), store),
		orderAPI: orderAPI,
		gateway:  gateway,
	}, nil
}

// NewCheckout builds a fresh checkout machine; each run of the flow gets
// its own.
func (a *App) NewCheckout() *usecase.Checkout {
	return usecase.NewCheckout(a.orderAPI, a.gateway, a.Cart, a.Catalog,
		a.Config.FreeShippingAbove, a.Config.ShippingFee)
}

var app *App

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Mercadillo storefront client",
	Long: `Command-line storefront client: browse the catalog, manage your cart and
wishlist, place orders and manage your account against the Mercadillo backend.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		app, err = NewApp()
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func requireAuth() error {
	if !app.Session.IsAuthenticated() {
		return fmt.Errorf("you must be logged in (run: storefront login)")
	}
	return nil
}
