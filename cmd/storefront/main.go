package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"pinguinamart/internal/api"
	"pinguinamart/internal/api/handlers"
	"pinguinamart/internal/cache"
	"pinguinamart/internal/catalog"
	"pinguinamart/internal/config"
	"pinguinamart/internal/database"
	"pinguinamart/internal/order"
	"pinguinamart/internal/repository"
	"pinguinamart/internal/seed"
)

func main() {
	rootCmd := &cobra.Command{Use: "storefront"}
	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the storefront HTTP server",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, pool := mustConnect()
			defer pool.Close()

			products := repository.NewProductRepository(pool)
			reviews := repository.NewReviewRepository(pool)
			orders := repository.NewOrderRepository(pool)
			carts := repository.NewCartRepository(pool)

			// Redis being unavailable only costs the cache. When it is up,
			// checkout shares the wrapper so stock decrements evict stale
			// listings.
			var productRepo repository.ProductRepository = products
			var invalidator order.ProductCacheInvalidator
			if rdb, err := cache.ConnectRedis(cfg); err != nil {
				log.Printf("redis unavailable, serving without cache: %v", err)
			} else {
				cached := cache.NewCachedProductRepository(products, rdb)
				productRepo = cached
				invalidator = cached
			}
			catalogSvc := catalog.NewService(productRepo, reviews)

			orderSvc := order.NewService(orders, carts, invalidator)

			router := api.NewRouter(catalogSvc, orderSvc, carts, handlers.GatewayRedirects{
				SuccessURL: cfg.EsewaSuccessURL,
				FailureURL: cfg.EsewaFailureURL,
			})

			log.Printf("listening on %s", cfg.HTTPAddr)
			if err := http.ListenAndServe(cfg.HTTPAddr, router); err != nil {
				log.Fatal(err)
			}
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply pending database migrations",
		Run: func(cmd *cobra.Command, args []string) {
			_, pool := mustConnect()
			defer pool.Close()

			if err := database.Migrate(context.Background(), pool); err != nil {
				log.Fatal("migrations failed: ", err)
			}
			log.Println("migrations applied")
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "reset the store and load randomized demo data",
		Run: func(cmd *cobra.Command, args []string) {
			_, pool := mustConnect()
			defer pool.Close()

			ctx := context.Background()
			if err := database.Migrate(ctx, pool); err != nil {
				log.Fatal("migrations failed: ", err)
			}

			store := seed.Store{
				Products:    repository.NewProductRepository(pool),
				Users:       repository.NewUserRepository(pool),
				Orders:      repository.NewOrderRepository(pool),
				Reviews:     repository.NewReviewRepository(pool),
				Carts:       repository.NewCartRepository(pool),
				Maintenance: repository.NewMaintenanceRepository(pool),
			}
			if err := seed.Run(ctx, store); err != nil {
				log.Fatal("seed failed: ", err)
			}
		},
	}
}

func mustConnect() (*config.Config, *pgxpool.Pool) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}

	return cfg, pool
}
