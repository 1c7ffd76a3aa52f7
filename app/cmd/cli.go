package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Rakhulsr/supplierhub/app/configs"
	"github.com/Rakhulsr/supplierhub/app/db/seeders"
	"github.com/Rakhulsr/supplierhub/app/models/migrations"
	"github.com/urfave/cli/v3"
)

const dbRetries = 10

func requireSQL(app *Application) error {
	if app.DB == nil {
		return errors.New("this command needs a SQL database; DB_DRIVER is memory or the database is unreachable")
	}
	return nil
}

func Serve(ctx context.Context, env configs.ENV) error {
	app, err := NewApplication(env, dbRetries)
	if err != nil {
		return err
	}
	if app.DB == nil && env.SeedAdminPassword != "" {
		// The memory store starts empty on every boot.
		if err := app.Seeder().DBSeed(ctx, seeders.Options{AdminEmail: env.SeedAdminEmail, AdminPassword: env.SeedAdminPassword}); err != nil {
			log.Printf("WARN Serve: seeding memory store: %v", err)
		}
	}

	handler, err := app.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              env.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 Server starting on %s", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", server.Addr, err)
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func RunCli() {
	env := configs.LoadEnv()

	cmd := &cli.Command{
		Name:  "supplierhub",
		Usage: "B2B supplier and product portal",
		Action: func(ctx context.Context, c *cli.Command) error {
			return Serve(ctx, env)
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, c *cli.Command) error {
					return Serve(ctx, env)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migration",
				Action: func(ctx context.Context, c *cli.Command) error {
					db, err := configs.OpenConnection(env, dbRetries, 5*time.Second)
					if err != nil {
						return err
					}
					if err := migrations.AutoMigrate(db); err != nil {
						return err
					}
					log.Println("✅ Migration complete")
					return nil
				},
			},
			{
				Name:  "seed",
				Usage: "Create the admin user and the starter taxonomy",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "demo",
						Usage: "also create `N` approved demo suppliers with products",
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "random seed for demo data",
						Value: 1,
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := NewApplication(env, dbRetries)
					if err != nil {
						return err
					}
					if err := requireSQL(app); err != nil {
						return err
					}
					if err := app.Seeder().DBSeed(ctx, seeders.Options{
						AdminEmail:    env.SeedAdminEmail,
						AdminPassword: env.SeedAdminPassword,
						DemoSuppliers: int(c.Int("demo")),
						RandSeed:      c.Int64("seed"),
					}); err != nil {
						return err
					}
					log.Println("✅ Seeding complete")
					return nil
				},
			},
			{
				Name:  "reindex",
				Usage: "Rebuild the document index chunks for every product",
				Action: func(ctx context.Context, c *cli.Command) error {
					app, err := NewApplication(env, dbRetries)
					if err != nil {
						return err
					}
					if err := requireSQL(app); err != nil {
						return err
					}
					indexed, err := app.Products.ReindexAll(ctx)
					log.Printf("Reindexed %d products", indexed)
					if err != nil {
						return fmt.Errorf("some products failed to index: %w", err)
					}
					log.Println("✅ Reindex complete")
					return nil
				},
			},
			{
				Name:  "generate-keys",
				Usage: "Generate new session authentication, encryption and CSRF keys for .env",
				Action: func(ctx context.Context, c *cli.Command) error {

					if err := configs.GenerateAndPrintSessionKeys(); err != nil {
						return err
					}
					log.Println("✅ Key generation complete. Please copy the keys to your .env file.")
					return nil
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
