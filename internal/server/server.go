// Package server boots the application: configuration, logging, database,
// cache, storage, queue workers, the middleware stack and the routes.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/mgiraldo/almacen/app/controllers"
	"github.com/mgiraldo/almacen/app/graphql"
	"github.com/mgiraldo/almacen/app/jobs"
	"github.com/mgiraldo/almacen/app/listeners"
	"github.com/mgiraldo/almacen/app/repositories"
	"github.com/mgiraldo/almacen/app/routes"
	"github.com/mgiraldo/almacen/app/services"
	"github.com/mgiraldo/almacen/app/views"
	"github.com/mgiraldo/almacen/config"
	"github.com/mgiraldo/almacen/pkg/cache"
	"github.com/mgiraldo/almacen/pkg/database"
	"github.com/mgiraldo/almacen/pkg/logger"
	"github.com/mgiraldo/almacen/pkg/metrics"
	"github.com/mgiraldo/almacen/pkg/middleware"
	"github.com/mgiraldo/almacen/pkg/migration"
	"github.com/mgiraldo/almacen/pkg/queue"
	"github.com/mgiraldo/almacen/pkg/reqid"
	"github.com/mgiraldo/almacen/pkg/router"
	"github.com/mgiraldo/almacen/pkg/session"
	"github.com/mgiraldo/almacen/pkg/storage"
	"github.com/mgiraldo/almacen/pkg/ws"

	// Register migrations so Start can bring the schema up to date.
	_ "github.com/mgiraldo/almacen/database/migrations"
)

// Start boots everything and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		if h, err := logger.AttachMongo(uri); err != nil {
			logger.Warn("server: mongo log sink unavailable", "error", err)
		} else {
			defer h.Close()
		}
	}

	db, err := database.Connect()
	if err != nil {
		return err
	}

	runner := migration.New(db)
	if err := runner.EnsureTable(); err != nil {
		return err
	}
	if err := runner.Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, continuing without cache", "error", err)
	}

	storage.Connect(config.StorageDefault(), config.StorageLocalRoot(),
		config.StorageURL(), config.StorageS3Bucket())

	stockHub := ws.NewHub()
	go stockHub.Run()
	listeners.Register(stockHub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs.RegisterJobs()
	queue.UseDB(db)
	if cache.Available() {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.StartWorkers(ctx, 4)

	r, err := NewRouter(db, stockHub)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// NewRouter builds the full route table on a fresh router. The CLI's
// route:list command uses it too.
func NewRouter(db *gorm.DB, stockHub *ws.Hub) (*router.Router, error) {
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	saleRepo := repositories.NewSaleRepository(db)

	authService := services.NewAuthService(userRepo)
	stockService := services.NewStockService(productRepo)
	saleService := services.NewSaleService(db, saleRepo)

	gql, err := graphql.NewHandler(stockService, saleService)
	if err != nil {
		return nil, err
	}

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		session.Middleware(session.DefaultStore(), session.DefaultOptions()),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(300, time.Minute),
	)

	routes.RegisterWeb(r, routes.WebControllers{
		Auth:  controllers.NewAuthController(authService),
		Stock: controllers.NewStockController(stockService),
		Sales: controllers.NewSaleController(saleService, stockService),
		Pages: controllers.NewPageController(),
	})
	routes.RegisterAPI(r, controllers.NewAPIController(authService, stockService, saleService), gql)

	r.Get("/healthz", "healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok")) //nolint:errcheck
	})
	r.Get("/metrics", "metrics", metrics.Handler())
	r.Get("/ws/stock", "ws.stock", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, stockHub)
	})

	r.HandleFunc("/static/*", views.Static().ServeHTTP)

	// Uploaded sale images, served straight from the local disk root.
	uploads := http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadRoot())))
	r.HandleFunc("/uploads/*", uploads.ServeHTTP)

	return r, nil
}

func uploadRoot() string {
	root := config.StorageLocalRoot()
	dir := config.UploadDir()
	if root == "" || root == "." {
		return dir
	}
	return root + "/" + dir
}
