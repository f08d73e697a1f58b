package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodmap/api"
	"moodmap/app"
	"moodmap/config"
	"moodmap/data"
	"moodmap/finder"
	"moodmap/location"
	"moodmap/places"
	"moodmap/weather"
)

var EnvFlag = flag.String("env", "", "Set the environment (overrides config)")
var ServeFlag = flag.Bool("serve", false, "Run the server")
var AddressFlag = flag.String("address", "", "Address for server (overrides config)")

func main() {
	flag.Parse()

	if !*ServeFlag {
		fmt.Fprintln(os.Stderr, "--serve not set")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *EnvFlag != "" {
		cfg.Server.Env = *EnvFlag
	}
	if *AddressFlag != "" {
		cfg.Server.Address = *AddressFlag
	}

	app.InitLog(cfg.Log.Level, cfg.Log.Format)
	for _, k := range cfg.Missing() {
		app.Log("main", "%s is not set; requests to that provider will fail", k)
	}

	// open the favorites store
	store, err := data.Open(cfg.Storage.Backend, cfg.Storage.Dir)
	if err != nil {
		app.Log("main", "Failed to open %s store: %v", cfg.Storage.Backend, err)
		os.Exit(1)
	}
	defer store.Close()

	geo := places.NewClient(cfg.Geoapify.BaseURL, cfg.Geoapify.APIKey)
	wx := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey)
	wx.Units = cfg.Weather.Units

	sessions := finder.NewSessions(&finder.Env{
		Geocoder: geo,
		Weather:  wx,
		Places:   geo,
		Store:    store,
		Defaults: finder.Defaults{
			Location: location.Coordinate{Lat: cfg.Search.DefaultLat, Lon: cfg.Search.DefaultLon},
			Mood:     cfg.Search.DefaultMood,
			Radius:   cfg.Search.DefaultRadius,
		},
		Secure: cfg.Server.Env == "prod",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sessions.Run(ctx, 10*time.Minute, 24*time.Hour)

	registerChecks(cfg, store, sessions)

	// render the api markdown
	apiHTML := app.RenderTemplate("API", "API documentation", api.Markdown())

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	if cfg.Server.Env == "dev" {
		r.Use(devCORS())
	}

	(&finder.Handler{Sessions: sessions, Suggest: geo}).Routes(r)

	r.Get("/api", app.Route(app.RouteOpts{
		JSON: func(w http.ResponseWriter, r *http.Request) { app.RespondJSON(w, api.Endpoints) },
		HTML: app.ServeHTML(apiHTML).ServeHTTP,
	}))
	r.Get("/status", app.StatusHandler)
	r.Handle("/metrics", promhttp.Handler())

	// serve the static assets
	r.Handle("/*", app.Serve())

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Log("main", "Shutdown error: %v", err)
		}
	}()

	app.Log("main", "Starting server on %s (%s)", cfg.Server.Address, cfg.Server.Env)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.Log("main", "Server error: %v", err)
		return
	}
	app.Log("main", "Server stopped")
}

// devCORS lets any origin call the API during development. Session
// cookies are not shared cross-origin.
func devCORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	})
}

func registerChecks(cfg *config.Config, store data.Store, sessions *finder.Sessions) {
	app.RegisterCheck(func() app.StatusCheck {
		return keyCheck("Geoapify", cfg.Geoapify.APIKey, true)
	})
	app.RegisterCheck(func() app.StatusCheck {
		return keyCheck("OpenWeatherMap", cfg.Weather.APIKey, false)
	})
	app.RegisterCheck(func() app.StatusCheck {
		_, err := store.Get("status/ping")
		ok := err == nil || errors.Is(err, data.ErrNotFound)
		details := cfg.Storage.Backend
		if !ok {
			details = err.Error()
		}
		return app.StatusCheck{Name: "Storage", Status: ok, Details: details, Required: true}
	})
	app.RegisterCheck(func() app.StatusCheck {
		return app.StatusCheck{Name: "Sessions", Status: true, Details: fmt.Sprintf("%d live", sessions.Len())}
	})
}

func keyCheck(name, key string, required bool) app.StatusCheck {
	if key == "" {
		return app.StatusCheck{Name: name, Status: false, Details: "API key not set", Required: required}
	}
	return app.StatusCheck{Name: name, Status: true, Details: "configured", Required: required}
}
