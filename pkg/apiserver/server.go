package apiserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SkynetLabs/webportal-dnslink-api/pkg/resolver"
	"github.com/SkynetLabs/webportal-dnslink-api/pkg/version"
	ghandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// DefaultStatsInterval is how often the cache stats daemon reports.
const DefaultStatsInterval = time.Minute

// Options configures the API server.
type Options struct {
	Port int
	// AdminTokenHash is the bcrypt hash of the token guarding admin routes.
	// Empty disables them.
	AdminTokenHash string
	// StatsInterval drives the cache stats daemon. Zero disables it.
	StatsInterval time.Duration
}

type apiServer struct {
	ctx  context.Context
	log  *logrus.Entry
	opts Options
}

func NewAPIServer(ctx context.Context, log *logrus.Entry, opts Options) *apiServer {
	return &apiServer{
		ctx:  ctx,
		log:  log,
		opts: opts,
	}
}

func (a *apiServer) Start(svc resolver.Service) error {
	logrus.Infof("Version: %s", version.Get())

	router := a.router(svc)

	// Below this point is where the server is started and graceful shutdown occurs.
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.opts.Port),
		Handler: ghandlers.CORS()(router),
	}

	go func() {
		a.log.WithField("port", a.opts.Port).Info("starting api server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Fatalf("listen: %s\n", err)
		}
	}()

	go svc.StartStatsDaemon(a.opts.StatsInterval, a.ctx.Done())

	<-a.ctx.Done()

	a.log.Info("shutting down the api server gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer func() {
		cancel()
	}()

	if err := srv.Shutdown(ctx); err != nil {
		a.log.WithError(err).Error("unable to shutdown the api server gracefully")
		return err
	}

	return nil
}

func (a *apiServer) router(svc resolver.Service) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(loggingMiddleware(a.log))
	h := newHandler(svc)

	// When functioning properly, these routes return the version of the app
	// that is running
	router.Path("/").HandlerFunc(h.root)
	router.Path("/healthz").HandlerFunc(h.root)

	// The resolution route. The optional ?uri= query carries a path fragment
	// that may embed a fallback skylink.
	router.Path("/dnslink/{domain}").Methods("GET").HandlerFunc(h.resolveDNSLink)

	// Admin routes are only mounted when a token hash is configured, so an
	// unconfigured server simply 404s them.
	if a.opts.AdminTokenHash != "" {
		adminRoutes := router.PathPrefix("/v1").Subrouter()
		adminRoutes.Use(tokenAuthMiddleware(a.opts.AdminTokenHash))
		adminRoutes.Path("/cache/purge").Methods("POST").HandlerFunc(h.purgeCache)
	}

	// Note: this allows not found urls to be logged via the middleware
	// It **HAS** to be defined after all other paths are defined.
	router.NotFoundHandler = router.NewRoute().HandlerFunc(http.NotFound).GetHandler()

	return router
}
