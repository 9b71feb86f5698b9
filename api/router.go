package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	appMiddleware "github.com/prasetyowira/qrsite/api/middleware"
	"github.com/prasetyowira/qrsite/constant"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
)

// RouteHandler is the set of page handlers the router mounts
type RouteHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Info(w http.ResponseWriter, r *http.Request)
	QRImage(w http.ResponseWriter, r *http.Request)
	AdminGet(w http.ResponseWriter, r *http.Request)
	AdminPost(w http.ResponseWriter, r *http.Request)
}

// Router represents the application router
type Router struct {
	handler RouteHandler
	router  *chi.Mux
}

// NewRouter creates a new router
func NewRouter(handler RouteHandler) *Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.RequestLogger())

	return &Router{
		handler: handler,
		router:  r,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() {
	appLogger.Info(constant.MsgSettingUpRoutes, appLogger.LoggerInfo{
		ContextFunction: constant.CtxRouter,
	})

	r.router.Get(constant.RouteIndex, r.handler.Index)
	r.router.Get(constant.RouteInfo, r.handler.Info)
	r.router.Get(constant.RouteQRImage, r.handler.QRImage)
	r.router.Get(constant.RouteAdmin, r.handler.AdminGet)
	r.router.Post(constant.RouteAdmin, r.handler.AdminPost)

	r.router.Get(constant.RouteHealthcheck, func(w http.ResponseWriter, r *http.Request) {
		appLogger.CtxDebug(r.Context(), constant.MsgHealthcheckRequest, appLogger.LoggerInfo{
			ContextFunction: constant.CtxRouter,
		})

		WritePlain(w, constant.MsgHealthy, http.StatusOK)
	})
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}
