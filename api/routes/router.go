package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krow6750/gearshare-backend/api/controllers"
	"github.com/krow6750/gearshare-backend/api/middleware"
	"github.com/krow6750/gearshare-backend/pkg/config"
	"github.com/krow6750/gearshare-backend/pkg/logger"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Stats     controllers.StatsProvider
	Repairs   controllers.RepairsService
	Templates controllers.TemplatesService
	Activity  controllers.ActivityService
	Recorder  controllers.ActivityRecorder
	Pingers   map[string]controllers.Pinger
	Gatherer  prometheus.Gatherer
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svcs Services) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
		middleware.ActorContext(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, svcs.Pingers))
	})

	if svcs.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(svcs.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats", controllers.DashboardStats(svcs.Stats, logg))
			r.Get("/revenue", controllers.DashboardRevenue(svcs.Stats, logg))
			r.Get("/status-distribution", controllers.DashboardStatusDistribution(svcs.Stats, logg))
		})

		r.Route("/repairs", func(r chi.Router) {
			r.Get("/", controllers.RepairsList(svcs.Repairs, logg))
			r.Post("/", controllers.RepairsCreate(svcs.Repairs, svcs.Recorder, logg))
			r.Get("/{ticketId}", controllers.RepairsGet(svcs.Repairs, logg))
			r.Patch("/{ticketId}", controllers.RepairsUpdate(svcs.Repairs, svcs.Recorder, logg))
			r.Delete("/{ticketId}", controllers.RepairsDelete(svcs.Repairs, svcs.Recorder, logg))
			r.Get("/{ticketId}/templates/{templateId}", controllers.TemplateRender(svcs.Templates, svcs.Repairs, logg))
		})

		r.Get("/templates", controllers.TemplatesList(svcs.Templates, logg))
		r.Get("/activity", controllers.ActivityList(svcs.Activity, logg))
	})

	return r
}
