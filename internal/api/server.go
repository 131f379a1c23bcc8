package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/limbo/healthtrack/internal/observability/metrics"
	"github.com/limbo/healthtrack/internal/service"
	"github.com/limbo/healthtrack/pkg/httputil"
)

type Server struct {
	mx                  *chi.Mux
	userService         service.UserServiceI
	appointmentsService service.AppointmentsServiceI
	medicationsService  service.MedicationsServiceI
	profileService      service.ProfileServiceI
	jwtService          JWTServiceI
	limiter             *RateLimiter
	metrics             *metrics.HTTPMetrics
}

type ServicesList struct {
	UserService         service.UserServiceI
	AppointmentsService service.AppointmentsServiceI
	MedicationsService  service.MedicationsServiceI
	ProfileService      service.ProfileServiceI
	JwtService          JWTServiceI
	Metrics             *metrics.HTTPMetrics
}

func New(servicesOptions *ServicesList) *Server {
	return &Server{
		mx:                  chi.NewMux(),
		userService:         servicesOptions.UserService,
		appointmentsService: servicesOptions.AppointmentsService,
		medicationsService:  servicesOptions.MedicationsService,
		profileService:      servicesOptions.ProfileService,
		jwtService:          servicesOptions.JwtService,
		limiter:             NewRateLimiter(20, 40),
		metrics:             servicesOptions.Metrics,
	}
}

func (s *Server) Handler() http.Handler {
	s.mx.Use(s.RequestIDMiddleware, s.SettingUpLoggerMiddleware, s.RateLimitMiddleware, s.MetricsMiddleware)
	s.mx.Get("/health", s.Health)
	s.mx.Handle("/metrics", promhttp.Handler())
	s.mx.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.Register)
		r.Post("/auth/login", s.Login)
		r.Group(func(protected chi.Router) {
			protected.Use(s.AuthMiddleware, s.LoggerExtensionMiddleware)
			protected.Get("/appointments", s.GetAppointments)
			protected.Get("/appointments/partitioned", s.GetAppointmentsPartitioned)
			protected.Post("/appointments", s.CreateAppointment)
			protected.Patch("/appointments/{id}", s.PatchAppointment)
			protected.Delete("/appointments/{id}", s.DeleteAppointment)
			protected.Get("/medications", s.GetMedications)
			protected.Post("/medications", s.CreateMedication)
			protected.Patch("/medications/{id}", s.PatchMedication)
			protected.Delete("/medications/{id}", s.DeleteMedication)
			protected.Get("/medications/logs/today", s.GetTodayMedicationLogs)
			protected.Post("/medications/{id}/logs", s.LogMedicationDose)
			protected.Get("/profile", s.GetProfile)
			protected.Put("/profile", s.SaveProfile)
			protected.Get("/dashboard/summary", s.GetDashboardSummary)
		})
	})
	return s.mx
}

func (s *Server) Run(address string) error {
	return http.ListenAndServe(address, s.Handler())
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"status": "ok"})
}
