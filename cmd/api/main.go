// @title Health-tracker API
// @description API for personal health-tracking app "HealthTrack"
// @BasePath /api/v1
// @schemes http
package main

import (
	"log"

	"github.com/limbo/healthtrack/internal/api"
	"github.com/limbo/healthtrack/internal/cache"
	"github.com/limbo/healthtrack/internal/observability/metrics"
	"github.com/limbo/healthtrack/internal/repository"
	"github.com/limbo/healthtrack/internal/service"
	"github.com/limbo/healthtrack/pkg/cleanup"
	"github.com/limbo/healthtrack/pkg/config"
	jwtservice "github.com/limbo/healthtrack/pkg/jwt_service"
)

func init() {
	service.InitValidator()
}

func main() {
	cfg := config.New()
	dbCfg := repository.PGCfg{
		Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
		Username: cfg.GetString("POSTGRES_USER"),
		Password: cfg.GetString("POSTGRES_PASSWORD"),
		DB:       cfg.GetString("POSTGRES_DB"),
	}
	listCache := cache.New(cfg.GetString("REDIS_ADDRESS"))
	userService := service.NewUserService(repository.NewUsersRepo(&dbCfg))
	appointmentsService := service.NewAppointmentsService(repository.NewAppointmentsRepo(&dbCfg), listCache)
	medicationsService := service.NewMedicationsService(
		repository.NewMedicationsRepo(&dbCfg),
		repository.NewMedicationLogsRepo(&dbCfg),
		listCache,
	)
	profileService := service.NewProfileService(repository.NewProfilesRepo(&dbCfg))
	serv := api.New(&api.ServicesList{
		UserService:         userService,
		AppointmentsService: appointmentsService,
		MedicationsService:  medicationsService,
		ProfileService:      profileService,
		JwtService:          jwtservice.New(cfg.GetString("JWT_SECRET")),
		Metrics:             metrics.NewHTTPMetrics(nil),
	})
	defer cleanup.CleanUp()
	err := serv.Run(cfg.GetString("API_ADDRESS"))
	if err != nil {
		log.Println("Server error: " + err.Error())
	}
}
