package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/viniciusalmeida93/ant-camp/handlers"
	"github.com/viniciusalmeida93/ant-camp/middleware"
)

// SetupRoutes mounts the full API surface. Read endpoints are public so
// schedule displays work without credentials; every mutation sits behind
// organizer auth.
func SetupRoutes(
	router *chi.Mux,
	jwtSecret string,
	championshipHandler *handlers.ChampionshipHandler,
	heatHandler *handlers.HeatHandler,
	scheduleHandler *handlers.ScheduleHandler,
	assignmentHandler *handlers.AssignmentHandler,
	webSocketHandler *handlers.WebSocketHandler,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/ws/championships/{championshipID}", webSocketHandler.ServeWs)

	router.Route("/championships/{championshipID}", func(r chi.Router) {
		// Public read surface
		r.Get("/", championshipHandler.GetHandler)
		r.Get("/intervals", championshipHandler.GetIntervalsHandler)
		r.Get("/schedule", scheduleHandler.GetScheduleHandler)
		r.Get("/schedule/conflicts", scheduleHandler.ConflictsHandler)
		r.Get("/wods/{wodID}/schedule", scheduleHandler.GetWodScheduleHandler)

		// Organizer-only mutations
		r.Group(func(r chi.Router) {
			r.Use(middleware.Authenticator(jwtSecret))
			r.Use(middleware.RequireRole(middleware.RoleOrganizer))

			r.Put("/intervals", championshipHandler.UpdateIntervalsHandler)
			r.Put("/days/break", championshipHandler.UpdateDayBreakHandler)
			r.Post("/banner", championshipHandler.UploadBannerHandler)

			r.Post("/heats/build", heatHandler.BuildHandler)
			r.Post("/heats", heatHandler.CreateHandler)
			r.Patch("/heats/{heatID}", heatHandler.UpdateHandler)
			r.Delete("/heats/{heatID}", heatHandler.DeleteHandler)

			r.Post("/schedule/recalculate", scheduleHandler.RecalculateHandler)
			r.Put("/heats/{heatID}/time", scheduleHandler.SetTimeHandler)
			r.Post("/heats/{heatID}/move", scheduleHandler.MoveHandler)

			r.Post("/entries/{entryID}/move", assignmentHandler.MoveEntryHandler)
			r.Delete("/entries/{entryID}", assignmentHandler.RemoveEntryHandler)
			r.Post("/wods/{wodID}/reseed", assignmentHandler.ReseedWodHandler)
			r.Post("/wods/{wodID}/categories/{categoryID}/reseed", assignmentHandler.ReseedCategoryHandler)
			r.Post("/wods/{wodID}/intercalate", assignmentHandler.IntercalateHandler)
		})
	})
}
