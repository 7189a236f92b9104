package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/citadelschools/school-portal/docs" // Import generated docs
	appMiddleware "github.com/citadelschools/school-portal/internal/middleware"
	"github.com/citadelschools/school-portal/internal/model"
	"github.com/citadelschools/school-portal/internal/response"
)

type Router struct {
	authHandler      *AuthHandler
	studentHandler   *StudentHandler
	staffHandler     *StaffHandler
	resultHandler    *ResultHandler
	paymentHandler   *PaymentHandler
	reportHandler    *ReportHandler
	schoolHandler    *SchoolHandler
	dashboardHandler *DashboardHandler
	jwtSecret        string
}

func NewRouter(
	authHandler *AuthHandler,
	studentHandler *StudentHandler,
	staffHandler *StaffHandler,
	resultHandler *ResultHandler,
	paymentHandler *PaymentHandler,
	reportHandler *ReportHandler,
	schoolHandler *SchoolHandler,
	dashboardHandler *DashboardHandler,
	jwtSecret string,
) *Router {
	return &Router{
		authHandler:      authHandler,
		studentHandler:   studentHandler,
		staffHandler:     staffHandler,
		resultHandler:    resultHandler,
		paymentHandler:   paymentHandler,
		reportHandler:    reportHandler,
		schoolHandler:    schoolHandler,
		dashboardHandler: dashboardHandler,
		jwtSecret:        jwtSecret,
	}
}

func (ro *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "https://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server is running", map[string]string{"status": "ok"})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {

		// ── Auth ─────────────────────────────────────────
		r.Route("/auth", func(r chi.Router) {
			r.Post("/staff/login", ro.authHandler.StaffLogin)
			r.Post("/student/login", ro.authHandler.StudentLogin)
			r.Post("/refresh", ro.authHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.Authenticate(ro.jwtSecret))
				r.Get("/me", ro.authHandler.Me)
			})
		})

		// ── Public: result sheet QR verification ─────────
		r.Get("/verify/{admissionNumber}", ro.reportHandler.Verify)

		// ── Protected routes ─────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appMiddleware.Authenticate(ro.jwtSecret))

			// Dashboard counters (staff only)
			r.Group(func(r chi.Router) {
				r.Use(appMiddleware.RequireRole(
					model.RoleProprietor, model.RolePrincipal,
					model.RoleHeadTeacher, model.RoleBursar, model.RoleTeacher,
				))
				r.Get("/dashboard", ro.dashboardHandler.Stats)
			})

			// Staff accounts (Proprietor only)
			r.Route("/staff", func(r chi.Router) {
				r.Use(appMiddleware.RequireRole(model.RoleProprietor))
				r.Get("/", ro.staffHandler.GetAll)
				r.Post("/", ro.staffHandler.Create)
				r.Get("/{id}", ro.staffHandler.GetByID)
				r.Put("/{id}", ro.staffHandler.Update)
				r.Delete("/{id}", ro.staffHandler.Delete)
				r.Post("/{id}/reset-pin", ro.staffHandler.ResetPin)
				r.Post("/{id}/photo", ro.staffHandler.UploadPhoto)
			})

			// Students
			r.Route("/students", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(
						model.RoleProprietor, model.RolePrincipal,
						model.RoleHeadTeacher, model.RoleBursar, model.RoleTeacher,
					))
					r.Get("/", ro.studentHandler.GetAll)
					r.Get("/{id}", ro.studentHandler.GetByID)
					r.Get("/class/{class}", ro.studentHandler.GetByClass)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleProprietor))
					r.Post("/", ro.studentHandler.Create)
					r.Put("/{id}", ro.studentHandler.Update)
					r.Delete("/{id}", ro.studentHandler.Delete)
					r.Post("/{id}/reset-pin", ro.studentHandler.ResetPin)
					r.Post("/{id}/photo", ro.studentHandler.UploadPhoto)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleProprietor, model.RoleBursar))
					r.Patch("/{id}/access", ro.studentHandler.SetAccess)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(
						model.RoleProprietor, model.RolePrincipal, model.RoleHeadTeacher,
					))
					r.Post("/promote", ro.studentHandler.Promote)
				})
			})

			// Results
			r.Route("/results", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleTeacher, model.RoleHeadTeacher, model.RolePrincipal))
					r.Post("/", ro.resultHandler.Submit)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleHeadTeacher, model.RolePrincipal))
					r.Get("/pending", ro.resultHandler.Pending)
					r.Post("/decide", ro.resultHandler.Decide)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(
						model.RoleProprietor, model.RolePrincipal, model.RoleHeadTeacher, model.RoleTeacher,
					))
					r.Get("/broadsheet", ro.resultHandler.Broadsheet)
				})

				// students reach this too; the handler scopes them to their own rows
				r.Get("/student/{id}", ro.resultHandler.GetStudentResults)
			})

			// Payments (Bursar and Proprietor)
			r.Route("/payments", func(r chi.Router) {
				r.Use(appMiddleware.RequireRole(model.RoleBursar, model.RoleProprietor))
				r.Get("/", ro.paymentHandler.Recent)
				r.Post("/", ro.paymentHandler.Record)
				r.Post("/pin", ro.paymentHandler.SellPin)
				r.Get("/stats", ro.paymentHandler.Stats)
				r.Get("/student/{id}", ro.paymentHandler.StudentHistory)
				r.Get("/student/{id}/pdf", ro.paymentHandler.HistoryPDF)
				r.Get("/student/{id}/pin-status", ro.paymentHandler.PinStatus)
			})

			// Reports (staff and the student's own)
			r.Route("/reports", func(r chi.Router) {
				r.Get("/{id}", ro.reportHandler.Get)
				r.Get("/{id}/pdf", ro.reportHandler.PDF)
			})

			// Term reports (homeroom teachers)
			r.Route("/term-reports", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleTeacher, model.RoleHeadTeacher, model.RolePrincipal))
					r.Put("/", ro.schoolHandler.UpsertTermReport)
				})
				r.Get("/{id}", ro.schoolHandler.GetTermReport)
			})

			// School settings, config, announcements, subjects
			r.Route("/school", func(r chi.Router) {
				r.Get("/settings", ro.schoolHandler.GetSettings)
				r.Get("/config/{section}", ro.schoolHandler.GetConfig)
				r.Get("/updates", ro.schoolHandler.ListUpdates)
				r.Get("/subjects", ro.schoolHandler.ListSubjects)

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(model.RoleProprietor))
					r.Put("/settings", ro.schoolHandler.UpdateSettings)
					r.Post("/updates", ro.schoolHandler.CreateUpdate)
					r.Delete("/updates/{id}", ro.schoolHandler.DeleteUpdate)
					r.Post("/subjects", ro.schoolHandler.CreateSubject)
					r.Delete("/subjects/{id}", ro.schoolHandler.DeleteSubject)
				})

				r.Group(func(r chi.Router) {
					r.Use(appMiddleware.RequireRole(
						model.RoleProprietor, model.RolePrincipal, model.RoleHeadTeacher,
					))
					r.Put("/config/{section}", ro.schoolHandler.SetConfig)
				})
			})
		})
	})

	return r
}
