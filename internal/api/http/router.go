package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"mentormatch-backend/internal/security"
	"mentormatch-backend/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Auth          service.AuthService
	Students      service.StudentService
	Supervisors   service.SupervisorService
	Applications  service.ApplicationService
	Partnerships  service.PartnershipService
	CoSupervision service.SupervisorPartnershipService
	Projects      service.ProjectService
	Notifications service.NotificationService
	Admin         service.AdminService
}

// NewRouter builds the full HTTP handler: public auth routes, authenticated
// API routes, health check, and prometheus metrics, wrapped in CORS and
// request logging.
func NewRouter(svcs Services, tokens security.TokenManager, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public auth routes.
	authHandler := NewAuthHandler(svcs.Auth)
	api.HandleFunc("/auth/students/signup", authHandler.SignupStudent).Methods(http.MethodPost)
	api.HandleFunc("/auth/supervisors/signup", authHandler.SignupSupervisor).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", authHandler.Refresh).Methods(http.MethodPost)

	// Everything else requires a valid access token.
	authed := api.NewRoute().Subrouter()
	authed.Use(NewAuthMiddleware(tokens).Handler)

	studentHandler := NewStudentHandler(svcs.Students)
	authed.HandleFunc("/students", studentHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/students/available-partners", studentHandler.ListAvailablePartners).Methods(http.MethodGet)
	authed.HandleFunc("/students/me", studentHandler.UpdateMe).Methods(http.MethodPut)
	authed.HandleFunc("/students/{id}", studentHandler.Get).Methods(http.MethodGet)

	supervisorHandler := NewSupervisorHandler(svcs.Supervisors)
	authed.HandleFunc("/supervisors", supervisorHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/supervisors/me", supervisorHandler.UpdateMe).Methods(http.MethodPut)
	authed.HandleFunc("/supervisors/{id}", supervisorHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/supervisors/{id}/capacity", supervisorHandler.SetCapacity).Methods(http.MethodPut)

	applicationHandler := NewApplicationHandler(svcs.Applications)
	authed.HandleFunc("/applications", applicationHandler.Create).Methods(http.MethodPost)
	authed.HandleFunc("/applications", applicationHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/applications/{id}", applicationHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/applications/{id}", applicationHandler.Edit).Methods(http.MethodPut)
	authed.HandleFunc("/applications/{id}", applicationHandler.Delete).Methods(http.MethodDelete)
	authed.HandleFunc("/applications/{id}/resubmit", applicationHandler.Resubmit).Methods(http.MethodPost)
	authed.HandleFunc("/applications/{id}/status", applicationHandler.SetStatus).Methods(http.MethodPut)

	partnershipHandler := NewPartnershipHandler(svcs.Partnerships)
	authed.HandleFunc("/partnerships/requests", partnershipHandler.Request).Methods(http.MethodPost)
	authed.HandleFunc("/partnerships/requests", partnershipHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/partnerships/requests/{id}/respond", partnershipHandler.Respond).Methods(http.MethodPost)
	authed.HandleFunc("/partnerships/requests/{id}", partnershipHandler.Cancel).Methods(http.MethodDelete)
	authed.HandleFunc("/partnerships/unpair", partnershipHandler.Unpair).Methods(http.MethodPost)

	coSupervisionHandler := NewCoSupervisionHandler(svcs.CoSupervision)
	authed.HandleFunc("/cosupervision/requests", coSupervisionHandler.Request).Methods(http.MethodPost)
	authed.HandleFunc("/cosupervision/requests", coSupervisionHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/cosupervision/requests/{id}/respond", coSupervisionHandler.Respond).Methods(http.MethodPost)
	authed.HandleFunc("/cosupervision/requests/{id}", coSupervisionHandler.Cancel).Methods(http.MethodDelete)

	projectHandler := NewProjectHandler(svcs.Projects)
	authed.HandleFunc("/projects", projectHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{id}", projectHandler.Get).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{id}/cosupervisor", coSupervisionHandler.RemoveCoSupervisor).Methods(http.MethodDelete)

	notificationHandler := NewNotificationHandler(svcs.Notifications)
	authed.HandleFunc("/notifications", notificationHandler.List).Methods(http.MethodGet)
	authed.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods(http.MethodPost)

	adminHandler := NewAdminHandler(svcs.Admin)
	authed.HandleFunc("/admin/stats", adminHandler.Stats).Methods(http.MethodGet)
	authed.HandleFunc("/admin/applications", adminHandler.ListApplications).Methods(http.MethodGet)
	authed.HandleFunc("/admin/audit", adminHandler.AuditTrail).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	return RequestLogger(c.Handler(r))
}
