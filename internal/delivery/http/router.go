package http

import (
	"net/http"

	"bloodconnect/internal/delivery/http/handler"
	"bloodconnect/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	donorHandler    *handler.DonorHandler
	hospitalHandler *handler.HospitalHandler
	bankHandler     *handler.BloodBankHandler
	requestHandler  *handler.BloodRequestHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	donorHandler *handler.DonorHandler,
	hospitalHandler *handler.HospitalHandler,
	bankHandler *handler.BloodBankHandler,
	requestHandler *handler.BloodRequestHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		donorHandler:    donorHandler,
		hospitalHandler: hospitalHandler,
		bankHandler:     bankHandler,
		requestHandler:  requestHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register/donor", r.authHandler.RegisterDonor).Methods(http.MethodPost)
	auth.HandleFunc("/register/hospital", r.authHandler.RegisterHospital).Methods(http.MethodPost)
	auth.HandleFunc("/register/blood-bank", r.authHandler.RegisterBloodBank).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Anonymous emergency channel: no auth, urgency forced to critical
	api.HandleFunc("/emergency/requests", r.requestHandler.CreateEmergencyRequest).Methods(http.MethodPost)

	// Public read-only directory
	api.HandleFunc("/hospitals", r.hospitalHandler.GetAllHospitals).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id:[0-9]+}", r.hospitalHandler.GetHospital).Methods(http.MethodGet)
	api.HandleFunc("/blood-banks", r.bankHandler.GetAllBloodBanks).Methods(http.MethodGet)
	api.HandleFunc("/blood-banks/{id:[0-9]+}", r.bankHandler.GetBloodBank).Methods(http.MethodGet)
	api.HandleFunc("/blood-banks/type/{bloodType}", r.bankHandler.FindByBloodType).Methods(http.MethodGet)
	api.HandleFunc("/inventory/total", r.bankHandler.GetTotalInventory).Methods(http.MethodGet)

	// Protected routes
	protected := api.NewRoute().Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	// Donors
	protected.HandleFunc("/donors", r.donorHandler.GetAllDonors).Methods(http.MethodGet)
	protected.HandleFunc("/donors", r.donorHandler.CreateDonor).Methods(http.MethodPost)
	protected.HandleFunc("/donors/me", r.donorHandler.GetMyProfile).Methods(http.MethodGet)
	protected.HandleFunc("/donors/stats", r.donorHandler.GetDonorStats).Methods(http.MethodGet)
	protected.HandleFunc("/donors/type/{bloodType}", r.donorHandler.GetDonorsByBloodType).Methods(http.MethodGet)
	protected.HandleFunc("/donors/{id:[0-9]+}", r.donorHandler.GetDonor).Methods(http.MethodGet)
	protected.HandleFunc("/donors/{id:[0-9]+}", r.donorHandler.UpdateDonor).Methods(http.MethodPut)
	protected.HandleFunc("/donors/{id:[0-9]+}", r.donorHandler.DeleteDonor).Methods(http.MethodDelete)
	protected.HandleFunc("/donors/{id:[0-9]+}/history", r.donorHandler.GetDonorHistory).Methods(http.MethodGet)

	// Blood requests
	protected.HandleFunc("/requests", r.requestHandler.GetAllRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests", r.requestHandler.CreateRequest).Methods(http.MethodPost)
	protected.HandleFunc("/requests/my-history", r.donorHandler.GetMyHistory).Methods(http.MethodGet)
	protected.HandleFunc("/requests/pending", r.requestHandler.GetPendingRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests/critical", r.requestHandler.GetCriticalRequests).Methods(http.MethodGet)
	protected.HandleFunc("/requests/stats", r.requestHandler.GetRequestStats).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{id:[0-9]+}", r.requestHandler.GetRequest).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{id:[0-9]+}", r.requestHandler.UpdateRequest).Methods(http.MethodPut)
	protected.HandleFunc("/requests/{id:[0-9]+}/matches", r.requestHandler.GetMatches).Methods(http.MethodGet)
	protected.HandleFunc("/requests/{id:[0-9]+}/fulfill", r.requestHandler.FulfillRequest).Methods(http.MethodPost)
	protected.HandleFunc("/requests/{id:[0-9]+}/cancel", r.requestHandler.CancelRequest).Methods(http.MethodPost)

	// Hospitals (write operations)
	hospitals := api.NewRoute().Subrouter()
	hospitals.Use(r.authMiddleware.Authenticate)
	hospitals.Use(middleware.RequireAdminOrHospital)
	hospitals.HandleFunc("/hospitals", r.hospitalHandler.CreateHospital).Methods(http.MethodPost)
	hospitals.HandleFunc("/hospitals/{id:[0-9]+}", r.hospitalHandler.UpdateHospital).Methods(http.MethodPut)
	hospitals.HandleFunc("/hospitals/stats", r.hospitalHandler.GetHospitalStats).Methods(http.MethodGet)

	// Blood banks (write operations)
	banks := api.NewRoute().Subrouter()
	banks.Use(r.authMiddleware.Authenticate)
	banks.Use(middleware.RequireAdminOrBloodBank)
	banks.HandleFunc("/blood-banks", r.bankHandler.CreateBloodBank).Methods(http.MethodPost)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}", r.bankHandler.UpdateBloodBank).Methods(http.MethodPut)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/batches", r.bankHandler.GetBatches).Methods(http.MethodGet)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/batches", r.bankHandler.AddBatch).Methods(http.MethodPost)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/batches/{batchId:[0-9]+}", r.bankHandler.UpdateBatch).Methods(http.MethodPut)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/batches/{batchId:[0-9]+}", r.bankHandler.DeleteBatch).Methods(http.MethodDelete)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/inventory", r.bankHandler.GetInventory).Methods(http.MethodGet)
	banks.HandleFunc("/blood-banks/{id:[0-9]+}/inventory", r.bankHandler.OverrideInventory).Methods(http.MethodPut)

	// Admin routes
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)
	admin.HandleFunc("/hospitals/{id:[0-9]+}", r.hospitalHandler.DeleteHospital).Methods(http.MethodDelete)
	admin.HandleFunc("/blood-banks/{id:[0-9]+}", r.bankHandler.DeleteBloodBank).Methods(http.MethodDelete)
	admin.HandleFunc("/requests/{id:[0-9]+}", r.requestHandler.DeleteRequest).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetRecentAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/user/{userId}", r.auditLogHandler.GetAuditLogsByUser).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
