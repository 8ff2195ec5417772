package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"vighnaharta-backend/internal/storage"
)

// NewRouter wires every HTTP route. Route names select the security level
// applied by AuthMiddleware.
func NewRouter(h *Handlers, images storage.StorageInterface, publicPrefix string) *mux.Router {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware, LoggingMiddleware, AuthMiddleware(h.Auth))

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/participants", h.HandleListParticipants).Methods(http.MethodGet).Name("ListParticipants")
	api.HandleFunc("/participants", h.HandleCreateParticipant).Methods(http.MethodPost).Name("CreateParticipant")
	api.HandleFunc("/save-pass", h.HandleSavePass).Methods(http.MethodPost).Name("SavePass")
	api.HandleFunc("/save-pass", h.HandleUpdatePass).Methods(http.MethodPut).Name("UpdatePass")
	api.HandleFunc("/gallery", h.HandleGallery).Methods(http.MethodGet).Name("Gallery")

	api.HandleFunc("/admin/login", h.HandleAdminLogin).Methods(http.MethodPost).Name("AdminLogin")
	api.HandleFunc("/admin/participants/pending", h.HandleListPending).Methods(http.MethodGet).Name("ListPending")
	api.HandleFunc("/approve-participant/{id}", h.HandleApprove).Methods(http.MethodPut).Name("ApproveParticipant")
	api.HandleFunc("/reject-participant/{id}", h.HandleReject).Methods(http.MethodDelete).Name("RejectParticipant")

	api.HandleFunc("/messages", h.HandleListMessages).Methods(http.MethodGet).Name("ListMessages")
	api.HandleFunc("/messages/grouped", h.HandleGroupedMessages).Methods(http.MethodGet).Name("ListGroupedMessages")
	api.HandleFunc("/messages", h.HandleCreateMessage).Methods(http.MethodPost).Name("CreateMessage")
	api.HandleFunc("/organizers", h.HandleListOrganizers).Methods(http.MethodGet).Name("ListOrganizers")

	if publicPrefix == "" {
		publicPrefix = "/passes"
	}
	passes := NewPassImageHandler(images)
	router.HandleFunc(publicPrefix+"/{file}", passes.HandleDownload).Methods(http.MethodGet).Name("ServePass")
	router.HandleFunc("/healthz", h.HandleHealth).Methods(http.MethodGet).Name("Health")

	return router
}
