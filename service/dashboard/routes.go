package dashboard

import (
	"net/http"

	"github.com/AKyeremeh/Consulta-server/cmd/models"
	"github.com/AKyeremeh/Consulta-server/cmd/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

type DashboardStats struct {
	TotalUsers       int64 `json:"total_users"`
	TotalConsultants int64 `json:"total_consultants"`
	OpenSlots        int64 `json:"open_slots"`
	TotalBookings    int64 `json:"total_bookings"`
}

func (h *DashboardHandler) RegisterRoutes(router *mux.Router) {
	dashboardRouter := router.PathPrefix("/dashboard").Subrouter()
	dashboardRouter.HandleFunc("/stats", h.GetDashboardStats).Methods("GET")
}

func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	var stats DashboardStats

	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.Consultant{}).Count(&stats.TotalConsultants)
	h.db.Model(&models.Availability{}).Where("is_booked = ?", false).Count(&stats.OpenSlots)
	h.db.Model(&models.Booking{}).Count(&stats.TotalBookings)

	utils.WriteJSON(w, http.StatusOK, stats)
}
