package api

import (
	"log"
	"net/http"
	"os"

	"github.com/AKyeremeh/Consulta-server/service/availability"
	"github.com/AKyeremeh/Consulta-server/service/booking"
	"github.com/AKyeremeh/Consulta-server/service/consultant"
	"github.com/AKyeremeh/Consulta-server/service/dashboard"
	"github.com/AKyeremeh/Consulta-server/service/recurring"
	"github.com/AKyeremeh/Consulta-server/service/user"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(router)

	consultantHandler := consultant.NewConsultantHandler(s.db)
	consultantHandler.RegisterRoutes(router)

	availabilityHandler := availability.NewAvailabilityHandler(s.db)
	availabilityHandler.RegisterRoutes(router)

	bookingHandler := booking.NewBookingHandler(s.db)
	bookingHandler.RegisterRoutes(router)

	recurringHandler := recurring.NewRecurringHandler(s.db)
	recurringHandler.RegisterRoutes(router)

	dashboardHandler := dashboard.NewDashboardHandler(s.db)
	dashboardHandler.RegisterRoutes(router)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	chain := handlers.RecoveryHandler()(cors(handlers.CombinedLoggingHandler(os.Stdout, router)))

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, chain)
}
