package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AKyeremeh/Consulta-server/cmd/models"
	"github.com/AKyeremeh/Consulta-server/cmd/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type AvailabilityHandler struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{db: db, validate: validator.New()}
}

func (h *AvailabilityHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/consultants/{consultantId}/availabilities/", h.CreateAvailability).Methods("POST")
	router.HandleFunc("/consultant/{consultantId}/availability/", h.GetConsultantAvailability).Methods("GET")
	router.HandleFunc("/consultant/{consultantId}/availability/delete", h.DeleteAvailability).Methods("DELETE")
	router.HandleFunc("/consultants/availabilities/{date}/", h.GetDailyAvailability).Methods("GET")
	router.HandleFunc("/availabilities/monthly/", h.GetMonthlyAvailability).Methods("GET")
	router.HandleFunc("/availabilities/timerange/", h.GetTimeRangeAvailability).Methods("GET")
}

type availabilitySlotRequest struct {
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

func (h *AvailabilityHandler) CreateAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	var req availabilitySlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Missing required fields. Required: [date start_time end_time]"))
		return
	}

	var consultant models.Consultant
	if err := h.db.First(&consultant, consultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Consultant not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Failed to create availability slot"))
		return
	}

	if _, err := utils.ParseDate(req.Date); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid date format. Use YYYY-MM-DD"))
		return
	}
	// "Today" is exclusive: slots can only be published for later dates.
	if req.Date <= utils.Today() {
		utils.WriteError(w, utils.InvalidArgument("Only future dates are allowed"))
		return
	}

	if _, err := utils.ParseTime(req.StartTime); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid time format. Use HH:MM:SS"))
		return
	}
	if _, err := utils.ParseTime(req.EndTime); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid time format. Use HH:MM:SS"))
		return
	}
	if req.StartTime >= req.EndTime {
		utils.WriteError(w, utils.InvalidArgument("End time must be after start time"))
		return
	}

	availability := models.Availability{
		ConsultantID: uint(consultantID),
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsBooked:     false,
	}

	if err := h.db.Create(&availability).Error; err != nil {
		utils.WriteError(w, utils.Internal("Failed to create availability slot"))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":      "availability slot created successfully",
		"availability": availability,
	})
}

func (h *AvailabilityHandler) GetConsultantAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	var consultant models.Consultant
	if err := h.db.First(&consultant, consultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Consultant not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Error retrieving availabilities"))
		return
	}

	availabilities := []models.Availability{}
	if err := h.db.Where("consultant_id = ? AND is_booked = ?", consultantID, false).
		Order("date ASC, start_time ASC").Find(&availabilities).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving availabilities"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, availabilities)
}

func (h *AvailabilityHandler) GetDailyAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	dateStr := vars["date"]

	if _, err := utils.ParseDate(dateStr); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid date format. Use YYYY-MM-DD"))
		return
	}
	if dateStr < utils.Today() {
		utils.WriteError(w, utils.InvalidArgument("Cannot query availability for past dates"))
		return
	}

	availabilities := []models.Availability{}
	if err := h.db.Where("date = ? AND is_booked = ?", dateStr, false).
		Order("start_time ASC").Find(&availabilities).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving availabilities"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"date":           dateStr,
		"total_slots":    len(availabilities),
		"availabilities": availabilities,
	})
}

func (h *AvailabilityHandler) DeleteAvailability(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	var req availabilitySlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Missing required fields. Required: [date start_time end_time]"))
		return
	}

	var availability models.Availability
	if err := h.db.Where("consultant_id = ? AND date = ? AND start_time = ? AND end_time = ?",
		consultantID, req.Date, req.StartTime, req.EndTime).First(&availability).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Time slot not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Deletion failed"))
		return
	}

	// Deletion is unconditional: a booked slot goes too, taking its booking
	// with it.
	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("availability_id = ?", availability.ID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&availability).Error
	})
	if err != nil {
		utils.WriteError(w, utils.Internal("Deletion failed"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AvailabilityHandler) GetMonthlyAvailability(w http.ResponseWriter, r *http.Request) {
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid month or year format"))
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid month or year format"))
		return
	}
	if month < 1 || month > 12 {
		utils.WriteError(w, utils.InvalidArgument("Invalid month or year format"))
		return
	}

	// AddDate normalizes across month lengths and leap years.
	firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstDay.AddDate(0, 1, -1)

	availabilities := []models.Availability{}
	if err := h.db.Where("date >= ? AND date <= ? AND is_booked = ?",
		firstDay.Format(utils.DateLayout), lastDay.Format(utils.DateLayout), false).
		Order("date ASC, start_time ASC").Find(&availabilities).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving availabilities"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, availabilities)
}

func (h *AvailabilityHandler) GetTimeRangeAvailability(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")
	startTime := r.URL.Query().Get("start_time")
	endTime := r.URL.Query().Get("end_time")

	if startDate == "" || endDate == "" || startTime == "" || endTime == "" {
		utils.WriteError(w, utils.InvalidArgument("All parameters are required"))
		return
	}

	if _, err := utils.ParseDate(startDate); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid format. Use YYYY-MM-DD for dates and HH:MM:SS for times"))
		return
	}
	if _, err := utils.ParseDate(endDate); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid format. Use YYYY-MM-DD for dates and HH:MM:SS for times"))
		return
	}
	if _, err := utils.ParseTime(startTime); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid format. Use YYYY-MM-DD for dates and HH:MM:SS for times"))
		return
	}
	if _, err := utils.ParseTime(endTime); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid format. Use YYYY-MM-DD for dates and HH:MM:SS for times"))
		return
	}

	// Containment filter: the slot must sit entirely inside the requested
	// time window, overlap is not enough.
	availabilities := []models.Availability{}
	if err := h.db.Where("date >= ? AND date <= ? AND start_time >= ? AND end_time <= ? AND is_booked = ?",
		startDate, endDate, startTime, endTime, false).
		Order("date ASC, start_time ASC").Find(&availabilities).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving availabilities"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, availabilities)
}
