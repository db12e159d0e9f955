package booking

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/AKyeremeh/Consulta-server/cmd/models"
	"github.com/AKyeremeh/Consulta-server/cmd/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type BookingHandler struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewBookingHandler(db *gorm.DB) *BookingHandler {
	return &BookingHandler{db: db, validate: validator.New()}
}

func (h *BookingHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/consultant/{consultantId}/reserve/", h.ReserveSlot).Methods("POST")
	router.HandleFunc("/bookings/{id}", h.GetBooking).Methods("GET")
	router.HandleFunc("/bookings/user/{userId}", h.GetUserBookings).Methods("GET")
}

type reserveRequest struct {
	UserID    uint   `json:"user_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ReserveSlot turns an open availability into a booking. The slot is claimed
// with a guarded update (is_booked flips only while still false, affected-row
// count checked) inside one transaction, so out of any number of concurrent
// reservations for the same slot exactly one can win. The unique index on
// bookings.availability_id backstops the same invariant at the schema level.
func (h *BookingHandler) ReserveSlot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	var req reserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Missing required fields. Required: [user_id date start_time end_time]"))
		return
	}

	if _, err := utils.ParseDate(req.Date); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid date format. Use YYYY-MM-DD"))
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

	var consultant models.Consultant
	if err := h.db.First(&consultant, consultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Consultant not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("User not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}

	tx := h.db.Begin()
	if tx.Error != nil {
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}

	var slot models.Availability
	err = tx.Where("consultant_id = ? AND date = ? AND start_time = ? AND end_time = ? AND is_booked = ?",
		consultantID, req.Date, req.StartTime, req.EndTime, false).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Tell "slot was taken" apart from "slot never existed".
			var taken models.Availability
			bookedErr := tx.Where("consultant_id = ? AND date = ? AND start_time = ? AND end_time = ? AND is_booked = ?",
				consultantID, req.Date, req.StartTime, req.EndTime, true).First(&taken).Error
			tx.Rollback()
			if bookedErr == nil {
				utils.WriteError(w, utils.Conflict("This time slot is already booked"))
				return
			}
			utils.WriteError(w, utils.NotFound("No available time slot found"))
			return
		}
		tx.Rollback()
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}

	// Guarded flip: the row lock is taken here and held to commit. A loser
	// re-evaluates the predicate after the winner commits and updates zero
	// rows.
	result := tx.Model(&models.Availability{}).
		Where("id = ? AND is_booked = ?", slot.ID, false).
		Update("is_booked", true)
	if result.Error != nil {
		tx.Rollback()
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.WriteError(w, utils.Conflict("This time slot is already booked"))
		return
	}

	booking := models.Booking{
		AvailabilityID: slot.ID,
		UserID:         req.UserID,
		Reference:      uuid.New().String(),
	}
	if err := tx.Create(&booking).Error; err != nil {
		tx.Rollback()
		// Only a duplicate on the availability_id unique index means a
		// concurrent winner got there first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.WriteError(w, utils.Conflict("This time slot is already booked"))
			return
		}
		utils.WriteError(w, utils.Internal("Booking failed"))
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.WriteError(w, utils.Internal("Error completing booking"))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Booking created successfully",
		"booking_id": booking.ID,
		"reference":  booking.Reference,
		"consultant": fmt.Sprintf("%s %s", consultant.FirstName, consultant.LastName),
		"date":       req.Date,
		"start_time": req.StartTime,
		"end_time":   req.EndTime,
	})
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid booking ID"))
		return
	}

	var booking models.Booking
	if err := h.db.Preload("User").Preload("Availability").First(&booking, bookingID).Error; err != nil {
		utils.WriteError(w, utils.NotFound("Booking not found"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["userId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid user ID"))
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 100

	query := h.db.Model(&models.Booking{}).Where("user_id = ?", userID).
		Preload("Availability")

	var total int64
	query.Count(&total)

	var bookings []models.Booking
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("created_at DESC").Find(&bookings).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving bookings"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"bookings":    bookings,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
