package recurring

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AKyeremeh/Consulta-server/cmd/models"
	"github.com/AKyeremeh/Consulta-server/cmd/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type RecurringHandler struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewRecurringHandler(db *gorm.DB) *RecurringHandler {
	return &RecurringHandler{db: db, validate: validator.New()}
}

func (h *RecurringHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/consultant/{consultantId}/recurring/", h.CreateRecurring).Methods("POST")
	router.HandleFunc("/consultant/{consultantId}/recurring/", h.GetRecurring).Methods("GET")
	router.HandleFunc("/consultant/{consultantId}/recurring/{recurringId}", h.UpdateRecurring).Methods("PUT")
	router.HandleFunc("/consultant/{consultantId}/recurring/{recurringId}", h.DeactivateRecurring).Methods("DELETE")
}

// DayOfWeek is a pointer so that Monday (0) survives the required check.
type recurringRequest struct {
	DayOfWeek *int   `json:"day_of_week" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

func (h *RecurringHandler) validateRequest(req *recurringRequest) *utils.APIError {
	if err := h.validate.Struct(req); err != nil {
		return utils.InvalidArgument("Missing required fields. Required: [day_of_week start_time end_time]")
	}
	if *req.DayOfWeek < 0 || *req.DayOfWeek > 6 {
		return utils.InvalidArgument("day_of_week must be between 0 and 6")
	}
	if _, err := utils.ParseTime(req.StartTime); err != nil {
		return utils.InvalidArgument("Invalid time format. Use HH:MM:SS")
	}
	if _, err := utils.ParseTime(req.EndTime); err != nil {
		return utils.InvalidArgument("Invalid time format. Use HH:MM:SS")
	}
	if req.StartTime >= req.EndTime {
		return utils.InvalidArgument("End time must be after start time")
	}
	return nil
}

func (h *RecurringHandler) CreateRecurring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if apiErr := h.validateRequest(&req); apiErr != nil {
		utils.WriteError(w, apiErr)
		return
	}

	var consultant models.Consultant
	if err := h.db.First(&consultant, consultantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Consultant not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Failed to create recurring availability"))
		return
	}

	recurring := models.RecurringAvailability{
		ConsultantID: uint(consultantID),
		DayOfWeek:    *req.DayOfWeek,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		IsActive:     true,
	}
	if err := h.db.Create(&recurring).Error; err != nil {
		utils.WriteError(w, utils.Internal("Failed to create recurring availability"))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Recurring availability created successfully",
		"recurring": recurring,
	})
}

func (h *RecurringHandler) GetRecurring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}

	recurring := []models.RecurringAvailability{}
	if err := h.db.Where("consultant_id = ? AND is_active = ?", consultantID, true).
		Order("day_of_week ASC, start_time ASC").Find(&recurring).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving recurring availabilities"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, recurring)
}

func (h *RecurringHandler) UpdateRecurring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}
	recurringID, err := strconv.ParseUint(vars["recurringId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid recurring availability ID"))
		return
	}

	var req recurringRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if apiErr := h.validateRequest(&req); apiErr != nil {
		utils.WriteError(w, apiErr)
		return
	}

	var recurring models.RecurringAvailability
	if err := h.db.Where("id = ? AND consultant_id = ?", recurringID, consultantID).
		First(&recurring).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("Recurring availability not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Error updating recurring availability"))
		return
	}

	recurring.DayOfWeek = *req.DayOfWeek
	recurring.StartTime = req.StartTime
	recurring.EndTime = req.EndTime
	if err := h.db.Save(&recurring).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error updating recurring availability"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, recurring)
}

// DeactivateRecurring flips is_active off instead of deleting, so the
// template stays around for audit and possible reactivation.
func (h *RecurringHandler) DeactivateRecurring(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["consultantId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid consultant ID"))
		return
	}
	recurringID, err := strconv.ParseUint(vars["recurringId"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid recurring availability ID"))
		return
	}

	result := h.db.Model(&models.RecurringAvailability{}).
		Where("id = ? AND consultant_id = ?", recurringID, consultantID).
		Update("is_active", false)
	if result.Error != nil {
		utils.WriteError(w, utils.Internal("Error deactivating recurring availability"))
		return
	}
	if result.RowsAffected == 0 {
		utils.WriteError(w, utils.NotFound("Recurring availability not found"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Recurring availability deactivated successfully",
	})
}
