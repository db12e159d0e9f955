package consultant

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

type ConsultantHandler struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewConsultantHandler(db *gorm.DB) *ConsultantHandler {
	return &ConsultantHandler{db: db, validate: validator.New()}
}

func (h *ConsultantHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/consultant/", h.CreateConsultant).Methods("POST")
	router.HandleFunc("/consultants/", h.GetConsultants).Methods("GET")
	router.HandleFunc("/consultants/{id}", h.GetConsultant).Methods("GET")
}

type createConsultantRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
}

func (h *ConsultantHandler) CreateConsultant(w http.ResponseWriter, r *http.Request) {
	var req createConsultantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("first_name and last_name are required and at most 50 characters"))
		return
	}

	consultant := models.Consultant{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.db.Create(&consultant).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error creating consultant"))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message":    "Consultant created successfully",
		"consultant": consultant,
	})
}

func (h *ConsultantHandler) GetConsultant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	consultantID, err := strconv.ParseUint(vars["id"], 10, 64)
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
		utils.WriteError(w, utils.Internal("Error retrieving consultant"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, consultant)
}

func (h *ConsultantHandler) GetConsultants(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	query := h.db.Model(&models.Consultant{})

	var total int64
	query.Count(&total)

	var consultants []models.Consultant
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("id ASC").Find(&consultants).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving consultants"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"consultants": consultants,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
