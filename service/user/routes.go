package user

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

type Handler struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, validate: validator.New()}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/user/", h.CreateUser).Methods("POST")
	router.HandleFunc("/users/", h.GetUsers).Methods("GET")
	router.HandleFunc("/users/{id}", h.GetUser).Methods("GET")
}

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		utils.WriteError(w, utils.InvalidArgument("first_name and last_name are required and at most 50 characters"))
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if err := h.db.Create(&user).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error creating user"))
		return
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User created successfully",
		"user":    user,
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, utils.InvalidArgument("Invalid user ID"))
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteError(w, utils.NotFound("User not found"))
			return
		}
		utils.WriteError(w, utils.Internal("Error retrieving user"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize := 10

	query := h.db.Model(&models.User{})

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).
		Order("id ASC").Find(&users).Error; err != nil {
		utils.WriteError(w, utils.Internal("Error retrieving users"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users":       users,
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
