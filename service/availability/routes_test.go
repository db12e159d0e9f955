package availability

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AKyeremeh/Consulta-server/cmd/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Consultant{},
		&models.Availability{},
		&models.RecurringAvailability{},
		&models.Booking{},
	))
	return db
}

func setupRouter(db *gorm.DB) *mux.Router {
	router := mux.NewRouter()
	NewAvailabilityHandler(db).RegisterRoutes(router)
	return router
}

func createConsultant(t *testing.T, db *gorm.DB) models.Consultant {
	t.Helper()
	consultant := models.Consultant{FirstName: "Esi", LastName: "Amoah"}
	require.NoError(t, db.Create(&consultant).Error)
	return consultant
}

func dateOffset(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func postAvailability(router *mux.Router, consultantID uint, body map[string]interface{}) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", fmt.Sprintf("/consultants/%d/availabilities/", consultantID), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func get(router *mux.Router, url string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAvailability_Success(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	rec := postAvailability(router, consultant.ID, map[string]interface{}{
		"date":       dateOffset(1),
		"start_time": "09:00:00",
		"end_time":   "10:00:00",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "availability slot created successfully")

	var slot models.Availability
	require.NoError(t, db.Where("consultant_id = ?", consultant.ID).First(&slot).Error)
	assert.False(t, slot.IsBooked)
	assert.Equal(t, "09:00:00", slot.StartTime)
}

func TestCreateAvailability_RejectsPastAndToday(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	for _, date := range []string{dateOffset(-1), dateOffset(0)} {
		rec := postAvailability(router, consultant.ID, map[string]interface{}{
			"date":       date,
			"start_time": "09:00:00",
			"end_time":   "10:00:00",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code, "date %s must be rejected", date)
		assert.Contains(t, rec.Body.String(), "Only future dates are allowed")
	}

	var count int64
	db.Model(&models.Availability{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestCreateAvailability_InvalidInput(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	cases := []struct {
		name string
		body map[string]interface{}
		want string
	}{
		{"start after end", map[string]interface{}{"date": dateOffset(1), "start_time": "10:00:00", "end_time": "09:00:00"}, "End time must be after start time"},
		{"start equals end", map[string]interface{}{"date": dateOffset(1), "start_time": "09:00:00", "end_time": "09:00:00"}, "End time must be after start time"},
		{"bad date", map[string]interface{}{"date": "25-12-2030", "start_time": "09:00:00", "end_time": "10:00:00"}, "Invalid date format"},
		{"bad time", map[string]interface{}{"date": dateOffset(1), "start_time": "9am", "end_time": "10:00:00"}, "Invalid time format"},
		{"missing fields", map[string]interface{}{"date": dateOffset(1)}, "Missing required fields"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postAvailability(router, consultant.ID, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.want)
		})
	}
}

func TestCreateAvailability_ConsultantNotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	rec := postAvailability(router, 404, map[string]interface{}{
		"date":       dateOffset(1),
		"start_time": "09:00:00",
		"end_time":   "10:00:00",
	})

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Consultant not found")
}

func TestGetConsultantAvailability_OrderingAndFiltering(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	// Inserted out of order on purpose; one row already booked.
	slots := []models.Availability{
		{ConsultantID: consultant.ID, Date: dateOffset(3), StartTime: "09:00:00", EndTime: "10:00:00"},
		{ConsultantID: consultant.ID, Date: dateOffset(1), StartTime: "14:00:00", EndTime: "15:00:00"},
		{ConsultantID: consultant.ID, Date: dateOffset(1), StartTime: "08:00:00", EndTime: "09:00:00"},
		{ConsultantID: consultant.ID, Date: dateOffset(2), StartTime: "11:00:00", EndTime: "12:00:00", IsBooked: true},
	}
	for i := range slots {
		require.NoError(t, db.Create(&slots[i]).Error)
	}

	rec := get(router, fmt.Sprintf("/consultant/%d/availability/", consultant.ID))
	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 3, "booked slots must be excluded")

	assert.Equal(t, dateOffset(1), results[0].Date)
	assert.Equal(t, "08:00:00", results[0].StartTime)
	assert.Equal(t, dateOffset(1), results[1].Date)
	assert.Equal(t, "14:00:00", results[1].StartTime)
	assert.Equal(t, dateOffset(3), results[2].Date)
}

func TestGetConsultantAvailability_NotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	rec := get(router, "/consultant/77/availability/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Consultant not found")
}

func TestGetDailyAvailability(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	first := createConsultant(t, db)
	second := models.Consultant{FirstName: "Yaw", LastName: "Darko"}
	require.NoError(t, db.Create(&second).Error)

	day := dateOffset(1)
	slots := []models.Availability{
		{ConsultantID: second.ID, Date: day, StartTime: "13:00:00", EndTime: "14:00:00"},
		{ConsultantID: first.ID, Date: day, StartTime: "09:00:00", EndTime: "10:00:00"},
		{ConsultantID: first.ID, Date: dateOffset(2), StartTime: "09:00:00", EndTime: "10:00:00"},
	}
	for i := range slots {
		require.NoError(t, db.Create(&slots[i]).Error)
	}

	rec := get(router, fmt.Sprintf("/consultants/availabilities/%s/", day))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Date           string                `json:"date"`
		TotalSlots     int                   `json:"total_slots"`
		Availabilities []models.Availability `json:"availabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, day, resp.Date)
	assert.Equal(t, 2, resp.TotalSlots)
	require.Len(t, resp.Availabilities, 2)
	// Daily results are ordered by start time only.
	assert.Equal(t, "09:00:00", resp.Availabilities[0].StartTime)
	assert.Equal(t, "13:00:00", resp.Availabilities[1].StartTime)
}

func TestGetDailyAvailability_RejectsPastDate(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	rec := get(router, fmt.Sprintf("/consultants/availabilities/%s/", dateOffset(-1)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cannot query availability for past dates")
}

func TestGetDailyAvailability_BadDate(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	rec := get(router, "/consultants/availabilities/not-a-date/")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid date format")
}

func TestMonthlyAvailability_LeapYearBoundary(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	slots := []models.Availability{
		{ConsultantID: consultant.ID, Date: "2024-02-29", StartTime: "09:00:00", EndTime: "10:00:00"},
		{ConsultantID: consultant.ID, Date: "2024-02-01", StartTime: "09:00:00", EndTime: "10:00:00"},
		{ConsultantID: consultant.ID, Date: "2024-03-01", StartTime: "09:00:00", EndTime: "10:00:00"},
		{ConsultantID: consultant.ID, Date: "2024-01-31", StartTime: "09:00:00", EndTime: "10:00:00"},
	}
	for i := range slots {
		require.NoError(t, db.Create(&slots[i]).Error)
	}

	rec := get(router, "/availabilities/monthly/?month=2&year=2024")
	require.Equal(t, http.StatusOK, rec.Code)

	var results []models.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "2024-02-01", results[0].Date)
	assert.Equal(t, "2024-02-29", results[1].Date)
}

func TestMonthlyAvailability_InvalidParams(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	for _, url := range []string{
		"/availabilities/monthly/?month=13&year=2024",
		"/availabilities/monthly/?month=0&year=2024",
		"/availabilities/monthly/?month=2",
		"/availabilities/monthly/?month=feb&year=2024",
	} {
		rec := get(router, url)
		require.Equal(t, http.StatusBadRequest, rec.Code, url)
		assert.Contains(t, rec.Body.String(), "Invalid month or year format")
	}
}

func TestTimeRangeAvailability_Containment(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	slot := models.Availability{
		ConsultantID: consultant.ID,
		Date:         "2030-06-15",
		StartTime:    "09:00:00",
		EndTime:      "10:00:00",
	}
	require.NoError(t, db.Create(&slot).Error)

	base := "/availabilities/timerange/?start_date=2030-06-01&end_date=2030-06-30"

	// Window fully contains the slot.
	rec := get(router, base+"&start_time=08:00:00&end_time=11:00:00")
	require.Equal(t, http.StatusOK, rec.Code)
	var results []models.Availability
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 1)

	// Overlapping but not containing: slot starts before the window.
	rec = get(router, base+"&start_time=09:30:00&end_time=10:00:00")
	require.Equal(t, http.StatusOK, rec.Code)
	results = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &results))
	assert.Len(t, results, 0)
}

func TestTimeRangeAvailability_MissingParams(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)

	rec := get(router, "/availabilities/timerange/?start_date=2030-06-01&end_date=2030-06-30&start_time=08:00:00")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "All parameters are required")
}

func TestDeleteAvailability(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	slot := models.Availability{
		ConsultantID: consultant.ID,
		Date:         dateOffset(1),
		StartTime:    "09:00:00",
		EndTime:      "10:00:00",
	}
	require.NoError(t, db.Create(&slot).Error)

	payload, _ := json.Marshal(map[string]string{
		"date":       slot.Date,
		"start_time": slot.StartTime,
		"end_time":   slot.EndTime,
	})
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/consultant/%d/availability/delete", consultant.ID), bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	var count int64
	db.Model(&models.Availability{}).Count(&count)
	assert.EqualValues(t, 0, count)
}

func TestDeleteAvailability_NotFound(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	payload, _ := json.Marshal(map[string]string{
		"date":       dateOffset(1),
		"start_time": "09:00:00",
		"end_time":   "10:00:00",
	})
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/consultant/%d/availability/delete", consultant.ID), bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Time slot not found")
}

// Deleting a booked slot is allowed and takes its booking with it.
func TestDeleteAvailability_BookedSlotCascades(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	user := models.User{FirstName: "Kojo", LastName: "Asante"}
	require.NoError(t, db.Create(&user).Error)

	slot := models.Availability{
		ConsultantID: consultant.ID,
		Date:         dateOffset(1),
		StartTime:    "09:00:00",
		EndTime:      "10:00:00",
		IsBooked:     true,
	}
	require.NoError(t, db.Create(&slot).Error)
	booking := models.Booking{AvailabilityID: slot.ID, UserID: user.ID, Reference: "ref-1"}
	require.NoError(t, db.Create(&booking).Error)

	payload, _ := json.Marshal(map[string]string{
		"date":       slot.Date,
		"start_time": slot.StartTime,
		"end_time":   slot.EndTime,
	})
	req := httptest.NewRequest("DELETE", fmt.Sprintf("/consultant/%d/availability/delete", consultant.ID), bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	var slots, bookings int64
	db.Model(&models.Availability{}).Count(&slots)
	db.Model(&models.Booking{}).Count(&bookings)
	assert.EqualValues(t, 0, slots)
	assert.EqualValues(t, 0, bookings)
}

// Identical queries with no intervening writes return identical ordered
// results.
func TestQueries_IdempotentRead(t *testing.T) {
	db := setupTestDB(t)
	router := setupRouter(db)
	consultant := createConsultant(t, db)

	for i := 1; i <= 4; i++ {
		slot := models.Availability{
			ConsultantID: consultant.ID,
			Date:         dateOffset(i),
			StartTime:    "09:00:00",
			EndTime:      "10:00:00",
		}
		require.NoError(t, db.Create(&slot).Error)
	}

	url := fmt.Sprintf("/consultant/%d/availability/", consultant.ID)
	first := get(router, url)
	second := get(router, url)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}
