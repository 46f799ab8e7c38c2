package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/crmkit-dev/crmkit/internal/engine"
	"github.com/crmkit-dev/crmkit/pkg/crm"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	contacts := []crm.Contact{
		{ID: 1, FirstName: "Sarah", LastName: "Mitchell", Email: "sarah@brightline.io",
			Phone: "+1 415 555 0114", Company: "Brightline Analytics",
			Status: crm.StatusActive, Tags: []string{"enterprise"},
			CreatedAt:    time.Date(2026, 1, 12, 9, 30, 0, 0, time.UTC),
			LastActivity: time.Date(2026, 2, 18, 14, 5, 0, 0, time.UTC)},
		{ID: 2, FirstName: "Diego", LastName: "Alvarez", Email: "diego@nortada.dev",
			Status:    crm.StatusQualified,
			CreatedAt: time.Date(2026, 1, 28, 11, 0, 0, 0, time.UTC)},
	}
	deals := []crm.Deal{
		{ID: 1, Title: "Brightline platform rollout", ContactID: 1, Value: 48000,
			Stage: crm.StageNegotiation, Probability: 70,
			CreatedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)},
		{ID: 2, Title: "LagoonPay annual renewal", ContactID: 5, Value: 26000,
			Stage: crm.StageClosed, Probability: 100,
			CreatedAt: time.Date(2026, 1, 20, 8, 0, 0, 0, time.UTC)},
	}
	activities := []crm.Activity{
		{ID: 1, ContactID: 1, DealID: 1, Type: crm.ActivityCall,
			Description: "Negotiation call", UserID: "user1",
			Date: time.Date(2026, 2, 18, 14, 0, 0, 0, time.UTC)},
	}

	return NewRouter(Stores{
		Contacts:   engine.NewContactStore(contacts, nil, nil),
		Deals:      engine.NewDealStore(deals, nil, nil),
		Activities: engine.NewActivityStore(activities, nil, nil),
	}, nil)
}

func TestListContacts(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/tables/contact_c/records", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var records []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &records); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(records))
	}
	// Wire format is the persistence shape, newest first.
	if records[0]["first_name_c"] != "Diego" {
		t.Errorf("Expected Diego first, got %v", records[0]["first_name_c"])
	}
	if records[1]["Name"] != "Sarah Mitchell" {
		t.Errorf("Expected synthesized Name, got %v", records[1]["Name"])
	}
	if records[1]["tags_c"] != "enterprise" {
		t.Errorf("Expected CSV tags, got %v", records[1]["tags_c"])
	}
}

func TestGetContact(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/tables/contact_c/records/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var rec map[string]any
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec["email_c"] != "sarah@brightline.io" {
		t.Errorf("Expected persistence-shape email, got %v", rec["email_c"])
	}
}

func TestGetContactNotFound(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/tables/contact_c/records/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestGetContactInvalidID(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/tables/contact_c/records/abc", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestCreateDeal(t *testing.T) {
	r := setupTestRouter()

	body := []byte(`{
		"title_c": "Keystone pilot",
		"contact_id_c": {"Id": 2},
		"value_c": "12000",
		"stage_c": "Lead",
		"probability_c": 20,
		"expected_close_date_c": "2026-04-30T00:00:00Z"
	}`)
	req, _ := http.NewRequest("POST", "/api/tables/deal_c/records", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var rec map[string]any
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec["Id"] != float64(3) {
		t.Errorf("Expected assigned id 3, got %v", rec["Id"])
	}
	if rec["contact_id_c"] != float64(2) {
		t.Errorf("Expected unwrapped contact reference 2, got %v", rec["contact_id_c"])
	}
	if rec["value_c"] != float64(12000) {
		t.Errorf("Expected numeric value 12000, got %v", rec["value_c"])
	}
}

func TestUpdateContactMerges(t *testing.T) {
	r := setupTestRouter()

	body := []byte(`{"status_c": "Inactive"}`)
	req, _ := http.NewRequest("PATCH", "/api/tables/contact_c/records/2", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var rec map[string]any
	json.Unmarshal(w.Body.Bytes(), &rec)
	if rec["status_c"] != "Inactive" {
		t.Errorf("Expected patched status, got %v", rec["status_c"])
	}
	if rec["first_name_c"] != "Diego" {
		t.Errorf("Expected untouched firstName Diego, got %v", rec["first_name_c"])
	}
	if rec["Id"] != float64(2) {
		t.Errorf("Expected id 2 to survive, got %v", rec["Id"])
	}
}

func TestUpdateNotFound(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("PATCH", "/api/tables/deal_c/records/99", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestDeleteContact(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("DELETE", "/api/tables/contact_c/records/1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	req, _ = http.NewRequest("GET", "/api/tables/contact_c/records/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 after delete, got %d", w.Code)
	}

	// Deleting the contact does not cascade; the deal keeps its reference.
	req, _ = http.NewRequest("GET", "/api/tables/deal_c/records/1", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected dependent deal to survive, got %d", w.Code)
	}
}

func TestDashboard(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/api/dashboard", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var overview struct {
		Metrics struct {
			TotalContacts      int     `json:"totalContacts"`
			ActiveDeals        int     `json:"activeDeals"`
			TotalPipelineValue float64 `json:"totalPipelineValue"`
			WonDeals           int     `json:"wonDeals"`
		} `json:"metrics"`
		PipelineFormatted string `json:"pipelineFormatted"`
		RecentActivities  []struct {
			ContactName string `json:"contactName"`
			DealTitle   string `json:"dealTitle"`
		} `json:"recentActivities"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &overview); err != nil {
		t.Fatalf("Failed to parse dashboard: %v", err)
	}
	if overview.Metrics.TotalContacts != 2 {
		t.Errorf("Expected 2 contacts, got %d", overview.Metrics.TotalContacts)
	}
	if overview.Metrics.ActiveDeals != 1 || overview.Metrics.WonDeals != 1 {
		t.Errorf("Expected 1 active and 1 won deal, got %d/%d",
			overview.Metrics.ActiveDeals, overview.Metrics.WonDeals)
	}
	if overview.Metrics.TotalPipelineValue != 48000 {
		t.Errorf("Expected pipeline 48000, got %v", overview.Metrics.TotalPipelineValue)
	}
	if len(overview.RecentActivities) != 1 || overview.RecentActivities[0].ContactName != "Sarah Mitchell" {
		t.Errorf("Expected resolved contact name, got %+v", overview.RecentActivities)
	}
}

func TestCodecFailureIsLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logged := observer.New(zap.WarnLevel)

	r := NewRouter(Stores{
		Contacts:   engine.NewContactStore(nil, nil, nil),
		Deals:      engine.NewDealStore(nil, nil, nil),
		Activities: engine.NewActivityStore(nil, nil, nil),
	}, zap.New(core))

	req, _ := http.NewRequest("POST", "/api/tables/contact_c/records", bytes.NewBufferString(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected status 400, got %d", w.Code)
	}
	entries := logged.FilterMessage("record codec failure").All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 codec log entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["table"] != "contact_c" || ctx["op"] != "decode" {
		t.Errorf("Expected contact_c decode failure, got %v", ctx)
	}
}

func TestHealthz(t *testing.T) {
	r := setupTestRouter()

	req, _ := http.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
}
