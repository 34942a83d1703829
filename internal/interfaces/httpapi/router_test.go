package httpapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/fieldwise/league-scheduler/internal/domain/slot"
	"github.com/fieldwise/league-scheduler/internal/domain/user"
	"github.com/fieldwise/league-scheduler/internal/infrastructure/repository/memory"
	"github.com/fieldwise/league-scheduler/internal/platform/id"
	"github.com/fieldwise/league-scheduler/internal/usecase"
)

type stubVerifier struct{}

func (stubVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	if token != "good-token" {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: "user-1", Email: "scheduler@maplewoodyouth.example"}, nil
}

const testImportToken = "import-secret"

func availabilitySlot(slotID, date, start, end string, startMin, endMin int) slot.Slot {
	return slot.Slot{
		ID:             slotID,
		LeagueID:       memory.LeagueIDMaplewood,
		Division:       memory.DivisionMajors,
		GameDate:       date,
		StartTime:      start,
		EndTime:        end,
		StartMin:       startMin,
		EndMin:         endMin,
		FieldKey:       "park-a/field-1",
		OfferingTeamID: slot.OfferingAvailable,
		IsAvailability: true,
		Status:         slot.StatusOpen,
	}
}

func newTestRouter(t *testing.T, slots []slot.Slot) http.Handler {
	t.Helper()

	leagueRepo := memory.NewLeagueRepository(memory.SeedLeagues(), memory.SeedDivisions())
	teamRepo := memory.NewTeamRepository(memory.SeedTeams())
	fieldRepo := memory.NewFieldRepository(memory.SeedFields())
	ruleRepo := memory.NewRuleRepository(memory.SeedAvailabilityRules())
	exceptionRepo := memory.NewExceptionRepository(memory.SeedAvailabilityExceptions())
	allocationRepo := memory.NewAllocationRepository(nil)
	slotRepo := memory.NewSlotRepository(slots)
	runRepo := memory.NewRunRepository()
	ids := id.NewRandomGenerator()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewHandler(
		usecase.NewLeagueService(leagueRepo, teamRepo, fieldRepo),
		usecase.NewSlotService(leagueRepo, slotRepo),
		usecase.NewSlotGenerationService(leagueRepo, fieldRepo, ruleRepo, exceptionRepo, allocationRepo, slotRepo, ids),
		usecase.NewWizardService(leagueRepo, teamRepo, slotRepo, runRepo, ids),
		logger,
	)

	return NewRouter(handler, stubVerifier{}, logger, []string{"*"}, testImportToken)
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope (%s %s): %v\nbody: %s", method, path, err, rec.Body.String())
	}
	return rec, envelope
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, envelope := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", envelope)
	}
}

func TestRouterListLeagues(t *testing.T) {
	router := newTestRouter(t, nil)

	rec, envelope := doJSON(t, router, http.MethodGet, "/v1/leagues", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, envelope)
	}
	items, ok := envelope["data"].([]any)
	if !ok || len(items) != 1 {
		t.Fatalf("expected 1 league, got %v", envelope["data"])
	}
	first, _ := items[0].(map[string]any)
	if first["id"] != memory.LeagueIDMaplewood {
		t.Fatalf("unexpected league: %v", first)
	}
}

func TestRouterUpdateSlotRequiresAuth(t *testing.T) {
	router := newTestRouter(t, []slot.Slot{
		availabilitySlot("s1", "2025-05-03", "10:00", "11:00", 600, 660),
	})

	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/slots/s1"
	rec, envelope := doJSON(t, router, http.MethodPut, path, "", `{"versionToken":"v1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %v", rec.Code, envelope)
	}

	rec, envelope = doJSON(t, router, http.MethodPut, path, "bad-token", `{"versionToken":"v1"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d: %v", rec.Code, envelope)
	}
}

func TestRouterGetAndUpdateSlot(t *testing.T) {
	router := newTestRouter(t, []slot.Slot{
		availabilitySlot("s1", "2025-05-03", "10:00", "11:00", 600, 660),
	})
	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/slots/s1"

	rec, envelope := doJSON(t, router, http.MethodGet, path, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get slot: expected 200, got %d: %v", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	if data["versionToken"] != "v1" {
		t.Fatalf("expected versionToken v1, got %v", data["versionToken"])
	}

	rec, envelope = doJSON(t, router, http.MethodPut, path, "good-token",
		`{"startTime":"11:00","endTime":"12:00","versionToken":"v1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update slot: expected 200, got %d: %v", rec.Code, envelope)
	}
	data, _ = envelope["data"].(map[string]any)
	if data["startTime"] != "11:00" || data["versionToken"] != "v2" {
		t.Fatalf("unexpected updated slot: %v", data)
	}
	if data["updatedBy"] != "scheduler@maplewoodyouth.example" {
		t.Fatalf("expected principal email as updatedBy, got %v", data["updatedBy"])
	}
}

func TestRouterUpdateSlotStaleTokenMapsTo409(t *testing.T) {
	router := newTestRouter(t, []slot.Slot{
		availabilitySlot("s1", "2025-05-03", "10:00", "11:00", 600, 660),
	})
	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/slots/s1"

	rec, envelope := doJSON(t, router, http.MethodPut, path, "good-token",
		`{"startTime":"11:00","endTime":"12:00","versionToken":"v9"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %v", rec.Code, envelope)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "ABORTED" {
		t.Fatalf("expected ABORTED status, got %v", errorObj)
	}
}

func TestRouterSchedulePreview(t *testing.T) {
	var slots []slot.Slot
	n := 0
	for _, date := range []string{"2025-04-07", "2025-04-14", "2025-04-21", "2025-04-28"} {
		for hour := 18; hour <= 20; hour++ {
			n++
			slots = append(slots, availabilitySlot(
				fmt.Sprintf("s%d", n), date,
				fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:00", hour+1),
				hour*60, (hour+1)*60,
			))
		}
	}
	router := newTestRouter(t, slots)

	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/schedule/preview"
	body := `{"seasonStart":"2025-04-07","seasonEnd":"2025-04-28","minGamesPerTeam":3,"maxGamesPerWeek":1}`

	rec, envelope := doJSON(t, router, http.MethodPost, path, "good-token", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", rec.Code, envelope)
	}

	data, _ := envelope["data"].(map[string]any)
	summary, _ := data["summary"].(map[string]any)
	if got, _ := summary["assignedCount"].(float64); got != 6 {
		t.Fatalf("expected 6 assignments, got %v", summary["assignedCount"])
	}
	assignments, _ := data["assignments"].([]any)
	if len(assignments) != 6 {
		t.Fatalf("expected 6 assignment entries, got %d", len(assignments))
	}
	if data["runId"] != nil {
		t.Fatalf("preview must not mint a run id, got %v", data["runId"])
	}
}

func TestRouterSchedulePreviewValidation(t *testing.T) {
	router := newTestRouter(t, nil)

	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/schedule/preview"
	rec, envelope := doJSON(t, router, http.MethodPost, path, "good-token", `{"seasonEnd":"2025-04-28"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %v", rec.Code, envelope)
	}
	errorObj, _ := envelope["error"].(map[string]any)
	if errorObj["status"] != "INVALID_ARGUMENT" {
		t.Fatalf("expected INVALID_ARGUMENT, got %v", errorObj)
	}
}

func TestRouterAllocationImportToken(t *testing.T) {
	router := newTestRouter(t, nil)
	path := "/v1/leagues/" + memory.LeagueIDMaplewood + "/allocations/import"
	body := `{"allocations":[{"id":"alloc-1","fieldKey":"park-b/field-1","startsOn":"2025-04-01","endsOn":"2025-06-30","daysOfWeek":["Tue"],"startTime":"17:00","endTime":"19:00","slotType":"game"}]}`

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Import-Token", "wrong")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong import token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Import-Token", testImportToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	data, _ := envelope["data"].(map[string]any)
	if got, _ := data["imported"].(float64); got != 1 {
		t.Fatalf("expected 1 imported allocation, got %v", data["imported"])
	}
}

func TestRouterScheduleApplyPersistsRun(t *testing.T) {
	var slots []slot.Slot
	n := 0
	for _, date := range []string{"2025-04-07", "2025-04-14", "2025-04-21", "2025-04-28"} {
		for hour := 18; hour <= 20; hour++ {
			n++
			slots = append(slots, availabilitySlot(
				fmt.Sprintf("s%d", n), date,
				fmt.Sprintf("%02d:00", hour), fmt.Sprintf("%02d:00", hour+1),
				hour*60, (hour+1)*60,
			))
		}
	}
	router := newTestRouter(t, slots)

	base := "/v1/leagues/" + memory.LeagueIDMaplewood + "/divisions/majors/schedule"
	body := `{"seasonStart":"2025-04-07","seasonEnd":"2025-04-28","minGamesPerTeam":3,"maxGamesPerWeek":1}`

	rec, envelope := doJSON(t, router, http.MethodPost, base+"/apply", "good-token", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("apply: expected 200, got %d: %v", rec.Code, envelope)
	}
	data, _ := envelope["data"].(map[string]any)
	runID, _ := data["runId"].(string)
	if runID == "" {
		t.Fatalf("apply must mint a run id: %v", data)
	}

	rec, envelope = doJSON(t, router, http.MethodGet, base+"/runs/"+runID, "good-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get run: expected 200, got %d: %v", rec.Code, envelope)
	}
	run, _ := envelope["data"].(map[string]any)
	if run["id"] != runID {
		t.Fatalf("unexpected run payload: %v", run)
	}
}
