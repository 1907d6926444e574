package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/emberworks/ignitehunt/internal/database"
	"github.com/emberworks/ignitehunt/internal/hunt"
	"github.com/emberworks/ignitehunt/internal/migrations"
)

const testAdminPassword = "letmein"

func newTestEnv(t *testing.T) (*Manager, *SQLiteStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := migrations.Run(db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := hunt.NewEngine(hunt.Config{
		GameDuration:  90 * time.Minute,
		PointsPerStep: 10,
		FirstBonus:    5,
	}, clockwork.NewFakeClock())

	store := NewSQLiteStore(db)
	mgr, err := NewManager(ctx, store, engine, hunt.DefaultCatalog(), logger)
	if err != nil {
		t.Fatalf("init manager: %v", err)
	}
	return mgr, store, db
}

func newTestServer(t *testing.T) *chi.Mux {
	t.Helper()
	mgr, store, db := newTestEnv(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, Deps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Manager:   mgr,
		Sessions:  store,
		DB:        db,
		AdminHash: hash,
	})
	return r
}

func doJSON(t *testing.T, r http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func loginTeam(t *testing.T, r http.Handler, name string) LoginResponse {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/login", "", LoginRequest{Team: name, Password: "student"})
	if w.Code != http.StatusOK {
		t.Fatalf("login %q: expected 200, got %d: %s", name, w.Code, w.Body.String())
	}
	var resp LoginResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}

func startGame(t *testing.T, r http.Handler, token string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/game/start", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start game: expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLogin(t *testing.T) {
	r := newTestServer(t)

	resp := loginTeam(t, r, "Phoenix Squad")
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.TeamID != "t1" {
		t.Errorf("expected team id t1, got %q", resp.TeamID)
	}
	if resp.TeamName != "Phoenix Squad" {
		t.Errorf("expected team name 'Phoenix Squad', got %q", resp.TeamName)
	}
	if resp.IsFinished {
		t.Error("fresh team should not be finished")
	}
}

func TestLoginCaseInsensitiveName(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", "", LoginRequest{Team: "phoenix squad", Password: "student"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/login", "", LoginRequest{Team: "Phoenix Squad", Password: "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestGameStateRequiresToken(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/api/game/state", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/game/state", "not-a-real-token", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bogus token, got %d", w.Code)
	}
}

func TestAnswerBeforeStart(t *testing.T) {
	r := newTestServer(t)
	login := loginTeam(t, r, "Phoenix Squad")

	w := doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "keyboard"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 before start, got %d: %s", w.Code, w.Body.String())
	}
}

func TestPlayThroughFirstClue(t *testing.T) {
	r := newTestServer(t)
	login := loginTeam(t, r, "Phoenix Squad")
	startGame(t, r, login.Token)

	// Initial state: first riddle visible, no location hint yet.
	w := doJSON(t, r, http.MethodGet, "/api/game/state", login.Token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("state: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var state GameStateResponse
	json.NewDecoder(w.Body).Decode(&state)
	if state.ClueStep != hunt.StepQuestion {
		t.Fatalf("expected QUESTION step, got %q", state.ClueStep)
	}
	if state.CurrentClue == nil || state.CurrentClue.Question == "" {
		t.Fatal("expected the riddle to be visible during QUESTION")
	}
	if state.CurrentClue.LocationHint != "" {
		t.Error("location hint must be hidden until the riddle is solved")
	}

	// Wrong answer changes nothing.
	w = doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "mouse"})
	if w.Code != http.StatusOK {
		t.Fatalf("wrong answer: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var ans AnswerResponse
	json.NewDecoder(w.Body).Decode(&ans)
	if ans.Correct {
		t.Fatal("wrong answer accepted")
	}
	if ans.Points != 0 {
		t.Errorf("wrong answer awarded points: %d", ans.Points)
	}

	// Correct answer, whitespace and case ignored.
	w = doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "  KeyBoard "})
	json.NewDecoder(w.Body).Decode(&ans)
	if !ans.Correct {
		t.Fatal("correct answer rejected")
	}
	if ans.Points != 10 {
		t.Errorf("expected 10 points, got %d", ans.Points)
	}
	if ans.LocationHint == "" {
		t.Error("expected the location hint after solving")
	}

	// Now in SCAN: hint visible, riddle hidden, answering again is a conflict.
	w = doJSON(t, r, http.MethodGet, "/api/game/state", login.Token, nil)
	state = GameStateResponse{}
	json.NewDecoder(w.Body).Decode(&state)
	if state.ClueStep != hunt.StepScan {
		t.Fatalf("expected SCAN step, got %q", state.ClueStep)
	}
	if state.CurrentClue == nil || state.CurrentClue.LocationHint == "" {
		t.Fatal("expected the location hint during SCAN")
	}
	if state.CurrentClue.Question != "" {
		t.Error("riddle must be hidden during SCAN")
	}

	w = doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "keyboard"})
	if w.Code != http.StatusConflict {
		t.Fatalf("answering during SCAN: expected 409, got %d", w.Code)
	}

	// Wrong code changes nothing.
	w = doJSON(t, r, http.MethodPost, "/api/game/scan", login.Token, ScanRequest{Code: "CLUE_9_QR"})
	if w.Code != http.StatusOK {
		t.Fatalf("wrong scan: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var scan ScanResponse
	json.NewDecoder(w.Body).Decode(&scan)
	if scan.Correct {
		t.Fatal("wrong code accepted")
	}

	// Correct code: per-step points plus the first-finisher bonus, since no
	// other team is ahead.
	w = doJSON(t, r, http.MethodPost, "/api/game/scan", login.Token, ScanRequest{Code: "clue_1_qr"})
	json.NewDecoder(w.Body).Decode(&scan)
	if !scan.Correct {
		t.Fatal("correct code rejected")
	}
	if !scan.Bonus {
		t.Error("expected the first-finisher bonus for the leading team")
	}
	if scan.Points != 25 {
		t.Errorf("expected 25 points, got %d", scan.Points)
	}
	if scan.Finished {
		t.Error("finished after first clue of five")
	}
	if scan.NextClue == nil || scan.NextClue.ID != "clue-2" {
		t.Errorf("expected next clue clue-2, got %+v", scan.NextClue)
	}
}

func TestLeaderboard(t *testing.T) {
	r := newTestServer(t)
	login := loginTeam(t, r, "Blaze Runners")
	startGame(t, r, login.Token)

	doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "keyboard"})
	doJSON(t, r, http.MethodPost, "/api/game/scan", login.Token, ScanRequest{Code: "CLUE_1_QR"})

	w := doJSON(t, r, http.MethodGet, "/api/leaderboard", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp LeaderboardResponse
	json.NewDecoder(w.Body).Decode(&resp)

	if !resp.IsGameStarted {
		t.Error("expected the game to be marked started")
	}
	if len(resp.Standings) != 8 {
		t.Fatalf("expected 8 standings, got %d", len(resp.Standings))
	}
	top := resp.Standings[0]
	if top.TeamID != "t2" {
		t.Errorf("expected t2 on top, got %q", top.TeamID)
	}
	if top.Rank != 1 || top.Points != 25 {
		t.Errorf("expected rank 1 with 25 points, got rank %d with %d", top.Rank, top.Points)
	}
}

func TestSecondTeamGetsNoBonus(t *testing.T) {
	r := newTestServer(t)
	first := loginTeam(t, r, "Phoenix Squad")
	second := loginTeam(t, r, "Blaze Runners")
	startGame(t, r, first.Token)

	doJSON(t, r, http.MethodPost, "/api/game/answer", first.Token, AnswerRequest{Answer: "keyboard"})
	doJSON(t, r, http.MethodPost, "/api/game/scan", first.Token, ScanRequest{Code: "CLUE_1_QR"})

	doJSON(t, r, http.MethodPost, "/api/game/answer", second.Token, AnswerRequest{Answer: "keyboard"})
	w := doJSON(t, r, http.MethodPost, "/api/game/scan", second.Token, ScanRequest{Code: "CLUE_1_QR"})

	var scan ScanResponse
	json.NewDecoder(w.Body).Decode(&scan)
	if !scan.Correct {
		t.Fatal("correct code rejected")
	}
	if scan.Bonus {
		t.Error("trailing team must not receive the first-finisher bonus")
	}
	if scan.Points != 20 {
		t.Errorf("expected 20 points, got %d", scan.Points)
	}
}

func TestFinishTheHunt(t *testing.T) {
	r := newTestServer(t)
	login := loginTeam(t, r, "Phoenix Squad")
	startGame(t, r, login.Token)

	answers := []string{"keyboard", "darkness", "river", "towel", "fire"}
	codes := []string{"CLUE_1_QR", "CLUE_2_QR", "CLUE_3_QR", "CLUE_4_QR", "CLUE_5_QR"}

	var scan ScanResponse
	for i := range answers {
		w := doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: answers[i]})
		if w.Code != http.StatusOK {
			t.Fatalf("answer %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		w = doJSON(t, r, http.MethodPost, "/api/game/scan", login.Token, ScanRequest{Code: codes[i]})
		if w.Code != http.StatusOK {
			t.Fatalf("scan %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		json.NewDecoder(w.Body).Decode(&scan)
	}

	if !scan.Finished {
		t.Fatal("expected the final scan to finish the hunt")
	}
	// 10 per step, 2 steps per clue, 5 clues, plus 5 bonus per scan leading.
	if scan.Points != 125 {
		t.Errorf("expected 125 points, got %d", scan.Points)
	}

	var state GameStateResponse
	w := doJSON(t, r, http.MethodGet, "/api/game/state", login.Token, nil)
	json.NewDecoder(w.Body).Decode(&state)
	if !state.IsFinished {
		t.Error("state should report the team finished")
	}
	if state.FinishTime == 0 {
		t.Error("expected a recorded finish time")
	}
	if state.CurrentClue != nil {
		t.Error("finished team has no current clue")
	}

	// Further play is rejected.
	w = doJSON(t, r, http.MethodPost, "/api/game/answer", login.Token, AnswerRequest{Answer: "anything"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 after finishing, got %d", w.Code)
	}
}

func TestStartIsIdempotent(t *testing.T) {
	r := newTestServer(t)
	a := loginTeam(t, r, "Phoenix Squad")
	b := loginTeam(t, r, "Blaze Runners")

	startGame(t, r, a.Token)

	var first GameStateResponse
	w := doJSON(t, r, http.MethodGet, "/api/game/state", a.Token, nil)
	json.NewDecoder(w.Body).Decode(&first)

	// A second team pressing start must not move the clock.
	startGame(t, r, b.Token)

	var second GameStateResponse
	w = doJSON(t, r, http.MethodGet, "/api/game/state", a.Token, nil)
	json.NewDecoder(w.Body).Decode(&second)

	if second.TimeLeftSeconds > first.TimeLeftSeconds {
		t.Errorf("countdown reset: %d -> %d", first.TimeLeftSeconds, second.TimeLeftSeconds)
	}
}

func TestWrongSubmissionsPublishEvents(t *testing.T) {
	mgr, store, _ := newTestEnv(t)
	broker := NewBroker()

	r := chi.NewRouter()
	r.Post("/api/game/answer", handleAnswer(mgr, store, broker))
	r.Post("/api/game/scan", handleScan(mgr, store, broker))

	ctx := context.Background()
	token, err := store.Create(ctx, "t1", roleTeam)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}
	err = mgr.Update(ctx, func(s *hunt.Session) error {
		mgr.Engine().Start(s)
		return nil
	})
	if err != nil {
		t.Fatalf("start game: %v", err)
	}

	ch := broker.Subscribe("t1")
	defer broker.Unsubscribe("t1", ch)

	// Publish runs before the handler returns, so the event is already
	// buffered once the request completes.
	nextEvent := func() Event {
		t.Helper()
		select {
		case data := <-ch:
			var ev Event
			json.Unmarshal(data, &ev)
			return ev
		default:
			t.Fatal("no event published")
			return Event{}
		}
	}

	doJSON(t, r, http.MethodPost, "/api/game/answer", token, AnswerRequest{Answer: "mouse"})
	if ev := nextEvent(); ev.Type != eventWrongAnswer {
		t.Errorf("expected %s event, got %q", eventWrongAnswer, ev.Type)
	}

	doJSON(t, r, http.MethodPost, "/api/game/answer", token, AnswerRequest{Answer: "keyboard"})
	if ev := nextEvent(); ev.Type != eventQuestionSolved {
		t.Errorf("expected %s event, got %q", eventQuestionSolved, ev.Type)
	}

	doJSON(t, r, http.MethodPost, "/api/game/scan", token, ScanRequest{Code: "CLUE_9_QR"})
	if ev := nextEvent(); ev.Type != eventWrongCode {
		t.Errorf("expected %s event, got %q", eventWrongCode, ev.Type)
	}
}

func TestHealthz(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp HealthResponse
	json.NewDecoder(w.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestOpenAPIServed(t *testing.T) {
	r := newTestServer(t)

	w := doJSON(t, r, http.MethodGet, "/openapi.json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var spec map[string]any
	if err := json.NewDecoder(w.Body).Decode(&spec); err != nil {
		t.Fatalf("decode spec: %v", err)
	}
	if _, ok := spec["paths"]; !ok {
		t.Error("spec has no paths")
	}
}
