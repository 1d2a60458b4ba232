package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app := fiber.New()
	RegisterRoutes(app, service.NewGameService(service.NewGameManager(nil)), nil)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, player, body string, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

func createGame(t *testing.T, app *fiber.App) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/create", "alice", "", &created); code != fiber.StatusOK {
		t.Fatalf("create: status %d", code)
	}
	if created.GameID == "" {
		t.Fatal("create returned no game id")
	}
	return created.GameID
}

func TestPlayerIDRequired(t *testing.T) {
	app := newTestApp(t)
	if code := doJSON(t, app, http.MethodPost, "/api/game/create", "", "", nil); code != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", code)
	}
}

func TestGameLifecycle(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)

	var joined struct {
		Color model.Color `json:"color"`
	}
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "", &joined)
	if joined.Color != model.White {
		t.Errorf("alice joined as %q", joined.Color)
	}
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "bob", "", &joined)
	if joined.Color != model.Black {
		t.Errorf("bob joined as %q", joined.Color)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "carol", "", nil); code != fiber.StatusConflict {
		t.Errorf("third join status = %d, want 409", code)
	}

	var moves struct {
		Square string   `json:"square"`
		Moves  []string `json:"moves"`
	}
	doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves/e2", "bob", "", &moves)
	if strings.Join(moves.Moves, ",") != "E4,E3" && strings.Join(moves.Moves, ",") != "E3,E4" {
		t.Errorf("moves from e2 = %v", moves.Moves)
	}

	var state service.GameState
	code := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e4"}`, &state)
	if code != fiber.StatusOK {
		t.Fatalf("move status = %d", code)
	}
	if state.ToMove != model.Black || len(state.MoveHistory) != 1 {
		t.Errorf("state after e4 = %+v", state)
	}

	doJSON(t, app, http.MethodGet, "/api/game/"+id, "carol", "", &state)
	if state.FEN != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1" {
		t.Errorf("FEN = %s", state.FEN)
	}

	var list struct {
		Games []string `json:"games"`
	}
	doJSON(t, app, http.MethodGet, "/api/games", "carol", "", &list)
	if len(list.Games) != 1 || list.Games[0] != id {
		t.Errorf("games = %v", list.Games)
	}
}

func TestMoveErrorStatuses(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "", nil)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "bob", "", nil)

	tests := []struct {
		name   string
		path   string
		player string
		body   string
		want   int
	}{
		{"unknown game", "/api/game/nope/move", "alice", `{"from":"e2","to":"e4"}`, fiber.StatusNotFound},
		{"bad coordinate", "/api/game/" + id + "/move", "alice", `{"from":"e9","to":"e4"}`, fiber.StatusBadRequest},
		{"bad body", "/api/game/" + id + "/move", "alice", `{"from":`, fiber.StatusBadRequest},
		{"not seated", "/api/game/" + id + "/move", "carol", `{"from":"e2","to":"e4"}`, fiber.StatusForbidden},
		{"wrong turn", "/api/game/" + id + "/move", "bob", `{"from":"e7","to":"e5"}`, fiber.StatusConflict},
		{"illegal", "/api/game/" + id + "/move", "alice", `{"from":"e2","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"empty source", "/api/game/" + id + "/move", "alice", `{"from":"e4","to":"e5"}`, fiber.StatusUnprocessableEntity},
		{"not a promotion", "/api/game/" + id + "/move", "alice", `{"from":"e2","to":"e4","promotion":"q"}`, fiber.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Error string `json:"error"`
			}
			code := doJSON(t, app, http.MethodPost, tt.path, tt.player, tt.body, &body)
			if code != tt.want {
				t.Errorf("status = %d, want %d (%s)", code, tt.want, body.Error)
			}
			if body.Error == "" {
				t.Errorf("no error message")
			}
		})
	}
}

func TestPossibleMovesBadSquare(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)
	if code := doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves/z0", "alice", "", nil); code != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}

	var moves struct {
		Moves []string `json:"moves"`
	}
	doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves/e4", "alice", "", &moves)
	if len(moves.Moves) != 0 {
		t.Errorf("empty square moves = %v", moves.Moves)
	}
}

func TestWebSocketRouteRequiresUpgrade(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)
	req := httptest.NewRequest(http.MethodGet, "/ws/game/"+id+"?playerId=alice", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != fiber.StatusUpgradeRequired {
		t.Errorf("status = %d, want 426", resp.StatusCode)
	}
}

func TestSeatsSurviveLaterCallers(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "alice", "", nil)
	doJSON(t, app, http.MethodPost, "/api/game/join/"+id, "bob", "", nil)

	// other callers reuse the request buffers the seated ids were read from
	for _, caller := range []string{"zzzzz", "yyyyyyyyyy", "x"} {
		doJSON(t, app, http.MethodGet, "/api/game/"+id, caller, "", nil)
		doJSON(t, app, http.MethodGet, "/api/game/"+id+"?playerId="+caller, "", "", nil)
	}

	var state service.GameState
	doJSON(t, app, http.MethodGet, "/api/game/"+id, "zzzzz", "", &state)
	if state.Players.White.ID != "alice" || state.Players.Black.ID != "bob" {
		t.Fatalf("seats = white %q, black %q", state.Players.White.ID, state.Players.Black.ID)
	}

	if code := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "zzzzz", `{"from":"e2","to":"e4"}`, nil); code != fiber.StatusForbidden {
		t.Errorf("unseated move status = %d, want 403", code)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "bob", `{"from":"e7","to":"e5"}`, nil); code != fiber.StatusConflict {
		t.Errorf("out of turn move status = %d, want 409", code)
	}
	if code := doJSON(t, app, http.MethodPost, "/api/game/"+id+"/move", "alice", `{"from":"e2","to":"e4"}`, nil); code != fiber.StatusOK {
		t.Errorf("alice's move status = %d, want 200", code)
	}
}

func TestPossibleMovesReportsPiece(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)

	var reply struct {
		Piece *model.Piece `json:"piece"`
		Moves []string     `json:"moves"`
	}
	doJSON(t, app, http.MethodGet, "/api/game/"+id+"/moves/b8", "alice", "", &reply)
	if reply.Piece == nil || reply.Piece.Type != model.Knight || reply.Piece.Color != model.Black {
		t.Errorf("piece on b8 = %+v", reply.Piece)
	}
	if len(reply.Moves) != 2 {
		t.Errorf("moves from b8 = %v", reply.Moves)
	}
}

func TestDeleteGameRoute(t *testing.T) {
	app := newTestApp(t)
	id := createGame(t, app)

	if code := doJSON(t, app, http.MethodDelete, "/api/game/"+id, "alice", "", nil); code != fiber.StatusOK {
		t.Fatalf("delete status = %d", code)
	}
	if code := doJSON(t, app, http.MethodGet, "/api/game/"+id, "alice", "", nil); code != fiber.StatusNotFound {
		t.Errorf("state after delete status = %d, want 404", code)
	}
	if code := doJSON(t, app, http.MethodDelete, "/api/game/"+id, "alice", "", nil); code != fiber.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", code)
	}
}
