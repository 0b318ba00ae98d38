package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/cs2stats/cs2stats/internal/auth"
	"github.com/cs2stats/cs2stats/internal/config"
	"github.com/cs2stats/cs2stats/internal/email"
	"github.com/cs2stats/cs2stats/internal/http/middleware"
	"github.com/cs2stats/cs2stats/internal/models"
	"github.com/cs2stats/cs2stats/internal/realtime"
	"github.com/cs2stats/cs2stats/internal/storage"
	"github.com/cs2stats/cs2stats/internal/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	t      *testing.T
	store  *storage.Memory
	hub    *realtime.Hub
	tokens *auth.Service
	server *httptest.Server
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AuthMode:      config.AuthModeLocal,
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		UploadDir:     t.TempDir(),
		UploadMaxSize: 1 << 20,
		DevUserID:     "dev-user",
	}
}

func newAPIFixture(t *testing.T, cfg config.Config) *apiFixture {
	t.Helper()
	store := storage.NewMemory()
	tokens := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	validate := validation.New()
	mailer := email.NewMailer(cfg)
	hub := realtime.NewHub()
	commands := realtime.NewCommands(store, validate, hub, mailer)
	handler := NewHandler(store, tokens, validate, hub, commands, mailer, cfg)
	authMW := middleware.NewAuth(tokens, store, cfg)
	ws := realtime.NewHandler(hub, commands, tokens, store)

	server := httptest.NewServer(NewRouter(RouterDeps{
		Handler: handler,
		AuthMW:  authMW,
		WS:      ws,
		Config:  cfg,
	}))
	t.Cleanup(server.Close)
	t.Cleanup(hub.CloseAll)

	return &apiFixture{t: t, store: store, hub: hub, tokens: tokens, server: server}
}

// user provisions an account directly in the store and returns a signed
// bearer token for it.
func (f *apiFixture) user(email string, role models.Role) (*models.User, string) {
	f.t.Helper()
	u, err := f.store.UpsertUser(context.Background(), models.UpsertUser{
		Email:        email,
		Role:         role,
		PasswordHash: "unused",
	})
	if err != nil {
		f.t.Fatalf("UpsertUser: %v", err)
	}
	token, err := f.tokens.Sign(u.ID)
	if err != nil {
		f.t.Fatalf("Sign: %v", err)
	}
	return u, token
}

func (f *apiFixture) seedMatch() *models.MatchWithTeams {
	f.t.Helper()
	ctx := context.Background()
	t1, err := f.store.CreateTeam(ctx, models.InsertTeam{Name: "Natus Vincere"})
	if err != nil {
		f.t.Fatalf("CreateTeam: %v", err)
	}
	t2, err := f.store.CreateTeam(ctx, models.InsertTeam{Name: "FaZe Clan"})
	if err != nil {
		f.t.Fatalf("CreateTeam: %v", err)
	}
	match, err := f.store.CreateMatch(ctx, models.InsertMatch{
		Team1ID: t1.ID,
		Team2ID: t2.ID,
		Status:  models.MatchStatusLive,
	})
	if err != nil {
		f.t.Fatalf("CreateMatch: %v", err)
	}
	return match
}

func (f *apiFixture) do(method, path, token string, body interface{}) *http.Response {
	f.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			f.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.server.URL+path, reader)
	if err != nil {
		f.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		f.t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// observe opens a websocket connection to the fixture server and consumes
// the welcome frame, leaving the connection ready for broadcast assertions.
func (f *apiFixture) observe() *websocket.Conn {
	f.t.Helper()
	url := "ws" + strings.TrimPrefix(f.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		f.t.Fatalf("dial ws: %v", err)
	}
	f.t.Cleanup(func() { conn.Close() })
	if frame := readWS(f.t, conn); frame.Type != "connected" {
		f.t.Fatalf("welcome frame type = %q", frame.Type)
	}
	return conn
}

func readWS(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var frame wsFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read ws frame: %v", err)
	}
	return frame
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	resp := f.do(http.MethodGet, "/health", "", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))

	resp := f.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     "Fan@Example.com",
		"password":  "hunter2hunter2",
		"firstName": "Alex",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d", resp.StatusCode)
	}
	var registered struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	decodeBody(t, resp, &registered)
	if registered.Token == "" {
		t.Fatal("register returned empty token")
	}
	if registered.User.Email != "fan@example.com" {
		t.Errorf("email not lowercased: %q", registered.User.Email)
	}

	// The token works against an authenticated route.
	resp = f.do(http.MethodGet, "/api/auth/user", registered.Token, nil)
	var me models.User
	decodeBody(t, resp, &me)
	if me.ID != registered.User.ID {
		t.Errorf("auth/user returned %q, want %q", me.ID, registered.User.ID)
	}

	// Duplicate email is rejected.
	resp = f.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "fan@example.com",
		"password": "hunter2hunter2",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", resp.StatusCode)
	}

	// Short passwords never reach the store.
	resp = f.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "other@example.com",
		"password": "short",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("short password status = %d, want 400", resp.StatusCode)
	}

	resp = f.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "fan@example.com",
		"password": "wrong-password",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", resp.StatusCode)
	}

	resp = f.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "fan@example.com",
		"password": "hunter2hunter2",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var logged struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &logged)
	if logged.Token == "" {
		t.Fatal("login returned empty token")
	}

	resp = f.do(http.MethodPost, "/api/auth/logout", logged.Token, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("logout status = %d", resp.StatusCode)
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, userToken := f.user("viewer@example.com", models.RoleUser)
	_, adminToken := f.user("admin@example.com", models.RoleAdmin)

	body := gin.H{"name": "Team Spirit"}
	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"regular user", userToken, http.StatusForbidden},
		{"admin", adminToken, http.StatusCreated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.do(http.MethodPost, "/api/teams", tc.token, body)
			resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.status)
			}
		})
	}
}

func TestUpdateMatchEmitsBothFrames(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, adminToken := f.user("admin@example.com", models.RoleAdmin)
	match := f.seedMatch()
	conn := f.observe()

	resp := f.do(http.MethodPatch, "/api/matches/"+match.ID, adminToken, gin.H{
		"team1Score": 12,
		"status":     "live",
	})
	var updated models.Match
	decodeBody(t, resp, &updated)
	if updated.Team1Score != 12 {
		t.Errorf("team1Score = %d, want 12", updated.Team1Score)
	}

	// A single PATCH produces both the lifecycle frame and the score-refresh
	// frame. Order is fixed by the handler but assert by type to be safe.
	seen := map[string]json.RawMessage{}
	for i := 0; i < 2; i++ {
		frame := readWS(t, conn)
		seen[frame.Type] = frame.Data
	}
	for _, want := range []string{"match_updated", "match_update"} {
		data, ok := seen[want]
		if !ok {
			t.Fatalf("missing %s frame, got %v", want, keys(seen))
		}
		var payload struct {
			ID         string `json:"id"`
			Team1Score int    `json:"team1Score"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			t.Fatalf("unmarshal %s payload: %v", want, err)
		}
		if payload.ID != match.ID {
			t.Errorf("%s payload id = %q, want %q", want, payload.ID, match.ID)
		}
		if payload.Team1Score != 12 {
			t.Errorf("%s payload team1Score = %d, want 12", want, payload.Team1Score)
		}
	}
}

func TestTeamCreateBroadcast(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, adminToken := f.user("admin@example.com", models.RoleAdmin)
	conn := f.observe()

	resp := f.do(http.MethodPost, "/api/teams", adminToken, gin.H{"name": "G2 Esports"})
	var team models.Team
	decodeBody(t, resp, &team)

	frame := readWS(t, conn)
	if frame.Type != "team_created" {
		t.Fatalf("frame type = %q, want team_created", frame.Type)
	}
	var payload models.Team
	if err := json.Unmarshal(frame.Data, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.ID != team.ID || payload.Name != "G2 Esports" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestFavoriteBroadcasts(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, userToken := f.user("fan@example.com", models.RoleUser)
	team, err := f.store.CreateTeam(context.Background(), models.InsertTeam{Name: "Astralis"})
	if err != nil {
		t.Fatalf("CreateTeam: %v", err)
	}
	conn := f.observe()

	resp := f.do(http.MethodPost, "/api/favorites", userToken, gin.H{"teamId": team.ID})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create favorite status = %d", resp.StatusCode)
	}
	var favorite models.UserFavorite
	decodeBody(t, resp, &favorite)

	frame := readWS(t, conn)
	if frame.Type != "favorite_created" {
		t.Fatalf("frame type = %q, want favorite_created", frame.Type)
	}
	var created models.UserFavorite
	if err := json.Unmarshal(frame.Data, &created); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if created.ID != favorite.ID || created.TeamID == nil || *created.TeamID != team.ID {
		t.Errorf("payload = %+v", created)
	}

	resp = f.do(http.MethodDelete, "/api/favorites/"+favorite.ID, userToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete favorite status = %d", resp.StatusCode)
	}

	frame = readWS(t, conn)
	if frame.Type != "favorite_deleted" {
		t.Fatalf("frame type = %q, want favorite_deleted", frame.Type)
	}
	var deleted struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(frame.Data, &deleted); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if deleted.ID != favorite.ID {
		t.Errorf("deleted id = %q, want %q", deleted.ID, favorite.ID)
	}
}

func TestCreateMatchEventEndpoint(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, adminToken := f.user("admin@example.com", models.RoleAdmin)
	match := f.seedMatch()
	conn := f.observe()

	resp := f.do(http.MethodPost, fmt.Sprintf("/api/matches/%s/events", match.ID), adminToken, gin.H{
		"eventType":   "ace",
		"description": "s1mple wipes the site",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var event models.MatchEvent
	decodeBody(t, resp, &event)
	if event.MatchID != match.ID {
		t.Errorf("event matchId = %q, want %q", event.MatchID, match.ID)
	}

	frame := readWS(t, conn)
	if frame.Type != "match_event" {
		t.Errorf("frame type = %q, want match_event", frame.Type)
	}

	// Unknown match is a client error, not a 500.
	resp = f.do(http.MethodPost, "/api/matches/no-such-match/events", adminToken, gin.H{
		"eventType":   "kill",
		"description": "ghost frag",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown match status = %d, want 400", resp.StatusCode)
	}
}

func TestNewsDraftVisibility(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, adminToken := f.user("admin@example.com", models.RoleAdmin)
	ctx := context.Background()
	if _, err := f.store.CreateNewsArticle(ctx, models.InsertNewsArticle{
		Title: "Major recap", Content: "...", Published: true,
	}); err != nil {
		t.Fatalf("CreateNewsArticle: %v", err)
	}
	if _, err := f.store.CreateNewsArticle(ctx, models.InsertNewsArticle{
		Title: "Unfinished draft", Content: "...", Published: false,
	}); err != nil {
		t.Fatalf("CreateNewsArticle: %v", err)
	}

	resp := f.do(http.MethodGet, "/api/news", "", nil)
	var articles []models.NewsArticle
	decodeBody(t, resp, &articles)
	if len(articles) != 1 || articles[0].Title != "Major recap" {
		t.Errorf("anonymous listing = %+v, want only the published article", articles)
	}

	// Drafts stay hidden even when an anonymous caller asks for them.
	resp = f.do(http.MethodGet, "/api/news?published=false", "", nil)
	decodeBody(t, resp, &articles)
	if len(articles) != 1 || !articles[0].Published {
		t.Errorf("anonymous draft request leaked %d article(s)", len(articles))
	}

	resp = f.do(http.MethodGet, "/api/news?published=false", adminToken, nil)
	decodeBody(t, resp, &articles)
	if len(articles) != 1 || articles[0].Title != "Unfinished draft" {
		t.Errorf("admin draft listing = %+v", articles)
	}
}

func TestCommentModerationFlow(t *testing.T) {
	f := newAPIFixture(t, testConfig(t))
	_, userToken := f.user("fan@example.com", models.RoleUser)
	_, reporterToken := f.user("reporter@example.com", models.RoleUser)
	_, modToken := f.user("mod@example.com", models.RoleModerator)
	match := f.seedMatch()

	resp := f.do(http.MethodPost, "/api/comments", userToken, gin.H{
		"matchId": match.ID,
		"content": "terrible call by the IGL",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create comment status = %d", resp.StatusCode)
	}
	var comment models.Comment
	decodeBody(t, resp, &comment)

	// A comment must target a match or an article.
	resp = f.do(http.MethodPost, "/api/comments", userToken, gin.H{"content": "orphan"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("untargeted comment status = %d, want 400", resp.StatusCode)
	}

	resp = f.do(http.MethodPost, "/api/comments/"+comment.ID+"/flag", reporterToken, gin.H{
		"reason": "harassment",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("flag status = %d", resp.StatusCode)
	}
	var flag models.CommentFlag
	decodeBody(t, resp, &flag)

	// Regular users cannot reach moderation routes.
	resp = f.do(http.MethodGet, "/api/moderation/flags", userToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("moderation as user status = %d, want 403", resp.StatusCode)
	}

	resp = f.do(http.MethodGet, "/api/moderation/flags?reviewed=false", modToken, nil)
	var flags []models.CommentFlag
	decodeBody(t, resp, &flags)
	if len(flags) != 1 || flags[0].ID != flag.ID {
		t.Fatalf("pending flags = %+v", flags)
	}

	resp = f.do(http.MethodPatch, "/api/moderation/flags/"+flag.ID, modToken, nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("review flag status = %d", resp.StatusCode)
	}

	resp = f.do(http.MethodDelete, "/api/moderation/comments/"+comment.ID, modToken, gin.H{
		"reason": "personal attack",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove comment status = %d", resp.StatusCode)
	}

	listed, err := f.store.GetComments(context.Background(), storage.CommentFilter{MatchID: match.ID})
	if err != nil {
		t.Fatalf("GetComments: %v", err)
	}
	if len(listed) != 0 {
		t.Errorf("removed comment still listed: %+v", listed)
	}
}

func TestDevModeBypassesTokens(t *testing.T) {
	cfg := testConfig(t)
	cfg.AuthMode = config.AuthModeDev
	f := newAPIFixture(t, cfg)

	if _, err := f.store.UpsertUser(context.Background(), models.UpsertUser{
		ID:    cfg.DevUserID,
		Email: "dev@example.com",
		Role:  models.RoleAdmin,
	}); err != nil {
		t.Fatalf("UpsertUser: %v", err)
	}

	resp := f.do(http.MethodPost, "/api/teams", "", gin.H{"name": "MOUZ"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("dev-mode create status = %d, want 201", resp.StatusCode)
	}
}

func TestRespondStorageErrorDefaultMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(rec)

	respondStorageError(ctx, storage.ErrNotFound, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "Not found" {
		t.Errorf("message = %q, want %q", body.Message, "Not found")
	}
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
