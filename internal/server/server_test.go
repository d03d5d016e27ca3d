package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/coachable/course-coach/internal/catalog"
	"github.com/coachable/course-coach/internal/db"
	"github.com/coachable/course-coach/internal/profile"
	"github.com/coachable/course-coach/internal/recommend"
	"github.com/coachable/course-coach/internal/taxonomy"
	"github.com/coachable/course-coach/internal/vectorindex"
)

// fakeSearcher serves canned hits regardless of the query.
type fakeSearcher struct {
	hits []vectorindex.Hit
}

func (f *fakeSearcher) Query(_ context.Context, _ string, k int) ([]vectorindex.Hit, error) {
	if k < len(f.hits) {
		return f.hits[:k], nil
	}
	return f.hits, nil
}

func taxonomyHit(label, uri string) vectorindex.Hit {
	return vectorindex.Hit{
		ID:       uri,
		Content:  label,
		Metadata: map[string]string{"preferred_label": label, "concept_uri": uri},
		Distance: 0.1,
	}
}

func courseHit(id, title string, distance float32) vectorindex.Hit {
	doc := catalog.Item{ID: id, Title: title, Provider: "Acme", Skills: []string{"Go"}}.Document()
	return vectorindex.Hit{ID: doc.ID, Content: doc.Content, Metadata: doc.Metadata, Distance: distance}
}

func newTestServer(t *testing.T, courses ...vectorindex.Hit) *Server {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := profile.NewStore(database)
	matcher := taxonomy.NewMatcher(
		&fakeSearcher{hits: []vectorindex.Hit{taxonomyHit("Go (programming language)", "esco:go")}},
		taxonomy.FixedPicker(0), 10, 0.15, nil)
	editor := profile.NewEditor(matcher, nil, nil)
	retriever := recommend.NewRetriever(&fakeSearcher{hits: courses}, nil)

	return New(Config{TopN: 5, AllowAll: true}, store, editor, retriever, nil, nil)
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	w := doJSON(t, newTestServer(t), "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q", body["status"])
	}
}

func TestGetProfileDefaultsWhenAbsent(t *testing.T) {
	w := doJSON(t, newTestServer(t), "GET", "/api/profiles/newcomer/", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var p profile.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.UserID != "newcomer" {
		t.Errorf("UserID = %q", p.UserID)
	}
}

func TestAddSkillPersists(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, "POST", "/api/profiles/alice/skills", `{"skill": "Go"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/profiles/alice/", "")
	var p profile.UserProfile
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(p.KnownSkills) != 1 || p.KnownSkills[0].ConceptURI != "esco:go" {
		t.Errorf("KnownSkills = %+v", p.KnownSkills)
	}
}

func TestAddSkillRequiresBody(t *testing.T) {
	w := doJSON(t, newTestServer(t), "POST", "/api/profiles/alice/skills", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestRecommendationsEndpoint(t *testing.T) {
	srv := newTestServer(t, courseHit("c-1", "Go Basics", 0.1), courseHit("c-2", "Advanced Go", 0.3))

	w := doJSON(t, srv, "GET", "/api/profiles/alice/recommendations?top_n=2", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var recs []recommend.Recommendation
	if err := json.Unmarshal(w.Body.Bytes(), &recs); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(recs) != 2 || recs[0].ID != "c-1" {
		t.Errorf("recs = %+v", recs)
	}
	if recs[0].ConfidenceScore != 1.0 {
		t.Errorf("nearest confidence = %v", recs[0].ConfidenceScore)
	}
}

func TestRecommendationsBadTopN(t *testing.T) {
	w := doJSON(t, newTestServer(t), "GET", "/api/profiles/alice/recommendations?top_n=zero", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestInsightsEndpoint(t *testing.T) {
	w := doJSON(t, newTestServer(t), "GET", "/api/profiles/alice/insights", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "total") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer(t, courseHit("c-1", "Go Basics", 0.1))

	w := doJSON(t, srv, "GET", "/api/profiles/alice/report", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "# Course Recommendations") {
		t.Errorf("markdown report missing header: %s", w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/profiles/alice/report?format=html", "")
	if !strings.Contains(w.Body.String(), "<!DOCTYPE html>") {
		t.Error("html report missing doctype")
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest("OPTIONS", "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func wsDial(t *testing.T, srv *Server, userID string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/review/" + userID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func wsRoundTrip(t *testing.T, conn *websocket.Conn, req reviewRequest) reviewResponse {
	t.Helper()
	if err := conn.WriteJSON(req); err != nil {
		t.Fatalf("websocket write: %v", err)
	}
	var resp reviewResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("websocket read: %v", err)
	}
	return resp
}

func TestReviewSocketWalkthrough(t *testing.T) {
	srv := newTestServer(t, courseHit("c-1", "Go Basics", 0.1), courseHit("c-2", "Advanced Go", 0.3))
	conn := wsDial(t, srv, "alice")

	resp := wsRoundTrip(t, conn, reviewRequest{Type: "start"})
	if resp.Type != "presenting" || resp.Course == nil || resp.Course.ID != "c-1" {
		t.Fatalf("start response = %+v", resp)
	}
	if resp.SessionID == "" {
		t.Error("expected a session id")
	}
	if resp.Total != 2 || resp.Position != 1 {
		t.Errorf("total/position = %d/%d", resp.Total, resp.Position)
	}

	resp = wsRoundTrip(t, conn, reviewRequest{Type: "decision", Feedback: "keep"})
	if resp.Type != "presenting" || resp.Course.ID != "c-2" {
		t.Fatalf("after keep: %+v", resp)
	}

	resp = wsRoundTrip(t, conn, reviewRequest{Type: "decision", Feedback: "reject"})
	if resp.Type != "awaiting_reason" {
		t.Fatalf("after reject: %+v", resp)
	}

	resp = wsRoundTrip(t, conn, reviewRequest{Type: "reason", Reason: "too expensive"})
	if resp.Type != "completed" {
		t.Fatalf("after reason: %+v", resp)
	}
	if resp.Reviewed != 2 || resp.Empty {
		t.Errorf("completed response = %+v", resp)
	}
}

func TestReviewSocketDecisionWithoutStart(t *testing.T) {
	conn := wsDial(t, newTestServer(t), "alice")

	resp := wsRoundTrip(t, conn, reviewRequest{Type: "decision", Feedback: "keep"})
	if resp.Type != "error" {
		t.Fatalf("expected error, got %+v", resp)
	}
}

func TestReviewSocketEmptyBatch(t *testing.T) {
	conn := wsDial(t, newTestServer(t), "alice")

	resp := wsRoundTrip(t, conn, reviewRequest{Type: "start"})
	if resp.Type != "completed" || !resp.Empty {
		t.Fatalf("expected empty completion, got %+v", resp)
	}
}
