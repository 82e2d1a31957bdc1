// Package testutil provides in-process fakes of the external services the
// report pipeline talks to.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/de-tools/cloudview-alerts/pkg/models/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RecordedRequest is one request received by FakeCloudView.
type RecordedRequest struct {
	Endpoint  string // evaluations or resources
	Cloud     string
	AccountID string
	ControlID string
	PageNo    int
	PageSize  int
	Filter    string
}

// FakeCloudView serves the evaluation and resource listing endpoints from
// pages registered by the test.
type FakeCloudView struct {
	server *httptest.Server

	mu          sync.Mutex
	evaluations map[string][]api.EvaluationPage
	resources   map[string][]api.ResourcePage
	failures    map[string]int
	requests    []RecordedRequest
}

func NewFakeCloudView(t testing.TB, username, password string) *FakeCloudView {
	t.Helper()

	f := &FakeCloudView{
		evaluations: make(map[string][]api.EvaluationPage),
		resources:   make(map[string][]api.ResourcePage),
		failures:    make(map[string]int),
	}

	router := chi.NewRouter()
	router.Use(middleware.BasicAuth("cloudview", map[string]string{username: password}))
	router.Route("/cloudview-api/rest/v1/{cloud}/evaluations/{accountId}", func(r chi.Router) {
		r.Get("/", f.listEvaluations)
		r.Get("/resources/{controlId}", f.listResources)
	})

	f.server = httptest.NewServer(router)
	t.Cleanup(f.server.Close)
	return f
}

func (f *FakeCloudView) URL() string {
	return f.server.URL
}

func (f *FakeCloudView) AddEvaluationPages(cloud, accountID string, pages ...api.EvaluationPage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := evaluationKey(cloud, accountID)
	f.evaluations[key] = append(f.evaluations[key], pages...)
}

func (f *FakeCloudView) AddResourcePages(cloud, accountID, controlID string, pages ...api.ResourcePage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := resourceKey(cloud, accountID, controlID)
	f.resources[key] = append(f.resources[key], pages...)
}

// FailEvaluations makes the given evaluation page respond with status.
func (f *FakeCloudView) FailEvaluations(cloud, accountID string, pageNo, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pageKey(evaluationKey(cloud, accountID), pageNo)] = status
}

// FailResources makes the given resource page respond with status.
func (f *FakeCloudView) FailResources(cloud, accountID, controlID string, pageNo, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[pageKey(resourceKey(cloud, accountID, controlID), pageNo)] = status
}

func (f *FakeCloudView) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

func (f *FakeCloudView) listEvaluations(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r, "evaluations")
	key := evaluationKey(rec.Cloud, rec.AccountID)

	f.mu.Lock()
	status, failed := f.failures[pageKey(key, rec.PageNo)]
	pages := f.evaluations[key]
	f.mu.Unlock()

	if failed {
		http.Error(w, `{"message":"injected failure"}`, status)
		return
	}
	if rec.PageNo < 0 || rec.PageNo >= len(pages) {
		http.Error(w, `{"message":"page not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, pages[rec.PageNo])
}

func (f *FakeCloudView) listResources(w http.ResponseWriter, r *http.Request) {
	rec := f.record(r, "resources")
	key := resourceKey(rec.Cloud, rec.AccountID, rec.ControlID)

	f.mu.Lock()
	status, failed := f.failures[pageKey(key, rec.PageNo)]
	pages := f.resources[key]
	f.mu.Unlock()

	if failed {
		http.Error(w, `{"message":"injected failure"}`, status)
		return
	}
	if rec.PageNo < 0 || rec.PageNo >= len(pages) {
		http.Error(w, `{"message":"page not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, pages[rec.PageNo])
}

func (f *FakeCloudView) record(r *http.Request, endpoint string) RecordedRequest {
	query := r.URL.Query()
	pageNo, _ := strconv.Atoi(query.Get("pageNo"))
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))

	rec := RecordedRequest{
		Endpoint:  endpoint,
		Cloud:     chi.URLParam(r, "cloud"),
		AccountID: chi.URLParam(r, "accountId"),
		ControlID: chi.URLParam(r, "controlId"),
		PageNo:    pageNo,
		PageSize:  pageSize,
		Filter:    query.Get("filter"),
	}

	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	return rec
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func evaluationKey(cloud, accountID string) string {
	return cloud + "/" + accountID
}

func resourceKey(cloud, accountID, controlID string) string {
	return cloud + "/" + accountID + "/" + controlID
}

func pageKey(key string, pageNo int) string {
	return fmt.Sprintf("%s#%d", key, pageNo)
}
