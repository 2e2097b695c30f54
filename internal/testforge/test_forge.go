// Package testforge provides an in-process GitHub REST API for tests.
//
// TestForge serves the three endpoints docsync uses (repository metadata,
// recursive git trees and file contents) from an in-memory set of
// repositories, with injectable failures.
package testforge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// TestRepository is a repository served by the forge.
type TestRepository struct {
	FullName      string
	DefaultBranch string            // Empty is served as an empty default_branch
	Files         map[string]string // Path to content; directories are derived
	Truncated     bool
}

// FailMode defines how the test forge answers a request.
type FailMode int

const (
	FailModeNone FailMode = iota
	FailModeAuth
	FailModeNotFound
	FailModeRateLimit // go-github refuses further requests client-side until the reset
	FailModeServer
	FailModeEncoding // contents only: encoding "none"
)

// TestForge is a fake GitHub API server.
type TestForge struct {
	mu       sync.Mutex
	repos    map[string]*TestRepository
	repoFail map[string]FailMode
	treeFail map[string]FailMode
	fileFail map[string]FailMode
	requests atomic.Int64
	lastAuth atomic.Value
	server   *httptest.Server
}

// NewTestForge starts a server; it is closed when the test ends if the
// caller registers Close with t.Cleanup.
func NewTestForge() *TestForge {
	tf := &TestForge{
		repos:    map[string]*TestRepository{},
		repoFail: map[string]FailMode{},
		treeFail: map[string]FailMode{},
		fileFail: map[string]FailMode{},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}", tf.handleRepository)
	mux.HandleFunc("GET /repos/{owner}/{repo}/git/trees/{branch}", tf.handleTree)
	mux.HandleFunc("GET /repos/{owner}/{repo}/contents/{path...}", tf.handleContents)
	tf.server = httptest.NewServer(tf.count(mux))
	return tf
}

// URL is the API base URL to configure clients with.
func (tf *TestForge) URL() string { return tf.server.URL }

// Close shuts the server down.
func (tf *TestForge) Close() { tf.server.Close() }

// Requests returns the number of requests served so far.
func (tf *TestForge) Requests() int { return int(tf.requests.Load()) }

// LastAuthorization returns the Authorization header of the latest request.
func (tf *TestForge) LastAuthorization() string {
	v, _ := tf.lastAuth.Load().(string)
	return v
}

// AddRepository registers repo, replacing any repository with the same name.
func (tf *TestForge) AddRepository(repo TestRepository) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	r := repo
	if r.Files == nil {
		r.Files = map[string]string{}
	}
	tf.repos[r.FullName] = &r
}

// FailRepository makes repository metadata requests for fullName fail.
func (tf *TestForge) FailRepository(fullName string, mode FailMode) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.repoFail[fullName] = mode
}

// FailTree makes tree listings for fullName fail.
func (tf *TestForge) FailTree(fullName string, mode FailMode) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.treeFail[fullName] = mode
}

// FailFile makes content requests for one file fail.
func (tf *TestForge) FailFile(fullName, filePath string, mode FailMode) {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	tf.fileFail[fullName+":"+filePath] = mode
}

func (tf *TestForge) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tf.requests.Add(1)
		tf.lastAuth.Store(r.Header.Get("Authorization"))
		next.ServeHTTP(w, r)
	})
}

func (tf *TestForge) lookup(r *http.Request) (*TestRepository, string) {
	fullName := r.PathValue("owner") + "/" + r.PathValue("repo")
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return tf.repos[fullName], fullName
}

func (tf *TestForge) failure(set map[string]FailMode, key string) FailMode {
	tf.mu.Lock()
	defer tf.mu.Unlock()
	return set[key]
}

func (tf *TestForge) handleRepository(w http.ResponseWriter, r *http.Request) {
	repo, fullName := tf.lookup(r)
	if writeFailure(w, tf.failure(tf.repoFail, fullName)) {
		return
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, map[string]any{
		"full_name":      repo.FullName,
		"name":           path.Base(repo.FullName),
		"default_branch": repo.DefaultBranch,
	})
}

func (tf *TestForge) handleTree(w http.ResponseWriter, r *http.Request) {
	repo, fullName := tf.lookup(r)
	if writeFailure(w, tf.failure(tf.treeFail, fullName)) {
		return
	}
	if repo == nil || r.PathValue("branch") != repo.branch() {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	type entry struct {
		Path string `json:"path"`
		Type string `json:"type"`
		SHA  string `json:"sha"`
		Size int    `json:"size,omitempty"`
	}
	dirs := map[string]bool{}
	var entries []entry
	for _, p := range repo.paths() {
		for dir := path.Dir(p); dir != "." && !dirs[dir]; dir = path.Dir(dir) {
			dirs[dir] = true
			entries = append(entries, entry{Path: dir, Type: "tree", SHA: sha(dir)})
		}
		entries = append(entries, entry{Path: p, Type: "blob", SHA: sha(p), Size: len(repo.Files[p])})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	writeJSON(w, map[string]any{
		"sha":       sha(fullName),
		"tree":      entries,
		"truncated": repo.Truncated,
	})
}

func (tf *TestForge) handleContents(w http.ResponseWriter, r *http.Request) {
	repo, fullName := tf.lookup(r)
	filePath := r.PathValue("path")
	mode := tf.failure(tf.fileFail, fullName+":"+filePath)
	if mode == FailModeEncoding {
		writeJSON(w, map[string]any{"type": "file", "path": filePath, "encoding": "none", "content": ""})
		return
	}
	if writeFailure(w, mode) {
		return
	}
	if repo == nil {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if ref := r.URL.Query().Get("ref"); ref != "" && ref != repo.branch() {
		writeError(w, http.StatusNotFound, "No commit found for the ref "+ref)
		return
	}
	content, ok := repo.Files[filePath]
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeJSON(w, map[string]any{
		"type":     "file",
		"name":     path.Base(filePath),
		"path":     filePath,
		"encoding": "base64",
		"content":  wrap(base64.StdEncoding.EncodeToString([]byte(content))),
	})
}

func (r *TestRepository) branch() string {
	if r.DefaultBranch == "" {
		return "main"
	}
	return r.DefaultBranch
}

func (r *TestRepository) paths() []string {
	out := make([]string, 0, len(r.Files))
	for p := range r.Files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func writeFailure(w http.ResponseWriter, mode FailMode) bool {
	switch mode {
	case FailModeNone, FailModeEncoding:
		return false
	case FailModeAuth:
		writeError(w, http.StatusUnauthorized, "Bad credentials")
	case FailModeNotFound:
		writeError(w, http.StatusNotFound, "Not Found")
	case FailModeRateLimit:
		w.Header().Set("X-RateLimit-Limit", "60")
		w.Header().Set("X-RateLimit-Remaining", "0")
		w.Header().Set("X-RateLimit-Reset", "4102444800")
		writeError(w, http.StatusForbidden, "API rate limit exceeded")
	default:
		writeError(w, http.StatusInternalServerError, "Server Error")
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message":           message,
		"documentation_url": "https://docs.github.com/rest",
	})
}

// wrap breaks base64 into 60 column lines like the real API.
func wrap(s string) string {
	var b strings.Builder
	for len(s) > 60 {
		b.WriteString(s[:60])
		b.WriteByte('\n')
		s = s[60:]
	}
	b.WriteString(s)
	b.WriteByte('\n')
	return b.String()
}

func sha(s string) string {
	var h uint32 = 2166136261
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return fmt.Sprintf("%040x", h)
}
