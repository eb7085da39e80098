package meilitest

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"sync"
	"time"

	"meilikit/src/pkg/meili"
)

// Messages written by the stand-in server. They match the wording of the
// real server so callers can rely on them.
const (
	msgMissingUID       = "Index creation must have an uid"
	msgInvalidUID       = "Index must have a valid uid; Index uid can be of type integer or string only composed of alphanumeric characters, hyphens (-) and underscores (_)."
	msgAlreadyExists    = "Impossible to create index; index already exists"
	msgIndexNotFound    = "Index %s not found"
	msgPrimaryKeyLocked = "The primary key cannot be updated"
)

var validUID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// apiError is a failure the handlers turn into an error body.
type apiError struct {
	status int
	body   meili.ErrorBody
}

func (e *apiError) Error() string {
	return e.body.Message
}

func newAPIError(status int, code, message string) *apiError {
	return &apiError{status: status, body: meili.NewAPIError(code, message)}
}

func indexNotFound(uid string) *apiError {
	return newAPIError(http.StatusNotFound, meili.CodeIndexNotFound, fmt.Sprintf(msgIndexNotFound, uid))
}

type indexRecord struct {
	uid        string
	name       string
	primaryKey *string
	createdAt  time.Time
	updatedAt  time.Time
}

func (r *indexRecord) response() meili.IndexResponse {
	resp := meili.IndexResponse{
		UID:       r.uid,
		Name:      r.name,
		CreatedAt: r.createdAt,
		UpdatedAt: r.updatedAt,
	}
	if r.primaryKey != nil {
		pk := *r.primaryKey
		resp.PrimaryKey = &pk
	}
	return resp
}

// Store is the in-memory index registry behind the stand-in server.
type Store struct {
	mu         sync.RWMutex
	indexes    map[string]*indexRecord
	lastUpdate *time.Time
	now        func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		indexes: make(map[string]*indexRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every index ordered by creation time.
func (s *Store) List() []meili.IndexResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]meili.IndexResponse, 0, len(s.indexes))
	for _, rec := range s.indexes {
		out = append(out, rec.response())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].UID < out[j].UID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Create registers a new index.
func (s *Store) Create(req meili.CreateIndexRequest) (meili.IndexResponse, error) {
	if req.UID == "" {
		return meili.IndexResponse{}, newAPIError(http.StatusBadRequest, meili.CodeMissingIndexUID, msgMissingUID)
	}
	if !validUID.MatchString(req.UID) {
		return meili.IndexResponse{}, newAPIError(http.StatusBadRequest, meili.CodeInvalidIndexUID, msgInvalidUID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.indexes[req.UID]; exists {
		return meili.IndexResponse{}, newAPIError(http.StatusBadRequest, meili.CodeIndexAlreadyExists, msgAlreadyExists)
	}

	now := s.now()
	rec := &indexRecord{
		uid:       req.UID,
		name:      req.Name,
		createdAt: now,
		updatedAt: now,
	}
	if rec.name == "" {
		rec.name = req.UID
	}
	if req.PrimaryKey != "" {
		pk := req.PrimaryKey
		rec.primaryKey = &pk
	}
	s.indexes[req.UID] = rec
	s.touch(now)

	return rec.response(), nil
}

// Get returns the index summary of uid.
func (s *Store) Get(uid string) (meili.IndexResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.indexes[uid]
	if !ok {
		return meili.IndexResponse{}, indexNotFound(uid)
	}
	return rec.response(), nil
}

// Update applies req to uid. A primary key can be set once.
func (s *Store) Update(uid string, req meili.UpdateIndexRequest) (meili.IndexResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.indexes[uid]
	if !ok {
		return meili.IndexResponse{}, indexNotFound(uid)
	}

	if req.PrimaryKey != "" {
		if rec.primaryKey != nil {
			return meili.IndexResponse{}, newAPIError(http.StatusBadRequest, meili.CodePrimaryKeyPresent, msgPrimaryKeyLocked)
		}
		pk := req.PrimaryKey
		rec.primaryKey = &pk
	}
	if req.Name != "" {
		rec.name = req.Name
	}

	now := s.now()
	rec.updatedAt = now
	s.touch(now)

	return rec.response(), nil
}

// Delete removes uid.
func (s *Store) Delete(uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.indexes[uid]; !ok {
		return indexNotFound(uid)
	}
	delete(s.indexes, uid)
	s.touch(s.now())
	return nil
}

// IndexStats returns the statistics of uid. The stand-in holds no documents.
func (s *Store) IndexStats(uid string) (meili.IndexStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.indexes[uid]; !ok {
		return meili.IndexStats{}, indexNotFound(uid)
	}
	return emptyIndexStats(), nil
}

// Stats returns database statistics. LastUpdate stays nil until the first write.
func (s *Store) Stats() meili.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := meili.Stats{
		Indexes: make(map[string]meili.IndexStats, len(s.indexes)),
	}
	for uid, rec := range s.indexes {
		stats.Indexes[uid] = emptyIndexStats()
		stats.DatabaseSize += recordSize(rec)
	}
	if s.lastUpdate != nil {
		t := *s.lastUpdate
		stats.LastUpdate = &t
	}
	return stats
}

// Reset drops every index.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.indexes = make(map[string]*indexRecord)
	s.lastUpdate = nil
}

// touch must be called with the write lock held.
func (s *Store) touch(t time.Time) {
	s.lastUpdate = &t
}

func emptyIndexStats() meili.IndexStats {
	return meili.IndexStats{FieldsFrequency: map[string]int64{}}
}

// recordSize approximates the bytes an index occupies on disk.
func recordSize(rec *indexRecord) int64 {
	size := int64(len(rec.uid) + len(rec.name) + 64)
	if rec.primaryKey != nil {
		size += int64(len(*rec.primaryKey))
	}
	return size
}
