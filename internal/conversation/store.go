// Package conversation provides the durable, thread-safe record of chat
// exchanges per session, and derives the conversational context used for
// prompt construction. Sessions persist as one JSON file each, written
// via temp-file-then-rename so a crash never leaves a corrupt record.
package conversation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/nexacred/ragengine/internal/config"
	"github.com/nexacred/ragengine/internal/logger"
)

// Store manages sessions. A single mutex guards the in-memory index and
// the durable write; file I/O is the bottleneck, not lock contention.
type Store struct {
	dir            string
	maxHistory     int
	maxContextLen  int
	minQueryTokens int
	minOverlap     int

	mu       sync.Mutex
	sessions map[string]*Session

	archive *Archive // optional, may be nil
}

// NewStore creates a Store rooted at cfg.StorageDir, creating the
// directory if needed.
func NewStore(cfg config.ConversationConfig, archive *Archive) (*Store, error) {
	if cfg.StorageDir == "" {
		return nil, fmt.Errorf("conversation storage dir is required")
	}
	if err := os.MkdirAll(cfg.StorageDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	s := &Store{
		dir:            cfg.StorageDir,
		maxHistory:     cfg.MaxHistory,
		maxContextLen:  cfg.MaxContextLength,
		minQueryTokens: cfg.MinQueryTokens,
		minOverlap:     cfg.MinWordOverlap,
		sessions:       make(map[string]*Session),
		archive:        archive,
	}
	if s.maxHistory <= 0 {
		s.maxHistory = 10
	}
	if s.maxContextLen <= 0 {
		s.maxContextLen = 2000
	}
	if s.minQueryTokens <= 0 {
		s.minQueryTokens = 4
	}
	if s.minOverlap <= 0 {
		s.minOverlap = 2
	}
	logger.L.Info("conversation store initialized", "dir", s.dir)
	return s, nil
}

// Create allocates a new empty session for userID and persists it
// immediately. An empty userID defaults to "anonymous".
func (s *Store) Create(userID string) (string, error) {
	if userID == "" {
		userID = "anonymous"
	}
	now := time.Now().UTC()
	sess := &Session{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Messages:  []Message{},
		CreatedAt: now,
		UpdatedAt: now,
		Metadata:  map[string]any{"created_by": "ragengine"},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.SessionID] = sess
	if err := s.saveLocked(sess); err != nil {
		return "", err
	}
	logger.L.Info("created session", "session_id", sess.SessionID, "user_id", userID)
	return sess.SessionID, nil
}

// Append adds a message to the session and persists the updated record.
// A session missing from memory and disk is materialized under the given
// id rather than treated as an error. Once the history grows past
// maxHistory*2 it is trimmed back to the most recent maxHistory; the
// hysteresis avoids rewriting the whole slice on every append.
func (s *Store) Append(sessionID, role, content string, metadata map[string]any) error {
	if role != RoleUser && role != RoleAssistant {
		return fmt.Errorf("invalid role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrLoadLocked(sessionID)
	if sess == nil {
		now := time.Now().UTC()
		sess = &Session{
			SessionID: sessionID,
			UserID:    "anonymous",
			Messages:  []Message{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.sessions[sessionID] = sess
	}

	msg := Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
		Metadata:  metadata,
	}
	sess.Messages = append(sess.Messages, msg)
	if len(sess.Messages) > s.maxHistory*2 {
		sess.Messages = sess.Messages[len(sess.Messages)-s.maxHistory:]
	}
	sess.UpdatedAt = msg.Timestamp

	if err := s.saveLocked(sess); err != nil {
		return err
	}
	if s.archive != nil {
		s.archive.Record(sessionID, role, content, msg.Timestamp)
	}
	return nil
}

// Get returns the session from memory or disk. Absent from both it
// returns (nil, false); callers treat that as empty context, never as a
// fatal condition.
func (s *Store) Get(sessionID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrLoadLocked(sessionID)
	if sess == nil {
		return nil, false
	}
	return sess, true
}

// RecentContext formats the last n exchanges as User:/Assistant: lines.
// n <= 0 means all exchanges, bounded by maxContextLen characters.
// Trimming walks most-recent-first; the returned text is chronological.
func (s *Store) RecentContext(sessionID string, n int) string {
	exs := s.exchangesFor(sessionID)
	if n > 0 && len(exs) > n {
		exs = exs[len(exs)-n:]
	}
	return s.formatExchanges(exs)
}

// RelatedContext scores every historical exchange by word overlap with
// the query and returns the top 3 with overlap >= minOverlap, formatted
// chronologically among themselves.
func (s *Store) RelatedContext(sessionID, query string) string {
	queryWords := wordSet(query)
	type scored struct {
		pos   int
		score int
		ex    exchange
	}
	var relevant []scored
	for i, ex := range s.exchangesFor(sessionID) {
		words := wordSet(ex.User)
		for w := range wordSet(ex.Assistant) {
			words[w] = struct{}{}
		}
		overlap := 0
		for w := range queryWords {
			if _, ok := words[w]; ok {
				overlap++
			}
		}
		if overlap >= s.minOverlap {
			relevant = append(relevant, scored{pos: i, score: overlap, ex: ex})
		}
	}
	if len(relevant) == 0 {
		return ""
	}

	// Highest score first, keep at most 3, then restore chronology.
	for i := 0; i < len(relevant); i++ {
		for j := i + 1; j < len(relevant); j++ {
			if relevant[j].score > relevant[i].score {
				relevant[i], relevant[j] = relevant[j], relevant[i]
			}
		}
	}
	if len(relevant) > 3 {
		relevant = relevant[:3]
	}
	for i := 0; i < len(relevant); i++ {
		for j := i + 1; j < len(relevant); j++ {
			if relevant[j].pos < relevant[i].pos {
				relevant[i], relevant[j] = relevant[j], relevant[i]
			}
		}
	}

	exs := make([]exchange, len(relevant))
	for i, r := range relevant {
		exs[i] = r.ex
	}
	return s.formatExchanges(exs)
}

// exchangesFor snapshots the session's exchanges under the store lock.
// Append re-slices Messages while trimming, so the pairing must happen
// inside the lock; formatting and scoring work on the copy outside it.
func (s *Store) exchangesFor(sessionID string) []exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.getOrLoadLocked(sessionID)
	if sess == nil {
		return nil
	}
	return exchanges(sess.Messages)
}

// formatExchanges renders exchanges chronologically while budgeting
// maxContextLen from the most recent backwards, so older exchanges are
// the first to fall off.
func (s *Store) formatExchanges(exs []exchange) string {
	var parts []string
	total := 0
	for i := len(exs) - 1; i >= 0; i-- {
		block := fmt.Sprintf("User: %s\nAssistant: %s\n", clip(exs[i].User, 300), clip(exs[i].Assistant, 300))
		if total+len(block) > s.maxContextLen {
			break
		}
		parts = append([]string{block}, parts...)
		total += len(block)
	}
	return strings.Join(parts, "\n")
}

// ListSessions returns session ids on disk, filtered by userID when
// non-empty. Corrupt files are skipped.
func (s *Store) ListSessions(userID string) []string {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.L.Error("list sessions failed", "error", err)
		return nil
	}
	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if userID != "" {
			sess, err := s.readFile(id)
			if err != nil || sess.UserID != userID {
				continue
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// Stats reports store counters for the status surface.
func (s *Store) Stats() map[string]any {
	s.mu.Lock()
	cached := len(s.sessions)
	s.mu.Unlock()

	total := 0
	if entries, err := os.ReadDir(s.dir); err == nil {
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
				total++
			}
		}
	}
	stats := map[string]any{
		"total_sessions":  total,
		"cached_sessions": cached,
		"storage_dir":     s.dir,
	}
	if s.archive != nil {
		if n, err := s.archive.Count(); err == nil {
			stats["archived_messages"] = n
		}
	}
	return stats
}

// CleanupOlderThan deletes durable records whose last modification is
// older than age, dropping matching cache entries under lock. Returns
// the number of sessions removed.
func (s *Store) CleanupOlderThan(age time.Duration) int {
	cutoff := time.Now().Add(-age)
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logger.L.Error("cleanup scan failed", "error", err)
		return 0
	}

	removed := 0
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := e.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			logger.L.Warn("cleanup remove failed", "file", name, "error", err)
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		removed++
	}
	if removed > 0 {
		logger.L.Info("cleaned up old sessions", "count", removed)
		if s.archive != nil {
			s.archive.DeleteBefore(cutoff)
		}
	}
	return removed
}

func (s *Store) getOrLoadLocked(sessionID string) *Session {
	if sess, ok := s.sessions[sessionID]; ok {
		return sess
	}
	sess, err := s.readFile(sessionID)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L.Error("failed to load session", "session_id", sessionID, "error", err)
		}
		return nil
	}
	s.sessions[sessionID] = sess
	return sess
}

func (s *Store) readFile(sessionID string) (*Session, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, sessionID+".json"))
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return &sess, nil
}

// saveLocked writes the session record atomically: marshal, write a temp
// file in the same directory, then rename over the final path.
func (s *Store) saveLocked(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session %s: %w", sess.SessionID, err)
	}
	final := filepath.Join(s.dir, sess.SessionID+".json")
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session %s: %w", sess.SessionID, err)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("rename session %s: %w", sess.SessionID, err)
	}
	return nil
}

// clip truncates to at most limit bytes, backing up to a rune boundary
// so the result is always valid UTF-8.
func clip(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	cut := limit - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		set[w] = struct{}{}
	}
	return set
}
