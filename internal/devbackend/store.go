// Package devbackend is an in-memory implementation of the remote task API
// contract, for local development and tests.
package devbackend

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mytasks/internal/service"
)

// Default page size of task listings.
const DefaultPageLimit = 20

var (
	ErrNotFound           = errors.New("not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidCursor      = errors.New("invalid cursor")
)

type account struct {
	user service.User
	hash []byte
}

type grant struct {
	userID  string
	expires time.Time
}

type taskRecord struct {
	userID string
	seq    int64
	task   service.Task
}

// Store holds users, tokens and tasks in memory.
type Store struct {
	mu       sync.Mutex
	byEmail  map[string]*account
	byID     map[string]*account
	refresh  map[string]grant
	tasks    map[string]*taskRecord
	seq      int64
	issuer   tokenIssuer
	now      func() time.Time
	hashCost int
}

// NewStore creates an empty store signing access tokens with secret.
func NewStore(secret []byte) *Store {
	return &Store{
		byEmail:  make(map[string]*account),
		byID:     make(map[string]*account),
		refresh:  make(map[string]grant),
		tasks:    make(map[string]*taskRecord),
		issuer:   tokenIssuer{secret: secret},
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// SetClock replaces the time source (for testing).
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// SetHashCost sets the bcrypt cost (for testing).
func (s *Store) SetHashCost(cost int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashCost = cost
}

func normEmail(email string) string {
	return strings.ToLower(email)
}

// Register creates an account and signs it in.
func (s *Store) Register(in service.RegisterInput) (service.AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := in.Validate(); err != nil {
		return service.AuthResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := normEmail(in.Email)
	if _, ok := s.byEmail[key]; ok {
		return service.AuthResult{}, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return service.AuthResult{}, fmt.Errorf("hash password: %w", err)
	}
	acc := &account{
		user: service.User{ID: uuid.NewString(), Name: in.Name, Email: in.Email},
		hash: hash,
	}
	s.byEmail[key] = acc
	s.byID[acc.user.ID] = acc

	return s.signInLocked(acc.user)
}

// Login checks credentials and issues a token pair.
func (s *Store) Login(in service.LoginInput) (service.AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := in.Validate(); err != nil {
		return service.AuthResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byEmail[normEmail(in.Email)]
	if !ok {
		return service.AuthResult{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(in.Password)); err != nil {
		return service.AuthResult{}, ErrInvalidCredentials
	}
	return s.signInLocked(acc.user)
}

func (s *Store) signInLocked(u service.User) (service.AuthResult, error) {
	tokens, err := s.issueLocked(u.ID)
	if err != nil {
		return service.AuthResult{}, err
	}
	return service.AuthResult{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken, User: u}, nil
}

func (s *Store) issueLocked(userID string) (service.AuthTokens, error) {
	now := s.now()
	access, err := s.issuer.issueAccess(userID, now)
	if err != nil {
		return service.AuthTokens{}, err
	}
	refresh, err := newOpaqueToken()
	if err != nil {
		return service.AuthTokens{}, fmt.Errorf("generate refresh token: %w", err)
	}
	s.refresh[refresh] = grant{userID: userID, expires: now.Add(RefreshTTL)}
	return service.AuthTokens{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh rotates a refresh token. The old token stops working.
func (s *Store) Refresh(refreshToken string) (service.AuthTokens, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.refresh[refreshToken]
	if !ok {
		return service.AuthTokens{}, ErrInvalidToken
	}
	delete(s.refresh, refreshToken)
	if !s.now().Before(g.expires) {
		return service.AuthTokens{}, ErrInvalidToken
	}
	if _, ok := s.byID[g.userID]; !ok {
		return service.AuthTokens{}, ErrInvalidToken
	}
	return s.issueLocked(g.userID)
}

// Logout revokes a refresh token. Unknown tokens are ignored.
func (s *Store) Logout(refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, refreshToken)
}

// Authenticate returns the user owning a valid access token.
func (s *Store) Authenticate(accessToken string) (service.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID, err := s.issuer.parseAccess(accessToken, s.now())
	if err != nil {
		return service.User{}, err
	}
	acc, ok := s.byID[userID]
	if !ok {
		return service.User{}, ErrInvalidToken
	}
	return acc.user, nil
}

// ListTasks returns one page of the user's tasks, ordered by creation.
func (s *Store) ListTasks(userID string, f service.TaskFilters) (service.TaskPage, error) {
	if err := f.Validate(); err != nil {
		return service.TaskPage{}, err
	}
	offset, err := decodeCursor(f.Cursor)
	if err != nil {
		return service.TaskPage{}, err
	}
	limit := f.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}

	s.mu.Lock()
	var matched []taskRecord
	search := strings.ToLower(f.Search)
	for _, rec := range s.tasks {
		if rec.userID != userID {
			continue
		}
		if f.Status != "" && rec.task.Status != f.Status {
			continue
		}
		if search != "" && !matches(rec.task, search) {
			continue
		}
		matched = append(matched, *rec)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		if f.SortOrder == service.SortAsc {
			return matched[i].seq < matched[j].seq
		}
		return matched[i].seq > matched[j].seq
	})

	page := service.TaskPage{Data: []service.Task{}}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := min(offset+limit, len(matched))
	for _, rec := range matched[offset:end] {
		page.Data = append(page.Data, rec.task)
	}
	if end < len(matched) {
		next := encodeCursor(end)
		page.PageInfo = service.PageInfo{NextCursor: &next, HasNextPage: true}
	}
	return page, nil
}

func matches(t service.Task, search string) bool {
	if strings.Contains(strings.ToLower(t.Title), search) {
		return true
	}
	return t.Description != nil && strings.Contains(strings.ToLower(*t.Description), search)
}

// CreateTask stores a new task for the user.
func (s *Store) CreateTask(userID string, in service.CreateTaskInput) (service.Task, error) {
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	priority := in.Priority
	if priority == "" {
		priority = service.PriorityMedium
	}
	s.seq++
	rec := &taskRecord{
		userID: userID,
		seq:    s.seq,
		task: service.Task{
			ID:          uuid.NewString(),
			Title:       in.Title,
			Description: in.Description,
			Status:      service.StatusPending,
			Priority:    priority,
			DueDate:     in.DueDate,
			CreatedAt:   s.timestamp(),
		},
	}
	s.tasks[rec.task.ID] = rec
	return rec.task, nil
}

// GetTask returns one of the user's tasks.
func (s *Store) GetTask(userID, id string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookupLocked(userID, id)
	if err != nil {
		return service.Task{}, err
	}
	return rec.task, nil
}

// UpdateTask applies a partial update.
func (s *Store) UpdateTask(userID, id string, in service.UpdateTaskInput) (service.Task, error) {
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.lookupLocked(userID, id)
	if err != nil {
		return service.Task{}, err
	}
	t := &rec.task
	if in.Title != nil {
		t.Title = *in.Title
	}
	switch {
	case in.Description != nil:
		t.Description = in.Description
	case in.ClearDescription:
		t.Description = nil
	}
	if in.Priority != nil {
		t.Priority = *in.Priority
	}
	if in.DueDate != nil {
		t.DueDate = in.DueDate
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	ts := s.timestamp()
	t.UpdatedAt = &ts
	return *t, nil
}

// UpdateStatus changes a task's status.
func (s *Store) UpdateStatus(userID, id string, in service.UpdateTaskStatusInput) (service.Task, error) {
	if err := in.Validate(); err != nil {
		return service.Task{}, err
	}
	st := in.Status
	return s.UpdateTask(userID, id, service.UpdateTaskInput{Status: &st})
}

// DeleteTask removes one of the user's tasks.
func (s *Store) DeleteTask(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookupLocked(userID, id); err != nil {
		return err
	}
	delete(s.tasks, id)
	return nil
}

// lookupLocked hides other users' tasks behind ErrNotFound.
func (s *Store) lookupLocked(userID, id string) (*taskRecord, error) {
	rec, ok := s.tasks[id]
	if !ok || rec.userID != userID {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("o:" + strconv.Itoa(offset)))
}

func decodeCursor(c string) (int, error) {
	if c == "" {
		return 0, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(c)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	n, err := strconv.Atoi(strings.TrimPrefix(string(raw), "o:"))
	if err != nil || n < 0 || !strings.HasPrefix(string(raw), "o:") {
		return 0, ErrInvalidCursor
	}
	return n, nil
}
