package handlers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"server/internal/domain"
	"server/internal/sqlinline"
)

// fakeStore emulates the store contract the handlers rely on: the atomic
// reserve-and-create runs under one lock, exactly like the database-side
// function serializes concurrent admissions on the profile row.
type fakeStore struct {
	mu      sync.Mutex
	credits map[string]int
	jobs    map[string]*fakeJob
	order   []string

	execErr     error
	queryRowErr error
}

type fakeJob struct {
	id             string
	userID         string
	appearanceMode string
	ethnicity      string
	hair           string
	imageURL       string
	contentMode    string
	topic          string
	script         string
	audioURL       string
	resolution     string
	aspect         string
	cost           int
	status         string
	videoURL       string
	createdAt      time.Time
	updatedAt      time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		credits: make(map[string]int),
		jobs:    make(map[string]*fakeJob),
	}
}

func (f *fakeStore) addProfile(userID string, credits int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.credits[userID] = credits
}

func (f *fakeStore) creditsOf(userID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.credits[userID]
}

func (f *fakeStore) job(jobID string) *fakeJob {
	f.mu.Lock()
	defer f.mu.Unlock()
	if j, ok := f.jobs[jobID]; ok {
		copied := *j
		return &copied
	}
	return nil
}

func (f *fakeStore) jobCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.jobs)
}

type stubRow struct {
	scan func(dest ...any) error
}

func (r stubRow) Scan(dest ...any) error {
	if r.scan == nil {
		return pgx.ErrNoRows
	}
	return r.scan(dest...)
}

func (f *fakeStore) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if query != sqlinline.QFinalizePodcast {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
	}
	jobID := args[0].(string)
	status := args[1].(string)
	videoURL := args[2].(string)

	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	job.status = status
	job.videoURL = videoURL
	job.updatedAt = time.Now()
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeStore) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if f.queryRowErr != nil {
		err := f.queryRowErr
		return stubRow{scan: func(...any) error { return err }}
	}
	switch query {
	case sqlinline.QSelectActivePodcast:
		return f.activePodcastRow(args[0].(string))
	case sqlinline.QReserveCreditsAndCreatePodcast:
		return f.reserveRow(args...)
	case sqlinline.QSelectPodcastForUser:
		return f.podcastRow(args[0].(string), args[1].(string))
	case sqlinline.QSelectProfile:
		return f.profileRow(args[0].(string))
	}
	return stubRow{scan: func(...any) error { return fmt.Errorf("unexpected query: %s", query) }}
}

func (f *fakeStore) activePodcastRow(userID string) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, job := range f.jobs {
		if job.userID == userID && job.status == string(domain.JobStatusProcessing) {
			id := job.id
			return stubRow{scan: func(dest ...any) error {
				*(dest[0].(*string)) = id
				return nil
			}}
		}
	}
	return stubRow{}
}

func (f *fakeStore) reserveRow(args ...any) pgx.Row {
	userID := args[0].(string)
	jobID := args[1].(string)
	cost := args[12].(int)

	f.mu.Lock()
	defer f.mu.Unlock()
	balance, ok := f.credits[userID]
	if !ok {
		return stubRow{scan: func(...any) error {
			return errors.New("ERROR: profile_not_found (SQLSTATE P0001)")
		}}
	}
	if balance < cost {
		return stubRow{scan: func(...any) error {
			return errors.New("ERROR: insufficient_credits (SQLSTATE P0001)")
		}}
	}
	f.credits[userID] = balance - cost
	now := time.Now()
	f.jobs[jobID] = &fakeJob{
		id:             jobID,
		userID:         userID,
		appearanceMode: args[2].(string),
		ethnicity:      args[3].(string),
		hair:           args[4].(string),
		imageURL:       args[5].(string),
		contentMode:    args[6].(string),
		topic:          args[7].(string),
		script:         args[8].(string),
		audioURL:       args[9].(string),
		resolution:     args[10].(string),
		aspect:         args[11].(string),
		cost:           cost,
		status:         string(domain.JobStatusProcessing),
		createdAt:      now,
		updatedAt:      now,
	}
	f.order = append(f.order, jobID)
	remaining := f.credits[userID]
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = jobID
		*(dest[1].(*int)) = remaining
		return nil
	}}
}

func (f *fakeStore) podcastRow(jobID, userID string) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	job, ok := f.jobs[jobID]
	if !ok || job.userID != userID {
		return stubRow{}
	}
	copied := *job
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = copied.id
		*(dest[1].(*string)) = copied.userID
		*(dest[2].(*string)) = copied.appearanceMode
		*(dest[3].(*string)) = copied.ethnicity
		*(dest[4].(*string)) = copied.hair
		*(dest[5].(*string)) = copied.imageURL
		*(dest[6].(*string)) = copied.contentMode
		*(dest[7].(*string)) = copied.topic
		*(dest[8].(*string)) = copied.script
		*(dest[9].(*string)) = copied.audioURL
		*(dest[10].(*string)) = copied.resolution
		*(dest[11].(*string)) = copied.aspect
		*(dest[12].(*int)) = copied.cost
		*(dest[13].(*string)) = copied.status
		*(dest[14].(*string)) = copied.videoURL
		*(dest[15].(*time.Time)) = copied.createdAt
		*(dest[16].(*time.Time)) = copied.updatedAt
		return nil
	}}
}

func (f *fakeStore) profileRow(userID string) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	credits, ok := f.credits[userID]
	if !ok {
		return stubRow{}
	}
	now := time.Now()
	return stubRow{scan: func(dest ...any) error {
		*(dest[0].(*string)) = userID
		*(dest[1].(*int)) = credits
		*(dest[2].(*time.Time)) = now
		*(dest[3].(*time.Time)) = now
		return nil
	}}
}

func (f *fakeStore) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if query != sqlinline.QListPodcastsForUser {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	userID := args[0].(string)
	f.mu.Lock()
	defer f.mu.Unlock()
	var jobs []fakeJob
	for i := len(f.order) - 1; i >= 0; i-- {
		job := f.jobs[f.order[i]]
		if job.userID == userID {
			jobs = append(jobs, *job)
		}
	}
	return &fakeRows{jobs: jobs}, nil
}

type rowsBase struct{}

func (rowsBase) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (rowsBase) Conn() *pgx.Conn                              { return nil }
func (rowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (rowsBase) RawValues() [][]byte                          { return nil }
func (rowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

type fakeRows struct {
	rowsBase
	jobs []fakeJob
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.jobs) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.jobs) {
		return pgx.ErrNoRows
	}
	job := r.jobs[r.idx-1]
	*(dest[0].(*string)) = job.id
	*(dest[1].(*string)) = job.appearanceMode
	*(dest[2].(*string)) = job.contentMode
	*(dest[3].(*string)) = job.topic
	*(dest[4].(*string)) = job.resolution
	*(dest[5].(*string)) = job.aspect
	*(dest[6].(*int)) = job.cost
	*(dest[7].(*string)) = job.status
	*(dest[8].(*string)) = job.videoURL
	*(dest[9].(*time.Time)) = job.createdAt
	*(dest[10].(*time.Time)) = job.updatedAt
	return nil
}

func (r *fakeRows) Err() error { return nil }
func (r *fakeRows) Close()     {}

// fakeDispatcher records dispatched jobs and signals each one so tests can
// wait for the fire-and-forget goroutine.
type fakeDispatcher struct {
	mu       sync.Mutex
	jobs     []domain.Job
	notified chan struct{}
	err      error
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{notified: make(chan struct{}, 16)}
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, job domain.Job) error {
	d.mu.Lock()
	d.jobs = append(d.jobs, job)
	d.mu.Unlock()
	d.notified <- struct{}{}
	return d.err
}

func (d *fakeDispatcher) wait(timeout time.Duration) bool {
	select {
	case <-d.notified:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (d *fakeDispatcher) dispatched() []domain.Job {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]domain.Job(nil), d.jobs...)
}
