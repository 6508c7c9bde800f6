package service

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"sgea/backend/internal/model"
	"sgea/backend/internal/repository"
	pkgerrors "sgea/backend/pkg/errors"
	"sgea/backend/pkg/redis"
)

// ── Mock PersonRepository ──

type mockPersonRepo struct {
	persons map[string]*model.Person
	order   []string
}

func newMockPersonRepo() *mockPersonRepo {
	return &mockPersonRepo{persons: make(map[string]*model.Person)}
}

func (m *mockPersonRepo) Create(_ context.Context, person *model.Person) error {
	if person.PersonID == "" {
		person.PersonID = "person-" + person.Email
	}
	person.CreatedAt = time.Now()
	m.persons[person.PersonID] = person
	m.order = append(m.order, person.PersonID)
	return nil
}

func (m *mockPersonRepo) GetByID(_ context.Context, id string) (*model.Person, error) {
	if p, ok := m.persons[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) GetByEmail(_ context.Context, email string) (*model.Person, error) {
	for _, p := range m.persons {
		if strings.EqualFold(p.Email, email) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPersonRepo) Update(_ context.Context, person *model.Person) error {
	cp := *person
	m.persons[person.PersonID] = &cp
	return nil
}

func (m *mockPersonRepo) List(_ context.Context) ([]model.Person, error) {
	result := make([]model.Person, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.persons[id])
	}
	return result, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events map[string]*model.Event
	order  []string
	// beforeUpdate 在版本比较前调用，用于模拟并发写入
	beforeUpdate func(stored *model.Event)
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[string]*model.Event)}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	if event.EventID == "" {
		event.EventID = "event-" + event.Name
	}
	if event.Version == 0 {
		event.Version = 1
	}
	cp := *event
	m.events[event.EventID] = &cp
	m.order = append(m.order, event.EventID)
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id string) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	stored, ok := m.events[event.EventID]
	if !ok {
		return pkgerrors.ErrOptimisticLock
	}
	if m.beforeUpdate != nil {
		m.beforeUpdate(stored)
	}
	if stored.Version != event.Version {
		return pkgerrors.ErrOptimisticLock
	}
	event.Version++
	cp := *event
	m.events[event.EventID] = &cp
	return nil
}

func (m *mockEventRepo) List(_ context.Context) ([]model.Event, error) {
	result := make([]model.Event, 0, len(m.order))
	for _, id := range m.order {
		result = append(result, *m.events[id])
	}
	return result, nil
}

func (m *mockEventRepo) ListStartingAfter(_ context.Context, day time.Time) ([]model.Event, error) {
	var result []model.Event
	for _, id := range m.order {
		if m.events[id].StartDate.After(day) {
			result = append(result, *m.events[id])
		}
	}
	return result, nil
}

func (m *mockEventRepo) ListByOrganizer(_ context.Context, organizerID string) ([]model.Event, error) {
	var result []model.Event
	for _, id := range m.order {
		if m.events[id].OrganizerID == organizerID {
			result = append(result, *m.events[id])
		}
	}
	return result, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
	order       []string
	persons     *mockPersonRepo
	seq         int
	// beforeWrite 在条件写入前调用，用于模拟并发修改
	beforeWrite func(stored *model.Enrollment)
}

func newMockEnrollmentRepo(persons *mockPersonRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment), persons: persons}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.Enrollment) error {
	if enrollment.EnrollmentID == "" {
		m.seq++
		enrollment.EnrollmentID = "enrollment-" + strconv.Itoa(m.seq)
	}
	cp := *enrollment
	m.enrollments[enrollment.EnrollmentID] = &cp
	m.order = append(m.order, enrollment.EnrollmentID)
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if en, ok := m.enrollments[id]; ok {
		cp := *en
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) GetActive(_ context.Context, personID, eventID string) (*model.Enrollment, error) {
	for _, id := range m.order {
		en := m.enrollments[id]
		if en.PersonID == personID && en.EventID == eventID && en.IsActive() {
			cp := *en
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) MarkCancelled(_ context.Context, id string) (bool, error) {
	return m.updateActive(id, func(en *model.Enrollment) { en.Status = model.EnrollmentCancelled }), nil
}

func (m *mockEnrollmentRepo) ConfirmAttendance(_ context.Context, id string) (bool, error) {
	return m.updateActive(id, func(en *model.Enrollment) { en.AttendanceConfirmed = true }), nil
}

func (m *mockEnrollmentRepo) updateActive(id string, apply func(en *model.Enrollment)) bool {
	en, ok := m.enrollments[id]
	if !ok {
		return false
	}
	if m.beforeWrite != nil {
		m.beforeWrite(en)
	}
	if !en.IsActive() {
		return false
	}
	apply(en)
	return true
}

func (m *mockEnrollmentRepo) ListByEvent(_ context.Context, eventID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, id := range m.order {
		en := *m.enrollments[id]
		if en.EventID != eventID {
			continue
		}
		if p, ok := m.persons.persons[en.PersonID]; ok {
			cp := *p
			en.Person = &cp
		}
		result = append(result, en)
	}
	return result, nil
}

func (m *mockEnrollmentRepo) ListByPerson(_ context.Context, personID string) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, id := range m.order {
		if m.enrollments[id].PersonID == personID {
			result = append(result, *m.enrollments[id])
		}
	}
	return result, nil
}

func (m *mockEnrollmentRepo) activeCount(eventID string) int {
	n := 0
	for _, en := range m.enrollments {
		if en.EventID == eventID && en.IsActive() {
			n++
		}
	}
	return n
}

// ── Mock WorkRepository ──

type mockWorkRepo struct {
	works map[string]*model.Work
	order []string
}

func newMockWorkRepo() *mockWorkRepo {
	return &mockWorkRepo{works: make(map[string]*model.Work)}
}

func (m *mockWorkRepo) Create(_ context.Context, work *model.Work) error {
	if work.WorkID == "" {
		work.WorkID = "work-" + work.Title
	}
	cp := *work
	m.works[work.WorkID] = &cp
	m.order = append(m.order, work.WorkID)
	return nil
}

func (m *mockWorkRepo) GetByID(_ context.Context, id string) (*model.Work, error) {
	if w, ok := m.works[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkRepo) Update(_ context.Context, work *model.Work) error {
	cp := *work
	m.works[work.WorkID] = &cp
	return nil
}

func (m *mockWorkRepo) list(match func(*model.Work) bool) []model.Work {
	var result []model.Work
	for _, id := range m.order {
		if match(m.works[id]) {
			result = append(result, *m.works[id])
		}
	}
	return result
}

func (m *mockWorkRepo) ListByEvent(_ context.Context, eventID string) ([]model.Work, error) {
	return m.list(func(w *model.Work) bool { return w.EventID == eventID }), nil
}

func (m *mockWorkRepo) ListByAuthor(_ context.Context, authorID string) ([]model.Work, error) {
	return m.list(func(w *model.Work) bool { return w.AuthorID == authorID }), nil
}

func (m *mockWorkRepo) ListByStatus(_ context.Context, status model.WorkStatus) ([]model.Work, error) {
	return m.list(func(w *model.Work) bool { return w.Status == status }), nil
}

// ── Mock EvaluationRepository ──

type mockEvaluationRepo struct {
	evaluations []model.Evaluation
}

func newMockEvaluationRepo() *mockEvaluationRepo {
	return &mockEvaluationRepo{}
}

func (m *mockEvaluationRepo) Create(_ context.Context, evaluation *model.Evaluation) error {
	if evaluation.EvaluationID == "" {
		evaluation.EvaluationID = "evaluation-" + strconv.Itoa(len(m.evaluations)+1)
	}
	m.evaluations = append(m.evaluations, *evaluation)
	return nil
}

func (m *mockEvaluationRepo) ListByWork(_ context.Context, workID string) ([]model.Evaluation, error) {
	var result []model.Evaluation
	for _, ev := range m.evaluations {
		if ev.WorkID == workID {
			result = append(result, ev)
		}
	}
	return result, nil
}

// ── Mock CertificateRepository ──

type mockCertificateRepo struct {
	certs []model.Certificate
	// beforeCreate 在插入前调用，用于模拟并发签发
	beforeCreate func(m *mockCertificateRepo, cert *model.Certificate)
}

func newMockCertificateRepo() *mockCertificateRepo {
	return &mockCertificateRepo{}
}

func (m *mockCertificateRepo) Create(_ context.Context, cert *model.Certificate) error {
	if m.beforeCreate != nil {
		m.beforeCreate(m, cert)
	}
	for _, c := range m.certs {
		if c.Key() == cert.Key() || c.ValidationCode == cert.ValidationCode {
			return gorm.ErrDuplicatedKey
		}
	}
	if cert.CertificateID == "" {
		cert.CertificateID = "cert-" + strconv.Itoa(len(m.certs)+1)
	}
	m.certs = append(m.certs, *cert)
	return nil
}

func (m *mockCertificateRepo) GetByCode(_ context.Context, code string) (*model.Certificate, error) {
	for _, c := range m.certs {
		if c.ValidationCode == code {
			cp := c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificateRepo) Exists(_ context.Context, key model.CertificateKey) (bool, error) {
	for _, c := range m.certs {
		if c.Key() == key {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockCertificateRepo) ListByPerson(_ context.Context, personID string) ([]model.Certificate, error) {
	var result []model.Certificate
	for _, c := range m.certs {
		if c.PersonID == personID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (m *mockCertificateRepo) ListByEvent(_ context.Context, eventID string) ([]model.Certificate, error) {
	var result []model.Certificate
	for _, c := range m.certs {
		if c.EventID == eventID {
			result = append(result, c)
		}
	}
	return result, nil
}

// ── Mock Cache / TokenBlacklist ──

type mockCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	gets    int
	hits    int
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string][]byte)}
}

func (m *mockCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	v, ok := m.entries[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	m.hits++
	return json.Unmarshal(v, dest)
}

func (m *mockCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

type mockBlacklist struct {
	tokens map[string]time.Duration
}

func (m *mockBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if m.tokens == nil {
		m.tokens = make(map[string]time.Duration)
	}
	m.tokens[jti] = ttl
	return nil
}

// ── 测试装配 ──

// testRepos 一组共享状态的 mock 仓储
type testRepos struct {
	person      *mockPersonRepo
	event       *mockEventRepo
	enrollment  *mockEnrollmentRepo
	work        *mockWorkRepo
	evaluation  *mockEvaluationRepo
	certificate *mockCertificateRepo
}

func newTestRepos() (*repository.Repository, *testRepos) {
	persons := newMockPersonRepo()
	m := &testRepos{
		person:      persons,
		event:       newMockEventRepo(),
		enrollment:  newMockEnrollmentRepo(persons),
		work:        newMockWorkRepo(),
		evaluation:  newMockEvaluationRepo(),
		certificate: newMockCertificateRepo(),
	}
	repo := &repository.Repository{
		Person:      m.person,
		Event:       m.event,
		Enrollment:  m.enrollment,
		Work:        m.work,
		Evaluation:  m.evaluation,
		Certificate: m.certificate,
	}
	return repo, m
}

// fixedClock 可推进的测试时钟
type fixedClock struct {
	now time.Time
}

func newFixedClock(day string) *fixedClock {
	return &fixedClock{now: mustDay(day).Add(10 * time.Hour)}
}

func (c *fixedClock) Now() time.Time { return c.now }

func (c *fixedClock) Set(day string) { c.now = mustDay(day).Add(10 * time.Hour) }

func mustDay(s string) time.Time {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := mustDay(s)
	return &d
}

func strPtr(s string) *string { return &s }

func seedPerson(m *testRepos, id, email string, role model.Role) *model.Person {
	p := &model.Person{PersonID: id, FullName: "Pessoa " + id, Email: email, Role: role, PasswordHash: "x"}
	m.person.Create(context.Background(), p)
	return p
}

func seedEvent(m *testRepos, id, organizerID, start, end string, capacity int) *model.Event {
	e := &model.Event{
		EventID:     id,
		Name:        "Evento " + id,
		StartDate:   mustDay(start),
		EndDate:     mustDay(end),
		Capacity:    capacity,
		OrganizerID: organizerID,
	}
	m.event.Create(context.Background(), e)
	return e
}
