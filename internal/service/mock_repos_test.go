package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"talleres-api/internal/model"
	"talleres-api/internal/repository"
)

// ── 内存存储 ──
// 所有 mock 共享同一份数据，便于 GetByID 等方法补齐关联

type mockStore struct {
	mu            sync.Mutex
	seq           int
	users         map[string]*model.User
	students      map[string]*model.StudentProfile
	instructors   map[string]*model.InstructorProfile
	workshops     map[string]*model.Workshop
	enrollments   map[string]*model.Enrollment
	announcements map[string]*model.Announcement
	events        map[string]*model.CalendarEvent
	emergency     map[string]*model.EmergencyInfo
}

func newMockStore() *mockStore {
	return &mockStore{
		users:         make(map[string]*model.User),
		students:      make(map[string]*model.StudentProfile),
		instructors:   make(map[string]*model.InstructorProfile),
		workshops:     make(map[string]*model.Workshop),
		enrollments:   make(map[string]*model.Enrollment),
		announcements: make(map[string]*model.Announcement),
		events:        make(map[string]*model.CalendarEvent),
		emergency:     make(map[string]*model.EmergencyInfo),
	}
}

func (s *mockStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

type mockRepos struct {
	store      *mockStore
	user       *mockUserRepo
	student    *mockStudentRepo
	instructor *mockInstructorRepo
	workshop   *mockWorkshopRepo
	enrollment *mockEnrollmentRepo
	aviso      *mockAnnouncementRepo
	calendar   *mockCalendarRepo
	emergency  *mockEmergencyRepo
}

// inlineTx 不开启真实事务，直接在同一组 mock 上执行回调
type inlineTx struct {
	repo *repository.Repository
}

func (t inlineTx) Transaction(ctx context.Context, fn func(ctx context.Context, tx *repository.Repository) error) error {
	return fn(ctx, t.repo)
}

// newMockRepository 组装基于内存 mock 的 Repository
func newMockRepository() (*repository.Repository, *mockRepos) {
	st := newMockStore()
	m := &mockRepos{
		store:      st,
		user:       &mockUserRepo{s: st},
		student:    &mockStudentRepo{s: st},
		instructor: &mockInstructorRepo{s: st},
		workshop:   &mockWorkshopRepo{s: st},
		enrollment: &mockEnrollmentRepo{s: st},
		aviso:      &mockAnnouncementRepo{s: st},
		calendar:   &mockCalendarRepo{s: st},
		emergency:  &mockEmergencyRepo{s: st},
	}
	repo := &repository.Repository{
		User:         m.user,
		Student:      m.student,
		Instructor:   m.instructor,
		Workshop:     m.workshop,
		Enrollment:   m.enrollment,
		Announcement: m.aviso,
		Calendar:     m.calendar,
		Emergency:    m.emergency,
	}
	repo.Tx = inlineTx{repo: repo}
	return repo, m
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	s *mockStore
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == user.Email {
			return errUniqueViolation
		}
	}
	if user.ID == "" {
		user.ID = m.s.nextID("user")
	}
	user.FechaRegistro = time.Now()
	m.s.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if u, ok := m.s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

// ── Mock StudentProfileRepository ──

type mockStudentRepo struct {
	s         *mockStore
	updateErr error
}

func (m *mockStudentRepo) Create(_ context.Context, p *model.StudentProfile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p.ID == "" {
		p.ID = m.s.nextID("alumno")
	}
	m.s.students[p.ID] = p
	return nil
}

func (m *mockStudentRepo) GetByID(_ context.Context, id string) (*model.StudentProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p, ok := m.s.students[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) GetByUsuarioID(_ context.Context, usuarioID string) (*model.StudentProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.students {
		if p.UsuarioID == usuarioID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockStudentRepo) NumeroControlTaken(_ context.Context, numeroControl, excludeUsuarioID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.students {
		if p.NumeroControl == numeroControl && p.UsuarioID != excludeUsuarioID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockStudentRepo) Update(_ context.Context, p *model.StudentProfile) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.students[p.ID] = p
	return nil
}

// ── Mock InstructorProfileRepository ──

type mockInstructorRepo struct {
	s *mockStore
}

func (m *mockInstructorRepo) GetByID(_ context.Context, id string) (*model.InstructorProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if p, ok := m.s.instructors[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) GetByUsuarioID(_ context.Context, usuarioID string) (*model.InstructorProfile, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, p := range m.s.instructors {
		if p.UsuarioID == usuarioID {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInstructorRepo) Update(_ context.Context, p *model.InstructorProfile) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.instructors[p.ID] = p
	return nil
}

// ── Mock WorkshopRepository ──

type mockWorkshopRepo struct {
	s *mockStore
	// lockCalls 记录 GetByIDForUpdate 调用次数
	lockCalls int
}

func (m *mockWorkshopRepo) Create(_ context.Context, w *model.Workshop) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if w.ID == "" {
		w.ID = m.s.nextID("taller")
	}
	m.s.workshops[w.ID] = w
	return nil
}

func (m *mockWorkshopRepo) GetByID(_ context.Context, id string) (*model.Workshop, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return m.get(id)
}

func (m *mockWorkshopRepo) GetByIDForUpdate(_ context.Context, id string) (*model.Workshop, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.lockCalls++
	return m.get(id)
}

func (m *mockWorkshopRepo) get(id string) (*model.Workshop, error) {
	w, ok := m.s.workshops[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *w
	if w.InstructorID != nil {
		if p, ok := m.s.instructors[*w.InstructorID]; ok {
			cp.Instructor = p
			if u, ok := m.s.users[p.UsuarioID]; ok {
				p.Usuario = u
			}
		}
	}
	return &cp, nil
}

func (m *mockWorkshopRepo) List(_ context.Context, f repository.WorkshopFilter) ([]model.Workshop, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Workshop
	for _, id := range m.sortedIDs() {
		w, _ := m.get(id)
		if f.Categoria != "" && w.Categoria != f.Categoria {
			continue
		}
		if f.Activo != nil && w.Activo != *f.Activo {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(w.Nombre), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockWorkshopRepo) ListByCategoria(ctx context.Context, categoria string) ([]model.Workshop, error) {
	return m.List(ctx, repository.WorkshopFilter{Categoria: categoria, Activo: boolPtr(true)})
}

func (m *mockWorkshopRepo) ListByInstructor(_ context.Context, instructorID string) ([]model.Workshop, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Workshop
	for _, id := range m.sortedIDs() {
		w, _ := m.get(id)
		if w.OwnerID() == instructorID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockWorkshopRepo) ListAvailableForStudent(_ context.Context, alumnoID string) ([]model.Workshop, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Workshop
	for _, id := range m.sortedIDs() {
		w, _ := m.get(id)
		if !w.Activo || countActive(m.s, id) >= int64(w.CupoMaximo) || existsActive(m.s, alumnoID, id) {
			continue
		}
		out = append(out, *w)
	}
	return out, nil
}

func (m *mockWorkshopRepo) Update(_ context.Context, w *model.Workshop) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.workshops[w.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *w
	cp.Instructor = nil
	m.s.workshops[w.ID] = &cp
	return nil
}

func (m *mockWorkshopRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.workshops[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.workshops, id)
	return nil
}

func (m *mockWorkshopRepo) Stats(_ context.Context) (*repository.WorkshopStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stats := &repository.WorkshopStats{}
	for id, w := range m.s.workshops {
		stats.Total++
		if w.Activo {
			stats.Activos++
			stats.CupoTotal += int64(w.CupoMaximo)
		}
		stats.InscritosTotal += countActive(m.s, id)
	}
	return stats, nil
}

func (m *mockWorkshopRepo) sortedIDs() []string {
	ids := make([]string, 0, len(m.s.workshops))
	for id := range m.s.workshops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	s *mockStore
	// createErrs 依次作为 Create 的返回值，用完后正常写入
	createErrs  []error
	createCalls int
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.createCalls++
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		return err
	}
	// 模拟部分唯一索引 (alumno_id, taller_id) WHERE estado='activa'
	if e.Estado == model.EstadoActiva && existsActive(m.s, e.AlumnoID, e.TallerID) {
		return errUniqueViolation
	}
	if e.ID == "" {
		e.ID = m.s.nextID("inscripcion")
	}
	if e.FechaInscripcion.IsZero() {
		e.FechaInscripcion = time.Now()
	}
	cp := *e
	m.s.enrollments[e.ID] = &cp
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.enrollments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return m.withRelations(e), nil
}

func (m *mockEnrollmentRepo) withRelations(e *model.Enrollment) *model.Enrollment {
	cp := *e
	if w, ok := m.s.workshops[e.TallerID]; ok {
		wc := *w
		cp.Taller = &wc
	}
	if a, ok := m.s.students[e.AlumnoID]; ok {
		ac := *a
		if u, ok := m.s.users[a.UsuarioID]; ok {
			ac.Usuario = u
		}
		cp.Alumno = &ac
	}
	return &cp
}

func (m *mockEnrollmentRepo) ExistsActive(_ context.Context, alumnoID, tallerID string) (bool, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return existsActive(m.s, alumnoID, tallerID), nil
}

func (m *mockEnrollmentRepo) CountActive(_ context.Context, tallerID string) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return countActive(m.s, tallerID), nil
}

func (m *mockEnrollmentRepo) CountActiveByWorkshops(_ context.Context, tallerIDs []string) (map[string]int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make(map[string]int64, len(tallerIDs))
	for _, id := range tallerIDs {
		out[id] = countActive(m.s, id)
	}
	return out, nil
}

func (m *mockEnrollmentRepo) ListByAlumno(_ context.Context, alumnoID, estado string, limit, offset int) ([]model.Enrollment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Enrollment
	for _, e := range m.sorted() {
		if e.AlumnoID != alumnoID || (estado != "" && e.Estado != estado) {
			continue
		}
		out = append(out, *m.withRelations(e))
	}
	return page(out, limit, offset), nil
}

func (m *mockEnrollmentRepo) ListActiveByWorkshop(_ context.Context, tallerID, search string, limit, offset int) ([]model.Enrollment, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Enrollment
	for _, e := range m.sorted() {
		if e.TallerID != tallerID || e.Estado != model.EstadoActiva {
			continue
		}
		full := m.withRelations(e)
		if search != "" && (full.Alumno == nil || !strings.Contains(strings.ToLower(full.Alumno.FullName()), strings.ToLower(search))) {
			continue
		}
		out = append(out, *full)
	}
	return page(out, limit, offset), nil
}

func (m *mockEnrollmentRepo) ActiveWorkshopIDs(_ context.Context, alumnoID string) ([]string, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var ids []string
	for _, e := range m.sorted() {
		if e.AlumnoID == alumnoID && e.Estado == model.EstadoActiva {
			ids = append(ids, e.TallerID)
		}
	}
	return ids, nil
}

func (m *mockEnrollmentRepo) TransitionEstado(_ context.Context, id, from, to string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	e, ok := m.s.enrollments[id]
	if !ok || e.Estado != from {
		return gorm.ErrRecordNotFound
	}
	e.Estado = to
	return nil
}

func (m *mockEnrollmentRepo) sorted() []*model.Enrollment {
	list := make([]*model.Enrollment, 0, len(m.s.enrollments))
	for _, e := range m.s.enrollments {
		list = append(list, e)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

func existsActive(s *mockStore, alumnoID, tallerID string) bool {
	for _, e := range s.enrollments {
		if e.AlumnoID == alumnoID && e.TallerID == tallerID && e.Estado == model.EstadoActiva {
			return true
		}
	}
	return false
}

func countActive(s *mockStore, tallerID string) int64 {
	var n int64
	for _, e := range s.enrollments {
		if e.TallerID == tallerID && e.Estado == model.EstadoActiva {
			n++
		}
	}
	return n
}

// ── Mock AnnouncementRepository ──

type mockAnnouncementRepo struct {
	s *mockStore
}

func (m *mockAnnouncementRepo) Create(_ context.Context, a *model.Announcement) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a.ID == "" {
		a.ID = m.s.nextID("aviso")
	}
	a.CreatedAt = time.Now()
	m.s.announcements[a.ID] = a
	return nil
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if a, ok := m.s.announcements[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context, f repository.AnnouncementFilter) ([]model.Announcement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	var out []model.Announcement
	for _, a := range m.s.announcements {
		if f.TallerIDs != nil && !contains(f.TallerIDs, a.TallerID) {
			continue
		}
		if f.InstructorID != "" && a.InstructorID != f.InstructorID {
			continue
		}
		if f.Activo != nil && a.Activo != *f.Activo {
			continue
		}
		if !f.IncludeExpired && a.FechaExpiracion != nil && a.FechaExpiracion.Before(now) {
			continue
		}
		if f.OnlyImportant && !a.Importante {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(a.Titulo+" "+a.Contenido), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, f.Limit, f.Offset), nil
}

func (m *mockAnnouncementRepo) ExpiringWithin(_ context.Context, within time.Duration, instructorID string) ([]model.Announcement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	now := time.Now()
	var out []model.Announcement
	for _, a := range m.s.announcements {
		if !a.Activo || a.FechaExpiracion == nil {
			continue
		}
		if instructorID != "" && a.InstructorID != instructorID {
			continue
		}
		if a.FechaExpiracion.After(now) && a.FechaExpiracion.Before(now.Add(within)) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockAnnouncementRepo) Update(_ context.Context, a *model.Announcement) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *a
	m.s.announcements[a.ID] = &cp
	return nil
}

func (m *mockAnnouncementRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.announcements[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.announcements, id)
	return nil
}

func (m *mockAnnouncementRepo) Stats(_ context.Context, instructorID string) (*repository.AnnouncementStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stats := &repository.AnnouncementStats{}
	for _, a := range m.s.announcements {
		if instructorID != "" && a.InstructorID != instructorID {
			continue
		}
		stats.Total++
		if a.Activo {
			stats.Activos++
		}
		if a.Importante {
			stats.Importantes++
		}
	}
	return stats, nil
}

// ── Mock CalendarEventRepository ──

type mockCalendarRepo struct {
	s *mockStore
	// lastFilter 最近一次 List 的过滤条件
	lastFilter repository.CalendarFilter
}

func (m *mockCalendarRepo) Create(_ context.Context, e *model.CalendarEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e.ID == "" {
		e.ID = m.s.nextID("fecha")
	}
	m.s.events[e.ID] = e
	return nil
}

func (m *mockCalendarRepo) GetByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if e, ok := m.s.events[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCalendarRepo) List(_ context.Context, f repository.CalendarFilter) ([]model.CalendarEvent, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.lastFilter = f
	var out []model.CalendarEvent
	for _, e := range m.s.events {
		if f.TallerIDs != nil && !contains(f.TallerIDs, e.TallerID) {
			continue
		}
		if f.InstructorID != "" && e.InstructorID != f.InstructorID {
			continue
		}
		if f.TipoEvento != "" && e.TipoEvento != f.TipoEvento {
			continue
		}
		if f.Desde != nil && e.FechaEvento.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && !e.FechaEvento.Before(*f.Hasta) {
			continue
		}
		if f.Activo != nil && e.Activo != *f.Activo {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(e.Titulo), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FechaEvento.Before(out[j].FechaEvento) })
	return page(out, f.Limit, f.Offset), nil
}

func (m *mockCalendarRepo) Update(_ context.Context, e *model.CalendarEvent) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *e
	m.s.events[e.ID] = &cp
	return nil
}

func (m *mockCalendarRepo) Delete(_ context.Context, id string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.events, id)
	return nil
}

func (m *mockCalendarRepo) Stats(_ context.Context, instructorID string) (*repository.CalendarStats, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	stats := &repository.CalendarStats{}
	now := time.Now()
	for _, e := range m.s.events {
		if instructorID != "" && e.InstructorID != instructorID {
			continue
		}
		stats.Total++
		if e.FechaEvento.After(now) {
			stats.Proximos++
		} else {
			stats.Pasados++
		}
	}
	return stats, nil
}

// ── Mock EmergencyInfoRepository ──

type mockEmergencyRepo struct {
	s *mockStore
}

func (m *mockEmergencyRepo) GetByAlumnoID(_ context.Context, alumnoID string) (*model.EmergencyInfo, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, info := range m.s.emergency {
		if info.AlumnoID == alumnoID {
			cp := *info
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmergencyRepo) Create(_ context.Context, info *model.EmergencyInfo) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, existing := range m.s.emergency {
		if existing.AlumnoID == info.AlumnoID {
			return errUniqueViolation
		}
	}
	if info.ID == "" {
		info.ID = m.s.nextID("emergencia")
	}
	cp := *info
	m.s.emergency[info.ID] = &cp
	return nil
}

func (m *mockEmergencyRepo) Update(_ context.Context, info *model.EmergencyInfo) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	cp := *info
	m.s.emergency[info.ID] = &cp
	return nil
}

func (m *mockEmergencyRepo) DeleteOwned(_ context.Context, id, alumnoID string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	info, ok := m.s.emergency[id]
	if !ok || info.AlumnoID != alumnoID {
		return gorm.ErrRecordNotFound
	}
	delete(m.s.emergency, id)
	return nil
}

// ── 通用辅助 ──

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
