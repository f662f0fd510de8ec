package service

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"talleres-api/config"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
	"talleres-api/pkg/database"
	apperrors "talleres-api/pkg/errors"
)

// errUniqueViolation 模拟唯一索引冲突
var errUniqueViolation = &apperrors.QueryError{
	Code: database.SQLStateUniqueViolation,
	Err:  errors.New("duplicate key value violates unique constraint"),
}

const testPassword = "password123"

// ── 测试数据 ──
// 讲师 I1 负责 taller-1（cupo 2），讲师 I2 负责 taller-2；taller-off 未启用

var (
	callerAdmin = Caller{UserID: "u-admin", Email: "admin@talleres.mx", Role: RoleAdmin}
	callerI1    = Caller{UserID: "u-i1", Email: "i1@talleres.mx", Role: RoleInstructor}
	callerI2    = Caller{UserID: "u-i2", Email: "i2@talleres.mx", Role: RoleInstructor}
	callerA1    = Caller{UserID: "u-a1", Email: "a1@talleres.mx", Role: RoleAlumno}
	callerA2    = Caller{UserID: "u-a2", Email: "a2@talleres.mx", Role: RoleAlumno}
	callerA3    = Caller{UserID: "u-a3", Email: "a3@talleres.mx", Role: RoleAlumno}
)

const (
	tallerI1  = "taller-1"
	tallerI2  = "taller-2"
	tallerOff = "taller-off"
)

type testEnv struct {
	repo  *repository.Repository
	m     *mockRepos
	cfg   *config.Config
	log   *zap.Logger
	acc   AccessService
	users map[string]*model.User
}

func newTestEnv() *testEnv {
	repo, m := newMockRepository()
	env := &testEnv{
		repo: repo,
		m:    m,
		cfg: &config.Config{
			Auth: config.AuthConfig{
				JWTSecret:       "test-secret-key-for-unit-testing-2026",
				AccessTokenTTL:  15 * time.Minute,
				RefreshTokenTTL: 24 * time.Hour,
				BcryptCost:      bcrypt.MinCost,
			},
			Enrollment: config.EnrollmentConfig{MaxRetries: 3},
		},
		log:   zap.NewNop(),
		users: make(map[string]*model.User),
	}
	env.acc = NewAccessService(repo, env.log)

	hash, _ := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	for _, c := range []Caller{callerAdmin, callerI1, callerI2, callerA1, callerA2, callerA3} {
		u := &model.User{
			ID:           c.UserID,
			Email:        c.Email,
			PasswordHash: string(hash),
			TipoUsuario:  c.Role.String(),
			Activo:       true,
		}
		m.store.users[u.ID] = u
		env.users[u.ID] = u
	}

	m.store.instructors["ip-1"] = &model.InstructorProfile{ID: "ip-1", UsuarioID: callerI1.UserID, Nombre: "Laura", ApellidoPaterno: "Méndez"}
	m.store.instructors["ip-2"] = &model.InstructorProfile{ID: "ip-2", UsuarioID: callerI2.UserID, Nombre: "Raúl", ApellidoPaterno: "Ortiz"}
	m.store.students["sp-1"] = &model.StudentProfile{ID: "sp-1", UsuarioID: callerA1.UserID, Nombre: "Ana", ApellidoPaterno: "García", NumeroControl: "21010001"}
	m.store.students["sp-2"] = &model.StudentProfile{ID: "sp-2", UsuarioID: callerA2.UserID, Nombre: "Luis", ApellidoPaterno: "Pérez", NumeroControl: "21010002"}
	m.store.students["sp-3"] = &model.StudentProfile{ID: "sp-3", UsuarioID: callerA3.UserID, Nombre: "Eva", ApellidoPaterno: "Ruiz", NumeroControl: "TEMP_1700000000000"}

	ip1, ip2 := "ip-1", "ip-2"
	horario := "Lunes 16:00-18:00"
	m.store.workshops[tallerI1] = &model.Workshop{ID: tallerI1, Nombre: "Ajedrez", Categoria: "deportivo", InstructorID: &ip1, CupoMaximo: 2, Horario: &horario, Activo: true}
	m.store.workshops[tallerI2] = &model.Workshop{ID: tallerI2, Nombre: "Danza", Categoria: "cultural", InstructorID: &ip2, CupoMaximo: 10, Activo: true}
	m.store.workshops[tallerOff] = &model.Workshop{ID: tallerOff, Nombre: "Teatro", Categoria: "cultural", InstructorID: &ip1, CupoMaximo: 5, Activo: false}
	return env
}

// enroll 直接写入一条报名
func (e *testEnv) enroll(id, alumnoID, tallerID, estado string) {
	e.m.store.enrollments[id] = &model.Enrollment{
		ID:               id,
		AlumnoID:         alumnoID,
		TallerID:         tallerID,
		Estado:           estado,
		FechaInscripcion: time.Now(),
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
