//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"talleres-api/config"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
	"talleres-api/internal/service"
	"talleres-api/pkg/database"
	apperrors "talleres-api/pkg/errors"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

type itEnv struct {
	ctx  context.Context
	db   *gorm.DB
	repo *repository.Repository
}

func setupDB(t *testing.T) *itEnv {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("talleres_test"),
		tcpostgres.WithUsername("talleres"),
		tcpostgres.WithPassword("talleres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	logger := zap.NewNop()
	db, err := database.NewDB(&config.DatabaseConfig{
		Host:         host,
		Port:         port.Int(),
		Name:         "talleres_test",
		User:         "talleres",
		Password:     "talleres",
		SSLMode:      "disable",
		Timezone:     "UTC",
		MaxOpenConns: 20,
	}, "warn", logger)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db, logger) })

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(sqlDB, logger))

	return &itEnv{ctx: ctx, db: db, repo: repository.NewRepository(db, 10*time.Second)}
}

// ═══════════════════════════════════════════════════════════
// Seed Helpers
// ═══════════════════════════════════════════════════════════

func (e *itEnv) user(t *testing.T, email, tipo string) *model.User {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x", TipoUsuario: tipo, Activo: true}
	require.NoError(t, e.repo.User.Create(e.ctx, u))
	return u
}

func (e *itEnv) student(t *testing.T, n int) service.Caller {
	t.Helper()
	u := e.user(t, fmt.Sprintf("alumno%02d@talleres.mx", n), model.TipoAlumno)
	p := &model.StudentProfile{
		UsuarioID:       u.ID,
		Nombre:          "Alumno",
		ApellidoPaterno: fmt.Sprintf("Prueba%02d", n),
		NumeroControl:   fmt.Sprintf("2101%04d", n),
	}
	require.NoError(t, e.repo.Student.Create(e.ctx, p))
	return service.Caller{UserID: u.ID, Email: u.Email, Role: service.RoleAlumno}
}

func (e *itEnv) workshop(t *testing.T, cupo int, activo bool) *model.Workshop {
	t.Helper()
	u := e.user(t, fmt.Sprintf("instructor-%d@talleres.mx", time.Now().UnixNano()), model.TipoInstructor)
	ip := &model.InstructorProfile{UsuarioID: u.ID, Nombre: "Laura", ApellidoPaterno: "Méndez"}
	require.NoError(t, e.db.WithContext(e.ctx).Create(ip).Error)

	w := &model.Workshop{Nombre: "Ajedrez", Categoria: "deportivo", InstructorID: &ip.ID, CupoMaximo: cupo, Activo: true}
	require.NoError(t, e.repo.Workshop.Create(e.ctx, w))
	if !activo {
		// Activo 带 default:true，零值不会被 Create 写入
		require.NoError(t, e.db.WithContext(e.ctx).Model(w).Update("activo", false).Error)
	}
	return w
}

func (e *itEnv) enrollmentService() service.EnrollmentService {
	logger := zap.NewNop()
	return service.NewEnrollmentService(
		&config.EnrollmentConfig{MaxRetries: 3, RetryDelay: 10 * time.Millisecond},
		e.repo,
		service.NewAccessService(e.repo, logger),
		nil,
		logger,
	)
}

// ═══════════════════════════════════════════════════════════
// Admission
// ═══════════════════════════════════════════════════════════

func TestEnroll_ConcurrentNeverExceedsCapacity(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()

	const cupo, alumnos = 3, 12
	w := env.workshop(t, cupo, true)
	callers := make([]service.Caller, alumnos)
	for i := range callers {
		callers[i] = env.student(t, i+1)
	}

	results := make([]error, alumnos)
	var g errgroup.Group
	for i, c := range callers {
		i, c := i, c
		g.Go(func() error {
			_, results[i] = svc.Enroll(env.ctx, c, w.ID, nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, full int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, service.ErrNoCapacity):
			full++
		default:
			t.Errorf("意外错误: %v", err)
		}
	}
	assert.Equal(t, cupo, ok, "成功报名数应等于 cupo_maximo")
	assert.Equal(t, alumnos-cupo, full)

	active, err := env.repo.Enrollment.CountActive(env.ctx, w.ID)
	require.NoError(t, err)
	assert.EqualValues(t, cupo, active)

	seats, err := svc.AvailableSeats(env.ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, seats)
}

func TestEnroll_ConcurrentDuplicate(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()
	w := env.workshop(t, 10, true)
	caller := env.student(t, 1)

	const attempts = 6
	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, results[i] = svc.Enroll(env.ctx, caller, w.ID, nil)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, service.ErrAlreadyEnrolled)
	}
	assert.Equal(t, 1, ok, "同一学生只能有一条 activa 报名")
}

func TestEnroll_Rejections(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()
	caller := env.student(t, 1)

	inactive := env.workshop(t, 5, false)
	_, err := svc.Enroll(env.ctx, caller, inactive.ID, nil)
	assert.ErrorIs(t, err, service.ErrWorkshopInactive)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.NotNil(t, appErr.Details, "未启用时应附带资格检查结果")

	_, err = svc.Enroll(env.ctx, caller, "00000000-0000-0000-0000-000000000000", nil)
	assert.ErrorIs(t, err, service.ErrWorkshopNotFound)

	seats, err := svc.AvailableSeats(env.ctx, inactive.ID)
	require.NoError(t, err)
	assert.Equal(t, -1, seats)
}

func TestEnroll_CancelFreesSeat(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()
	w := env.workshop(t, 1, true)
	first, second := env.student(t, 1), env.student(t, 2)

	e, err := svc.Enroll(env.ctx, first, w.ID, nil)
	require.NoError(t, err)

	_, err = svc.Enroll(env.ctx, second, w.ID, nil)
	require.ErrorIs(t, err, service.ErrNoCapacity)

	_, err = svc.Cancel(env.ctx, first, e.ID)
	require.NoError(t, err)

	_, err = svc.Enroll(env.ctx, second, w.ID, nil)
	assert.NoError(t, err, "取消后名额应释放")

	// 已取消的记录不算重复报名，此时只剩名额限制
	_, err = svc.Enroll(env.ctx, first, w.ID, nil)
	assert.ErrorIs(t, err, service.ErrNoCapacity)
}

func TestEnroll_MalformedIDs(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()
	caller := env.student(t, 1)

	for _, id := range []string{"abc", "123", "00000000-0000-0000-0000-00000000000z"} {
		_, err := svc.Enroll(env.ctx, caller, id, nil)
		assert.ErrorIs(t, err, service.ErrWorkshopNotFound, "id=%q", id)

		seats, err := svc.AvailableSeats(env.ctx, id)
		require.NoError(t, err, "id=%q", id)
		assert.Equal(t, -1, seats, "id=%q", id)

		elig, err := svc.CanEnroll(env.ctx, "00000000-0000-0000-0000-000000000000", id)
		require.NoError(t, err)
		assert.Equal(t, service.ReasonWorkshopNotFound, elig.Reason)

		_, err = svc.Cancel(env.ctx, caller, id)
		assert.ErrorIs(t, err, service.ErrEnrollmentNotFound, "id=%q", id)
	}
}

func TestCancel_ConcurrentOnlyOneSucceeds(t *testing.T) {
	env := setupDB(t)
	svc := env.enrollmentService()
	w := env.workshop(t, 5, true)
	caller := env.student(t, 1)

	e, err := svc.Enroll(env.ctx, caller, w.ID, nil)
	require.NoError(t, err)

	const attempts = 6
	results := make([]error, attempts)
	var g errgroup.Group
	for i := 0; i < attempts; i++ {
		i := i
		g.Go(func() error {
			_, results[i] = svc.Cancel(env.ctx, caller, e.ID)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, service.ErrEnrollmentNotActive)
	}
	assert.Equal(t, 1, ok, "同一报名只能被取消一次")
}

// ═══════════════════════════════════════════════════════════
// Persistence Gateway
// ═══════════════════════════════════════════════════════════

func TestUniqueViolation_CarriesSQLState(t *testing.T) {
	env := setupDB(t)
	env.user(t, "dup@talleres.mx", model.TipoAlumno)

	err := env.repo.User.Create(env.ctx, &model.User{Email: "dup@talleres.mx", PasswordHash: "x", TipoUsuario: model.TipoAlumno})
	require.Error(t, err)
	assert.Equal(t, database.SQLStateUniqueViolation, apperrors.SQLState(err))
}

func TestTransaction_RollbackOnError(t *testing.T) {
	env := setupDB(t)
	boom := errors.New("boom")

	err := env.repo.Transaction(env.ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.User.Create(ctx, &model.User{Email: "rollback@talleres.mx", PasswordHash: "x", TipoUsuario: model.TipoAlumno}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = env.repo.User.GetByEmail(env.ctx, "rollback@talleres.mx")
	assert.Error(t, err, "回滚后用户不应存在")
}

func TestExecute_ParameterizedQuery(t *testing.T) {
	env := setupDB(t)
	env.workshop(t, 4, true)
	env.workshop(t, 8, true)

	rows, err := env.repo.Execute(env.ctx, "SELECT SUM(cupo_maximo) AS total FROM talleres WHERE categoria = ?", "deportivo")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, 12, rows[0]["total"])
}

func TestQueryTimeout(t *testing.T) {
	env := setupDB(t)
	repo := repository.NewRepository(env.db, 200*time.Millisecond)

	_, err := repo.Execute(env.ctx, "SELECT pg_sleep(2)")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrQueryTimeout)
}
