package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"talleres-api/config"
	"talleres-api/internal/dto"
	"talleres-api/internal/metrics"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
	"talleres-api/pkg/database"
	apperrors "talleres-api/pkg/errors"
	"talleres-api/pkg/mail"
)

// ── 报名资格 ──

// EligibilityReason 不可报名的原因
type EligibilityReason string

const (
	ReasonWorkshopNotFound EligibilityReason = "WorkshopNotFound"
	ReasonWorkshopInactive EligibilityReason = "WorkshopInactive"
	ReasonAlreadyEnrolled  EligibilityReason = "AlreadyEnrolled"
	ReasonNoCapacity       EligibilityReason = "NoCapacity"
)

// Err 原因对应的业务错误
func (r EligibilityReason) Err() error {
	switch r {
	case ReasonWorkshopNotFound:
		return ErrWorkshopNotFound
	case ReasonWorkshopInactive:
		return ErrWorkshopInactive
	case ReasonAlreadyEnrolled:
		return ErrAlreadyEnrolled
	case ReasonNoCapacity:
		return ErrNoCapacity
	}
	return nil
}

// Eligibility 报名资格检查结果
type Eligibility struct {
	Allowed bool
	Reason  EligibilityReason
}

// DTO 转换为响应结构
func (e *Eligibility) DTO() dto.EligibilityResponse {
	out := dto.EligibilityResponse{Puede: e.Allowed, Motivo: string(e.Reason)}
	if err := e.Reason.Err(); err != nil {
		out.Razon = err.Error()
	}
	return out
}

// Err 不可报名时返回带检查结果详情的业务错误
func (e *Eligibility) Err() error {
	if e.Allowed {
		return nil
	}
	err := e.Reason.Err()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithDetails(e.DTO())
	}
	return err
}

// Notifier 报名确认通知
type Notifier interface {
	SendEnrollmentConfirmation(ctx context.Context, msg mail.EnrollmentConfirmation) error
}

// EnrollmentService 报名准入控制
type EnrollmentService interface {
	// CanEnroll 预检查（仅用于提前反馈），权威判定在 Enroll 的事务内
	CanEnroll(ctx context.Context, alumnoID, tallerID string) (*Eligibility, error)
	// Enroll 在单个事务内锁定工作坊行、复核四项条件并写入报名
	Enroll(ctx context.Context, caller Caller, tallerID string, comentarios *string) (*dto.EnrollmentResponse, error)
	// AvailableSeats 剩余名额；工作坊不存在或未启用时返回 -1
	AvailableSeats(ctx context.Context, tallerID string) (int, error)
	ListMine(ctx context.Context, caller Caller, estado string, limit, offset int) ([]dto.EnrollmentResponse, error)
	Cancel(ctx context.Context, caller Caller, inscripcionID string) (*dto.EnrollmentResponse, error)
}

type enrollmentService struct {
	repo       *repository.Repository
	access     AccessService
	notifier   Notifier
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例；notifier 可为 nil
func NewEnrollmentService(
	cfg *config.EnrollmentConfig,
	repo *repository.Repository,
	access AccessService,
	notifier Notifier,
	logger *zap.Logger,
) EnrollmentService {
	return &enrollmentService{
		repo:       repo,
		access:     access,
		notifier:   notifier,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     logger,
	}
}

// ────── CanEnroll ──────

func (s *enrollmentService) CanEnroll(ctx context.Context, alumnoID, tallerID string) (*Eligibility, error) {
	return checkEligibility(ctx, s.repo, alumnoID, tallerID, false)
}

// checkEligibility 依次检查：工作坊存在、已启用、未重复报名、仍有名额
// lock=true 时以 FOR UPDATE 读取工作坊行，同一工作坊的并发报名在此串行化
func checkEligibility(ctx context.Context, repo *repository.Repository, alumnoID, tallerID string, lock bool) (*Eligibility, error) {
	var (
		w   *model.Workshop
		err error
	)
	if lock {
		w, err = repo.Workshop.GetByIDForUpdate(ctx, tallerID)
	} else {
		w, err = repo.Workshop.GetByID(ctx, tallerID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Eligibility{Reason: ReasonWorkshopNotFound}, nil
		}
		return nil, err
	}
	if !w.Activo {
		return &Eligibility{Reason: ReasonWorkshopInactive}, nil
	}

	enrolled, err := repo.Enrollment.ExistsActive(ctx, alumnoID, tallerID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return &Eligibility{Reason: ReasonAlreadyEnrolled}, nil
	}

	active, err := repo.Enrollment.CountActive(ctx, tallerID)
	if err != nil {
		return nil, err
	}
	if active >= int64(w.CupoMaximo) {
		return &Eligibility{Reason: ReasonNoCapacity}, nil
	}

	return &Eligibility{Allowed: true}, nil
}

// ────── Enroll ──────

func (s *enrollmentService) Enroll(ctx context.Context, caller Caller, tallerID string, comentarios *string) (*dto.EnrollmentResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudentsEnroll
	}
	alumnoID, err := s.access.ResolveStudentProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	id, err := s.enrollWithRetry(ctx, alumnoID, tallerID, comentarios)
	metrics.EnrollmentDuration.Observe(time.Since(start).Seconds())
	metrics.EnrollmentsTotal.WithLabelValues(enrollOutcome(err)).Inc()
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindInternal {
			s.logger.Error("报名失败",
				zap.String("alumno_id", alumnoID),
				zap.String("taller_id", tallerID),
				zap.Error(err),
			)
		}
		return nil, err
	}

	e, err := s.repo.Enrollment.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("查询报名详情失败", zap.String("inscripcion_id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("报名成功",
		zap.String("inscripcion_id", id),
		zap.String("alumno_id", alumnoID),
		zap.String("taller_id", tallerID),
	)
	s.notify(e)

	// 学生视图不返回自身联系方式
	resp := toEnrollmentResponse(e, false)
	return &resp, nil
}

// enrollWithRetry 串行化失败 / 死锁时整体重试事务，其余错误直接返回
func (s *enrollmentService) enrollWithRetry(ctx context.Context, alumnoID, tallerID string, comentarios *string) (string, error) {
	for attempt := 0; ; attempt++ {
		id, err := s.enrollOnce(ctx, alumnoID, tallerID, comentarios)
		if err == nil || !database.IsRetryable(err) || attempt >= s.maxRetries {
			return id, err
		}

		metrics.EnrollmentRetries.WithLabelValues(apperrors.SQLState(err)).Inc()
		s.logger.Warn("报名事务冲突，准备重试",
			zap.String("taller_id", tallerID),
			zap.Int("attempt", attempt+1),
			zap.String("sqlstate", apperrors.SQLState(err)),
		)

		if err := sleepCtx(ctx, s.retryDelay*time.Duration(attempt+1)); err != nil {
			return "", err
		}
	}
}

// sleepCtx 等待 d，ctx 先结束时立即返回并释放计时器
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (s *enrollmentService) enrollOnce(ctx context.Context, alumnoID, tallerID string, comentarios *string) (string, error) {
	var id string
	err := s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		elig, err := checkEligibility(ctx, tx, alumnoID, tallerID, true)
		if err != nil {
			return err
		}
		if !elig.Allowed {
			return elig.Err()
		}

		e := &model.Enrollment{
			AlumnoID:    alumnoID,
			TallerID:    tallerID,
			Estado:      model.EstadoActiva,
			Comentarios: comentarios,
		}
		if err := tx.Enrollment.Create(ctx, e); err != nil {
			// 部分唯一索引兜底：并发的重复报名
			if apperrors.SQLState(err) == database.SQLStateUniqueViolation {
				return ErrAlreadyEnrolled
			}
			return err
		}
		id = e.ID
		return nil
	})
	return id, err
}

// notify 提交后异步发送确认邮件，失败只记录日志
func (s *enrollmentService) notify(e *model.Enrollment) {
	if s.notifier == nil || e.Alumno == nil || e.Alumno.Usuario == nil || e.Taller == nil {
		return
	}
	msg := mail.EnrollmentConfirmation{
		To:               e.Alumno.Usuario.Email,
		StudentName:      e.Alumno.FullName(),
		WorkshopName:     e.Taller.Nombre,
		Horario:          deref(e.Taller.Horario),
		Ubicacion:        deref(e.Taller.Ubicacion),
		FechaInscripcion: e.FechaInscripcion,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendEnrollmentConfirmation(ctx, msg); err != nil {
			s.logger.Warn("发送报名确认邮件失败", zap.String("to", msg.To), zap.Error(err))
		}
	}()
}

func enrollOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeEnrolled
	case errors.Is(err, ErrWorkshopNotFound):
		return metrics.OutcomeWorkshopNotFound
	case errors.Is(err, ErrWorkshopInactive):
		return metrics.OutcomeWorkshopInactive
	case errors.Is(err, ErrAlreadyEnrolled):
		return metrics.OutcomeAlreadyEnrolled
	case errors.Is(err, ErrNoCapacity):
		return metrics.OutcomeNoCapacity
	}
	return metrics.OutcomeError
}

// ────── AvailableSeats ──────

func (s *enrollmentService) AvailableSeats(ctx context.Context, tallerID string) (int, error) {
	w, err := s.repo.Workshop.GetByID(ctx, tallerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return -1, nil
		}
		s.logger.Error("查询工作坊失败", zap.String("taller_id", tallerID), zap.Error(err))
		return 0, err
	}
	if !w.Activo {
		return -1, nil
	}

	active, err := s.repo.Enrollment.CountActive(ctx, tallerID)
	if err != nil {
		s.logger.Error("统计报名人数失败", zap.String("taller_id", tallerID), zap.Error(err))
		return 0, err
	}
	return seatsLeft(w.CupoMaximo, active), nil
}

// seatsLeft 剩余名额，不为负
func seatsLeft(capacity int, active int64) int {
	left := int64(capacity) - active
	if left < 0 {
		return 0
	}
	return int(left)
}

// ────── ListMine ──────

func (s *enrollmentService) ListMine(ctx context.Context, caller Caller, estado string, limit, offset int) ([]dto.EnrollmentResponse, error) {
	if caller.Role != RoleAlumno {
		return nil, ErrOnlyStudents
	}
	alumnoID, err := s.access.ResolveStudentProfile(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.Enrollment.ListByAlumno(ctx, alumnoID, estado, limit, offset)
	if err != nil {
		s.logger.Error("查询学生报名失败", zap.String("alumno_id", alumnoID), zap.Error(err))
		return nil, err
	}

	out := make([]dto.EnrollmentResponse, 0, len(list))
	for i := range list {
		out = append(out, toEnrollmentResponse(&list[i], false))
	}
	return out, nil
}

// ────── Cancel ──────

func (s *enrollmentService) Cancel(ctx context.Context, caller Caller, inscripcionID string) (*dto.EnrollmentResponse, error) {
	e, err := s.repo.Enrollment.GetByID(ctx, inscripcionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotFound
		}
		s.logger.Error("查询报名失败", zap.String("inscripcion_id", inscripcionID), zap.Error(err))
		return nil, err
	}

	if err := s.access.Authorize(ctx, caller, ActionUpdate, Resource{
		Kind:    ResourceInscripcion,
		OwnerID: e.AlumnoID,
		Denied:  denyEnrollmentCancel,
	}); err != nil {
		return nil, err
	}
	if e.Estado != model.EstadoActiva {
		return nil, ErrEnrollmentNotActive
	}

	// 读取后状态可能已被并发修改，以条件更新为准
	if err := s.repo.Enrollment.TransitionEstado(ctx, e.ID, model.EstadoActiva, model.EstadoCancelada); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEnrollmentNotActive
		}
		s.logger.Error("取消报名失败", zap.String("inscripcion_id", e.ID), zap.Error(err))
		return nil, err
	}
	e.Estado = model.EstadoCancelada

	s.logger.Info("报名已取消",
		zap.String("inscripcion_id", e.ID),
		zap.String("by", caller.UserID),
	)
	resp := toEnrollmentResponse(e, caller.IsAdmin())
	return &resp, nil
}

// ── 转换 ──

// toEnrollmentResponse withContact=false 时不返回学生邮箱
func toEnrollmentResponse(e *model.Enrollment, withContact bool) dto.EnrollmentResponse {
	out := dto.EnrollmentResponse{
		ID:               e.ID,
		AlumnoID:         e.AlumnoID,
		TallerID:         e.TallerID,
		Estado:           e.Estado,
		Comentarios:      e.Comentarios,
		FechaInscripcion: e.FechaInscripcion,
	}
	if t := e.Taller; t != nil {
		out.TallerNombre = t.Nombre
		out.TallerCategoria = t.Categoria
		out.TallerHorario = t.Horario
		out.TallerUbicacion = t.Ubicacion
		if t.Instructor != nil {
			out.InstructorNombre = t.Instructor.FullName()
		}
	}
	if a := e.Alumno; a != nil {
		out.AlumnoNombre = a.FullName()
		out.NumeroControl = a.NumeroControl
		if withContact && a.Usuario != nil {
			out.AlumnoEmail = a.Usuario.Email
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
