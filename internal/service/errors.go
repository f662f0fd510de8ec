package service

import (
	apperrors "talleres-api/pkg/errors"
)

// 业务错误哨兵；Code 写入响应的 error 字段，Message 写入 message 字段

// ── 通用 / 权限 ──
var (
	ErrForbidden                 = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "No tienes permisos para realizar esta acción")
	ErrOnlyStudents              = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "Esta funcionalidad es solo para alumnos")
	ErrOnlyInstructors           = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "Esta funcionalidad es solo para instructores")
	ErrInstructorProfileNotFound = apperrors.New(apperrors.KindNotFound, "Perfil no encontrado", "No se encontró el perfil de instructor")
	ErrStudentProfileNotFound    = apperrors.New(apperrors.KindNotFound, "Perfil no encontrado", "No se encontró el perfil de alumno")
	ErrInvalidDate               = apperrors.New(apperrors.KindValidation, "Datos inválidos", "Formato de fecha inválido, se espera YYYY-MM-DD")
	ErrSearchTermRequired        = apperrors.New(apperrors.KindValidation, "Parámetro requerido", `Se requiere el parámetro de búsqueda "q"`)
)

// ── 工作坊 / 报名 ──
var (
	ErrWorkshopNotFound    = apperrors.New(apperrors.KindNotFound, "Taller no encontrado", "No se encontró el taller especificado")
	ErrWorkshopInactive    = apperrors.New(apperrors.KindValidation, "No se puede inscribir", "El taller no está activo")
	ErrAlreadyEnrolled     = apperrors.New(apperrors.KindConflict, "Ya inscrito", "El alumno ya está inscrito en este taller")
	ErrNoCapacity          = apperrors.New(apperrors.KindConflict, "Sin cupos", "No hay cupos disponibles en este taller")
	ErrOnlyStudentsEnroll  = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "Solo los alumnos pueden inscribirse a talleres")
	ErrInstructorNotFound  = apperrors.New(apperrors.KindValidation, "Instructor no válido", "El instructor especificado no existe")
	ErrInvalidDateRange    = apperrors.New(apperrors.KindValidation, "Datos inválidos", "La fecha de fin no puede ser anterior a la fecha de inicio")
	ErrCapacityBelowActive = apperrors.New(apperrors.KindConflict, "Cupo insuficiente", "El cupo máximo no puede ser menor que las inscripciones activas")
	ErrEnrollmentNotFound  = apperrors.New(apperrors.KindNotFound, "Inscripción no encontrada", "No se encontró la inscripción especificada")
	ErrEnrollmentNotActive = apperrors.New(apperrors.KindConflict, "Inscripción no activa", "La inscripción ya no está activa")
)

// 归属校验失败时的说明（作为 ErrForbidden 的 message）
const (
	denyWorkshopEdit     = "Solo puedes editar tus propios talleres"
	denyRoster           = "Solo puedes ver los alumnos de tus talleres"
	denyEnrollmentCancel = "Solo puedes cancelar tus propias inscripciones"
	denyAnnouncementView = "Solo puedes ver tus propios avisos"
	denyAnnouncementEdit = "Solo puedes editar tus propios avisos"
	denyAnnouncementDel  = "Solo puedes eliminar tus propios avisos"
	denyEventView        = "Solo puedes ver tus propias fechas importantes"
	denyEventEdit        = "Solo puedes editar tus propias fechas importantes"
	denyEventDel         = "Solo puedes eliminar tus propias fechas importantes"
	denyAnnouncementNew  = "Solo puedes crear avisos en tus talleres asignados"
	denyEventNew         = "Solo puedes crear fechas importantes en tus talleres asignados"
)

// ── 公告 ──
var (
	ErrAnnouncementNotFound   = apperrors.New(apperrors.KindNotFound, "Aviso no encontrado", "No se encontró el aviso especificado")
	ErrAnnouncementCreateRole = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "Solo los instructores pueden crear avisos")
)

// ── 日历 ──
var (
	ErrEventNotFound       = apperrors.New(apperrors.KindNotFound, "Fecha no encontrada", "No se encontró la fecha importante especificada")
	ErrEventCreateRole     = apperrors.New(apperrors.KindForbidden, "Acceso denegado", "Solo los instructores pueden crear fechas importantes")
	ErrMonthParams         = apperrors.New(apperrors.KindValidation, "Parámetros requeridos", "Se requieren los parámetros year y month")
	ErrTallerParamRequired = apperrors.New(apperrors.KindValidation, "Parámetro requerido", "Se requiere el parámetro tallerId")
	ErrRangeParams         = apperrors.New(apperrors.KindValidation, "Parámetros requeridos", "Se requieren los parámetros fechaInicio y fechaFin")
	ErrInvalidEventType    = apperrors.New(apperrors.KindValidation, "Tipo inválido", "Tipo de evento no válido")
)

// ── 认证 / 档案 ──
var (
	ErrInvalidCredentials   = apperrors.New(apperrors.KindUnauthorized, "Credenciales inválidas", "Email o contraseña incorrectos")
	ErrAccountDisabled      = apperrors.New(apperrors.KindUnauthorized, "Cuenta desactivada", "Tu cuenta ha sido desactivada. Contacta al administrador")
	ErrEmailTaken           = apperrors.New(apperrors.KindConflict, "Email ya registrado", "Ya existe una cuenta con este email")
	ErrUserNotFound         = apperrors.New(apperrors.KindNotFound, "Usuario no encontrado", "El usuario asociado al token no existe")
	ErrInvalidRefreshUser   = apperrors.New(apperrors.KindUnauthorized, "Usuario inválido", "No se puede renovar el token")
	ErrInvalidRefreshToken  = apperrors.New(apperrors.KindUnauthorized, "Token inválido", "El token de renovación no es válido o ha expirado")
	ErrWrongPassword        = apperrors.New(apperrors.KindValidation, "Contraseña incorrecta", "La contraseña actual no es correcta")
	ErrProfileNotFound      = apperrors.New(apperrors.KindNotFound, "Perfil no encontrado", "No se encontró información del perfil")
	ErrNumeroControlTaken   = apperrors.New(apperrors.KindConflict, "Número de control en uso", "Ya existe otro estudiante con este número de control")
	ErrProfileIncomplete    = apperrors.New(apperrors.KindValidation, "Datos incompletos", "Nombre y apellido paterno son requeridos")
	ErrAdminProfileReadOnly = apperrors.New(apperrors.KindForbidden, "Operación no permitida", "Los administradores no pueden actualizar su perfil desde aquí")
)

// ── 紧急联系信息 ──
var (
	ErrEmergencyFieldsRequired = apperrors.New(apperrors.KindValidation, "Datos incompletos", "Los campos de contacto de emergencia son obligatorios")
	ErrEmergencyNotFound       = apperrors.New(apperrors.KindNotFound, "Información no encontrada", "Información de emergencia no encontrada")
)
