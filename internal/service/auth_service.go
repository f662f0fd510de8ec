package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"talleres-api/config"
	"talleres-api/internal/dto"
	"talleres-api/internal/model"
	"talleres-api/internal/repository"
	"talleres-api/pkg/database"
	apperrors "talleres-api/pkg/errors"
	"talleres-api/pkg/jwt"
)

// 自助注册生成的临时档案
const (
	tempNumeroControlPrefix = "TEMP_"
	tempNombre              = "Pendiente"
	tempApellido            = "de completar"
	tempProfileMessage      = "Completa tu perfil desde el dashboard para acceder a todas las funciones"
)

// TokenBlacklist Token 黑名单存储
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Register 自助注册只创建 alumno 账号，并在同一事务内生成临时档案
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Verify(ctx context.Context, userID string) (*dto.UserResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg       *config.Config
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService 创建 AuthService 实例；blacklist 为 nil 时登出仅由客户端丢弃 Token
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:       cfg,
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────── Login ──────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	// 1. 查询用户
	user, err := s.repo.User.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)，通过后再提示停用，避免泄露账号状态
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Activo {
		return nil, ErrAccountDisabled
	}

	// 3. 生成 Token 对
	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	if user.TipoUsuario == model.TipoAlumno {
		resp.User.PerfilCompleto = s.studentProfileComplete(ctx, user.ID)
	}

	s.logger.Info("登录成功", zap.String("user_id", user.ID), zap.String("tipo_usuario", user.TipoUsuario))
	return resp, nil
}

// ────── Register ──────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询用户失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost())
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		TipoUsuario:  model.TipoAlumno,
		Activo:       true,
	}
	profile := &model.StudentProfile{
		Nombre:          tempNombre,
		ApellidoPaterno: tempApellido,
		NumeroControl:   fmt.Sprintf("%s%d", tempNumeroControlPrefix, time.Now().UnixMilli()),
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context, tx *repository.Repository) error {
		if err := tx.User.Create(ctx, user); err != nil {
			return err
		}
		profile.UsuarioID = user.ID
		return tx.Student.Create(ctx, profile)
	})
	if err != nil {
		// 并发注册同一邮箱，由唯一索引兜底
		if apperrors.SQLState(err) == database.SQLStateUniqueViolation {
			return nil, ErrEmailTaken
		}
		s.logger.Error("注册失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	incomplete := false
	resp.User.PerfilCompleto = &incomplete
	resp.Profile = &dto.RegisteredProfile{
		ID:             profile.ID,
		PerfilCompleto: false,
		Mensaje:        tempProfileMessage,
	}

	s.logger.Info("注册成功", zap.String("user_id", user.ID))
	return resp, nil
}

// ────── Verify ──────

func (s *authService) Verify(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	resp := toUserResponse(user)
	if user.TipoUsuario == model.TipoAlumno {
		resp.PerfilCompleto = s.studentProfileComplete(ctx, user.ID)
	}
	return &resp, nil
}

// ────── Refresh ──────

// Refresh 用 Refresh Token 换取新的 Token 对；旧 Refresh Token 加入黑名单
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("检查 Token 黑名单失败", zap.Error(err))
		} else if revoked {
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefreshUser
		}
		s.logger.Error("查询用户失败", zap.String("user_id", claims.UserID), zap.Error(err))
		return nil, err
	}
	if !user.Activo {
		return nil, ErrInvalidRefreshUser
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return resp, nil
}

// ────── Logout ──────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return nil
	}
	s.revoke(ctx, claims)
	s.logger.Info("用户登出", zap.String("user_id", claims.UserID))
	return nil
}

// ────── ChangePassword ──────

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost())
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return err
	}
	if err := s.repo.User.UpdatePassword(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("更新密码失败", zap.String("user_id", userID), zap.Error(err))
		return err
	}

	s.logger.Info("密码已修改", zap.String("user_id", userID))
	return nil
}

// ── 辅助函数 ──

func (s *authService) issueTokens(user *model.User) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.ID, user.Email, user.TipoUsuario)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}
	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.ID, user.Email, user.TipoUsuario)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.AuthResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		User:         toUserResponse(user),
	}, nil
}

// revoke 将 Token 剩余有效期写入黑名单，失败只记录日志
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims.ExpiresAt == nil {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("Token 加入黑名单失败", zap.String("jti", claims.ID), zap.Error(err))
	}
}

// studentProfileComplete 临时控制号表示档案尚未补全；查询失败时不返回该字段
func (s *authService) studentProfileComplete(ctx context.Context, userID string) *bool {
	p, err := s.repo.Student.GetByUsuarioID(ctx, userID)
	if err != nil {
		return nil
	}
	complete := isProfileComplete(p)
	return &complete
}

func (s *authService) bcryptCost() int {
	if s.cfg.Auth.BcryptCost < bcrypt.MinCost {
		return bcrypt.DefaultCost
	}
	return s.cfg.Auth.BcryptCost
}

func isProfileComplete(p *model.StudentProfile) bool {
	return !strings.HasPrefix(p.NumeroControl, tempNumeroControlPrefix)
}

func toUserResponse(u *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		TipoUsuario:   u.TipoUsuario,
		Activo:        u.Activo,
		FechaRegistro: u.FechaRegistro,
	}
}
