package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"talleres-api/config"
	"talleres-api/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ── Mock ──

type fakeBlacklist struct {
	revoked map[string]bool
	err     error
}

func (f *fakeBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

type fakeLimiter struct {
	allow bool
	retry time.Duration
	err   error
	keys  []string
}

func (f *fakeLimiter) CheckRateLimit(_ context.Context, key string, _ int, _ time.Duration) (bool, time.Duration, error) {
	f.keys = append(f.keys, key)
	return f.allow, f.retry, f.err
}

// ── 辅助 ──

func newJWT(accessTTL time.Duration) *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-para-middleware",
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
	})
}

func authedEngine(mgr *jwt.Manager, bl TokenBlacklist, roles ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(mgr, bl)}
	if len(roles) > 0 {
		handlers = append(handlers, RoleAuth(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("user_id")+"|"+c.GetString("role"))
	})
	r.GET("/p", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	r.ServeHTTP(w, req)
	return w
}

// ── JWTAuth ──

func TestJWTAuth_Valid(t *testing.T) {
	mgr := newJWT(15 * time.Minute)
	token, _ := mgr.GenerateAccessToken("u-a1", "a1@talleres.mx", "alumno")

	w := get(authedEngine(mgr, nil), "Bearer "+token)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if w.Body.String() != "u-a1|alumno" {
		t.Errorf("上下文注入错误: %s", w.Body.String())
	}
}

func TestJWTAuth_Rejections(t *testing.T) {
	mgr := newJWT(15 * time.Minute)
	expired, _ := newJWT(-time.Minute).GenerateAccessToken("u-a1", "a1@talleres.mx", "alumno")
	refresh, _ := mgr.GenerateRefreshToken("u-a1", "a1@talleres.mx", "alumno")
	foreign, _ := jwt.NewManager(&config.AuthConfig{JWTSecret: "otra", AccessTokenTTL: time.Minute}).GenerateAccessToken("u-a1", "a1@talleres.mx", "alumno")

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"missing", "", "Token de acceso requerido"},
		{"bad format", "Token abc", "Formato de token inválido"},
		{"empty bearer", "Bearer ", "Formato de token inválido"},
		{"expired", "Bearer " + expired, "El token ha expirado"},
		{"wrong secret", "Bearer " + foreign, "Token inválido"},
		{"refresh token", "Bearer " + refresh, "Tipo de token inválido"},
	}
	r := authedEngine(mgr, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.header)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("期望 401，实际 %d", w.Code)
			}
			if !bytes.Contains(w.Body.Bytes(), []byte(tt.want)) {
				t.Errorf("期望包含 %q，实际 %s", tt.want, w.Body.String())
			}
		})
	}
}

func TestJWTAuth_Blacklist(t *testing.T) {
	mgr := newJWT(15 * time.Minute)
	token, _ := mgr.GenerateAccessToken("u-a1", "a1@talleres.mx", "alumno")
	claims, err := mgr.ParseToken(token)
	if err != nil {
		t.Fatalf("解析 Token 失败: %v", err)
	}

	bl := &fakeBlacklist{revoked: map[string]bool{claims.ID: true}}
	if w := get(authedEngine(mgr, bl), "Bearer "+token); w.Code != http.StatusUnauthorized {
		t.Errorf("已吊销 Token 期望 401，实际 %d", w.Code)
	}

	// Redis 故障时降级放行
	down := &fakeBlacklist{err: errors.New("redis: connection refused")}
	if w := get(authedEngine(mgr, down), "Bearer "+token); w.Code != http.StatusOK {
		t.Errorf("黑名单不可用时期望放行，实际 %d", w.Code)
	}
}

// ── RoleAuth ──

func TestRoleAuth(t *testing.T) {
	mgr := newJWT(15 * time.Minute)
	alumno, _ := mgr.GenerateAccessToken("u-a1", "a1@talleres.mx", "alumno")
	admin, _ := mgr.GenerateAccessToken("u-ad", "admin@talleres.mx", "admin")

	r := authedEngine(mgr, nil, "admin", "instructor")
	if w := get(r, "Bearer "+alumno); w.Code != http.StatusForbidden {
		t.Errorf("alumno 期望 403，实际 %d", w.Code)
	}
	if w := get(r, "Bearer "+admin); w.Code != http.StatusOK {
		t.Errorf("admin 期望 200，实际 %d", w.Code)
	}

	bare := gin.New()
	bare.GET("/p", RoleAuth("admin"), func(c *gin.Context) { c.Status(http.StatusOK) })
	if w := get(bare, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("未经 JWTAuth 期望 401，实际 %d", w.Code)
	}
}

// ── RateLimit ──

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name    string
		limiter RateLimiter
		limit   int
		status  int
		retry   string
	}{
		{"allowed", &fakeLimiter{allow: true}, 5, http.StatusOK, ""},
		{"denied", &fakeLimiter{allow: false, retry: 12300 * time.Millisecond}, 5, http.StatusTooManyRequests, "13"},
		{"denied sin retry", &fakeLimiter{allow: false}, 5, http.StatusTooManyRequests, "60"},
		{"limiter error", &fakeLimiter{err: errors.New("timeout")}, 5, http.StatusOK, ""},
		{"nil limiter", nil, 5, http.StatusOK, ""},
		{"disabled", &fakeLimiter{allow: false}, 0, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/p", RateLimit(tt.limiter, tt.limit, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

			w := get(r, "")
			if w.Code != tt.status {
				t.Errorf("期望 %d，实际 %d", tt.status, w.Code)
			}
			if got := w.Header().Get("Retry-After"); got != tt.retry {
				t.Errorf("期望 Retry-After=%q，实际 %q", tt.retry, got)
			}
		})
	}
}

func TestRateLimit_Key(t *testing.T) {
	fl := &fakeLimiter{allow: true}
	r := gin.New()
	r.GET("/p", RateLimit(fl, 5, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/q", func(c *gin.Context) {
		c.Set("user_id", "u-42")
		c.Next()
	}, RateLimit(fl, 5, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	get(r, "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/q", nil))

	want := []string{"/p|ip:192.0.2.1", "/q|user:u-42"}
	if len(fl.keys) != len(want) {
		t.Fatalf("限流 key 数量错误: %v", fl.keys)
	}
	for i := range want {
		if fl.keys[i] != want[i] {
			t.Errorf("第 %d 个 key 期望 %q，实际 %q", i, want[i], fl.keys[i])
		}
	}
}

// ── BodyLimit ──

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodyLimit(16))
	r.POST("/p", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	small := httptest.NewRequest(http.MethodPost, "/p", bytes.NewReader([]byte(`{"a":1}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, small)
	if w.Code != http.StatusOK {
		t.Errorf("小请求体期望 200，实际 %d", w.Code)
	}

	large := httptest.NewRequest(http.MethodPost, "/p", bytes.NewReader(bytes.Repeat([]byte("x"), 64)))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, large)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("声明长度超限期望 413，实际 %d", w.Code)
	}

	// 未声明长度时由 MaxBytesReader 截断
	chunked := httptest.NewRequest(http.MethodPost, "/p", io.NopCloser(bytes.NewReader(bytes.Repeat([]byte("x"), 64))))
	chunked.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, chunked)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("读取超限期望 413，实际 %d", w.Code)
	}
}

// ── RequestID / CORS ──

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := get(r, "")
	if id := w.Header().Get("X-Request-ID"); id == "" || id != w.Body.String() {
		t.Errorf("应生成并回写 X-Request-ID: header=%q body=%q", id, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc-123" {
		t.Errorf("应沿用上游 X-Request-ID，实际 %q", w.Header().Get("X-Request-ID"))
	}

	for _, bad := range []string{"abc\ninjected", "<script>", string(make([]byte, 65))} {
		req := httptest.NewRequest(http.MethodGet, "/p", nil)
		req.Header.Set("X-Request-ID", bad)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if got := w.Header().Get("X-Request-ID"); got == bad || got == "" {
			t.Errorf("非法 X-Request-ID %q 应被替换，实际 %q", bad, got)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(SecurityHeaders())
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "")
	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("X-Frame-Options") != "DENY" {
		t.Errorf("缺少安全头: %v", w.Header())
	}
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Error("明文 HTTP 不应下发 HSTS")
	}

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Error("经 https 代理时应下发 HSTS")
	}
}

func TestCORS_Preflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/p", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("预检期望 204，实际 %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Errorf("Allow-Origin 错误: %q", w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestCORS_UnlistedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"http://localhost:5173"}))
	r.GET("/p", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/p", nil)
	req.Header.Set("Origin", "http://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("非白名单预检期望 403，实际 %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("非白名单简单请求应放行但不带 CORS 头: %d %v", w.Code, w.Header())
	}
}
