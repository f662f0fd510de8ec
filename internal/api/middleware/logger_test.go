package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), Logger(zap.New(core)))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/talleres/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(errors.New("pool agotado"))
		c.Status(http.StatusInternalServerError)
	})

	for _, p := range []string{"/health", "/api/talleres/t-9", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if logs.Len() != 2 {
		t.Fatalf("/health 不应在 Info 级输出，期望 2 条，实际 %d", logs.Len())
	}

	warn := logs.FilterLevelExact(zapcore.WarnLevel).All()
	if len(warn) != 1 || warn[0].ContextMap()["route"] != "/api/talleres/:id" {
		t.Errorf("4xx 应以 Warn 记录路由模板: %+v", warn)
	}

	errs := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	if len(errs) != 1 {
		t.Fatalf("期望 1 条 Error 日志，实际 %d", len(errs))
	}
	if got, ok := errs[0].ContextMap()["errors"].([]interface{}); !ok || len(got) != 1 || got[0] != "pool agotado" {
		t.Errorf("内部错误未输出: %v", errs[0].ContextMap()["errors"])
	}
}
