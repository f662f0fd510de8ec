package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestOKPage_TotalIsPageSize(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKPage(c, "ok", []string{"a", "b"}, 20, 40, 2)

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	p := body["pagination"].(map[string]interface{})
	if p["limit"].(float64) != 20 || p["offset"].(float64) != 40 || p["total"].(float64) != 2 {
		t.Errorf("分页块不符合预期: %v", p)
	}
}

func TestOK_OmitsPagination(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OK(c, "ok", gin.H{"id": "1"})

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if _, ok := body["pagination"]; ok {
		t.Error("非分页响应不应包含 pagination")
	}
}

func TestInternalError_GenericMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	InternalError(c, "")

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("期望 500，实际=%d", w.Code)
	}
	var body ErrorBody
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Error != "Error interno del servidor" || body.Message == "" {
		t.Errorf("500 响应体不符合预期: %+v", body)
	}
}

func TestOKWith_MergesExtraFields(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKWith(c, "ok", []int{}, gin.H{"dias": 30})

	var body map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["dias"].(float64) != 30 {
		t.Errorf("期望 dias=30，实际=%v", body["dias"])
	}
}
