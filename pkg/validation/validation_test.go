package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type sample struct {
	NumeroControl string `validate:"required,numero_control"`
	TipoEvento    string `validate:"omitempty,tipo_evento"`
	TipoSangre    string `validate:"omitempty,tipo_sangre"`
	CupoMaximo    int    `validate:"gt=0"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterOn(v); err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	return v
}

func TestRules(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name    string
		in      sample
		wantErr bool
	}{
		{"合法", sample{NumeroControl: "21325060", TipoEvento: "examen", TipoSangre: "o+", CupoMaximo: 20}, false},
		{"控制号含符号", sample{NumeroControl: "213-250", CupoMaximo: 1}, true},
		{"控制号过短", sample{NumeroControl: "123", CupoMaximo: 1}, true},
		{"未知事件类型", sample{NumeroControl: "21325060", TipoEvento: "fiesta", CupoMaximo: 1}, true},
		{"非法血型", sample{NumeroControl: "21325060", TipoSangre: "C+", CupoMaximo: 1}, true},
		{"容量为 0", sample{NumeroControl: "21325060", CupoMaximo: 0}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("wantErr=%v, err=%v", tt.wantErr, err)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	v := newValidator(t)

	err := v.Struct(sample{NumeroControl: "", CupoMaximo: 0})
	fields := FieldErrors(err)

	if fields["numero_control"] != "es requerido" {
		t.Errorf("numero_control 说明不符合预期: %q", fields["numero_control"])
	}
	if fields["cupo_maximo"] == "" {
		t.Error("cupo_maximo 应出现在错误映射中")
	}
}

func TestFieldErrors_NonValidationError(t *testing.T) {
	if FieldErrors(nil) != nil {
		t.Error("nil 错误应返回 nil")
	}
}
