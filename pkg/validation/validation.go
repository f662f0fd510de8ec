package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// TiposEvento 日历事件类型（与 fechas_importantes.tipo_evento 约束一致）
var TiposEvento = []string{"evento", "examen", "entrega", "presentacion", "suspension", "otro"}

var (
	numeroControlRe = regexp.MustCompile(`^[A-Za-z0-9]{6,20}$`)
	tipoSangreRe    = regexp.MustCompile(`^(A|B|AB|O)[+-]$`)
)

// Register 在 gin 的校验引擎上注册自定义规则
// 应在路由初始化前调用一次
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin 校验引擎不是 validator/v10")
	}
	return RegisterOn(v)
}

// RegisterOn 在指定 validator 实例上注册自定义规则
func RegisterOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"numero_control": func(fl validator.FieldLevel) bool {
			return numeroControlRe.MatchString(fl.Field().String())
		},
		"tipo_evento": func(fl validator.FieldLevel) bool {
			return IsTipoEvento(fl.Field().String())
		},
		"tipo_sangre": func(fl validator.FieldLevel) bool {
			return tipoSangreRe.MatchString(strings.ToUpper(fl.Field().String()))
		},
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("注册校验规则 %s 失败: %w", tag, err)
		}
	}
	return nil
}

// IsTipoEvento 判断是否为合法的事件类型
func IsTipoEvento(s string) bool {
	for _, t := range TiposEvento {
		if s == t {
			return true
		}
	}
	return false
}

// FieldErrors 将绑定错误转换为 字段 -> 说明 的映射，用于 400 响应的 details
// 非校验错误（如 JSON 语法错误）返回 nil
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[jsonName(fe)] = describe(fe)
	}
	return out
}

func jsonName(fe validator.FieldError) string {
	// StructNamespace 形如 CreateTallerRequest.CupoMaximo，Field 为 Go 字段名
	// 绑定时 gin 未注册 tag name func，这里退化为 snake_case
	return toSnake(fe.Field())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "email":
		return "debe ser un email válido"
	case "min":
		return "debe ser al menos " + fe.Param()
	case "max":
		return "debe ser como máximo " + fe.Param()
	case "gt":
		return "debe ser mayor que " + fe.Param()
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	case "uuid":
		return "debe ser un UUID válido"
	case "numero_control":
		return "debe tener entre 6 y 20 caracteres alfanuméricos"
	case "tipo_evento":
		return "debe ser uno de: " + strings.Join(TiposEvento, ", ")
	case "tipo_sangre":
		return "debe ser un tipo de sangre válido (ej. O+)"
	default:
		return "no es válido"
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
