package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"talleres-api/internal/dto"
	apperrors "talleres-api/pkg/errors"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = apperrors.New(apperrors.KindInternal, "Error interno del servidor", "Error al generar el archivo Excel")

// rosterExportLimit 导出时一次读取的名单上限
const rosterExportLimit = 5000

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出工作坊报名名单为 Excel (.xlsx)，权限与名单查询一致（管理员或负责讲师）
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportRoster 导出名单，返回文件内容与建议文件名
	ExportRoster(ctx context.Context, caller Caller, tallerID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	talleres TallerService
	logger   *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(talleres TallerService, logger *zap.Logger) ExportService {
	return &exportService{talleres: talleres, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportRoster 导出报名名单
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - Sheet "Inscritos"
//   - 第 1 行：工作坊名称（合并单元格）
//   - 第 2 行：表头
//   - 第 3 行起：每个活跃报名一行，按父姓、名字排序

func (s *exportService) ExportRoster(ctx context.Context, caller Caller, tallerID string) (*bytes.Buffer, string, error) {
	roster, err := s.talleres.ListEnrolledStudents(ctx, caller, tallerID, &dto.RosterQuery{
		PageQuery: dto.PageQuery{Limit: rosterExportLimit},
	})
	if err != nil {
		return nil, "", err
	}

	headers := []string{
		"#", "Número de control", "Nombre", "Apellido paterno", "Apellido materno",
		"Grupo", "Semestre", "Email", "Teléfono", "Fecha de inscripción", "Comentarios",
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Inscritos"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 6)
	f.SetColWidth(sheetName, "B", colName(len(headers)-1), 18)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s (%s)", roster.Taller.Nombre, roster.Taller.Categoria))
	f.MergeCell(sheetName, "A1", cell(colName(len(headers)-1), 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 2), h)
	}
	f.SetCellStyle(sheetName, "A2", cell(colName(len(headers)-1), 2), headerStyle)

	// 数据行
	row := 3
	for i, a := range roster.Alumnos {
		values := []interface{}{
			i + 1,
			a.NumeroControl,
			a.Nombre,
			a.ApellidoPaterno,
			deref(a.ApellidoMaterno),
			deref(a.Grupo),
			semestreText(a.Semestre),
			a.Email,
			deref(a.Telefono),
			a.FechaInscripcion.Format("2006-01-02 15:04"),
			deref(a.Comentarios),
		}
		for col, v := range values {
			f.SetCellValue(sheetName, cell(colName(col), row), v)
		}
		row++
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.String("taller_id", tallerID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("名单已导出",
		zap.String("taller_id", tallerID),
		zap.Int("alumnos", len(roster.Alumnos)),
		zap.String("by", caller.UserID),
	)
	return buf, rosterFilename(roster.Taller.Nombre), nil
}

// ── 辅助函数 ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func semestreText(s *int) string {
	if s == nil {
		return ""
	}
	return fmt.Sprintf("%d", *s)
}

// rosterFilename 文件名中的空白与路径分隔符替换为下划线
func rosterFilename(nombre string) string {
	clean := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', '"':
			return '_'
		}
		return r
	}, strings.TrimSpace(nombre))
	if clean == "" {
		clean = "taller"
	}
	return fmt.Sprintf("inscritos_%s.xlsx", clean)
}
