package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"talleres-api/config"
)

// EnrollmentConfirmation 报名确认邮件内容
type EnrollmentConfirmation struct {
	To               string
	StudentName      string
	WorkshopName     string
	Horario          string
	Ubicacion        string
	FechaInscripcion time.Time
}

// Mailer SMTP 邮件发送器
// 未启用时仅记录日志，不建立 SMTP 连接
type Mailer struct {
	dialer  *gomail.Dialer
	from    string
	baseURL string
	enabled bool
	logger  *zap.Logger
}

// NewMailer 创建邮件发送器
func NewMailer(cfg *config.MailConfig, baseURL string, logger *zap.Logger) *Mailer {
	return &Mailer{
		dialer:  gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:    cfg.From,
		baseURL: baseURL,
		enabled: cfg.Enabled,
		logger:  logger.Named("mail"),
	}
}

// SendEnrollmentConfirmation 发送报名确认邮件
func (m *Mailer) SendEnrollmentConfirmation(ctx context.Context, msg EnrollmentConfirmation) error {
	if !m.enabled {
		m.logger.Debug("邮件未启用，跳过发送", zap.String("to", msg.To))
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	message, err := m.buildEnrollmentMessage(msg)
	if err != nil {
		return err
	}

	if err := m.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("发送报名确认邮件失败: %w", err)
	}

	m.logger.Info("报名确认邮件已发送",
		zap.String("to", msg.To),
		zap.String("taller", msg.WorkshopName),
	)
	return nil
}

var enrollmentTmpl = template.Must(template.New("inscripcion").Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px; border: 1px solid #ddd; border-radius: 8px; background-color: #f5f5f5;">
	<h2 style="color: #333; text-align: center;">Inscripción confirmada</h2>
	<p>Hola {{.StudentName}},</p>
	<p>Tu inscripción al taller <strong>{{.WorkshopName}}</strong> quedó registrada el {{.Fecha}}.</p>
	{{if .Horario}}<p>Horario: {{.Horario}}</p>{{end}}
	{{if .Ubicacion}}<p>Ubicación: {{.Ubicacion}}</p>{{end}}
	<p style="text-align: center;"><a href="{{.Link}}" style="display: inline-block; padding: 10px 20px; background-color: #007bff; color: #fff; text-decoration: none; border-radius: 5px;">Ver mis talleres</a></p>
</div>
`))

func (m *Mailer) renderEnrollmentBody(msg EnrollmentConfirmation) (string, error) {
	var body bytes.Buffer
	err := enrollmentTmpl.Execute(&body, map[string]string{
		"StudentName":  msg.StudentName,
		"WorkshopName": msg.WorkshopName,
		"Horario":      msg.Horario,
		"Ubicacion":    msg.Ubicacion,
		"Fecha":        msg.FechaInscripcion.Format("02/01/2006 15:04"),
		"Link":         m.baseURL + "/dashboard/inscripciones",
	})
	if err != nil {
		return "", fmt.Errorf("渲染邮件模板失败: %w", err)
	}
	return body.String(), nil
}

func (m *Mailer) buildEnrollmentMessage(msg EnrollmentConfirmation) (*gomail.Message, error) {
	body, err := m.renderEnrollmentBody(msg)
	if err != nil {
		return nil, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", m.from)
	message.SetHeader("To", msg.To)
	message.SetHeader("Subject", "Inscripción confirmada: "+msg.WorkshopName)
	message.SetBody("text/html", body)
	return message, nil
}
