package mailer

import (
	"fmt"
	"heritage_edu_backend/internal/config"
	"net/smtp"
	"strings"
)

// Mailer 反馈通知邮件，发送失败由调用方记录日志，不影响请求结果
type Mailer struct {
	cfg *config.MailConfig
}

func New(cfg *config.MailConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// Enabled 未配置 SMTP 时静默跳过发送
func (m *Mailer) Enabled() bool {
	return m.cfg.SMTPHost != "" && m.cfg.Sender != ""
}

func (m *Mailer) Send(to []string, subject, body string) error {
	if !m.Enabled() {
		return nil
	}

	msg := "MIME-version: 1.0;\nContent-Type: text/plain; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Heritage Platform <%s>\r\n", m.cfg.Sender)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += body

	auth := smtp.PlainAuth("", m.cfg.Sender, m.cfg.Password, m.cfg.SMTPHost)
	return smtp.SendMail(m.cfg.SMTPHost+":"+m.cfg.SMTPPort, auth, m.cfg.Sender, to, []byte(msg))
}
