package service

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"trialbalance/config"

	"gopkg.in/gomail.v2"
)

// Notifier 导入新对账单后的通知
type Notifier interface {
	NotifyIngest(ctx context.Context, res *IngestResult) error
}

// EmailService 邮件服务
type EmailService struct {
	cfg  *config.EmailConfig
	send func(m *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	s := &EmailService{cfg: cfg}
	s.send = s.dialAndSend
	return s
}

// NotifyIngest 发送导入报告，未启用或没有收件人时直接返回
func (s *EmailService) NotifyIngest(_ context.Context, res *IngestResult) error {
	if !s.cfg.Enabled || len(s.cfg.To) == 0 || res == nil || res.Duplicate {
		return nil
	}

	subject := fmt.Sprintf("【试算平衡表】%s %s - %s 导入完成",
		res.BankName,
		res.StartDate.Format("02.01.2006"),
		res.EndDate.Format("02.01.2006"))
	return s.sendEmail(s.cfg.To, subject, s.generateIngestReportBody(res))
}

// generateIngestReportBody 生成导入报告内容
func (s *EmailService) generateIngestReportBody(res *IngestResult) string {
	var skipped strings.Builder
	if len(res.Skipped) == 0 {
		skipped.WriteString("<p>没有被跳过的行。</p>")
	} else {
		reasons := make([]string, 0, len(res.Skipped))
		for r := range res.Skipped {
			reasons = append(reasons, r)
		}
		sort.Strings(reasons)

		skipped.WriteString("<table><tr><th>原因</th><th>行数</th></tr>")
		for _, r := range reasons {
			fmt.Fprintf(&skipped, "<tr><td>%s</td><td>%d</td></tr>", html.EscapeString(r), res.Skipped[r])
		}
		skipped.WriteString("</table>")
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #10b981, #059669); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 22px; }
        .content { padding: 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 12px; }
        table { border-collapse: collapse; width: 100%%; margin: 10px 0 20px; }
        th, td { border: 1px solid #e5e7eb; padding: 8px 12px; text-align: left; font-size: 14px; }
        th { background: #f0fdf4; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>对账单导入完成</h1>
        </div>
        <div class="content">
            <p>文件：<strong>%s</strong></p>
            <p>银行：<strong>%s</strong></p>
            <p>期间：%s - %s</p>
            <table>
                <tr><th>对账单 ID</th><td>%d</td></tr>
                <tr><th>类别数</th><td>%d</td></tr>
                <tr><th>明细行数</th><td>%d</td></tr>
                <tr><th>扫描行数</th><td>%d</td></tr>
            </table>
            %s
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
        </div>
    </div>
</body>
</html>
`,
		html.EscapeString(res.Filename),
		html.EscapeString(res.BankName),
		res.StartDate.Format("02.01.2006"),
		res.EndDate.Format("02.01.2006"),
		res.DocumentID,
		res.Categories,
		res.Outlays,
		res.RowsScanned,
		skipped.String())
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to []string, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.send(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}

func (s *EmailService) dialAndSend(m *gomail.Message) error {
	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}

// SendTestEmail 发送测试邮件
func (s *EmailService) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【试算平衡表】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明导入报告可以正常发送。</p>
</body>
</html>
`
	return s.sendEmail([]string{toEmail}, subject, body)
}
