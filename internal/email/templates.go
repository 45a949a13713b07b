package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateData данные для шаблонов писем заявок
type TemplateData struct {
	VendorName      string
	ShopName        string
	MarketName      string
	MarketDates     string
	RejectionReason string
	PaymentMethod   string
	PaymentStatus   string
	ChangedFields   []string
}

// TemplateManager хранит разобранные шаблоны писем
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

func NewTemplateManager() *TemplateManager {
	tm := &TemplateManager{templates: make(map[string]*template.Template)}
	for name, body := range builtinTemplates {
		// Встроенные шаблоны валидны по построению
		tm.templates[name] = template.Must(template.New(name).Parse(body))
	}
	return tm
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(name string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[name]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", name)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name, body string) error {
	tpl, err := template.New(name).Parse(body)
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

// Названия шаблонов жизненного цикла заявки
const (
	TemplateApplicationCreated   = "application_created"
	TemplateApplicationAccepted  = "application_accepted"
	TemplateApplicationDeclined  = "application_declined"
	TemplateApplicationConfirmed = "application_confirmed"
	TemplatePaymentUpdated       = "payment_updated"
	TemplateApplicationUpdated   = "application_updated"
)

var builtinTemplates = map[string]string{
	TemplateApplicationCreated: `
<html><body>
<h2>Application received</h2>
<p>Hi {{.VendorName}},</p>
<p>Your application for <b>{{.ShopName}}</b> to join <b>{{.MarketName}}</b>{{if .MarketDates}} ({{.MarketDates}}){{end}} has been submitted.</p>
<p>The organizer will review it and you will hear back by email.</p>
</body></html>`,

	TemplateApplicationAccepted: `
<html><body>
<h2>You're in!</h2>
<p>Hi {{.VendorName}},</p>
<p>Great news: <b>{{.ShopName}}</b> has been accepted to <b>{{.MarketName}}</b>{{if .MarketDates}} ({{.MarketDates}}){{end}}.</p>
<p>Please confirm your spot in the app to lock it in.</p>
</body></html>`,

	TemplateApplicationDeclined: `
<html><body>
<h2>Application update</h2>
<p>Hi {{.VendorName}},</p>
<p>Unfortunately your application for <b>{{.ShopName}}</b> to <b>{{.MarketName}}</b> was not accepted this time.</p>
{{if .RejectionReason}}<p>Organizer's note: {{.RejectionReason}}</p>{{end}}
</body></html>`,

	TemplateApplicationConfirmed: `
<html><body>
<h2>Spot confirmed</h2>
<p>Hi {{.VendorName}},</p>
<p><b>{{.ShopName}}</b> is confirmed for <b>{{.MarketName}}</b>{{if .MarketDates}} ({{.MarketDates}}){{end}}. See you there!</p>
</body></html>`,

	TemplatePaymentUpdated: `
<html><body>
<h2>Payment update</h2>
<p>Hi {{.VendorName}},</p>
<p>Payment details for your <b>{{.MarketName}}</b> application were updated.</p>
{{if .PaymentMethod}}<p>Method: {{.PaymentMethod}}</p>{{end}}
{{if .PaymentStatus}}<p>Status: {{.PaymentStatus}}</p>{{end}}
</body></html>`,

	TemplateApplicationUpdated: `
<html><body>
<h2>Application updated</h2>
<p>Hi {{.VendorName}},</p>
<p>Your application for <b>{{.MarketName}}</b> was updated.</p>
{{if .ChangedFields}}<ul>{{range .ChangedFields}}<li>{{.}}</li>{{end}}</ul>{{end}}
</body></html>`,
}
