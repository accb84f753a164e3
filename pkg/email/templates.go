package email

import (
	"bytes"
	"html/template"
)

// TemplateManager holds the parsed email templates.
type TemplateManager struct {
	orderExpiredTmpl *template.Template
}

// NewTemplateManager parses all email templates at startup.
func NewTemplateManager() (*TemplateManager, error) {
	orderExpiredTmpl, err := template.New("orderExpired").Parse(orderExpiredTemplate)
	if err != nil {
		return nil, err
	}

	return &TemplateManager{orderExpiredTmpl: orderExpiredTmpl}, nil
}

// OrderExpiredData holds the dynamic data for the expiry notice.
type OrderExpiredData struct {
	Name    string
	OrderID int
}

// GenerateOrderExpiredEmailHTML executes the expiry-notice template.
func (tm *TemplateManager) GenerateOrderExpiredEmailHTML(data OrderExpiredData) (string, error) {
	var body bytes.Buffer
	if err := tm.orderExpiredTmpl.Execute(&body, data); err != nil {
		return "", err
	}
	return body.String(), nil
}

// --- HTML Template Definitions ---

const orderExpiredTemplate = `
<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Your ride request expired</title>
</head>
<body style="font-family: Arial, sans-serif; color: #333;">
  <div style="max-width: 600px; margin: 0 auto; padding: 24px;">
    <h2>Hi {{.Name}},</h2>
    <p>
      We couldn't find a driver for your request <strong>#{{.OrderID}}</strong>
      in time, so it has been cancelled automatically. You have not been charged.
    </p>
    <p>
      You can open the app and request a new ride whenever you're ready.
    </p>
    <p style="color: #888; font-size: 12px;">
      This is an automated message; replies to this address are not monitored.
    </p>
  </div>
</body>
</html>
`
