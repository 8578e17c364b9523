package email

import (
	"fmt"
	"html/template"
	"strings"
	"sync"
)

// TemplateManager реализует TemplateRenderer
type TemplateManager struct {
	templates map[string]*template.Template
	mutex     sync.RWMutex
}

// NewTemplateManager создает менеджер со встроенными шаблонами
func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}
	for name, body := range builtinTemplates {
		if err := tm.AddTemplate(name, body); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// Render рендерит шаблон с данными
func (tm *TemplateManager) Render(templateName string, data TemplateData) (string, error) {
	tm.mutex.RLock()
	tpl, exists := tm.templates[templateName]
	tm.mutex.RUnlock()

	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

// AddTemplate добавляет или заменяет шаблон
func (tm *TemplateManager) AddTemplate(name string, templateStr string) error {
	tpl, err := template.New(name).Parse(templateStr)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	tm.mutex.Lock()
	tm.templates[name] = tpl
	tm.mutex.Unlock()
	return nil
}

var builtinTemplates = map[string]string{
	TemplateVerificationCode: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>Your email verification code is:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>The code expires in {{.ExpiresIn}}.</p>
  <p>If you did not create an account, ignore this email.</p>
</body>
</html>`,
	TemplatePasswordReset: `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
  <p>Hi {{.Name}},</p>
  <p>Use this code to reset your password:</p>
  <p style="font-size: 24px; font-weight: bold; letter-spacing: 4px;">{{.Code}}</p>
  <p>The code expires in {{.ExpiresIn}}.</p>
  <p>If you did not request a password reset, ignore this email.</p>
</body>
</html>`,
}
