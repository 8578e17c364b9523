package email

import "comicweb_backend/internal/config"

type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
}

// ConfigFromApp переносит секцию email конфига, пустой порт заменяется на 587
func ConfigFromApp(cfg *config.Config) *SMTPConfig {
	e := cfg.Email
	c := &SMTPConfig{
		Host:      e.SMTPHost,
		Port:      e.SMTPPort,
		Username:  e.SMTPUsername,
		Password:  e.SMTPPassword,
		FromEmail: e.FromEmail,
		FromName:  e.FromName,
		UseTLS:    e.UseTLS,
	}
	if c.Port == 0 {
		c.Port = 587
	}
	return c
}
