// Package email sends transactional mail about entitlement changes.
package email

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	BaseURL     string // Base URL for links in mail bodies, e.g. "https://genesiscode.dev"
}

type SMTPEmailService struct {
	config SMTPConfig
	dialer *gomail.Dialer
}

func NewSMTPEmailService(config SMTPConfig) *SMTPEmailService {
	return &SMTPEmailService{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
	}
}

// SendCategoryUnlockedEmail confirms a category purchase or free grant and lists
// the paths that became available.
func (s *SMTPEmailService) SendCategoryUnlockedEmail(to, categoryName string, pathTitles []string) error {
	m := s.categoryUnlockedMessage(to, categoryName, pathTitles)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (s *SMTPEmailService) categoryUnlockedMessage(to, categoryName string, pathTitles []string) *gomail.Message {
	link := fmt.Sprintf("%s/learn", strings.TrimRight(s.config.BaseURL, "/"))

	var items, plain strings.Builder
	for _, t := range pathTitles {
		fmt.Fprintf(&items, "<li>%s</li>", html.EscapeString(t))
		fmt.Fprintf(&plain, "  - %s\n", t)
	}

	htmlBody := fmt.Sprintf(`<html>
<body>
	<h2>%s is unlocked</h2>
	<p>You now have access to every path in this category. The first level of each path is open; the rest unlock as you complete the level before them.</p>
	<ul>%s</ul>
	<p><a href="%s">Start learning</a></p>
</body>
</html>`, html.EscapeString(categoryName), items.String(), link)

	plainBody := fmt.Sprintf(`%s is unlocked

You now have access to every path in this category:
%s
Start learning: %s
`, categoryName, plain.String(), link)

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.config.FromAddress, s.config.FromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("%s is unlocked", categoryName))
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)
	return m
}

// NopEmailService is used when email.enabled is false.
type NopEmailService struct{}

func (NopEmailService) SendCategoryUnlockedEmail(string, string, []string) error { return nil }
