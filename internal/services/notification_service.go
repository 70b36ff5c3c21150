package services

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/containrrr/shoutrrr"

	"github.com/demandhub/backend/internal/logger"
	"github.com/demandhub/backend/internal/version"
)

// NotificationService fans operator messages out to shoutrrr URLs.
type NotificationService struct {
	urls []string
	send func(url, message string) error
	wg   sync.WaitGroup
}

func NewNotificationService(urls []string) *NotificationService {
	normalized := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			normalized = append(normalized, normalizeURL(u))
		}
	}
	return &NotificationService{urls: normalized, send: shoutrrrSend}
}

func shoutrrrSend(url, message string) error {
	return shoutrrr.Send(url, message)
}

var discordWebhookRegex = regexp.MustCompile(`^https://discord(?:app)?\.com/api/webhooks/(\d+)/([a-zA-Z0-9_-]+)`)

// normalizeURL turns a pasted Discord webhook into a shoutrrr URL.
func normalizeURL(rawURL string) string {
	if m := discordWebhookRegex.FindStringSubmatch(rawURL); len(m) == 3 {
		return fmt.Sprintf("discord://%s@%s", m[2], m[1])
	}
	return rawURL
}

// Enabled reports whether any destination is configured.
func (s *NotificationService) Enabled() bool {
	return len(s.urls) > 0
}

// Send delivers asynchronously to every URL. Failures are only logged.
func (s *NotificationService) Send(title, message string) {
	msg := fmt.Sprintf("[%s] %s\n\n%s", version.Name, title, message)
	for _, url := range s.urls {
		s.wg.Add(1)
		go func(url string) {
			defer s.wg.Done()
			if err := s.send(url, msg); err != nil {
				logger.Component("notify").WithError(err).WithField("service", serviceName(url)).Warn("Failed to send notification")
			}
		}(url)
	}
}

// Wait blocks until in-flight deliveries finish.
func (s *NotificationService) Wait() {
	s.wg.Wait()
}

// serviceName is the URL scheme, safe to log where the full URL is not.
func serviceName(url string) string {
	if i := strings.Index(url, "://"); i > 0 {
		return url[:i]
	}
	return "unknown"
}
