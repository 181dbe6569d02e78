package services

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogEntry is a single recorded API request.
type RequestLogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
}

// MonitoringService keeps an in-memory request log for the monitoring
// dashboard.
type MonitoringService struct {
	mu   sync.RWMutex
	logs []RequestLogEntry
}

// NewMonitoringService creates a new monitoring service
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{logs: make([]RequestLogEntry, 0)}
}

// LogRequest records one request.
func (s *MonitoringService) LogRequest(entry RequestLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
}

// LoggingMiddleware records request metadata. Admin and monitoring routes
// are excluded so the dashboard does not count its own polling.
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/v1/admin") || strings.HasPrefix(path, "/api/v1/monitoring") {
			return
		}

		s.LogRequest(RequestLogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
		})
	}
}

// DashboardData is the aggregated view served to the monitoring endpoint.
type DashboardData struct {
	TotalRequests int               `json:"totalRequests"`
	Endpoints     map[string]int    `json:"endpoints"`
	StatusClasses map[string]int    `json:"statusClasses"`
	AvgResponseMs map[string]int64  `json:"avgResponseMs"`
	RecentErrors  []RequestLogEntry `json:"recentErrors"`
	WindowHours   int               `json:"windowHours"`
}

// GetDashboardData aggregates the log over the trailing period.
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	since := time.Now().Add(-time.Duration(periodHours) * time.Hour)

	endpoints := make(map[string]int)
	statusClasses := map[string]int{"2xx": 0, "4xx": 0, "5xx": 0}
	sumMs := make(map[string]int64)
	counts := make(map[string]int64)
	var recentErrors []RequestLogEntry
	total := 0

	for _, entry := range s.logs {
		if entry.Timestamp.Before(since) {
			continue
		}
		total++
		endpoints[entry.Path]++
		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusClasses["2xx"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusClasses["4xx"]++
		case entry.StatusCode >= 500:
			statusClasses["5xx"]++
		}
		sumMs[entry.Path] += entry.ResponseTime.Milliseconds()
		counts[entry.Path]++
		if entry.StatusCode >= 500 {
			recentErrors = append(recentErrors, entry)
		}
	}

	avg := make(map[string]int64, len(sumMs))
	for path, sum := range sumMs {
		avg[path] = sum / counts[path]
	}
	if len(recentErrors) > 10 {
		recentErrors = recentErrors[len(recentErrors)-10:]
	}

	return DashboardData{
		TotalRequests: total,
		Endpoints:     endpoints,
		StatusClasses: statusClasses,
		AvgResponseMs: avg,
		RecentErrors:  recentErrors,
		WindowHours:   periodHours,
	}
}
