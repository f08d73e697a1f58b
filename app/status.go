package app

import (
	"fmt"
	"html"
	"net/http"
	"runtime"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

var startTime = time.Now()

// StatusCheck represents a single status check result
type StatusCheck struct {
	Name    string `json:"name"`
	Status  bool   `json:"status"`
	Details string `json:"details,omitempty"`
	// Required checks make the process unhealthy when failing.
	Required bool `json:"required,omitempty"`
}

// StatusResponse represents the full status response
type StatusResponse struct {
	Healthy   bool           `json:"healthy"`
	Uptime    string         `json:"uptime"`
	GoVersion string         `json:"go_version"`
	Memory    MemoryStatus   `json:"memory"`
	Checks    []StatusCheck  `json:"checks"`
	APICalls  []*APILogEntry `json:"api_calls"`
}

// MemoryStatus represents memory usage
type MemoryStatus struct {
	Alloc      uint64 `json:"alloc_mb"`
	Sys        uint64 `json:"sys_mb"`
	NumGC      uint32 `json:"num_gc"`
	Goroutines int    `json:"goroutines"`
}

var (
	checksMu sync.RWMutex
	checks   []func() StatusCheck
)

// RegisterCheck adds a status check. Packages register their checks from
// main to avoid import cycles.
func RegisterCheck(fn func() StatusCheck) {
	checksMu.Lock()
	checks = append(checks, fn)
	checksMu.Unlock()
}

// StatusHandler handles the /status endpoint
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	status := buildStatus()

	if r.URL.Query().Get("quick") == "1" {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"healthy": status.Healthy,
		})
		return
	}

	if r.URL.Query().Get("format") == "json" || WantsJSON(r) {
		RespondJSON(w, status)
		return
	}

	Respond(w, r, Response{
		Title:       "Status",
		Description: "Server status and provider checks",
		HTML:        renderStatusHTML(status),
	})
}

func buildStatus() StatusResponse {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	checksMu.RLock()
	fns := make([]func() StatusCheck, len(checks))
	copy(fns, checks)
	checksMu.RUnlock()

	results := make([]StatusCheck, 0, len(fns))
	healthy := true
	for _, fn := range fns {
		c := fn()
		if c.Required && !c.Status {
			healthy = false
		}
		results = append(results, c)
	}

	calls := GetAPILog()
	if len(calls) > 20 {
		calls = calls[:20]
	}

	return StatusResponse{
		Healthy:   healthy,
		Uptime:    formatUptime(time.Since(startTime)),
		GoVersion: runtime.Version(),
		Memory: MemoryStatus{
			Alloc:      m.Alloc / 1024 / 1024,
			Sys:        m.Sys / 1024 / 1024,
			NumGC:      m.NumGC,
			Goroutines: runtime.NumGoroutine(),
		},
		Checks:   results,
		APICalls: calls,
	}
}

func formatUptime(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func renderStatusHTML(status StatusResponse) string {
	var sb strings.Builder

	statusIcon := "✓"
	statusClass := "status-ok"
	statusText := "Healthy"
	if !status.Healthy {
		statusIcon = "✗"
		statusClass = "status-error"
		statusText = "Issues Detected"
	}

	sb.WriteString(`<div class="status-page">`)
	sb.WriteString(fmt.Sprintf(`<div class="status-header">
<span class="%s status-icon">%s</span>
<span style="font-size: 18px;">%s</span>
</div>`, statusClass, statusIcon, statusText))

	sb.WriteString(`<div class="status-section">
<h3>System</h3>
<div class="system-info">
<div class="system-info-item">
<div class="system-info-label">Uptime</div>
<div class="system-info-value">` + status.Uptime + `</div>
</div>
<div class="system-info-item">
<div class="system-info-label">Memory</div>
<div class="system-info-value">` + fmt.Sprintf("%dMB / %dMB", status.Memory.Alloc, status.Memory.Sys) + `</div>
</div>
<div class="system-info-item">
<div class="system-info-label">Go</div>
<div class="system-info-value">` + status.GoVersion + `</div>
</div>
</div>
</div>`)

	sb.WriteString(`<div class="status-section">
<h3>Checks</h3>`)
	for _, c := range status.Checks {
		icon := "✓"
		class := "status-ok"
		if !c.Status {
			icon = "✗"
			class = "status-error"
		}
		details := ""
		if c.Details != "" {
			details = fmt.Sprintf(`<span class="status-details">%s</span>`, html.EscapeString(c.Details))
		}
		sb.WriteString(fmt.Sprintf(`<div class="status-item">
<span class="status-name">%s</span>
<span class="status-value">%s<span class="status-icon %s">%s</span></span>
</div>`, html.EscapeString(c.Name), details, class, icon))
	}
	sb.WriteString(`</div>`)

	if len(status.APICalls) > 0 {
		sb.WriteString(`<div class="status-section">
<h3>Recent provider calls</h3>
<table class="data-table"><thead><tr><th>Time</th><th>Service</th><th>Status</th><th>Duration</th><th>Error</th></tr></thead><tbody>`)
		for _, c := range status.APICalls {
			sb.WriteString(fmt.Sprintf(`<tr><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td></tr>`,
				c.Time.Format("15:04:05"), html.EscapeString(c.Service), c.Status,
				c.Duration.Round(time.Millisecond), html.EscapeString(c.Error)))
		}
		sb.WriteString(`</tbody></table></div>`)
	}

	sb.WriteString(`</div>`)

	return sb.String()
}
