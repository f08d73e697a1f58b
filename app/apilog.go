package app

import (
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const apiLogMaxEntries = 200

// APILogEntry records a single external API call.
type APILogEntry struct {
	Time     time.Time
	Service  string
	Method   string
	URL      string
	Status   int
	Duration time.Duration
	Error    string
}

var (
	apiLogMu      sync.Mutex
	apiLogEntries []*APILogEntry

	apiCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moodmap_provider_requests_total",
		Help: "Outbound provider requests by service and HTTP status (0 on transport error).",
	}, []string{"service", "status"})

	apiLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "moodmap_provider_request_duration_seconds",
		Help:    "Outbound provider request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
)

// RecordAPICall appends an external API call record to the in-memory log.
// When the log exceeds apiLogMaxEntries the oldest entry is dropped.
func RecordAPICall(service, method, url string, status int, duration time.Duration, callErr error) {
	entry := &APILogEntry{
		Time:     time.Now(),
		Service:  service,
		Method:   method,
		URL:      url,
		Status:   status,
		Duration: duration,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	apiLogMu.Lock()
	apiLogEntries = append(apiLogEntries, entry)
	if len(apiLogEntries) > apiLogMaxEntries {
		apiLogEntries = apiLogEntries[len(apiLogEntries)-apiLogMaxEntries:]
	}
	apiLogMu.Unlock()

	apiCalls.WithLabelValues(service, strconv.Itoa(status)).Inc()
	apiLatency.WithLabelValues(service).Observe(duration.Seconds())
}

// GetAPILog returns a copy of the API log entries in reverse-chronological order.
func GetAPILog() []*APILogEntry {
	apiLogMu.Lock()
	defer apiLogMu.Unlock()
	result := make([]*APILogEntry, len(apiLogEntries))
	for i, e := range apiLogEntries {
		result[len(apiLogEntries)-1-i] = e
	}
	return result
}

// secretParams are query parameters stripped from recorded URLs.
var secretParams = []string{"apiKey", "apikey", "appid", "key"}

// RedactURL returns raw with credential query parameters replaced.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
