package metrics

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Simple Prometheus-style metrics for the service.
// This is intentionally minimal and in-memory only.

var (
	mu             sync.RWMutex
	requestsTotal  = make(map[reqKey]int64)
	latencyMsSum   = make(map[latKey]int64)
	latencyMsCount = make(map[latKey]int64)

	crawlJobsTotal    = make(map[string]int64)
	crawlPollAttempts int64

	llmCalls = make(map[llmKey]int64)

	retentionJobsDeleted = make(map[string]int64)
)

type reqKey struct {
	Method string
	Path   string
	Status int
}

type latKey struct {
	Method string
	Path   string
}

type llmKey struct {
	Purpose string
	Success string
}

// RecordRequest increments request counter and records latency.
func RecordRequest(method, path string, status int, latencyMs int64) {
	mu.Lock()
	defer mu.Unlock()

	rk := reqKey{Method: method, Path: path, Status: status}
	requestsTotal[rk]++

	lk := latKey{Method: method, Path: path}
	latencyMsSum[lk] += latencyMs
	latencyMsCount[lk]++
}

// RecordCrawlJob increments the per-outcome crawl job counter. Outcome
// is one of completed, failed, timeout, error.
func RecordCrawlJob(outcome string) {
	mu.Lock()
	defer mu.Unlock()
	crawlJobsTotal[outcome]++
}

// RecordPollAttempts adds to the total number of crawl poll requests.
func RecordPollAttempts(n int64) {
	if n <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	crawlPollAttempts += n
}

// RecordLLMCall increments LLM call counters by purpose (extract,
// outreach).
func RecordLLMCall(purpose string, success bool) {
	mu.Lock()
	defer mu.Unlock()

	s := "false"
	if success {
		s = "true"
	}
	llmCalls[llmKey{Purpose: purpose, Success: s}]++
}

// RecordRetentionJobs increments the counter of jobs deleted by TTL for
// a given job type.
func RecordRetentionJobs(jobType string, deleted int64) {
	if deleted <= 0 {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	retentionJobsDeleted[jobType] += deleted
}

// Export returns Prometheus-style metrics text.
func Export() string {
	mu.RLock()
	defer mu.RUnlock()

	var b strings.Builder

	b.WriteString("# HELP frontdesk_http_requests_total Total HTTP requests\n")
	b.WriteString("# TYPE frontdesk_http_requests_total counter\n")

	// Sort keys for stable output
	var reqKeys []reqKey
	for k := range requestsTotal {
		reqKeys = append(reqKeys, k)
	}
	sort.Slice(reqKeys, func(i, j int) bool {
		if reqKeys[i].Method != reqKeys[j].Method {
			return reqKeys[i].Method < reqKeys[j].Method
		}
		if reqKeys[i].Path != reqKeys[j].Path {
			return reqKeys[i].Path < reqKeys[j].Path
		}
		return reqKeys[i].Status < reqKeys[j].Status
	})

	for _, k := range reqKeys {
		fmt.Fprintf(&b, "frontdesk_http_requests_total{method=\"%s\",path=\"%s\",status=\"%d\"} %d\n",
			k.Method, k.Path, k.Status, requestsTotal[k])
	}

	b.WriteString("# HELP frontdesk_http_request_duration_ms_sum Total request duration in milliseconds\n")
	b.WriteString("# TYPE frontdesk_http_request_duration_ms_sum counter\n")
	b.WriteString("# HELP frontdesk_http_request_duration_ms_count Request count for latency metric\n")
	b.WriteString("# TYPE frontdesk_http_request_duration_ms_count counter\n")

	var latKeys []latKey
	for k := range latencyMsSum {
		latKeys = append(latKeys, k)
	}
	sort.Slice(latKeys, func(i, j int) bool {
		if latKeys[i].Method != latKeys[j].Method {
			return latKeys[i].Method < latKeys[j].Method
		}
		return latKeys[i].Path < latKeys[j].Path
	})

	for _, k := range latKeys {
		fmt.Fprintf(&b, "frontdesk_http_request_duration_ms_sum{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsSum[k])
		fmt.Fprintf(&b, "frontdesk_http_request_duration_ms_count{method=\"%s\",path=\"%s\"} %d\n",
			k.Method, k.Path, latencyMsCount[k])
	}

	b.WriteString("# HELP frontdesk_crawl_jobs_total Crawl jobs by outcome\n")
	b.WriteString("# TYPE frontdesk_crawl_jobs_total counter\n")

	var outcomes []string
	for k := range crawlJobsTotal {
		outcomes = append(outcomes, k)
	}
	sort.Strings(outcomes)
	for _, outcome := range outcomes {
		fmt.Fprintf(&b, "frontdesk_crawl_jobs_total{outcome=\"%s\"} %d\n", outcome, crawlJobsTotal[outcome])
	}

	b.WriteString("# HELP frontdesk_crawl_poll_attempts_total Total crawl poll requests\n")
	b.WriteString("# TYPE frontdesk_crawl_poll_attempts_total counter\n")
	fmt.Fprintf(&b, "frontdesk_crawl_poll_attempts_total %d\n", crawlPollAttempts)

	b.WriteString("# HELP frontdesk_llm_calls_total Total LLM calls\n")
	b.WriteString("# TYPE frontdesk_llm_calls_total counter\n")

	var llmKeys []llmKey
	for k := range llmCalls {
		llmKeys = append(llmKeys, k)
	}
	sort.Slice(llmKeys, func(i, j int) bool {
		if llmKeys[i].Purpose != llmKeys[j].Purpose {
			return llmKeys[i].Purpose < llmKeys[j].Purpose
		}
		return llmKeys[i].Success < llmKeys[j].Success
	})
	for _, k := range llmKeys {
		fmt.Fprintf(&b, "frontdesk_llm_calls_total{purpose=\"%s\",success=\"%s\"} %d\n",
			k.Purpose, k.Success, llmCalls[k])
	}

	b.WriteString("# HELP frontdesk_retention_jobs_deleted_total Jobs deleted by TTL cleanup\n")
	b.WriteString("# TYPE frontdesk_retention_jobs_deleted_total counter\n")

	var jobTypes []string
	for k := range retentionJobsDeleted {
		jobTypes = append(jobTypes, k)
	}
	sort.Strings(jobTypes)
	for _, jt := range jobTypes {
		fmt.Fprintf(&b, "frontdesk_retention_jobs_deleted_total{type=\"%s\"} %d\n", jt, retentionJobsDeleted[jt])
	}

	return b.String()
}
