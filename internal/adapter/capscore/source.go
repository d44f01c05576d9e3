// Package capscore looks up a system's DEQ capacity (CAP) score from a
// published JSON or CSV file.
package capscore

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/couchcryptid/pws-advisor-service/internal/observability"
)

// Score is a CAP lookup result. Both fields are nil when the system is not
// listed or the source could not be read.
type Score struct {
	Score   *float64 `json:"score"`
	Updated *string  `json:"updated"`
}

// Found reports whether the lookup matched a row.
func (s Score) Found() bool {
	return s.Score != nil || s.Updated != nil
}

// Fields names the PWSID, score and updated columns in the source. Names are
// matched upper-cased.
type Fields struct {
	PWSID   string
	Score   string
	Updated string
}

// DefaultFields are the column names assumed when none are configured.
var DefaultFields = Fields{PWSID: "PWSID", Score: "SCORE", Updated: "UPDATED"}

// Lookuper resolves a PWSID to its CAP score.
type Lookuper interface {
	Lookup(ctx context.Context, pwsid string) Score
}

var errNotFound = errors.New("pwsid not listed")

// Source downloads the CAP file on every lookup.
type Source struct {
	url        string
	fields     Fields
	httpClient *retryablehttp.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewSource creates a CAP score source reading from url. An empty url yields a
// source whose lookups always come back empty.
func NewSource(url string, fields Fields, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Source {
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = 0
	rc.Logger = nil
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Source{
		url:        strings.TrimSpace(url),
		fields:     upperFields(fields),
		httpClient: rc,
		metrics:    metrics,
		logger:     logger,
	}
}

func upperFields(f Fields) Fields {
	pick := func(v, def string) string {
		if v = strings.ToUpper(strings.TrimSpace(v)); v == "" {
			return def
		}
		return v
	}
	return Fields{
		PWSID:   pick(f.PWSID, DefaultFields.PWSID),
		Score:   pick(f.Score, DefaultFields.Score),
		Updated: pick(f.Updated, DefaultFields.Updated),
	}
}

// Lookup returns the CAP score for pwsid. Failures are logged and reported as
// an empty Score.
func (s *Source) Lookup(ctx context.Context, pwsid string) Score {
	pwsid = strings.TrimSpace(pwsid)
	if pwsid == "" || s.url == "" {
		return Score{}
	}

	score, err := s.lookup(ctx, pwsid)
	switch {
	case errors.Is(err, errNotFound):
		s.metrics.CAPLookups.WithLabelValues("missing").Inc()
		return Score{}
	case err != nil:
		s.metrics.CAPLookups.WithLabelValues("error").Inc()
		s.logger.Warn("cap score lookup failed", "pwsid", pwsid, "error", err)
		return Score{}
	}
	s.metrics.CAPLookups.WithLabelValues("found").Inc()
	return score
}

func (s *Source) lookup(ctx context.Context, pwsid string) (Score, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return Score{}, fmt.Errorf("create request: %w", err)
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Score{}, fmt.Errorf("cap source request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Score{}, fmt.Errorf("cap source status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Score{}, fmt.Errorf("read cap source: %w", err)
	}

	ctype := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ctype, "application/json") || strings.HasSuffix(strings.ToLower(s.url), ".json") {
		return findJSON(body, pwsid, s.fields)
	}
	return findCSV(body, pwsid, s.fields)
}

// findJSON accepts a top-level array or an object carrying a "rows" or "data"
// array.
func findJSON(body []byte, pwsid string, f Fields) (Score, error) {
	if !gjson.ValidBytes(body) {
		return Score{}, errors.New("invalid JSON")
	}
	root := gjson.ParseBytes(body)
	rows := root
	if !rows.IsArray() {
		rows = root.Get("rows")
	}
	if !rows.IsArray() {
		rows = root.Get("data")
	}
	if !rows.IsArray() {
		return Score{}, errNotFound
	}

	for _, row := range rows.Array() {
		m := row.Map()
		id := firstPresent(m, f.PWSID, "pwsid", "PWSID")
		if !strings.EqualFold(id.String(), pwsid) {
			continue
		}
		var out Score
		if v, ok := jsonScore(firstPresent(m, f.Score, "score", "SCORE")); ok {
			out.Score = &v
		}
		if u := firstPresent(m, f.Updated, "updated", "UPDATED"); u.Exists() && u.Type != gjson.Null {
			updated := u.String()
			out.Updated = &updated
		}
		return out, nil
	}
	return Score{}, errNotFound
}

// firstPresent returns the first non-null value under any of keys.
func firstPresent(m map[string]gjson.Result, keys ...string) gjson.Result {
	for _, k := range keys {
		if v, ok := m[k]; ok && v.Type != gjson.Null {
			return v
		}
	}
	return gjson.Result{}
}

func jsonScore(v gjson.Result) (float64, bool) {
	switch v.Type {
	case gjson.Number:
		return v.Float(), true
	case gjson.String:
		return parseScore(v.Str)
	default:
		return 0, false
	}
}

func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// findCSV scans a header-indexed CSV. A leading BOM and CRLF line endings
// are tolerated; blank lines are skipped.
func findCSV(body []byte, pwsid string, f Fields) (Score, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(body, utf8BOM)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return Score{}, errNotFound
	}
	if err != nil {
		return Score{}, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToUpper(strings.TrimSpace(header[i]))
	}
	iP := columnIndex(header, f.PWSID, DefaultFields.PWSID)
	iS := columnIndex(header, f.Score, DefaultFields.Score)
	iU := columnIndex(header, f.Updated, DefaultFields.Updated)
	if iP < 0 {
		return Score{}, errNotFound
	}

	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			return Score{}, errNotFound
		}
		if err != nil {
			return Score{}, fmt.Errorf("read csv: %w", err)
		}
		if !strings.EqualFold(cell(rec, iP), pwsid) {
			continue
		}
		var out Score
		if v, ok := parseScore(cell(rec, iS)); ok {
			out.Score = &v
		}
		if u := cell(rec, iU); u != "" {
			out.Updated = &u
		}
		return out, nil
	}
}

func columnIndex(header []string, name, fallback string) int {
	for _, n := range []string{name, fallback} {
		for i, h := range header {
			if h == n {
				return i
			}
		}
	}
	return -1
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
