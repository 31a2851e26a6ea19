package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/James-hg/MountMadness2026/internal/core"

	ports "github.com/James-hg/MountMadness2026/internal/sheets"

	"golang.org/x/oauth2"
	googleauth "golang.org/x/oauth2/google"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultRowCacheTTL = 2 * time.Minute

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	planSheet         string
	summarySheet      string
	transactionsSheet string

	// Row-count cache for transaction appends. Saves one Values.Get per
	// append when the worker flushes a batch of outbox rows.
	mu                 sync.Mutex
	cachedRowCount     int
	cacheExpiresAt     time.Time
	cacheValidDuration time.Duration
}

// Ensure interface conformance
var (
	_ ports.PlanWriter        = (*Client)(nil)
	_ ports.TransactionWriter = (*Client)(nil)
	_ ports.SummaryWriter     = (*Client)(nil)
	_ ports.Exporter          = (*Client)(nil)
)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// OAuth credentials: GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE,
// plus GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE (see cmd/oauth-init).
// Optional sheet names: GOOGLE_PLAN_SHEET_NAME (default "Budget Plan"),
// GOOGLE_SUMMARY_SHEET_NAME (default "Month Summary"),
// GOOGLE_TRANSACTIONS_SHEET_NAME (default "Transactions").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	// Base sheet names (without year). We prefix the current year so each
	// calendar year gets its own set of tabs.
	planBase := strings.TrimSpace(os.Getenv("GOOGLE_PLAN_SHEET_NAME"))
	if planBase == "" {
		planBase = "Budget Plan"
	}
	summaryBase := strings.TrimSpace(os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"))
	if summaryBase == "" {
		summaryBase = "Month Summary"
	}
	txBase := strings.TrimSpace(os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"))
	if txBase == "" {
		txBase = "Transactions"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	currentYear := time.Now().Year()
	c := &Client{
		svc:                svc,
		spreadsheetID:      spreadsheetID,
		planSheet:          yearPrefixedName(planBase, currentYear),
		summarySheet:       yearPrefixedName(summaryBase, currentYear),
		transactionsSheet:  yearPrefixedName(txBase, currentYear),
		cacheValidDuration: defaultRowCacheTTL,
	}

	slog.InfoContext(ctx, "Google Sheets client ready",
		"plan_sheet", c.planSheet,
		"summary_sheet", c.summarySheet,
		"transactions_sheet", c.transactionsSheet)

	return c, nil
}

// newSheetsService initializes a Sheets Service from an OAuth client and a
// previously issued token. Run cmd/oauth-init once to obtain the token.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	clientJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"))
	clientFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"))

	var clientBytes []byte
	var err error
	switch {
	case clientJSON != "":
		clientBytes = []byte(clientJSON)
	case clientFile != "":
		clientBytes, err = os.ReadFile(clientFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth client file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)")
	}

	tokenJSON := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"))
	tokenFile := strings.TrimSpace(os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"))

	var tokenBytes []byte
	switch {
	case tokenJSON != "":
		tokenBytes = []byte(tokenJSON)
	case tokenFile != "":
		tokenBytes, err = os.ReadFile(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("read oauth token file: %w", err)
		}
	default:
		return nil, errors.New("missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)")
	}

	cfg, err := googleauth.ConfigFromJSON(clientBytes, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("oauth config: %w", err)
	}

	var token oauth2.Token
	if err := jsonUnmarshal(tokenBytes, &token); err != nil {
		return nil, fmt.Errorf("oauth token: %w", err)
	}

	// The oauth transport wraps whatever base client it finds on the
	// context, so API calls go through the pooled client below.
	base := context.WithValue(ctx, oauth2.HTTPClient, newHTTPClientWithPooling())
	service, err := gsheet.NewService(ctx, goption.WithHTTPClient(cfg.Client(base, &token)))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// jsonUnmarshal is indirected so token parsing stays testable.
var jsonUnmarshal = json.Unmarshal

// newHTTPClientWithPooling creates an HTTP client tuned for the Sheets API
// with connection pooling, keep-alive, and per-phase timeouts.
func newHTTPClientWithPooling() *http.Client {
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		DialContext: dialer.DialContext,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     50,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableKeepAlives: false,
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   60 * time.Second,
	}
}

// WritePlan replaces the plan sheet contents with the given plan.
func (c *Client) WritePlan(ctx context.Context, p core.PlanExport) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRng := fmt.Sprintf("%s!A:H", c.planSheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	vr := &gsheet.ValueRange{Values: planValues(p)}
	rng := fmt.Sprintf("%s!A1", c.planSheet)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", c.planSheet, err)
	}

	slog.InfoContext(ctx, "Plan written to Google Sheets",
		"sheet", c.planSheet, "month", p.Month, "rows", len(p.Rows))
	return nil
}

// AppendTransaction writes one transaction to the next free row of the
// transactions sheet and returns the range it landed on.
func (c *Client) AppendTransaction(ctx context.Context, t core.TransactionExport) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	nextRow, err := c.nextTransactionRow(ctx)
	if err != nil {
		return "", err
	}

	rng := fmt.Sprintf("%s!A%d:G%d", c.transactionsSheet, nextRow, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{transactionRow(t)}}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		c.InvalidateRowCache()
		return "", fmt.Errorf("failed to update %s: %w", rng, err)
	}

	c.mu.Lock()
	c.cachedRowCount = nextRow
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	c.mu.Unlock()

	return rng, nil
}

// WriteSummary replaces the summary sheet contents with the given summary.
func (c *Client) WriteSummary(ctx context.Context, s core.MonthSummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRng := fmt.Sprintf("%s!A:H", c.summarySheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	vr := &gsheet.ValueRange{Values: summaryValues(s)}
	rng := fmt.Sprintf("%s!A1", c.summarySheet)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", c.summarySheet, err)
	}

	slog.InfoContext(ctx, "Summary written to Google Sheets",
		"sheet", c.summarySheet, "month", s.MonthStart.Label())
	return nil
}

// nextTransactionRow returns the 1-based row the next transaction lands on,
// reading the sheet dimensions only when the cached count is stale.
func (c *Client) nextTransactionRow(ctx context.Context) (int, error) {
	c.mu.Lock()
	if time.Now().Before(c.cacheExpiresAt) {
		next := c.cachedRowCount + 1
		c.mu.Unlock()
		return next, nil
	}
	c.mu.Unlock()

	rng := fmt.Sprintf("%s!A:A", c.transactionsSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get sheet dimensions for %s: %w", c.transactionsSheet, err)
	}

	rowCount := len(resp.Values)
	c.mu.Lock()
	c.cachedRowCount = rowCount
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	c.mu.Unlock()

	return rowCount + 1, nil
}

// InvalidateRowCache forces the next append to re-read sheet dimensions.
func (c *Client) InvalidateRowCache() {
	c.mu.Lock()
	c.cacheExpiresAt = time.Time{}
	c.mu.Unlock()
}

// planValues renders a plan as a values matrix: a meta row, a header row,
// then one row per category.
func planValues(p core.PlanExport) [][]any {
	values := [][]any{
		{"Month", p.Month, "Currency", p.Currency, "Strategy", p.Strategy, "Total", dollars(p.TotalCents)},
		{"Category", "Slug", "Limit", "Fixed", "Pinned"},
	}
	for _, r := range p.Rows {
		values = append(values, []any{r.Name, r.Slug, dollars(r.LimitCents), boolMark(r.IsFixed), boolMark(r.IsUserModified)})
	}
	return values
}

// summaryValues renders a month summary: two meta rows, a header row, then
// one row per category line.
func summaryValues(s core.MonthSummary) [][]any {
	values := [][]any{
		{"Month", s.MonthStart.Label(), "Currency", s.Currency, "Strategy", s.Strategy},
		{"Total budget", dollars(s.Total.Cents), "Total spent", dollars(s.TotalSpent.Cents)},
		{"Category", "Limit", "Spent", "Remaining", "Status"},
	}
	for _, l := range s.Lines {
		values = append(values, []any{l.Name, dollars(l.Limit.Cents), dollars(l.Spent.Cents), dollars(l.Remaining.Cents), string(l.Status)})
	}
	return values
}

func transactionRow(t core.TransactionExport) []any {
	return []any{t.OccurredOn, t.Kind, t.CategoryName, dollars(t.AmountCents), t.Merchant, t.Note, t.ID}
}

// dollars converts cents to a decimal number so USER_ENTERED input keeps
// the cell numeric.
func dollars(cents int64) float64 {
	return float64(cents) / 100.0
}

func boolMark(b bool) string {
	if b {
		return "yes"
	}
	return ""
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func indexOf(arr []string, target string) int {
	for i, v := range arr {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(target)) {
			return i
		}
	}
	return -1
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

func parseDollarsToCents(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	// Normalize decimal comma
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	cents := int64((f * 100.0) + 0.5)
	return cents, true
}
