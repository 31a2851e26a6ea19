package google

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/James-hg/MountMadness2026/internal/core"

	"golang.org/x/oauth2"
)

func TestNewFromEnv_MissingSpreadsheetID(t *testing.T) {
	// Clear environment
	oldID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	defer os.Setenv("GOOGLE_SPREADSHEET_ID", oldID)
	os.Unsetenv("GOOGLE_SPREADSHEET_ID")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error for missing GOOGLE_SPREADSHEET_ID")
	}
	if err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestNewFromEnv_WithValidCredentials(t *testing.T) {
	// This test only verifies that we fail gracefully with invalid JSON
	// rather than testing the full OAuth flow which would require real credentials
	oldID := os.Getenv("GOOGLE_SPREADSHEET_ID")
	oldClient := os.Getenv("GOOGLE_OAUTH_CLIENT_JSON")
	oldToken := os.Getenv("GOOGLE_OAUTH_TOKEN_JSON")
	defer func() {
		os.Setenv("GOOGLE_SPREADSHEET_ID", oldID)
		os.Setenv("GOOGLE_OAUTH_CLIENT_JSON", oldClient)
		os.Setenv("GOOGLE_OAUTH_TOKEN_JSON", oldToken)
	}()

	os.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	os.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `invalid-json`)
	os.Setenv("GOOGLE_OAUTH_TOKEN_JSON", `{"access_token":"test"}`)

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected error with invalid JSON")
	}
	if !strings.Contains(err.Error(), "oauth config") {
		t.Errorf("expected oauth config error, got: %v", err)
	}
}

func TestClient_validateTransaction(t *testing.T) {
	c := &Client{spreadsheetID: "test"} // svc is nil, which will cause append to fail

	// Test with an invalid kind
	invalid := core.TransactionExport{
		ID:           "b2000000-0000-4000-8000-000000000001",
		UserEmail:    "dev@example.com",
		CategorySlug: "food",
		CategoryName: "Food",
		Kind:         "loan", // not expense or income
		AmountCents:  2500,
		OccurredOn:   "2026-08-10",
	}

	_, err := c.AppendTransaction(context.Background(), invalid)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, core.ErrInvalidKind) {
		t.Errorf("expected ErrInvalidKind, got: %v", err)
	}
}

func TestPlanValuesLayout(t *testing.T) {
	// We can't easily test WritePlan without mocking the entire Google
	// Sheets service, so test the matrix building separately.
	p := core.PlanExport{
		UserEmail:  "dev@example.com",
		Month:      "2026-09",
		Currency:   "CAD",
		Strategy:   "default_weights_v1",
		TotalCents: 200000,
		Rows: []core.PlanExportRow{
			{Name: "Rent", Slug: "housing_rent", IsFixed: true, LimitCents: 90000},
			{Name: "Food", Slug: "food", IsUserModified: true, LimitCents: 60000},
			{Name: "Transport", Slug: "transport", LimitCents: 50000},
		},
	}

	values := planValues(p)
	if len(values) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(values))
	}
	if values[0][1] != "2026-09" {
		t.Errorf("meta month = %v, want 2026-09", values[0][1])
	}
	if values[0][7] != 2000.0 {
		t.Errorf("meta total = %v, want 2000.0", values[0][7])
	}
	if values[2][0] != "Rent" || values[2][3] != "yes" || values[2][4] != "" {
		t.Errorf("unexpected fixed row: %v", values[2])
	}
	if values[3][2] != 600.0 || values[3][4] != "yes" {
		t.Errorf("unexpected pinned row: %v", values[3])
	}
}

func TestSummaryValuesLayout(t *testing.T) {
	month, err := core.ParseMonth("2026-08")
	if err != nil {
		t.Fatalf("parse month: %v", err)
	}
	s := core.MonthSummary{
		MonthStart: month,
		Currency:   "CAD",
		Total:      core.Money{Cents: 100000},
		Strategy:   "default_weights_v1",
		TotalSpent: core.Money{Cents: 25000},
		Lines: []core.BudgetLine{
			{
				Name:      "Food",
				Slug:      "food",
				Limit:     core.Money{Cents: 30000},
				Spent:     core.Money{Cents: 25000},
				Remaining: core.Money{Cents: 5000},
				Status:    core.StatusWarning,
			},
		},
	}

	values := summaryValues(s)
	if len(values) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(values))
	}
	if values[0][1] != "2026-08" {
		t.Errorf("meta month = %v, want 2026-08", values[0][1])
	}
	if values[1][1] != 1000.0 || values[1][3] != 250.0 {
		t.Errorf("unexpected totals row: %v", values[1])
	}
	if values[3][4] != "warning" {
		t.Errorf("status cell = %v, want warning", values[3][4])
	}
}

func TestTransactionRowLayout(t *testing.T) {
	row := transactionRow(core.TransactionExport{
		ID:           "b2000000-0000-4000-8000-000000000002",
		UserEmail:    "dev@example.com",
		CategorySlug: "food",
		CategoryName: "Food",
		Kind:         "expense",
		AmountCents:  1550,
		OccurredOn:   "2026-08-12",
		Merchant:     "No Frills",
		Note:         "weekly groceries",
	})

	want := []any{"2026-08-12", "expense", "Food", 15.5, "No Frills", "weekly groceries", "b2000000-0000-4000-8000-000000000002"}
	if len(row) != len(want) {
		t.Fatalf("expected %d cells, got %d", len(want), len(row))
	}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d = %v, want %v", i, row[i], want[i])
		}
	}
}

func TestJsonUnmarshalIndirection(t *testing.T) {
	// Test that our indirection works
	data := []byte(`{"access_token":"test","token_type":"Bearer"}`)
	var token oauth2.Token

	err := jsonUnmarshal(data, &token)
	if err != nil {
		t.Fatalf("jsonUnmarshal failed: %v", err)
	}

	if token.AccessToken != "test" {
		t.Errorf("expected access token 'test', got %s", token.AccessToken)
	}

	// Test with invalid JSON
	invalidData := []byte(`{invalid json}`)
	err = jsonUnmarshal(invalidData, &token)
	if err == nil {
		t.Fatal("expected error with invalid JSON")
	}
}

func TestNewSheetsService_MissingOAuthClient(t *testing.T) {
	// Clear all oauth env vars
	oldVars := map[string]string{
		"GOOGLE_OAUTH_CLIENT_JSON": os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
		"GOOGLE_OAUTH_CLIENT_FILE": os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
		"GOOGLE_OAUTH_TOKEN_JSON":  os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
		"GOOGLE_OAUTH_TOKEN_FILE":  os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
	}
	defer func() {
		for k, v := range oldVars {
			os.Setenv(k, v)
		}
	}()

	for k := range oldVars {
		os.Unsetenv(k)
	}

	_, err := newSheetsService(context.Background())
	if err == nil {
		t.Fatal("expected error for missing oauth client")
	}
	expectedMsg := "missing oauth client (set GOOGLE_OAUTH_CLIENT_JSON or GOOGLE_OAUTH_CLIENT_FILE)"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

func TestNewSheetsService_MissingOAuthToken(t *testing.T) {
	oldVars := map[string]string{
		"GOOGLE_OAUTH_CLIENT_JSON": os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
		"GOOGLE_OAUTH_TOKEN_JSON":  os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
		"GOOGLE_OAUTH_TOKEN_FILE":  os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
	}
	defer func() {
		for k, v := range oldVars {
			os.Setenv(k, v)
		}
	}()

	// Set client but not token
	os.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`)
	os.Unsetenv("GOOGLE_OAUTH_TOKEN_JSON")
	os.Unsetenv("GOOGLE_OAUTH_TOKEN_FILE")

	_, err := newSheetsService(context.Background())
	if err == nil {
		t.Fatal("expected error for missing oauth token")
	}
	expectedMsg := "missing oauth token (set GOOGLE_OAUTH_TOKEN_JSON or GOOGLE_OAUTH_TOKEN_FILE)"
	if err.Error() != expectedMsg {
		t.Errorf("expected %q, got %q", expectedMsg, err.Error())
	}
}

// Test year prefixed name function
func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		baseName string
		year     int
		expected string
	}{
		{"Budget Plan", 2026, "2026 Budget Plan"},
		{"Transactions", 2025, "2025 Transactions"},
		{"", 2023, ""}, // Empty base returns empty
		{"Month Summary", 2022, "2022 Month Summary"},
		{"2026 Already Prefixed", 2024, "2026 Already Prefixed"}, // Already has year prefix
	}

	for _, tt := range tests {
		got := yearPrefixedName(tt.baseName, tt.year)
		if got != tt.expected {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q",
				tt.baseName, tt.year, got, tt.expected)
		}
	}
}

// Test sheet name environment overrides
func TestSheetNameOverrides(t *testing.T) {
	origVars := map[string]string{
		"GOOGLE_SPREADSHEET_ID":          os.Getenv("GOOGLE_SPREADSHEET_ID"),
		"GOOGLE_PLAN_SHEET_NAME":         os.Getenv("GOOGLE_PLAN_SHEET_NAME"),
		"GOOGLE_SUMMARY_SHEET_NAME":      os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"),
		"GOOGLE_TRANSACTIONS_SHEET_NAME": os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"),
	}
	defer func() {
		for k, v := range origVars {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	os.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")

	tests := []struct {
		name     string
		envName  string
		envValue string
	}{
		{"CustomPlanSheet", "GOOGLE_PLAN_SHEET_NAME", "Plan"},
		{"CustomSummarySheet", "GOOGLE_SUMMARY_SHEET_NAME", "Overview"},
		{"CustomTransactionsSheet", "GOOGLE_TRANSACTIONS_SHEET_NAME", "Ledger"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envName, tt.envValue)
			defer os.Unsetenv(tt.envName)

			// This will fail because we don't have valid OAuth, but we can check
			// that the error happens at the OAuth stage, not config parsing
			_, err := NewFromEnv(context.Background())
			if err == nil {
				t.Fatal("expected OAuth error")
			}
			// Should fail at OAuth stage, not config parsing
			if !strings.Contains(err.Error(), "sheets service") {
				t.Errorf("expected OAuth error, got: %v", err)
			}
		})
	}
}

// Test default sheet names
func TestDefaultSheetNames(t *testing.T) {
	origVars := map[string]string{
		"GOOGLE_SPREADSHEET_ID":          os.Getenv("GOOGLE_SPREADSHEET_ID"),
		"GOOGLE_PLAN_SHEET_NAME":         os.Getenv("GOOGLE_PLAN_SHEET_NAME"),
		"GOOGLE_SUMMARY_SHEET_NAME":      os.Getenv("GOOGLE_SUMMARY_SHEET_NAME"),
		"GOOGLE_TRANSACTIONS_SHEET_NAME": os.Getenv("GOOGLE_TRANSACTIONS_SHEET_NAME"),
	}
	defer func() {
		for k, v := range origVars {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	// Clear all sheet name environment variables
	os.Setenv("GOOGLE_SPREADSHEET_ID", "test-id")
	os.Unsetenv("GOOGLE_PLAN_SHEET_NAME")
	os.Unsetenv("GOOGLE_SUMMARY_SHEET_NAME")
	os.Unsetenv("GOOGLE_TRANSACTIONS_SHEET_NAME")

	_, err := NewFromEnv(context.Background())
	if err == nil {
		t.Fatal("expected OAuth error")
	}
	// Should fail at OAuth stage, not config parsing
	if !strings.Contains(err.Error(), "sheets service") {
		t.Errorf("expected OAuth service error, got: %v", err)
	}
}

// Test OAuth credential parsing
func TestOAuthCredentialParsing(t *testing.T) {
	oldVars := map[string]string{
		"GOOGLE_OAUTH_CLIENT_JSON": os.Getenv("GOOGLE_OAUTH_CLIENT_JSON"),
		"GOOGLE_OAUTH_CLIENT_FILE": os.Getenv("GOOGLE_OAUTH_CLIENT_FILE"),
		"GOOGLE_OAUTH_TOKEN_JSON":  os.Getenv("GOOGLE_OAUTH_TOKEN_JSON"),
		"GOOGLE_OAUTH_TOKEN_FILE":  os.Getenv("GOOGLE_OAUTH_TOKEN_FILE"),
	}
	defer func() {
		for k, v := range oldVars {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	// Test valid client JSON but invalid token JSON
	os.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"],"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token"}}`)
	os.Setenv("GOOGLE_OAUTH_TOKEN_JSON", `invalid-json`)
	os.Unsetenv("GOOGLE_OAUTH_CLIENT_FILE")
	os.Unsetenv("GOOGLE_OAUTH_TOKEN_FILE")

	_, err := newSheetsService(context.Background())
	if err == nil {
		t.Fatal("expected error with invalid token JSON")
	}
	if !strings.Contains(err.Error(), "oauth token") {
		t.Errorf("expected token parsing error, got: %v", err)
	}

	// Test invalid client JSON
	os.Setenv("GOOGLE_OAUTH_CLIENT_JSON", `invalid-json`)
	os.Setenv("GOOGLE_OAUTH_TOKEN_JSON", `{"access_token":"test","token_type":"Bearer"}`)

	_, err = newSheetsService(context.Background())
	if err == nil {
		t.Fatal("expected error with invalid client JSON")
	}
	if !strings.Contains(err.Error(), "oauth config") {
		t.Errorf("expected client parsing error, got: %v", err)
	}
}

// Test transaction validation edge cases
func TestTransactionValidationEdgeCases(t *testing.T) {
	c := &Client{spreadsheetID: "test"} // svc is nil

	valid := core.TransactionExport{
		ID:           "b2000000-0000-4000-8000-000000000003",
		UserEmail:    "dev@example.com",
		CategorySlug: "food",
		CategoryName: "Food",
		Kind:         "expense",
		AmountCents:  1000,
		OccurredOn:   "2026-08-15",
		Merchant:     "Metro",
	}

	tests := []struct {
		name        string
		mutate      func(tx *core.TransactionExport)
		expectedErr string
	}{
		{
			name:        "ValidTransaction",
			mutate:      func(tx *core.TransactionExport) {},
			expectedErr: "sheets service not initialized", // Will fail at service call
		},
		{
			name:        "MissingID",
			mutate:      func(tx *core.TransactionExport) { tx.ID = "  " },
			expectedErr: "missing transaction id",
		},
		{
			name:        "InvalidKind",
			mutate:      func(tx *core.TransactionExport) { tx.Kind = "transfer" },
			expectedErr: "invalid transaction kind",
		},
		{
			name:        "NegativeAmount",
			mutate:      func(tx *core.TransactionExport) { tx.AmountCents = -100 },
			expectedErr: "invalid amount",
		},
		{
			name:        "BadDate",
			mutate:      func(tx *core.TransactionExport) { tx.OccurredOn = "2026-08" },
			expectedErr: "not a calendar date",
		},
		{
			name:        "MissingSlug",
			mutate:      func(tx *core.TransactionExport) { tx.CategorySlug = "" },
			expectedErr: "missing category slug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := valid
			tt.mutate(&tx)
			_, err := c.AppendTransaction(context.Background(), tx)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.expectedErr)) {
				t.Errorf("expected error containing %q, got %q", tt.expectedErr, err.Error())
			}
		})
	}
}
