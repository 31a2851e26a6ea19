package google

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/James-hg/MountMadness2026/internal/core"
)

// ReadPlan reads the plan sheet back into a PlanExport. Category ids are
// not stored in the sheet, so rows come back keyed by slug only.
func (c *Client) ReadPlan(ctx context.Context) (core.PlanExport, error) {
	if c.svc == nil {
		return core.PlanExport{}, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!A:H", c.planSheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return core.PlanExport{}, fmt.Errorf("read %s: %w", rng, err)
	}
	return parsePlanValues(resp.Values)
}

// parsePlanValues converts a values matrix (as returned by the Sheets API)
// back into a PlanExport. It expects the meta row and header row layout
// written by WritePlan.
func parsePlanValues(values [][]interface{}) (core.PlanExport, error) {
	if len(values) < 2 {
		return core.PlanExport{}, fmt.Errorf("unexpected plan layout: %d rows", len(values))
	}

	meta := toStrings(values[0])
	p := core.PlanExport{
		Month:    metaValue(meta, "Month"),
		Currency: metaValue(meta, "Currency"),
		Strategy: metaValue(meta, "Strategy"),
	}
	if cents, ok := parseDollarsToCents(metaValue(meta, "Total")); ok {
		p.TotalCents = cents
	}

	header := toStrings(values[1])
	colName := indexOf(header, "Category")
	colSlug := indexOf(header, "Slug")
	colLimit := indexOf(header, "Limit")
	colFixed := indexOf(header, "Fixed")
	colPinned := indexOf(header, "Pinned")
	if colName == -1 || colSlug == -1 || colLimit == -1 {
		return core.PlanExport{}, fmt.Errorf("unexpected plan header: got %v", header)
	}

	for i := 2; i < len(values); i++ {
		row := toStrings(values[i])
		name := strings.TrimSpace(safeGet(row, colName))
		slug := strings.TrimSpace(safeGet(row, colSlug))
		if name == "" && slug == "" {
			continue
		}
		cents, ok := parseDollarsToCents(safeGet(row, colLimit))
		if !ok {
			continue
		}
		p.Rows = append(p.Rows, core.PlanExportRow{
			Name:           name,
			Slug:           slug,
			LimitCents:     cents,
			IsFixed:        safeGet(row, colFixed) != "",
			IsUserModified: safeGet(row, colPinned) != "",
		})
	}
	return p, nil
}

// metaValue returns the cell immediately after the given label, or "".
func metaValue(row []string, label string) string {
	idx := indexOf(row, label)
	if idx == -1 || idx+1 >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx+1])
}
