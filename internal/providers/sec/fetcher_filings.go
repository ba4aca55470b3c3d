package sec

import (
	"context"
	"fmt"
	"strings"

	"github.com/seenimoa/tickerintel/pkg/models"
)

// RecentFilings returns up to limit of the most recent filings for cik, in
// the order EDGAR lists them. cik may be padded or not. A limit of zero or
// less falls back to the configured filing limit.
func (p *Provider) RecentFilings(ctx context.Context, cik string, limit int) ([]models.FilingRecord, error) {
	if limit <= 0 {
		limit = p.cfg.FilingLimit
	}

	padded := padCIK(unpadCIK(cik))
	u := fmt.Sprintf("%s/CIK%s.json", strings.TrimRight(p.cfg.SubmissionsURL, "/"), padded)

	var resp edgarSubmissionsResponse
	if err := p.json.GetJSON(ctx, u, &resp); err != nil {
		return nil, fmt.Errorf("sec: fetch submissions for CIK %s: %w", padded, err)
	}

	recent := resp.Filings.Recent
	n := min(limit, recent.Len())

	filings := make([]models.FilingRecord, 0, n)
	for i := 0; i < n; i++ {
		f := models.FilingRecord{
			Form:            recent.Form[i],
			Date:            recent.FilingDate[i],
			PrimaryDocument: recent.PrimaryDocument[i],
			AccessionNumber: recent.AccessionNumber[i],
		}
		f.URL = p.documentURL(padded, f.AccessionNumber, f.PrimaryDocument)
		filings = append(filings, f)
	}

	p.logger.Debug().
		Str("cik", padded).
		Int("available", recent.Len()).
		Int("returned", len(filings)).
		Msg("recent filings")
	return filings, nil
}

// documentURL builds the Archives URL of a filing's primary document:
// {archives}/{cik without padding}/{accession without dashes}/{document}.
func (p *Provider) documentURL(cik, accession, document string) string {
	return fmt.Sprintf("%s/%s/%s/%s",
		strings.TrimRight(p.cfg.ArchivesURL, "/"),
		unpadCIK(cik),
		strings.ReplaceAll(accession, "-", ""),
		document,
	)
}
