package sources

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/tenderwright/tenderwright/internal/rfp"
)

// alberta reads the Alberta Purchasing Connection opportunity feed.
type alberta struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

type albertaRecord struct {
	Title           string   `json:"title"`
	ContractingOrg  string   `json:"contracting_organization"`
	Description     string   `json:"description"`
	ReferenceNumber string   `json:"reference_number"`
	PostDateTime    string   `json:"post_date_time"`
	CloseDateTime   string   `json:"close_date_time"`
	Regions         []string `json:"opportunity_regions"`
	URL             string   `json:"url"`
}

func (a *alberta) Name() string { return "alberta" }

func (a *alberta) Fetch(ctx context.Context) ([]rfp.Opportunity, error) {
	var feed struct {
		Opportunities []albertaRecord `json:"opportunities"`
	}
	if err := fetchJSON(ctx, a.client, a.url, &feed); err != nil {
		return nil, err
	}

	opps := make([]rfp.Opportunity, 0, len(feed.Opportunities))
	for _, rec := range feed.Opportunities {
		if rec.Title == "" {
			continue
		}
		opps = append(opps, rfp.Opportunity{
			Title:           rec.Title,
			Customer:        rec.ContractingOrg,
			Description:     rec.Description,
			ReferenceNumber: rec.ReferenceNumber,
			PostingDate:     parseDate(rec.PostDateTime),
			ClosingDate:     parseDate(rec.CloseDateTime),
			Regions:         rec.Regions,
			PostingURL:      rec.URL,
		})
	}

	a.logger.DebugContext(ctx, "feed fetched", "records", len(opps))
	return opps, nil
}
