package sources

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tenderwright/tenderwright/internal/rfp"
)

// ariba reads the SAP Ariba Discovery posting feed.
type ariba struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

type aribaRecord struct {
	PostingTitle string `json:"postingTitle"`
	BuyerName    string `json:"buyerAnonymizedName"`
	Description  string `json:"description"`
	PostingID    string `json:"postingId"`
	OpenDate     string `json:"openDate"`
	CloseDate    string `json:"responseDeadline"`
	ServiceAreas string `json:"serviceLocations"`
	PostingURL   string `json:"postingUrl"`
}

func (a *ariba) Name() string { return "ariba" }

func (a *ariba) Fetch(ctx context.Context) ([]rfp.Opportunity, error) {
	var feed struct {
		Postings []aribaRecord `json:"postings"`
	}
	if err := fetchJSON(ctx, a.client, a.url, &feed); err != nil {
		return nil, err
	}

	opps := make([]rfp.Opportunity, 0, len(feed.Postings))
	for _, rec := range feed.Postings {
		if rec.PostingTitle == "" {
			continue
		}
		opps = append(opps, rfp.Opportunity{
			Title:           rec.PostingTitle,
			Customer:        rec.BuyerName,
			Description:     rec.Description,
			ReferenceNumber: rec.PostingID,
			PostingDate:     parseDate(rec.OpenDate),
			ClosingDate:     parseDate(rec.CloseDate),
			Regions:         splitAreas(rec.ServiceAreas),
			PostingURL:      rec.PostingURL,
		})
	}

	a.logger.DebugContext(ctx, "feed fetched", "records", len(opps))
	return opps, nil
}

func splitAreas(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
