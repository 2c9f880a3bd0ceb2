// Package sources implements tender opportunity feed clients. Each client
// maps one external feed's records onto rfp.Opportunity; the workflow treats
// them uniformly through the rfp.Source interface.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tenderwright/tenderwright/internal/rfp"
)

const maxFeedBody = 16 << 20

// New builds the configured feed clients. Sources with no configured URL are
// omitted; an empty result is legal and yields an empty ranking.
func New(cfg *Config, logger *slog.Logger) []rfp.Source {
	timeout, _ := time.ParseDuration(cfg.Timeout)
	client := &http.Client{Timeout: timeout}

	var srcs []rfp.Source
	if cfg.AlbertaURL != "" {
		srcs = append(srcs, &alberta{
			url:    cfg.AlbertaURL,
			client: client,
			logger: logger.With("system", "sources", "source", "alberta"),
		})
	}
	if cfg.AribaURL != "" {
		srcs = append(srcs, &ariba{
			url:    cfg.AribaURL,
			client: client,
			logger: logger.With("system", "sources", "source", "ariba"),
		})
	}
	return srcs
}

// fetchJSON performs a context-bounded GET and decodes the response into out.
func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxFeedBody)).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func parseDate(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
