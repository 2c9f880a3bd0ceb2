package sources_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tenderwright/tenderwright/internal/sources"
)

const albertaFeed = `{
	"opportunities": [
		{
			"title": "Highway Resurfacing",
			"contracting_organization": "Alberta Transportation",
			"description": "Resurface 40km of Highway 2",
			"reference_number": "AB-2026-100",
			"post_date_time": "2026-08-01T09:00:00Z",
			"close_date_time": "2026-09-15",
			"opportunity_regions": ["Calgary", "Red Deer"],
			"url": "https://purchasing.alberta.ca/posting/AB-2026-100"
		},
		{
			"title": "",
			"description": "record without a title is dropped"
		}
	]
}`

const aribaFeed = `{
	"postings": [
		{
			"postingTitle": "Bridge Repair",
			"buyerAnonymizedName": "City of Edmonton",
			"description": "Structural repair of river crossing",
			"postingId": "ED-7",
			"openDate": "2026-08-10T00:00:00Z",
			"responseDeadline": "2026-10-01T00:00:00Z",
			"serviceLocations": "Edmonton, Alberta",
			"postingUrl": "https://discovery.ariba.com/rfx/ED-7"
		}
	]
}`

func feedServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAlbertaFetch(t *testing.T) {
	srv := feedServer(t, albertaFeed)

	srcs := sources.New(feedConfig(srv.URL, ""), testLogger())
	if len(srcs) != 1 {
		t.Fatalf("got %d sources, want 1", len(srcs))
	}
	if srcs[0].Name() != "alberta" {
		t.Fatalf("name = %q, want alberta", srcs[0].Name())
	}

	opps, err := srcs[0].Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1 (untitled record dropped)", len(opps))
	}

	opp := opps[0]
	if opp.Title != "Highway Resurfacing" {
		t.Errorf("title = %q", opp.Title)
	}
	if opp.Customer != "Alberta Transportation" {
		t.Errorf("customer = %q", opp.Customer)
	}
	if opp.ReferenceNumber != "AB-2026-100" {
		t.Errorf("reference = %q", opp.ReferenceNumber)
	}
	if opp.PostingDate.IsZero() {
		t.Error("posting date not parsed")
	}
	if want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC); !opp.ClosingDate.Equal(want) {
		t.Errorf("closing date = %v, want %v", opp.ClosingDate, want)
	}
	if len(opp.Regions) != 2 {
		t.Errorf("regions = %v", opp.Regions)
	}
}

func TestAribaFetch(t *testing.T) {
	srv := feedServer(t, aribaFeed)

	srcs := sources.New(feedConfig("", srv.URL), testLogger())
	if len(srcs) != 1 {
		t.Fatalf("got %d sources, want 1", len(srcs))
	}
	if srcs[0].Name() != "ariba" {
		t.Fatalf("name = %q, want ariba", srcs[0].Name())
	}

	opps, err := srcs[0].Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}

	opp := opps[0]
	if opp.Title != "Bridge Repair" {
		t.Errorf("title = %q", opp.Title)
	}
	if opp.ReferenceNumber != "ED-7" {
		t.Errorf("reference = %q", opp.ReferenceNumber)
	}
	if len(opp.Regions) != 2 || opp.Regions[0] != "Edmonton" || opp.Regions[1] != "Alberta" {
		t.Errorf("regions = %v", opp.Regions)
	}
}

func TestFetchErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)

		srcs := sources.New(feedConfig(srv.URL, ""), testLogger())
		if _, err := srcs[0].Fetch(context.Background()); err == nil {
			t.Error("expected error for non-200 response")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := feedServer(t, "<html>not json</html>")

		srcs := sources.New(feedConfig(srv.URL, ""), testLogger())
		if _, err := srcs[0].Fetch(context.Background()); err == nil {
			t.Error("expected error for malformed body")
		}
	})

	t.Run("canceled context", func(t *testing.T) {
		srv := feedServer(t, albertaFeed)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		srcs := sources.New(feedConfig(srv.URL, ""), testLogger())
		if _, err := srcs[0].Fetch(ctx); err == nil {
			t.Error("expected error for canceled context")
		}
	})
}

func TestNewOmitsUnconfiguredFeeds(t *testing.T) {
	if srcs := sources.New(feedConfig("", ""), testLogger()); len(srcs) != 0 {
		t.Errorf("got %d sources, want 0", len(srcs))
	}

	srcs := sources.New(feedConfig("http://a", "http://b"), testLogger())
	if len(srcs) != 2 {
		t.Fatalf("got %d sources, want 2", len(srcs))
	}
	if srcs[0].Name() != "alberta" || srcs[1].Name() != "ariba" {
		t.Errorf("registration order: %s, %s", srcs[0].Name(), srcs[1].Name())
	}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var cfg sources.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.Timeout != "30s" {
			t.Errorf("timeout = %q, want 30s", cfg.Timeout)
		}
	})

	t.Run("rejects bad timeout", func(t *testing.T) {
		cfg := sources.Config{Timeout: "soon"}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for invalid timeout")
		}
	})

	t.Run("env override", func(t *testing.T) {
		t.Setenv("TEST_SOURCES_ALBERTA_URL", "http://override")

		var cfg sources.Config
		err := cfg.Finalize(&sources.Env{AlbertaURL: "TEST_SOURCES_ALBERTA_URL"})
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		if cfg.AlbertaURL != "http://override" {
			t.Errorf("alberta_url = %q, want override", cfg.AlbertaURL)
		}
	})
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// feedConfig builds a finalized Config for the given feed URLs.
func feedConfig(albertaURL, aribaURL string) *sources.Config {
	return &sources.Config{AlbertaURL: albertaURL, AribaURL: aribaURL, Timeout: "5s"}
}
