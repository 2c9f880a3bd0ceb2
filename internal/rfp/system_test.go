package rfp_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tenderwright/tenderwright/internal/artifacts"
	"github.com/tenderwright/tenderwright/internal/rfp"
	"github.com/tenderwright/tenderwright/pkg/sessions"
)

type fakeEmbedder struct {
	vectors map[string][]float64
	calls   atomic.Int64
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls.Add(1)
	vec, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("no vector for %q", text)
	}
	return vec, nil
}

type fakeGenerator struct {
	output     string
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	return f.output, nil
}

type fakeSource struct {
	name string
	opps []rfp.Opportunity
	err  error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Fetch(_ context.Context) ([]rfp.Opportunity, error) {
	return f.opps, f.err
}

func newTestRuntime(t *testing.T) (*rfp.Runtime, *fakeEmbedder, *fakeGenerator) {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	store, err := artifacts.New(&artifacts.Config{Backend: artifacts.BackendLocal, Dir: t.TempDir()}, logger)
	if err != nil {
		t.Fatalf("artifacts.New: %v", err)
	}

	embedder := &fakeEmbedder{vectors: map[string][]float64{
		"Description: Road construction and surfacing contractor": {1, 0},
		"Highway Resurfacing Resurface 40km of Highway 2":         {1, 0},
		"Office Chairs Procure 200 ergonomic office chairs":       {0, 1},
		"Bridge Repair Structural repair of river crossing":       {1, 1},
	}}
	generator := &fakeGenerator{output: "## 1. Executive Summary\n\nWe propose to resurface the highway.\n"}

	rt := &rfp.Runtime{
		Logger:    logger,
		Sessions:  sessions.NewMemoryStore[rfp.FlowState](0),
		Embedder:  embedder,
		Generator: generator,
		Sources: []rfp.Source{
			&fakeSource{name: "alberta", opps: []rfp.Opportunity{
				{Title: "Highway Resurfacing", Customer: "Alberta Transportation", Description: "Resurface 40km of Highway 2", ReferenceNumber: "AB-100"},
				{Title: "Office Chairs", Customer: "Service Alberta", Description: "Procure 200 ergonomic office chairs", ReferenceNumber: "AB-101"},
			}},
			&fakeSource{name: "ariba", opps: []rfp.Opportunity{
				{Title: "Bridge Repair", Customer: "City of Edmonton", Description: "Structural repair of river crossing", ReferenceNumber: "ED-7"},
			}},
			&fakeSource{name: "broken", err: errors.New("feed unreachable")},
		},
		Artifacts: store,
	}
	return rt, embedder, generator
}

func testProfile() rfp.CompanyProfile {
	return rfp.CompanyProfile{
		Name:        "Northbuild Ltd",
		Description: "Road construction and surfacing contractor",
	}
}

func TestWorkflowStartRanksAndSuspends(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, opps, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if id == "" {
		t.Fatal("empty session id")
	}

	// The failing source is skipped, not fatal.
	if len(opps) != 3 {
		t.Fatalf("got %d opportunities, want 3", len(opps))
	}

	want := []string{"Highway Resurfacing", "Bridge Repair", "Office Chairs"}
	for i, title := range want {
		if opps[i].Title != title {
			t.Errorf("rank %d: got %q, want %q", i, opps[i].Title, title)
		}
	}
	if opps[0].MatchScore <= opps[1].MatchScore || opps[1].MatchScore <= opps[2].MatchScore {
		t.Errorf("scores not strictly descending: %v, %v, %v",
			opps[0].MatchScore, opps[1].MatchScore, opps[2].MatchScore)
	}

	status, err := sys.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.HasOpportunities || status.SelectionMade || status.DocumentGenerated || !status.AwaitingInput {
		t.Errorf("unexpected suspended status: %+v", status)
	}
}

func TestWorkflowStartValidatesProfile(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}

	tests := []struct {
		name    string
		profile rfp.CompanyProfile
	}{
		{"missing name", rfp.CompanyProfile{Description: "d"}},
		{"missing description", rfp.CompanyProfile{Name: "n"}},
		{"empty", rfp.CompanyProfile{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, err := sys.Start(context.Background(), tc.profile); !errors.Is(err, rfp.ErrMissingProfile) {
				t.Errorf("got %v, want ErrMissingProfile", err)
			}
		})
	}
}

func TestWorkflowContinueExportsDocument(t *testing.T) {
	rt, embedder, generator := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	embedsAfterStart := embedder.calls.Load()

	artifact, err := sys.Continue(ctx, id, 1, nil)
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	defer artifact.Content.Close()

	if !strings.Contains(artifact.Path, "proposal_highway-resurfacing.pdf") {
		t.Errorf("artifact path %q does not reference the selected title", artifact.Path)
	}

	data, err := io.ReadAll(artifact.Content)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("artifact is not a PDF, starts with %q", data[:min(8, len(data))])
	}

	// Resume picks up at the suspend point; ranking never reruns.
	if got := embedder.calls.Load(); got != embedsAfterStart {
		t.Errorf("embed calls grew from %d to %d after resume", embedsAfterStart, got)
	}

	if !strings.Contains(generator.lastPrompt, "Highway Resurfacing") {
		t.Errorf("prompt missing selected opportunity:\n%s", generator.lastPrompt)
	}
	if !strings.Contains(generator.lastPrompt, "Northbuild Ltd") {
		t.Errorf("prompt missing company name:\n%s", generator.lastPrompt)
	}

	status, err := sys.Status(ctx, id)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.SelectionMade || !status.DocumentGenerated || status.AwaitingInput {
		t.Errorf("unexpected finished status: %+v", status)
	}
}

func TestWorkflowContinueWithSupportingFile(t *testing.T) {
	rt, _, generator := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	file := &rfp.UploadedFile{
		Filename: "requirements.docx",
		Data:     buildDOCX(t, "Bidders must hold a Class A paving certification."),
	}
	artifact, err := sys.Continue(ctx, id, 2, file)
	if err != nil {
		t.Fatalf("Continue: %v", err)
	}
	artifact.Content.Close()

	if !strings.Contains(generator.lastPrompt, "Class A paving certification") {
		t.Errorf("extracted file context missing from prompt:\n%s", generator.lastPrompt)
	}
	if !strings.Contains(artifact.Path, "proposal_bridge-repair.pdf") {
		t.Errorf("artifact path %q does not reference the selected title", artifact.Path)
	}
}

func TestWorkflowContinueRecoversFromBadUpload(t *testing.T) {
	rt, _, generator := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	bad := &rfp.UploadedFile{Filename: "notes.txt", Data: []byte("plain text")}
	if _, err := sys.Continue(ctx, id, 1, bad); !errors.Is(err, rfp.ErrUnsupportedFile) {
		t.Fatalf("got %v, want ErrUnsupportedFile", err)
	}

	// The corrected upload replaces the rejected one on the next attempt.
	good := &rfp.UploadedFile{
		Filename: "requirements.docx",
		Data:     buildDOCX(t, "Bidders must hold a Class A paving certification."),
	}
	artifact, err := sys.Continue(ctx, id, 1, good)
	if err != nil {
		t.Fatalf("Continue after corrected upload: %v", err)
	}
	artifact.Content.Close()

	if !strings.Contains(generator.lastPrompt, "Class A paving certification") {
		t.Errorf("corrected file context missing from prompt:\n%s", generator.lastPrompt)
	}
	if !strings.Contains(artifact.Path, "proposal_highway-resurfacing.pdf") {
		t.Errorf("artifact path %q does not reference the selected title", artifact.Path)
	}
}

func TestWorkflowContinueRejectsBadInput(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	t.Run("unknown session", func(t *testing.T) {
		if _, err := sys.Continue(ctx, "no-such-session", 1, nil); !errors.Is(err, rfp.ErrSessionNotFound) {
			t.Errorf("got %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("index below range", func(t *testing.T) {
		if _, err := sys.Continue(ctx, id, 0, nil); !errors.Is(err, rfp.ErrInvalidSelection) {
			t.Errorf("got %v, want ErrInvalidSelection", err)
		}
	})

	t.Run("index above range", func(t *testing.T) {
		if _, err := sys.Continue(ctx, id, 4, nil); !errors.Is(err, rfp.ErrInvalidSelection) {
			t.Errorf("got %v, want ErrInvalidSelection", err)
		}
	})

	t.Run("unsupported file kind", func(t *testing.T) {
		file := &rfp.UploadedFile{Filename: "notes.txt", Data: []byte("plain text")}
		if _, err := sys.Continue(ctx, id, 1, file); !errors.Is(err, rfp.ErrUnsupportedFile) {
			t.Errorf("got %v, want ErrUnsupportedFile", err)
		}
	})
}

func TestWorkflowContinueIsIdempotent(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := sys.Continue(ctx, id, 1, nil)
	if err != nil {
		t.Fatalf("first Continue: %v", err)
	}
	first.Content.Close()

	// A repeat with a different index keeps the original selection and
	// re-serves the already exported document.
	second, err := sys.Continue(ctx, id, 3, nil)
	if err != nil {
		t.Fatalf("second Continue: %v", err)
	}
	second.Content.Close()

	if first.Path != second.Path {
		t.Errorf("paths diverged: %q vs %q", first.Path, second.Path)
	}
}

func TestWorkflowAbandon(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if err := sys.Abandon(ctx, id); err != nil {
		t.Fatalf("Abandon: %v", err)
	}
	if _, err := sys.Status(ctx, id); !errors.Is(err, rfp.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound", err)
	}
	if err := sys.Abandon(ctx, id); err != nil {
		t.Errorf("repeat Abandon: %v", err)
	}
}

func TestWorkflowSessionExpiry(t *testing.T) {
	rt, _, _ := newTestRuntime(t)
	rt.Sessions = sessions.NewMemoryStore[rfp.FlowState](20 * time.Millisecond)
	sys, err := rfp.New(rt)
	if err != nil {
		t.Fatalf("rfp.New: %v", err)
	}
	ctx := context.Background()

	id, _, err := sys.Start(ctx, testProfile())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	time.Sleep(40 * time.Millisecond)

	if _, err := sys.Continue(ctx, id, 1, nil); !errors.Is(err, rfp.ErrSessionNotFound) {
		t.Errorf("got %v, want ErrSessionNotFound after expiry", err)
	}
}

// buildDOCX assembles a minimal OOXML document containing one paragraph.
func buildDOCX(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}
