package rfp

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tenderwright/tenderwright/pkg/extract"
	"github.com/tenderwright/tenderwright/pkg/graph"
	"github.com/tenderwright/tenderwright/pkg/markdown"
)

// FetchRankNode returns the node that gathers opportunities from all sources
// and ranks them against the company profile. Sources are queried
// independently: a failing source is logged and skipped, never aborting the
// ranking, and results merge in source registration order so score ties keep
// a deterministic order. The ranked list is written once per session.
func FetchRankNode(rt *Runtime) graph.NodeFunc[FlowState] {
	return func(ctx context.Context, s FlowState) (FlowState, error) {
		if s.CompanyProfile == nil {
			return s, ErrMissingProfile
		}
		if s.AllOpportunities != nil {
			return s, nil
		}

		companyVec, err := rt.Embedder.Embed(ctx, profileText(*s.CompanyProfile))
		if err != nil {
			return s, fmt.Errorf("%w: company profile: %w", ErrEmbeddingFailed, err)
		}

		fetched := fetchAll(ctx, rt)

		for i := range fetched {
			vec, err := rt.Embedder.Embed(ctx, embeddingText(fetched[i]))
			if err != nil {
				return s, fmt.Errorf("%w: opportunity %q: %w", ErrEmbeddingFailed, fetched[i].Title, err)
			}
			fetched[i].MatchScore = cosineSimilarity(companyVec, vec)
		}

		s.AllOpportunities = rankOpportunities(fetched, rt.Options.TopK)

		rt.Logger.InfoContext(
			ctx, "opportunities ranked",
			"session", s.SessionID,
			"fetched", len(fetched),
			"retained", len(s.AllOpportunities),
		)
		return s, nil
	}
}

// fetchAll queries every source concurrently and flattens the results in
// registration order. Per-source failures are swallowed after logging.
func fetchAll(ctx context.Context, rt *Runtime) []Opportunity {
	results := make([][]Opportunity, len(rt.Sources))

	var g errgroup.Group
	for i, src := range rt.Sources {
		g.Go(func() error {
			opps, err := src.Fetch(ctx)
			if err != nil {
				rt.Logger.WarnContext(ctx, "source failed", "source", src.Name(), "error", err)
				return nil
			}
			results[i] = opps
			return nil
		})
	}
	g.Wait()

	var all []Opportunity
	for _, opps := range results {
		all = append(all, opps...)
	}
	return all
}

// AwaitSelectionNode returns the suspend point. Its body is a no-op; the
// conditional edge guarding it decides whether the walk halts here or moves on.
func AwaitSelectionNode(rt *Runtime) graph.NodeFunc[FlowState] {
	return func(ctx context.Context, s FlowState) (FlowState, error) {
		if !s.SelectionMade() {
			rt.Logger.InfoContext(ctx, "awaiting opportunity selection", "session", s.SessionID)
		}
		return s, nil
	}
}

// ExtractContextNode returns the node that derives prompt context from the
// optional supporting file. Without a file, the context is the empty string.
func ExtractContextNode(rt *Runtime) graph.NodeFunc[FlowState] {
	return func(ctx context.Context, s FlowState) (FlowState, error) {
		if s.SupportingFileContext != nil {
			return s, nil
		}

		if s.SupportingFile == nil {
			empty := ""
			s.SupportingFileContext = &empty
			return s, nil
		}

		kind, err := extract.KindFromFilename(s.SupportingFile.Filename)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrUnsupportedFile, err)
		}

		text, err := extract.Extract(s.SupportingFile.Data, kind, rt.Options.ContextLimit)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrExtractFailed, err)
		}

		s.SupportingFileContext = &text
		rt.Logger.InfoContext(
			ctx, "supporting file context extracted",
			"session", s.SessionID,
			"file", s.SupportingFile.Filename,
			"chars", len(text),
		)
		return s, nil
	}
}

// GenerateNode returns the node that produces the proposal markdown.
// Requires a selected opportunity and a company profile; the returned text is
// stored verbatim.
func GenerateNode(rt *Runtime) graph.NodeFunc[FlowState] {
	return func(ctx context.Context, s FlowState) (FlowState, error) {
		if s.GeneratedMarkdown != "" {
			return s, nil
		}
		if s.SelectedOpportunity == nil {
			return s, ErrMissingSelection
		}
		if s.CompanyProfile == nil {
			return s, ErrMissingProfile
		}

		var fileContext string
		if s.SupportingFileContext != nil {
			fileContext = *s.SupportingFileContext
		}

		prompt, err := proposalPrompt(*s.SelectedOpportunity, *s.CompanyProfile, fileContext)
		if err != nil {
			return s, fmt.Errorf("%w: compose prompt: %w", ErrGenerateFailed, err)
		}

		text, err := rt.Generator.Generate(ctx, prompt)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrGenerateFailed, err)
		}

		s.GeneratedMarkdown = text
		rt.Logger.InfoContext(
			ctx, "proposal generated",
			"session", s.SessionID,
			"opportunity", s.SelectedOpportunity.Title,
			"chars", len(text),
		)
		return s, nil
	}
}

// ExportNode returns the finish node. It prepends the cover block, renders
// the combined markdown to a paginated PDF, and writes it to the artifact
// store under a session-scoped key.
func ExportNode(rt *Runtime) graph.NodeFunc[FlowState] {
	return func(ctx context.Context, s FlowState) (FlowState, error) {
		if s.GeneratedDocumentPath != "" {
			return s, nil
		}
		if s.GeneratedMarkdown == "" {
			return s, ErrMissingDocument
		}
		if s.SelectedOpportunity == nil {
			return s, ErrMissingSelection
		}
		if s.CompanyProfile == nil {
			return s, ErrMissingProfile
		}

		cover := coverBlock(*s.SelectedOpportunity, *s.CompanyProfile, time.Now())
		data, err := markdown.Render(cover + "\n\n" + s.GeneratedMarkdown)
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrExportFailed, err)
		}

		key := artifactKey(s.SessionID, s.SelectedOpportunity.Title)
		path, err := rt.Artifacts.Put(ctx, key, data, "application/pdf")
		if err != nil {
			return s, fmt.Errorf("%w: %w", ErrExportFailed, err)
		}

		pages, err := markdown.PageCount(data)
		if err != nil {
			pages = 0
		}

		s.ArtifactKey = key
		s.GeneratedDocumentPath = path
		rt.Logger.InfoContext(
			ctx, "proposal exported",
			"session", s.SessionID,
			"key", key,
			"pages", pages,
		)
		return s, nil
	}
}
