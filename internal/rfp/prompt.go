package rfp

import (
	"fmt"
	"strings"
	"text/template"
	"time"
	"unicode"
)

// proposalTemplate instructs the generation provider to produce the four
// proposal sections in markdown.
const proposalTemplate = `You are an expert proposal writer. Based on the information below, generate a professional RFP response document with the following four sections:

## 1. Executive Summary
Provide a high-level overview of the proposal. Summarize the client's needs, the proposed solution, and the value offered.

## 2. Cover Letter
Write a formal letter addressed to the client. Thank them for the opportunity, briefly highlight your capabilities, express interest in collaboration, and sign with just the company signature.

## 3. Capabilities Mapping
Map the company's strengths, services, and experience to the client's specific opportunity requirements. Use bullet points or concise paragraphs.

## 4. Relevant Past Projects
Describe 2-3 relevant past projects. Include the client, problem statement, approach taken, and the outcome or impact. Highlight alignment with the current opportunity.

---

### Opportunity Details
- **Title**: {{.Title}}
- **Client**: {{.Customer}}
- **Description**: {{.Description}}

---

### Company Profile
- **Name**: {{.CompanyName}}
- **Overview**: {{.CompanyDescription}}

---

### Additional RFP Context (from uploaded file)
{{.FileContext}}

---

Respond in a clear, formal, and persuasive tone. Use markdown-style headers (##) to separate each section.
`

var promptTmpl = template.Must(template.New("proposal").Parse(proposalTemplate))

type promptData struct {
	Title              string
	Customer           string
	Description        string
	CompanyName        string
	CompanyDescription string
	FileContext        string
}

func proposalPrompt(opp Opportunity, profile CompanyProfile, fileContext string) (string, error) {
	var b strings.Builder
	err := promptTmpl.Execute(&b, promptData{
		Title:              opp.Title,
		Customer:           opp.Customer,
		Description:        opp.Description,
		CompanyName:        profile.Name,
		CompanyDescription: profile.Description,
		FileContext:        fileContext,
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// coverBlock is prepended to the generated markdown before rendering.
func coverBlock(opp Opportunity, profile CompanyProfile, now time.Time) string {
	return fmt.Sprintf(`# Proposal for %s

**Submitted by**: %s
**Date**: %s
**RFP Reference #**: %s

---`,
		opp.Title,
		profile.Name,
		now.Format("January 2, 2006"),
		opp.ReferenceNumber,
	)
}

// artifactKey derives the session-scoped storage key for an exported proposal.
func artifactKey(sessionID, title string) string {
	return fmt.Sprintf("%s/proposal_%s.pdf", sessionID, slugify(title))
}

// slugify lowercases the title and collapses runs of non-alphanumerics into
// single hyphens.
func slugify(s string) string {
	var (
		b    strings.Builder
		dash bool
	)
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
