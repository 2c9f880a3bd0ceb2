package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// extractDOCX reads word/document.xml from the OOXML zip container and joins
// the text runs, one line per paragraph. Only w:t character data is kept;
// tables, headers, and embedded objects are ignored.
func extractDOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}

	var document io.ReadCloser
	for _, f := range archive.File {
		if f.Name == docxDocumentPath {
			document, err = f.Open()
			if err != nil {
				return "", fmt.Errorf("open %s: %w", docxDocumentPath, err)
			}
			break
		}
	}
	if document == nil {
		return "", fmt.Errorf("docx missing %s", docxDocumentPath)
	}
	defer document.Close()

	return collectRuns(document)
}

func collectRuns(r io.Reader) (string, error) {
	var (
		b      strings.Builder
		inText bool
	)

	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx xml: %w", err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n"), nil
}
