package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordprocessingML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

var (
	headerPart = regexp.MustCompile(`^word/header[0-9]*\.xml$`)
	footerPart = regexp.MustCompile(`^word/footer[0-9]*\.xml$`)
)

// extractDOCX returns the visible text of the headers, the main document
// and the footers, in that order. Headers and footers keep their package
// order. Images and other embedded parts are ignored.
func extractDOCX(path string) (string, error) {
	doc, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = doc.Close() }()

	// The docx package keeps header and footer parts private.
	pkg, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = pkg.Close() }()

	headers, err := partsText(pkg.File, headerPart)
	if err != nil {
		return "", err
	}
	body, err := partText(doc.Editable().GetContent())
	if err != nil {
		return "", err
	}
	footers, err := partsText(pkg.File, footerPart)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(headers + body + footers), nil
}

// partsText concatenates the text of every package part whose name
// matches pattern.
func partsText(files []*zip.File, pattern *regexp.Regexp) (string, error) {
	var b strings.Builder
	for _, f := range files {
		if !pattern.MatchString(f.Name) {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open %s: %w", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		_ = rc.Close()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.Name, err)
		}

		text, err := partText(string(content))
		if err != nil {
			return "", fmt.Errorf("%s: %w", f.Name, err)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// partText walks one WordprocessingML part. Text runs are copied as is,
// tabs become "\t", breaks become "\n" and every paragraph is preceded by
// a blank line.
func partText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))

	var b strings.Builder
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed part xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingML {
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			case "p":
				b.WriteString("\n\n")
			}
		case xml.EndElement:
			if t.Name.Space == wordprocessingML && t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}
