// Package ingestion turns uploaded documents (PDF, DOCX, HTML, plain text) into cleaned plain text.
package ingestion

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Format identifies the document type a text extractor handles.
type Format string

// Supported formats
const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatText Format = "text"
)

var extensionFormats = map[string]Format{
	"pdf":  FormatPDF,
	"docx": FormatDOCX,
	"html": FormatHTML,
	"htm":  FormatHTML,
	"txt":  FormatText,
	"md":   FormatText,
}

// supportedExtensions lists extensionFormats keys in display order.
var supportedExtensions = []string{"pdf", "docx", "html", "htm", "txt", "md"}

// htmlNoiseSelector matches elements that never carry document text.
const htmlNoiseSelector = "script, style, noscript, template, nav, footer, header, iframe, svg"

// htmlContentSelectors are tried in order before falling back to body.
var htmlContentSelectors = []string{"main", "article", "#content", ".content"}

// htmlBlockElements end a line when extracting HTML text.
var htmlBlockElements = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "tr": true, "td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"section": true, "article": true, "ul": true, "ol": true, "dt": true, "dd": true,
	"blockquote": true, "pre": true, "table": true,
}

// Document is the cleaned text of one ingested file.
type Document struct {
	Filename string `json:"filename"`
	Format   Format `json:"file_type"`
	Text     string `json:"text"`
	Hash     string `json:"hash"` // SHA256 hex digest of Text
}

// DetectFormat maps a filename to its Format by extension, case-insensitively.
func DetectFormat(filename string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	format, ok := extensionFormats[ext]
	if !ok {
		return "", &UnsupportedFormatError{Filename: filename, Extension: ext}
	}
	return format, nil
}

// Ingest extracts and cleans the text of a document held in memory.
func Ingest(filename string, data []byte) (*Document, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var raw string
	switch format {
	case FormatPDF:
		raw, err = extractPDF(data)
	case FormatDOCX:
		raw, err = extractDOCX(data)
	case FormatHTML:
		raw, err = extractHTML(data)
	default:
		raw = strings.ToValidUTF8(string(data), "")
	}
	if err != nil {
		return nil, err
	}

	text := CleanText(raw)
	return &Document{
		Filename: filepath.Base(filename),
		Format:   format,
		Text:     text,
		Hash:     computeHash(text),
	}, nil
}

// ExtractText returns only the cleaned text of a document.
func ExtractText(filename string, data []byte) (string, error) {
	doc, err := Ingest(filename, data)
	if err != nil {
		return "", err
	}
	return doc.Text, nil
}

// ReadFile ingests a document from disk.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Ingest(path, data)
}

func extractPDF(data []byte) (text string, err error) {
	// the pdf reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			err = &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("malformed document: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatPDF, Message: "failed to open document", Cause: err}
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", &ExtractionError{Format: FormatPDF, Message: fmt.Sprintf("failed to read page %d", i), Cause: err}
		}
		if strings.TrimSpace(pageText) != "" {
			pages = append(pages, pageText)
		}
	}
	return strings.Join(pages, "\n"), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to open document", Cause: err}
	}
	defer func() { _ = doc.Close() }()

	text, err := wordprocessingText(doc.Editable().GetContent())
	if err != nil {
		return "", &ExtractionError{Format: FormatDOCX, Message: "failed to parse document body", Cause: err}
	}
	return text, nil
}

// wordprocessingText reads the text runs out of a WordprocessingML body, one line per paragraph.
func wordprocessingText(content string) (string, error) {
	decoder := xml.NewDecoder(strings.NewReader(content))
	var b strings.Builder
	inText := false

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tc":
				b.WriteByte('\t')
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func extractHTML(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", &ExtractionError{Format: FormatHTML, Message: "failed to parse HTML", Cause: err}
	}

	doc.Find(htmlNoiseSelector).Remove()

	var main *goquery.Selection
	for _, selector := range htmlContentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			main = selection.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	var b strings.Builder
	writeNodeText(main, &b)
	return b.String(), nil
}

// writeNodeText writes the text under s, ending a line after every block element so
// adjacent list items or paragraphs do not run together.
func writeNodeText(s *goquery.Selection, b *strings.Builder) {
	s.Contents().Each(func(_ int, child *goquery.Selection) {
		name := goquery.NodeName(child)
		switch {
		case name == "#text":
			b.WriteString(child.Text())
		case strings.HasPrefix(name, "#"):
			// comments, doctype
		default:
			writeNodeText(child, b)
			if htmlBlockElements[name] {
				b.WriteByte('\n')
			}
		}
	})
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
