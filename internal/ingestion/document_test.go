package ingestion

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wordBody = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Senior Go Engineer</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Skills: </w:t></w:r><w:r><w:t>Kubernetes, Docker</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Python</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>AWS</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:body>
</w:document>`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	files := map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"word/document.xml":            body,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		expected Format
	}{
		{"resume.pdf", FormatPDF},
		{"RESUME.PDF", FormatPDF},
		{"cv.docx", FormatDOCX},
		{"job.html", FormatHTML},
		{"job.htm", FormatHTML},
		{"notes.txt", FormatText},
		{"README.md", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			format, err := DetectFormat(tt.filename)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, format)
		})
	}
}

func TestDetectFormat_Unsupported(t *testing.T) {
	for _, filename := range []string{"resume.doc", "image.png", "noextension"} {
		_, err := DetectFormat(filename)
		require.Error(t, err)

		var unsupported *UnsupportedFormatError
		require.True(t, errors.As(err, &unsupported), filename)
		assert.Contains(t, err.Error(), ".pdf")
	}
}

func TestIngest_PlainText(t *testing.T) {
	doc, err := Ingest("job.txt", []byte("Looking for   Python,\r\nAWS and Kubernetes!!"))
	require.NoError(t, err)

	assert.Equal(t, "job.txt", doc.Filename)
	assert.Equal(t, FormatText, doc.Format)
	assert.Equal(t, "Looking for Python,\nAWS and Kubernetes", doc.Text)
	assert.Len(t, doc.Hash, 64)
}

func TestIngest_HashDependsOnText(t *testing.T) {
	a, err := Ingest("a.txt", []byte("Content 1"))
	require.NoError(t, err)
	b, err := Ingest("b.txt", []byte("Content 1"))
	require.NoError(t, err)
	c, err := Ingest("c.txt", []byte("Content 2"))
	require.NoError(t, err)

	assert.Equal(t, a.Hash, b.Hash)
	assert.NotEqual(t, a.Hash, c.Hash)
}

func TestIngest_InvalidUTF8Dropped(t *testing.T) {
	text, err := ExtractText("job.txt", []byte("Go\xff developer"))
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)
}

func TestIngest_HTML(t *testing.T) {
	html := `<!DOCTYPE html>
<html>
<head><title>Job</title><style>body { color: red; }</style></head>
<body>
<nav>Home | Jobs</nav>
<main>
<h1>Senior Software Engineer</h1>
<ul><li>Go</li><li>Kubernetes</li></ul>
<script>var tracking = "python";</script>
</main>
<footer>Copyright</footer>
</body>
</html>`

	doc, err := Ingest("job.html", []byte(html))
	require.NoError(t, err)

	assert.Equal(t, FormatHTML, doc.Format)
	assert.Contains(t, doc.Text, "Senior Software Engineer")
	assert.Contains(t, doc.Text, "Go\nKubernetes")
	assert.NotContains(t, doc.Text, "Home")
	assert.NotContains(t, doc.Text, "Copyright")
	assert.NotContains(t, doc.Text, "tracking")
	assert.NotContains(t, doc.Text, "color")
}

func TestIngest_HTMLWithoutMainUsesBody(t *testing.T) {
	text, err := ExtractText("job.htm", []byte(`<html><body><p>Rust</p><p>Terraform</p></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "Rust\nTerraform", text)
}

func TestIngest_DOCX(t *testing.T) {
	doc, err := Ingest("resume.docx", buildDocx(t, wordBody))
	require.NoError(t, err)

	assert.Equal(t, FormatDOCX, doc.Format)
	assert.Contains(t, doc.Text, "Senior Go Engineer")
	assert.Contains(t, doc.Text, "Skills: Kubernetes, Docker")
	assert.Contains(t, doc.Text, "Python")
	assert.Contains(t, doc.Text, "AWS")
	assert.NotContains(t, doc.Text, "w:t")
}

func TestIngest_CorruptDOCX(t *testing.T) {
	_, err := Ingest("resume.docx", []byte("not a zip archive"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, FormatDOCX, extractionErr.Format)
}

func TestIngest_CorruptPDF(t *testing.T) {
	_, err := Ingest("resume.pdf", []byte("definitely not a pdf"))
	require.Error(t, err)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, FormatPDF, extractionErr.Format)
}

func TestWordprocessingText(t *testing.T) {
	text, err := wordprocessingText(`<w:document xmlns:w="w"><w:body>` +
		`<w:p><w:r><w:t>Line one</w:t><w:tab/><w:t>tabbed</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>Line two</w:t><w:br/><w:t>after break</w:t></w:r></w:p>` +
		`</w:body></w:document>`)
	require.NoError(t, err)
	assert.Equal(t, "Line one\ttabbed\nLine two\nafter break\n", text)

	_, err = wordprocessingText(`<w:document><w:body>`)
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "job.md")
	require.NoError(t, os.WriteFile(path, []byte("# Backend Engineer\n\nGo and PostgreSQL"), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "job.md", doc.Filename)
	assert.Equal(t, "# Backend Engineer\n\nGo and PostgreSQL", doc.Text)
}

func TestReadFile_NotFound(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file not found")
}
