package labels

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"

	qrcode "github.com/skip2/go-qrcode"
)

// CodeRenderer turns arbitrary text into a scannable image of the
// requested pixel size.
type CodeRenderer interface {
	Render(text string, size int) ([]byte, error)
}

// QRRenderer renders codes as QR PNGs.
type QRRenderer struct{}

func NewQRRenderer() *QRRenderer {
	return &QRRenderer{}
}

func (QRRenderer) Render(text string, size int) ([]byte, error) {
	png, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to render code for %q: %w", text, err)
	}
	return png, nil
}

// labelCell is a Label plus its rendered image, ready for the template.
type labelCell struct {
	Label
	ImageURI template.URL
}

type sheetPage struct {
	Number int
	Cells  []labelCell
}

var sheetTemplate = template.Must(template.New("sheet").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Labels {{.Code}}</title>
<style>
.page { display: grid; grid-template-columns: repeat({{.Columns}}, 1fr); grid-template-rows: repeat({{.Rows}}, auto); page-break-after: always; }
.label { text-align: center; padding: 8px; font-family: sans-serif; font-size: 11px; }
.label img { width: 96px; height: 96px; }
</style>
</head>
<body onload="window.print()">
{{range .Pages}}<div class="page">
{{range .Cells}}<div class="label"><img src="{{.ImageURI}}" alt="{{.Code}}"><div>{{.Design}} / {{.Size}} / {{.Color}}</div><div>{{.Code}}</div></div>
{{end}}</div>
{{end}}</body>
</html>
`))

// SheetWriter emits a print-ready HTML document for a paginated label run.
type SheetWriter struct {
	renderer  CodeRenderer
	imageSize int
}

func NewSheetWriter(renderer CodeRenderer) *SheetWriter {
	return &SheetWriter{renderer: renderer, imageSize: 192}
}

// WriteSheet renders the code image once, then tiles it across all pages.
func (s *SheetWriter) WriteSheet(w io.Writer, pages []Page) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to write")
	}

	first := pages[0].Labels[0]
	png, err := s.renderer.Render(first.Code, s.imageSize)
	if err != nil {
		return err
	}
	uri := template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))

	data := struct {
		Code    string
		Columns int
		Rows    int
		Pages   []sheetPage
	}{Code: first.Code, Columns: Columns, Rows: Rows}

	for _, page := range pages {
		cells := make([]labelCell, len(page.Labels))
		for i, l := range page.Labels {
			cells[i] = labelCell{Label: l, ImageURI: uri}
		}
		data.Pages = append(data.Pages, sheetPage{Number: page.Number, Cells: cells})
	}

	return sheetTemplate.Execute(w, data)
}
