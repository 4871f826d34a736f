// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/catering-backend/internal/config"
	"github.com/your-org/catering-backend/internal/domain/indent"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// GenerateIndentSheet renders a procurement sheet for an indent, the paper
// copy the purchasing runner takes to the market.
func (s *Service) GenerateIndentSheet(ind *indent.Indent, eventName string) (*bytes.Buffer, error) {
	data := sheetData{
		ReferenceNumber: ind.ReferenceNumber,
		EventName:       eventName,
		Status:          string(ind.Status),
		GeneratedAt:     time.Now().Format("January 2, 2006 15:04"),
		Items:           make([]sheetItem, 0, len(ind.Items)),
		Kitchen:         s.config.App.Name,
	}

	for _, item := range ind.Items {
		source := "Purchase"
		if item.IsInStock {
			source = "Warehouse"
		}
		received := ""
		if item.IsReceived {
			received = "✓"
		}
		data.Items = append(data.Items, sheetItem{
			Name:     item.ItemName,
			Category: item.Category,
			Quantity: fmt.Sprintf("%.0f %s", item.Quantity, item.Unit),
			Source:   source,
			Received: received,
			Notes:    item.Notes,
		})
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	page.Zoom.Set(0.95)

	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// generateHTML generates HTML content from the sheet template
func (s *Service) generateHTML(data sheetData) (string, error) {
	tmpl := template.Must(template.New("indent_sheet").Parse(sheetTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// sheetData is the data passed to the procurement sheet template
type sheetData struct {
	ReferenceNumber string
	EventName       string
	Status          string
	GeneratedAt     string
	Kitchen         string
	Items           []sheetItem
}

type sheetItem struct {
	Name     string
	Category string
	Quantity string
	Source   string
	Received string
	Notes    string
}

// Procurement sheet HTML template
const sheetTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Indent {{.ReferenceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            border-bottom: 2px solid #333;
            padding-bottom: 12px;
            margin-bottom: 20px;
        }
        .header h1 {
            margin: 0;
            font-size: 22px;
        }
        .meta {
            margin-top: 6px;
            font-size: 12px;
            color: #666;
        }
        .status {
            display: inline-block;
            padding: 2px 8px;
            border: 1px solid #333;
            border-radius: 3px;
            font-size: 11px;
            text-transform: uppercase;
        }
        table {
            width: 100%;
            border-collapse: collapse;
            margin-top: 10px;
        }
        th {
            background: #f0f0f0;
            text-align: left;
            padding: 8px;
            font-size: 12px;
            border-bottom: 1px solid #999;
        }
        td {
            padding: 8px;
            font-size: 12px;
            border-bottom: 1px solid #ddd;
        }
        .sign {
            margin-top: 40px;
            font-size: 12px;
        }
        .sign span {
            display: inline-block;
            width: 220px;
            border-top: 1px solid #333;
            margin-right: 60px;
            padding-top: 4px;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>{{.Kitchen}} — Procurement Sheet</h1>
        <div class="meta">
            Reference: <strong>{{.ReferenceNumber}}</strong> &nbsp;|&nbsp;
            Event: {{.EventName}} &nbsp;|&nbsp;
            Generated: {{.GeneratedAt}} &nbsp;|&nbsp;
            <span class="status">{{.Status}}</span>
        </div>
    </div>

    <table>
        <thead>
            <tr>
                <th>#</th>
                <th>Item</th>
                <th>Category</th>
                <th>Quantity</th>
                <th>Source</th>
                <th>Received</th>
                <th>Notes</th>
            </tr>
        </thead>
        <tbody>
            {{range $i, $item := .Items}}
            <tr>
                <td>{{$i}}</td>
                <td>{{$item.Name}}</td>
                <td>{{$item.Category}}</td>
                <td>{{$item.Quantity}}</td>
                <td>{{$item.Source}}</td>
                <td>{{$item.Received}}</td>
                <td>{{$item.Notes}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="sign">
        <span>Prepared by</span>
        <span>Approved by</span>
    </div>
</body>
</html>
`
