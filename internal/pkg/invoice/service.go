// internal/pkg/invoice/service.go

// Package invoice renders a placed order into a printable invoice,
// either as HTML or as a PDF via wkhtmltopdf.
package invoice

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/your-org/storefront-client/internal/config"
	"github.com/your-org/storefront-client/internal/domain/orders"
)

// Service handles invoice generation
type Service struct {
	config *config.Config
}

// NewService creates a new invoice service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// Data is the payload passed to the invoice template
type Data struct {
	InvoiceNumber string
	InvoiceDate   string
	Order         *orders.Order
	OrderDate     string
	Company       config.CompanyConfig
}

// RenderHTML generates the HTML invoice for an order
func (s *Service) RenderHTML(order *orders.Order) (string, error) {
	data := Data{
		InvoiceNumber: fmt.Sprintf("INV-%s", order.OrderNumber),
		InvoiceDate:   time.Now().Format("January 2, 2006"),
		Order:         order,
		OrderDate:     orders.FormatDate(order.CreatedAt),
		Company:       s.config.Company,
	}

	tmpl := template.Must(template.New("invoice").Parse(invoiceTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// RenderPDF generates a PDF invoice for an order
func (s *Service) RenderPDF(order *orders.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.RenderHTML(order)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	// Set PDF options
	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.Grayscale.Set(false)

	// Add page from HTML content
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

// Invoice HTML template
const invoiceTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Invoice {{.InvoiceNumber}}</title>
    <style>
        body {
            font-family: Arial, sans-serif;
            margin: 0;
            padding: 20px;
            color: #333;
        }
        .header {
            display: flex;
            justify-content: space-between;
            margin-bottom: 30px;
            border-bottom: 2px solid #eee;
            padding-bottom: 20px;
        }
        .invoice-title {
            font-size: 28px;
            font-weight: bold;
            color: #2563eb;
            margin-bottom: 10px;
        }
        .invoice-details td {
            padding: 5px 0;
            vertical-align: top;
        }
        .invoice-details .label {
            font-weight: bold;
            width: 150px;
        }
        .items-table {
            width: 100%;
            border-collapse: collapse;
            margin-bottom: 30px;
        }
        .items-table th,
        .items-table td {
            border: 1px solid #ddd;
            padding: 12px 8px;
            text-align: left;
        }
        .items-table th {
            background-color: #f8f9fa;
            font-weight: bold;
        }
        .items-table .qty-col,
        .items-table .price-col,
        .items-table .total-col {
            text-align: right;
            width: 80px;
        }
        .grand-total {
            text-align: right;
            font-size: 18px;
            font-weight: bold;
            margin-top: 10px;
        }
    </style>
</head>
<body>
    <div class="header">
        <div class="company-info">
            <h2>{{.Company.Name}}</h2>
            <p>{{.Company.Address}}</p>
            <p>{{.Company.Phone}} | {{.Company.Email}}</p>
            <p>{{.Company.Website}}</p>
        </div>
        <div class="invoice-info">
            <div class="invoice-title">INVOICE</div>
            <p>{{.InvoiceNumber}}</p>
            <p>{{.InvoiceDate}}</p>
        </div>
    </div>

    <div class="invoice-details">
        <table>
            <tr><td class="label">Order Number:</td><td>{{.Order.OrderNumber}}</td></tr>
            <tr><td class="label">Order Date:</td><td>{{.OrderDate}}</td></tr>
            <tr><td class="label">Status:</td><td>{{.Order.Status}}</td></tr>
            <tr><td class="label">Delivery Address:</td><td>{{.Order.Address}}</td></tr>
            <tr><td class="label">Phone:</td><td>{{.Order.Phone}}</td></tr>
        </table>
    </div>

    <table class="items-table">
        <thead>
            <tr>
                <th>Product</th>
                <th class="qty-col">Qty</th>
                <th class="price-col">Unit Price</th>
                <th class="total-col">Subtotal</th>
            </tr>
        </thead>
        <tbody>
            {{range .Order.Items}}
            <tr>
                <td>{{if .Product}}{{.Product.Name}}{{else}}#{{.ProductID}}{{end}}</td>
                <td class="qty-col">{{.Quantity}}</td>
                <td class="price-col">{{printf "%.2f" .UnitPrice}}</td>
                <td class="total-col">{{printf "%.2f" .Subtotal}}</td>
            </tr>
            {{end}}
        </tbody>
    </table>

    <div class="grand-total">Total: {{printf "%.2f" .Order.Total}}</div>
</body>
</html>
`
