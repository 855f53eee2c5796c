// Package quote 报价分享：消息文本、WhatsApp 链接、二维码与 PDF
package quote

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/langchou/fleetbook/internal/fare"
	"github.com/langchou/fleetbook/internal/money"
)

// Title 报价标题
const Title = "Hypro Cabs — Estimate"

// shareBase WhatsApp 分享地址
const shareBase = "https://wa.me/?text="

// qrSize 二维码边长（像素）
const qrSize = 256

// Share 一次报价的分享内容
type Share struct {
	Quote fare.Quote
	Route string // 路线备注，空则显示 Local
}

// Text 带 * 粗体标记的分享文本
func (s Share) Text() string {
	route := strings.TrimSpace(s.Route)
	if route == "" {
		route = "Local"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n", Title)
	fmt.Fprintf(&b, "Trip Type: %s\n", strings.ToUpper(string(s.Quote.Type)))
	fmt.Fprintf(&b, "Route: %s\n", route)
	fmt.Fprintf(&b, "Distance: %s km\n", money.Format(s.Quote.Km))
	b.WriteString("\n*Breakdown:*\n")
	for _, li := range s.Quote.Items {
		fmt.Fprintf(&b, " - %s\n", li.Text(s.Quote.Currency))
	}
	fmt.Fprintf(&b, "\n*Total: %s%s*", s.Quote.Currency, money.Grouped(s.Quote.Total))
	return b.String()
}

// PlainText 去掉粗体标记，用于复制
func (s Share) PlainText() string {
	return strings.ReplaceAll(s.Text(), "*", "")
}

// Link WhatsApp 分享链接
func (s Share) Link() string {
	return shareBase + strings.ReplaceAll(url.QueryEscape(s.Text()), "+", "%20")
}

// QR 分享链接的二维码 PNG
func (s Share) QR() ([]byte, error) {
	png, err := qrcode.Encode(s.Link(), qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	return png, nil
}

// PDF 报价单。内置字体只支持 cp1252，货币符号替换为文字。
func (s Share) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Estimate", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	clean := func(v string) string {
		return tr(strings.ReplaceAll(v, "₹", "Rs. "))
	}

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, clean(Title))
	pdf.Ln(12)

	route := strings.TrimSpace(s.Route)
	if route == "" {
		route = "Local"
	}
	pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		"Trip Type: " + strings.ToUpper(string(s.Quote.Type)),
		"Route: " + route,
		"Distance: " + money.Format(s.Quote.Km) + " km",
	} {
		pdf.Cell(0, 7, clean(line))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Breakdown")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, li := range s.Quote.Items {
		pdf.CellFormat(130, 7, clean(li.Label), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, clean(li.Amount(s.Quote.Currency)), "", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(130, 9, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, clean(s.Quote.Currency+money.Grouped(s.Quote.Total)), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
