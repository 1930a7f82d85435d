package admin

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/jung-kurt/gofpdf"

	"nanokiosk/infrastructure/nanostore"
)

func renderHistoryPDF(transactions []nanostore.Transaction, printedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Scan History", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Scan History", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Printed: "+printedAt.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(transactions) == 0 {
		pdf.SetFont("Helvetica", "I", 12)
		pdf.CellFormat(0, 10, "No transactions recorded", "", 1, "C", false, 0, "")
	}

	opt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	for i, tx := range transactions {
		if pdf.GetY() > 250 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, fmt.Sprintf("%s  x%s  (%s)", tx.ItemID, tx.Quantity.String(), tx.TransactionType), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, "Order "+tx.OrderID.String()+"  "+tx.TransactionDate, "", 1, "L", false, 0, "")

		barcodeValue := tx.ItemID
		if barcodeValue == "" {
			barcodeValue = tx.ID.String()
		}
		barcodePNG, err := renderCode128PNG(barcodeValue, 600, 120)
		if err != nil {
			return nil, err
		}
		imageName := fmt.Sprintf("history-barcode-%d", i)
		pdf.RegisterImageOptionsReader(imageName, opt, bytes.NewReader(barcodePNG))
		y := pdf.GetY()
		pdf.ImageOptions(imageName, 10, y, 80, 14, false, opt, 0, "")
		pdf.SetY(y + 18)
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	normalized := toNRGBA(scaled)
	var barcodePNG bytes.Buffer
	if err := png.Encode(&barcodePNG, normalized); err != nil {
		return nil, err
	}
	return barcodePNG.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}
