package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/FilletCorners/internal/document"
	"github.com/piwi3910/FilletCorners/internal/engine"
	"github.com/piwi3910/FilletCorners/internal/model"
)

const qrSize = 40.0 // QR code size in mm

// RunSummary is the data encoded into the report's QR code.
type RunSummary struct {
	RunID     string     `json:"run"`
	Document  string     `json:"document"`
	Radius    float64    `json:"radius"`
	Units     model.Unit `json:"units"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	Filleted  []uint32   `json:"filleted,omitempty"`
}

// NewRunSummary collects the QR payload for a run.
func NewRunSummary(doc *document.Document, tally engine.Tally) RunSummary {
	s := RunSummary{
		RunID:     tally.RunID.String(),
		Document:  doc.ID(),
		Radius:    tally.Radius,
		Units:     doc.Units(),
		Succeeded: tally.Succeeded,
		Failed:    tally.Failed,
	}
	for _, v := range tally.Filleted {
		s.Filleted = append(s.Filleted, uint32(v))
	}
	return s
}

// renderSummaryQR draws the run summary QR code at x, y.
func renderSummaryQR(pdf *fpdf.Fpdf, doc *document.Document, tally engine.Tally, x, y float64) error {
	data, err := json.Marshal(NewRunSummary(doc, tally))
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}

	qrPNG, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := "qr_run_" + tally.RunID.String()
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x, y, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, qrSize, qrSize, "D")
	return nil
}
