package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/mikey/netsereno/internal/core"
	"go.uber.org/zap"
)

// labels holds the fixed report texts for one language. Entries with verbs
// are format strings.
type labels struct {
	Title      string // brand
	Tagline    string
	Verdict    string // verdict, score
	Summary    string
	Reasons    string
	NoReasons  string
	Disclaimer string // brand
	Page       string // page number; "{nb}" is the page count alias
}

var reportLabels = map[string]labels{
	"es": {
		Title:      "%s - Informe de Ciberseguridad",
		Tagline:    "Iluminando tus emails sospechosos",
		Verdict:    "Veredicto: %s (Probabilidad: %d%%)",
		Summary:    "Resumen:",
		Reasons:    "Factores de Riesgo Detectados:",
		NoReasons:  "Ninguno",
		Disclaimer: "Aviso Legal: Este informe es generado por IA y análisis estático. No garantiza el 100%% de precisión. %s no almacena sus correos.",
		Page:       "Página %d/{nb}",
	},
	"en": {
		Title:      "%s - Cybersecurity Report",
		Tagline:    "Shedding light on your suspicious emails",
		Verdict:    "Verdict: %s (Score: %d%%)",
		Summary:    "Summary:",
		Reasons:    "Risk factors detected:",
		NoReasons:  "None",
		Disclaimer: "Disclaimer: This report is generated by AI and static analysis. Accuracy is not guaranteed. %s does not store your emails.",
		Page:       "Page %d/{nb}",
	},
}

type rgb struct{ r, g, b int }

var (
	brandColor = rgb{0, 51, 102}
	mutedColor = rgb{100, 100, 100}
	textColor  = rgb{0, 0, 0}
	trackColor = rgb{225, 225, 225}
)

// levelColors maps a verdict level to the colour of its score bar
var levelColors = map[core.Verdict]rgb{
	core.VerdictSafe:       {46, 160, 67},
	core.VerdictSuspicious: {230, 145, 30},
	core.VerdictDangerous:  {200, 35, 45},
	core.VerdictError:      {120, 120, 120},
}

const (
	fontFamily = "Arial"
	lineHeight = 7.0
	barHeight  = 6.0
)

// Renderer draws AssessmentRecords as single-document PDF reports
type Renderer struct {
	brand  string
	labels labels
	logger *zap.Logger
}

// NewRenderer creates a renderer for the given brand and language
func NewRenderer(brand, language string, logger *zap.Logger) (*Renderer, error) {
	l, ok := reportLabels[strings.ToLower(strings.TrimSpace(language))]
	if !ok {
		return nil, fmt.Errorf("unsupported report language: %q", language)
	}
	if strings.TrimSpace(brand) == "" {
		return nil, fmt.Errorf("report brand must not be empty")
	}
	return &Renderer{
		brand:  brand,
		labels: l,
		logger: logger,
	}, nil
}

// FileName is the suggested download name for reports
func (r *Renderer) FileName() string {
	return strings.ReplaceAll(r.brand, " ", "_") + "_Report.pdf"
}

// Render writes the PDF report for the record to w
func (r *Renderer) Render(w io.Writer, record core.AssessmentRecord) error {
	pdf := r.build(record)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render PDF report: %w", err)
	}

	r.logger.Debug("Rendered report",
		zap.String("verdict", string(record.Verdict)),
		zap.Int("score", record.Score),
		zap.Int("reasons", len(record.Reasons)),
		zap.Int("pages", pdf.PageNo()))

	return nil
}

// build lays out the document. Errors are latched in the returned Fpdf.
func (r *Renderer) build(record core.AssessmentRecord) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(fmt.Sprintf(r.labels.Title, r.brand)), false)
	pdf.SetCreator(r.brand, false)
	pdf.AliasNbPages("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(fontFamily, "I", 8)
		setTextColor(pdf, mutedColor)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf(r.labels.Page, pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// Header
	pdf.SetFont(fontFamily, "B", 16)
	setTextColor(pdf, brandColor)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf(r.labels.Title, r.brand)), "", 1, "C", false, 0, "")
	pdf.SetFont(fontFamily, "I", 10)
	setTextColor(pdf, mutedColor)
	pdf.CellFormat(0, 10, tr(r.labels.Tagline), "", 1, "C", false, 0, "")
	pdf.Ln(10)

	// Verdict and score
	pdf.SetFont(fontFamily, "B", 14)
	setTextColor(pdf, textColor)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf(r.labels.Verdict, record.Verdict, record.Score)), "", 1, "L", false, 0, "")
	r.scoreBar(pdf, record)
	pdf.Ln(4)

	// Summary
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight, tr(r.labels.Summary), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 12)
	pdf.MultiCell(0, lineHeight, tr(record.Summary), "", "L", false)
	pdf.Ln(5)

	// Risk factors
	pdf.SetFont(fontFamily, "B", 12)
	pdf.CellFormat(0, lineHeight, tr(r.labels.Reasons), "", 1, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 11)
	if len(record.Reasons) == 0 {
		pdf.MultiCell(0, lineHeight, tr(r.labels.NoReasons), "", "L", false)
	}
	for _, reason := range record.Reasons {
		pdf.MultiCell(0, lineHeight, tr("- "+reason), "", "L", false)
	}

	// Disclaimer
	pdf.Ln(10)
	pdf.SetFont(fontFamily, "I", 8)
	setTextColor(pdf, mutedColor)
	pdf.MultiCell(0, 5, tr(fmt.Sprintf(r.labels.Disclaimer, r.brand)), "", "L", false)

	return pdf
}

// scoreBar draws a horizontal gauge filled to the score
func (r *Renderer) scoreBar(pdf *gofpdf.Fpdf, record core.AssessmentRecord) {
	left, _, right, _ := pdf.GetMargins()
	pageWidth, _ := pdf.GetPageSize()
	width := pageWidth - left - right
	x, y := pdf.GetX(), pdf.GetY()

	setFillColor(pdf, trackColor)
	pdf.Rect(x, y, width, barHeight, "F")

	if record.Score > 0 {
		color, ok := levelColors[record.Verdict.Level()]
		if !ok {
			color = mutedColor
		}
		setFillColor(pdf, color)
		pdf.Rect(x, y, width*float64(record.Score)/100, barHeight, "F")
	}

	pdf.SetY(y + barHeight)
}

func setTextColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetTextColor(c.r, c.g, c.b)
}

func setFillColor(pdf *gofpdf.Fpdf, c rgb) {
	pdf.SetFillColor(c.r, c.g, c.b)
}
