package report

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/signintech/gopdf"

	"er-triage/internal/analytics"
	"er-triage/internal/queue"
)

type TelegramClient interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
	SendDocument(ctx context.Context, chatID int64, fileData []byte, fileName string) error
}

// DejaVuSans covers Latin and Cyrillic names. Common locations on Alpine and Debian.
var defaultFontPaths = []string{
	"/usr/share/fonts/ttf-dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
}

const (
	pageBottom = 800.0
	rowHeight  = 16.0
	marginLeft = 30.0
)

type column struct {
	title string
	x     float64
}

var queueColumns = []column{
	{"#", marginLeft},
	{"ID", 55},
	{"Name", 110},
	{"Age", 250},
	{"Priority", 285},
	{"Status", 345},
	{"Wait, min", 430},
	{"Admitted", 495},
}

type Service struct {
	tgClient     TelegramClient
	doctorChatID int64
	fontPaths    []string
	now          func() time.Time
}

// NewService renders reports with the font at fontPath, or with the first
// DejaVuSans found when fontPath is empty.
func NewService(tg TelegramClient, doctorChatID int64, fontPath string) *Service {
	paths := defaultFontPaths
	if fontPath != "" {
		paths = []string{fontPath}
	}
	return &Service{
		tgClient:     tg,
		doctorChatID: doctorChatID,
		fontPaths:    paths,
		now:          time.Now,
	}
}

func (s *Service) loadFont(pdf *gopdf.GoPdf) error {
	var fontErr error
	for _, path := range s.fontPaths {
		if err := pdf.AddTTFFont("DejaVu", path); err == nil {
			return nil
		} else {
			fontErr = err
		}
	}
	return fmt.Errorf("failed to load font for PDF. Please ensure ttf-dejavu is installed. Last error: %w", fontErr)
}

// RenderQueue draws records, in the order given, as a one-table PDF with a
// summary header.
func (s *Service) RenderQueue(records []queue.PatientRecord) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	pdf.AddPage()

	if err := s.loadFont(&pdf); err != nil {
		return nil, err
	}

	if err := pdf.SetFont("DejaVu", "", 18); err != nil {
		return nil, err
	}
	pdf.SetXY(marginLeft, 30)
	pdf.Cell(nil, "Emergency department queue")
	pdf.Br(26)

	summary := analytics.Summarize(records)
	if err := pdf.SetFont("DejaVu", "", 11); err != nil {
		return nil, err
	}
	for _, line := range []string{
		fmt.Sprintf("Generated: %s", s.now().Format("02.01.2006 15:04")),
		fmt.Sprintf("Patients: %d (waiting %d, in progress %d, completed %d)",
			summary.TotalPatients, summary.WaitingPatients, summary.InProgressPatients, summary.CompletedPatients),
		fmt.Sprintf("Critical band (priority 1-2): %d    Average estimated wait: %d min",
			summary.CriticalPatients, summary.AvgWaitTime),
	} {
		pdf.SetX(marginLeft)
		pdf.Cell(nil, line)
		pdf.Br(15)
	}
	pdf.Br(10)

	if err := pdf.SetFont("DejaVu", "", 10); err != nil {
		return nil, err
	}
	drawHeader(&pdf)

	if len(records) == 0 {
		pdf.SetX(marginLeft)
		pdf.Cell(nil, "The queue is empty.")
		pdf.Br(rowHeight)
	}
	for i, r := range records {
		if pdf.GetY()+rowHeight > pageBottom {
			pdf.AddPage()
			pdf.SetY(30)
			drawHeader(&pdf)
		}
		age := "-"
		if r.Age != nil {
			age = strconv.Itoa(*r.Age)
		}
		name := r.Name
		if name == "" {
			name = "-"
		}
		cells := []string{
			strconv.Itoa(i + 1),
			r.ID,
			truncate(&pdf, name, queueColumns[3].x-queueColumns[2].x-6),
			age,
			fmt.Sprintf("%d %s", int(r.Priority), r.Priority),
			string(r.Status),
			strconv.Itoa(r.EstimatedWaitTime),
			r.CreatedAt.Format("02.01 15:04"),
		}
		y := pdf.GetY()
		for j, text := range cells {
			pdf.SetXY(queueColumns[j].x, y)
			pdf.Cell(nil, text)
		}
		pdf.SetY(y)
		pdf.Br(rowHeight)
	}

	var buf bytes.Buffer
	if _, err := pdf.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func drawHeader(pdf *gopdf.GoPdf) {
	y := pdf.GetY()
	for _, c := range queueColumns {
		pdf.SetXY(c.x, y)
		pdf.Cell(nil, c.title)
	}
	pdf.Line(marginLeft, y+rowHeight-3, 565, y+rowHeight-3)
	pdf.SetY(y)
	pdf.Br(rowHeight)
}

func truncate(pdf *gopdf.GoPdf, s string, width float64) string {
	lines, err := pdf.SplitText(s, width)
	if err != nil || len(lines) <= 1 {
		return s
	}
	return lines[0] + "…"
}

// FileName is a unique name for a queue report created now.
func (s *Service) FileName() string {
	return fmt.Sprintf("queue_%s_%s.pdf", s.now().Format("20060102_1504"), uuid.NewString()[:8])
}

// SendQueueReport renders records and sends the PDF to the doctor chat.
func (s *Service) SendQueueReport(ctx context.Context, records []queue.PatientRecord) error {
	data, err := s.RenderQueue(records)
	if err != nil {
		return err
	}

	log.Printf("Sending queue report to Telegram chat %d...", s.doctorChatID)
	if err := s.tgClient.SendDocument(ctx, s.doctorChatID, data, s.FileName()); err != nil {
		return err
	}
	log.Println("Queue report sent successfully.")
	return nil
}
