package report

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"er-triage/internal/events"
	"er-triage/internal/platform/telegram"
	"er-triage/internal/queue"
	"er-triage/internal/triage"
)

type fakeTelegram struct {
	messages []string
	docs     map[string][]byte
	err      error
}

func (f *fakeTelegram) SendMessage(_ context.Context, _ int64, text string) error {
	f.messages = append(f.messages, text)
	return f.err
}

func (f *fakeTelegram) SendDocument(_ context.Context, _ int64, data []byte, name string) error {
	if f.docs == nil {
		f.docs = make(map[string][]byte)
	}
	f.docs[name] = data
	return f.err
}

type fakeLister struct {
	recs []queue.PatientRecord
}

func (f fakeLister) ListOrdered(context.Context) ([]queue.PatientRecord, error) {
	return f.recs, nil
}

func requireFont(t *testing.T) {
	t.Helper()
	for _, p := range defaultFontPaths {
		if _, err := os.Stat(p); err == nil {
			return
		}
	}
	t.Skip("DejaVuSans is not installed")
}

func sampleQueue() []queue.PatientRecord {
	age := 54
	created := time.Date(2024, 2, 1, 9, 15, 0, 0, time.UTC)
	recs := []queue.PatientRecord{
		{ID: "PAT-2", Name: "Ivan Petrov", Age: &age, Priority: triage.LevelCritical, Status: queue.StatusWaiting,
			EstimatedWaitTime: 5, CreatedAt: created, Symptoms: triage.NewSymptoms(10, 8, 9)},
		{ID: "PAT-1", Priority: triage.LevelLow, Status: queue.StatusCompleted, EstimatedWaitTime: 45, CreatedAt: created},
	}
	// enough rows to spill onto a second page
	for i := 3; i < 60; i++ {
		recs = append(recs, queue.PatientRecord{ID: "PAT-x", Priority: triage.LevelRoutine, Status: queue.StatusWaiting, CreatedAt: created})
	}
	return recs
}

func TestRenderQueue(t *testing.T) {
	requireFont(t)
	svc := NewService(&fakeTelegram{}, 1, "")

	data, err := svc.RenderQueue(sampleQueue())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	empty, err := svc.RenderQueue(nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(empty, []byte("%PDF")))
}

func TestRenderQueueWithoutFont(t *testing.T) {
	svc := NewService(&fakeTelegram{}, 1, "/nonexistent/font.ttf")
	_, err := svc.RenderQueue(sampleQueue())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load font")
}

func TestSendQueueHandler(t *testing.T) {
	requireFont(t)
	tg := &fakeTelegram{}
	svc := NewService(tg, 99, "")
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC) }

	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(svc, fakeLister{recs: sampleQueue()}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/queue/send", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, tg.docs, 1)
	for name := range tg.docs {
		assert.True(t, strings.HasPrefix(name, "queue_20240201_1000_"))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/reports/queue.pdf", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))

	tg.err = telegram.ErrNotConfigured
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/queue/send", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	tg.err = errors.New("chat not found")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/reports/queue/send", nil))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCriticalAlerter(t *testing.T) {
	tg := &fakeTelegram{}
	a := NewCriticalAlerter(tg, 5)
	ctx := context.Background()
	recs := sampleQueue()

	require.NoError(t, a.Publish(ctx, events.Event{Type: events.TypePatientAdmitted, Patient: recs[0]}))
	require.NoError(t, a.Publish(ctx, events.Event{Type: events.TypePatientAdmitted, Patient: recs[1]}))
	require.NoError(t, a.Publish(ctx, events.Event{Type: events.TypeStatusChanged, Patient: recs[0]}))

	require.Len(t, tg.messages, 1)
	msg := tg.messages[0]
	assert.Contains(t, msg, "Priority 1 (critical) patient admitted: PAT-2, Ivan Petrov, age 54")
	assert.Contains(t, msg, "- painLevel: 10")

	a.MinLevel = triage.LevelLow
	require.NoError(t, a.Publish(ctx, events.Event{Type: events.TypePatientAdmitted, Patient: recs[1]}))
	assert.Len(t, tg.messages, 2)
}
