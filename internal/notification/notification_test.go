package notification

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testSummary() *Summary {
	return &Summary{
		AuthorizationID:    uuid.Must(uuid.NewV7()),
		ConfirmationNumber: "CC-MABC123-XYZ98765",
		AuthorizationName:  "Jane <Doe>",
		CompanyName:        "Acme",
		Email:              "jane@example.com",
		Phone:              "555-0100",
		CityState:          "Austin, TX",
		AccountType:        "Visa",
		CardholderName:     "Jane Doe",
		AccountNumberLast4: "1111",
		SignatureType:      "typed",
		IPAddress:          "203.0.113.10",
		CreatedAt:          time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC),
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := renderHTML(testSummary())
	require.NoError(t, err)

	assert.Contains(t, html, "CC-MABC123-XYZ98765")
	assert.Contains(t, html, "Visa ending in 1111")
	assert.Contains(t, html, "Jane &lt;Doe&gt;")
	assert.NotContains(t, html, "4111111111111111")
	assert.NotContains(t, html, "data:image")
}

type staticCredentials struct {
	value string
	err   error
}

func (s staticCredentials) Get(context.Context, string) (string, error) {
	return s.value, s.err
}

func TestHTTPMailer_Send(t *testing.T) {
	var got sendRequest
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mailer := NewHTTPMailer(server.Client(), HTTPMailerConfig{
		APIURL:         server.URL,
		From:           "no-reply@example.com",
		To:             "ops@example.com",
		CredentialName: "mail_api_key",
	}, staticCredentials{value: "key-123"})

	require.NoError(t, mailer.Send(context.Background(), testSummary()))
	assert.Equal(t, "Bearer key-123", auth)
	assert.Equal(t, []string{"ops@example.com"}, got.To)
	assert.Contains(t, got.Subject, "CC-MABC123-XYZ98765")
	assert.Contains(t, got.HTML, "ending in 1111")
}

func TestHTTPMailer_Send_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := HTTPMailerConfig{APIURL: server.URL, To: "ops@example.com", CredentialName: "mail_api_key"}

	t.Run("MissingCredential", func(t *testing.T) {
		mailer := NewHTTPMailer(server.Client(), cfg, staticCredentials{err: errors.New("not found")})
		assert.ErrorIs(t, mailer.Send(context.Background(), testSummary()), ErrCredentialUnavailable)
	})

	t.Run("NotConfigured", func(t *testing.T) {
		mailer := NewHTTPMailer(server.Client(), HTTPMailerConfig{}, staticCredentials{value: "k"})
		assert.ErrorIs(t, mailer.Send(context.Background(), testSummary()), ErrCredentialUnavailable)
	})

	t.Run("ProviderError", func(t *testing.T) {
		mailer := NewHTTPMailer(server.Client(), cfg, staticCredentials{value: "k"})
		err := mailer.Send(context.Background(), testSummary())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "429")
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

type fakeMailer struct {
	err     error
	delay   time.Duration
	sent    atomic.Int32
	release chan struct{}
}

func (f *fakeMailer) Send(ctx context.Context, _ *Summary) error {
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return f.err
	}
	f.sent.Add(1)
	return nil
}

type fakeRecorder struct {
	mu  sync.Mutex
	ids []uuid.UUID
}

func (f *fakeRecorder) MarkEmailSent(_ context.Context, id uuid.UUID, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	return nil
}

func TestDispatcher_SendsAndRecords(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := &fakeMailer{delay: 10 * time.Millisecond}
	recorder := &fakeRecorder{}
	d := NewDispatcher(mailer, recorder, time.Second, 2, testLogger())

	summaries := []*Summary{testSummary(), testSummary(), testSummary()}
	for _, s := range summaries {
		d.Dispatch(s)
	}

	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(3), mailer.sent.Load())
	assert.Len(t, recorder.ids, 3)
}

func TestDispatcher_FailureIsNotRecorded(t *testing.T) {
	defer goleak.VerifyNone(t)

	recorder := &fakeRecorder{}
	d := NewDispatcher(&fakeMailer{err: errors.New("provider down")}, recorder, time.Second, 1, testLogger())

	d.Dispatch(testSummary())
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Empty(t, recorder.ids)
}

func TestDispatcher_DispatchDoesNotBlock(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := &fakeMailer{release: make(chan struct{})}
	d := NewDispatcher(mailer, &fakeRecorder{}, time.Second, 1, testLogger())

	start := time.Now()
	d.Dispatch(testSummary())
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	close(mailer.release)
	require.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_ShutdownDeadline(t *testing.T) {
	defer goleak.VerifyNone(t)

	mailer := &fakeMailer{release: make(chan struct{})}
	d := NewDispatcher(mailer, &fakeRecorder{}, time.Second, 1, testLogger())
	d.Dispatch(testSummary())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(ctx), context.DeadlineExceeded)

	// Dispatches after shutdown are dropped.
	d.Dispatch(testSummary())

	close(mailer.release)
	require.NoError(t, d.Shutdown(context.Background()))
	assert.Equal(t, int32(1), mailer.sent.Load())
}
