package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novametrics/reviewpulse/internal/dataset"
	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/event"
	"github.com/novametrics/reviewpulse/internal/metrics"
	"github.com/novametrics/reviewpulse/internal/simulator"
)

func newTestSimulationHandler(repo *mockReviewRepo, clf *mockClassifier) *SimulationHandler {
	logger := testLogger()
	m := metrics.New(prometheus.NewRegistry())
	source := dataset.FromRows([]domain.RawReview{{Text: "sampled text", Rating: 2}})

	sim := simulator.New(clf, source, repo, m, event.NewProducer(nil, logger), logger)
	runner := simulator.NewRunner(sim, logger, nil)

	defaults := simulator.Config{Interval: 5 * time.Millisecond, MaxDuration: 30 * time.Millisecond}
	return NewSimulationHandler(runner, newTestReviewService(repo, clf), defaults, logger)
}

func TestSimulationHandler_StartAndStatus(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	clf.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(domain.SentimentPositive, nil)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)

	rec := doJSON(t, h.Start, http.MethodPost, "/api/v1/simulations", nil)
	require.Equal(t, http.StatusAccepted, rec.Code)

	// The run outlives the start request and eventually completes.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		rec = doJSON(t, h.Status, http.MethodGet, "/api/v1/simulations/current", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		if !strings.Contains(rec.Body.String(), `"state":"running"`) {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Contains(t, rec.Body.String(), `"state":"completed"`)

	// Every send of the run landed in the store.
	repo.AssertCalled(t, "Append", mock.Anything, mock.AnythingOfType("*domain.Review"))
}

func TestSimulationHandler_DoubleStartConflicts(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	clf.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(domain.SentimentPositive, nil)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)

	rec := doJSON(t, h.Start, http.MethodPost, "/api/v1/simulations", map[string]int{
		"interval_seconds":     1,
		"max_duration_seconds": 60,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, h.Start, http.MethodPost, "/api/v1/simulations", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, h.Stop, http.MethodDelete, "/api/v1/simulations/current", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestSimulationHandler_StartValidation(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	rec := doJSON(t, h.Start, http.MethodPost, "/api/v1/simulations", map[string]int{
		"interval_seconds": 9999,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSimulationHandler_StopWithoutRun(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	rec := doJSON(t, h.Stop, http.MethodDelete, "/api/v1/simulations/current", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSimulationHandler_Batch(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	clf.On("Classify", mock.Anything, mock.Anything, mock.Anything).Return(domain.SentimentNegative, nil)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*domain.Review")).Return(nil)

	rec := doJSON(t, h.Batch, http.MethodPost, "/api/v1/simulations/batch", map[string]int{"count": 3})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"sent":3`)
	clf.AssertNumberOfCalls(t, "Classify", 3)
}

func TestSimulationHandler_Batch_CountValidation(t *testing.T) {
	repo := new(mockReviewRepo)
	clf := new(mockClassifier)
	h := newTestSimulationHandler(repo, clf)

	rec := doJSON(t, h.Batch, http.MethodPost, "/api/v1/simulations/batch", map[string]int{"count": 50})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	clf.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything, mock.Anything)
}
