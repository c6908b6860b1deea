package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/event"
	"github.com/novametrics/reviewpulse/internal/sender"
	apperrors "github.com/novametrics/reviewpulse/pkg/errors"
)

// --- Mock Generator ---

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// --- Mock Sender ---

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Name() string {
	return "mock"
}

func (m *mockSender) Send(ctx context.Context, msg sender.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestReportService(repo *mockReviewRepository, gen *mockGenerator, snd sender.Sender) *ReportService {
	logger := newTestLogger()
	events := event.NewProducer(nil, logger)
	return NewReportService(repo, gen, snd, events, "reports@example.com", logger)
}

func negativeReview(id string, createdAt time.Time) domain.Review {
	return domain.Review{
		ID:        id,
		Text:      "negative review " + id,
		Channel:   domain.ChannelWeb,
		Sentiment: domain.SentimentNegative,
		CreatedAt: createdAt,
	}
}

// --- Synthesize ---

func TestSynthesize_WithoutRecipient(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	snd := new(mockSender)
	svc := newTestReportService(repo, gen, snd)
	ctx := context.Background()

	now := time.Now().UTC()
	repo.On("ScanAll", ctx).Return([]domain.Review{
		negativeReview("n1", now),
		{ID: "p1", Text: "all good", Channel: domain.ChannelWeb, Sentiment: domain.SentimentPositive, CreatedAt: now},
	}, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("synthesized summary", nil)

	report, err := svc.Synthesize(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "synthesized summary", report.Text)
	assert.Equal(t, 1, report.ReviewCount)
	assert.False(t, report.Delivered)
	snd.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)

	// Only negative reviews are quoted.
	prompt := gen.Calls[0].Arguments.String(1)
	assert.Contains(t, prompt, "- negative review n1")
	assert.NotContains(t, prompt, "all good")
	assert.Contains(t, prompt, "propose 3 strategic actions")
}

func TestSynthesize_CapsQuotedReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	svc := newTestReportService(repo, gen, new(mockSender))
	ctx := context.Background()

	now := time.Now().UTC()
	reviews := make([]domain.Review, 0, 15)
	for i := 0; i < 15; i++ {
		reviews = append(reviews, negativeReview(string(rune('a'+i)), now.Add(-time.Duration(i)*time.Hour)))
	}
	repo.On("ScanAll", ctx).Return(reviews, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("summary", nil)

	report, err := svc.Synthesize(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 10, report.ReviewCount)

	prompt := gen.Calls[0].Arguments.String(1)
	assert.Equal(t, 10, strings.Count(prompt, "- negative review"))
	// Most recent reviews win the cap.
	assert.Contains(t, prompt, "- negative review a")
	assert.NotContains(t, prompt, "- negative review o")
}

func TestSynthesize_NoNegativeReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	svc := newTestReportService(repo, gen, new(mockSender))
	ctx := context.Background()

	repo.On("ScanAll", ctx).Return([]domain.Review{
		{ID: "p1", Sentiment: domain.SentimentPositive, CreatedAt: time.Now().UTC()},
	}, nil)

	_, err := svc.Synthesize(ctx, "")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoEligibleInput))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestSynthesize_GenerationFailureSkipsDelivery(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	snd := new(mockSender)
	svc := newTestReportService(repo, gen, snd)
	ctx := context.Background()

	repo.On("ScanAll", ctx).Return([]domain.Review{negativeReview("n1", time.Now().UTC())}, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("", errors.New("model unavailable"))

	_, err := svc.Synthesize(ctx, "analyst@example.com")

	require.Error(t, err)
	snd.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSynthesize_DeliverySuccess(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	snd := new(mockSender)
	svc := newTestReportService(repo, gen, snd)
	ctx := context.Background()

	repo.On("ScanAll", ctx).Return([]domain.Review{negativeReview("n1", time.Now().UTC())}, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("the report body", nil)

	var gotMsg sender.Message
	snd.On("Send", ctx, mock.AnythingOfType("sender.Message")).
		Run(func(args mock.Arguments) { gotMsg = args.Get(1).(sender.Message) }).
		Return(nil)

	report, err := svc.Synthesize(ctx, "analyst@example.com")
	require.NoError(t, err)

	assert.True(t, report.Delivered)
	assert.Equal(t, "reports@example.com", gotMsg.Source)
	assert.Equal(t, "analyst@example.com", gotMsg.Destination)
	assert.Equal(t, "Critical reviews report - ReviewPulse", gotMsg.Subject)
	assert.Contains(t, gotMsg.HTMLBody, "the report body")
}

func TestSynthesize_DeliveryFailureKeepsText(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	snd := new(mockSender)
	svc := newTestReportService(repo, gen, snd)
	ctx := context.Background()

	repo.On("ScanAll", ctx).Return([]domain.Review{negativeReview("n1", time.Now().UTC())}, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("the report body", nil)
	snd.On("Send", ctx, mock.AnythingOfType("sender.Message")).Return(errors.New("relay down"))

	report, err := svc.Synthesize(ctx, "analyst@example.com")

	require.Error(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "the report body", report.Text)
	assert.False(t, report.Delivered)
}

// --- Answer ---

func TestAnswer_Success(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	snd := new(mockSender)
	svc := newTestReportService(repo, gen, snd)
	ctx := context.Background()

	now := time.Now().UTC()
	repo.On("ScanAll", ctx).Return([]domain.Review{
		{ID: "w1", Text: "checkout is confusing", Channel: domain.ChannelWeb, Sentiment: domain.SentimentNegative, CreatedAt: now},
		{ID: "m1", Text: "app crashes", Channel: domain.ChannelMobile, Sentiment: domain.SentimentNegative, CreatedAt: now},
	}, nil)
	gen.On("Generate", ctx, mock.AnythingOfType("string")).Return("the checkout flow", nil)

	answer, err := svc.Answer(ctx, domain.ChannelWeb, "What do customers complain about?")
	require.NoError(t, err)
	assert.Equal(t, "the checkout flow", answer)

	prompt := gen.Calls[0].Arguments.String(1)
	assert.Contains(t, prompt, "REVIEWS:")
	assert.Contains(t, prompt, "QUESTION:")
	assert.Contains(t, prompt, "checkout is confusing")
	assert.NotContains(t, prompt, "app crashes")
	assert.Contains(t, prompt, "What do customers complain about?")

	snd.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	svc := newTestReportService(repo, gen, new(mockSender))

	_, err := svc.Answer(context.Background(), domain.ChannelWeb, "   ")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	repo.AssertNotCalled(t, "ScanAll", mock.Anything)
}

func TestAnswer_NoChannelReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	gen := new(mockGenerator)
	svc := newTestReportService(repo, gen, new(mockSender))
	ctx := context.Background()

	repo.On("ScanAll", ctx).Return([]domain.Review{
		{ID: "m1", Channel: domain.ChannelMobile, Sentiment: domain.SentimentNegative, CreatedAt: time.Now().UTC()},
	}, nil)

	_, err := svc.Answer(ctx, domain.ChannelSocial, "anything?")

	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoEligibleInput))
	gen.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
