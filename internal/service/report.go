package service

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"sort"
	"strings"

	"github.com/novametrics/reviewpulse/internal/domain"
	"github.com/novametrics/reviewpulse/internal/event"
	"github.com/novametrics/reviewpulse/internal/repository"
	"github.com/novametrics/reviewpulse/internal/sender"
	apperrors "github.com/novametrics/reviewpulse/pkg/errors"
)

// maxPromptReviews caps how many reviews are quoted in a prompt.
const maxPromptReviews = 10

const reportSubject = "Critical reviews report - ReviewPulse"

const reportPromptFormat = `You are an expert in customer experience.
Below are real negative customer reviews:

%s

Summarize the key problems and propose 3 strategic actions to improve customer satisfaction.`

const assistantPromptFormat = `You are an expert in customer experience.
Answer the question using only the reviews below.

REVIEWS:
%s

QUESTION:
%s`

var emailTemplate = template.Must(template.New("report").Parse(`<html>
<body>
<h2>Critical reviews report</h2>
<p>Synthesized from the {{.ReviewCount}} most recent negative reviews.</p>
<blockquote style="white-space: pre-wrap;">{{.Body}}</blockquote>
</body>
</html>`))

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Report is a synthesized report and its delivery outcome.
type Report struct {
	Text        string `json:"text"`
	ReviewCount int    `json:"review_count"`
	Delivered   bool   `json:"delivered"`
}

// ReportService synthesizes reports and assistant answers from stored
// reviews.
type ReportService struct {
	repo      repository.ReviewRepository
	generator Generator
	sender    sender.Sender
	events    *event.Producer
	from      string
	logger    *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(
	repo repository.ReviewRepository,
	generator Generator,
	snd sender.Sender,
	events *event.Producer,
	from string,
	logger *slog.Logger,
) *ReportService {
	return &ReportService{
		repo:      repo,
		generator: generator,
		sender:    snd,
		events:    events,
		from:      from,
		logger:    logger,
	}
}

// Synthesize builds a report from the most recent negative reviews and, when
// a recipient is given, delivers it by mail. Generation failure aborts the
// operation before any delivery attempt. Delivery failure does not discard
// the report: the text is returned together with the delivery error.
func (s *ReportService) Synthesize(ctx context.Context, recipient string) (*Report, error) {
	reviews, err := s.repo.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reviews for report: %w", err)
	}

	negatives := filterSentiment(reviews, domain.SentimentNegative)
	if len(negatives) == 0 {
		return nil, apperrors.NoEligibleInput("NO_NEGATIVE_REVIEWS", "no negative reviews to report on")
	}

	quoted := newestFirst(negatives, maxPromptReviews)
	prompt := fmt.Sprintf(reportPromptFormat, renderBullets(quoted))

	text, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("synthesize report: %w", err)
	}

	report := &Report{Text: text, ReviewCount: len(quoted)}

	if recipient == "" {
		s.events.ReportGenerated(ctx, event.ReportGeneratedData{
			Kind:        "report",
			ReviewCount: len(quoted),
			Delivered:   false,
		})
		return report, nil
	}

	if err := s.deliver(ctx, recipient, report); err != nil {
		s.events.ReportGenerated(ctx, event.ReportGeneratedData{
			Kind:        "report",
			ReviewCount: len(quoted),
			Delivered:   false,
			Recipient:   recipient,
		})
		return report, fmt.Errorf("deliver report: %w", err)
	}
	report.Delivered = true

	s.events.ReportGenerated(ctx, event.ReportGeneratedData{
		Kind:        "report",
		ReviewCount: len(quoted),
		Delivered:   true,
		Recipient:   recipient,
	})

	return report, nil
}

// Answer responds to an analyst question grounded in the stored reviews of
// one channel. No delivery is involved.
func (s *ReportService) Answer(ctx context.Context, channel, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", apperrors.InvalidInput("question must not be empty")
	}
	if !domain.IsValidChannel(channel) {
		return "", apperrors.InvalidInput(fmt.Sprintf("unknown channel %q", channel))
	}

	reviews, err := s.repo.ScanAll(ctx)
	if err != nil {
		return "", fmt.Errorf("load reviews for question: %w", err)
	}

	matched := filterChannel(reviews, channel)
	if len(matched) == 0 {
		return "", apperrors.NoEligibleInput("NO_CHANNEL_REVIEWS", fmt.Sprintf("no reviews for channel %q", channel))
	}

	quoted := newestFirst(matched, maxPromptReviews)
	prompt := fmt.Sprintf(assistantPromptFormat, renderBullets(quoted), question)

	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("answer question: %w", err)
	}

	s.events.ReportGenerated(ctx, event.ReportGeneratedData{
		Kind:        "assistant",
		ReviewCount: len(quoted),
	})

	return answer, nil
}

func (s *ReportService) deliver(ctx context.Context, recipient string, report *Report) error {
	var body strings.Builder
	if err := emailTemplate.Execute(&body, map[string]any{
		"ReviewCount": report.ReviewCount,
		"Body":        report.Text,
	}); err != nil {
		return fmt.Errorf("render report email: %w", err)
	}

	s.logger.InfoContext(ctx, "delivering report",
		slog.String("sender", s.sender.Name()),
		slog.String("recipient", recipient),
	)

	return s.sender.Send(ctx, sender.Message{
		Source:      s.from,
		Destination: recipient,
		Subject:     reportSubject,
		HTMLBody:    body.String(),
	})
}

func filterSentiment(reviews []domain.Review, sentiment string) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Sentiment == sentiment {
			out = append(out, r)
		}
	}
	return out
}

func filterChannel(reviews []domain.Review, channel string) []domain.Review {
	out := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Channel == channel {
			out = append(out, r)
		}
	}
	return out
}

// newestFirst sorts reviews by creation time descending and truncates to
// limit.
func newestFirst(reviews []domain.Review, limit int) []domain.Review {
	sorted := make([]domain.Review, len(reviews))
	copy(sorted, reviews)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// renderBullets quotes reviews as a bullet list, one line per review.
func renderBullets(reviews []domain.Review) string {
	lines := make([]string, 0, len(reviews))
	for _, r := range reviews {
		lines = append(lines, "- "+r.Text)
	}
	return strings.Join(lines, "\n")
}
