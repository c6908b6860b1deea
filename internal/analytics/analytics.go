// Package analytics computes dashboard aggregates from the full review set.
// All functions are pure: aggregates are recomputed from scratch on every
// call and nothing is cached between requests.
package analytics

import (
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/novametrics/reviewpulse/internal/domain"
)

// Tally counts reviews per sentiment label.
func Tally(reviews []domain.Review) map[string]int {
	counts := make(map[string]int)
	for _, r := range reviews {
		counts[r.Sentiment]++
	}
	return counts
}

// SentimentIndex computes the headline score in [-100, 100]:
// round(100 * (positive - negative) / max(positive, negative, 1)).
// Mixed and unknown labels do not move the index.
func SentimentIndex(reviews []domain.Review) int {
	var pos, neg int
	for _, r := range reviews {
		switch r.Sentiment {
		case domain.SentimentPositive:
			pos++
		case domain.SentimentNegative:
			neg++
		}
	}

	denom := pos
	if neg > denom {
		denom = neg
	}
	if denom < 1 {
		denom = 1
	}

	return int(math.Round(100 * float64(pos-neg) / float64(denom)))
}

// TrendPoint is the per-day sentiment volume for the trend chart.
type TrendPoint struct {
	Date     string `json:"date"`
	Positive int    `json:"positive"`
	Negative int    `json:"negative"`
	Mixed    int    `json:"mixed"`
}

// Trend buckets reviews from the last 30 days by calendar day, oldest first.
// Days with no reviews are omitted.
func Trend(reviews []domain.Review, now time.Time) []TrendPoint {
	cutoff := now.AddDate(0, 0, -30)

	byDay := make(map[string]*TrendPoint)
	for _, r := range reviews {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		day := r.CreatedAt.UTC().Format("2006-01-02")
		point, ok := byDay[day]
		if !ok {
			point = &TrendPoint{Date: day}
			byDay[day] = point
		}
		switch r.Sentiment {
		case domain.SentimentPositive:
			point.Positive++
		case domain.SentimentNegative:
			point.Negative++
		case domain.SentimentMixed:
			point.Mixed++
		}
	}

	points := make([]TrendPoint, 0, len(byDay))
	for _, p := range byDay {
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Date < points[j].Date
	})
	return points
}

// ChannelDistribution counts reviews per origin channel, broken down by
// sentiment label.
func ChannelDistribution(reviews []domain.Review) map[string]map[string]int {
	counts := make(map[string]map[string]int)
	for _, r := range reviews {
		if counts[r.Channel] == nil {
			counts[r.Channel] = make(map[string]int)
		}
		counts[r.Channel][r.Sentiment]++
	}
	return counts
}

// WordCount is one entry of a word-frequency ranking.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// WordFrequencies ranks the lowercase words of the given reviews by count,
// descending, ties broken alphabetically, truncated to limit entries.
func WordFrequencies(reviews []domain.Review, limit int) []WordCount {
	counts := make(map[string]int)
	for _, r := range reviews {
		words := strings.FieldsFunc(strings.ToLower(r.Text), func(c rune) bool {
			return !unicode.IsLetter(c) && !unicode.IsNumber(c)
		})
		for _, w := range words {
			counts[w]++
		}
	}

	ranked := make([]WordCount, 0, len(counts))
	for w, n := range counts {
		ranked = append(ranked, WordCount{Word: w, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Word < ranked[j].Word
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// Summary is the full dashboard aggregate for one point in time.
type Summary struct {
	TotalReviews    int                       `json:"total_reviews"`
	SentimentCounts map[string]int            `json:"sentiment_counts"`
	SentimentIndex  int                       `json:"sentiment_index"`
	ChannelCounts   map[string]map[string]int `json:"channel_counts"`
	Trend           []TrendPoint              `json:"trend"`
	TopWords        []WordCount               `json:"top_words"`
	RecentPositive  []domain.Review           `json:"recent_positive"`
	RecentNegative  []domain.Review           `json:"recent_negative"`
}

const (
	topWordsLimit    = 20
	recentReviewsCap = 5
)

// Overview composes every dashboard aggregate from the full review set.
func Overview(reviews []domain.Review, now time.Time) Summary {
	return Summary{
		TotalReviews:    len(reviews),
		SentimentCounts: Tally(reviews),
		SentimentIndex:  SentimentIndex(reviews),
		ChannelCounts:   ChannelDistribution(reviews),
		Trend:           Trend(reviews, now),
		TopWords:        WordFrequencies(reviews, topWordsLimit),
		RecentPositive:  recent(reviews, domain.SentimentPositive),
		RecentNegative:  recent(reviews, domain.SentimentNegative),
	}
}

// recent returns up to recentReviewsCap reviews of one sentiment, newest
// first.
func recent(reviews []domain.Review, sentiment string) []domain.Review {
	matched := make([]domain.Review, 0, len(reviews))
	for _, r := range reviews {
		if r.Sentiment == sentiment {
			matched = append(matched, r)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	if len(matched) > recentReviewsCap {
		matched = matched[:recentReviewsCap]
	}
	return matched
}
