package domain

import (
	"time"
)

// Sentiment label constants, as produced by the classification service.
const (
	SentimentPositive = "POSITIVE"
	SentimentNegative = "NEGATIVE"
	SentimentMixed    = "MIXED"
	SentimentUnknown  = "unknown"

	// SentimentNA is the caller-visible result when the classification
	// service returned no label at all. Not a stored sentiment.
	SentimentNA = "N/A"
)

// Channel constants: the categorical origin of a review.
const (
	ChannelWeb        = "web"
	ChannelMobile     = "mobile"
	ChannelCallCenter = "call_center"
	ChannelSocial     = "social"
)

// Review is a classified customer review as persisted in the review store.
// Records are append-only and immutable once written.
type Review struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Channel   string    `json:"channel"`
	Sentiment string    `json:"sentiment"`
	CreatedAt time.Time `json:"created_at"`
}

// RawReview is one row of the static review dataset used as a sampling
// source by the traffic generator and the batch submission path.
type RawReview struct {
	Text   string `json:"text"`
	Rating int    `json:"rating"`
}

// Channels returns the set of valid review channels.
func Channels() []string {
	return []string{ChannelWeb, ChannelMobile, ChannelCallCenter, ChannelSocial}
}

// IsValidChannel checks whether the given string is a valid channel.
func IsValidChannel(channel string) bool {
	for _, c := range Channels() {
		if c == channel {
			return true
		}
	}
	return false
}

// Sentiments returns the set of sentiment labels the store may contain.
func Sentiments() []string {
	return []string{SentimentPositive, SentimentNegative, SentimentMixed, SentimentUnknown}
}
