package dto

import "time"

// SentimentLabel is a coarse sentiment classification.
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

// NewsVotes are the community vote tallies on one news post. Only positive
// and negative drive the sentiment sign; the rest contribute to ranking.
type NewsVotes struct {
	Negative  int `json:"negative"`
	Positive  int `json:"positive"`
	Important int `json:"important"`
	Liked     int `json:"liked"`
	Disliked  int `json:"disliked"`
	Lol       int `json:"lol"`
	Toxic     int `json:"toxic"`
	Saved     int `json:"saved"`
	Comments  int `json:"comments"`
}

// Total sums every vote category.
func (v NewsVotes) Total() int {
	return v.Negative + v.Positive + v.Important + v.Liked +
		v.Disliked + v.Lol + v.Toxic + v.Saved + v.Comments
}

// NewsSource identifies the publisher of a news post.
type NewsSource struct {
	Title  string `json:"title"`
	Region string `json:"region"`
	Domain string `json:"domain"`
}

// NewsPost is one article as returned by the news API.
type NewsPost struct {
	Kind        string     `json:"kind"`
	Domain      string     `json:"domain"`
	Title       string     `json:"title"`
	PublishedAt time.Time  `json:"published_at"`
	Slug        string     `json:"slug"`
	ID          int64      `json:"id"`
	URL         string     `json:"url"`
	Votes       NewsVotes  `json:"votes"`
	Source      NewsSource `json:"source"`
}

// NewsResponse is the paginated news API envelope.
type NewsResponse struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []NewsPost `json:"results"`
}

// Article is a ranked article with its derived sentiment label.
type Article struct {
	Title       string         `json:"title"`
	URL         string         `json:"url"`
	Source      string         `json:"source"`
	PublishedAt time.Time      `json:"published_at"`
	Sentiment   SentimentLabel `json:"sentiment"`
	TotalVotes  int            `json:"total_votes"`
}

// SentimentSnapshot is the aggregated sentiment view for one symbol.
type SentimentSnapshot struct {
	Symbol         string         `json:"symbol"`
	Overall        SentimentLabel `json:"overall"`
	PositiveCount  int            `json:"positive_count"`
	NegativeCount  int            `json:"negative_count"`
	NeutralCount   int            `json:"neutral_count"`
	TotalArticles  int            `json:"total_articles"`
	TopArticles    []Article      `json:"top_articles,omitempty"`
	Social         SentimentLabel `json:"social,omitempty"`
	FearGreedIndex *int           `json:"fear_greed_index,omitempty"`
	LatestUpdate   time.Time      `json:"latest_update"`
}
