package service

import (
	"context"
	"sort"
	"time"

	"go-crypto-analyst/internal/analyst/dto"
	"go-crypto-analyst/internal/analyst/repository"
	"go-crypto-analyst/pkg/logger"
)

const defaultTopArticles = 5

// SentimentAggregator derives an overall sentiment snapshot for a symbol
// from news vote tallies and the market-wide fear & greed index.
type SentimentAggregator interface {
	GetSentiment(ctx context.Context, symbol string) (*dto.SentimentSnapshot, error)
}

type sentimentAggregator struct {
	newsRepo      repository.NewsRepository
	fearGreedRepo repository.FearGreedRepository
	log           *logger.Logger
	topArticles   int
}

// NewSentimentAggregator creates the sentiment aggregator. topArticles <= 0
// falls back to the default of 5.
func NewSentimentAggregator(newsRepo repository.NewsRepository, fearGreedRepo repository.FearGreedRepository, log *logger.Logger, topArticles int) SentimentAggregator {
	if topArticles <= 0 {
		topArticles = defaultTopArticles
	}
	return &sentimentAggregator{
		newsRepo:      newsRepo,
		fearGreedRepo: fearGreedRepo,
		log:           log,
		topArticles:   topArticles,
	}
}

// GetSentiment fetches the news and aggregates votes into a snapshot. The
// fear & greed supplement is best-effort and never fails the call.
func (s *sentimentAggregator) GetSentiment(ctx context.Context, symbol string) (*dto.SentimentSnapshot, error) {
	news, err := s.newsRepo.GetNewsBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	snapshot := aggregateSentiment(symbol, news.Results, s.topArticles, time.Now())

	if index, err := s.fearGreedRepo.GetIndex(ctx); err == nil {
		snapshot.FearGreedIndex = &index
	} else {
		s.log.WarnContext(ctx, "Fear & greed index unavailable",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err))
	}

	return snapshot, nil
}

// aggregateSentiment implements the vote algorithm: per-article sign from
// positive vs negative votes, overall label by majority with ties resolving
// to neutral, and ranking by the sum of all vote categories.
func aggregateSentiment(symbol string, posts []dto.NewsPost, topArticles int, now time.Time) *dto.SentimentSnapshot {
	snapshot := &dto.SentimentSnapshot{
		Symbol:        symbol,
		TotalArticles: len(posts),
		LatestUpdate:  now,
	}

	for _, post := range posts {
		switch {
		case post.Votes.Positive > post.Votes.Negative:
			snapshot.PositiveCount++
		case post.Votes.Positive < post.Votes.Negative:
			snapshot.NegativeCount++
		default:
			snapshot.NeutralCount++
		}
	}

	switch {
	case snapshot.PositiveCount > snapshot.NegativeCount:
		snapshot.Overall = dto.SentimentPositive
	case snapshot.NegativeCount > snapshot.PositiveCount:
		snapshot.Overall = dto.SentimentNegative
	default:
		snapshot.Overall = dto.SentimentNeutral
	}

	ranked := make([]dto.NewsPost, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes.Total() > ranked[j].Votes.Total()
	})
	if len(ranked) > topArticles {
		ranked = ranked[:topArticles]
	}

	for _, post := range ranked {
		snapshot.TopArticles = append(snapshot.TopArticles, dto.Article{
			Title:       post.Title,
			URL:         post.URL,
			Source:      post.Source.Title,
			PublishedAt: post.PublishedAt,
			Sentiment:   articleSentiment(post.Votes),
			TotalVotes:  post.Votes.Total(),
		})
	}

	return snapshot
}

func articleSentiment(votes dto.NewsVotes) dto.SentimentLabel {
	switch {
	case votes.Positive > votes.Negative:
		return dto.SentimentPositive
	case votes.Positive < votes.Negative:
		return dto.SentimentNegative
	default:
		return dto.SentimentNeutral
	}
}
