package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tesso57/newsreel/internal/domain/news"
	"golang.org/x/time/rate"
)

type mockArticleExtractor struct {
	mock.Mock
}

func (m *mockArticleExtractor) Extract(ctx context.Context, url string) (news.ExtractedArticle, error) {
	args := m.Called(ctx, url)
	article, _ := args.Get(0).(news.ExtractedArticle)
	return article, args.Error(1)
}

func TestExtractAll_SkipsFailures(t *testing.T) {
	ex := &mockArticleExtractor{}
	ex.On("Extract", mock.Anything, "https://a").Return(news.ExtractedArticle{URL: "https://a", Title: "A"}, nil).Once()
	ex.On("Extract", mock.Anything, "https://b").Return(nil, errors.New("404")).Once()
	ex.On("Extract", mock.Anything, "https://c").Return(news.ExtractedArticle{URL: "https://c", Title: "C"}, nil).Once()

	got, err := ExtractAll(context.Background(), ex, []string{"https://a", "https://b", "https://c"}, nil, nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, "C", got[1].Title)
	ex.AssertExpectations(t)
}

func TestExtractAll_PacesRequests(t *testing.T) {
	ex := &mockArticleExtractor{}
	ex.On("Extract", mock.Anything, mock.Anything).Return(news.ExtractedArticle{}, nil)

	pacer := rate.NewLimiter(rate.Every(30*time.Millisecond), 1)
	start := time.Now()
	_, err := ExtractAll(context.Background(), ex, []string{"1", "2", "3"}, pacer, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestExtractAll_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ex := &mockArticleExtractor{}

	_, err := ExtractAll(ctx, ex, []string{"https://a"}, nil, nil)
	assert.ErrorIs(t, err, context.Canceled)
	ex.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestUniqueURLs(t *testing.T) {
	items := []news.ResolvedItem{
		{URL: "https://a"}, {URL: ""}, {URL: "https://a"}, {URL: " https://b "}, {URL: "https://c"},
	}
	assert.Equal(t, []string{"https://a", "https://b", "https://c"}, UniqueURLs(items, 0))
	assert.Equal(t, []string{"https://a", "https://b"}, UniqueURLs(items, 2))
}
