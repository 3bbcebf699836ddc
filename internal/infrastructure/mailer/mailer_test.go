package mailer

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tesso57/newsreel/internal/domain/news"
	"github.com/wneessen/go-mail"
)

func testDigest() news.Digest {
	return news.Digest{
		RunID:       "run-1",
		GeneratedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Model:       "sonar",
		Posts: []news.Post{
			{Title: "Kohli dropped", POV: "Youth first", Hashtags: []string{"#Cricket"}, ArticleURL: "https://news/kohli"},
		},
		Cards: []news.Card{{FileName: "kohli-dropped.html", HTML: `<h1 class="h-xl">Kohli dropped</h1>`}},
	}
}

func TestMailer_Send(t *testing.T) {
	m := New(Config{
		Host:     "smtp.example.com",
		Username: "bot@example.com",
		To:       []string{"a@example.com, b@example.com", " "},
		Subject:  "Daily cards",
	}, nil)

	var sent *mail.Msg
	m.send = func(_ context.Context, msg *mail.Msg) error {
		sent = msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), testDigest()))
	require.NotNil(t, sent)

	rcpts, err := sent.GetRecipients()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a@example.com", "b@example.com"}, rcpts)
	assert.Equal(t, []string{"Daily cards - 01 Jun 2024"}, sent.GetGenHeader(mail.HeaderSubject))

	from, err := sent.GetSender(false)
	require.NoError(t, err)
	assert.Equal(t, "bot@example.com", from)

	var raw bytes.Buffer
	_, err = sent.WriteTo(&raw)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "text/plain")
	assert.Contains(t, raw.String(), "text/html")
	assert.Contains(t, raw.String(), "1. Kohli dropped")

	files := sent.GetAttachments()
	require.Len(t, files, 1)
	assert.Equal(t, "kohli-dropped.html", files[0].Name)
	assert.Contains(t, raw.String(), `filename="kohli-dropped.html"`)
}

func TestMailer_NoRecipients(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", From: "bot@example.com"}, nil)
	m.send = func(context.Context, *mail.Msg) error {
		t.Fatal("send must not be called")
		return nil
	}
	assert.ErrorIs(t, m.Send(context.Background(), testDigest()), ErrNoRecipients)
}

func TestMailer_SendError(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", From: "bot@example.com", To: []string{"a@example.com"}}, nil)
	m.send = func(context.Context, *mail.Msg) error { return errors.New("auth failed") }

	err := m.Publish(context.Background(), testDigest())
	require.Error(t, err)
	assert.ErrorContains(t, err, "auth failed")
	assert.Equal(t, "mail", m.Name())
}

func TestMailer_InvalidSender(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", From: "not an address", To: []string{"a@example.com"}}, nil)
	m.send = func(context.Context, *mail.Msg) error { return nil }
	require.Error(t, m.Send(context.Background(), testDigest()))
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Host: "smtp"}.Enabled())
	assert.False(t, Config{Host: "smtp", To: []string{" , "}}.Enabled())
	assert.True(t, Config{Host: "smtp", To: []string{"a@example.com"}}.Enabled())
}

func TestBodies(t *testing.T) {
	d := testDigest()

	plain := PlainBody(d)
	assert.Contains(t, plain, "1 viral posts generated by sonar")
	assert.Contains(t, plain, "#Cricket")
	assert.Contains(t, plain, "https://news/kohli")

	d.Posts[0].Title = "Kohli <dropped>"
	body := HTMLBody(d)
	assert.Contains(t, body, "Kohli &lt;dropped&gt;")
	assert.Contains(t, body, "Youth first")
	assert.Contains(t, body, `<a href="https://news/kohli">`)
	assert.Contains(t, body, "<li>kohli-dropped.html</li>")
	assert.NotContains(t, body, "<iframe")

	assert.Equal(t, "Cards", Subject("Cards", news.Digest{}))
}
