package suggestservice

import (
	"context"
	"strings"
	"testing"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/h2ogpte"
	"github.com/Leopold1975/churnguard/pkg/logger"
	"github.com/stretchr/testify/require"
)

type fakeCustomers map[int64]models.Customer

func (f fakeCustomers) Get(_ context.Context, id int64) (models.Customer, error) {
	c, ok := f[id]
	if !ok {
		return models.Customer{}, models.ErrNotFound
	}

	return c, nil
}

type fakeLLM struct {
	reply   string
	err     error
	chatID  string
	message string
	calls   int
}

func (f *fakeLLM) Query(_ context.Context, chatID, message string) (string, error) {
	f.calls++
	f.chatID = chatID
	f.message = message

	return f.reply, f.err
}

type outcomes []string

func (o *outcomes) RecordLLMQuery(outcome string) {
	*o = append(*o, outcome)
}

func newService(llm *fakeLLM) (*SuggestService, *outcomes) {
	customers := fakeCustomers{
		15634602: {ID: "66f0c1", Fields: models.Fields{
			models.InternalIDField: models.String("66f0c1"),
			"CustomerID":           models.Int(15634602),
			"Balance":              models.Number(0),
		}},
	}
	cfg := config.LLM{ //nolint:exhaustruct
		GXS:      config.Chat{ChatID: "chat-gxs"},      //nolint:exhaustruct
		Playbook: config.Chat{ChatID: "chat-playbook"}, //nolint:exhaustruct
	}
	rec := &outcomes{}

	return New(customers, llm, cfg, rec, logger.Nop()), rec
}

func TestSuggest(t *testing.T) {
	llm := &fakeLLM{reply: "Offer a GXS savings boost."}
	ss, rec := newService(llm)

	reply, err := ss.Suggest(context.Background(), 15634602, "")
	require.NoError(t, err)
	require.Equal(t, "Offer a GXS savings boost.", reply)
	require.Equal(t, "chat-gxs", llm.chatID)
	require.True(t, strings.HasPrefix(llm.message, preamble))
	require.True(t, strings.HasSuffix(llm.message, postamble))
	require.Contains(t, llm.message, `"CustomerID":15634602`)
	require.NotContains(t, llm.message, "66f0c1")
	require.Equal(t, outcomes{"ok"}, *rec)
}

func TestSuggestSource(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	ss, _ := newService(llm)

	_, err := ss.Suggest(context.Background(), 15634602, "Playbook")
	require.NoError(t, err)
	require.Equal(t, "chat-playbook", llm.chatID)

	_, err = ss.Suggest(context.Background(), 15634602, "astrology")
	require.ErrorIs(t, err, ErrUnknownSource)
	require.ErrorIs(t, err, models.ErrValidation)

	_, err = ss.Suggest(context.Background(), 15634602, SourceRecommendation)
	require.ErrorIs(t, err, models.ErrUpstream)
	require.Equal(t, 1, llm.calls)
}

func TestSuggestMissingClient(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	ss, _ := newService(llm)

	_, err := ss.Suggest(context.Background(), 1, "")
	require.ErrorIs(t, err, models.ErrNotFound)
	require.Zero(t, llm.calls)
}

func TestSuggestMissingClientBeforeChatCheck(t *testing.T) {
	llm := &fakeLLM{reply: "ok"}
	ss, _ := newService(llm)

	_, err := ss.Suggest(context.Background(), 1, SourceRecommendation)
	require.ErrorIs(t, err, models.ErrNotFound)
	require.NotErrorIs(t, err, ErrNoChat)
	require.Zero(t, llm.calls)
}

func TestSuggestUpstreamFailure(t *testing.T) {
	for _, tc := range []struct {
		err     error
		outcome string
	}{
		{h2ogpte.ErrTimeout, "timeout"},
		{h2ogpte.ErrUnauthorized, "unauthorized"},
		{h2ogpte.ErrSessionNotFound, "session_not_found"},
		{h2ogpte.ErrEmptyReply, "empty"},
		{&h2ogpte.APIError{StatusCode: 502, Message: "bad gateway"}, "error"},
	} {
		ss, rec := newService(&fakeLLM{err: tc.err})

		_, err := ss.Suggest(context.Background(), 15634602, "")
		require.ErrorIs(t, err, models.ErrUpstream)
		require.ErrorIs(t, err, tc.err)
		require.Equal(t, outcomes{tc.outcome}, *rec)
	}
}
