package suggestservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/h2ogpte"
	"github.com/Leopold1975/churnguard/pkg/logger"
)

const (
	SourceGXS            = "gxs"
	SourcePlaybook       = "playbook"
	SourceRecommendation = "recommendation"

	preamble = "Imagine you are on the data science team of GXS, taking note that churn being 0 means no churn " +
		"and churn being 1 means they have or are predicted to churn. If the client has a low balance and has " +
		"churn = 1, it is likely that they have churned and withdrawn all their accounts, do take note of this " +
		"when recommending. Take note that if churn is 0, we should recommend how to retain the customer by " +
		"building brand loyalty for example. This is your clients information: "
	postamble = " What would you recommend to the customer relations team to retain the customer in general, " +
		"give 2 suggestions based on the products available (huge emphasis on this) and the customer profile. " +
		"If there are any recommendations, make sure to suggest a GXS programme or product that can be recommended."
)

var (
	ErrUnknownSource = fmt.Errorf("%w: unknown recommendation source", models.ErrValidation)
	ErrNoChat        = fmt.Errorf("%w: recommendation chat is not configured", models.ErrUpstream)
)

type LLM interface {
	Query(ctx context.Context, chatID, message string) (string, error)
}

type Customers interface {
	Get(ctx context.Context, id int64) (models.Customer, error)
}

type Recorder interface {
	RecordLLMQuery(outcome string)
}

type SuggestService struct {
	customers Customers
	llm       LLM
	chats     map[string]string
	rec       Recorder
	lg        logger.Logger
}

func New(customers Customers, llm LLM, cfg config.LLM, rec Recorder, lg logger.Logger) *SuggestService {
	return &SuggestService{
		customers: customers,
		llm:       llm,
		chats: map[string]string{
			SourceGXS:            cfg.GXS.ChatID,
			SourcePlaybook:       cfg.Playbook.ChatID,
			SourceRecommendation: cfg.Recommendation.ChatID,
		},
		rec: rec,
		lg:  lg,
	}
}

// Suggest asks the chat session behind source for retention advice on the
// client with the given CustomerID. An empty source means gxs.
func (ss *SuggestService) Suggest(ctx context.Context, id int64, source string) (string, error) {
	if source == "" {
		source = SourceGXS
	}

	chatID, ok := ss.chats[strings.ToLower(source)]
	if !ok {
		return "", ErrUnknownSource
	}

	c, err := ss.customers.Get(ctx, id)
	if err != nil {
		return "", err
	}

	if chatID == "" {
		return "", ErrNoChat
	}

	prompt, err := Prompt(c.Fields)
	if err != nil {
		return "", err
	}

	reply, err := ss.llm.Query(ctx, chatID, prompt)
	if err != nil {
		ss.rec.RecordLLMQuery(outcome(err))
		ss.lg.Errorf("recommendation for client %d failed: %s", id, err.Error())

		return "", fmt.Errorf("%w: %w", models.ErrUpstream, err)
	}

	ss.rec.RecordLLMQuery("ok")

	return reply, nil
}

// Prompt renders the record, without its internal id, between the fixed
// instructions sent to the LLM.
func Prompt(f models.Fields) (string, error) {
	b, err := json.Marshal(f.Without(models.InternalIDField))
	if err != nil {
		return "", fmt.Errorf("marshal client error: %w", err)
	}

	return preamble + string(b) + postamble, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, h2ogpte.ErrTimeout):
		return "timeout"
	case errors.Is(err, h2ogpte.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, h2ogpte.ErrSessionNotFound):
		return "session_not_found"
	case errors.Is(err, h2ogpte.ErrEmptyReply):
		return "empty"
	default:
		return "error"
	}
}
