package services

import (
	"context"
	"fmt"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/pkg/apperrors"

	"github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

const sullySystemPrompt = "You are Sully, a career assistant for nurses. " +
	"Answer questions about facilities, pay, contracts and specialties. " +
	"Be concise, practical and honest about uncertainty."

const sullyNofilterPrompt = "You are Sully in nofilter mode: give the " +
	"blunt, unvarnished take nurses share with each other off the record, " +
	"while staying factual and professional."

// SullyAnswer is the chat response plus the caller's remaining quota.
type SullyAnswer struct {
	Answer             string `json:"answer"`
	QuestionsRemaining int    `json:"questions_remaining"` // -1 unlimited
	Nofilter           bool   `json:"nofilter"`
}

// SullyQuota reports current usage against the effective limits.
type SullyQuota struct {
	DailyLimit     int  `json:"daily_limit"`
	QuestionsToday int  `json:"questions_today"`
	NofilterLimit  int  `json:"nofilter_limit"`
	NofilterUsed   int  `json:"nofilter_used"`
	CanAsk         bool `json:"can_ask"`
	CanNofilter    bool `json:"can_nofilter"`
}

type SullyService interface {
	Ask(ctx context.Context, db *gorm.DB, capability entitlements.Capability, userID, question string, nofilter bool) (*SullyAnswer, error)
	Quota(capability entitlements.Capability) *SullyQuota
}

// ChatCompleter is the slice of the OpenAI client Sully needs; tests
// substitute a fake.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type sullyService struct {
	client           ChatCompleter
	model            string
	subscriptionRepo repositories.SubscriptionRepository
	billingService   BillingService
}

func NewSullyService(apiKey, model string, subscriptionRepo repositories.SubscriptionRepository, billingService BillingService) SullyService {
	return &sullyService{
		client:           openai.NewClient(apiKey),
		model:            model,
		subscriptionRepo: subscriptionRepo,
		billingService:   billingService,
	}
}

// NewSullyServiceWithClient is the test constructor.
func NewSullyServiceWithClient(client ChatCompleter, model string, subscriptionRepo repositories.SubscriptionRepository, billingService BillingService) SullyService {
	return &sullyService{
		client:           client,
		model:            model,
		subscriptionRepo: subscriptionRepo,
		billingService:   billingService,
	}
}

func (s *sullyService) Ask(ctx context.Context, db *gorm.DB, capability entitlements.Capability, userID, question string, nofilter bool) (*SullyAnswer, error) {
	if nofilter {
		if capability.NofilterLimit == 0 && !capability.Override {
			return nil, apperrors.ErrNofilterDisabled
		}
		if !capability.CanUseNofilter() {
			return nil, apperrors.ErrNofilterQuotaExceeded
		}
	} else if !capability.CanUseSully() {
		return nil, apperrors.ErrSullyQuotaExceeded.WithDetails(map[string]interface{}{
			"daily_limit":     capability.SullyDailyLimit,
			"questions_today": capability.SullyQuestionsToday,
		})
	}

	systemPrompt := sullySystemPrompt
	if nofilter {
		systemPrompt = sullyNofilterPrompt
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: question,
			},
		},
		MaxTokens:   400,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("sully completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("sully completion: empty response")
	}

	// Count the question after a successful answer so failures don't
	// burn quota.
	if err := s.subscriptionRepo.IncrementSullyUsage(db, userID, nofilter); err != nil {
		logger.CtxWithError(ctx, "failed to increment sully usage", err, "user_id", userID)
	}
	s.billingService.InvalidateStatus(userID)

	remaining := entitlements.Unlimited
	if capability.SullyDailyLimit != entitlements.Unlimited {
		remaining = capability.SullyDailyLimit - capability.SullyQuestionsToday - 1
		if remaining < 0 {
			remaining = 0
		}
	}

	return &SullyAnswer{
		Answer:             resp.Choices[0].Message.Content,
		QuestionsRemaining: remaining,
		Nofilter:           nofilter,
	}, nil
}

func (s *sullyService) Quota(capability entitlements.Capability) *SullyQuota {
	return &SullyQuota{
		DailyLimit:     capability.SullyDailyLimit,
		QuestionsToday: capability.SullyQuestionsToday,
		NofilterLimit:  capability.NofilterLimit,
		NofilterUsed:   capability.NofilterUsed,
		CanAsk:         capability.CanUseSully(),
		CanNofilter:    capability.CanUseNofilter(),
	}
}
