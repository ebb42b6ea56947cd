package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	judgeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pol",
		Subsystem: "judge",
		Name:      "request_duration_seconds",
		Help:      "Duration of AI judging requests",
	}, []string{"model"})

	judgeFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pol",
		Subsystem: "judge",
		Name:      "request_failures_total",
		Help:      "Number of failed AI judging requests",
	}, []string{"model"})
)

// ErrNoUsableContent indicates the upstream call succeeded but carried no
// reply text.
var ErrNoUsableContent = errors.New("model returned no usable content")

// DeepSeekConfig defines configuration options for the DeepSeek judge.
type DeepSeekConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// DeepSeekJudge implements Judge against the DeepSeek chat completion API,
// which speaks the OpenAI wire protocol.
type DeepSeekJudge struct {
	client *openai.Client
	cfg    DeepSeekConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewDeepSeekJudge builds a new judge using the provided configuration.
func NewDeepSeekJudge(cfg DeepSeekConfig) (*DeepSeekJudge, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("deepseek api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.deepseek.com"
	}

	if cfg.Model == "" {
		cfg.Model = "deepseek-chat"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 700
	}

	logger := cfg.Logger
	if logger.GetLevel() == zerolog.Disabled {
		logger = zerolog.Nop()
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	client := openai.NewClientWithConfig(clientConfig)

	return &DeepSeekJudge{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/proof-of-love/pol-api/pkg/ai/deepseek"),
		logger: logger,
	}, nil
}

// Evaluate sends the judging request to DeepSeek and returns the reply text
// along with the structured evaluation when the reply parses as one.
func (j *DeepSeekJudge) Evaluate(parent context.Context, input ContributionInput) (Evaluation, error) {
	ctx, span := j.tracer.Start(parent, "deepseek.evaluate", trace.WithAttributes(
		attribute.String("model", j.cfg.Model),
	))
	defer span.End()

	request := openai.ChatCompletionRequest{
		Model:       j.cfg.Model,
		MaxTokens:   j.cfg.MaxTokens,
		Temperature: j.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: judgeSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildJudgePrompt(input),
			},
		},
	}

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, request)
	judgeDuration.WithLabelValues(j.cfg.Model).Observe(time.Since(start).Seconds())
	if err != nil {
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Evaluation{}, fmt.Errorf("deepseek evaluate: %w", err)
	}

	if len(resp.Choices) == 0 {
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.SetStatus(codes.Error, ErrNoUsableContent.Error())
		return Evaluation{}, ErrNoUsableContent
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		judgeFailures.WithLabelValues(j.cfg.Model).Inc()
		span.SetStatus(codes.Error, ErrNoUsableContent.Error())
		return Evaluation{}, ErrNoUsableContent
	}

	structured := ParseContent(content)
	span.SetAttributes(attribute.Bool("judge.structured", structured != nil))
	if structured == nil {
		j.logger.Warn().Str("model", j.cfg.Model).Msg("model reply was not valid evaluation json, keeping raw text")
	}

	return Evaluation{Content: content, Structured: structured}, nil
}

func judgeSystemPrompt() string {
	return "你是 Proof of Love (PoL) 平台的贡献评审助手。请按照平台贡献规范，从技术质量、社区影响、对 Polkadot 生态的契合度、安全性风险等维度做出评估。使用简洁中文回答。"
}

func buildJudgePrompt(input ContributionInput) string {
	evidence := "无"
	if len(input.EvidenceLinks) > 0 {
		lines := make([]string, 0, len(input.EvidenceLinks))
		for _, link := range input.EvidenceLinks {
			lines = append(lines, "- "+link)
		}
		evidence = strings.Join(lines, "\n")
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "未命名贡献"
	}
	contributionType := strings.TrimSpace(input.ContributionType)
	if contributionType == "" {
		contributionType = "未指定"
	}
	contributor := strings.TrimSpace(input.Contributor)
	if contributor == "" {
		contributor = "匿名贡献者"
	}
	impact := strings.TrimSpace(input.Impact)
	if impact == "" {
		impact = "未提供"
	}

	builder := strings.Builder{}
	builder.WriteString("请评估以下贡献信息，并返回 JSON：\n{\n")
	builder.WriteString(fmt.Sprintf("  \"title\": %s,\n", jsonString(title)))
	builder.WriteString(fmt.Sprintf("  \"contributor\": %s,\n", jsonString(contributor)))
	builder.WriteString(fmt.Sprintf("  \"contributionType\": %s,\n", jsonString(contributionType)))
	builder.WriteString(fmt.Sprintf("  \"summary\": %s,\n", jsonString(input.Summary)))
	builder.WriteString(fmt.Sprintf("  \"impact\": %s,\n", jsonString(impact)))
	builder.WriteString(fmt.Sprintf("  \"evidence\": %s\n", jsonString(evidence)))
	builder.WriteString("}\n\n")
	builder.WriteString(`返回 JSON 格式如下：
{
  "verdict": "accept | needs_review | reject",
  "score": {
    "technical": number,
    "community": number,
    "governance": number,
    "overall": number
  },
  "confidence": "low | medium | high",
  "summary": string,
  "strengths": string[],
  "risks": string[],
  "recommendations": string[]
}

请严格返回有效 JSON。`)

	return builder.String()
}

func jsonString(value string) string {
	encoded, err := json.Marshal(value)
	if err != nil {
		return `""`
	}
	return string(encoded)
}
