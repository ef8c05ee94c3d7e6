package service

import (
	"context"
	"encoding/json"
	"fmt"
	"k12_kg_backend/internal/config"
	"k12_kg_backend/internal/util"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultAIModel      = openai.GPT4oMini
	suggestToolName     = "annotate_knowledge_points"
	aiSystemInstruction = "你是一名 K12 英语教研专家，负责为题目标注其考查的语法与词汇知识点。只能从给定的候选知识点中选择。"
)

// AISuggestion 模型返回的单条知识点判断
type AISuggestion struct {
	KnowledgePoint string  `json:"knowledge_point"`
	Confidence     float64 `json:"confidence"`
	Reason         string  `json:"reason"`
}

type AIService struct {
	config config.AIConfig
	client *openai.Client
}

// NewAIService 未配置 api_key 时返回的服务处于关闭状态
func NewAIService(cfg config.AIConfig) *AIService {
	s := &AIService{config: cfg}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return s
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	s.client = openai.NewClientWithConfig(clientCfg)
	return s
}

func (s *AIService) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *AIService) model() string {
	if s.config.Model != "" {
		return s.config.Model
	}
	return defaultAIModel
}

func (s *AIService) Chat(ctx context.Context, prompt string, background string) (string, error) {
	if !s.Enabled() {
		return "", util.ErrAIDisabled
	}

	system := aiSystemInstruction
	if background != "" {
		system = fmt.Sprintf("%s\n\n参考资料：\n%s", aiSystemInstruction, background)
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("ai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("ai chat: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// SuggestKnowledgePoints 通过工具调用让模型从候选列表中挑选知识点
func (s *AIService) SuggestKnowledgePoints(ctx context.Context, content, questionType string, candidates []string) ([]AISuggestion, error) {
	if !s.Enabled() {
		return nil, util.ErrAIDisabled
	}
	if len(candidates) == 0 {
		return []AISuggestion{}, nil
	}

	var sb strings.Builder
	sb.WriteString("请判断下面这道英语题考查了哪些知识点。\n\n")
	if questionType != "" {
		sb.WriteString(fmt.Sprintf("题型：%s\n", questionType))
	}
	sb.WriteString(fmt.Sprintf("题目：%s\n\n", util.Truncate(content, 1500)))
	sb.WriteString("候选知识点：\n")
	for _, c := range candidates {
		sb.WriteString("- " + c + "\n")
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model(),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: aiSystemInstruction},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
		Tools: []openai.Tool{
			{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        suggestToolName,
					Description: "Return the knowledge points the question tests, chosen from the candidate list",
					Parameters: map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"annotations": map[string]interface{}{
								"type": "array",
								"items": map[string]interface{}{
									"type": "object",
									"properties": map[string]interface{}{
										"knowledge_point": map[string]interface{}{
											"type":        "string",
											"enum":        candidates,
											"description": "Name of the knowledge point",
										},
										"confidence": map[string]interface{}{
											"type":        "number",
											"description": "Confidence between 0 and 1",
										},
										"reason": map[string]interface{}{
											"type":        "string",
											"description": "Short justification in Chinese",
										},
									},
									"required": []string{"knowledge_point", "confidence"},
								},
							},
						},
						"required": []string{"annotations"},
					},
				},
			},
		},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: suggestToolName},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("ai suggest: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("ai suggest: no tool call in response")
	}

	call := resp.Choices[0].Message.ToolCalls[0]
	if call.Function.Name != suggestToolName {
		return nil, fmt.Errorf("ai suggest: unexpected tool call %s", call.Function.Name)
	}
	return parseAISuggestions(call.Function.Arguments)
}

func parseAISuggestions(arguments string) ([]AISuggestion, error) {
	var args struct {
		Annotations []AISuggestion `json:"annotations"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return nil, fmt.Errorf("ai suggest: parse tool arguments: %w", err)
	}
	out := make([]AISuggestion, 0, len(args.Annotations))
	for _, a := range args.Annotations {
		a.KnowledgePoint = strings.TrimSpace(a.KnowledgePoint)
		if a.KnowledgePoint == "" {
			continue
		}
		if a.Confidence < 0 {
			a.Confidence = 0
		}
		if a.Confidence > 1 {
			a.Confidence = 1
		}
		out = append(out, a)
	}
	return out, nil
}
