// Package prompts собирает входные данные для удаленной модели и описывает
// схему ответа, которую модель обязана соблюдать.
package prompts

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Jamolkhon5/portfolio/internal/ai/llm"
	"github.com/Jamolkhon5/portfolio/internal/catalog"
)

// ProjectBrief - сжатая проекция кейса для модели.
// Ассеты, KPI и обязанности не передаются, чтобы ограничить размер запроса.
type ProjectBrief struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Employer string   `json:"employer"`
	Role     string   `json:"role"`
	Period   string   `json:"period"`
	Channels []string `json:"channels"`
	Summary  string   `json:"summary"`
	Tech     []string `json:"tech"`
}

// ModelInput - данные, подставляемые в промпт
type ModelInput struct {
	Message  string         `json:"message"`
	Projects []ProjectBrief `json:"projects"`
}

func Condense(records []catalog.ProjectRecord) []ProjectBrief {
	out := make([]ProjectBrief, 0, len(records))
	for _, rec := range records {
		channels := make([]string, 0, len(rec.Channels))
		for _, ch := range rec.Channels {
			channels = append(channels, string(ch))
		}
		tech := make([]string, len(rec.Tech))
		copy(tech, rec.Tech)

		out = append(out, ProjectBrief{
			ID:       rec.ID,
			Title:    rec.Title,
			Employer: string(rec.Employer),
			Role:     rec.Role,
			Period:   rec.Period,
			Channels: channels,
			Summary:  rec.Summary,
			Tech:     tech,
		})
	}
	return out
}

func NewModelInput(message string, records []catalog.ProjectRecord) ModelInput {
	return ModelInput{Message: message, Projects: Condense(records)}
}

const AssistantSystemPrompt = `You are an AI assistant for Lungelo Sibisi's digital marketing portfolio. You help visitors learn about his services, experience, and work.

## About Lungelo Sibisi
- Location: Johannesburg, South Africa
- Title: Digital Marketing Specialist & SEO/CRM Architect
- Tagline: "Converting Ad spend into revenue"

## Core Services & Expertise
1. SEO: technical SEO, on-page optimization, content strategy, keyword research and competitive analysis.
2. Paid Social Media Advertising: Meta Ads (Facebook & Instagram), Google Ads (Search, Display, YouTube), LinkedIn Ads, TikTok Ads.
3. Social Media Management: content creation and scheduling, community management, social listening, influencer coordination.
4. Content & Community Management: content strategy and calendars, copywriting, brand storytelling, moderation.
5. Digital Marketing Strategy: full-funnel campaign architecture, multi-channel planning, performance optimization, A/B testing.
6. CRM & Marketing Automation: HubSpot implementation, lead nurturing and email marketing, POPIA-compliant data handling, lead routing.
7. Analytics & Reporting: GA4, Power BI dashboards, Rival IQ benchmarking, ROI tracking and attribution.

## Industry Experience
- Automotive: Mazda Southern Africa (2025-present)
- Energy & Chemicals: Sasol (2024)
- Mining: South32 (2022)
- Education & Training: Initium Venture Solutions (2024-2025)

## Key Achievements
- Driving Mazda SA's digital performance through video-led creative direction
- Managing multi-million rand media budgets
- Achieving 4.2:1 ROAS on retail campaigns
- Building POPIA-compliant CRM systems

## Instructions
1. If asked about services: explain the relevant service(s) clearly and mention the tools and platforms used.
2. If asked about experience: reference relevant employers and achievements, be specific about industries and results.
3. If asked for project recommendations: suggest the 1-3 most relevant projects from the provided list and put them in "suggestedProjects" using their exact IDs.
4. Otherwise: give a helpful, professional answer that showcases Lungelo's expertise.
5. Tone: professional yet approachable, confident but not boastful, focused on results and ROI.
6. Keep responses concise (2-4 sentences) unless the question requires detail.
7. Never invent project IDs. Only use IDs from the "Available Projects" list.`

const RecommenderSystemPrompt = `You are an expert portfolio curator. A visitor described what they are interested in.
Identify the projects from the provided list that are most relevant to their interests.
Return ONLY the IDs of relevant projects, most relevant first. If no project is relevant, return an empty list.
Never invent project IDs.`

var userPromptTmpl = template.Must(template.New("user").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`## User's Question
"""{{.Message}}"""

## Available Projects
{{range .Projects}}- ID: {{.ID}}
  Title: {{.Title}}
  Employer: {{.Employer}}
  Role: {{.Role}}
  Period: {{.Period}}
  Channels: {{join .Channels ", "}}
  Summary: {{.Summary}}
  Tech: {{join .Tech ", "}}
{{end}}`))

// RenderUserPrompt подставляет вопрос и список кейсов в шаблон запроса
func RenderUserPrompt(in ModelInput) (string, error) {
	var buf bytes.Buffer
	if err := userPromptTmpl.Execute(&buf, in); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// AssistantSchema - обязательная форма ответа ассистента
func AssistantSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"response": {
				Type:        "string",
				Description: "The assistant's response to the user.",
			},
			"suggestedProjects": {
				Type:        "array",
				Description: "Relevant projects to showcase (if applicable).",
				Items: &llm.Schema{
					Type: "object",
					Properties: map[string]*llm.Schema{
						"id":       {Type: "string"},
						"title":    {Type: "string"},
						"employer": {Type: "string"},
						"summary":  {Type: "string"},
					},
					Required: []string{"id", "title", "employer", "summary"},
				},
			},
		},
		Required: []string{"response"},
	}
}

// RecommendationSchema - форма ответа подбора кейсов
func RecommendationSchema() *llm.Schema {
	return &llm.Schema{
		Type: "object",
		Properties: map[string]*llm.Schema{
			"projectIds": {
				Type:        "array",
				Description: "IDs of the relevant projects, most relevant first.",
				Items:       &llm.Schema{Type: "string"},
			},
		},
		Required: []string{"projectIds"},
	}
}

// BuildAssistantRequest собирает запрос к модели для вопроса посетителя
func BuildAssistantRequest(message string, records []catalog.ProjectRecord) (llm.Request, error) {
	user, err := RenderUserPrompt(NewModelInput(message, records))
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System: AssistantSystemPrompt,
		User:   user + "\nRespond with a helpful answer and suggest relevant projects if applicable.",
		Schema: AssistantSchema(),
	}, nil
}

// BuildRecommendationRequest собирает запрос подбора кейсов
func BuildRecommendationRequest(message string, records []catalog.ProjectRecord) (llm.Request, error) {
	user, err := RenderUserPrompt(NewModelInput(message, records))
	if err != nil {
		return llm.Request{}, err
	}
	return llm.Request{
		System: RecommenderSystemPrompt,
		User:   user,
		Schema: RecommendationSchema(),
	}, nil
}
