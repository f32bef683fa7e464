package service

import "strings"

// Intent - группа ключевых слов и привязанный к ней резервный ответ
type Intent struct {
	Name       string
	Keywords   []string
	Response   string
	ProjectIDs []string
}

// IntentAnalyzer подбирает резервный ответ по ключевым словам, когда модель недоступна.
// Группы проверяются в порядке объявления, побеждает первое совпадение.
type IntentAnalyzer struct {
	intents  []Intent
	fallback Intent
}

func NewIntentAnalyzer() *IntentAnalyzer {
	return &IntentAnalyzer{
		intents: []Intent{
			{
				Name:     "services",
				Keywords: []string{"service", "offer", "do you do"},
				Response: "I offer comprehensive digital marketing services including:\n\n" +
					"• **SEO & Technical Optimization** - Keyword research, on-page optimization, and technical SEO\n" +
					"• **Paid Social Media** - Expert management of Meta Ads, Google Ads, LinkedIn Ads, and TikTok Ads\n" +
					"• **Social Media Management** - Content creation, community engagement, and brand storytelling\n" +
					"• **CRM & Marketing Automation** - HubSpot implementation, lead nurturing, and POPIA-compliant data handling\n" +
					"• **Digital Marketing Strategy** - Full-funnel campaign architecture and performance optimization\n" +
					"• **Analytics & Reporting** - GA4, Power BI dashboards, and ROI tracking\n\n" +
					"I've delivered results for major brands in Automotive (Mazda), Energy (Sasol), Mining (South32), and Education sectors.",
				ProjectIDs: []string{"mazda-brand-meaning-lvl2-2025", "sasol-green-future-2024"},
			},
			{
				Name:     "seo",
				Keywords: []string{"seo", "search engine"},
				Response: "My SEO expertise includes technical SEO, on-page optimization, content strategy, and competitive analysis. " +
					"I've successfully driven organic growth for automotive and energy sector clients, focusing on keyword research, " +
					"site architecture, and conversion optimization. I use tools like GA4, SEMrush, and implement data-driven strategies " +
					"that deliver measurable ROI.",
				ProjectIDs: []string{},
			},
			{
				Name:     "meta",
				Keywords: []string{"meta", "facebook", "instagram", "social media ads"},
				Response: "I specialize in Meta Ads (Facebook & Instagram) with proven results:\n\n" +
					"• Achieved 4.2:1 ROAS on retail campaigns\n" +
					"• Managed multi-million rand budgets\n" +
					"• Expert in full-funnel architecture (prospecting, retargeting, lead nurture)\n" +
					"• A/B testing and daily optimization\n" +
					"• Video-led creative direction\n\n" +
					"I've run successful campaigns for Mazda SA, driving engagement rates up 28% and maintaining CTRs above 2.8%.",
				ProjectIDs: []string{"mazda-brand-meaning-lvl2-2025", "mazda-gfv-q3-2025", "mazdacare-warranty-2025"},
			},
			{
				Name:     "crm",
				Keywords: []string{"crm", "hubspot", "automation"},
				Response: "I'm a certified CRM architect specializing in HubSpot implementation and marketing automation:\n\n" +
					"• POPIA-compliant lead management systems\n" +
					"• Email marketing and lead nurturing workflows\n" +
					"• CRM hygiene and data quality management\n" +
					"• Integration with sales and dealer networks\n" +
					"• Lead scoring and routing automation\n\n" +
					"I've built and managed CRM systems for Mazda SA, handling thousands of leads monthly with full compliance and dealer alignment.",
				ProjectIDs: []string{"mazda-brand-meaning-lvl2-2025"},
			},
			{
				Name:     "campaigns",
				Keywords: []string{"campaign", "case stud", "work", "project"},
				Response: "I've executed successful campaigns across multiple industries:\n\n" +
					"**Automotive** - Mazda SA: Brand campaigns, retail promotions, and service plan marketing\n" +
					"**Energy** - Sasol: Strategic communications and stakeholder engagement\n" +
					"**Mining** - South32: Internal communications and community campaigns\n" +
					"**Education** - Initium: B2B marketing and brand development\n\n" +
					"All campaigns feature data-driven strategy, creative excellence, and measurable results.",
				ProjectIDs: []string{
					"mazda-brand-meaning-lvl2-2025",
					"sasol-green-future-2024",
					"south32-community-2024",
					"initium-b2b-acceleration-2025",
				},
			},
			{
				Name:     "experience",
				Keywords: []string{"experience", "background", "about you"},
				Response: "I bring 3+ years of digital marketing experience across diverse industries:\n\n" +
					"**Current** - Digital Marketing Specialist at Mazda Southern Africa (2025)\n" +
					"**Previous** - Communications Officer at Sasol (2024)\n" +
					"**Previous** - Marketing & Alumni Lead at South32 (2022)\n" +
					"**Previous** - Marketing & Brand Strategist at Initium Venture Solutions (2024-2025)\n\n" +
					"I've managed budgets exceeding R10M, delivered 4.2:1 ROAS, and built POPIA-compliant systems serving thousands of users.",
				ProjectIDs: []string{},
			},
		},
		fallback: Intent{
			Name: "default",
			Response: "I'm a Digital Marketing Specialist based in Johannesburg, specializing in converting ad spend into revenue. " +
				"My core expertise includes SEO, paid social media (Meta, Google, LinkedIn, TikTok), CRM architecture, and data-driven campaign strategy.\n\n" +
				"I've worked with major brands like Mazda, Sasol, and South32, delivering measurable results through full-funnel marketing, " +
				"creative direction, and performance optimization.\n\n" +
				"Feel free to ask about specific services, view my case studies below, or contact me to discuss your marketing needs!",
			ProjectIDs: []string{"mazda-brand-meaning-lvl2-2025", "sasol-green-future-2024"},
		},
	}
}

// AnalyzeMessage возвращает первую совпавшую группу или ответ по умолчанию.
// Пустой запрос попадает в ответ по умолчанию.
func (ia *IntentAnalyzer) AnalyzeMessage(message string) Intent {
	message = strings.ToLower(message)

	for _, intent := range ia.intents {
		if ia.containsAny(message, intent.Keywords) {
			return intent
		}
	}
	return ia.fallback
}

// Respond - резервный ответ: текст и id связанных кейсов.
// Срез id копируется, чтобы вызывающий код не мог изменить таблицу.
func (ia *IntentAnalyzer) Respond(message string) (string, []string) {
	intent := ia.AnalyzeMessage(message)
	ids := make([]string, len(intent.ProjectIDs))
	copy(ids, intent.ProjectIDs)
	return intent.Response, ids
}

func (ia *IntentAnalyzer) containsAny(message string, words []string) bool {
	for _, word := range words {
		if strings.Contains(message, word) {
			return true
		}
	}
	return false
}
