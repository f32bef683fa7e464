// Package catalog содержит статический каталог кейсов портфолио.
// Каталог загружается один раз при старте процесса и дальше только читается,
// поэтому его можно безопасно использовать из любого числа горутин.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed campaigns.yaml
var campaignsYAML []byte

var ErrNotFound = errors.New("project not found")

type Channel string

const (
	ChannelMeta                  Channel = "Meta"
	ChannelGoogle                Channel = "Google"
	ChannelLinkedIn              Channel = "LinkedIn"
	ChannelTikTok                Channel = "TikTok"
	ChannelYouTube               Channel = "YouTube"
	ChannelProgrammatic          Channel = "Programmatic"
	ChannelEmailCRM              Channel = "Email/CRM"
	ChannelWeb                   Channel = "Web"
	ChannelInternalComms         Channel = "Internal Comms"
	ChannelMediaRelations        Channel = "Media Relations"
	ChannelStakeholderEngagement Channel = "Stakeholder Engagement"
	ChannelDigitalPlatforms      Channel = "Digital Platforms"
	ChannelSocialMedia           Channel = "Social Media"
	ChannelPrint                 Channel = "Print"
	ChannelDigitalAdvertising    Channel = "Digital Advertising"
	ChannelPublicRelations       Channel = "Public Relations"
)

var validChannels = map[Channel]bool{
	ChannelMeta: true, ChannelGoogle: true, ChannelLinkedIn: true, ChannelTikTok: true,
	ChannelYouTube: true, ChannelProgrammatic: true, ChannelEmailCRM: true, ChannelWeb: true,
	ChannelInternalComms: true, ChannelMediaRelations: true, ChannelStakeholderEngagement: true,
	ChannelDigitalPlatforms: true, ChannelSocialMedia: true, ChannelPrint: true,
	ChannelDigitalAdvertising: true, ChannelPublicRelations: true,
}

type Employer string

const (
	EmployerMazda     Employer = "Mazda Southern Africa"
	EmployerSasol     Employer = "Sasol"
	EmployerEmpangeni Employer = "Empangeni High School"
	EmployerInitium   Employer = "Initium Venture Solutions"
	EmployerSouth32   Employer = "South32"
	EmployerOther     Employer = "Other"
)

var validEmployers = map[Employer]bool{
	EmployerMazda: true, EmployerSasol: true, EmployerEmpangeni: true,
	EmployerInitium: true, EmployerSouth32: true, EmployerOther: true,
}

type AssetKind string

const (
	AssetImage AssetKind = "image"
	AssetVideo AssetKind = "video"
)

// Asset - медиафайл кейса (картинка или видео)
type Asset struct {
	Kind   AssetKind `yaml:"type" json:"type"`
	Src    string    `yaml:"src" json:"src"`
	Poster string    `yaml:"poster,omitempty" json:"poster,omitempty"`
	Alt    string    `yaml:"alt" json:"alt"`
	Width  int       `yaml:"width" json:"width"`
	Height int       `yaml:"height" json:"height"`
}

type KPI struct {
	Label string `yaml:"label" json:"label"`
	Value string `yaml:"value" json:"value"`
}

// ProjectRecord описывает один кейс (кампанию) портфолио
type ProjectRecord struct {
	ID               string    `yaml:"id" json:"id"`
	Title            string    `yaml:"title" json:"title"`
	Employer         Employer  `yaml:"employer" json:"employer"`
	Role             string    `yaml:"role" json:"role"`
	Period           string    `yaml:"period" json:"period"`
	Channels         []Channel `yaml:"channels" json:"channels"`
	Summary          string    `yaml:"summary" json:"summary"`
	Responsibilities []string  `yaml:"responsibilities" json:"responsibilities"`
	Assets           []Asset   `yaml:"assets" json:"assets"`
	KPIs             []KPI     `yaml:"kpis" json:"kpis"`
	Tech             []string  `yaml:"tech" json:"tech"`
	CaseStudyURL     string    `yaml:"caseStudyUrl,omitempty" json:"caseStudyUrl,omitempty"`
	ExternalURL      string    `yaml:"externalUrl,omitempty" json:"externalUrl,omitempty"`
	Industries       []string  `yaml:"industries,omitempty" json:"industries,omitempty"`
	Highlights       []string  `yaml:"highlights,omitempty" json:"highlights,omitempty"`
}

// clone копирует запись вместе со всеми вложенными срезами,
// чтобы вызывающий не мог изменить данные каталога
func (r ProjectRecord) clone() ProjectRecord {
	r.Channels = slices.Clone(r.Channels)
	r.Responsibilities = slices.Clone(r.Responsibilities)
	r.Assets = slices.Clone(r.Assets)
	r.KPIs = slices.Clone(r.KPIs)
	r.Tech = slices.Clone(r.Tech)
	r.Industries = slices.Clone(r.Industries)
	r.Highlights = slices.Clone(r.Highlights)
	return r
}

// Catalog - неизменяемый упорядоченный набор кейсов с индексом по id
type Catalog struct {
	records []ProjectRecord
	byID    map[string]int
}

// Load разбирает встроенное описание кампаний
func Load() (*Catalog, error) {
	return Parse(campaignsYAML)
}

// Parse разбирает YAML-список кейсов и проверяет целостность каталога
func Parse(data []byte) (*Catalog, error) {
	var records []ProjectRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("error parsing catalog: %w", err)
	}
	return New(records)
}

// New строит каталог из готовых записей. Порядок записей сохраняется.
func New(records []ProjectRecord) (*Catalog, error) {
	c := &Catalog{
		records: make([]ProjectRecord, 0, len(records)),
		byID:    make(map[string]int, len(records)),
	}

	for i, rec := range records {
		rec = rec.clone()
		if err := validateRecord(rec); err != nil {
			return nil, fmt.Errorf("catalog record %d: %w", i, err)
		}
		if _, dup := c.byID[rec.ID]; dup {
			return nil, fmt.Errorf("catalog record %d: duplicate id %q", i, rec.ID)
		}
		if rec.Channels == nil {
			rec.Channels = []Channel{}
		}
		if rec.Tech == nil {
			rec.Tech = []string{}
		}
		c.byID[rec.ID] = len(c.records)
		c.records = append(c.records, rec)
	}

	return c, nil
}

func validateRecord(rec ProjectRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("empty id")
	}
	if !validEmployers[rec.Employer] {
		return fmt.Errorf("%s: unknown employer %q", rec.ID, rec.Employer)
	}
	for _, ch := range rec.Channels {
		if !validChannels[ch] {
			return fmt.Errorf("%s: unknown channel %q", rec.ID, ch)
		}
	}
	for j, a := range rec.Assets {
		if strings.TrimSpace(a.Src) == "" {
			return fmt.Errorf("%s: asset %d has empty src", rec.ID, j)
		}
		if a.Kind != AssetImage && a.Kind != AssetVideo {
			return fmt.Errorf("%s: asset %d has unknown type %q", rec.ID, j, a.Kind)
		}
	}
	return nil
}

// All возвращает копию списка кейсов в порядке каталога
func (c *Catalog) All() []ProjectRecord {
	out := make([]ProjectRecord, len(c.records))
	for i, rec := range c.records {
		out[i] = rec.clone()
	}
	return out
}

func (c *Catalog) Len() int {
	return len(c.records)
}

// Lookup ищет кейс по id. Отсутствие записи - нормальная ситуация, не ошибка.
func (c *Catalog) Lookup(id string) (ProjectRecord, bool) {
	i, ok := c.byID[id]
	if !ok {
		return ProjectRecord{}, false
	}
	return c.records[i].clone(), true
}

// Get - то же, что Lookup, но для вызывающих, которым удобнее ошибка
func (c *Catalog) Get(id string) (ProjectRecord, error) {
	rec, ok := c.Lookup(id)
	if !ok {
		return ProjectRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// Filter отбирает кейсы по работодателям и каналам.
// Пустой набор не ограничивает выборку; по каналам достаточно одного совпадения.
func (c *Catalog) Filter(employers []Employer, channels []Channel) []ProjectRecord {
	out := make([]ProjectRecord, 0, len(c.records))
	for _, rec := range c.records {
		if len(employers) > 0 && !containsEmployer(employers, rec.Employer) {
			continue
		}
		if len(channels) > 0 && !hasAnyChannel(rec.Channels, channels) {
			continue
		}
		out = append(out, rec.clone())
	}
	return out
}

// Employers возвращает работодателей в порядке первого появления
func (c *Catalog) Employers() []Employer {
	seen := make(map[Employer]bool)
	out := make([]Employer, 0)
	for _, rec := range c.records {
		if !seen[rec.Employer] {
			seen[rec.Employer] = true
			out = append(out, rec.Employer)
		}
	}
	return out
}

// Channels возвращает каналы в порядке первого появления
func (c *Catalog) Channels() []Channel {
	seen := make(map[Channel]bool)
	out := make([]Channel, 0)
	for _, rec := range c.records {
		for _, ch := range rec.Channels {
			if !seen[ch] {
				seen[ch] = true
				out = append(out, ch)
			}
		}
	}
	return out
}

func containsEmployer(list []Employer, e Employer) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}

func hasAnyChannel(have, want []Channel) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
