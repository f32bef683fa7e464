package models

import "github.com/Jamolkhon5/portfolio/internal/catalog"

type CampaignsResponse struct {
	Success   bool                    `json:"success"`
	Total     int                     `json:"total"`
	Campaigns []catalog.ProjectRecord `json:"campaigns"`
}

type CampaignResponse struct {
	Success  bool                  `json:"success"`
	Campaign catalog.ProjectRecord `json:"campaign"`
}

// CampaignFiltersResponse - значения для фильтров на странице кейсов
type CampaignFiltersResponse struct {
	Success   bool               `json:"success"`
	Employers []catalog.Employer `json:"employers"`
	Channels  []catalog.Channel  `json:"channels"`
}
