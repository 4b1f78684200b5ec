package models

// Page is the data every page inside the layout shell gets.
type Page struct {
	Title  string
	Active string
	User   *User
}

type DashboardData struct {
	Page
	Stats StatsState
	Cards []StatCard
	Chart ChartData
}

type StatCard struct {
	Label string
	Value int
	Tone  string
}

type ChartData struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

type ChartDataset struct {
	Label string `json:"label"`
	Data  []int  `json:"data"`
}

func (c ChartData) Empty() bool {
	return len(c.Labels) == 0
}

type InstallationsData struct {
	Page
	Installations []Installation
}

type WebhooksData struct {
	Page
	Deliveries []WebhookDelivery
	Endpoint   string
}

type SettingsData struct {
	Page
	Settings UserSettings
	Saved    bool
	Error    string
}

type LoginData struct {
	Title string
	Error string
}
