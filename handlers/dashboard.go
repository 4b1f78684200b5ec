// handlers/dashboard.go
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

// StatsSnapshotter is the stats collaborator as the dashboard sees it.
type StatsSnapshotter interface {
	Snapshot() models.StatsState
}

func Dashboard(stats StatsSnapshotter, rd *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := stats.Snapshot()

		data := models.DashboardData{
			Page: models.Page{
				Title:  "Dashboard",
				Active: "dashboard",
				User:   middleware.UserFromContext(r.Context()),
			},
			Stats: state,
		}
		if !state.Loading && state.Error == "" && state.Stats != nil {
			data.Cards = buildCards(state.Stats)
			data.Chart = buildChart(state.Stats.ReviewsOverTime)
		}

		rd.Render(w, http.StatusOK, "dashboard", data)
	}
}

func buildCards(s *models.StatsSummary) []models.StatCard {
	return []models.StatCard{
		{Label: "Total Reviews", Value: s.TotalReviews, Tone: "total"},
		{Label: "Passed", Value: s.PassedReviews, Tone: "success"},
		{Label: "Failed", Value: s.FailedReviews, Tone: "danger"},
		{Label: "Pending", Value: s.PendingReviews, Tone: "warning"},
	}
}

func buildChart(series []models.ReviewsOnDate) models.ChartData {
	if len(series) == 0 {
		return models.ChartData{}
	}

	chart := models.ChartData{
		Labels: make([]string, 0, len(series)),
		Datasets: []models.ChartDataset{
			{Label: "Passed", Data: make([]int, 0, len(series))},
			{Label: "Failed", Data: make([]int, 0, len(series))},
		},
	}
	for _, p := range series {
		chart.Labels = append(chart.Labels, p.Date)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, p.Passed)
		chart.Datasets[1].Data = append(chart.Datasets[1].Data, p.Failed)
	}
	return chart
}

// GetStats returns the current stats state as JSON.
func GetStats(stats StatsSnapshotter, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := stats.Snapshot()
		if state.Error != "" {
			log.Warn("serving stats with refresh error", zap.String("error", state.Error))
		}
		writeJSON(w, http.StatusOK, state)
	}
}
