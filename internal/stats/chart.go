package stats

import (
	"fmt"

	"github.com/krow6750/gearshare-backend/pkg/enums"
)

// statusColors assigns each workflow status a stable chart color. Statuses
// outside the canonical set fall back to fallbackColor so legacy rows still
// render.
var statusColors = map[string]string{
	string(enums.RepairStatusNew):             "#4e79a7",
	string(enums.RepairStatusContacted):       "#f28e2b",
	string(enums.RepairStatusAwaitingDropOff): "#e15759",
	string(enums.RepairStatusDroppedOff):      "#76b7b2",
	string(enums.RepairStatusInRepair):        "#59a14f",
	string(enums.RepairStatusAwaitingPickup):  "#edc948",
	string(enums.RepairStatusPickedUp):        "#b07aa1",
	string(enums.RepairStatusCouldNotRepair):  "#9c755f",
}

const fallbackColor = "#bab0ac"

// ChartPayload is the label/dataset shape the dashboard's charting layer
// consumes directly.
type ChartPayload struct {
	Labels   []string       `json:"labels"`
	Datasets []ChartDataset `json:"datasets"`
}

// ChartDataset is one series of a chart.
type ChartDataset struct {
	Label            string   `json:"label"`
	Data             []string `json:"data"`
	BackgroundColors []string `json:"backgroundColor,omitempty"`
}

// StatusChart renders the repair status distribution as a doughnut-chart
// payload. Labels carry the count on a second line so slices are readable
// without a tooltip.
func StatusChart(distribution []StatusCount) ChartPayload {
	labels := make([]string, 0, len(distribution))
	data := make([]string, 0, len(distribution))
	colors := make([]string, 0, len(distribution))
	for _, slice := range distribution {
		labels = append(labels, fmt.Sprintf("%s\n(%d)", slice.Status, slice.Count))
		data = append(data, fmt.Sprintf("%d", slice.Count))
		color, ok := statusColors[slice.Status]
		if !ok {
			color = fallbackColor
		}
		colors = append(colors, color)
	}
	return ChartPayload{
		Labels: labels,
		Datasets: []ChartDataset{{
			Label:            "Repairs",
			Data:             data,
			BackgroundColors: colors,
		}},
	}
}

// RevenueChart renders the seven-day revenue window as a bar-chart payload.
// Amounts are fixed to two decimal places.
func RevenueChart(buckets []RevenueBucket) ChartPayload {
	labels := make([]string, 0, len(buckets))
	data := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		labels = append(labels, bucket.Date)
		data = append(data, bucket.Revenue.StringFixed(2))
	}
	return ChartPayload{
		Labels: labels,
		Datasets: []ChartDataset{{
			Label: "Revenue",
			Data:  data,
		}},
	}
}
