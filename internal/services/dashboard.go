package services

import "visatrack_backend/internal/models"

// DashboardStats are the aggregate counts the panel charts are drawn from.
// They are computed in memory from the full client list; the table holds
// hundreds of rows at most.
type DashboardStats struct {
	TotalClients  int            `json:"totalClients"`
	AgeGroups     map[string]int `json:"ageGroups"`
	GenderCount   map[string]int `json:"genderCount"`
	LocationCount map[string]int `json:"locationCount"`
	VisaTypeCount map[string]int `json:"visaTypeCount"`
}

// BuildDashboardStats folds the client list into chart buckets. All age-group
// keys are present even when zero, and ages outside every bracket fall into
// the open-ended one.
func BuildDashboardStats(clients []models.Client) DashboardStats {
	stats := DashboardStats{
		TotalClients: len(clients),
		AgeGroups: map[string]int{
			"18-25": 0,
			"26-35": 0,
			"36-45": 0,
			"46-55": 0,
			"56+":   0,
		},
		GenderCount:   map[string]int{"Male": 0, "Female": 0, "Other": 0},
		LocationCount: map[string]int{},
		VisaTypeCount: map[string]int{},
	}

	for _, client := range clients {
		switch age := client.Age; {
		case age >= 18 && age <= 25:
			stats.AgeGroups["18-25"]++
		case age >= 26 && age <= 35:
			stats.AgeGroups["26-35"]++
		case age >= 36 && age <= 45:
			stats.AgeGroups["36-45"]++
		case age >= 46 && age <= 55:
			stats.AgeGroups["46-55"]++
		default:
			stats.AgeGroups["56+"]++
		}

		if _, ok := stats.GenderCount[client.Gender]; ok {
			stats.GenderCount[client.Gender]++
		}
		stats.LocationCount[client.Location]++
		stats.VisaTypeCount[client.VisaType]++
	}
	return stats
}
