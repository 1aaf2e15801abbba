package models

// HealthReport is the result of pinging both stores.
type HealthReport struct {
	Status string               `json:"status"`
	Stores map[StoreName]string `json:"stores"`
}

// Healthy reports whether every store answered.
func (h *HealthReport) Healthy() bool {
	return h.Status == "healthy"
}

// Metrics holds row counts read from both stores.
type Metrics struct {
	Users    int `json:"users"`
	Posts    int `json:"posts"`
	Comments int `json:"comments"`
	Tags     int `json:"tags"`
	PostTags int `json:"postTags"`
}
