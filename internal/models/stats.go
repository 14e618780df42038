package models

import "time"

type DashboardStats struct {
	TotalPatients        int `json:"totalPatients"`
	TotalDoctors         int `json:"totalDoctors"`
	PendingVerifications int `json:"pendingVerifications"`
	TotalAppointments    int `json:"totalAppointments"`
}

// StreamToken is a freshly issued credential for the chat/video provider.
type StreamToken struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
