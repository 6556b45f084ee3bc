package models

import (
	"time"
)

// ServiceInfo describes a service detected on a port inside the workspace
type ServiceInfo struct {
	Port        int       `json:"port"`
	ServiceType string    `json:"service_type"`
	Health      string    `json:"health"`
	LastSeen    time.Time `json:"last_seen"`
	Title       string    `json:"title,omitempty"`
	PID         int       `json:"pid,omitempty"`
	Command     string    `json:"command,omitempty"`
	WorkingDir  string    `json:"working_dir,omitempty"`
}

// PortsResponse is the /v1/ports payload
type PortsResponse struct {
	Ports map[int]*ServiceInfo `json:"ports"`
	Count int                  `json:"count"`
}
