package models

const HealthStatusOK = "ok"

type HealthGetResponse struct {
	Status string `json:"status" yaml:"status"`
	// TS is the server time in seconds since the Unix epoch.
	TS int64 `json:"ts" yaml:"ts"`
}
