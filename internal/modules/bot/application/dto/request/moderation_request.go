package request

type ModerationToggleRequest struct {
	Enabled *bool `json:"enabled"`
}
