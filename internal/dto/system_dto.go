package dto

type ConfigResponse struct {
	Version         string `json:"version"`
	LatestVersion   string `json:"latest_version,omitempty"`
	UpdateAvailable bool   `json:"update_available"`
	DatabaseOk      bool   `json:"database_ok"`
	LLMProvider     string `json:"llm_provider"`
	LLMModel        string `json:"llm_model"`
}

type ReembedResponse struct {
	Queued bool `json:"queued"`
}
