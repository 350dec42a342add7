package models

type ChatPostRequest struct {
	// Query is the free-text question from the user.
	Query string `json:"query" yaml:"query"`
}

type ChatPostResponse struct {
	Answer  string   `json:"answer" yaml:"answer"`
	Sources []Source `json:"sources" yaml:"sources"`
	Usage   Usage    `json:"usage" yaml:"usage"`
}

// Source is a citation returned alongside an answer.
type Source struct {
	Title   string `json:"title" yaml:"title"`
	URL     string `json:"url" yaml:"url"`
	Snippet string `json:"snippet" yaml:"snippet"`
}

type Usage struct {
	LatencyMS int64 `json:"latency_ms" yaml:"latency_ms"`
}
