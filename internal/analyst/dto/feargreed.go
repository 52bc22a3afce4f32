package dto

// FearGreedResponse is the alternative.me /fng/ envelope.
type FearGreedResponse struct {
	Name string          `json:"name"`
	Data []FearGreedData `json:"data"`
}

// FearGreedData is one index reading. Value is a stringified 0-100 integer.
type FearGreedData struct {
	Value               string `json:"value"`
	ValueClassification string `json:"value_classification"`
	Timestamp           string `json:"timestamp"`
}
