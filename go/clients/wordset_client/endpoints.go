package wordset_client

const (
	WordSetEndpoint  = "/api/WordSet"
	EvaluateEndpoint = "/api/WordSet/evaluate"
)
