package taxonomy

// synonyms maps modern or ambiguous skill phrases onto terms the taxonomy
// actually carries. Lookup is on the normalized (trimmed, lowercased)
// phrase; the raw phrase is preserved in the match result.
var synonyms = map[string]string{
	"llm":                "machine learning",
	"llms":               "machine learning",
	"large language models": "machine learning",
	"genai":              "artificial intelligence",
	"generative ai":      "artificial intelligence",
	"prompt engineering": "natural language processing",
	"chatbots":           "natural language processing",
	"mlops":              "machine learning",
	"rag":                "information retrieval",
	"vector databases":   "information retrieval",
}

// searchTerm returns the taxonomy-friendly term for a normalized phrase,
// or the phrase itself when no synonym is registered.
func searchTerm(normalized string) string {
	if mapped, ok := synonyms[normalized]; ok {
		return mapped
	}
	return normalized
}
