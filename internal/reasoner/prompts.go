package reasoner

// Prompts holds the versioned prompt set. Only v1 exists today; the version
// tag is carried in config so prompt changes stay comparable across eval runs.
type Prompts struct {
	Version string
}

func (p Prompts) ToolDecision() string {
	return "You are a helpful assistant. Given the user query and the retrieved KB snippets, decide: " +
		"(A) answer from KB only, or (B) call the CSV price lookup tool. " +
		"Only call the tool if the user is asking for a product price or price-related info.\n" +
		`Return JSON with fields: {"decision": "kb_only|use_tool", "rationale": str}.`
}

func (p Prompts) FinalAnswer() string {
	return "You are a helpful assistant. Craft a concise, accurate answer based on:\n" +
		"- User query\n- Retrieved KB context\n- Optional tool result.\n" +
		"Respond clearly. If you used the tool, cite the product and price."
}
