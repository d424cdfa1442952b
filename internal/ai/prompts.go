package ai

// System instructions for the generation operations.
const (
	// ChatSystemInstruction steers the plain text generation mode.
	ChatSystemInstruction = "You are a helpful assistant. Answer in the language the user writes in, clearly and concisely."

	// CodeSystemInstruction steers the code generation mode.
	CodeSystemInstruction = "You are an expert programmer. Produce working code for the user's request with a short explanation of how it works."

	// ImagePromptInstruction asks the chat model to rewrite a user prompt
	// into a richer English prompt for the image model.
	ImagePromptInstruction = "Improve the following prompt for an image generation model. Reply with the improved prompt in English only, nothing else: "

	// SearchSystemInstruction steers the web search mode. Grounding results
	// come from the search tool attached to the request.
	SearchSystemInstruction = "Answer the user's question using only information found on the web. Synthesize the sources into a complete and accurate response and avoid speculation."
)
