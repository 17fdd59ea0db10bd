package llm

import "fmt"

// SystemPrompt is the fixed instruction sent with every generation
// call.
const SystemPrompt = `You are an expert analyst for Indian Unicorn Startups.
Answer questions using ONLY the provided context from the knowledge graph.
Be concise and factual. Format currency values as "$N B" (billions).
If the context does not contain the answer, say so plainly instead of guessing.`

// BuildPrompt combines the retrieved context and the user question
// into the single prompt sent to the generation endpoint.
func BuildPrompt(question, context string) string {
	return fmt.Sprintf(`Context from the knowledge graph:
%s

Question: %s

Answer based on the context above:`, context, question)
}
