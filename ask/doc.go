// Package ask orchestrates retrieval-augmented answering: it embeds the
// question, pulls the closest chunks from the session's vector index,
// assembles a token-budgeted prompt with recent conversation history and
// generates the answer.
package ask
