package response

import "strings"

// WelcomeMessage seeds every new conversation as the assistant's first turn.
const WelcomeMessage = "Hi! I'm your study assistant. Ask me anything about the materials you've uploaded and I'll answer with references to the sources."

const groundedFallbackMessage = "Sorry, something went wrong while processing the materials. Please try rephrasing your question."

const maxTopicSample = 6

// topicFallbackMessage is the canned answer when generation is unavailable
// and there is nothing retrieved to ground on.
func topicFallbackMessage(topics []string) string {
	if len(topics) == 0 {
		return "I don't have any study materials loaded yet. Upload a document and I'll be ready to help."
	}
	return "I have materials about: " + joinTopicSample(topics) + ". What would you like to learn?"
}

func joinTopicSample(topics []string) string {
	if len(topics) > maxTopicSample {
		topics = topics[:maxTopicSample]
	}
	return strings.Join(topics, ", ")
}
