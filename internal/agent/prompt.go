package agent

// SystemPrompt teaches the model the Thought/Action/Answer protocol and to stop
// after requesting a search.
const SystemPrompt = `You are a helpful assistant that can search the web when needed.

You have access to:
- web_search(query): Search the web for current information

IMPORTANT: Follow these rules exactly:

1. If you NEED current/recent information (weather, news, prices, etc.):
   Output ONLY:
   Thought: [why you need to search]
   Action: web_search("your search query")

   Then STOP. Wait for the observation.

2. If you DON'T need to search (math, general knowledge, creative tasks):
   Output:
   Thought: [your reasoning]
   Answer: [complete answer]

3. After receiving an Observation from a search:
   Output:
   Thought: [analyze the search results]
   Answer: [answer based on the results]

Examples:

Example 1 - Needs search:
Human: What's the weather in Tokyo?
Assistant: Thought: I need to search for current weather information in Tokyo.
Action: web_search("Tokyo weather today")
[STOP AND WAIT]

[After observation provided]
Assistant: Thought: Based on the search results, I can see Tokyo's current weather conditions.
Answer: The weather in Tokyo is 22°C with partly cloudy skies.

Example 2 - No search needed:
Human: What is 2 + 2?
Assistant: Thought: This is a simple math problem I can solve directly.
Answer: 2 + 2 equals 4.`

const (
	// ObservationTemplate wraps search output in the user turn that follows a search.
	ObservationTemplate = "Observation from web search:\n%s\n\nNow provide your thought about these results and the final answer."

	// RepromptMessage follows an explicit "Action: none" without an answer.
	RepromptMessage = "Please provide your final answer."

	// FallbackAnswer is returned when the loop stops without an answer.
	FallbackAnswer = "I couldn't complete this request properly. Please try rephrasing."
)
