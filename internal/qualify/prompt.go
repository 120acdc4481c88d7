package qualify

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxTranscriptChars bounds the transcript embedded in the prompt to respect
// provider context limits and cost. Truncation keeps the beginning of the
// call, where engagement and objections usually surface first.
const maxTranscriptChars = 15000

const truncationMarker = "\n... [transcript truncated]"

const systemPrompt = `You are a sales-lead qualification analyst. You are given the transcript of an outbound phone call made to a lead, and you extract a structured BANT qualification (Budget, Authority, Need, Timeline).

Output rules:
- Return a single JSON object only. No prose, no markdown fences, no commentary.
- Every field must be present. Use short factual sentences grounded in the transcript; never invent details.
- "intent" must be exactly one of "hot", "warm", "cold".
- "qualificationScore" must be an integer from 0 to 100.`

const responseShape = `{
  "motivation": "the lead's need or pain point, in their own terms",
  "timeline": "how urgent the lead is to solve this",
  "budget": "what was said about budget or price",
  "authority": "whether the lead can make the buying decision",
  "pastExperience": "prior attempts at similar solutions",
  "intent": "hot | warm | cold",
  "qualificationScore": 0
}`

// BuildPrompt assembles the user prompt for one qualification request:
// task statement, exact output shape, call-context hints when known, and the
// hard scoring rules that keep short or disengaged calls from scoring high.
func BuildPrompt(call CallContext) string {
	var sb strings.Builder

	sb.WriteString("Analyze the following call transcript and produce a BANT qualification.\n\n")
	sb.WriteString("Return JSON with exactly this shape:\n")
	sb.WriteString(responseShape)
	sb.WriteString("\n\n")

	if call.HasDuration() || call.EndedReason != "" {
		sb.WriteString("Call context:\n")
		if call.HasDuration() {
			fmt.Fprintf(&sb, "- Call duration: %d seconds\n", call.Duration())
		}
		if call.EndedReason != "" {
			fmt.Fprintf(&sb, "- Call ended because: %s\n", call.EndedReason)
		}
		sb.WriteString("\n")
	}

	sb.WriteString(`Scoring rubric (four components, 25 points each, summing to qualificationScore):
- Engagement: did the lead participate in a real conversation?
- Urgency/timeline: how soon do they want a solution?
- Budget clarity: was budget discussed or confirmed?
- Decision authority: can this person decide?

Hard rules:
- A very short or disengaged call must score low (under 25) no matter how positive the wording sounds.
- Only calls showing genuine two-way engagement may score above 40.

`)

	sb.WriteString("Transcript:\n")
	sb.WriteString(TruncateTranscript(call.Transcript))

	return sb.String()
}

// TruncateTranscript bounds a transcript to maxTranscriptChars, marking the
// cut. Truncation is from the end: the opening of the call is kept. The cut
// backs up to a rune boundary so the prompt never carries invalid UTF-8.
func TruncateTranscript(transcript string) string {
	if len(transcript) <= maxTranscriptChars {
		return transcript
	}
	cut := maxTranscriptChars
	for cut > 0 && !utf8.RuneStart(transcript[cut]) {
		cut--
	}
	return transcript[:cut] + truncationMarker
}
