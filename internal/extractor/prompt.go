package extractor

import (
	"fmt"
	"strings"
)

// configSchema is the target shape the model must fill. It mirrors
// bizconfig.BusinessConfig field for field.
const configSchema = `{
  "id": "string",
  "name": "string",
  "tagline": "string",
  "brandIdentity": {"tone": "string", "voice": "string", "keywords": ["string"], "personaName": "string", "personaBackstory": "string"},
  "locations": [{"name": "string", "address": "string", "phone": "string", "email": "string", "parking": "string"}],
  "hours": {"<day or day-range>": "<time range>"},
  "team": [{"name": "string", "role": "string", "title": "string", "bio": "string", "specialties": ["string"], "certifications": ["string"]}],
  "services": [{"name": "string", "category": "string", "descriptionShort": "string", "descriptionLong": "string", "benefits": ["string"], "idealCandidate": "string", "contraindications": ["string"], "preCare": ["string"], "postCare": ["string"], "downtime": "string", "frequency": "string", "durationMinutes": 0, "price": {"startingAt": 0, "range": "string", "perUnit": "string", "notes": "string"}, "faqs": ["string"], "upsells": ["string"], "crossSells": ["string"]}],
  "memberships": ["string"],
  "packages": ["string"],
  "policies": {"cancellation": "string", "noShow": "string", "late": "string", "refund": "string", "children": "string"},
  "faqs": ["string"],
  "booking": {"type": "string", "requiresPayment": false, "depositAmount": 0, "url": "string", "instructions": "string"},
  "safety": {"disclaimers": ["string"], "redFlags": ["string"], "escalationRules": "string"},
  "consultationFlows": {"botox": "string", "filler": "string", "skincare": "string", "weightLoss": "string", "laser": "string"},
  "aiBehavior": {"tone": "string", "identity": "string", "speakingStyle": "string", "greetingStyle": "string", "salesStyle": "string", "objectionHandling": "string", "closingPhrases": ["string"]},
  "memory": {"store": ["string"], "recallRules": "string", "privacyRules": "string"}
}`

var promptRules = []string{
	"Extract every service you can find, mapping its price and descriptions into the rich service schema.",
	"Extract every physical location as its own array entry. Never collapse multiple locations into one, and never use a placeholder when real address-like text exists.",
	"Normalize opening hours into day-to-time-range pairs.",
	"Recognize booking or calendar links (Calendly, Vagaro, Boulevard, etc.) and set booking.type and booking.url accordingly.",
	"Infer missing numeric or categorical fields (treatment duration, price range, ideal candidate) from typical industry values rather than leaving them blank.",
	"Return JSON only. No prose, no markdown fencing.",
}

func buildPrompt(ownerID, domainHint, input string) string {
	var sb strings.Builder
	sb.WriteString("You are configuring an AI receptionist for a medical spa.\n")
	fmt.Fprintf(&sb, "Business id: %s\n", ownerID)
	if domainHint != "" {
		fmt.Fprintf(&sb, "Business website: %s\n", domainHint)
	}
	sb.WriteString("\nFrom the website content below, produce a single JSON object matching this schema exactly:\n\n")
	sb.WriteString(configSchema)
	sb.WriteString("\n\nRules:\n")
	for i, rule := range promptRules {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, rule)
	}
	sb.WriteString("\nWebsite content:\n")
	sb.WriteString(input)
	return sb.String()
}
