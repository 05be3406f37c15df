// Package bizconfig defines the canonical receptionist configuration
// for an onboarded business and the normalizer that coerces arbitrary
// partial or legacy-shaped input into it.
package bizconfig

// BusinessConfig is the persisted canonical schema. Every field has an
// explicit default so a config produced by the extractor is always
// complete enough to drive the receptionist.
type BusinessConfig struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Tagline       string        `json:"tagline"`
	BrandIdentity BrandIdentity `json:"brandIdentity"`

	Locations []Location        `json:"locations"`
	Hours     map[string]string `json:"hours"`
	Team      []TeamMember      `json:"team"`
	Services  []Service         `json:"services"`

	Memberships []string `json:"memberships"`
	Packages    []string `json:"packages"`
	Policies    Policies `json:"policies"`
	FAQs        []string `json:"faqs"`

	Booking           Booking           `json:"booking"`
	Safety            Safety            `json:"safety"`
	ConsultationFlows ConsultationFlows `json:"consultationFlows"`
	AIBehavior        AIBehavior        `json:"aiBehavior"`
	Memory            Memory            `json:"memory"`
}

type BrandIdentity struct {
	Tone             string   `json:"tone"`
	Voice            string   `json:"voice"`
	Keywords         []string `json:"keywords"`
	PersonaName      string   `json:"personaName"`
	PersonaBackstory string   `json:"personaBackstory"`
}

type Location struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Parking string `json:"parking"`
}

type TeamMember struct {
	Name           string   `json:"name"`
	Role           string   `json:"role"`
	Title          string   `json:"title"`
	Bio            string   `json:"bio"`
	Specialties    []string `json:"specialties"`
	Certifications []string `json:"certifications"`
}

type Service struct {
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	DescriptionShort  string   `json:"descriptionShort"`
	DescriptionLong   string   `json:"descriptionLong"`
	Benefits          []string `json:"benefits"`
	IdealCandidate    string   `json:"idealCandidate"`
	Contraindications []string `json:"contraindications"`
	PreCare           []string `json:"preCare"`
	PostCare          []string `json:"postCare"`
	Downtime          string   `json:"downtime"`
	Frequency         string   `json:"frequency"`
	DurationMinutes   int      `json:"durationMinutes"`
	Price             Price    `json:"price"`
	FAQs              []string `json:"faqs"`
	Upsells           []string `json:"upsells"`
	CrossSells        []string `json:"crossSells"`
}

type Price struct {
	StartingAt float64 `json:"startingAt"`
	Range      string  `json:"range"`
	PerUnit    string  `json:"perUnit"`
	Notes      string  `json:"notes"`
}

type Policies struct {
	Cancellation string `json:"cancellation"`
	NoShow       string `json:"noShow"`
	Late         string `json:"late"`
	Refund       string `json:"refund"`
	Children     string `json:"children"`
}

type Booking struct {
	Type            string  `json:"type"`
	RequiresPayment bool    `json:"requiresPayment"`
	DepositAmount   float64 `json:"depositAmount"`
	URL             string  `json:"url"`
	Instructions    string  `json:"instructions"`
}

type Safety struct {
	Disclaimers     []string `json:"disclaimers"`
	RedFlags        []string `json:"redFlags"`
	EscalationRules string   `json:"escalationRules"`
}

type ConsultationFlows struct {
	Botox      string `json:"botox"`
	Filler     string `json:"filler"`
	Skincare   string `json:"skincare"`
	WeightLoss string `json:"weightLoss"`
	Laser      string `json:"laser"`
}

type AIBehavior struct {
	Tone              string   `json:"tone"`
	Identity          string   `json:"identity"`
	SpeakingStyle     string   `json:"speakingStyle"`
	GreetingStyle     string   `json:"greetingStyle"`
	SalesStyle        string   `json:"salesStyle"`
	ObjectionHandling string   `json:"objectionHandling"`
	ClosingPhrases    []string `json:"closingPhrases"`
}

type Memory struct {
	Store        []string `json:"store"`
	RecallRules  string   `json:"recallRules"`
	PrivacyRules string   `json:"privacyRules"`
}
