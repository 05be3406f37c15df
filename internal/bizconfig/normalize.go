package bizconfig

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Placeholder values synthesized when extraction yields nothing for a
// section that must never be empty.
var (
	defaultHours = map[string]string{"Monday-Sunday": "9:00 AM - 5:00 PM"}

	defaultMemoryStore = []string{"client preferences", "treatment history", "upcoming appointments"}
)

// Normalize coerces a config of unknown shape into the canonical
// schema. It is total (never fails) and idempotent: normalizing an
// already-canonical config returns an equivalent one.
func Normalize(raw map[string]any) *BusinessConfig {
	if raw == nil {
		raw = map[string]any{}
	}

	cfg := &BusinessConfig{
		ID:            str(raw["id"]),
		Name:          str(raw["name"]),
		Tagline:       str(raw["tagline"]),
		BrandIdentity: normalizeBrand(raw["brandIdentity"]),

		Locations: normalizeLocations(raw["locations"]),
		Hours:     normalizeHours(raw["hours"]),
		Team:      normalizeTeam(raw["team"]),
		Services:  normalizeServices(raw["services"]),

		Memberships: strSlice(raw["memberships"]),
		Packages:    strSlice(raw["packages"]),
		Policies:    normalizePolicies(raw["policies"]),
		FAQs:        strSlice(raw["faqs"]),

		Booking:           normalizeBooking(raw["booking"]),
		Safety:            normalizeSafety(raw["safety"]),
		ConsultationFlows: normalizeFlows(raw["consultationFlows"]),
		AIBehavior:        normalizeAIBehavior(raw),
		Memory:            normalizeMemory(raw["memory"]),
	}

	if len(cfg.Locations) == 0 {
		cfg.Locations = []Location{{Name: "Main Office"}}
	}
	if len(cfg.Hours) == 0 {
		cfg.Hours = map[string]string{}
		for k, v := range defaultHours {
			cfg.Hours[k] = v
		}
	}
	if len(cfg.Services) == 0 {
		cfg.Services = []Service{placeholderService()}
	}
	return cfg
}

func placeholderService() Service {
	s := emptyService()
	s.Name = "Consultation"
	s.Category = "general"
	s.DescriptionShort = "Complimentary consultation to discuss goals and treatment options."
	s.DurationMinutes = 30
	return s
}

func emptyService() Service {
	return Service{
		Benefits:          []string{},
		Contraindications: []string{},
		PreCare:           []string{},
		PostCare:          []string{},
		FAQs:              []string{},
		Upsells:           []string{},
		CrossSells:        []string{},
	}
}

func normalizeBrand(v any) BrandIdentity {
	m := asMap(v)
	return BrandIdentity{
		Tone:             str(m["tone"]),
		Voice:            str(m["voice"]),
		Keywords:         strSlice(m["keywords"]),
		PersonaName:      str(m["personaName"]),
		PersonaBackstory: str(m["personaBackstory"]),
	}
}

func normalizeLocations(v any) []Location {
	out := []Location{}
	for _, e := range asSlice(v) {
		m := asMap(e)
		loc := Location{
			Name:    str(m["name"]),
			Address: str(m["address"]),
			Phone:   str(m["phone"]),
			Email:   str(m["email"]),
			Parking: str(m["parking"]),
		}
		// a bare string entry is treated as an address
		if m == nil {
			loc.Address = str(e)
		}
		if loc != (Location{}) {
			out = append(out, loc)
		}
	}
	return out
}

func normalizeHours(v any) map[string]string {
	out := map[string]string{}
	for k, val := range asMap(v) {
		if s := str(val); s != "" {
			out[k] = s
		}
	}
	return out
}

func normalizeTeam(v any) []TeamMember {
	out := []TeamMember{}
	for _, e := range asSlice(v) {
		m := asMap(e)
		member := TeamMember{
			Name:           str(m["name"]),
			Role:           str(m["role"]),
			Title:          str(m["title"]),
			Bio:            str(m["bio"]),
			Specialties:    strSlice(m["specialties"]),
			Certifications: strSlice(m["certifications"]),
		}
		if m == nil {
			member.Name = str(e)
		}
		if member.Name != "" || member.Role != "" {
			out = append(out, member)
		}
	}
	return out
}

func normalizeServices(v any) []Service {
	out := []Service{}
	for _, e := range asSlice(v) {
		m := asMap(e)
		if m == nil {
			if name := str(e); name != "" {
				s := emptyService()
				s.Name = name
				out = append(out, s)
			}
			continue
		}
		s := Service{
			Name:              str(m["name"]),
			Category:          str(m["category"]),
			DescriptionShort:  str(m["descriptionShort"]),
			DescriptionLong:   str(m["descriptionLong"]),
			Benefits:          strSlice(m["benefits"]),
			IdealCandidate:    str(m["idealCandidate"]),
			Contraindications: strSlice(m["contraindications"]),
			PreCare:           strSlice(m["preCare"]),
			PostCare:          strSlice(m["postCare"]),
			Downtime:          str(m["downtime"]),
			Frequency:         str(m["frequency"]),
			DurationMinutes:   intVal(m["durationMinutes"]),
			Price:             normalizePrice(m["price"]),
			FAQs:              strSlice(m["faqs"]),
			Upsells:           strSlice(m["upsells"]),
			CrossSells:        strSlice(m["crossSells"]),
		}
		if s.Name != "" {
			out = append(out, s)
		}
	}
	return out
}

// normalizePrice lifts legacy bare-number (or "$400"-style string)
// prices into the structured shape as startingAt.
func normalizePrice(v any) Price {
	switch p := v.(type) {
	case map[string]any:
		return Price{
			StartingAt: floatVal(p["startingAt"]),
			Range:      str(p["range"]),
			PerUnit:    str(p["perUnit"]),
			Notes:      str(p["notes"]),
		}
	case float64, int, int64, json.Number:
		return Price{StartingAt: floatVal(p)}
	case string:
		if n, ok := parseMoney(p); ok {
			return Price{StartingAt: n}
		}
		return Price{Notes: p}
	default:
		return Price{}
	}
}

func normalizePolicies(v any) Policies {
	m := asMap(v)
	return Policies{
		Cancellation: str(m["cancellation"]),
		NoShow:       str(m["noShow"]),
		Late:         str(m["late"]),
		Refund:       str(m["refund"]),
		Children:     str(m["children"]),
	}
}

func normalizeBooking(v any) Booking {
	m := asMap(v)
	b := Booking{
		Type:            str(m["type"]),
		RequiresPayment: boolVal(m["requiresPayment"]),
		DepositAmount:   floatVal(m["depositAmount"]),
		URL:             str(m["url"]),
		Instructions:    str(m["instructions"]),
	}
	if b.Type == "" {
		b.Type = "mock"
		b.RequiresPayment = false
	}
	return b
}

func normalizeSafety(v any) Safety {
	m := asMap(v)
	return Safety{
		Disclaimers:     strSlice(m["disclaimers"]),
		RedFlags:        strSlice(m["redFlags"]),
		EscalationRules: str(m["escalationRules"]),
	}
}

func normalizeFlows(v any) ConsultationFlows {
	m := asMap(v)
	return ConsultationFlows{
		Botox:      str(m["botox"]),
		Filler:     str(m["filler"]),
		Skincare:   str(m["skincare"]),
		WeightLoss: str(m["weightLoss"]),
		Laser:      str(m["laser"]),
	}
}

// normalizeAIBehavior reads the nested aiBehavior object, falling back
// to the legacy flat tone/identity pair when the nested fields are
// absent, then fills stable defaults.
func normalizeAIBehavior(raw map[string]any) AIBehavior {
	m := asMap(raw["aiBehavior"])
	b := AIBehavior{
		Tone:              str(m["tone"]),
		Identity:          str(m["identity"]),
		SpeakingStyle:     str(m["speakingStyle"]),
		GreetingStyle:     str(m["greetingStyle"]),
		SalesStyle:        str(m["salesStyle"]),
		ObjectionHandling: str(m["objectionHandling"]),
		ClosingPhrases:    strSlice(m["closingPhrases"]),
	}
	if b.Tone == "" {
		b.Tone = str(raw["tone"])
	}
	if b.Identity == "" {
		b.Identity = str(raw["identity"])
	}

	if b.Tone == "" {
		b.Tone = "warm, friendly, professional"
	}
	if b.Identity == "" {
		b.Identity = "front desk receptionist"
	}
	if b.SpeakingStyle == "" {
		b.SpeakingStyle = "concise and conversational"
	}
	if b.GreetingStyle == "" {
		b.GreetingStyle = "greet returning clients by name"
	}
	if b.SalesStyle == "" {
		b.SalesStyle = "consultative, never pushy"
	}
	if b.ObjectionHandling == "" {
		b.ObjectionHandling = "acknowledge the concern, answer honestly, offer a consultation"
	}
	return b
}

func normalizeMemory(v any) Memory {
	m := asMap(v)
	mem := Memory{
		Store:        strSlice(m["store"]),
		RecallRules:  str(m["recallRules"]),
		PrivacyRules: str(m["privacyRules"]),
	}
	if len(mem.Store) == 0 {
		mem.Store = append([]string{}, defaultMemoryStore...)
	}
	if mem.RecallRules == "" {
		mem.RecallRules = "recall only details the client shared in prior conversations"
	}
	if mem.PrivacyRules == "" {
		mem.PrivacyRules = "never reveal one client's information to another; do not store medical records"
	}
	return mem
}

// ---- coercion helpers ----

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	// a lone non-array value counts as a one-element array
	if v != nil {
		return []any{v}
	}
	return nil
}

func str(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return ""
	}
}

// strSlice coerces any value into a slice of strings. Non-array input
// becomes a one-element slice; structured entries are stringified as
// JSON so no information is dropped.
func strSlice(v any) []string {
	out := []string{}
	entries, ok := v.([]any)
	if !ok {
		if v == nil {
			return out
		}
		entries = []any{v}
	}
	for _, e := range entries {
		switch val := e.(type) {
		case string:
			if val != "" {
				out = append(out, val)
			}
		case map[string]any, []any:
			if raw, err := json.Marshal(val); err == nil {
				out = append(out, string(raw))
			}
		default:
			if s := str(val); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func floatVal(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		if f, ok := parseMoney(n); ok {
			return f
		}
	}
	return 0
}

func intVal(v any) int {
	return int(floatVal(v))
}

func boolVal(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true"
	}
	return false
}

// parseMoney parses strings that are purely a money literal, such as
// "$400", "400.00" or "1,200". Anything with extra prose fails so the
// original text is preserved as notes instead.
func parseMoney(s string) (float64, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
