package models

import "fmt"

// BotPersona is one of the four fixed interpreter personalities. The value
// is the wire representation; the gender and style split out of it are what
// the bot-settings endpoint expects.
type BotPersona string

const (
	PersonaEasternMale   BotPersona = "eastern_male"
	PersonaEasternFemale BotPersona = "eastern_female"
	PersonaWesternMale   BotPersona = "western_male"
	PersonaWesternFemale BotPersona = "western_female"
)

// DefaultPersona is used when a room carries settings the client does not
// recognize.
const DefaultPersona = PersonaEasternFemale

// AllPersonas lists the selectable personas in presentation order.
var AllPersonas = []BotPersona{
	PersonaEasternMale,
	PersonaEasternFemale,
	PersonaWesternMale,
	PersonaWesternFemale,
}

// BotSettings is the (gender, style) pair stored on a room and sent to the
// bot-settings endpoint.
type BotSettings struct {
	Gender string `json:"gender"`
	Style  string `json:"style"`
}

// Persona maps room settings onto a persona, falling back to the default
// for unknown combinations.
func (s BotSettings) Persona() BotPersona {
	switch [2]string{s.Style, s.Gender} {
	case [2]string{"eastern", "male"}:
		return PersonaEasternMale
	case [2]string{"eastern", "female"}:
		return PersonaEasternFemale
	case [2]string{"western", "male"}:
		return PersonaWesternMale
	case [2]string{"western", "female"}:
		return PersonaWesternFemale
	default:
		return DefaultPersona
	}
}

func (p BotPersona) Gender() string {
	switch p {
	case PersonaEasternMale, PersonaWesternMale:
		return "male"
	default:
		return "female"
	}
}

func (p BotPersona) Style() string {
	switch p {
	case PersonaEasternMale, PersonaEasternFemale:
		return "eastern"
	default:
		return "western"
	}
}

// Settings returns the wire pair for persona update requests.
func (p BotPersona) Settings() BotSettings {
	return BotSettings{Gender: p.Gender(), Style: p.Style()}
}

func (p BotPersona) DisplayName() string {
	switch p {
	case PersonaEasternMale:
		return "Eastern sage"
	case PersonaEasternFemale:
		return "Eastern seer"
	case PersonaWesternMale:
		return "Western analyst"
	case PersonaWesternFemale:
		return "Western dreamer"
	default:
		return string(p)
	}
}

func (p BotPersona) Description() string {
	switch p {
	case PersonaEasternMale:
		return "A warm, wise interpreter in the eastern tradition"
	case PersonaEasternFemale:
		return "A subtle, intuitive interpreter in the eastern tradition"
	case PersonaWesternMale:
		return "A logical, methodical interpreter in the western tradition"
	case PersonaWesternFemale:
		return "An emotive, imaginative interpreter in the western tradition"
	default:
		return ""
	}
}

// ParsePersona resolves user input (wire value) to a persona.
func ParsePersona(s string) (BotPersona, error) {
	for _, p := range AllPersonas {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown persona %q", s)
}
