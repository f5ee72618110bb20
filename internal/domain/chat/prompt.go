package chat

import (
	"fmt"
	"strconv"
	"strings"

	"pet-health-chat/internal/domain/pets"
)

const defaultSystemPrompt = `You are an AI veterinary assistant designed to help pet owners with their pet health questions. Your role is to:

1. Provide reliable, accurate, and actionable pet care information
2. Answer questions about pet health and wellness
3. Help identify potential symptoms and suggest appropriate next steps
4. Offer emergency guidance when needed
5. Share preventive care and wellness tips

Important guidelines:
- Always prioritize pet safety and well-being
- Recommend veterinary consultation for serious concerns
- Provide breed-specific advice when relevant
- Base responses on current veterinary standards
- Be clear about limitations and when professional vet care is needed
- Keep responses clear, concise, and easy to understand
- Maintain context from previous messages in the conversation
- Ask clarifying questions when needed for better diagnosis

Remember: You are not a replacement for professional veterinary care. Always advise seeking veterinary attention for serious or emergency situations.`

// Prompts son los textos fijos del asistente. En los greetings, {name} se
// reemplaza por el nombre de la mascota y {count} por la cantidad de registros.
type Prompts struct {
	System          string
	Acknowledgment  string
	GreetingGeneral string
	GreetingPet     string
	GreetingHistory string
}

func DefaultPrompts() Prompts {
	return Prompts{
		System:          defaultSystemPrompt,
		Acknowledgment:  "Understood. I will act as a veterinary assistant and use the pet information provided, if any, in my answers.",
		GreetingGeneral: "Hello! I'm your AI veterinary assistant. How can I help you and your pet today?",
		GreetingPet:     "Hello! I'm ready to help with {name}. There is no medical history recorded yet, so tell me what's going on and I'll do my best to help.",
		GreetingHistory: "Hello! I'm ready to help with {name}. I have access to {name}'s medical history ({count} records), so feel free to ask about past conditions or new symptoms.",
	}
}

// Override pisa los campos no vacíos de o.
func (p Prompts) Override(o Prompts) Prompts {
	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&p.System, o.System)
	set(&p.Acknowledgment, o.Acknowledgment)
	set(&p.GreetingGeneral, o.GreetingGeneral)
	set(&p.GreetingPet, o.GreetingPet)
	set(&p.GreetingHistory, o.GreetingHistory)
	return p
}

// SeedTurns arma el historial inicial de una sesión nueva.
func (p Prompts) SeedTurns(pet *pets.Pet) []Turn {
	instruction := p.System
	if pet != nil {
		instruction += "\n\n" + RenderPet(*pet)
	}
	return []Turn{
		{Role: RoleUser, Text: instruction},
		{Role: RoleAssistant, Text: p.Acknowledgment},
	}
}

// Greeting es la respuesta a un mensaje vacío.
func (p Prompts) Greeting(pet *pets.Pet) string {
	if pet == nil {
		return p.GreetingGeneral
	}
	tpl := p.GreetingPet
	if len(pet.MedicalHistory) > 0 {
		tpl = p.GreetingHistory
	}
	return strings.NewReplacer(
		"{name}", pet.Name,
		"{count}", strconv.Itoa(len(pet.MedicalHistory)),
	).Replace(tpl)
}

// RenderPet serializa el perfil y el historial (más nuevo primero) para el modelo.
func RenderPet(p pets.Pet) string {
	var b strings.Builder

	breed := p.Breed
	if breed == "" {
		breed = "Unknown"
	}

	b.WriteString("Pet information:\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Species: %s\n", p.Species)
	fmt.Fprintf(&b, "Breed: %s\n", breed)
	fmt.Fprintf(&b, "Age: %s years\n", formatNumber(p.Age))
	fmt.Fprintf(&b, "Weight: %s kg\n", formatNumber(p.Weight))

	history := p.HistoryNewestFirst()
	if len(history) == 0 {
		b.WriteString("\nMedical history: no records.\n")
		return b.String()
	}

	b.WriteString("\nMedical history (newest first):\n")
	for i, r := range history {
		fmt.Fprintf(&b, "\nRecord %d\n", i+1)
		fmt.Fprintf(&b, "Date: %s\n", r.Date.UTC().Format("2006-01-02"))
		if r.Type != "" {
			fmt.Fprintf(&b, "Type: %s\n", r.Type)
			fmt.Fprintf(&b, "Description: %s\n", r.Description)
		}
		writeField(&b, "Symptoms", r.Symptoms)
		writeField(&b, "Diagnosis", r.Diagnosis)
		writeField(&b, "Treatment", r.Treatment)
		writeField(&b, "Notes", r.Notes)
	}
	return b.String()
}

func writeField(b *strings.Builder, label, v string) {
	if v == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", label, v)
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
